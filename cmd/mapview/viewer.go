package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilemap/config"
	"github.com/milk9111/tilemap/render"
	"github.com/milk9111/tilemap/tiled"
)

var layerKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Viewer is the ebiten game that shows one map.
type Viewer struct {
	cfg        config.Viewer
	configPath string
	override   func(*config.Viewer) // reapplies command line flags after a reload

	m        *tiled.Map
	renderer *render.BatchRenderer
	camera   *render.Camera
	clock    *tiled.AnimationClock
	watcher  *config.Watcher

	targetX, targetY float64
}

// NewViewer loads cfg.Map. configPath is the file cfg was read from, if
// any; override is applied again whenever that file is reloaded.
func NewViewer(cfg config.Viewer, configPath string, override func(*config.Viewer)) (*Viewer, error) {
	v := &Viewer{
		cfg:        cfg,
		configPath: configPath,
		override:   override,
		camera:     render.NewCamera(float64(cfg.Window.Width), float64(cfg.Window.Height)),
		clock:      tiled.NewAnimationClock(time.Now()),
	}
	v.camera.SetZoom(cfg.Camera.Zoom)
	v.camera.SetSmooth(cfg.Camera.Smooth)

	if err := v.load(); err != nil {
		return nil, err
	}
	v.targetX, v.targetY = v.camera.X, v.camera.Y

	if cfg.Watch {
		w, err := config.NewWatcher(watchDirs(cfg, configPath)...)
		if err != nil {
			log.Printf("mapview: hot reload disabled: %v", err)
		} else {
			v.watcher = w
		}
	}
	return v, nil
}

// watchDirs lists the directories holding the map, the object script and
// the config file.
func watchDirs(cfg config.Viewer, configPath string) []string {
	dirs := []string{filepath.Dir(cfg.Map)}
	if cfg.Objects.Script != "" {
		dirs = append(dirs, filepath.Dir(cfg.Objects.Script))
	}
	if configPath != "" {
		dirs = append(dirs, filepath.Dir(configPath))
	}
	return dirs
}

// reloadConfig rereads the config file and reloads the map with it. On
// failure the current config and map stay in place.
func (v *Viewer) reloadConfig() error {
	cfg, err := config.LoadWith(v.configPath, v.override)
	if err != nil {
		return err
	}
	if cfg.Map == "" {
		return fmt.Errorf("mapview: %s sets no map", v.configPath)
	}

	prev := v.cfg
	v.cfg = cfg
	if err := v.load(); err != nil {
		v.cfg = prev
		return err
	}

	v.camera.SetZoom(cfg.Camera.Zoom)
	v.camera.SetSmooth(cfg.Camera.Smooth)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if v.watcher != nil {
		for _, dir := range watchDirs(cfg, v.configPath) {
			if err := v.watcher.Add(dir); err != nil {
				log.Printf("mapview: watch %s: %v", dir, err)
			}
		}
	}
	return nil
}

// isConfigFile reports whether a watcher event names the config file.
func (v *Viewer) isConfigFile(name string) bool {
	return v.configPath != "" && filepath.Clean(name) == filepath.Clean(v.configPath)
}

// pan moves the camera target, keeping it where the camera can follow.
func (v *Viewer) pan(dx, dy float64) {
	v.targetX, v.targetY = v.camera.Clamp(v.targetX+dx, v.targetY+dy)
}

// load (re)builds the map and renderer from disk. On failure the current
// map stays in place.
func (v *Viewer) load() error {
	m, err := tiled.Load(os.DirFS(filepath.Dir(v.cfg.Map)), filepath.Base(v.cfg.Map))
	if err != nil {
		return err
	}
	for _, idx := range v.cfg.Layers {
		if idx >= len(m.Layers) {
			return fmt.Errorf("mapview: layer index %d out of range (map has %d layers)", idx, len(m.Layers))
		}
	}

	var objects render.ObjectDrawer
	if !v.cfg.Objects.Hidden {
		objects, err = v.loadObjects()
		if err != nil {
			return err
		}
	}

	if v.renderer != nil {
		v.renderer.Dispose()
	}
	v.m = m
	v.renderer = render.NewOrthogonalRenderer(m, v.cfg.UnitScale, objects)

	worldW := float64(m.Width*m.TileWidth) * v.cfg.UnitScale
	worldH := float64(m.Height*m.TileHeight) * v.cfg.UnitScale
	v.camera.SetWorldBounds(worldW, worldH)
	v.camera.SnapTo(v.camera.X, v.camera.Y)
	log.Printf("mapview: loaded %s (%dx%d, %d layers)", v.cfg.Map, m.Width, m.Height, len(m.Layers))
	return nil
}

func (v *Viewer) loadObjects() (render.ObjectDrawer, error) {
	var src []byte
	if v.cfg.Objects.Script != "" {
		b, err := os.ReadFile(v.cfg.Objects.Script)
		if err != nil {
			return nil, fmt.Errorf("mapview: read object script: %w", err)
		}
		src = b
	}
	s, err := render.NewScriptObjects(src)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (v *Viewer) Update() error {
	v.reloadIfChanged()

	speed := v.cfg.Camera.PanSpeed * v.camera.Zoom()
	var dx, dy float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= speed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += speed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.camera.SetZoom(v.camera.Zoom() / 1.25)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		v.camera.SetZoom(v.camera.Zoom() * 1.25)
	}
	// zooming changes the view size, so the target is clamped every tick
	v.pan(dx, dy)

	for i, k := range layerKeys {
		if i >= len(v.m.Layers) {
			break
		}
		if inpututil.IsKeyJustPressed(k) {
			l := v.m.Layers[i]
			l.SetVisible(!l.Visible())
		}
	}

	v.camera.Update(v.targetX, v.targetY)
	return nil
}

func (v *Viewer) reloadIfChanged() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case name := <-v.watcher.Events:
			log.Printf("mapview: %s changed, reloading", name)
			reload := v.load
			if v.isConfigFile(name) {
				reload = v.reloadConfig
			}
			if err := reload(); err != nil {
				log.Printf("mapview: reload failed: %v", err)
			}
		case err := <-v.watcher.Errors:
			log.Printf("mapview: watch error: %v", err)
		default:
			return
		}
	}
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	v.renderer.SetTarget(screen)
	v.renderer.SetView(v.camera)
	if len(v.cfg.Layers) > 0 {
		v.renderer.RenderLayers(v.clock, v.cfg.Layers...)
	} else {
		v.renderer.Render(v.clock)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f  zoom: %.2f  pos: %.0f,%.0f\n%s",
		ebiten.ActualFPS(), v.camera.Zoom(), v.camera.X, v.camera.Y, v.layerStatus()))
}

func (v *Viewer) layerStatus() string {
	s := ""
	for i, l := range v.m.Layers {
		mark := " "
		if l.Visible() {
			mark = "x"
		}
		s += fmt.Sprintf("[%s] %d %s\n", mark, i+1, l.Name())
	}
	return s
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.camera.SetViewportSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Close releases the renderer and stops watching files.
func (v *Viewer) Close() {
	if v.renderer != nil {
		v.renderer.Dispose()
	}
	if v.watcher != nil {
		_ = v.watcher.Close()
	}
}

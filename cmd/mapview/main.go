package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilemap/config"
)

func main() {
	configPath := flag.String("config", "", "viewer config (yaml)")
	mapPath := flag.String("map", "", "tiled json map to view")
	layers := flag.String("layers", "", "comma separated layer indices to draw, in order")
	zoom := flag.Float64("zoom", 0, "initial camera zoom (view size = window * zoom)")
	script := flag.String("script", "", "tengo script colouring map objects")
	watch := flag.Bool("watch", false, "reload map, script and config when files change")
	flag.Parse()

	var layerIdx []int
	if *layers != "" {
		idx, err := config.ParseLayers(*layers)
		if err != nil {
			log.Fatal(err)
		}
		layerIdx = idx
	}

	override := func(cfg *config.Viewer) {
		if *mapPath != "" {
			cfg.Map = *mapPath
		}
		if layerIdx != nil {
			cfg.Layers = layerIdx
		}
		if *zoom > 0 {
			cfg.Camera.Zoom = *zoom
		}
		if *script != "" {
			cfg.Objects.Script = *script
		}
		if *watch {
			cfg.Watch = true
		}
	}

	cfg, err := config.LoadWith(*configPath, override)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Map == "" {
		log.Fatal("no map given; pass -map or set map in -config")
	}

	viewer, err := NewViewer(cfg, *configPath, override)
	if err != nil {
		log.Fatal(err)
	}
	defer viewer.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}

package tiled

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"log"
	"path"
	"time"
)

// GID flag bits set by the Tiled editor on flipped cells.
const (
	flipHorizontal = 0x80000000
	flipVertical   = 0x40000000
	flipDiagonal   = 0x20000000
	gidMask        = ^uint32(flipHorizontal | flipVertical | flipDiagonal)
)

type mapFile struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	TileWidth  int             `json:"tilewidth"`
	TileHeight int             `json:"tileheight"`
	Layers     []layerFile     `json:"layers"`
	Tilesets   []tilesetFile   `json:"tilesets"`
	Properties []propertyEntry `json:"properties,omitempty"`
}

type layerFile struct {
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Visible    *bool           `json:"visible,omitempty"`
	Opacity    *float64        `json:"opacity,omitempty"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Data       []uint32        `json:"data,omitempty"`
	Objects    []objectFile    `json:"objects,omitempty"`
	Properties []propertyEntry `json:"properties,omitempty"`
}

type objectFile struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Class      string          `json:"class"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Rotation   float64         `json:"rotation"`
	Visible    *bool           `json:"visible,omitempty"`
	Properties []propertyEntry `json:"properties,omitempty"`
}

type tilesetFile struct {
	FirstGID   int        `json:"firstgid"`
	Source     string     `json:"source,omitempty"` // external tileset, relative to the map
	Name       string     `json:"name"`
	TileWidth  int        `json:"tilewidth"`
	TileHeight int        `json:"tileheight"`
	Columns    int        `json:"columns"`
	Image      string     `json:"image"`
	Tiles      []tileFile `json:"tiles,omitempty"`
}

type tileFile struct {
	ID        int         `json:"id"`
	Animation []frameFile `json:"animation,omitempty"`
}

type frameFile struct {
	TileID   int `json:"tileid"`
	Duration int `json:"duration"` // milliseconds
}

type propertyEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Load reads a Tiled JSON map from fsys. Tileset images are resolved
// relative to the map file.
func Load(fsys fs.FS, name string) (*Map, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("tiled: read %s: %w", name, err)
	}

	var mf mapFile
	if err := json.Unmarshal(b, &mf); err != nil {
		return nil, fmt.Errorf("tiled: unmarshal %s: %w", name, err)
	}

	if mf.Width <= 0 || mf.Height <= 0 {
		return nil, fmt.Errorf("tiled: invalid map dimensions in %s: %dx%d", name, mf.Width, mf.Height)
	}

	m := &Map{
		Width:      mf.Width,
		Height:     mf.Height,
		TileWidth:  mf.TileWidth,
		TileHeight: mf.TileHeight,
		Properties: toProperties(mf.Properties),
	}

	dir := path.Dir(name)
	for _, tf := range mf.Tilesets {
		ts, err := loadTileset(fsys, dir, tf)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, ts)
	}

	for i, lf := range mf.Layers {
		switch lf.Type {
		case "tilelayer":
			tl, err := m.buildTileLayer(lf)
			if err != nil {
				return nil, fmt.Errorf("tiled: layer %d (%s): %w", i, lf.Name, err)
			}
			m.Layers = append(m.Layers, tl)
		case "objectgroup":
			m.Layers = append(m.Layers, buildObjectLayer(lf))
		default:
			log.Printf("tiled: skipping layer %d (%s): unsupported type %q", i, lf.Name, lf.Type)
		}
	}

	return m, nil
}

func loadTileset(fsys fs.FS, dir string, tf tilesetFile) (*Tileset, error) {
	if tf.Source != "" {
		ext, err := readTilesetSource(fsys, path.Join(dir, tf.Source))
		if err != nil {
			return nil, err
		}
		ext.FirstGID = tf.FirstGID
		return loadTileset(fsys, path.Dir(path.Join(dir, tf.Source)), ext)
	}
	if tf.Image == "" {
		return nil, fmt.Errorf("tiled: tileset %q (firstgid %d) has no image", tf.Name, tf.FirstGID)
	}
	imgPath := path.Join(dir, tf.Image)
	f, err := fsys.Open(imgPath)
	if err != nil {
		return nil, fmt.Errorf("tiled: open tileset image %s: %w", imgPath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tiled: decode tileset image %s: %w", imgPath, err)
	}

	ts := NewTileset(tf.Name, tf.FirstGID, tf.TileWidth, tf.TileHeight, tf.Columns, img)
	for _, t := range tf.Tiles {
		if len(t.Animation) == 0 {
			continue
		}
		frames := make([]Frame, 0, len(t.Animation))
		for _, fr := range t.Animation {
			st, ok := ts.StaticTile(fr.TileID)
			if !ok {
				return nil, fmt.Errorf("tiled: tileset %s: animation of tile %d references missing tile %d", tf.Name, t.ID, fr.TileID)
			}
			frames = append(frames, Frame{Tile: st, Duration: time.Duration(fr.Duration) * time.Millisecond})
		}
		ts.SetTile(t.ID, NewAnimatedTile(t.ID, frames...))
	}
	return ts, nil
}

// readTilesetSource reads an external JSON tileset. Its image is resolved
// relative to the tileset file, not the map.
func readTilesetSource(fsys fs.FS, name string) (tilesetFile, error) {
	var tf tilesetFile
	if ext := path.Ext(name); ext != ".json" && ext != ".tsj" {
		return tf, fmt.Errorf("tiled: tileset %s: only JSON tilesets are supported", name)
	}
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return tf, fmt.Errorf("tiled: read tileset %s: %w", name, err)
	}
	if err := json.Unmarshal(b, &tf); err != nil {
		return tf, fmt.Errorf("tiled: unmarshal tileset %s: %w", name, err)
	}
	if tf.Source != "" {
		return tf, fmt.Errorf("tiled: tileset %s: nested source %s", name, tf.Source)
	}
	return tf, nil
}

func (m *Map) buildTileLayer(lf layerFile) (*TileLayer, error) {
	w, h := lf.Width, lf.Height
	if w == 0 && h == 0 {
		w, h = m.Width, m.Height
	}
	if len(lf.Data) != w*h {
		return nil, fmt.Errorf("expected %d cells, got %d", w*h, len(lf.Data))
	}

	tl := NewTileLayer(lf.Name, w, h, m.TileWidth, m.TileHeight)
	applyLayerFlags(&tl.layerBase, lf)
	tl.Properties = toProperties(lf.Properties)

	for i, raw := range lf.Data {
		gid := int(raw & gidMask)
		if gid == 0 {
			continue
		}
		t := m.TileByGID(gid)
		if t == nil {
			return nil, fmt.Errorf("cell %d: unknown gid %d", i, gid)
		}
		tl.Cells[i] = &Cell{
			Tile:  t,
			FlipH: raw&flipHorizontal != 0,
			FlipV: raw&flipVertical != 0,
			FlipD: raw&flipDiagonal != 0,
		}
	}
	return tl, nil
}

func buildObjectLayer(lf layerFile) *ObjectLayer {
	ol := NewObjectLayer(lf.Name)
	applyLayerFlags(&ol.layerBase, lf)
	ol.Properties = toProperties(lf.Properties)
	for _, of := range lf.Objects {
		typ := of.Type
		if typ == "" {
			typ = of.Class
		}
		ol.Add(&Object{
			ID:         of.ID,
			Name:       of.Name,
			Type:       typ,
			X:          of.X,
			Y:          of.Y,
			Width:      of.Width,
			Height:     of.Height,
			Rotation:   of.Rotation,
			Visible:    of.Visible == nil || *of.Visible,
			Properties: toProperties(of.Properties),
		})
	}
	return ol
}

func applyLayerFlags(l *layerBase, lf layerFile) {
	if lf.Visible != nil {
		l.visible = *lf.Visible
	}
	if lf.Opacity != nil {
		l.opacity = *lf.Opacity
	}
}

func toProperties(entries []propertyEntry) Properties {
	if len(entries) == 0 {
		return nil
	}
	p := make(Properties, len(entries))
	for _, e := range entries {
		p[e.Name] = e.Value
	}
	return p
}

package tiled

// Properties holds free-form custom properties attached to maps, layers and objects.
type Properties map[string]any

// Map is an ordered stack of layers. Layer 0 is drawn first (bottom).
type Map struct {
	Width      int
	Height     int
	TileWidth  int
	TileHeight int

	Layers     []Layer
	Tilesets   []*Tileset
	Properties Properties
}

// LayerByName returns the first layer with the given name.
func (m *Map) LayerByName(name string) (Layer, bool) {
	for _, l := range m.Layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// TileByGID resolves a global tile id against the map tilesets.
// gid 0 is the empty tile.
func (m *Map) TileByGID(gid int) Tile {
	if gid <= 0 {
		return nil
	}
	var ts *Tileset
	for _, t := range m.Tilesets {
		if t.FirstGID <= gid && (ts == nil || t.FirstGID > ts.FirstGID) {
			ts = t
		}
	}
	if ts == nil {
		return nil
	}
	return ts.Tile(gid - ts.FirstGID)
}

// MaxTileSize returns the largest tile width and height across the map's
// tilesets, never smaller than the map grid.
func (m *Map) MaxTileSize() (int, int) {
	w, h := m.TileWidth, m.TileHeight
	for _, ts := range m.Tilesets {
		w = max(w, ts.TileWidth)
		h = max(h, ts.TileHeight)
	}
	return w, h
}

package tiled

import "image"

// Tileset is a grid of equally sized tiles cut from one image.
type Tileset struct {
	Name       string
	FirstGID   int
	TileWidth  int
	TileHeight int
	Columns    int
	Image      image.Image

	tiles   map[int]Tile
	statics map[int]*StaticTile
}

// NewTileset slices img into static tiles. Columns of 0 is derived from the image width.
func NewTileset(name string, firstGID, tileW, tileH, columns int, img image.Image) *Tileset {
	ts := &Tileset{
		Name:       name,
		FirstGID:   firstGID,
		TileWidth:  tileW,
		TileHeight: tileH,
		Columns:    columns,
		Image:      img,
		tiles:      make(map[int]Tile),
		statics:    make(map[int]*StaticTile),
	}
	if img == nil || tileW <= 0 || tileH <= 0 {
		return ts
	}
	b := img.Bounds()
	if ts.Columns <= 0 {
		ts.Columns = b.Dx() / tileW
	}
	rows := b.Dy() / tileH
	for row := 0; row < rows; row++ {
		for col := 0; col < ts.Columns; col++ {
			id := row*ts.Columns + col
			r := image.Rect(col*tileW, row*tileH, col*tileW+tileW, row*tileH+tileH).Add(b.Min)
			st := NewStaticTile(id, Region{Image: img, Bounds: r})
			ts.tiles[id] = st
			ts.statics[id] = st
		}
	}
	return ts
}

// Tile returns the tile with the given local id, or nil.
func (ts *Tileset) Tile(id int) Tile {
	return ts.tiles[id]
}

// SetTile replaces the tile at id, e.g. with an AnimatedTile.
func (ts *Tileset) SetTile(id int, t Tile) {
	ts.tiles[id] = t
}

// StaticTile returns the image slice at id, even when the id has been
// replaced by an animation.
func (ts *Tileset) StaticTile(id int) (*StaticTile, bool) {
	st, ok := ts.statics[id]
	return st, ok
}

// Len returns the number of tiles in the set.
func (ts *Tileset) Len() int {
	return len(ts.tiles)
}

package render

import (
	"math"

	"github.com/milk9111/tilemap/tiled"
)

// ObjectDrawer draws a single map object.
type ObjectDrawer interface {
	RenderObject(p *Pass, obj *tiled.Object)
}

// Orthogonal draws tile layers as a regular grid, culled to the view bounds.
// Objects are passed to Objects when set.
type Orthogonal struct {
	Objects ObjectDrawer
}

// NewOrthogonalRenderer returns a renderer owning its batch. objects may be nil.
func NewOrthogonalRenderer(m *tiled.Map, unitScale float64, objects ObjectDrawer) *BatchRenderer {
	return NewBatchRenderer(m, unitScale, &Orthogonal{Objects: objects})
}

// NewOrthogonalRendererWithBatch returns a renderer drawing into a caller-owned batch.
func NewOrthogonalRendererWithBatch(m *tiled.Map, unitScale float64, batch Batch, objects ObjectDrawer) *BatchRenderer {
	return NewBatchRendererWithBatch(m, unitScale, batch, &Orthogonal{Objects: objects})
}

func (o *Orthogonal) RenderObject(p *Pass, obj *tiled.Object) {
	if o.Objects != nil {
		o.Objects.RenderObject(p, obj)
	}
}

func (o *Orthogonal) RenderTileLayer(p *Pass, layer *tiled.TileLayer) {
	tw := float64(layer.TileWidth) * p.UnitScale
	th := float64(layer.TileHeight) * p.UnitScale
	if tw <= 0 || th <= 0 {
		return
	}

	// tiles larger than a cell reach up and right out of it, so cells left of
	// and below the view can still show
	var padCols, padRows int
	if p.Map != nil {
		mw, mh := p.Map.MaxTileSize()
		// a diagonal flip swaps width and height
		big := float64(max(mw, mh)) * p.UnitScale
		padCols = overhang(big, tw)
		padRows = overhang(big, th)
	}

	col1, col2 := cellSpan(p.View.X, p.View.Width, tw, layer.Width, padCols, 0)
	row1, row2 := cellSpan(p.View.Y, p.View.Height, th, layer.Height, 0, padRows)

	for y := row1; y < row2; y++ {
		for x := col1; x < col2; x++ {
			cell, ok := layer.Cell(x, y)
			if !ok || cell.Tile == nil {
				continue
			}
			region := cell.Tile.Region(p.Base)
			if region.Empty() {
				continue
			}

			// oversized tiles grow up and to the right from the cell's bottom-left corner
			w := float64(region.Bounds.Dx()) * p.UnitScale
			h := float64(region.Bounds.Dy()) * p.UnitScale
			if cell.FlipD {
				w, h = h, w
			}
			dst := Rect{X: float64(x) * tw, Y: float64(y+1)*th - h, Width: w, Height: h}

			p.Batch.Draw(region, dst, DrawOptions{
				FlipH: cell.FlipH,
				FlipV: cell.FlipV,
				FlipD: cell.FlipD,
				Alpha: p.Opacity,
			})
		}
	}
}

// cellSpan returns the half-open range of cells along one axis that overlap
// [start, start+length), widened by padLo and padHi cells and clamped to
// [0, count).
func cellSpan(start, length, size float64, count, padLo, padHi int) (int, int) {
	lo := int(math.Floor(start/size)) - padLo
	hi := int(math.Ceil((start+length)/size)) + padHi
	if lo < 0 {
		lo = 0
	}
	if hi > count {
		hi = count
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// overhang returns how many whole cells of size cell a tile of size tile
// extends past its own cell.
func overhang(tile, cell float64) int {
	if tile <= cell {
		return 0
	}
	return int(math.Ceil((tile - cell) / cell))
}

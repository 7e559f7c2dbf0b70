package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilemap/tiled"
)

// DrawOptions modifies a single Batch.Draw call.
type DrawOptions struct {
	FlipH bool
	FlipV bool
	FlipD bool

	// Tint multiplies the source colour. nil leaves it unchanged.
	Tint color.Color
	// Alpha multiplies the final opacity. 0 draws nothing.
	Alpha float64
}

// Batch is the draw surface a renderer issues draws against. Draws are only
// valid between Begin and End.
type Batch interface {
	SetProjection(m ebiten.GeoM)
	Begin()
	Draw(r tiled.Region, dst Rect, opts DrawOptions)
	End()
	// Dispose releases resources held by the batch. The batch is unusable afterwards.
	Dispose()
}

var (
	whitePixelOnce sync.Once
	whitePixel     tiled.Region
)

// WhitePixel returns a 1x1 opaque white region, used for tinted fills.
func WhitePixel() tiled.Region {
	whitePixelOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.White)
		whitePixel = tiled.Region{Image: img, Bounds: img.Bounds()}
	})
	return whitePixel
}

package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Camera is an orthographic 2D camera. X, Y is the world point at the center
// of the view. The visible area is ViewportWidth*Zoom by ViewportHeight*Zoom
// world units, so a larger zoom shows more of the map.
type Camera struct {
	X float64
	Y float64

	ViewportWidth  float64
	ViewportHeight float64
	zoom           float64

	// smoothing factor (0..1). higher -> faster follow. 0 snaps.
	smooth float64
	// world bounds in world units (0 means unbounded)
	worldW float64
	worldH float64
}

// NewCamera creates a camera with the given viewport size centered on the viewport.
func NewCamera(viewportW, viewportH float64) *Camera {
	return &Camera{
		X:              viewportW / 2,
		Y:              viewportH / 2,
		ViewportWidth:  viewportW,
		ViewportHeight: viewportH,
		zoom:           1,
	}
}

// SetZoom updates the camera zoom. Non-positive values are ignored.
func (c *Camera) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	c.zoom = z
}

// Zoom returns the current camera zoom.
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetViewportSize updates the viewport, ignoring non-positive sizes.
func (c *Camera) SetViewportSize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.ViewportWidth = w
	c.ViewportHeight = h
}

// SetWorldBounds sets the world dimensions used to clamp the camera position.
func (c *Camera) SetWorldBounds(w, h float64) {
	c.worldW = w
	c.worldH = h
}

func (c *Camera) SetSmooth(f float64) {
	if f < 0 {
		f = 0
	}
	c.smooth = f
}

// ViewSize returns the visible area in world units.
func (c *Camera) ViewSize() (float64, float64) {
	return c.ViewportWidth * c.zoom, c.ViewportHeight * c.zoom
}

// Combined returns the world to screen transform for this camera.
func (c *Camera) Combined() ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-c.X, -c.Y)
	if c.zoom != 0 {
		g.Scale(1/c.zoom, 1/c.zoom)
	}
	g.Translate(c.ViewportWidth/2, c.ViewportHeight/2)
	return g
}

// Update moves the camera toward the target world coordinate. Call from the
// fixed-rate Update loop to get consistent smoothing.
func (c *Camera) Update(targetX, targetY float64) {
	if c.smooth <= 0 {
		c.X = targetX
		c.Y = targetY
	} else {
		c.X += (targetX - c.X) * c.smooth
		c.Y += (targetY - c.Y) * c.smooth
	}
	c.settle()
}

// SnapTo immediately centers the camera on x, y, applying the same rounding
// and clamping as Update.
func (c *Camera) SnapTo(x, y float64) {
	c.X = x
	c.Y = y
	c.settle()
}

func (c *Camera) settle() {
	// snap position to the zoom grid to align source texels to integer screen pixels
	if c.zoom != 0 {
		c.X = math.Round(c.X/c.zoom) * c.zoom
		c.Y = math.Round(c.Y/c.zoom) * c.zoom
	}

	c.X, c.Y = c.Clamp(c.X, c.Y)
}

// Clamp returns the camera center closest to x, y that keeps the view
// inside the world bounds.
func (c *Camera) Clamp(x, y float64) (float64, float64) {
	viewW, viewH := c.ViewSize()
	return clampAxis(x, viewW/2, c.worldW), clampAxis(y, viewH/2, c.worldH)
}

// clampAxis keeps a view of half size half inside [0, world]. A world smaller
// than the view is centered.
func clampAxis(v, half, world float64) float64 {
	if world <= 0 {
		return v
	}
	lo, hi := half, world-half
	if hi < lo {
		return world / 2
	}
	return clamp(v, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

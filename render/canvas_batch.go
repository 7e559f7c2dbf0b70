package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/milk9111/tilemap/tiled"
)

// orientedCacheSize bounds the number of converted tile images kept per canvas.
const orientedCacheSize = 1024

type orientKey struct {
	src    image.Image
	bounds image.Rectangle
	flags  uint8
	tinted bool
	tint   color.RGBA64
}

// CanvasBatch rasterizes draws in software onto an in-memory canvas, for
// rendering without a window. Draws land immediately; End only closes the
// scope.
type CanvasBatch struct {
	dc   *gg.Context
	proj ebiten.GeoM

	drawing  bool
	disposed bool
	draws    int

	bufs *lru.Cache[orientKey, *gg.ImageBuf]
}

// NewCanvasBatch returns a transparent canvas of w by h pixels.
func NewCanvasBatch(w, h int) *CanvasBatch {
	bufs, _ := lru.New[orientKey, *gg.ImageBuf](orientedCacheSize)
	return &CanvasBatch{
		dc:   gg.NewContext(w, h),
		bufs: bufs,
	}
}

func (b *CanvasBatch) SetProjection(m ebiten.GeoM) {
	b.proj = m
	b.dc.SetTransform(geoMToMatrix(m))
}

func (b *CanvasBatch) Begin() {
	if b.disposed {
		panic("render: Begin on disposed batch")
	}
	if b.drawing {
		panic("render: Begin called twice without End")
	}
	b.drawing = true
	b.draws = 0
}

func (b *CanvasBatch) Draw(r tiled.Region, dst Rect, opts DrawOptions) {
	if !b.drawing {
		panic("render: Draw outside Begin/End")
	}
	if r.Empty() || opts.Alpha <= 0 {
		return
	}

	b.dc.DrawImageEx(b.buffer(r, opts), gg.DrawImageOptions{
		X:             dst.X,
		Y:             dst.Y,
		DstWidth:      dst.Width,
		DstHeight:     dst.Height,
		Interpolation: gg.InterpNearest,
		Opacity:       opts.Alpha,
		BlendMode:     gg.BlendNormal,
	})
	b.draws++
}

func (b *CanvasBatch) End() {
	if !b.drawing {
		panic("render: End called without Begin")
	}
	b.drawing = false
}

// Draws returns the number of draws that reached the canvas since the last Begin.
func (b *CanvasBatch) Draws() int {
	return b.draws
}

// Clear resets the canvas to transparent.
func (b *CanvasBatch) Clear() {
	b.dc.Clear()
}

// Image returns a copy of the canvas pixels.
func (b *CanvasBatch) Image() image.Image {
	return b.dc.Image()
}

// SavePNG writes the canvas to path.
func (b *CanvasBatch) SavePNG(path string) error {
	return b.dc.SavePNG(path)
}

func (b *CanvasBatch) Dispose() {
	if b.disposed {
		return
	}
	_ = b.dc.Close()
	b.bufs.Purge()
	b.disposed = true
}

// buffer returns the region oriented per opts' flip flags and multiplied by
// its tint, converted once.
func (b *CanvasBatch) buffer(r tiled.Region, opts DrawOptions) *gg.ImageBuf {
	key := orientKey{src: r.Image, bounds: r.Bounds, flags: flipFlags(opts)}
	if opts.Tint != nil {
		key.tinted = true
		key.tint = color.RGBA64Model.Convert(opts.Tint).(color.RGBA64)
	}
	if buf, ok := b.bufs.Get(key); ok {
		return buf
	}
	img := orient(r, opts)
	if key.tinted {
		tint(img, key.tint)
	}
	buf := gg.ImageBufFromImage(img)
	b.bufs.Add(key, buf)
	return buf
}

// tint multiplies every pixel of img by c, channel by channel.
func tint(img *image.RGBA, c color.RGBA64) {
	mul := func(v uint32, by uint16) uint16 {
		return uint16(v * uint32(by) / 0xffff)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			img.Set(x, y, color.RGBA64{
				R: mul(r, c.R),
				G: mul(g, c.G),
				B: mul(bl, c.B),
				A: mul(a, c.A),
			})
		}
	}
}

func flipFlags(opts DrawOptions) uint8 {
	var f uint8
	if opts.FlipH {
		f |= 1
	}
	if opts.FlipV {
		f |= 2
	}
	if opts.FlipD {
		f |= 4
	}
	return f
}

// orient copies the region into a new image with the Tiled flips applied:
// diagonal first, then horizontal, then vertical.
func orient(r tiled.Region, opts DrawOptions) *image.RGBA {
	sw, sh := r.Bounds.Dx(), r.Bounds.Dy()
	w, h := sw, sh
	if opts.FlipD {
		w, h = sh, sw
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ux, uy := x, y
			if opts.FlipH {
				ux = w - 1 - x
			}
			if opts.FlipV {
				uy = h - 1 - y
			}
			sx, sy := ux, uy
			if opts.FlipD {
				sx, sy = uy, ux
			}
			out.Set(x, y, r.Image.At(r.Bounds.Min.X+sx, r.Bounds.Min.Y+sy))
		}
	}
	return out
}

func geoMToMatrix(m ebiten.GeoM) gg.Matrix {
	return gg.Matrix{
		A: m.Element(0, 0), B: m.Element(0, 1), C: m.Element(0, 2),
		D: m.Element(1, 0), E: m.Element(1, 1), F: m.Element(1, 2),
	}
}

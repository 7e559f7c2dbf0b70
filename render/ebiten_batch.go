package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilemap/tiled"
)

type drawCmd struct {
	region tiled.Region
	dst    Rect
	opts   DrawOptions
}

// EbitenBatch queues draws between Begin and End and flushes them onto an
// ebiten target image at End, transformed by the projection.
type EbitenBatch struct {
	target *ebiten.Image
	proj   ebiten.GeoM

	drawing  bool
	disposed bool
	queue    []drawCmd
	flushed  int

	// ebiten copies of source images, created on first draw
	cache map[image.Image]*ebiten.Image
}

// NewEbitenBatch returns a batch with an identity projection and no target.
func NewEbitenBatch() *EbitenBatch {
	return &EbitenBatch{cache: make(map[image.Image]*ebiten.Image)}
}

// SetTarget sets the image draws are flushed onto.
func (b *EbitenBatch) SetTarget(img *ebiten.Image) {
	b.target = img
}

func (b *EbitenBatch) SetProjection(m ebiten.GeoM) {
	b.proj = m
}

func (b *EbitenBatch) Begin() {
	if b.disposed {
		panic("render: Begin on disposed batch")
	}
	if b.drawing {
		panic("render: Begin called twice without End")
	}
	b.drawing = true
	b.queue = b.queue[:0]
}

func (b *EbitenBatch) Draw(r tiled.Region, dst Rect, opts DrawOptions) {
	if !b.drawing {
		panic("render: Draw outside Begin/End")
	}
	if r.Empty() || opts.Alpha <= 0 {
		return
	}
	b.queue = append(b.queue, drawCmd{region: r, dst: dst, opts: opts})
}

// Pending returns the number of queued draws not yet flushed.
func (b *EbitenBatch) Pending() int {
	return len(b.queue)
}

// Flushed returns the number of draws issued by the last End.
func (b *EbitenBatch) Flushed() int {
	return b.flushed
}

func (b *EbitenBatch) End() {
	if !b.drawing {
		panic("render: End called without Begin")
	}
	b.drawing = false
	b.flushed = 0
	if len(b.queue) == 0 {
		return
	}
	if b.target == nil {
		panic("render: EbitenBatch has no target")
	}
	for _, cmd := range b.queue {
		b.flush(cmd)
	}
	b.flushed = len(b.queue)
	b.queue = b.queue[:0]
}

func (b *EbitenBatch) flush(cmd drawCmd) {
	src := b.image(cmd.region.Image)
	sub, ok := src.SubImage(cmd.region.Bounds).(*ebiten.Image)
	if !ok {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM = regionGeoM(cmd.region.Bounds, cmd.dst, cmd.opts)
	op.GeoM.Concat(b.proj)
	if cmd.opts.Tint != nil {
		op.ColorScale.ScaleWithColor(cmd.opts.Tint)
	}
	if cmd.opts.Alpha < 1 {
		op.ColorScale.ScaleAlpha(float32(cmd.opts.Alpha))
	}
	op.Filter = ebiten.FilterNearest
	b.target.DrawImage(sub, op)
}

// regionGeoM maps a source region of size bounds onto dst in world units,
// applying Tiled flip order: diagonal, then horizontal, then vertical.
func regionGeoM(bounds image.Rectangle, dst Rect, opts DrawOptions) ebiten.GeoM {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	var g ebiten.GeoM
	if opts.FlipD {
		g.SetElement(0, 0, 0)
		g.SetElement(0, 1, 1)
		g.SetElement(1, 0, 1)
		g.SetElement(1, 1, 0)
		w, h = h, w
	}
	if opts.FlipH {
		g.Scale(-1, 1)
		g.Translate(w, 0)
	}
	if opts.FlipV {
		g.Scale(1, -1)
		g.Translate(0, h)
	}
	if w != 0 && h != 0 {
		g.Scale(dst.Width/w, dst.Height/h)
	}
	g.Translate(dst.X, dst.Y)
	return g
}

func (b *EbitenBatch) image(src image.Image) *ebiten.Image {
	if img, ok := src.(*ebiten.Image); ok {
		return img
	}
	if img, ok := b.cache[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	b.cache[src] = img
	return img
}

// Dispose frees every cached image. Images passed in as *ebiten.Image are left alone.
func (b *EbitenBatch) Dispose() {
	for k, img := range b.cache {
		img.Deallocate()
		delete(b.cache, k)
	}
	b.queue = nil
	b.disposed = true
}

// Disposed reports whether Dispose has been called.
func (b *EbitenBatch) Disposed() bool {
	return b.disposed
}

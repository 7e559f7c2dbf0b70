package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilemap/tiled"
)

func solidRegion(c color.RGBA, w, h int) tiled.Region {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return tiled.Region{Image: img, Bounds: img.Bounds()}
}

func isRed(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r > 0xf000 && g < 0x1000 && b < 0x1000 && a > 0xf000
}

func isClear(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0
}

func TestOrientFlips(t *testing.T) {
	// 2x1 source: left pixel red, right pixel blue
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	red := color.RGBA{R: 0xff, A: 0xff}
	blue := color.RGBA{B: 0xff, A: 0xff}
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 0, blue)
	r := tiled.Region{Image: img, Bounds: img.Bounds()}

	cases := []struct {
		name   string
		opts   DrawOptions
		size   image.Point
		at     image.Point
		expect color.RGBA
	}{
		{"none", DrawOptions{}, image.Pt(2, 1), image.Pt(0, 0), red},
		{"flip_h", DrawOptions{FlipH: true}, image.Pt(2, 1), image.Pt(0, 0), blue},
		{"flip_v", DrawOptions{FlipV: true}, image.Pt(2, 1), image.Pt(1, 0), blue},
		{"diagonal", DrawOptions{FlipD: true}, image.Pt(1, 2), image.Pt(0, 1), blue},
		{"diagonal_v", DrawOptions{FlipD: true, FlipV: true}, image.Pt(1, 2), image.Pt(0, 0), blue},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := orient(r, c.opts)
			if out.Bounds().Size() != c.size {
				t.Fatalf("size = %v, want %v", out.Bounds().Size(), c.size)
			}
			if got := out.RGBAAt(c.at.X, c.at.Y); got != c.expect {
				t.Fatalf("pixel %v = %v, want %v", c.at, got, c.expect)
			}
		})
	}
}

func TestCanvasBatchDrawsRegion(t *testing.T) {
	b := NewCanvasBatch(8, 8)
	defer b.Dispose()

	b.SetProjection(ebiten.GeoM{})
	b.Begin()
	b.Draw(solidRegion(color.RGBA{R: 0xff, A: 0xff}, 2, 2), Rect{X: 2, Y: 2, Width: 4, Height: 4}, DrawOptions{Alpha: 1})
	b.Draw(tiled.Region{}, Rect{Width: 8, Height: 8}, DrawOptions{Alpha: 1})
	b.End()

	if b.Draws() != 1 {
		t.Fatalf("draws = %d, want 1", b.Draws())
	}
	img := b.Image()
	if !isRed(img.At(3, 3)) {
		t.Fatalf("expected red inside drawn rect, got %v", img.At(3, 3))
	}
	if !isClear(img.At(0, 0)) {
		t.Fatalf("expected clear outside drawn rect, got %v", img.At(0, 0))
	}
}

func TestCanvasBatchTintFillUsesProjection(t *testing.T) {
	b := NewCanvasBatch(16, 16)
	defer b.Dispose()

	var proj ebiten.GeoM
	proj.Translate(8, 8)
	b.SetProjection(proj)

	b.Begin()
	b.Draw(WhitePixel(), Rect{X: 0, Y: 0, Width: 4, Height: 4}, DrawOptions{Tint: color.RGBA{R: 0xff, A: 0xff}, Alpha: 1})
	b.End()

	img := b.Image()
	if !isRed(img.At(10, 10)) {
		t.Fatalf("expected fill translated by projection, got %v", img.At(10, 10))
	}
	if !isClear(img.At(2, 2)) {
		t.Fatalf("expected untranslated area clear, got %v", img.At(2, 2))
	}

	b.Clear()
	if !isClear(b.Image().At(10, 10)) {
		t.Fatalf("expected Clear to reset the canvas")
	}
}

func TestCanvasBatchScope(t *testing.T) {
	b := NewCanvasBatch(4, 4)
	expectPanic(t, "draw_outside_scope", func() { b.Draw(WhitePixel(), Rect{Width: 1, Height: 1}, DrawOptions{Alpha: 1}) })
	expectPanic(t, "end_without_begin", b.End)
	b.Begin()
	expectPanic(t, "double_begin", b.Begin)
	b.End()
	b.Dispose()
	b.Dispose()
	expectPanic(t, "begin_after_dispose", b.Begin)
}

func TestGeoMToMatrix(t *testing.T) {
	var g ebiten.GeoM
	g.Scale(2, 3)
	g.Translate(5, 7)
	m := geoMToMatrix(g)
	if m.A != 2 || m.B != 0 || m.C != 5 || m.D != 0 || m.E != 3 || m.F != 7 {
		t.Fatalf("unexpected matrix %+v", m)
	}
}

func TestCanvasBatchReusesOrientedImages(t *testing.T) {
	b := NewCanvasBatch(8, 8)
	defer b.Dispose()

	r := solidRegion(color.RGBA{R: 0xff, A: 0xff}, 2, 2)
	b.Begin()
	b.Draw(r, Rect{Width: 2, Height: 2}, DrawOptions{Alpha: 1})
	b.Draw(r, Rect{X: 2, Width: 2, Height: 2}, DrawOptions{Alpha: 1})
	b.Draw(r, Rect{X: 4, Width: 2, Height: 2}, DrawOptions{Alpha: 1, FlipH: true})
	b.End()

	if got := b.bufs.Len(); got != 2 {
		t.Fatalf("cached images = %d, want 2", got)
	}
}

func TestCanvasBatchTintMultipliesRegion(t *testing.T) {
	b := NewCanvasBatch(8, 8)
	defer b.Dispose()

	yellow := solidRegion(color.RGBA{R: 0xff, G: 0xff, A: 0xff}, 2, 2)
	b.Begin()
	// yellow times red keeps the red channel only
	b.Draw(yellow, Rect{Width: 4, Height: 4}, DrawOptions{Tint: color.RGBA{R: 0xff, A: 0xff}, Alpha: 1})
	// red times blue leaves nothing but alpha
	b.Draw(solidRegion(color.RGBA{R: 0xff, A: 0xff}, 2, 2), Rect{X: 4, Width: 4, Height: 4},
		DrawOptions{Tint: color.RGBA{B: 0xff, A: 0xff}, Alpha: 1})
	b.End()

	img := b.Image()
	if !isRed(img.At(1, 1)) {
		t.Fatalf("expected tinted region to be red, got %v", img.At(1, 1))
	}
	r, g, bl, a := img.At(5, 1).RGBA()
	if r > 0x1000 || g > 0x1000 || bl > 0x1000 || a < 0xf000 {
		t.Fatalf("expected opaque black where tint and source share no channel, got %v", img.At(5, 1))
	}
}

func TestTint(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0xff, G: 0x80, B: 0x40, A: 0xff})
	tint(img, color.RGBA64{R: 0xffff, G: 0x8000, B: 0, A: 0xffff})

	got := img.RGBAAt(0, 0)
	want := color.RGBA{R: 0xff, G: 0x40, B: 0, A: 0xff}
	if got != want {
		t.Fatalf("tint = %v, want %v", got, want)
	}
}

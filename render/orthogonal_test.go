package render

import (
	"image"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilemap/tiled"
)

func filledLayer(t *testing.T, w, h int) (*tiled.TileLayer, *tiled.Tileset) {
	t.Helper()
	ts := tiled.NewTileset("t", 1, 16, 16, 0, image.NewRGBA(image.Rect(0, 0, 32, 16)))
	l := tiled.NewTileLayer("ground", w, h, 16, 16)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l.SetCell(x, y, &tiled.Cell{Tile: ts.Tile(0)})
		}
	}
	return l, ts
}

func TestOrthogonalCullsToView(t *testing.T) {
	layer, _ := filledLayer(t, 10, 10)

	cases := []struct {
		name      string
		unitScale float64
		view      Rect
		want      int
	}{
		{"whole_map", 1, Rect{X: 0, Y: 0, Width: 160, Height: 160}, 100},
		{"aligned_2x2", 1, Rect{X: 16, Y: 16, Width: 32, Height: 32}, 4},
		{"straddles_cells", 1, Rect{X: 8, Y: 8, Width: 16, Height: 16}, 4},
		{"outside", 1, Rect{X: 500, Y: 500, Width: 10, Height: 10}, 0},
		{"negative_origin", 1, Rect{X: -32, Y: -32, Width: 48, Height: 48}, 1},
		{"negative_size", 1, Rect{X: 32, Y: 32, Width: -16, Height: -16}, 0},
		{"half_scale", 0.5, Rect{X: 0, Y: 0, Width: 16, Height: 8}, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := &recordingBatch{}
			r := NewOrthogonalRendererWithBatch(newTestMap(layer), c.unitScale, b, nil)
			r.SetViewRect(ebiten.GeoM{}, c.view.X, c.view.Y, c.view.Width, c.view.Height)
			r.Render(nil)
			if len(b.draws) != c.want {
				t.Fatalf("draws = %d, want %d", len(b.draws), c.want)
			}
		})
	}
}

func TestOrthogonalCellPlacement(t *testing.T) {
	ts := tiled.NewTileset("t", 1, 16, 16, 0, image.NewRGBA(image.Rect(0, 0, 32, 16)))
	layer := tiled.NewTileLayer("ground", 3, 3, 16, 16)
	layer.SetOpacity(0.5)
	layer.SetCell(2, 1, &tiled.Cell{Tile: ts.Tile(1), FlipH: true, FlipD: true})

	b := &recordingBatch{}
	r := NewOrthogonalRendererWithBatch(newTestMap(layer), 2, b, nil)
	r.SetViewRect(ebiten.GeoM{}, 0, 0, 96, 96)
	r.Render(nil)

	if len(b.draws) != 1 {
		t.Fatalf("expected one draw, got %d", len(b.draws))
	}
	d := b.draws[0]
	if want := (Rect{X: 64, Y: 32, Width: 32, Height: 32}); d.dst != want {
		t.Fatalf("dst = %+v, want %+v", d.dst, want)
	}
	if d.region.Bounds != image.Rect(16, 0, 32, 16) {
		t.Fatalf("region = %v", d.region.Bounds)
	}
	if !d.opts.FlipH || d.opts.FlipV || !d.opts.FlipD {
		t.Fatalf("flip flags not forwarded: %+v", d.opts)
	}
	if d.opts.Alpha != 0.5 {
		t.Fatalf("alpha = %v, want layer opacity", d.opts.Alpha)
	}
}

func TestOrthogonalAnimatedTilesShareBase(t *testing.T) {
	ts := tiled.NewTileset("t", 1, 16, 16, 0, image.NewRGBA(image.Rect(0, 0, 32, 16)))
	a, _ := ts.StaticTile(0)
	bt, _ := ts.StaticTile(1)
	anim := tiled.NewAnimatedTile(0,
		tiled.Frame{Tile: a, Duration: 100 * time.Millisecond},
		tiled.Frame{Tile: bt, Duration: 100 * time.Millisecond},
	)

	layer := tiled.NewTileLayer("water", 2, 1, 16, 16)
	layer.SetCell(0, 0, &tiled.Cell{Tile: anim})
	layer.SetCell(1, 0, &tiled.Cell{Tile: anim})

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := &recordingBatch{}
	r := NewOrthogonalRendererWithBatch(newTestMap(layer), 1, b, nil)
	r.SetNow(func() time.Time { return start.Add(150 * time.Millisecond) })
	r.SetViewRect(ebiten.GeoM{}, 0, 0, 32, 16)
	r.Render(tiled.NewAnimationClock(start))

	if len(b.draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(b.draws))
	}
	for i, d := range b.draws {
		if d.region.Bounds != image.Rect(16, 0, 32, 16) {
			t.Fatalf("draw %d showed %v, want second frame", i, d.region.Bounds)
		}
	}
}

func TestOrthogonalForwardsObjects(t *testing.T) {
	b := &recordingBatch{}
	h := &recordingHooks{batch: b}
	r := NewOrthogonalRendererWithBatch(newTestMap(objectLayer("spawns", true, "door")), 1, b, h)
	r.Render(nil)

	want := []string{"begin", "object:door", "end"}
	if len(b.log) != len(want) {
		t.Fatalf("log = %v, want %v", b.log, want)
	}
	for i := range want {
		if b.log[i] != want[i] {
			t.Fatalf("log = %v, want %v", b.log, want)
		}
	}
}

func TestOrthogonalOversizedTiles(t *testing.T) {
	tall := tiled.NewTileset("trees", 1, 16, 48, 0, image.NewRGBA(image.Rect(0, 0, 16, 48)))
	wide := tiled.NewTileset("walls", 2, 48, 16, 0, image.NewRGBA(image.Rect(0, 0, 48, 16)))

	cases := []struct {
		name string
		tile tiled.Tile
		x, y int
		view Rect
		want Rect
	}{
		// covers y 48..96, its cell row 5 starts below the view
		{"tall_below_view", tall.Tile(0), 0, 5, Rect{X: 0, Y: 0, Width: 16, Height: 64}, Rect{X: 0, Y: 48, Width: 16, Height: 48}},
		{"tall_in_view", tall.Tile(0), 0, 2, Rect{X: 0, Y: 0, Width: 16, Height: 64}, Rect{X: 0, Y: 0, Width: 16, Height: 48}},
		// covers x 0..48, its cell column 0 ends left of the view
		{"wide_left_of_view", wide.Tile(0), 0, 0, Rect{X: 32, Y: 0, Width: 64, Height: 16}, Rect{X: 0, Y: 0, Width: 48, Height: 16}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			layer := tiled.NewTileLayer("props", 8, 8, 16, 16)
			layer.SetCell(c.x, c.y, &tiled.Cell{Tile: c.tile})
			m := &tiled.Map{
				Width:      8,
				Height:     8,
				TileWidth:  16,
				TileHeight: 16,
				Layers:     []tiled.Layer{layer},
				Tilesets:   []*tiled.Tileset{tall, wide},
			}

			b := &recordingBatch{}
			r := NewOrthogonalRendererWithBatch(m, 1, b, nil)
			r.SetViewRect(ebiten.GeoM{}, c.view.X, c.view.Y, c.view.Width, c.view.Height)
			r.Render(nil)

			if len(b.draws) != 1 {
				t.Fatalf("draws = %d, want 1", len(b.draws))
			}
			if b.draws[0].dst != c.want {
				t.Fatalf("dst = %+v, want %+v", b.draws[0].dst, c.want)
			}
		})
	}
}

func TestCellSpan(t *testing.T) {
	cases := []struct {
		start, length, size float64
		count, padLo, padHi int
		lo, hi              int
	}{
		{0, 32, 16, 10, 0, 0, 0, 2},
		{-8, 16, 16, 10, 0, 0, 0, 1},
		{150, 100, 16, 10, 0, 0, 9, 10},
		{40, -30, 16, 10, 0, 0, 2, 2},
		{0, 64, 16, 8, 0, 2, 0, 6},
		{32, 64, 16, 10, 2, 0, 0, 6},
		{0, 64, 16, 5, 0, 2, 0, 5},
	}
	for _, c := range cases {
		lo, hi := cellSpan(c.start, c.length, c.size, c.count, c.padLo, c.padHi)
		if lo != c.lo || hi != c.hi {
			t.Fatalf("cellSpan(%v, %v, %v, %d, %d, %d) = %d, %d want %d, %d",
				c.start, c.length, c.size, c.count, c.padLo, c.padHi, lo, hi, c.lo, c.hi)
		}
	}
}

func TestOverhang(t *testing.T) {
	cases := []struct {
		tile, cell float64
		want       int
	}{
		{16, 16, 0},
		{8, 16, 0},
		{48, 16, 2},
		{40, 16, 2},
		{17, 16, 1},
	}
	for _, c := range cases {
		if got := overhang(c.tile, c.cell); got != c.want {
			t.Fatalf("overhang(%v, %v) = %d, want %d", c.tile, c.cell, got, c.want)
		}
	}
}

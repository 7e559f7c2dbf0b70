package render

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilemap/tiled"
)

// Ownership records whether a renderer created its batch.
type Ownership int

const (
	// Owned batches were created by the renderer and are released by Dispose.
	Owned Ownership = iota
	// Borrowed batches belong to the caller and are never released by the renderer.
	Borrowed
)

func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	}
	return "unknown"
}

// Pass is the state shared by every hook call within one render pass.
type Pass struct {
	Map       *tiled.Map
	Batch     Batch
	View      Rect
	UnitScale float64
	// Base is the animation baseline sampled once at the start of the pass.
	Base time.Duration
	// Opacity of the layer currently being drawn.
	Opacity float64
}

// Hooks supply the per-layer drawing of a BatchRenderer.
type Hooks interface {
	RenderTileLayer(p *Pass, layer *tiled.TileLayer)
	RenderObject(p *Pass, obj *tiled.Object)
}

// BeginRenderer lets Hooks replace the start of a pass. Implementations
// should call DefaultBeginRender or open the batch themselves.
type BeginRenderer interface {
	BeginRender(r *BatchRenderer, clock *tiled.AnimationClock)
}

// EndRenderer lets Hooks replace the end of a pass. Implementations should
// call DefaultEndRender or close the batch themselves.
type EndRenderer interface {
	EndRender(r *BatchRenderer)
}

// NopObjects can be embedded in Hooks that ignore map objects.
type NopObjects struct{}

func (NopObjects) RenderObject(*Pass, *tiled.Object) {}

// BatchRenderer walks a map's layers and hands them to Hooks, bracketing
// every pass with Begin and End on a shared Batch. It is not safe for
// concurrent use.
type BatchRenderer struct {
	m         *tiled.Map
	unitScale float64
	batch     Batch
	ownership Ownership
	view      Rect
	hooks     Hooks

	pass Pass
	now  func() time.Time
}

// NewBatchRenderer returns a renderer that owns a fresh EbitenBatch.
func NewBatchRenderer(m *tiled.Map, unitScale float64, hooks Hooks) *BatchRenderer {
	r := NewBatchRendererWithBatch(m, unitScale, NewEbitenBatch(), hooks)
	r.ownership = Owned
	return r
}

// NewBatchRendererWithBatch returns a renderer drawing into batch, which
// stays owned by the caller.
func NewBatchRendererWithBatch(m *tiled.Map, unitScale float64, batch Batch, hooks Hooks) *BatchRenderer {
	return &BatchRenderer{
		m:         m,
		unitScale: unitScale,
		batch:     batch,
		ownership: Borrowed,
		hooks:     hooks,
		now:       time.Now,
	}
}

func (r *BatchRenderer) Map() *tiled.Map           { return r.m }
func (r *BatchRenderer) SetMap(m *tiled.Map)       { r.m = m }
func (r *BatchRenderer) UnitScale() float64        { return r.unitScale }
func (r *BatchRenderer) Batch() Batch              { return r.batch }
func (r *BatchRenderer) ViewBounds() Rect          { return r.view }
func (r *BatchRenderer) Ownership() Ownership      { return r.ownership }
func (r *BatchRenderer) SetNow(f func() time.Time) { r.now = f }

// SetTarget points an EbitenBatch at dst. Other batch kinds are left untouched.
func (r *BatchRenderer) SetTarget(dst *ebiten.Image) {
	if b, ok := r.batch.(interface{ SetTarget(*ebiten.Image) }); ok {
		b.SetTarget(dst)
	}
}

// SetView projects the batch with the camera and centers the view bounds on
// the camera position.
func (r *BatchRenderer) SetView(cam *Camera) {
	r.batch.SetProjection(cam.Combined())
	w, h := cam.ViewSize()
	r.view.Set(cam.X-w/2, cam.Y-h/2, w, h)
}

// SetViewRect sets the projection and view bounds directly. The rectangle is
// used as given.
func (r *BatchRenderer) SetViewRect(projection ebiten.GeoM, x, y, width, height float64) {
	r.batch.SetProjection(projection)
	r.view.Set(x, y, width, height)
}

// Render draws every visible layer of the map in order.
func (r *BatchRenderer) Render(clock *tiled.AnimationClock) {
	r.beginRender(clock)
	for _, layer := range r.m.Layers {
		r.renderLayer(layer)
	}
	r.endRender()
}

// RenderLayers draws the layers at indices in the order given. Indices must
// be valid for the map; an out of range index panics.
func (r *BatchRenderer) RenderLayers(clock *tiled.AnimationClock, indices ...int) {
	r.beginRender(clock)
	for _, idx := range indices {
		r.renderLayer(r.m.Layers[idx])
	}
	r.endRender()
}

func (r *BatchRenderer) renderLayer(layer tiled.Layer) {
	if !layer.Visible() {
		return
	}
	r.pass.Opacity = layer.Opacity()
	if tl, ok := layer.(*tiled.TileLayer); ok {
		r.hooks.RenderTileLayer(&r.pass, tl)
		return
	}
	r.RenderObjects(layer)
}

// RenderObjects forwards every object of layer to the object hook.
func (r *BatchRenderer) RenderObjects(layer tiled.Layer) {
	for _, obj := range layer.Objects() {
		r.hooks.RenderObject(&r.pass, obj)
	}
}

func (r *BatchRenderer) beginRender(clock *tiled.AnimationClock) {
	if br, ok := r.hooks.(BeginRenderer); ok {
		br.BeginRender(r, clock)
	} else {
		r.DefaultBeginRender(clock)
	}

	var base time.Duration
	if clock != nil {
		base = clock.Base()
	}
	r.pass = Pass{
		Map:       r.m,
		Batch:     r.batch,
		View:      r.view,
		UnitScale: r.unitScale,
		Base:      base,
		Opacity:   1,
	}
}

func (r *BatchRenderer) endRender() {
	if er, ok := r.hooks.(EndRenderer); ok {
		er.EndRender(r)
	} else {
		r.DefaultEndRender()
	}
	r.pass = Pass{}
}

// DefaultBeginRender advances the animation clock and opens the batch.
// A nil clock leaves animations at their first frame.
func (r *BatchRenderer) DefaultBeginRender(clock *tiled.AnimationClock) {
	if clock != nil {
		clock.Advance(r.now())
	}
	r.batch.Begin()
}

// DefaultEndRender closes the batch.
func (r *BatchRenderer) DefaultEndRender() {
	r.batch.End()
}

// Dispose releases the batch if the renderer created it.
func (r *BatchRenderer) Dispose() {
	if r.ownership == Owned {
		r.batch.Dispose()
	}
}

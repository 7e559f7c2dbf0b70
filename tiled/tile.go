package tiled

import (
	"image"
	"time"
)

// Region is a rectangle of a source image, usually one tile of a tileset.
type Region struct {
	Image  image.Image
	Bounds image.Rectangle
}

// Empty reports whether r has nothing to draw.
func (r Region) Empty() bool {
	return r.Image == nil || r.Bounds.Empty()
}

// Tile is a drawable map tile. base is the animation baseline of the current
// render pass; static tiles ignore it.
type Tile interface {
	ID() int
	Region(base time.Duration) Region
}

// StaticTile always draws the same region.
type StaticTile struct {
	id     int
	region Region
}

func NewStaticTile(id int, r Region) *StaticTile {
	return &StaticTile{id: id, region: r}
}

func (t *StaticTile) ID() int                     { return t.id }
func (t *StaticTile) Region(time.Duration) Region { return t.region }

// Frame is one step of an AnimatedTile.
type Frame struct {
	Tile     *StaticTile
	Duration time.Duration
}

// AnimatedTile cycles through frames. All animated tiles sampled with the
// same base show the frame for the same point in time.
type AnimatedTile struct {
	id     int
	frames []Frame
	total  time.Duration
}

// NewAnimatedTile builds an animated tile. Frames with a non-positive
// duration are dropped.
func NewAnimatedTile(id int, frames ...Frame) *AnimatedTile {
	t := &AnimatedTile{id: id}
	for _, f := range frames {
		if f.Duration <= 0 || f.Tile == nil {
			continue
		}
		t.frames = append(t.frames, f)
		t.total += f.Duration
	}
	return t
}

func (t *AnimatedTile) ID() int { return t.id }

// Frames returns the animation frames in playback order.
func (t *AnimatedTile) Frames() []Frame { return t.frames }

// CurrentFrame returns the index of the frame showing at base.
func (t *AnimatedTile) CurrentFrame(base time.Duration) int {
	if t.total <= 0 {
		return 0
	}
	if base < 0 {
		base = 0
	}
	at := base % t.total
	for i, f := range t.frames {
		if at < f.Duration {
			return i
		}
		at -= f.Duration
	}
	return len(t.frames) - 1
}

func (t *AnimatedTile) Region(base time.Duration) Region {
	if len(t.frames) == 0 {
		return Region{}
	}
	return t.frames[t.CurrentFrame(base)].Tile.Region(base)
}

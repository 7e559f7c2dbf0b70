package tiled

import "time"

// AnimationClock is the shared time baseline animated tiles are sampled
// against. It is advanced once per render pass so that every tile in the
// pass sees the same time.
type AnimationClock struct {
	start time.Time
	base  time.Duration
}

// NewAnimationClock starts a clock at start.
func NewAnimationClock(start time.Time) *AnimationClock {
	return &AnimationClock{start: start}
}

// Advance moves the baseline to now and returns it. Going backwards is ignored.
func (c *AnimationClock) Advance(now time.Time) time.Duration {
	if c.start.IsZero() {
		c.start = now
	}
	if d := now.Sub(c.start); d > c.base {
		c.base = d
	}
	return c.base
}

// Base returns the baseline of the last Advance.
func (c *AnimationClock) Base() time.Duration {
	return c.base
}

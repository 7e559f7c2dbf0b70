package render

// Rect is an axis-aligned rectangle in world units. Width and Height are
// stored as given; negative sizes are not normalized.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Set replaces all four fields.
func (r *Rect) Set(x, y, w, h float64) {
	r.X, r.Y, r.Width, r.Height = x, y, w, h
}

// Overlaps reports whether r and other share any area.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Contains reports whether the point x, y lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

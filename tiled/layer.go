package tiled

// Layer is one entry in a map's layer stack.
type Layer interface {
	Name() string
	Visible() bool
	SetVisible(v bool)
	Opacity() float64
	// Objects returns the layer's objects. Tile layers have none.
	Objects() []*Object
}

// layerBase carries the fields every layer kind shares.
type layerBase struct {
	name    string
	visible bool
	opacity float64
}

func (l *layerBase) Name() string         { return l.name }
func (l *layerBase) Visible() bool        { return l.visible }
func (l *layerBase) SetVisible(v bool)    { l.visible = v }
func (l *layerBase) Opacity() float64     { return l.opacity }
func (l *layerBase) SetOpacity(o float64) { l.opacity = o }

// Cell is a single placed tile on a TileLayer.
type Cell struct {
	Tile  Tile
	FlipH bool
	FlipV bool
	// FlipD swaps x and y (anti-diagonal flip), used for 90 degree rotations.
	FlipD bool
}

// TileLayer is a row-major grid of cells.
type TileLayer struct {
	layerBase

	Width      int
	Height     int
	TileWidth  int
	TileHeight int

	Cells      []*Cell
	Properties Properties
}

// NewTileLayer returns a visible, fully opaque, empty layer.
func NewTileLayer(name string, width, height, tileW, tileH int) *TileLayer {
	return &TileLayer{
		layerBase:  layerBase{name: name, visible: true, opacity: 1},
		Width:      width,
		Height:     height,
		TileWidth:  tileW,
		TileHeight: tileH,
		Cells:      make([]*Cell, width*height),
	}
}

// Cell returns the cell at x, y. ok is false outside the grid or when the cell is empty.
func (l *TileLayer) Cell(x, y int) (*Cell, bool) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return nil, false
	}
	c := l.Cells[y*l.Width+x]
	return c, c != nil
}

// SetCell places c at x, y. Out of range coordinates are ignored.
func (l *TileLayer) SetCell(x, y int, c *Cell) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return
	}
	l.Cells[y*l.Width+x] = c
}

func (l *TileLayer) Objects() []*Object { return nil }

// Object is a free-placed shape on an ObjectLayer.
type Object struct {
	ID       int
	Name     string
	Type     string
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64
	Visible  bool

	Properties Properties
}

// ObjectLayer holds an ordered collection of objects.
type ObjectLayer struct {
	layerBase

	objects    []*Object
	Properties Properties
}

// NewObjectLayer returns a visible, fully opaque layer holding objs.
func NewObjectLayer(name string, objs ...*Object) *ObjectLayer {
	return &ObjectLayer{
		layerBase: layerBase{name: name, visible: true, opacity: 1},
		objects:   objs,
	}
}

func (l *ObjectLayer) Objects() []*Object { return l.objects }

// Add appends o to the layer.
func (l *ObjectLayer) Add(o *Object) {
	l.objects = append(l.objects, o)
}

package state

import (
	"math"

	"LocalBoard/internal/geom"
)

// Kind tags the element variants. The values double as the persisted
// record type.
type Kind string

const (
	KindStroke Kind = "stroke"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
)

// StrokeHitPadding widens a stroke's bounding box for hit-testing.
const StrokeHitPadding = 5

// Element is a drawable shape on the board. The set of implementations
// is closed: *Stroke, *Rect and *Circle.
type Element interface {
	ID() string
	Kind() Kind
	// Bounds returns the raw extent of the shape. Rect bounds keep the
	// sign of W and H.
	Bounds() geom.Box
	Contains(p geom.Point) bool
	// Move translates the element in place.
	Move(dx, dy float64)
	// Valid reports whether the element may be committed to the board.
	Valid() bool
	Colour() string
	SetColour(c string)

	sealed()
}

type Pen string

const (
	PenRound Pen = "round"
	PenFlat  Pen = "flat"
	PenBrush Pen = "brush"
)

// StrokePoint is a stored pointer sample. Time is in milliseconds and
// may be zero when the host does not report it.
type StrokePoint struct {
	geom.Point
	Pressure float64
	Time     int64
}

// StrokeStyle holds the appearance of a freehand stroke.
type StrokeStyle struct {
	Color           string
	Width           float64
	Pen             Pen
	Smoothing       bool
	SmoothingFactor float64
}

// Stroke is a freehand line.
type Stroke struct {
	id     string
	Points []StrokePoint
	StrokeStyle
}

// NewStroke creates an empty stroke with a fresh id.
func NewStroke(style StrokeStyle) *Stroke {
	return &Stroke{id: newID(), StrokeStyle: style}
}

func (s *Stroke) ID() string         { return s.id }
func (s *Stroke) Kind() Kind         { return KindStroke }
func (s *Stroke) Valid() bool        { return len(s.Points) >= 2 }
func (s *Stroke) Colour() string     { return s.Color }
func (s *Stroke) SetColour(c string) { s.Color = c }
func (s *Stroke) sealed()            {}

// Positions returns the stroke's points without pressure or time.
func (s *Stroke) Positions() []geom.Point {
	pts := make([]geom.Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = p.Point
	}
	return pts
}

func (s *Stroke) Bounds() geom.Box {
	b, _ := geom.Bounds(s.Positions())
	return b
}

// Contains uses the padded bounding box of all points rather than the
// distance to each segment.
func (s *Stroke) Contains(p geom.Point) bool {
	b, ok := geom.Bounds(s.Positions())
	if !ok {
		return false
	}
	return b.Pad(StrokeHitPadding).Contains(p)
}

func (s *Stroke) Move(dx, dy float64) {
	for i := range s.Points {
		s.Points[i].Point = s.Points[i].Add(dx, dy)
	}
}

// Erase strips every point within radius of p and returns how many were
// removed.
func (s *Stroke) Erase(p geom.Point, radius float64) int {
	kept := s.Points[:0]
	for _, sp := range s.Points {
		if sp.Dist(p) <= radius {
			continue
		}
		kept = append(kept, sp)
	}
	removed := len(s.Points) - len(kept)
	s.Points = kept
	return removed
}

// Rect is an axis-aligned rectangle outline. W and H keep the direction
// in which the rectangle was dragged.
type Rect struct {
	id    string
	X, Y  float64
	W, H  float64
	Color string
}

// NewRect creates a zero-size rectangle anchored at p.
func NewRect(p geom.Point, color string) *Rect {
	return &Rect{id: newID(), X: p.X, Y: p.Y, Color: color}
}

func (r *Rect) ID() string         { return r.id }
func (r *Rect) Kind() Kind         { return KindRect }
func (r *Rect) Valid() bool        { return r.W != 0 && r.H != 0 }
func (r *Rect) Colour() string     { return r.Color }
func (r *Rect) SetColour(c string) { r.Color = c }
func (r *Rect) sealed()            {}
func (r *Rect) Bounds() geom.Box   { return geom.Box{X: r.X, Y: r.Y, W: r.W, H: r.H} }

func (r *Rect) Contains(p geom.Point) bool { return r.Bounds().Contains(p) }

func (r *Rect) Move(dx, dy float64) {
	r.X += dx
	r.Y += dy
}

// ResizeTo moves the trailing corner to p.
func (r *Rect) ResizeTo(p geom.Point) {
	r.W = p.X - r.X
	r.H = p.Y - r.Y
}

// Circle is a circle outline centred on (X, Y).
type Circle struct {
	id     string
	X, Y   float64
	Radius float64
	Color  string
}

// NewCircle creates a zero-radius circle centred at p.
func NewCircle(p geom.Point, color string) *Circle {
	return &Circle{id: newID(), X: p.X, Y: p.Y, Color: color}
}

func (c *Circle) ID() string         { return c.id }
func (c *Circle) Kind() Kind         { return KindCircle }
func (c *Circle) Valid() bool        { return c.Radius > 0 }
func (c *Circle) Colour() string     { return c.Color }
func (c *Circle) SetColour(v string) { c.Color = v }
func (c *Circle) sealed()            {}

func (c *Circle) Bounds() geom.Box {
	return geom.Box{X: c.X - c.Radius, Y: c.Y - c.Radius, W: 2 * c.Radius, H: 2 * c.Radius}
}

func (c *Circle) Contains(p geom.Point) bool {
	return math.Hypot(p.X-c.X, p.Y-c.Y) <= c.Radius
}

func (c *Circle) Move(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// ResizeTo sets the radius so the outline passes through p.
func (c *Circle) ResizeTo(p geom.Point) {
	c.Radius = math.Hypot(p.X-c.X, p.Y-c.Y)
}

package geom

import "math"

// Point is a position on the board surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point { return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2} }

// Lerp blends p toward q: t=1 yields p, t=0 yields q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: t*p.X + (1-t)*q.X, Y: t*p.Y + (1-t)*q.Y}
}

// Box represents a rectangular area on the canvas. W and H may be
// negative while a shape is dragged out backwards; use Min/Max or
// Normalize before comparing edges.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Min returns the top-left corner regardless of the sign of W and H.
func (b Box) Min() Point {
	return Point{X: math.Min(b.X, b.X+b.W), Y: math.Min(b.Y, b.Y+b.H)}
}

// Max returns the bottom-right corner regardless of the sign of W and H.
func (b Box) Max() Point {
	return Point{X: math.Max(b.X, b.X+b.W), Y: math.Max(b.Y, b.Y+b.H)}
}

// Normalize returns the same area with non-negative W and H.
func (b Box) Normalize() Box {
	lo, hi := b.Min(), b.Max()
	return Box{X: lo.X, Y: lo.Y, W: hi.X - lo.X, H: hi.Y - lo.Y}
}

// Contains reports whether p lies inside b, edges included.
func (b Box) Contains(p Point) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// Inside reports whether b lies fully within outer.
func (b Box) Inside(outer Box) bool {
	lo, hi := b.Min(), b.Max()
	olo, ohi := outer.Min(), outer.Max()
	return lo.X >= olo.X && lo.Y >= olo.Y && hi.X <= ohi.X && hi.Y <= ohi.Y
}

// Overlaps reports whether a and b share any area.
func (b Box) Overlaps(o Box) bool {
	lo, hi := b.Min(), b.Max()
	olo, ohi := o.Min(), o.Max()
	return !(hi.X < olo.X || ohi.X < lo.X || hi.Y < olo.Y || ohi.Y < lo.Y)
}

// Pad grows the box by d on every side.
func (b Box) Pad(d float64) Box {
	n := b.Normalize()
	return Box{X: n.X - d, Y: n.Y - d, W: n.W + 2*d, H: n.H + 2*d}
}

// Union returns the smallest box covering both a and b.
func (b Box) Union(o Box) Box {
	lo, hi := b.Min(), b.Max()
	olo, ohi := o.Min(), o.Max()
	minX, minY := math.Min(lo.X, olo.X), math.Min(lo.Y, olo.Y)
	maxX, maxY := math.Max(hi.X, ohi.X), math.Max(hi.Y, ohi.Y)
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translate returns b moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// BoxFromCorners returns the box spanned by two corners, keeping the
// direction from a to b (W, H may be negative).
func BoxFromCorners(a, b Point) Box {
	return Box{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
}

// Bounds calculates the bounding box of a set of points. ok is false
// when pts is empty.
func Bounds(pts []Point) (b Box, ok bool) {
	if len(pts) == 0 {
		return Box{}, false
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

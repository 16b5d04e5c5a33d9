package state

import (
	"math"

	"LocalBoard/internal/geom"
)

const (
	// JitterThreshold is the minimum distance a new sample must travel
	// from the last stored point to be kept.
	JitterThreshold = 2.0
	// DecimateAbove is the point count past which a stroke drops every
	// other point.
	DecimateAbove = 500
	// MaxElements caps the committed element list; the oldest go first.
	MaxElements = 1000

	// maxSpeed is the pointer speed (px/ms) at which adaptive smoothing
	// bottoms out.
	maxSpeed = 5.0
)

// Strategy selects how a stroke is smoothed.
type Strategy int

const (
	// SmoothSpline keeps raw samples and smooths at render time.
	SmoothSpline Strategy = iota
	// SmoothIncremental blends each sample into the stored path as it
	// arrives. The raw sample is not kept.
	SmoothIncremental
)

func (s Strategy) String() string {
	switch s {
	case SmoothSpline:
		return "spline"
	case SmoothIncremental:
		return "incremental"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a configuration name to a Strategy, defaulting to
// SmoothSpline.
func ParseStrategy(name string) Strategy {
	if name == "incremental" {
		return SmoothIncremental
	}
	return SmoothSpline
}

// Append adds a sample to the stroke. It returns false when the sample
// was discarded as jitter. Strokes that grow past DecimateAbove points are
// thinned in place.
func (s *Stroke) Append(p StrokePoint, strategy Strategy) bool {
	if n := len(s.Points); n > 0 {
		prev := s.Points[n-1]
		if p.Dist(prev.Point) < JitterThreshold {
			return false
		}
		if strategy == SmoothIncremental && s.Smoothing {
			p = blendSample(prev, p, s.SmoothingFactor)
		}
	}
	s.Points = append(s.Points, p)
	if len(s.Points) > DecimateAbove {
		s.Points = Decimate(s.Points)
	}
	return true
}

// blendSample pulls next toward prev, first by the fixed factor and then
// by a weight that shrinks as the pointer speeds up.
func blendSample(prev, next StrokePoint, factor float64) StrokePoint {
	dt := float64(next.Time - prev.Time)
	if dt <= 0 {
		dt = 1
	}
	speed := next.Dist(prev.Point) / dt
	weight := factor * (1 - speed/maxSpeed)
	weight = math.Max(0.2*factor, math.Min(0.9*factor, weight))

	fixed := prev.Lerp(next.Point, factor)
	next.Point = prev.Lerp(fixed, weight)
	return next
}

// Decimate keeps the even-indexed points. The slice is reused.
func Decimate(pts []StrokePoint) []StrokePoint {
	kept := pts[:0]
	for i := 0; i < len(pts); i += 2 {
		kept = append(kept, pts[i])
	}
	return kept
}

// SplinePoints returns the render-time smoothed copy of pts. Interior
// points are pulled toward the midpoint with their successor; the first
// and last points are unchanged.
func SplinePoints(pts []geom.Point, factor float64) []geom.Point {
	out := make([]geom.Point, len(pts))
	copy(out, pts)
	for i := 1; i < len(pts)-1; i++ {
		mid := pts[i].Mid(pts[i+1])
		out[i] = pts[i].Lerp(mid, factor)
	}
	return out
}

// Segment is one quadratic Bézier piece of a rendered stroke.
type Segment struct {
	Ctrl geom.Point
	End  geom.Point
	// Index of the point used as the control point, for per-point
	// pressure lookups.
	Index int
}

// CurvePath builds the quadratic path through pts: each interior point is
// a control point and the curve passes through the midpoints between
// neighbours. The final segment runs straight to the last point.
func CurvePath(pts []geom.Point) (start geom.Point, segs []Segment) {
	if len(pts) == 0 {
		return geom.Point{}, nil
	}
	start = pts[0]
	n := len(pts)
	segs = make([]Segment, 0, n-1)
	for i := 1; i < n-1; i++ {
		segs = append(segs, Segment{Ctrl: pts[i], End: pts[i].Mid(pts[i+1]), Index: i})
	}
	if n > 1 {
		segs = append(segs, Segment{Ctrl: pts[n-1], End: pts[n-1], Index: n - 1})
	}
	return start, segs
}

// RenderPoints returns the points a stroke is drawn through, applying
// spline smoothing when the stroke asks for it.
func (s *Stroke) RenderPoints(strategy Strategy) []geom.Point {
	pts := s.Positions()
	if s.Smoothing && strategy == SmoothSpline {
		return SplinePoints(pts, s.SmoothingFactor)
	}
	return pts
}

// BrushWidth is the pressure-scaled line width of the brush pen.
func BrushWidth(base, pressure float64) float64 {
	return base * pressure
}

// BrushOpacity is the pressure-scaled opacity of the brush pen.
func BrushOpacity(pressure float64) float64 {
	return math.Min(1, 0.3+0.7*pressure)
}

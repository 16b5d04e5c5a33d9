package state

import (
	"math"
	"testing"

	"LocalBoard/internal/geom"
)

func TestAppendSkipsJitter(t *testing.T) {
	for _, strategy := range []Strategy{SmoothSpline, SmoothIncremental} {
		s := NewStroke(StrokeStyle{Smoothing: true, SmoothingFactor: 0.5})
		s.Append(StrokePoint{Point: geom.Pt(10, 10), Pressure: 1}, strategy)
		near := []geom.Point{geom.Pt(11, 10), geom.Pt(10, 11.9), geom.Pt(11.2, 11.2), geom.Pt(10, 10)}
		for _, p := range near {
			if s.Append(StrokePoint{Point: p, Pressure: 1}, strategy) {
				t.Errorf("%v: Append(%v) = true, want false", strategy, p)
			}
		}
		if len(s.Points) != 1 {
			t.Errorf("%v: len(Points) = %d, want 1", strategy, len(s.Points))
		}
		if !s.Append(StrokePoint{Point: geom.Pt(20, 10), Pressure: 1}, strategy) {
			t.Errorf("%v: Append far point = false, want true", strategy)
		}
	}
}

func TestDecimateKeepsEvenIndices(t *testing.T) {
	for _, n := range []int{501, 502, 1000, 7} {
		pts := make([]StrokePoint, n)
		for i := range pts {
			pts[i] = StrokePoint{Point: geom.Pt(float64(i), 0)}
		}
		got := Decimate(pts)
		if max := (n + 1) / 2; len(got) > max {
			t.Errorf("n=%d: len = %d, want <= %d", n, len(got), max)
		}
		for j, p := range got {
			if p.X != float64(2*j) {
				t.Errorf("n=%d: got[%d].X = %v, want %d", n, j, p.X, 2*j)
				break
			}
		}
	}
}

func TestAppendDecimatesLongStrokes(t *testing.T) {
	s := NewStroke(StrokeStyle{})
	for i := 0; i <= DecimateAbove; i++ {
		s.Append(StrokePoint{Point: geom.Pt(float64(i*3), 0)}, SmoothSpline)
	}
	if want := (DecimateAbove + 2) / 2; len(s.Points) != want {
		t.Fatalf("len(Points) = %d, want %d", len(s.Points), want)
	}
	for j, p := range s.Points {
		if p.X != float64(j*6) {
			t.Fatalf("Points[%d].X = %v, want %d", j, p.X, j*6)
		}
	}
}

func TestSplinePoints(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 10), geom.Pt(20, 0), geom.Pt(30, 10)}
	got := SplinePoints(pts, 0.5)
	if got[0] != pts[0] || got[3] != pts[3] {
		t.Errorf("endpoints changed: %v", got)
	}
	// point (10,10), midpoint with (20,0) is (15,5); half way is (12.5,7.5)
	if want := geom.Pt(12.5, 7.5); got[1] != want {
		t.Errorf("got[1] = %v, want %v", got[1], want)
	}
	if pts[1] != geom.Pt(10, 10) {
		t.Error("SplinePoints modified its input")
	}
	again := SplinePoints(pts, 0.5)
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("SplinePoints is not deterministic at %d", i)
		}
	}
	same := SplinePoints(pts, 1)
	for i := range same {
		if same[i] != pts[i] {
			t.Errorf("factor 1: got[%d] = %v, want %v", i, same[i], pts[i])
		}
	}
}

func TestCurvePath(t *testing.T) {
	pts := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 10)}
	start, segs := CurvePath(pts)
	if start != pts[0] {
		t.Errorf("start = %v, want %v", start, pts[0])
	}
	if len(segs) != 2 {
		t.Fatalf("len(segs) = %d, want 2", len(segs))
	}
	if segs[0].Ctrl != pts[1] || segs[0].End != geom.Pt(15, 5) {
		t.Errorf("segs[0] = %+v", segs[0])
	}
	if segs[1].End != pts[2] {
		t.Errorf("last segment ends at %v, want %v", segs[1].End, pts[2])
	}
}

func TestIncrementalSmoothingBlendsTowardPrevious(t *testing.T) {
	s := NewStroke(StrokeStyle{Smoothing: true, SmoothingFactor: 0.5})
	s.Append(StrokePoint{Point: geom.Pt(0, 0), Time: 0}, SmoothIncremental)
	s.Append(StrokePoint{Point: geom.Pt(10, 0), Time: 100}, SmoothIncremental)

	// slow sample: speed 0.1 px/ms gives weight clamped to 0.45.
	// fixed blend: 0.5*0 + 0.5*10 = 5; adaptive: 0.45*0 + 0.55*5 = 2.75
	got := s.Points[1].X
	if math.Abs(got-2.75) > 1e-9 {
		t.Errorf("slow sample X = %v, want 2.75", got)
	}

	fast := NewStroke(StrokeStyle{Smoothing: true, SmoothingFactor: 0.5})
	fast.Append(StrokePoint{Point: geom.Pt(0, 0), Time: 0}, SmoothIncremental)
	fast.Append(StrokePoint{Point: geom.Pt(100, 0), Time: 1}, SmoothIncremental)
	// fast sample: weight clamped to 0.1; 0.9 * 50 = 45
	if got := fast.Points[1].X; math.Abs(got-45) > 1e-9 {
		t.Errorf("fast sample X = %v, want 45", got)
	}
}

func TestIncrementalWithoutSmoothingKeepsRaw(t *testing.T) {
	s := NewStroke(StrokeStyle{Smoothing: false, SmoothingFactor: 0.5})
	s.Append(StrokePoint{Point: geom.Pt(0, 0)}, SmoothIncremental)
	s.Append(StrokePoint{Point: geom.Pt(10, 0)}, SmoothIncremental)
	if s.Points[1].Point != geom.Pt(10, 0) {
		t.Errorf("Points[1] = %v, want (10,0)", s.Points[1].Point)
	}
}

func TestBrushPressure(t *testing.T) {
	tests := []struct {
		pressure, width, opacity float64
	}{
		{1, 8, 1},
		{0.5, 4, 0.65},
		{0, 0, 0.3},
	}
	for _, tt := range tests {
		if got := BrushWidth(8, tt.pressure); got != tt.width {
			t.Errorf("BrushWidth(8, %v) = %v, want %v", tt.pressure, got, tt.width)
		}
		if got := BrushOpacity(tt.pressure); math.Abs(got-tt.opacity) > 1e-9 {
			t.Errorf("BrushOpacity(%v) = %v, want %v", tt.pressure, got, tt.opacity)
		}
	}
}

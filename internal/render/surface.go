package render

import (
	"image"
	"io"

	"github.com/gogpu/gg"
)

// Style is the stroke/fill state applied before a path is painted.
type Style struct {
	Color gg.RGBA
	Width float64
	Cap   gg.LineCap
	Join  gg.LineJoin
}

// Surface is the immediate-mode drawing target the board renders into.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	Arc(x, y, r, angle1, angle2 float64)
	ClosePath()
	SetStyle(s Style)
	Stroke() error
	Fill() error
	// Clear paints the whole surface with bg.
	Clear(bg gg.RGBA)
	Push()
	Pop()
	Translate(dx, dy float64)
	// Snapshot exports the current pixels.
	Snapshot() image.Image
	// DrawImage composites a previously captured raster at (x, y).
	DrawImage(img image.Image, x, y float64)
	Size() (w, h int)
}

// GGSurface implements Surface on a gg.Context using the software
// rasterizer.
type GGSurface struct {
	dc *gg.Context
}

var (
	_ Surface   = (*GGSurface)(nil)
	_ io.Closer = (*GGSurface)(nil)
)

// NewGGSurface creates a w×h surface.
func NewGGSurface(w, h int) *GGSurface {
	return &GGSurface{dc: gg.NewContext(w, h)}
}

func (s *GGSurface) BeginPath()                       { s.dc.ClearPath() }
func (s *GGSurface) MoveTo(x, y float64)              { s.dc.MoveTo(x, y) }
func (s *GGSurface) LineTo(x, y float64)              { s.dc.LineTo(x, y) }
func (s *GGSurface) QuadraticTo(cx, cy, x, y float64) { s.dc.QuadraticTo(cx, cy, x, y) }
func (s *GGSurface) Arc(x, y, r, a1, a2 float64)      { s.dc.DrawArc(x, y, r, a1, a2) }
func (s *GGSurface) ClosePath()                       { s.dc.ClosePath() }
func (s *GGSurface) Stroke() error                    { return s.dc.Stroke() }
func (s *GGSurface) Fill() error                      { return s.dc.Fill() }
func (s *GGSurface) Clear(bg gg.RGBA)                 { s.dc.ClearWithColor(bg) }
func (s *GGSurface) Push()                            { s.dc.Push() }
func (s *GGSurface) Pop()                             { s.dc.Pop() }
func (s *GGSurface) Translate(dx, dy float64)         { s.dc.Translate(dx, dy) }
func (s *GGSurface) Snapshot() image.Image            { return s.dc.Image() }
func (s *GGSurface) Size() (int, int)                 { return s.dc.Width(), s.dc.Height() }

func (s *GGSurface) SetStyle(st Style) {
	s.dc.SetRGBA(st.Color.R, st.Color.G, st.Color.B, st.Color.A)
	s.dc.SetLineWidth(st.Width)
	s.dc.SetLineCap(st.Cap)
	s.dc.SetLineJoin(st.Join)
}

func (s *GGSurface) DrawImage(img image.Image, x, y float64) {
	if img == nil {
		return
	}
	s.dc.DrawImage(gg.ImageBufFromImage(img), x, y)
}

// Resize reallocates the backing pixmap, e.g. when the window changes size.
func (s *GGSurface) Resize(w, h int) error {
	if w == s.dc.Width() && h == s.dc.Height() {
		return nil
	}
	return s.dc.Resize(w, h)
}

func (s *GGSurface) Close() error { return s.dc.Close() }

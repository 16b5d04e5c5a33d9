package render

import (
	"image"

	"github.com/gogpu/gg"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/state"
)

var (
	selectionColor = gg.Hex("#1e88e5")
	bandColor      = gg.RGBA{R: 0.12, G: 0.53, B: 0.9, A: 0.6}
)

const selectionPadding = 4

// Scene is everything needed to paint one frame.
type Scene struct {
	Elements   []state.Element
	InProgress state.Element
	Selected   []state.Element
	Band       *geom.Box
	Offset     geom.Point
	// Base is a raster drawn underneath the vector elements, e.g. the
	// preview of a drawing whose vectors have not been replayed yet.
	Base image.Image
}

// Renderer repaints the whole board on every frame.
type Renderer struct {
	Background gg.RGBA
	Strategy   state.Strategy

	brushes map[string]*brushStyles
}

func NewRenderer(background string, strategy state.Strategy) *Renderer {
	return &Renderer{
		Background: gg.Hex(background),
		Strategy:   strategy,
		brushes:    make(map[string]*brushStyles),
	}
}

// Render clears s and replays the scene onto it.
func (r *Renderer) Render(s Surface, sc Scene) error {
	s.Clear(r.Background)
	s.Push()
	defer s.Pop()
	s.Translate(-sc.Offset.X, -sc.Offset.Y)

	if sc.Base != nil {
		s.DrawImage(sc.Base, 0, 0)
	}

	live := make(map[string]struct{}, len(sc.Elements)+1)
	for _, el := range sc.Elements {
		live[el.ID()] = struct{}{}
		if err := DrawElement(s, el, r.Strategy, r.brushFor(el)); err != nil {
			return err
		}
	}
	if sc.InProgress != nil {
		live[sc.InProgress.ID()] = struct{}{}
		if err := DrawElement(s, sc.InProgress, r.Strategy, r.brushFor(sc.InProgress)); err != nil {
			return err
		}
	}
	for id := range r.brushes {
		if _, ok := live[id]; !ok {
			delete(r.brushes, id)
		}
	}

	for _, el := range sc.Selected {
		if err := outline(s, el.Bounds().Pad(selectionPadding), selectionColor, 1); err != nil {
			return err
		}
	}
	if sc.Band != nil {
		if err := outline(s, sc.Band.Normalize(), bandColor, 1); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) brushFor(el state.Element) *brushStyles {
	st, ok := el.(*state.Stroke)
	if !ok || st.Pen != state.PenBrush {
		return nil
	}
	b := r.brushes[el.ID()]
	if b == nil {
		b = &brushStyles{}
		r.brushes[el.ID()] = b
	}
	return b
}

func outline(s Surface, b geom.Box, c gg.RGBA, width float64) error {
	s.SetStyle(Style{Color: c, Width: width, Cap: gg.LineCapButt, Join: gg.LineJoinMiter})
	s.BeginPath()
	s.MoveTo(b.X, b.Y)
	s.LineTo(b.X+b.W, b.Y)
	s.LineTo(b.X+b.W, b.Y+b.H)
	s.LineTo(b.X, b.Y+b.H)
	s.ClosePath()
	return s.Stroke()
}

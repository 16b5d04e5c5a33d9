package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"LocalBoard/internal/state"
)

// ShapeLineWidth is the outline width of rectangles and circles.
const ShapeLineWidth = 2

type brushKey struct {
	width   float64
	opacity float64
}

// brushStyles memoizes the translucent colours of one brush stroke. It
// is only valid for a single stroke colour.
type brushStyles struct {
	color  string
	styles map[brushKey]gg.RGBA
}

func (b *brushStyles) lookup(color string, width, opacity float64) gg.RGBA {
	if b.color != color || b.styles == nil {
		b.color = color
		b.styles = make(map[brushKey]gg.RGBA)
	}
	k := brushKey{width: width, opacity: opacity}
	if c, ok := b.styles[k]; ok {
		return c
	}
	c := gg.Hex(color)
	c.A *= opacity
	b.styles[k] = c
	return c
}

// DrawElement paints one element. cache may be nil.
func DrawElement(s Surface, el state.Element, strategy state.Strategy, cache *brushStyles) error {
	switch el := el.(type) {
	case *state.Stroke:
		return drawStroke(s, el, strategy, cache)
	case *state.Rect:
		s.SetStyle(Style{Color: gg.Hex(el.Color), Width: ShapeLineWidth, Cap: gg.LineCapButt, Join: gg.LineJoinMiter})
		s.BeginPath()
		s.MoveTo(el.X, el.Y)
		s.LineTo(el.X+el.W, el.Y)
		s.LineTo(el.X+el.W, el.Y+el.H)
		s.LineTo(el.X, el.Y+el.H)
		s.ClosePath()
		return s.Stroke()
	case *state.Circle:
		s.SetStyle(Style{Color: gg.Hex(el.Color), Width: ShapeLineWidth, Cap: gg.LineCapRound, Join: gg.LineJoinRound})
		s.BeginPath()
		s.Arc(el.X, el.Y, el.Radius, 0, 2*math.Pi)
		s.ClosePath()
		return s.Stroke()
	default:
		return fmt.Errorf("render: unsupported element %T", el)
	}
}

func drawStroke(s Surface, st *state.Stroke, strategy state.Strategy, cache *brushStyles) error {
	if len(st.Points) < 2 {
		return nil
	}
	start, segs := state.CurvePath(st.RenderPoints(strategy))

	if st.Pen != state.PenBrush {
		style := Style{Color: gg.Hex(st.Color), Width: st.Width, Cap: gg.LineCapRound, Join: gg.LineJoinRound}
		if st.Pen == state.PenFlat {
			style.Cap, style.Join = gg.LineCapButt, gg.LineJoinBevel
		}
		s.SetStyle(style)
		s.BeginPath()
		s.MoveTo(start.X, start.Y)
		for _, seg := range segs {
			s.QuadraticTo(seg.Ctrl.X, seg.Ctrl.Y, seg.End.X, seg.End.Y)
		}
		return s.Stroke()
	}

	if cache == nil {
		cache = &brushStyles{}
	}
	// pressure varies along a brush stroke, so each segment is painted on
	// its own
	prev := start
	for _, seg := range segs {
		pressure := st.Points[seg.Index].Pressure
		width := state.BrushWidth(st.Width, pressure)
		opacity := state.BrushOpacity(pressure)
		s.SetStyle(Style{
			Color: cache.lookup(st.Color, width, opacity),
			Width: width,
			Cap:   gg.LineCapRound,
			Join:  gg.LineJoinRound,
		})
		s.BeginPath()
		s.MoveTo(prev.X, prev.Y)
		s.QuadraticTo(seg.Ctrl.X, seg.Ctrl.Y, seg.End.X, seg.End.Y)
		if err := s.Stroke(); err != nil {
			return err
		}
		prev = seg.End
	}
	return nil
}

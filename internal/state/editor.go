package state

import (
	"errors"
	"math"
	"slices"

	"LocalBoard/internal/geom"
)

// ErrEmptySelection is returned when a delete is requested with nothing
// selected.
var ErrEmptySelection = errors.New("nothing selected")

type Tool string

const (
	ToolPen        Tool = "pen"
	ToolEraser     Tool = "eraser"
	ToolRect       Tool = "rect"
	ToolCircle     Tool = "circle"
	ToolSelect     Tool = "select"
	ToolSelectRect Tool = "select-rect"
	ToolPan        Tool = "pan"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPen, ToolEraser, ToolRect, ToolCircle, ToolSelect, ToolSelectRect, ToolPan}

// Mode is the gesture the editor is currently tracking.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeDraggingSingle
	ModeDraggingMultiple
	ModeRubberBand
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	case ModeDraggingSingle:
		return "dragging-single"
	case ModeDraggingMultiple:
		return "dragging-multiple"
	case ModeRubberBand:
		return "rubber-band"
	case ModePanning:
		return "panning"
	default:
		return "unknown"
	}
}

// Options configures the editor and the style of new elements.
type Options struct {
	Color           string
	Background      string
	Width           float64
	EraserWidth     float64
	Pen             Pen
	Smoothing       bool
	SmoothingFactor float64
	Strategy        Strategy
	// Pressure enables pressure-sensitive input. When false every sample
	// is treated as full pressure.
	Pressure bool
	// SurfaceW and SurfaceH bound the pannable board.
	SurfaceW, SurfaceH float64
}

// Pointer is a single pointer sample in viewport coordinates. Time is in
// milliseconds.
type Pointer struct {
	Pos      geom.Point
	Pressure float64
	Time     int64
}

// Editor owns the element list, the in-progress element and the
// selection, and advances them in response to pointer input. It is not
// safe for concurrent use: the host calls it from its event loop only.
type Editor struct {
	opts     Options
	tool     Tool
	mode     Mode
	elements []Element
	current  Element
	sel      Selection

	anchor geom.Point // gesture start, canvas coordinates
	last   geom.Point // previous sample, canvas coordinates
	band   geom.Box

	panAnchor    geom.Point // viewport coordinates
	panStart     geom.Point
	offset       geom.Point
	viewW, viewH float64

	version uint64
}

func NewEditor(opts Options) *Editor {
	return &Editor{opts: opts, tool: ToolPen}
}

func (e *Editor) Tool() Tool          { return e.tool }
func (e *Editor) Mode() Mode          { return e.mode }
func (e *Editor) Options() Options    { return e.opts }
func (e *Editor) Offset() geom.Point  { return e.offset }
func (e *Editor) InProgress() Element { return e.current }

// Version increases on every change to vector content.
func (e *Editor) Version() uint64 { return e.version }

// Elements returns the committed elements in z-order, bottom first.
func (e *Editor) Elements() []Element {
	return slices.Clone(e.elements)
}

func (e *Editor) Len() int { return len(e.elements) }

// Find returns the committed element with the given id.
func (e *Editor) Find(id string) (Element, int) {
	for i, el := range e.elements {
		if el.ID() == id {
			return el, i
		}
	}
	return nil, -1
}

// Selected returns the selected elements in z-order.
func (e *Editor) Selected() []Element {
	var out []Element
	for _, el := range e.elements {
		if e.sel.Has(el.ID()) {
			out = append(out, el)
		}
	}
	return out
}

// RubberBand returns the selection rectangle while one is being dragged.
func (e *Editor) RubberBand() (geom.Box, bool) {
	return e.band, e.mode == ModeRubberBand
}

// HitTest returns the topmost committed element containing p (canvas
// coordinates).
func (e *Editor) HitTest(p geom.Point) Element {
	for i := len(e.elements) - 1; i >= 0; i-- {
		if e.elements[i].Contains(p) {
			return e.elements[i]
		}
	}
	return nil
}

// ToCanvas converts a viewport position to board coordinates.
func (e *Editor) ToCanvas(p geom.Point) geom.Point {
	return p.Add(e.offset.X, e.offset.Y)
}

// PointerDown starts a gesture for the active tool. It reports whether
// the board needs a redraw.
func (e *Editor) PointerDown(ev Pointer) bool {
	changed := false
	if e.mode != ModeIdle {
		// a previous gesture never saw its pointer-up
		changed = e.finish()
	}
	p := e.ToCanvas(ev.Pos)
	e.anchor, e.last = p, p

	switch e.tool {
	case ToolPen, ToolEraser:
		style := e.strokeStyle()
		s := NewStroke(style)
		s.Append(e.sample(ev, p), e.opts.Strategy)
		e.current = s
		e.mode = ModeDrawing
		if e.tool == ToolEraser {
			e.erase(p)
		}
		e.touch()
		return true
	case ToolRect:
		e.current = NewRect(p, e.opts.Color)
		e.mode = ModeDrawing
		e.touch()
		return true
	case ToolCircle:
		e.current = NewCircle(p, e.opts.Color)
		e.mode = ModeDrawing
		e.touch()
		return true
	case ToolSelect:
		return e.pick(p) || changed
	case ToolSelectRect:
		if e.grabMulti(p) {
			return changed
		}
		e.band = geom.Box{X: p.X, Y: p.Y}
		e.mode = ModeRubberBand
		return true
	case ToolPan:
		e.panAnchor = ev.Pos
		e.panStart = e.offset
		e.mode = ModePanning
	}
	return changed
}

// pick runs the select tool's pointer-down: grab the current selection
// if it is under p, otherwise select the topmost element there.
func (e *Editor) pick(p geom.Point) bool {
	if e.grabMulti(p) {
		return false
	}
	if id, ok := e.sel.Single(); ok {
		if el, _ := e.Find(id); el != nil && el.Contains(p) {
			e.mode = ModeDraggingSingle
			return false
		}
	}
	if el := e.HitTest(p); el != nil {
		e.sel.SetSingle(el.ID())
		e.mode = ModeDraggingSingle
		return true
	}
	changed := !e.sel.Empty()
	e.sel.Clear()
	e.mode = ModeIdle
	return changed
}

// grabMulti starts dragging the multi-selection when p is on one of its
// elements, topmost first.
func (e *Editor) grabMulti(p geom.Point) bool {
	for i := len(e.elements) - 1; i >= 0; i-- {
		el := e.elements[i]
		if e.sel.InMulti(el.ID()) && el.Contains(p) {
			e.mode = ModeDraggingMultiple
			return true
		}
	}
	return false
}

// PointerMove advances the active gesture.
func (e *Editor) PointerMove(ev Pointer) bool {
	p := e.ToCanvas(ev.Pos)
	dx, dy := p.X-e.last.X, p.Y-e.last.Y
	changed := false

	switch e.mode {
	case ModeDrawing:
		changed = e.extend(ev, p)
	case ModeDraggingSingle:
		if id, ok := e.sel.Single(); ok {
			if el, _ := e.Find(id); el != nil && (dx != 0 || dy != 0) {
				el.Move(dx, dy)
				changed = true
			}
		}
	case ModeDraggingMultiple:
		if dx != 0 || dy != 0 {
			for _, el := range e.elements {
				if e.sel.InMulti(el.ID()) {
					el.Move(dx, dy)
					changed = true
				}
			}
		}
	case ModeRubberBand:
		e.band = geom.BoxFromCorners(e.anchor, p)
		e.last = p
		return true
	case ModePanning:
		before := e.offset
		e.setOffset(geom.Pt(
			e.panStart.X-(ev.Pos.X-e.panAnchor.X),
			e.panStart.Y-(ev.Pos.Y-e.panAnchor.Y),
		))
		return e.offset != before
	default:
		return false
	}
	e.last = p
	if changed {
		e.touch()
	}
	return changed
}

func (e *Editor) extend(ev Pointer, p geom.Point) bool {
	switch el := e.current.(type) {
	case *Stroke:
		appended := el.Append(e.sample(ev, p), e.opts.Strategy)
		erased := false
		if e.tool == ToolEraser {
			erased = e.erase(p)
		}
		return appended || erased
	case *Rect:
		el.ResizeTo(p)
		return true
	case *Circle:
		el.ResizeTo(p)
		return true
	}
	return false
}

// erase strips committed stroke points near p and removes strokes left
// with one point or fewer.
func (e *Editor) erase(p geom.Point) bool {
	touched := false
	kept := e.elements[:0]
	for _, el := range e.elements {
		if s, ok := el.(*Stroke); ok && s.Erase(p, e.opts.EraserWidth) > 0 {
			touched = true
			if len(s.Points) <= 1 {
				continue
			}
		}
		kept = append(kept, el)
	}
	clear(e.elements[len(kept):])
	e.elements = kept
	if touched {
		e.pruneSelection()
	}
	return touched
}

// PointerUp ends the active gesture, committing whatever was drawn.
func (e *Editor) PointerUp(ev Pointer) bool {
	p := e.ToCanvas(ev.Pos)
	switch e.mode {
	case ModeRubberBand:
		e.band = geom.BoxFromCorners(e.anchor, p)
	case ModeDrawing:
		switch el := e.current.(type) {
		case *Rect:
			el.ResizeTo(p)
		case *Circle:
			el.ResizeTo(p)
		}
	}
	return e.finish()
}

// PointerCancel is handled exactly like PointerUp.
func (e *Editor) PointerCancel(ev Pointer) bool {
	return e.PointerUp(ev)
}

func (e *Editor) finish() bool {
	changed := false
	switch e.mode {
	case ModeDrawing:
		changed = e.commit()
	case ModeRubberBand:
		var ids []string
		for _, el := range e.elements {
			if el.Bounds().Inside(e.band) {
				ids = append(ids, el.ID())
			}
		}
		e.sel.SetMulti(ids)
		changed = true
	}
	e.mode = ModeIdle
	e.band = geom.Box{}
	return changed
}

// commit moves the in-progress element onto the board. Elements that
// fail Valid are dropped without notice.
func (e *Editor) commit() bool {
	el := e.current
	e.current = nil
	if el == nil {
		return false
	}
	if el.Valid() {
		e.elements = append(e.elements, el)
		e.capElements()
	}
	e.touch()
	return true
}

func (e *Editor) capElements() {
	if over := len(e.elements) - MaxElements; over > 0 {
		e.elements = slices.Delete(e.elements, 0, over)
		e.pruneSelection()
	}
}

// Click handles a plain click: with the select tool it selects the
// topmost element under the pointer without starting a drag.
func (e *Editor) Click(ev Pointer) bool {
	if e.tool != ToolSelect || e.mode != ModeIdle {
		return false
	}
	el := e.HitTest(e.ToCanvas(ev.Pos))
	if el == nil {
		changed := !e.sel.Empty()
		e.sel.Clear()
		return changed
	}
	if id, ok := e.sel.Single(); ok && id == el.ID() {
		return false
	}
	e.sel.SetSingle(el.ID())
	return true
}

// DeleteSelection removes every selected element from the board.
func (e *Editor) DeleteSelection() error {
	if e.sel.Empty() {
		return ErrEmptySelection
	}
	e.elements = slices.DeleteFunc(e.elements, func(el Element) bool {
		return e.sel.Has(el.ID())
	})
	e.sel.Clear()
	if e.mode == ModeDraggingSingle || e.mode == ModeDraggingMultiple {
		e.mode = ModeIdle
	}
	e.touch()
	return nil
}

// Commit ends any gesture in progress as if the pointer was released.
func (e *Editor) Commit() bool {
	if e.mode == ModeIdle {
		return false
	}
	return e.finish()
}

// SetTool switches tools. An in-progress element is committed first and
// the selection is cleared.
func (e *Editor) SetTool(t Tool) bool {
	changed := false
	if e.mode != ModeIdle {
		changed = e.finish()
	}
	if !e.sel.Empty() {
		e.sel.Clear()
		changed = true
	}
	e.tool = t
	e.mode = ModeIdle
	return changed
}

// SetColor sets the colour for new elements and recolours the selection.
func (e *Editor) SetColor(c string) bool {
	e.opts.Color = c
	changed := false
	for _, el := range e.Selected() {
		el.SetColour(c)
		changed = true
	}
	if changed {
		e.touch()
	}
	return changed
}

func (e *Editor) SetWidth(w float64) {
	if w > 0 {
		e.opts.Width = w
	}
}

func (e *Editor) SetEraserWidth(w float64) {
	if w > 0 {
		e.opts.EraserWidth = w
	}
}

func (e *Editor) SetPen(p Pen) { e.opts.Pen = p }

func (e *Editor) SetStrategy(s Strategy) { e.opts.Strategy = s }

// SetSmoothing toggles smoothing for new strokes. factor is clamped to
// [0, 1].
func (e *Editor) SetSmoothing(enabled bool, factor float64) {
	e.opts.Smoothing = enabled
	e.opts.SmoothingFactor = math.Max(0, math.Min(1, factor))
}

// SetViewport records the visible size so panning stays on the board.
func (e *Editor) SetViewport(w, h float64) {
	e.viewW, e.viewH = w, h
	e.setOffset(e.offset)
}

func (e *Editor) setOffset(o geom.Point) {
	maxX := math.Max(0, e.opts.SurfaceW-e.viewW)
	maxY := math.Max(0, e.opts.SurfaceH-e.viewH)
	e.offset = geom.Pt(math.Max(0, math.Min(maxX, o.X)), math.Max(0, math.Min(maxY, o.Y)))
}

// PanBy scrolls the view by (dx, dy), staying on the board.
func (e *Editor) PanBy(dx, dy float64) bool {
	before := e.offset
	e.setOffset(e.offset.Add(dx, dy))
	return e.offset != before
}

// Reset clears the board for a new drawing.
func (e *Editor) Reset() {
	e.elements = nil
	e.current = nil
	e.sel.Clear()
	e.mode = ModeIdle
	e.band = geom.Box{}
	e.offset = geom.Point{}
	e.touch()
}

// Replace swaps in a loaded element list. Invalid elements are skipped.
func (e *Editor) Replace(els []Element) {
	e.elements = slices.DeleteFunc(slices.Clone(els), func(el Element) bool {
		return el == nil || !el.Valid()
	})
	e.current = nil
	e.sel.Clear()
	e.mode = ModeIdle
	e.band = geom.Box{}
	e.capElements()
	e.touch()
}

func (e *Editor) strokeStyle() StrokeStyle {
	style := StrokeStyle{
		Color:           e.opts.Color,
		Width:           e.opts.Width,
		Pen:             e.opts.Pen,
		Smoothing:       e.opts.Smoothing,
		SmoothingFactor: e.opts.SmoothingFactor,
	}
	if e.tool == ToolEraser {
		style.Color = e.opts.Background
		style.Width = e.opts.EraserWidth
		style.Pen = PenRound
	}
	return style
}

func (e *Editor) sample(ev Pointer, p geom.Point) StrokePoint {
	pressure := ev.Pressure
	if !e.opts.Pressure || pressure <= 0 {
		pressure = 1
	}
	return StrokePoint{Point: p, Pressure: math.Min(1, pressure), Time: ev.Time}
}

func (e *Editor) pruneSelection() {
	live := make(map[string]struct{}, len(e.elements))
	for _, el := range e.elements {
		live[el.ID()] = struct{}{}
	}
	e.sel.prune(func(id string) bool {
		_, ok := live[id]
		return ok
	})
}

func (e *Editor) touch() { e.version++ }

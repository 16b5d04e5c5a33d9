// Package board wires pointer input, the editor, rendering and storage
// together. A Controller is driven from a single event loop.
package board

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/state"
	"LocalBoard/internal/store"
)

// User-facing notices.
const (
	NoticeNothingSelected = "Nothing selected"
	NoticeNotFound        = "Drawing not found"
	NoticeSaveFailed      = "Save failed"
)

// FrameScheduler runs fn on the event loop at the next display frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// Dispatcher runs fn on the event loop as soon as possible. It is the
// only way work started off the loop may touch controller state.
type Dispatcher interface {
	Post(fn func())
}

type resizer interface {
	Resize(w, h int) error
}

// Controller owns the board state and turns input into redraws.
type Controller struct {
	editor   *state.Editor
	renderer *render.Renderer
	surface  render.Surface
	store    *store.Store
	frames   FrameScheduler
	loop     Dispatcher

	redrawPending bool
	base          image.Image
	decodeSeq     uint64
	spawn         func(func())

	// OnNotice receives messages meant for the user.
	OnNotice func(msg string)
	// OnFrame receives each freshly rendered frame.
	OnFrame func(img image.Image)
}

func NewController(ed *state.Editor, r *render.Renderer, surf render.Surface, st *store.Store, frames FrameScheduler, loop Dispatcher) *Controller {
	w, h := surf.Size()
	ed.SetViewport(float64(w), float64(h))
	return &Controller{
		editor:   ed,
		renderer: r,
		surface:  surf,
		store:    st,
		frames:   frames,
		loop:     loop,
		spawn:    func(fn func()) { go fn() },
	}
}

// Editor exposes the underlying editor for read access.
func (c *Controller) Editor() *state.Editor { return c.editor }

func (c *Controller) PointerDown(ev state.Pointer) {
	if c.editor.PointerDown(ev) {
		c.RequestRedraw()
	}
}

func (c *Controller) PointerMove(ev state.Pointer) {
	if c.editor.PointerMove(ev) {
		c.RequestRedraw()
	}
}

func (c *Controller) PointerUp(ev state.Pointer) {
	if c.editor.PointerUp(ev) {
		c.RequestRedraw()
	}
}

func (c *Controller) PointerCancel(ev state.Pointer) {
	if c.editor.PointerCancel(ev) {
		c.RequestRedraw()
	}
}

func (c *Controller) Click(ev state.Pointer) {
	if c.editor.Click(ev) {
		c.RequestRedraw()
	}
}

// Delete removes the selection, telling the user when there is none.
func (c *Controller) Delete() {
	if err := c.editor.DeleteSelection(); err != nil {
		if errors.Is(err, state.ErrEmptySelection) {
			c.notify(NoticeNothingSelected)
		}
		return
	}
	c.RequestRedraw()
}

func (c *Controller) SetTool(t state.Tool) {
	if c.editor.SetTool(t) {
		c.RequestRedraw()
	}
}

func (c *Controller) SetColor(color string) {
	if c.editor.SetColor(color) {
		c.RequestRedraw()
	}
}

func (c *Controller) SetWidth(w float64)       { c.editor.SetWidth(w) }
func (c *Controller) SetPen(p state.Pen)       { c.editor.SetPen(p) }
func (c *Controller) SetEraserWidth(w float64) { c.editor.SetEraserWidth(w) }

func (c *Controller) SetSmoothing(enabled bool, factor float64) {
	c.editor.SetSmoothing(enabled, factor)
}

// SetStrategy switches how strokes are smoothed, both for new samples and
// for replay, so blended points are not smoothed a second time.
func (c *Controller) SetStrategy(s state.Strategy) {
	if c.editor.Options().Strategy == s && c.renderer.Strategy == s {
		return
	}
	c.editor.SetStrategy(s)
	c.renderer.Strategy = s
	c.RequestRedraw()
}

// Scroll pans the view, e.g. from a mouse wheel.
func (c *Controller) Scroll(dx, dy float64) {
	if c.editor.PanBy(dx, dy) {
		c.RequestRedraw()
	}
}

// Resize adapts the surface and viewport to a new window size.
func (c *Controller) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if r, ok := c.surface.(resizer); ok {
		if err := r.Resize(w, h); err != nil {
			logging.Logger().Warn("resize surface", "err", err)
			return
		}
	}
	c.editor.SetViewport(float64(w), float64(h))
	c.RequestRedraw()
}

// NewDrawing clears the board.
func (c *Controller) NewDrawing() {
	c.editor.Reset()
	c.base = nil
	c.decodeSeq++
	c.RequestRedraw()
}

// Save stores the current elements with a snapshot of the surface.
func (c *Controller) Save() (int64, error) {
	c.editor.Commit()
	c.renderScene(false)
	preview := c.surface.Snapshot()
	c.RequestRedraw()
	id, err := c.store.Save(c.editor.Elements(), preview)
	if err != nil {
		logging.Logger().Error("save failed", "err", err)
		c.notify(fmt.Sprintf("%s: %v", NoticeSaveFailed, err))
		return 0, err
	}
	c.notify(fmt.Sprintf("Saved drawing %d", id))
	return id, nil
}

// Load replaces the board with a saved drawing. An unknown id leaves the
// board untouched.
func (c *Controller) Load(id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		c.notify(NoticeNotFound)
		return fmt.Errorf("drawing %q: %w", id, store.ErrNotFound)
	}
	return c.LoadID(n)
}

func (c *Controller) LoadID(id int64) error {
	els, err := c.store.Load(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.notify(NoticeNotFound)
		} else {
			c.notify(fmt.Sprintf("Load failed: %v", err))
		}
		return err
	}
	c.editor.Reset()
	c.editor.Replace(els)
	c.base = nil
	c.decodeSeq++
	if len(els) == 0 {
		// nothing to replay; fall back to the raster preview
		if raw, err := c.store.PreviewPNG(id); err == nil && raw != nil {
			c.decodePreview(raw)
		}
	}
	c.notify(fmt.Sprintf("Loaded drawing %d", id))
	c.RequestRedraw()
	return nil
}

// decodePreview decodes raw off the event loop and scales it back up to
// the surface, since previews are stored as thumbnails. The result is
// dropped if the board was edited or reloaded while decoding.
func (c *Controller) decodePreview(raw []byte) {
	seq := c.decodeSeq
	version := c.editor.Version()
	w, h := c.surface.Size()
	c.spawn(func() {
		var base image.Image
		img, err := png.Decode(bytes.NewReader(raw))
		if err == nil {
			base = render.Fit(img, w, h)
		}
		c.loop.Post(func() {
			if err != nil {
				logging.Logger().Warn("decode preview", "err", err)
				return
			}
			if seq != c.decodeSeq || version != c.editor.Version() {
				logging.Logger().Debug("stale preview dropped", "seq", seq)
				return
			}
			c.base = base
			c.RequestRedraw()
		})
	})
}

// Drawings lists saved drawings for the gallery.
func (c *Controller) Drawings() ([]store.Drawing, error) {
	return c.store.List()
}

// DeleteDrawing removes a saved drawing.
func (c *Controller) DeleteDrawing(id int64) error {
	if err := c.store.Delete(id); err != nil {
		c.notify(fmt.Sprintf("Delete failed: %v", err))
		return err
	}
	return nil
}

// RequestRedraw schedules one frame; further requests before it runs are
// absorbed.
func (c *Controller) RequestRedraw() {
	if c.redrawPending {
		return
	}
	c.redrawPending = true
	c.frames.RequestFrame(c.frame)
}

func (c *Controller) frame() {
	c.redrawPending = false
	c.renderScene(true)
	if c.OnFrame != nil {
		c.OnFrame(c.surface.Snapshot())
	}
}

// renderScene draws the board. Without overlays the selection and the
// rubber band are left out, as they are for previews.
func (c *Controller) renderScene(overlays bool) {
	sc := render.Scene{
		Elements:   c.editor.Elements(),
		InProgress: c.editor.InProgress(),
		Offset:     c.editor.Offset(),
		Base:       c.base,
	}
	if overlays {
		sc.Selected = c.editor.Selected()
		if band, ok := c.editor.RubberBand(); ok {
			sc.Band = &band
		}
	}
	if err := c.renderer.Render(c.surface, sc); err != nil {
		logging.Logger().Error("render", "err", err)
	}
}

// ViewportToCanvas converts a host position to board coordinates.
func (c *Controller) ViewportToCanvas(p geom.Point) geom.Point {
	return c.editor.ToCanvas(p)
}

func (c *Controller) notify(msg string) {
	logging.Logger().Debug("notice", "msg", msg)
	if c.OnNotice != nil {
		c.OnNotice(msg)
	}
}

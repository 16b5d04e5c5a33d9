package board

import (
	"errors"
	"image"
	"strings"
	"testing"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/render"
	"LocalBoard/internal/state"
	"LocalBoard/internal/store"
)

// queue collects scheduled work so tests decide when it runs.
type queue struct{ pending []func() }

func (q *queue) RequestFrame(fn func()) { q.pending = append(q.pending, fn) }
func (q *queue) Post(fn func())         { q.pending = append(q.pending, fn) }

func (q *queue) flush() int {
	n := 0
	for len(q.pending) > 0 {
		fn := q.pending[0]
		q.pending = q.pending[1:]
		fn()
		n++
	}
	return n
}

type harness struct {
	c       *Controller
	frames  *queue
	loop    *queue
	kv      store.KV
	notices []string
	shown   int
}

func newHarness(t *testing.T, kv store.KV) *harness {
	t.Helper()
	opts := state.Options{
		Color:           "#000000",
		Background:      "#ffffff",
		Width:           3,
		EraserWidth:     10,
		Pen:             state.PenRound,
		Smoothing:       true,
		SmoothingFactor: 0.5,
		Pressure:        true,
		SurfaceW:        400,
		SurfaceH:        300,
	}
	surf := render.NewGGSurface(200, 150)
	t.Cleanup(func() { surf.Close() })
	h := &harness{frames: &queue{}, loop: &queue{}, kv: kv}
	h.c = NewController(state.NewEditor(opts), render.NewRenderer(opts.Background, opts.Strategy),
		surf, store.New(kv, ""), h.frames, h.loop)
	h.c.OnNotice = func(msg string) { h.notices = append(h.notices, msg) }
	h.c.OnFrame = func(image.Image) { h.shown++ }
	return h
}

func (h *harness) stroke(pts ...geom.Point) {
	h.c.PointerDown(state.Pointer{Pos: pts[0], Pressure: 1})
	for _, p := range pts[1:] {
		h.c.PointerMove(state.Pointer{Pos: p, Pressure: 1})
	}
	h.c.PointerUp(state.Pointer{Pos: pts[len(pts)-1], Pressure: 1})
}

func (h *harness) lastNotice() string {
	if len(h.notices) == 0 {
		return ""
	}
	return h.notices[len(h.notices)-1]
}

func TestRedrawsAreCoalesced(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	h.stroke(geom.Pt(10, 10), geom.Pt(20, 10), geom.Pt(30, 15), geom.Pt(40, 20))
	if n := len(h.frames.pending); n != 1 {
		t.Fatalf("pending frames = %d, want 1", n)
	}
	h.frames.flush()
	if h.shown != 1 {
		t.Errorf("frames shown = %d, want 1", h.shown)
	}
	h.c.RequestRedraw()
	if n := len(h.frames.pending); n != 1 {
		t.Errorf("pending frames after flush = %d, want 1", n)
	}
}

func TestDeleteWithoutSelectionNotifies(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	h.c.SetTool(state.ToolSelect)
	h.c.Delete()
	if got := h.lastNotice(); got != NoticeNothingSelected {
		t.Errorf("notice = %q, want %q", got, NoticeNothingSelected)
	}
	if len(h.frames.pending) != 0 {
		t.Errorf("Delete() with nothing selected requested a redraw")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	h.c.SetTool(state.ToolRect)
	h.stroke(geom.Pt(10, 10), geom.Pt(30, 30))
	id, err := h.c.Save()
	if err != nil {
		t.Fatal(err)
	}
	h.c.NewDrawing()
	if n := h.c.Editor().Len(); n != 0 {
		t.Fatalf("Len() after NewDrawing = %d, want 0", n)
	}
	if err := h.c.LoadID(id); err != nil {
		t.Fatal(err)
	}
	els := h.c.Editor().Elements()
	if len(els) != 1 {
		t.Fatalf("len = %d, want 1", len(els))
	}
	if want := (geom.Box{X: 10, Y: 10, W: 20, H: 20}); els[0].Bounds() != want {
		t.Errorf("Bounds() = %+v, want %+v", els[0].Bounds(), want)
	}
	if len(h.loop.pending) != 0 {
		t.Errorf("preview decoded for a drawing with vector data")
	}
}

func TestSaveKeepsSelection(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	h.c.SetTool(state.ToolRect)
	h.stroke(geom.Pt(10, 10), geom.Pt(30, 30))
	h.c.SetTool(state.ToolSelect)
	h.c.Click(state.Pointer{Pos: geom.Pt(20, 20), Pressure: 1})
	if _, err := h.c.Save(); err != nil {
		t.Fatal(err)
	}
	if n := len(h.c.Editor().Selected()); n != 1 {
		t.Errorf("len(Selected()) after Save = %d, want 1", n)
	}
}

func TestLoadUnknownKeepsBoard(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	h.stroke(geom.Pt(10, 10), geom.Pt(20, 10), geom.Pt(30, 10))
	before := h.c.Editor().Version()

	for _, id := range []string{"999", "not-a-number"} {
		err := h.c.Load(id)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Load(%q) error = %v, want ErrNotFound", id, err)
		}
		if got := h.lastNotice(); got != NoticeNotFound {
			t.Errorf("Load(%q) notice = %q, want %q", id, got, NoticeNotFound)
		}
	}
	if n := h.c.Editor().Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
	if v := h.c.Editor().Version(); v != before {
		t.Errorf("Version() = %d, want %d", v, before)
	}
}

type failingKV struct{ *store.MemoryKV }

func (failingKV) Set(string, string) error { return errors.New("quota exceeded") }

func TestSaveFailureNotifies(t *testing.T) {
	h := newHarness(t, failingKV{store.NewMemoryKV()})
	h.stroke(geom.Pt(10, 10), geom.Pt(20, 10), geom.Pt(30, 10))
	if _, err := h.c.Save(); err == nil {
		t.Fatal("Save() error = nil, want error")
	}
	if got := h.lastNotice(); !strings.HasPrefix(got, NoticeSaveFailed) {
		t.Errorf("notice = %q, want prefix %q", got, NoticeSaveFailed)
	}
	if n := h.c.Editor().Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

// savePreviewOnly stores an empty drawing that still carries a preview.
func savePreviewOnly(t *testing.T, h *harness) int64 {
	t.Helper()
	id, err := h.c.Save()
	if err != nil {
		t.Fatal(err)
	}
	h.c.NewDrawing()
	h.frames.flush()
	return id
}

func TestPreviewBecomesBaseLayer(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	var spawned []func()
	h.c.spawn = func(fn func()) { spawned = append(spawned, fn) }

	id := savePreviewOnly(t, h)
	// a larger window than the one the preview was taken in
	h.c.Resize(400, 300)
	h.frames.flush()
	if err := h.c.LoadID(id); err != nil {
		t.Fatal(err)
	}
	if len(spawned) != 1 {
		t.Fatalf("decodes started = %d, want 1", len(spawned))
	}
	spawned[0]()
	h.loop.flush()
	if h.c.base == nil {
		t.Fatal("base layer not set after decode")
	}
	if b := h.c.base.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("base bounds = %v, want 400x300", b)
	}
}

func TestStalePreviewIsDropped(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	var spawned []func()
	h.c.spawn = func(fn func()) { spawned = append(spawned, fn) }

	id := savePreviewOnly(t, h)
	if err := h.c.LoadID(id); err != nil {
		t.Fatal(err)
	}
	// the user starts drawing before the decode finishes
	h.stroke(geom.Pt(10, 10), geom.Pt(20, 10), geom.Pt(30, 10))
	spawned[0]()
	h.loop.flush()
	if h.c.base != nil {
		t.Error("stale preview applied after an edit")
	}

	if err := h.c.LoadID(id); err != nil {
		t.Fatal(err)
	}
	h.c.NewDrawing()
	spawned[1]()
	h.loop.flush()
	if h.c.base != nil {
		t.Error("stale preview applied after NewDrawing")
	}
}

func TestResizeUpdatesSurface(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	h.c.Resize(300, 200)
	if w, hh := h.c.surface.Size(); w != 300 || hh != 200 {
		t.Errorf("Size() = %dx%d, want 300x200", w, hh)
	}
	h.c.Resize(0, 10)
	if w, _ := h.c.surface.Size(); w != 300 {
		t.Errorf("Resize(0, 10) changed the surface")
	}
}

func TestDrawingsAndDelete(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	a, _ := h.c.Save()
	b, _ := h.c.Save()
	if err := h.c.DeleteDrawing(a); err != nil {
		t.Fatal(err)
	}
	all, err := h.c.Drawings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].ID != b {
		t.Errorf("Drawings() = %+v, want only %d", all, b)
	}
}

func TestSetStrategyUpdatesEditorAndRenderer(t *testing.T) {
	h := newHarness(t, store.NewMemoryKV())
	h.c.SetStrategy(state.SmoothIncremental)
	if got := h.c.Editor().Options().Strategy; got != state.SmoothIncremental {
		t.Errorf("editor strategy = %v, want incremental", got)
	}
	if got := h.c.renderer.Strategy; got != state.SmoothIncremental {
		t.Errorf("renderer strategy = %v, want incremental", got)
	}
	if n := len(h.frames.pending); n != 1 {
		t.Errorf("pending frames = %d, want 1", n)
	}
	h.frames.flush()

	h.c.SetStrategy(state.SmoothIncremental)
	if n := len(h.frames.pending); n != 0 {
		t.Errorf("unchanged strategy requested %d frames", n)
	}
	h.c.SetStrategy(state.SmoothSpline)
	if h.c.Editor().Options().Strategy != state.SmoothSpline || h.c.renderer.Strategy != state.SmoothSpline {
		t.Error("switching back to spline did not reach both editor and renderer")
	}
}

package store

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/state"
)

func sampleElements() []state.Element {
	s := state.NewStroke(state.StrokeStyle{
		Color:           "#ff0000",
		Width:           5.25,
		Pen:             state.PenBrush,
		Smoothing:       true,
		SmoothingFactor: 0.35,
	})
	s.Points = []state.StrokePoint{
		{Point: geom.Pt(0.1, 0.2), Pressure: 0.3, Time: 1700000000000},
		{Point: geom.Pt(10, 0), Pressure: 1},
		{Point: geom.Pt(20.000001, -3), Pressure: 0.75, Time: 1700000000016},
	}
	r := state.NewRect(geom.Pt(30, 40), "#00ff00")
	r.W, r.H = -12.5, 8
	c := state.NewCircle(geom.Pt(-5, 7), "#0000ff")
	c.Radius = 3.3333333333
	return []state.Element{s, r, c}
}

func TestElementRoundTrip(t *testing.T) {
	in := sampleElements()
	data, err := EncodeElements(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeElements(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}

	s, ok := out[0].(*state.Stroke)
	if !ok {
		t.Fatalf("out[0] = %T, want *state.Stroke", out[0])
	}
	want := in[0].(*state.Stroke)
	if s.StrokeStyle != want.StrokeStyle {
		t.Errorf("stroke style = %+v, want %+v", s.StrokeStyle, want.StrokeStyle)
	}
	if len(s.Points) != len(want.Points) {
		t.Fatalf("len(Points) = %d, want %d", len(s.Points), len(want.Points))
	}
	for i := range s.Points {
		if s.Points[i] != want.Points[i] {
			t.Errorf("Points[%d] = %+v, want %+v", i, s.Points[i], want.Points[i])
		}
	}

	r, ok := out[1].(*state.Rect)
	if !ok {
		t.Fatalf("out[1] = %T, want *state.Rect", out[1])
	}
	wr := in[1].(*state.Rect)
	if r.X != wr.X || r.Y != wr.Y || r.W != wr.W || r.H != wr.H || r.Color != wr.Color {
		t.Errorf("rect = %+v, want %+v", r, wr)
	}

	c, ok := out[2].(*state.Circle)
	if !ok {
		t.Fatalf("out[2] = %T, want *state.Circle", out[2])
	}
	wc := in[2].(*state.Circle)
	if c.X != wc.X || c.Y != wc.Y || c.Radius != wc.Radius || c.Color != wc.Color {
		t.Errorf("circle = %+v, want %+v", c, wc)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, err := DecodeElement([]byte(`{"type":"triangle"}`)); err == nil {
		t.Error("DecodeElement(triangle) error = nil, want error")
	}
}

func TestSaveAndLoadRect(t *testing.T) {
	st := New(NewMemoryKV(), "")
	r := state.NewRect(geom.Pt(10, 10), "#000000")
	r.W, r.H = 20, 20
	id, err := st.Save([]state.Element{r}, nil)
	if err != nil {
		t.Fatal(err)
	}
	els, err := st.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(els) != 1 {
		t.Fatalf("len = %d, want 1", len(els))
	}
	if want := (geom.Box{X: 10, Y: 10, W: 20, H: 20}); els[0].Bounds() != want {
		t.Errorf("Bounds() = %+v, want %+v", els[0].Bounds(), want)
	}
}

func TestLoadUnknownID(t *testing.T) {
	st := New(NewMemoryKV(), "")
	if _, err := st.Load(12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := st.Save(sampleElements(), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSaveAssignsUniqueIDs(t *testing.T) {
	st := New(NewMemoryKV(), "")
	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		id, err := st.Save(nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	all, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 20 {
		t.Errorf("len(List()) = %d, want 20", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Errorf("List() not in save order at %d", i)
		}
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	kv := NewMemoryKV()
	st := New(kv, "")
	keep, _ := st.Save(sampleElements(), nil)
	gone, _ := st.Save(sampleElements(), nil)

	if err := st.Delete(gone); err != nil {
		t.Fatal(err)
	}
	after, _ := kv.Get(DefaultKey)
	if err := st.Delete(gone); err != nil {
		t.Fatal(err)
	}
	again, _ := kv.Get(DefaultKey)
	if after != again {
		t.Errorf("second Delete changed the collection:\n%s\n%s", after, again)
	}
	if _, err := st.Load(keep); err != nil {
		t.Errorf("Load(keep) = %v", err)
	}
	if _, err := st.Load(gone); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(gone) = %v, want ErrNotFound", err)
	}
}

func TestPreviewIsThumbnailPNG(t *testing.T) {
	st := New(NewMemoryKV(), "")
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	img.Set(10, 10, color.RGBA{R: 255, A: 255})
	id, err := st.Save(nil, img)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := st.PreviewPNG(id)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if b := dec.Bounds(); b.Dx() != thumbW || b.Dy() != thumbH {
		t.Errorf("preview bounds = %v, want %dx%d", b, thumbW, thumbH)
	}

	id, _ = st.Save(nil, nil)
	if raw, err := st.PreviewPNG(id); err != nil || raw != nil {
		t.Errorf("PreviewPNG(no preview) = %v, %v", raw, err)
	}
}

type failingKV struct{ *MemoryKV }

func (failingKV) Set(string, string) error { return errors.New("quota exceeded") }

func TestSaveSurfacesStorageErrors(t *testing.T) {
	st := New(failingKV{NewMemoryKV()}, "")
	if _, err := st.Save(sampleElements(), nil); err == nil {
		t.Error("Save() error = nil, want quota error")
	}
}

func TestCorruptCollection(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(DefaultKey, "{not json")
	st := New(kv, "")
	if _, err := st.List(); err == nil {
		t.Error("List() error = nil for corrupt data")
	}
	if _, err := st.Load(1); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want decode error", err)
	}
}

func TestDecodePreviewFromList(t *testing.T) {
	st := New(NewMemoryKV(), "")
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	id, err := st.Save(nil, img)
	if err != nil {
		t.Fatal(err)
	}
	all, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodePreview(all[0].Preview)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := st.PreviewPNG(id)
	if !bytes.Equal(got, want) {
		t.Error("DecodePreview(List()[0].Preview) differs from PreviewPNG")
	}

	tests := []struct {
		uri     string
		wantNil bool
		wantErr bool
	}{
		{"", true, false},
		{"data:image/jpeg;base64,AAAA", true, true},
		{previewPrefix + "!!!", true, true},
	}
	for _, tt := range tests {
		b, err := DecodePreview(tt.uri)
		if (err != nil) != tt.wantErr || (b == nil) != tt.wantNil {
			t.Errorf("DecodePreview(%q) = %v, %v", tt.uri, b, err)
		}
	}
}

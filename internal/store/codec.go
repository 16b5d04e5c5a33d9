package store

import (
	"encoding/json"
	"fmt"

	"LocalBoard/internal/geom"
	"LocalBoard/internal/state"
)

type pointRecord struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
	Time     int64   `json:"time,omitempty"`
}

type strokeRecord struct {
	Type             state.Kind    `json:"type"`
	Points           []pointRecord `json:"points"`
	Color            string        `json:"color"`
	LineWidth        float64       `json:"lineWidth"`
	PenType          state.Pen     `json:"penType"`
	SmoothingEnabled bool          `json:"smoothingEnabled"`
	SmoothingFactor  float64       `json:"smoothingFactor"`
}

type rectRecord struct {
	Type  state.Kind `json:"type"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	W     float64    `json:"w"`
	H     float64    `json:"h"`
	Color string     `json:"color"`
}

type circleRecord struct {
	Type   state.Kind `json:"type"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Radius float64    `json:"radius"`
	Color  string     `json:"color"`
}

// EncodeElement serializes el as a record tagged with its kind.
func EncodeElement(el state.Element) (json.RawMessage, error) {
	var rec any
	switch el := el.(type) {
	case *state.Stroke:
		pts := make([]pointRecord, len(el.Points))
		for i, p := range el.Points {
			pts[i] = pointRecord{X: p.X, Y: p.Y, Pressure: p.Pressure, Time: p.Time}
		}
		rec = strokeRecord{
			Type:             state.KindStroke,
			Points:           pts,
			Color:            el.Color,
			LineWidth:        el.Width,
			PenType:          el.Pen,
			SmoothingEnabled: el.Smoothing,
			SmoothingFactor:  el.SmoothingFactor,
		}
	case *state.Rect:
		rec = rectRecord{Type: state.KindRect, X: el.X, Y: el.Y, W: el.W, H: el.H, Color: el.Color}
	case *state.Circle:
		rec = circleRecord{Type: state.KindCircle, X: el.X, Y: el.Y, Radius: el.Radius, Color: el.Color}
	default:
		return nil, fmt.Errorf("encode element: unsupported type %T", el)
	}
	return json.Marshal(rec)
}

// DecodeElement rebuilds an element from a tagged record.
func DecodeElement(raw json.RawMessage) (state.Element, error) {
	var tag struct {
		Type state.Kind `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode element: %w", err)
	}
	switch tag.Type {
	case state.KindStroke:
		var rec strokeRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode stroke: %w", err)
		}
		s := state.NewStroke(state.StrokeStyle{
			Color:           rec.Color,
			Width:           rec.LineWidth,
			Pen:             rec.PenType,
			Smoothing:       rec.SmoothingEnabled,
			SmoothingFactor: rec.SmoothingFactor,
		})
		s.Points = make([]state.StrokePoint, len(rec.Points))
		for i, p := range rec.Points {
			s.Points[i] = state.StrokePoint{Point: geom.Pt(p.X, p.Y), Pressure: p.Pressure, Time: p.Time}
		}
		return s, nil
	case state.KindRect:
		var rec rectRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode rect: %w", err)
		}
		r := state.NewRect(geom.Pt(rec.X, rec.Y), rec.Color)
		r.W, r.H = rec.W, rec.H
		return r, nil
	case state.KindCircle:
		var rec circleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode circle: %w", err)
		}
		c := state.NewCircle(geom.Pt(rec.X, rec.Y), rec.Color)
		c.Radius = rec.Radius
		return c, nil
	default:
		return nil, fmt.Errorf("decode element: unknown type %q", tag.Type)
	}
}

// EncodeElements serializes a whole element list in order.
func EncodeElements(els []state.Element) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(els))
	for _, el := range els {
		raw, err := EncodeElement(el)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// DecodeElements rebuilds an element list in order.
func DecodeElements(data []json.RawMessage) ([]state.Element, error) {
	out := make([]state.Element, 0, len(data))
	for i, raw := range data {
		el, err := DecodeElement(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

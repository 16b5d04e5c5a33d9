package store

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"slices"
	"strings"

	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/state"
)

// DefaultKey is the storage key holding every saved drawing.
const DefaultKey = "localboard.drawings"

const (
	previewPrefix = "data:image/png;base64,"
	thumbW        = 320
	thumbH        = 240
)

// ErrNotFound is returned when no drawing has the requested id.
var ErrNotFound = errors.New("drawing not found")

// KV is the key-value storage the drawings live in.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Drawing is one saved board. Preview is a PNG data URI used for gallery
// thumbnails only.
type Drawing struct {
	ID      int64             `json:"id"`
	Data    []json.RawMessage `json:"data"`
	Preview string            `json:"preview"`
}

// Store saves and loads drawings as a JSON array under a single key.
type Store struct {
	kv    KV
	key   string
	clock *state.Clock
}

func New(kv KV, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key, clock: state.NewClock()}
}

// Save appends a new drawing built from els and a raster preview of the
// board. It makes a single write attempt.
func (s *Store) Save(els []state.Element, preview image.Image) (int64, error) {
	data, err := EncodeElements(els)
	if err != nil {
		return 0, fmt.Errorf("save drawing: %w", err)
	}
	uri, err := encodePreview(preview)
	if err != nil {
		return 0, fmt.Errorf("save drawing: %w", err)
	}
	all, err := s.readAll()
	if err != nil {
		return 0, fmt.Errorf("save drawing: %w", err)
	}
	for _, d := range all {
		s.clock.Observe(d.ID)
	}
	d := Drawing{ID: s.clock.Next(), Data: data, Preview: uri}
	if err := s.writeAll(append(all, d)); err != nil {
		return 0, fmt.Errorf("save drawing: %w", err)
	}
	logging.Logger().Info("drawing saved", "id", d.ID, "elements", len(els))
	return d.ID, nil
}

// Load returns the elements of drawing id.
func (s *Store) Load(id int64) ([]state.Element, error) {
	d, err := s.find(id)
	if err != nil {
		return nil, err
	}
	els, err := DecodeElements(d.Data)
	if err != nil {
		return nil, fmt.Errorf("load drawing %d: %w", id, err)
	}
	logging.Logger().Info("drawing loaded", "id", id, "elements", len(els))
	return els, nil
}

// PreviewPNG returns the raw PNG bytes of a drawing's preview. The result
// is nil when the drawing was saved without one.
func (s *Store) PreviewPNG(id int64) ([]byte, error) {
	d, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return DecodePreview(d.Preview)
}

// Delete removes drawing id. Deleting an absent id is not an error.
func (s *Store) Delete(id int64) error {
	all, err := s.readAll()
	if err != nil {
		return fmt.Errorf("delete drawing %d: %w", id, err)
	}
	kept := slices.DeleteFunc(all, func(d Drawing) bool { return d.ID == id })
	if len(kept) == len(all) {
		return nil
	}
	if err := s.writeAll(kept); err != nil {
		return fmt.Errorf("delete drawing %d: %w", id, err)
	}
	logging.Logger().Info("drawing deleted", "id", id)
	return nil
}

// List returns every saved drawing, oldest first.
func (s *Store) List() ([]Drawing, error) {
	return s.readAll()
}

func (s *Store) find(id int64) (Drawing, error) {
	all, err := s.readAll()
	if err != nil {
		return Drawing{}, fmt.Errorf("load drawing %d: %w", id, err)
	}
	for _, d := range all {
		if d.ID == id {
			return d, nil
		}
	}
	return Drawing{}, fmt.Errorf("drawing %d: %w", id, ErrNotFound)
}

func (s *Store) readAll() ([]Drawing, error) {
	raw, ok := s.kv.Get(s.key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var all []Drawing
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return all, nil
}

func (s *Store) writeAll(all []Drawing) error {
	if all == nil {
		all = []Drawing{}
	}
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	return s.kv.Set(s.key, string(raw))
}

func encodePreview(img image.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, render.Thumbnail(img, thumbW, thumbH)); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return previewPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePreview returns the PNG bytes of a Drawing.Preview data URI, or
// nil for an empty one.
func DecodePreview(uri string) ([]byte, error) {
	if uri == "" {
		return nil, nil
	}
	if !strings.HasPrefix(uri, previewPrefix) {
		return nil, fmt.Errorf("decode preview: unsupported data URI")
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, previewPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return b, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"LocalBoard/internal/state"
	"LocalBoard/internal/store"
)

const (
	// CustomURLScheme prefixes launch links such as
	// localboard://open?id=1700000000000.
	CustomURLScheme = "localboard://"
	settingsKey     = "localboard.settings"
)

// Config holds the board's startup settings.
type Config struct {
	SurfaceWidth  int
	SurfaceHeight int
	ViewWidth     int
	ViewHeight    int

	Background      string
	Color           string
	Width           float64
	EraserWidth     float64
	Pen             state.Pen
	Smoothing       bool
	SmoothingFactor float64
	Strategy        state.Strategy
	Pressure        bool

	StorageKey string
	// Frame is the minimum interval between redraws.
	Frame time.Duration

	// OpenID is the drawing to load at startup, from the launch link.
	OpenID string
}

func Default() Config {
	return Config{
		SurfaceWidth:    4000,
		SurfaceHeight:   3000,
		ViewWidth:       1024,
		ViewHeight:      768,
		Background:      "#ffffff",
		Color:           "#000000",
		Width:           3,
		EraserWidth:     20,
		Pen:             state.PenRound,
		Smoothing:       true,
		SmoothingFactor: 0.5,
		Strategy:        state.SmoothSpline,
		Pressure:        true,
		StorageKey:      store.DefaultKey,
		Frame:           time.Second / 60,
	}
}

// FromArgs builds the configuration from the command line. A first
// argument using the custom URL scheme may carry a drawing id.
func FromArgs(args []string) (Config, error) {
	cfg := Default()
	if len(args) > 1 && strings.HasPrefix(args[1], CustomURLScheme) {
		id, err := ParseLaunchURL(args[1])
		if err != nil {
			return cfg, err
		}
		cfg.OpenID = id
	}
	return cfg, nil
}

// ParseLaunchURL reads the optional id parameter of a launch link.
func ParseLaunchURL(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse launch link: %w", err)
	}
	if u.Scheme+"://" != CustomURLScheme {
		return "", fmt.Errorf("parse launch link: unexpected scheme %q", u.Scheme)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", fmt.Errorf("parse launch link: %w", err)
	}
	return q.Get("id"), nil
}

// EditorOptions converts the configuration into editor options.
func (c Config) EditorOptions() state.Options {
	return state.Options{
		Color:           c.Color,
		Background:      c.Background,
		Width:           c.Width,
		EraserWidth:     c.EraserWidth,
		Pen:             c.Pen,
		Smoothing:       c.Smoothing,
		SmoothingFactor: c.SmoothingFactor,
		Strategy:        c.Strategy,
		Pressure:        c.Pressure,
		SurfaceW:        float64(c.SurfaceWidth),
		SurfaceH:        float64(c.SurfaceHeight),
	}
}

// settings is the subset of Config remembered between sessions.
type settings struct {
	Color           string    `json:"color"`
	Width           float64   `json:"lineWidth"`
	EraserWidth     float64   `json:"eraserWidth"`
	Pen             state.Pen `json:"penType"`
	Smoothing       bool      `json:"smoothingEnabled"`
	SmoothingFactor float64   `json:"smoothingFactor"`
	Strategy        string    `json:"strategy"`
	Pressure        bool      `json:"pressure"`
}

// LoadPrefs overlays settings saved by SavePrefs. Missing or unreadable
// settings leave cfg unchanged.
func LoadPrefs(kv store.KV, cfg Config) Config {
	raw, ok := kv.Get(settingsKey)
	if !ok || raw == "" {
		return cfg
	}
	var s settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return cfg
	}
	if s.Color != "" {
		cfg.Color = s.Color
	}
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.EraserWidth > 0 {
		cfg.EraserWidth = s.EraserWidth
	}
	switch s.Pen {
	case state.PenRound, state.PenFlat, state.PenBrush:
		cfg.Pen = s.Pen
	}
	if s.SmoothingFactor >= 0 && s.SmoothingFactor <= 1 {
		cfg.SmoothingFactor = s.SmoothingFactor
	}
	cfg.Smoothing = s.Smoothing
	cfg.Strategy = state.ParseStrategy(s.Strategy)
	cfg.Pressure = s.Pressure
	return cfg
}

// SavePrefs remembers the tool settings of opts.
func SavePrefs(kv store.KV, opts state.Options) error {
	raw, err := json.Marshal(settings{
		Color:           opts.Color,
		Width:           opts.Width,
		EraserWidth:     opts.EraserWidth,
		Pen:             opts.Pen,
		Smoothing:       opts.Smoothing,
		SmoothingFactor: opts.SmoothingFactor,
		Strategy:        opts.Strategy.String(),
		Pressure:        opts.Pressure,
	})
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return kv.Set(settingsKey, string(raw))
}

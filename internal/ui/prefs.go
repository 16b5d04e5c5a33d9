package ui

import (
	"time"

	"fyne.io/fyne/v2"
)

// PrefsKV stores board data in the application's preferences.
type PrefsKV struct {
	p fyne.Preferences
}

func NewPrefsKV(p fyne.Preferences) *PrefsKV { return &PrefsKV{p: p} }

func (k *PrefsKV) Get(key string) (string, bool) {
	v := k.p.String(key)
	return v, v != ""
}

func (k *PrefsKV) Set(key, value string) error {
	k.p.SetString(key, value)
	return nil
}

// frameClock runs redraws on the fyne main goroutine, at most one frame
// interval after they were requested.
type frameClock struct {
	interval time.Duration
}

func (f frameClock) RequestFrame(fn func()) {
	time.AfterFunc(f.interval, func() { fyne.Do(fn) })
}

// mainLoop posts work to the fyne main goroutine.
type mainLoop struct{}

func (mainLoop) Post(fn func()) { fyne.Do(fn) }

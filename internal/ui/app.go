package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/board"
	"LocalBoard/internal/config"
	"LocalBoard/internal/export"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/state"
	"LocalBoard/internal/store"
)

const appID = "io.localboard.app"

// RunApp opens the board window and blocks until it is closed.
func RunApp(cfg config.Config) {
	a := app.NewWithID(appID)
	kv := NewPrefsKV(a.Preferences())
	cfg = config.LoadPrefs(kv, cfg)

	w := a.NewWindow("Local Whiteboard")
	w.Resize(fyne.NewSize(float32(cfg.ViewWidth), float32(cfg.ViewHeight)))

	st := store.New(kv, cfg.StorageKey)
	surf := render.NewGGSurface(cfg.ViewWidth, cfg.ViewHeight)
	defer surf.Close()
	ctrl := board.NewController(
		state.NewEditor(cfg.EditorOptions()),
		render.NewRenderer(cfg.Background, cfg.Strategy),
		surf, st, frameClock{interval: cfg.Frame}, mainLoop{},
	)

	status := widget.NewLabel("Ready")
	ctrl.OnNotice = status.SetText

	b := NewBoardWidget(ctrl)
	toolbar := NewToolbar(ctrl, Actions{
		New:  ctrl.NewDrawing,
		Save: func() { ctrl.Save() },
		Open: func() { askOpen(w, ctrl) },
		Gallery: func() {
			showGallery(a, w, ctrl)
		},
		Export: func() { exportGallery(w, st, status) },
	})

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, b))
	w.SetOnClosed(func() {
		if err := config.SavePrefs(kv, ctrl.Editor().Options()); err != nil {
			logging.Logger().Warn("save settings", "err", err)
		}
	})

	if cfg.OpenID != "" {
		logging.Logger().Info("opening drawing from launch link", "id", cfg.OpenID)
		ctrl.Load(cfg.OpenID)
	}
	ctrl.RequestRedraw()
	w.ShowAndRun()
}

func askOpen(w fyne.Window, ctrl *board.Controller) {
	id := widget.NewEntry()
	id.SetPlaceHolder("drawing id")
	dialog.ShowForm("Open drawing", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("ID", id)},
		func(ok bool) {
			if ok {
				ctrl.Load(id.Text)
			}
		}, w)
}

func exportGallery(w fyne.Window, st *store.Store, status *widget.Label) {
	save := dialog.NewFileSave(func(out fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if out == nil {
			return
		}
		defer func() {
			if err := out.Close(); err != nil {
				logging.Logger().Warn("close export", "err", err)
			}
		}()
		if err := export.Gallery(out, st); err != nil {
			logging.Logger().Error("export gallery", "err", err)
			dialog.ShowError(err, w)
			return
		}
		status.SetText(fmt.Sprintf("Exported %s", out.URI().Name()))
	}, w)
	save.SetFileName("localboard-gallery.pdf")
	save.Show()
}

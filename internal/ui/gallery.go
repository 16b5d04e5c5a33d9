package ui

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/board"
	"LocalBoard/internal/logging"
	"LocalBoard/internal/render"
	"LocalBoard/internal/store"
)

const (
	cardW = 160
	cardH = 120
)

// showGallery opens a window listing saved drawings with their previews.
func showGallery(a fyne.App, parent fyne.Window, ctrl *board.Controller) {
	win := a.NewWindow("Saved drawings")
	grid := container.NewGridWrap(fyne.NewSize(cardW+20, cardH+90))

	var reload func()
	reload = func() {
		drawings, err := ctrl.Drawings()
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		grid.RemoveAll()
		if len(drawings) == 0 {
			grid.Add(widget.NewLabel("No saved drawings"))
		}
		for _, d := range drawings {
			grid.Add(card(d, func() {
				if ctrl.LoadID(d.ID) == nil {
					win.Close()
					parent.RequestFocus()
				}
			}, func() {
				if ctrl.DeleteDrawing(d.ID) == nil {
					reload()
				}
			}))
		}
		grid.Refresh()
	}
	reload()

	win.SetContent(container.NewVScroll(grid))
	win.Resize(fyne.NewSize(620, 480))
	win.Show()
}

func card(d store.Drawing, open, remove func()) fyne.CanvasObject {
	var preview fyne.CanvasObject = widget.NewLabel("no preview")
	if raw, err := store.DecodePreview(d.Preview); err == nil && raw != nil {
		if img, err := png.Decode(bytes.NewReader(raw)); err == nil {
			thumb := canvas.NewImageFromImage(render.Thumbnail(img, cardW, cardH))
			thumb.FillMode = canvas.ImageFillContain
			thumb.SetMinSize(fyne.NewSize(cardW, cardH))
			preview = thumb
		} else {
			logging.Logger().Warn("gallery preview", "id", d.ID, "err", err)
		}
	}
	title := widget.NewLabel(fmt.Sprintf("%s\n%d elements",
		time.UnixMilli(d.ID).Format("Jan 2 15:04:05"), len(d.Data)))
	buttons := container.NewGridWithColumns(2,
		widget.NewButton("Open", open),
		widget.NewButton("Delete", remove),
	)
	return container.NewBorder(nil, container.NewVBox(title, buttons), nil, nil, preview)
}

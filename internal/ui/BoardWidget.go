package ui

import (
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/board"
	"LocalBoard/internal/geom"
	"LocalBoard/internal/state"
)

// BoardWidget shows the board raster and feeds pointer and key input to
// the controller.
type BoardWidget struct {
	widget.BaseWidget
	ctrl   *board.Controller
	raster *canvas.Image

	down bool
	last fyne.Position
}

var (
	_ fyne.Widget       = (*BoardWidget)(nil)
	_ fyne.Draggable    = (*BoardWidget)(nil)
	_ fyne.Tappable     = (*BoardWidget)(nil)
	_ fyne.Focusable    = (*BoardWidget)(nil)
	_ fyne.Scrollable   = (*BoardWidget)(nil)
	_ desktop.Mouseable = (*BoardWidget)(nil)
)

func NewBoardWidget(ctrl *board.Controller) *BoardWidget {
	b := &BoardWidget{ctrl: ctrl}
	b.raster = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	b.raster.FillMode = canvas.ImageFillStretch
	b.raster.ScaleMode = canvas.ImageScalePixels
	ctrl.OnFrame = b.show
	b.ExtendBaseWidget(b)
	return b
}

// show swaps in a freshly rendered frame.
func (b *BoardWidget) show(img image.Image) {
	b.raster.Image = img
	b.raster.Refresh()
}

func pointer(pos fyne.Position) state.Pointer {
	// mice report no pressure; the editor treats 0 as full pressure
	return state.Pointer{
		Pos:  geom.Pt(float64(pos.X), float64(pos.Y)),
		Time: time.Now().UnixMilli(),
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
	b.down = true
	b.last = e.Position
	b.ctrl.PointerDown(pointer(e.Position))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.down {
		return
	}
	b.last = e.Position
	b.ctrl.PointerMove(pointer(e.Position))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.down {
		return
	}
	b.down = false
	b.ctrl.PointerUp(pointer(e.Position))
}

// DragEnd covers releases fyne reports outside the widget.
func (b *BoardWidget) DragEnd() {
	if !b.down {
		return
	}
	b.down = false
	b.ctrl.PointerUp(pointer(b.last))
}

func (b *BoardWidget) Tapped(e *fyne.PointEvent) {
	b.ctrl.Click(pointer(e.Position))
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	b.ctrl.Scroll(-float64(e.Scrolled.DX), -float64(e.Scrolled.DY))
}

func (b *BoardWidget) FocusGained() {}

func (b *BoardWidget) FocusLost() {
	if b.down {
		b.down = false
		b.ctrl.PointerCancel(pointer(b.last))
	}
}

func (b *BoardWidget) TypedRune(rune) {}

func (b *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyDelete, fyne.KeyBackspace:
		b.ctrl.Delete()
	case fyne.KeyEscape:
		b.ctrl.SetTool(b.ctrl.Editor().Tool())
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &boardWidgetRenderer{board: b, background: bg}
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	size       fyne.Size
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.raster}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.raster.Resize(size)
	if size != r.size {
		r.size = size
		r.board.ctrl.Resize(int(size.Width), int(size.Height))
	}
}

func (r *boardWidgetRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }
func (r *boardWidgetRenderer) Refresh()           { r.board.raster.Refresh() }
func (r *boardWidgetRenderer) Destroy()           {}

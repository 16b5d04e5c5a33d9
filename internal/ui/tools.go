package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"LocalBoard/internal/board"
	"LocalBoard/internal/state"
)

var palette = []string{"#000000", "#ff0000", "#00a000", "#0000ff", "#ffcc00", "#8e24aa"}

// hexColor converts a board colour for fyne widgets.
func hexColor(hex string) color.Color {
	c := gg.Hex(hex)
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(hexColor(s.Hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// Actions are the toolbar buttons that need the window.
type Actions struct {
	Save    func()
	Open    func()
	New     func()
	Gallery func()
	Export  func()
}

// NewToolbar builds the tool, style and file controls for ctrl.
func NewToolbar(ctrl *board.Controller, act Actions) fyne.CanvasObject {
	opts := ctrl.Editor().Options()

	toolNames := make([]string, len(state.Tools))
	for i, t := range state.Tools {
		toolNames[i] = string(t)
	}
	tools := widget.NewSelect(toolNames, func(name string) {
		ctrl.SetTool(state.Tool(name))
	})
	tools.SetSelected(string(ctrl.Editor().Tool()))

	pens := widget.NewSelect([]string{string(state.PenRound), string(state.PenFlat), string(state.PenBrush)}, func(name string) {
		ctrl.SetPen(state.Pen(name))
	})
	pens.SetSelected(string(opts.Pen))

	strategies := widget.NewSelect([]string{state.SmoothSpline.String(), state.SmoothIncremental.String()}, func(name string) {
		ctrl.SetStrategy(state.ParseStrategy(name))
	})
	strategies.SetSelected(opts.Strategy.String())

	colors := container.NewHBox()
	for _, hex := range palette {
		colors.Add(newColorSwatch(hex, ctrl.SetColor))
	}

	widthLabel := widget.NewLabel(fmt.Sprintf("%.0f", opts.Width))
	width := widget.NewSlider(1, 50)
	width.SetValue(opts.Width)
	width.OnChanged = func(v float64) {
		ctrl.SetWidth(v)
		widthLabel.SetText(fmt.Sprintf("%.0f", v))
	}

	eraser := widget.NewSlider(5, 80)
	eraser.SetValue(opts.EraserWidth)
	eraser.OnChanged = ctrl.SetEraserWidth

	smoothness := widget.NewSlider(0, 1)
	smoothness.Step = 0.05
	smoothness.SetValue(opts.SmoothingFactor)
	smooth := widget.NewCheck("Smooth", nil)
	smooth.SetChecked(opts.Smoothing)
	smooth.OnChanged = func(on bool) { ctrl.SetSmoothing(on, smoothness.Value) }
	smoothness.OnChanged = func(v float64) { ctrl.SetSmoothing(smooth.Checked, v) }

	files := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), act.New),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), act.Save),
		widget.NewToolbarAction(theme.FolderOpenIcon(), act.Open),
		widget.NewToolbarAction(theme.GridIcon(), act.Gallery),
		widget.NewToolbarAction(theme.DownloadIcon(), act.Export),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), ctrl.Delete),
	)

	slider := func(s *widget.Slider) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(110, 35)), s)
	}
	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		pens,
		widget.NewSeparator(),
		colors,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		slider(width),
		widthLabel,
		widget.NewLabel("Eraser:"),
		slider(eraser),
		smooth,
		slider(smoothness),
		strategies,
		layout.NewSpacer(),
		files,
	)
}

// Package export prints saved drawings to PDF.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"LocalBoard/internal/logging"
	"LocalBoard/internal/store"
)

const (
	columns = 3
	rows    = 3
	margin  = 10.0
	gutter  = 6.0
	caption = 6.0
)

// Source lists the drawings to print.
type Source interface {
	List() ([]store.Drawing, error)
}

// Gallery writes a contact sheet of every saved drawing's preview to w,
// nine to an A4 landscape page, oldest first.
func Gallery(w io.Writer, src Source) error {
	drawings, err := src.List()
	if err != nil {
		return fmt.Errorf("list drawings: %w", err)
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle("LocalBoard gallery", true)
	p.SetCreationDate(time.Now())
	p.SetAutoPageBreak(false, margin)
	p.SetFont("Helvetica", "", 9)
	p.SetDrawColor(160, 160, 160)
	p.SetLineWidth(0.2)

	pageW, pageH := p.GetPageSize()
	cellW := (pageW - 2*margin - (columns-1)*gutter) / columns
	cellH := (pageH - 2*margin - (rows-1)*gutter) / rows
	imgH := cellH - caption

	if len(drawings) == 0 {
		p.AddPage()
		p.Text(margin, margin+caption, "No saved drawings")
	}
	for i, d := range drawings {
		slot := i % (columns * rows)
		if slot == 0 {
			p.AddPage()
		}
		x := margin + float64(slot%columns)*(cellW+gutter)
		y := margin + float64(slot/columns)*(cellH+gutter)

		p.Rect(x, y, cellW, imgH, "D")
		if err := placePreview(p, d, x, y, cellW, imgH); err != nil {
			logging.Logger().Warn("gallery preview skipped", "id", d.ID, "err", err)
			p.Text(x+2, y+imgH/2, "no preview")
		}
		p.Text(x, y+imgH+caption-1.5, fmt.Sprintf("#%d  %s  %d elements",
			d.ID, time.UnixMilli(d.ID).Format("2006-01-02 15:04"), len(d.Data)))
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write gallery: %w", err)
	}
	return nil
}

// placePreview fits the drawing's preview inside the box, centred.
func placePreview(p *gofpdf.Fpdf, d store.Drawing, x, y, w, h float64) error {
	id := d.ID
	raw, err := store.DecodePreview(d.Preview)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("drawing %d has no preview", id)
	}
	name := fmt.Sprintf("preview-%d", id)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := p.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if p.Err() {
		err := p.Error()
		p.ClearError()
		return err
	}
	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		return fmt.Errorf("drawing %d: empty preview", id)
	}
	scale := min(w/iw, h/ih)
	dw, dh := iw*scale, ih*scale
	p.ImageOptions(name, x+(w-dw)/2, y+(h-dh)/2, dw, dh, false, opts, 0, "")
	return nil
}

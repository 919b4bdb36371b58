package repository

import (
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"expediente-service/internal/domain/entity"
)

// PDFRenderer implements the document renderer primitives on fpdf. One
// renderer produces one document; the layout engine owns every coordinate
// and page break, so auto page breaking is off.
type PDFRenderer struct {
	pdf *fpdf.Fpdf
	dir string
}

// NewPDFRenderer creates a renderer for a single A4 portrait document.
func NewPDFRenderer(dir string) *PDFRenderer {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 9.8)
	pdf.AddPage()
	return &PDFRenderer{pdf: pdf, dir: dir}
}

// MeasureText wraps text to the given width using the body font metrics.
func (r *PDFRenderer) MeasureText(text string, width float64) []string {
	r.pdf.SetFont("Helvetica", "", 9.8)
	return r.pdf.SplitText(text, width)
}

// DrawPanel draws a rounded, filled and stroked rectangle.
func (r *PDFRenderer) DrawPanel(x, y, w, h float64, fill, border entity.RGB) {
	r.pdf.SetFillColor(fill[0], fill[1], fill[2])
	r.pdf.SetDrawColor(border[0], border[1], border[2])
	r.pdf.RoundedRect(x, y, w, h, 4, "1234", "FD")
}

// DrawText draws one text run at a baseline position.
func (r *PDFRenderer) DrawText(text string, x, y float64, style entity.TextStyle) {
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	size := style.Size
	if size == 0 {
		size = 10
	}
	r.pdf.SetFont("Helvetica", fontStyle, size)
	r.pdf.SetTextColor(style.Color[0], style.Color[1], style.Color[2])
	r.pdf.Text(x, y, text)
}

// DrawTag draws a pill-shaped badge ending at the anchor position.
func (r *PDFRenderer) DrawTag(text string, x, y float64, bg, fg entity.RGB) {
	if text == "" {
		text = "N/D"
	}
	r.pdf.SetFont("Helvetica", "B", 9.5)
	width := r.pdf.GetStringWidth(text) + 6
	startX := x - width
	r.pdf.SetFillColor(bg[0], bg[1], bg[2])
	r.pdf.RoundedRect(startX, y-6, width, 7, 2, "1234", "F")
	r.pdf.SetTextColor(fg[0], fg[1], fg[2])
	r.pdf.Text(startX+3, y-1.2, text)
}

// AddPage starts a new page.
func (r *PDFRenderer) AddPage() {
	r.pdf.AddPage()
}

// Save writes the document under the renderer's directory.
func (r *PDFRenderer) Save(filename string) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	return r.pdf.OutputFileAndClose(filepath.Join(r.dir, filename))
}

package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin   = 10.0
	tableRowH    = 6.0
	tableFontPt  = 8.0
	cellPaddingX = 2.0
)

// Report is the content of a rendered PDF report: a title block, full-width
// images, then a table starting on a fresh page.
type Report struct {
	Title      string
	Subtitle   string
	Images     [][]byte
	TableTitle string
	Table      Dataset
	// ColumnWidths in millimetres; distributed evenly when empty.
	ColumnWidths []float64
}

// PDFExporter renders reports with gofpdf on A4 portrait pages.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF document.
func (e *PDFExporter) Render(report Report) ([]byte, error) {
	if len(report.Table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin

	pdf.AddPage()
	y := pageMargin
	if report.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(contentW, 8, tr(report.Title), "", 1, "C", false, 0, "")
		y += 8
	}
	if report.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(contentW, 6, tr(report.Subtitle), "", 1, "C", false, 0, "")
		y += 10
	}

	for i, data := range report.Images {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read panel %d: %w", i, err)
		}
		if cfg.Width == 0 {
			continue
		}
		name := fmt.Sprintf("panel-%d", i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
		h := float64(cfg.Height) * contentW / float64(cfg.Width)
		if y+h > pageH-pageMargin {
			pdf.AddPage()
			y = pageMargin
		}
		pdf.ImageOptions(name, pageMargin, y, contentW, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		y += h + 10
	}

	pdf.AddPage()
	y = 15
	if report.TableTitle != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(pageMargin, y, tr(report.TableTitle))
		y += 5
	}

	widths := columnWidths(report.ColumnWidths, len(report.Table.Headers), contentW)
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", tableFontPt)
		pdf.SetFillColor(124, 58, 237)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(pageMargin, y)
		for i, h := range report.Table.Headers {
			pdf.CellFormat(widths[i], tableRowH+1, tr(h), "", 0, "L", true, 0, "")
		}
		y += tableRowH + 1
		pdf.SetFont("Helvetica", "", tableFontPt)
		pdf.SetTextColor(0, 0, 0)
	}
	drawHeader()

	for r := 0; r < report.Table.Len(); r++ {
		if y+tableRowH > pageH-pageMargin {
			pdf.AddPage()
			y = pageMargin
			drawHeader()
		}
		fill := r%2 == 1
		if fill {
			pdf.SetFillColor(245, 245, 245)
		}
		pdf.SetXY(pageMargin, y)
		for i, cell := range report.Table.Record(r) {
			text := tr(fitText(pdf, cell, widths[i]-2*cellPaddingX))
			pdf.CellFormat(widths[i], tableRowH, text, "", 0, "L", fill, 0, "")
		}
		y += tableRowH
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(requested []float64, n int, total float64) []float64 {
	if len(requested) == n {
		return requested
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = total / float64(n)
	}
	return out
}

// fitText truncates s with an ellipsis so it fits width at the current font.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}

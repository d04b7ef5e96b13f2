package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 277.0
	pdfFirstCol   = 55.0
	pdfMinCol     = 14.0
	pdfRowHeight  = 6.0
	pdfFontSize   = 7.0
	pdfTitleSize  = 13.0
	pdfHeaderFont = 7.5
)

// PDFExporter renders tables into a landscape PDF grid.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType reports the MIME type of rendered output.
func (e *PDFExporter) ContentType() string {
	return "application/pdf"
}

// Extension reports the file extension of rendered output.
func (e *PDFExporter) Extension() string {
	return "pdf"
}

// Render creates a PDF document with an optional title. The first column is wider to fit names;
// the header row is repeated on every page.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if table.Width() == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)

	widths := columnWidths(table.Width())
	writeHeader := func() {
		pdf.SetFont("Arial", "B", pdfHeaderFont)
		for i, header := range table.Header {
			pdf.CellFormat(widths[i], pdfRowHeight, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", pdfFontSize)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			writeHeader()
		}
	})
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", pdfTitleSize)
		pdf.CellFormat(0, 10, strings.ToUpper(table.Title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}
	writeHeader()

	for _, row := range table.Rows {
		for i := range table.Header {
			var value string
			if i < len(row) {
				value = row[i]
			}
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], pdfRowHeight, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = pdfPageWidth
		return widths
	}
	rest := (pdfPageWidth - pdfFirstCol) / float64(n-1)
	if rest < pdfMinCol {
		rest = pdfMinCol
	}
	widths[0] = pdfFirstCol
	for i := 1; i < n; i++ {
		widths[i] = rest
	}
	return widths
}

package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
)

var pdfColumnWidths = []float64{100, 40, 40}

const pdfRowHeight = 8

type pdfDoc struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func newPDF() *pdfDoc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	// Core fonts are cp1252; translate so accented names survive.
	return &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *pdfDoc) title(text string) {
	d.SetFont("Arial", "B", 16)
	d.CellFormat(0, 10, d.tr(text), "", 1, "L", false, 0, "")
	d.Ln(4)
}

func (d *pdfDoc) table(rows []summary.Row) {
	d.SetFont("Arial", "B", 11)
	d.SetFillColor(68, 114, 196)
	d.SetTextColor(255, 255, 255)
	for i, h := range tableHeader {
		d.CellFormat(pdfColumnWidths[i], pdfRowHeight, h, "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)

	d.SetTextColor(0, 0, 0)
	d.SetFont("Arial", "", 10)
	for _, r := range rows {
		d.CellFormat(pdfColumnWidths[0], pdfRowHeight, d.tr(r.Name), "1", 0, "L", false, 0, "")
		d.CellFormat(pdfColumnWidths[1], pdfRowHeight, FormatUnits(r.Total), "1", 0, "R", false, 0, "")
		d.CellFormat(pdfColumnWidths[2], pdfRowHeight, FormatCurrency(r.Payment), "1", 1, "R", false, 0, "")
	}
	d.Ln(4)
}

func (d *pdfDoc) totals(label string, t summary.Totals) {
	d.SetFont("Arial", "B", 11)
	d.CellFormat(0, pdfRowHeight, fmt.Sprintf("%s Attendance: %s", label, FormatUnits(t.Attendance)), "", 1, "L", false, 0, "")
	d.CellFormat(0, pdfRowHeight, fmt.Sprintf("%s Payment: %s", label, FormatCurrency(t.Payment)), "", 1, "L", false, 0, "")
}

func buildMonthlyPDF(rows []summary.Row, month, site string) *gofpdf.Fpdf {
	label := site
	if label == "" {
		label = "All Sites"
	}

	d := newPDF()
	d.SetTitle(fmt.Sprintf("Monthly Summary - %s - %s", month, label), true)
	d.AddPage()
	d.title(fmt.Sprintf("Monthly Summary - %s - %s", month, label))
	d.table(rows)
	d.totals("Grand Total", summary.Sum(rows))
	return d.Fpdf
}

func buildAllSitesPDF(sections []summary.SiteSection, month string) *gofpdf.Fpdf {
	d := newPDF()
	d.SetTitle(fmt.Sprintf("All Sites Summary - %s", month), true)

	for _, s := range sections {
		d.AddPage()
		d.title(fmt.Sprintf("All Sites Summary - %s", month))
		d.SetFont("Arial", "B", 13)
		d.CellFormat(0, 10, d.tr("Site: "+summary.SiteLabel(s.Site)), "", 1, "L", false, 0, "")
		d.table(s.Rows)
		d.totals("Subtotal", s.Subtotal)
	}

	d.AddPage()
	d.title(fmt.Sprintf("All Sites Summary - %s", month))
	d.totals("Grand Total", summary.GrandTotal(sections))
	return d.Fpdf
}

func (x *Exporter) output(pdf *gofpdf.Fpdf) ([]byte, error) {
	pdf.SetCompression(x.compressPDF)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

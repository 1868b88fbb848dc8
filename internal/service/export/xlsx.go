package export

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/trackify/trackify-backend-go/internal/domain/summary"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet     = "Sheet1"
	summarySheetName = "Summary"
	noSiteSheetName  = "No Site"
	maxSheetNameLen  = 31
)

type workbook struct {
	f           *excelize.File
	headerStyle int
	amountStyle int
	totalStyle  int
	sheets      int
	usedNames   map[string]struct{}
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	// 2 is the built-in "0.00" format.
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		f.Close()
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 2})
	if err != nil {
		f.Close()
		return nil, err
	}

	return &workbook{
		f:           f,
		headerStyle: headerStyle,
		amountStyle: amountStyle,
		totalStyle:  totalStyle,
		usedNames:   make(map[string]struct{}),
	}, nil
}

// addSheet reuses the default sheet for the first call.
func (w *workbook) addSheet(name string) (string, error) {
	name = w.uniqueName(SheetName(name))
	w.sheets++
	if w.sheets == 1 {
		return name, w.f.SetSheetName(defaultSheet, name)
	}
	_, err := w.f.NewSheet(name)
	return name, err
}

func (w *workbook) uniqueName(name string) string {
	candidate := name
	for i := 2; ; i++ {
		if _, taken := w.usedNames[strings.ToLower(candidate)]; !taken {
			break
		}
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
	}
	w.usedNames[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

// writeTable writes the header and rows and returns the next free row.
func (w *workbook) writeTable(sheet string, rows []summary.Row) (int, error) {
	header := make([]interface{}, len(tableHeader))
	for i, h := range tableHeader {
		header[i] = h
	}
	if err := w.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, err
	}
	if err := w.f.SetCellStyle(sheet, "A1", "C1", w.headerStyle); err != nil {
		return 0, err
	}

	row := 2
	for _, r := range rows {
		if err := w.setRow(sheet, row, r.Name, r.Total, r.Payment, false); err != nil {
			return 0, err
		}
		row++
	}

	if err := w.f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return 0, err
	}
	if err := w.f.SetColWidth(sheet, "B", "C", 18); err != nil {
		return 0, err
	}
	return row, nil
}

func (w *workbook) setRow(sheet string, row int, label string, total, payment float64, isTotal bool) error {
	first, last := fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row)
	values := []interface{}{label, cellNumber(total), cellNumber(payment)}
	if err := w.f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	if isTotal {
		return w.f.SetCellStyle(sheet, first, last, w.totalStyle)
	}
	return w.f.SetCellStyle(sheet, last, last, w.amountStyle)
}

func (w *workbook) bytes() ([]byte, error) {
	defer w.f.Close()
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMonthlyXLSX(rows []summary.Row) ([]byte, error) {
	w, err := newWorkbook()
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}

	sheet, err := w.addSheet(summarySheetName)
	if err != nil {
		w.f.Close()
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	next, err := w.writeTable(sheet, rows)
	if err == nil {
		t := summary.Sum(rows)
		err = w.setRow(sheet, next, "Total", t.Attendance, t.Payment, true)
	}
	if err != nil {
		w.f.Close()
		return nil, fmt.Errorf("failed to write sheet %s: %w", sheet, err)
	}
	return w.bytes()
}

func writeAllSitesXLSX(sections []summary.SiteSection) ([]byte, error) {
	w, err := newWorkbook()
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}

	if len(sections) == 0 {
		sheet, err := w.addSheet(summarySheetName)
		if err == nil {
			_, err = w.writeTable(sheet, nil)
		}
		if err != nil {
			w.f.Close()
			return nil, fmt.Errorf("failed to write empty workbook: %w", err)
		}
		return w.bytes()
	}

	for _, s := range sections {
		name := s.Site
		if name == "" {
			name = noSiteSheetName
		}
		sheet, err := w.addSheet(name)
		if err != nil {
			w.f.Close()
			return nil, fmt.Errorf("failed to add sheet for site %q: %w", s.Site, err)
		}
		next, err := w.writeTable(sheet, s.Rows)
		if err == nil {
			err = w.setRow(sheet, next, "Subtotal", s.Subtotal.Attendance, s.Subtotal.Payment, true)
		}
		if err != nil {
			w.f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", sheet, err)
		}
	}

	w.f.SetActiveSheet(0)
	return w.bytes()
}

// SheetName makes name acceptable to Excel: no []:*?/\ characters, no
// leading or trailing apostrophe, at most 31 characters, never empty.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(truncateRunes(name, maxSheetNameLen), "'")
	if name == "" {
		return noSiteSheetName
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// cellNumber writes non-finite values as text; excelize would store them as
// an invalid numeric cell.
func cellNumber(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatCurrency(v)
	}
	return v
}

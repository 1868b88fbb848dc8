package export

import (
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
)

var tableHeader = []string{"Name", "Total Attendance", "Payment"}

// Exporter renders summaries into downloadable files. Formatters never
// reorder rows.
type Exporter struct {
	compressPDF bool
}

func New() *Exporter {
	return &Exporter{compressPDF: true}
}

// MonthlyCSV renders one summary as CSV.
func (x *Exporter) MonthlyCSV(rows []summary.Row, month, site string) (summary.File, error) {
	data, err := writeMonthlyCSV(rows)
	if err != nil {
		return summary.File{}, err
	}
	return summary.File{Name: MonthlyFilename(month, site, "csv"), ContentType: ContentTypeCSV, Data: data}, nil
}

// MonthlyPDF renders one summary on a page with grand totals underneath.
func (x *Exporter) MonthlyPDF(rows []summary.Row, month, site string) (summary.File, error) {
	data, err := x.output(buildMonthlyPDF(rows, month, site))
	if err != nil {
		return summary.File{}, err
	}
	return summary.File{Name: MonthlyFilename(month, site, "pdf"), ContentType: ContentTypePDF, Data: data}, nil
}

// MonthlyXLSX renders one summary on a single sheet with a Total row.
func (x *Exporter) MonthlyXLSX(rows []summary.Row, month, site string) (summary.File, error) {
	data, err := writeMonthlyXLSX(rows)
	if err != nil {
		return summary.File{}, err
	}
	return summary.File{Name: MonthlyFilename(month, site, "xlsx"), ContentType: ContentTypeXLSX, Data: data}, nil
}

// AllSitesXLSX renders a workbook with one sheet per site section.
func (x *Exporter) AllSitesXLSX(sections []summary.SiteSection, month string) (summary.File, error) {
	data, err := writeAllSitesXLSX(sections)
	if err != nil {
		return summary.File{}, err
	}
	return summary.File{Name: AllSitesFilename(month, "xlsx"), ContentType: ContentTypeXLSX, Data: data}, nil
}

// AllSitesPDF renders a page per site section followed by a grand total page.
func (x *Exporter) AllSitesPDF(sections []summary.SiteSection, month string) (summary.File, error) {
	data, err := x.output(buildAllSitesPDF(sections, month))
	if err != nil {
		return summary.File{}, err
	}
	return summary.File{Name: AllSitesFilename(month, "pdf"), ContentType: ContentTypePDF, Data: data}, nil
}

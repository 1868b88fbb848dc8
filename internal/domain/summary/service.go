package summary

import "context"

type SummaryService interface {
	GetMonthlySummary(ctx context.Context, req MonthlySummaryRequest) (MonthlySummaryResponse, error)
	// ExportMonthly renders the site-filtered summary as csv, pdf or xlsx.
	ExportMonthly(ctx context.Context, req MonthlySummaryRequest, format Format) (File, error)
	// ExportAllSites ignores any site filter and renders every site, as xlsx or pdf.
	ExportAllSites(ctx context.Context, month string, format Format) (File, error)
}

package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
	"github.com/trackify/trackify-backend-go/internal/service/export"
	"golang.org/x/sync/errgroup"
)

type SummaryServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	aggregator     *Aggregator
	exporter       *export.Exporter
	now            func() time.Time
}

func NewSummaryService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	aggregator *Aggregator,
	exporter *export.Exporter,
) summary.SummaryService {
	return &SummaryServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		aggregator:     aggregator,
		exporter:       exporter,
		now:            time.Now,
	}
}

type monthData struct {
	employees []employee.Employee
	records   []attendance.Record
	start     string
	end       string
}

// load fetches every employee and the month's attendance. Nothing is
// rendered unless both loads succeed.
func (s *SummaryServiceImpl) load(ctx context.Context, month string) (monthData, error) {
	m, err := time.Parse("2006-01", month)
	if err != nil {
		return monthData{}, fmt.Errorf("failed to parse month %s: %w", month, err)
	}
	start, end := attendance.MonthRange(m)

	data := monthData{start: start, end: end}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		employees, err := s.employeeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		data.employees = employees
		return nil
	})

	g.Go(func() error {
		records, err := s.attendanceRepo.ListByDateRange(gCtx, start, end)
		if err != nil {
			return fmt.Errorf("failed to load attendance for %s: %w", month, err)
		}
		data.records = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return monthData{}, err
	}
	return data, nil
}

// GetMonthlySummary implements summary.SummaryService.
func (s *SummaryServiceImpl) GetMonthlySummary(ctx context.Context, req summary.MonthlySummaryRequest) (summary.MonthlySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return summary.MonthlySummaryResponse{}, err
	}

	data, err := s.load(ctx, req.Month)
	if err != nil {
		return summary.MonthlySummaryResponse{}, err
	}

	rows := s.aggregator.Aggregate(data.employees, data.records, req.Site)
	totals := summary.Sum(rows)

	resp := summary.MonthlySummaryResponse{
		Month:           req.Month,
		Site:            req.Site,
		PeriodStart:     data.start,
		PeriodEnd:       data.end,
		GeneratedAt:     s.now().UTC().Format(time.RFC3339),
		Rows:            make([]summary.RowResponse, 0, len(rows)),
		TotalAttendance: summary.Amount(totals.Attendance),
		TotalPayment:    summary.Amount(totals.Payment),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, summary.RowResponse{
			EmployeeID: r.EmployeeID,
			Name:       r.Name,
			Site:       r.Site,
			Total:      summary.Amount(r.Total),
			Payment:    summary.Amount(r.Payment),
		})
	}
	return resp, nil
}

// ExportMonthly implements summary.SummaryService.
func (s *SummaryServiceImpl) ExportMonthly(ctx context.Context, req summary.MonthlySummaryRequest, format summary.Format) (summary.File, error) {
	if err := req.Validate(); err != nil {
		return summary.File{}, err
	}

	var render func([]summary.Row, string, string) (summary.File, error)
	switch format {
	case summary.FormatCSV:
		render = s.exporter.MonthlyCSV
	case summary.FormatPDF:
		render = s.exporter.MonthlyPDF
	case summary.FormatXLSX:
		render = s.exporter.MonthlyXLSX
	default:
		return summary.File{}, summary.ErrUnsupportedFormat
	}

	data, err := s.load(ctx, req.Month)
	if err != nil {
		return summary.File{}, err
	}

	rows := s.aggregator.Aggregate(data.employees, data.records, req.Site)
	file, err := render(rows, req.Month, req.Site)
	if err != nil {
		slog.Error("monthly export failed", "month", req.Month, "site", req.Site, "format", format, "error", err)
		return summary.File{}, fmt.Errorf("%w: %w", summary.ErrExportFailed, err)
	}

	slog.Info("monthly summary exported", "month", req.Month, "site", req.Site, "format", format,
		"rows", len(rows), "bytes", len(file.Data))
	return file, nil
}

// ExportAllSites implements summary.SummaryService.
func (s *SummaryServiceImpl) ExportAllSites(ctx context.Context, month string, format summary.Format) (summary.File, error) {
	req := summary.MonthlySummaryRequest{Month: month}
	if err := req.Validate(); err != nil {
		return summary.File{}, err
	}

	var render func([]summary.SiteSection, string) (summary.File, error)
	switch format {
	case summary.FormatXLSX:
		render = s.exporter.AllSitesXLSX
	case summary.FormatPDF:
		render = s.exporter.AllSitesPDF
	default:
		return summary.File{}, summary.ErrUnsupportedFormat
	}

	data, err := s.load(ctx, month)
	if err != nil {
		return summary.File{}, err
	}

	sections := s.aggregator.GroupBySite(data.employees, data.records)
	file, err := render(sections, month)
	if err != nil {
		slog.Error("all sites export failed", "month", month, "format", format, "error", err)
		return summary.File{}, fmt.Errorf("%w: %w", summary.ErrExportFailed, err)
	}

	slog.Info("all sites summary exported", "month", month, "format", format,
		"sites", len(sections), "bytes", len(file.Data))
	return file, nil
}

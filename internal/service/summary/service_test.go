package summary

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
	"github.com/trackify/trackify-backend-go/internal/service/export"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
	err       error
}

func (f *fakeEmployeeRepo) List(context.Context) ([]employee.Employee, error) {
	return f.employees, f.err
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records    []attendance.Record
	err        error
	start, end string
}

func (f *fakeAttendanceRepo) ListByDateRange(_ context.Context, start, end string) ([]attendance.Record, error) {
	f.start, f.end = start, end
	var out []attendance.Record
	for _, r := range f.records {
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out, f.err
}

func newTestService(emp *fakeEmployeeRepo, att *fakeAttendanceRepo) *SummaryServiceImpl {
	svc := NewSummaryService(emp, att, NewAggregator("en"), export.New()).(*SummaryServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func scenarioRepos() (*fakeEmployeeRepo, *fakeAttendanceRepo) {
	records := append(scenarioRecords(),
		rec("e1", "2024-05-31", 2),
		rec("e2", "2024-07-01", 2),
	)
	return &fakeEmployeeRepo{employees: scenarioEmployees()}, &fakeAttendanceRepo{records: records}
}

func TestGetMonthlySummary(t *testing.T) {
	emp, att := scenarioRepos()
	svc := newTestService(emp, att)

	resp, err := svc.GetMonthlySummary(context.Background(), summary.MonthlySummaryRequest{Month: "2024-06"})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", att.start)
	assert.Equal(t, "2024-06-30", att.end)
	assert.Equal(t, "2024-06-01", resp.PeriodStart)
	assert.Equal(t, "2024-06-30", resp.PeriodEnd)
	assert.Equal(t, "2024-07-01T09:00:00Z", resp.GeneratedAt)

	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "Ann", resp.Rows[0].Name)
	assert.Equal(t, summary.Amount(1.5), resp.Rows[0].Total)
	assert.Equal(t, summary.Amount(150), resp.Rows[0].Payment)
	assert.Equal(t, summary.Amount(3.5), resp.TotalAttendance)
	assert.Equal(t, summary.Amount(250), resp.TotalPayment)
}

func TestGetMonthlySummary_SiteFilter(t *testing.T) {
	emp, att := scenarioRepos()
	resp, err := newTestService(emp, att).GetMonthlySummary(context.Background(),
		summary.MonthlySummaryRequest{Month: "2024-06", Site: "b"})
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Bob", resp.Rows[0].Name)
	assert.Equal(t, "b", resp.Site)
}

func TestGetMonthlySummary_InvalidMonth(t *testing.T) {
	emp, att := scenarioRepos()
	_, err := newTestService(emp, att).GetMonthlySummary(context.Background(), summary.MonthlySummaryRequest{Month: "2024/06"})

	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestExportMonthly(t *testing.T) {
	emp, att := scenarioRepos()
	svc := newTestService(emp, att)
	ctx := context.Background()

	csvFile, err := svc.ExportMonthly(ctx, summary.MonthlySummaryRequest{Month: "2024-06"}, summary.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "Monthly_Summary_2024-06_All.csv", csvFile.Name)
	assert.Equal(t, "Name,Total Attendance,Payment\nAnn,1.5,150.00\nBob,2,100.00\n", string(csvFile.Data))

	pdfFile, err := svc.ExportMonthly(ctx, summary.MonthlySummaryRequest{Month: "2024-06", Site: "A"}, summary.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "Monthly_Summary_2024-06_A.pdf", pdfFile.Name)
	assert.True(t, bytes.HasPrefix(pdfFile.Data, []byte("%PDF-")))

	xlsxFile, err := svc.ExportMonthly(ctx, summary.MonthlySummaryRequest{Month: "2024-06"}, summary.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "Monthly_Summary_2024-06_All.xlsx", xlsxFile.Name)
	assert.Equal(t, export.ContentTypeXLSX, xlsxFile.ContentType)
}

func TestExportMonthly_UnsupportedFormat(t *testing.T) {
	emp, att := scenarioRepos()
	_, err := newTestService(emp, att).ExportMonthly(context.Background(),
		summary.MonthlySummaryRequest{Month: "2024-06"}, summary.Format("docx"))
	assert.ErrorIs(t, err, summary.ErrUnsupportedFormat)
}

func TestExports_FailWhenDataCannotLoad(t *testing.T) {
	storeErr := errors.New("connection refused")
	ctx := context.Background()

	emp, att := scenarioRepos()
	att.err = storeErr
	_, err := newTestService(emp, att).ExportMonthly(ctx, summary.MonthlySummaryRequest{Month: "2024-06"}, summary.FormatCSV)
	assert.ErrorIs(t, err, storeErr)

	emp, att = scenarioRepos()
	emp.err = storeErr
	file, err := newTestService(emp, att).ExportAllSites(ctx, "2024-06", summary.FormatXLSX)
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, file.Data)
}

func TestExportAllSites(t *testing.T) {
	emp, att := scenarioRepos()
	svc := newTestService(emp, att)
	ctx := context.Background()

	xlsxFile, err := svc.ExportAllSites(ctx, "2024-06", summary.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "All_Sites_Summary_2024-06.xlsx", xlsxFile.Name)

	pdfFile, err := svc.ExportAllSites(ctx, "2024-06", summary.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "All_Sites_Summary_2024-06.pdf", pdfFile.Name)

	_, err = svc.ExportAllSites(ctx, "2024-06", summary.FormatCSV)
	assert.ErrorIs(t, err, summary.ErrUnsupportedFormat)

	_, err = svc.ExportAllSites(ctx, "", summary.FormatPDF)
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

type blockingEmployeeRepo struct {
	employee.EmployeeRepository
	cancelled chan struct{}
}

func (b *blockingEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	select {
	case <-ctx.Done():
		close(b.cancelled)
		return nil, ctx.Err()
	case <-time.After(2 * time.Second):
		return nil, errors.New("employee load was not cancelled")
	}
}

func TestGetMonthlySummary_AttendanceFailureCancelsEmployeeLoad(t *testing.T) {
	storeErr := errors.New("connection reset")
	emp := &blockingEmployeeRepo{cancelled: make(chan struct{})}
	att := &fakeAttendanceRepo{err: storeErr}
	svc := NewSummaryService(emp, att, NewAggregator("en"), export.New())

	_, err := svc.GetMonthlySummary(context.Background(), summary.MonthlySummaryRequest{Month: "2024-06"})
	require.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "failed to load attendance for 2024-06")

	select {
	case <-emp.cancelled:
	default:
		t.Fatal("employee load kept running after attendance failed")
	}
}

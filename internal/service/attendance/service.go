package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
)

const collection = "attendance"

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	publisher      changefeed.Publisher
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	publisher changefeed.Publisher,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		publisher:      publisher,
	}
}

func mapRecordToResponse(r attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:         r.Key(),
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		Status:     r.Status,
		Target:     r.Target,
		Comment:    r.Comment,
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListAttendanceFilter) ([]attendance.RecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var records []attendance.Record
	var err error
	if filter.Date != "" {
		records, err = s.attendanceRepo.ListByDate(ctx, filter.Date)
	} else {
		month, _ := time.Parse("2006-01", filter.Month)
		start, end := attendance.MonthRange(month)
		records, err = s.attendanceRepo.ListByDateRange(ctx, start, end)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, mapRecordToResponse(r))
	}
	return resp, nil
}

// Mark implements attendance.AttendanceService. It replaces whatever was
// recorded for the employee on that date.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.RecordResponse{}, attendance.ErrEmployeeNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to check employee %s: %w", req.EmployeeID, err)
	}

	saved, err := s.attendanceRepo.Upsert(ctx, attendance.Record{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Status:     req.Status,
		Target:     req.Target,
		Comment:    req.Comment,
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	resp := mapRecordToResponse(saved)
	changefeed.Notify(ctx, s.publisher, changefeed.Event{Collection: collection, Op: changefeed.OpUpsert, ID: saved.Key(), Data: resp})
	return resp, nil
}

package attendance

import "context"

type AttendanceService interface {
	List(ctx context.Context, filter ListAttendanceFilter) ([]RecordResponse, error)
	Mark(ctx context.Context, req MarkAttendanceRequest) (RecordResponse, error)
}

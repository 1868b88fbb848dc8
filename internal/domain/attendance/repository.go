package attendance

import "context"

type AttendanceRepository interface {
	Upsert(ctx context.Context, record Record) (Record, error)
	ListByDate(ctx context.Context, date string) ([]Record, error)
	// ListByDateRange returns records with start <= date <= end.
	ListByDateRange(ctx context.Context, start, end string) ([]Record, error)
}

package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/pkg/database"
)

const attendanceColumns = `employee_id, date::text, status, target, comment, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(&rec.EmployeeID, &rec.Date, &rec.Status, &rec.Target, &rec.Comment, &rec.UpdatedAt)
	return rec, err
}

// Upsert implements attendance.AttendanceRepository. The last write for an
// (employee, date) pair wins.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (employee_id, date, status, target, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			target = EXCLUDED.target,
			comment = EXCLUDED.comment,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.Date, record.Status, record.Target, record.Comment,
	))
	if err != nil {
		if isNumericOutOfRange(err) {
			return attendance.Record{}, attendance.ErrValueOutOfRange
		}
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance %s: %w", record.Key(), err)
	}
	return saved, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	return r.list(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE date = $1 ORDER BY employee_id`, date)
}

// ListByDateRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDateRange(ctx context.Context, start, end string) ([]attendance.Record, error) {
	return r.list(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE date BETWEEN $1 AND $2 ORDER BY date, employee_id`,
		start, end,
	)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

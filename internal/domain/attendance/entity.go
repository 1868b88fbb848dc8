package attendance

import "time"

const DateLayout = "2006-01-02"

// AllowedStatuses are the attendance units, in half-day steps.
var AllowedStatuses = []float64{0, 0.5, 1, 1.5, 2}

// Record is one employee's attendance for one calendar day. At most one
// record exists per (EmployeeID, Date); writes replace it.
type Record struct {
	EmployeeID string
	Date       string
	Status     *float64
	Target     *float64
	Comment    *string
	UpdatedAt  time.Time
}

// Key is the record's document id, "{employeeID}_{date}".
func (r Record) Key() string {
	return RecordKey(r.EmployeeID, r.Date)
}

func RecordKey(employeeID, date string) string {
	return employeeID + "_" + date
}

// MonthRange returns the first and last day of month (YYYY-MM) as dates.
func MonthRange(month time.Time) (start, end string) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}

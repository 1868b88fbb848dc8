package attendance

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
)

type MarkAttendanceRequest struct {
	EmployeeID string   `json:"-"`
	Date       string   `json:"-"`
	Status     *float64 `json:"status"`
	Target     *float64 `json:"target,omitempty"`
	Comment    *string  `json:"comment,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Status == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is required",
		})
	} else if !validator.IsInFloatSlice(*r.Status, AllowedStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of 0, 0.5, 1, 1.5, 2",
		})
	}

	if r.Target != nil {
		if msg := validateTarget(*r.Target); msg != "" {
			errs = append(errs, validator.ValidationError{
				Field:   "target",
				Message: msg,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Targets are stored as NUMERIC(6, 2).
var maxTarget = decimal.New(1, 4)

func validateTarget(target float64) string {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return "target must be a number"
	}
	if target < 0 {
		return "target must not be negative"
	}
	d := decimal.NewFromFloat(target)
	if !d.Equal(d.Round(2)) {
		return "target must have at most 2 decimal places"
	}
	if d.GreaterThanOrEqual(maxTarget) {
		return "target must be less than 10000"
	}
	return ""
}

// ListAttendanceFilter selects either a single date or a whole month.
type ListAttendanceFilter struct {
	Date  string
	Month string
}

func (f *ListAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	switch {
	case f.Date != "" && f.Month != "":
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "use either date or month, not both",
		})
	case f.Date != "":
		if _, ok := validator.IsValidDate(f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	case f.Month != "":
		if _, ok := validator.IsValidMonth(f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date or month is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID         string   `json:"id"`
	EmployeeID string   `json:"employee_id"`
	Date       string   `json:"date"`
	Status     *float64 `json:"status"`
	Target     *float64 `json:"target,omitempty"`
	Comment    *string  `json:"comment,omitempty"`
	UpdatedAt  string   `json:"updated_at"`
}

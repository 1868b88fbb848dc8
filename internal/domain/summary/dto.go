package summary

import (
	"math"
	"strconv"
	"strings"

	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

type MonthlySummaryRequest struct {
	Month string
	Site  string
}

func (r *MonthlySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	r.Site = strings.TrimSpace(r.Site)
	return nil
}

// Amount encodes non-finite values as null, which encoding/json rejects.
// A stored non-numeric rate yields a NaN payment.
type Amount float64

func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

type RowResponse struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Site       string `json:"site"`
	Total      Amount `json:"total"`
	Payment    Amount `json:"payment"`
}

type MonthlySummaryResponse struct {
	Month           string        `json:"month"`
	Site            string        `json:"site,omitempty"`
	PeriodStart     string        `json:"period_start"`
	PeriodEnd       string        `json:"period_end"`
	GeneratedAt     string        `json:"generated_at"`
	Rows            []RowResponse `json:"rows"`
	TotalAttendance Amount        `json:"total_attendance"`
	TotalPayment    Amount        `json:"total_payment"`
}

// File is a rendered export artifact.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

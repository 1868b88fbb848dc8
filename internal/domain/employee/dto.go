package employee

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
)

// Rates are stored as NUMERIC(14, 2).
var maxRate = decimal.New(1, 12)

const rateDecimals = 2

// RateInput accepts a rate sent either as a JSON number or as a string,
// the way form inputs submit it.
type RateInput string

func (r *RateInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RateInput(s)
		return nil
	}
	*r = RateInput(data)
	return nil
}

// Decimal parses the rate. Non-numeric input returns ErrInvalidRate.
func (r RateInput) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(r)))
	if err != nil {
		return decimal.Zero, ErrInvalidRate
	}
	return d, nil
}

type CreateEmployeeRequest struct {
	// ID is optional; a new id is generated when empty.
	ID    string    `json:"id,omitempty"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Site  string    `json:"site"`
	Rate  RateInput `json:"rate"`
	Role  string    `json:"role"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validateFields(r.Name, r.Phone, r.Rate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID    string    `json:"-"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Site  string    `json:"site"`
	Rate  RateInput `json:"rate"`
	Role  string    `json:"role"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	errs = append(errs, validateFields(r.Name, r.Phone, r.Rate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateFields(name, phone string, rate RateInput) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsEmpty(phone) && !validator.IsValidPhoneNumber(phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "invalid phone number",
		})
	}

	if validator.IsEmpty(string(rate)) {
		errs = append(errs, validator.ValidationError{
			Field:   "rate",
			Message: "rate is required",
		})
	} else if d, err := rate.Decimal(); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "rate",
			Message: "rate must be a number",
		})
	} else if !d.Equal(d.Round(rateDecimals)) {
		errs = append(errs, validator.ValidationError{
			Field:   "rate",
			Message: "rate must have at most 2 decimal places",
		})
	} else if !d.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "rate",
			Message: "rate must be greater than 0",
		})
	} else if d.GreaterThanOrEqual(maxRate) {
		errs = append(errs, validator.ValidationError{
			Field:   "rate",
			Message: "rate must be less than 1000000000000",
		})
	}

	return errs
}

type EmployeeResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Site      string  `json:"site"`
	Rate      float64 `json:"rate"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type SitesResponse struct {
	Sites []string `json:"sites"`
}

package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/trackify/trackify-backend-go/internal/domain/attendance"
	"github.com/trackify/trackify-backend-go/internal/domain/auth"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrAccountNotApproved):
		Forbidden(w, "Account not approved by admin")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrNotApproved):
		Conflict(w, "User must be approved before changing role")
	case errors.Is(err, user.ErrCannotSelfAdmin):
		Forbidden(w, "You cannot change your own access")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee id already exists")
	case errors.Is(err, employee.ErrInvalidRate):
		ValidationError(w, map[string]string{"rate": "rate must be a number greater than 0"})

	// Attendance domain errors
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrValueOutOfRange):
		ValidationError(w, map[string]string{"target": "target must be less than 10000 with at most 2 decimal places"})

	// Summary domain errors
	case errors.Is(err, summary.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported export format", nil)
	case errors.Is(err, summary.ErrExportFailed):
		InternalServerError(w, "Export failed")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

package employee

import (
	"strings"
	"time"
)

type Employee struct {
	ID    string
	Name  string
	Phone string
	// Site groups employees for filtering and per-site payroll export.
	Site string
	// Rate is the currency amount paid per attendance unit.
	Rate float64
	// Role is a display label (job title), unrelated to account access roles.
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InSite reports whether the employee belongs to site, ignoring case.
func (e Employee) InSite(site string) bool {
	return strings.EqualFold(strings.TrimSpace(e.Site), strings.TrimSpace(site))
}

package employee

import "context"

type EmployeeRepository interface {
	// List returns every employee ordered by creation time, then id.
	// Summary ordering ties fall back to this order.
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, updated Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
	// ListSites returns the distinct sites, compared case-insensitively and
	// sorted ascending.
	ListSites(ctx context.Context) ([]string, error)
}

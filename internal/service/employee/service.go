package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trackify/trackify-backend-go/internal/domain/employee"
	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
)

const collection = "employees"

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	publisher    changefeed.Publisher
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, publisher changefeed.Publisher) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		publisher:    publisher,
	}
}

func mapEmployeeToResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Site:      e.Site,
		Rate:      e.Rate,
		Role:      e.Role,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, mapEmployeeToResponse(e))
	}
	return resp, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return mapEmployeeToResponse(e), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	rate, err := req.Rate.Decimal()
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		newID, err := uuid.NewV7()
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		id = newID.String()
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:    id,
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Site:  strings.TrimSpace(req.Site),
		Rate:  rate.InexactFloat64(),
		Role:  strings.TrimSpace(req.Role),
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	resp := mapEmployeeToResponse(created)
	slog.Info("employee created", "employee_id", created.ID, "site", created.Site)
	changefeed.Notify(ctx, s.publisher, changefeed.Event{Collection: collection, Op: changefeed.OpUpsert, ID: created.ID, Data: resp})
	return resp, nil
}

// Update implements employee.EmployeeService. Every field is replaced.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	rate, err := req.Rate.Decimal()
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.Update(ctx, employee.Employee{
		ID:    req.ID,
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Site:  strings.TrimSpace(req.Site),
		Rate:  rate.InexactFloat64(),
		Role:  strings.TrimSpace(req.Role),
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	resp := mapEmployeeToResponse(updated)
	changefeed.Notify(ctx, s.publisher, changefeed.Event{Collection: collection, Op: changefeed.OpUpsert, ID: updated.ID, Data: resp})
	return resp, nil
}

// Delete implements employee.EmployeeService. The employee's attendance
// history stays in place.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("employee deleted", "employee_id", id)
	changefeed.Notify(ctx, s.publisher, changefeed.Event{Collection: collection, Op: changefeed.OpDelete, ID: id})
	return nil
}

// ListSites implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListSites(ctx context.Context) (employee.SitesResponse, error) {
	sites, err := s.employeeRepo.ListSites(ctx)
	if err != nil {
		return employee.SitesResponse{}, err
	}
	return employee.SitesResponse{Sites: sites}, nil
}

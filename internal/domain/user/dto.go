package user

import (
	"time"

	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
)

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Approved  bool   `json:"approved"`
	CreatedAt string `json:"created_at"`
}

type SetRoleRequest struct {
	UserID string `json:"-"`
	Role   Role   `json:"role"`
}

func (r *SetRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user id is required",
		})
	}

	// Demoting to pending goes through Reject instead.
	if !validator.IsInSlice(string(r.Role), []string{string(RoleViewer), string(RoleManager), string(RoleAdmin)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of viewer, manager, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Approved:  u.Approved,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

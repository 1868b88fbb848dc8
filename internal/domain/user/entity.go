package user

import "time"

type Role string

const (
	RolePending Role = "pending"
	RoleViewer  Role = "viewer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePending, RoleViewer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Approved     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPending reports whether the account is waiting for an admin decision.
func (u User) IsPending() bool {
	return u.Role == RolePending && !u.Approved
}

package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	// ListPending returns accounts with role pending that are not approved, oldest first.
	ListPending(ctx context.Context) ([]User, error)
	UpdateAccess(ctx context.Context, id string, role Role, approved bool) (User, error)
}

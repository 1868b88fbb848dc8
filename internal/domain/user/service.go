package user

import "context"

type UserService interface {
	ListPending(ctx context.Context) ([]UserResponse, error)
	Approve(ctx context.Context, actorID, userID string) (UserResponse, error)
	Reject(ctx context.Context, actorID, userID string) (UserResponse, error)
	SetRole(ctx context.Context, actorID string, req SetRoleRequest) (UserResponse, error)
}

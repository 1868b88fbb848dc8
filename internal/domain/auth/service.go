package auth

import (
	"context"

	"github.com/trackify/trackify-backend-go/internal/domain/user"
)

type AuthService interface {
	// Register creates a pending, unapproved account. No token is issued.
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, userID string) (user.UserResponse, error)
	StreamToken(ctx context.Context, userID string) (StreamTokenResponse, error)
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/trackify/trackify-backend-go/internal/domain/auth"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
	"github.com/trackify/trackify-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo   user.UserRepository
	jwtService jwt.Service
	publisher  changefeed.Publisher
	hashCost   int
}

func NewAuthService(userRepo user.UserRepository, jwtService jwt.Service, publisher changefeed.Publisher) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		publisher:  publisher,
		hashCost:   bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	email := normalizeEmail(req.Email)
	if _, err := a.userRepo.GetByEmail(ctx, email); err == nil {
		return user.UserResponse{}, user.ErrEmailExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.hashCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to generate user id: %w", err)
	}

	created, err := a.userRepo.Create(ctx, user.User{
		ID:           id.String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RolePending,
		Approved:     false,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user registered, awaiting approval", "user_id", created.ID)

	resp := created.ToResponse()
	changefeed.Notify(ctx, a.publisher, changefeed.Event{Collection: "users", Op: changefeed.OpUpsert, ID: created.ID, Data: resp})
	return resp, nil
}

// Login implements auth.AuthService. Correct credentials on an unapproved
// account still fail, with ErrAccountNotApproved.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := a.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !u.Approved {
		return auth.TokenResponse{}, auth.ErrAccountNotApproved
	}

	token, expiresAt, err := a.jwtService.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        u.ToResponse(),
	}, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (user.UserResponse, error) {
	u, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return u.ToResponse(), nil
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context, userID string) (auth.StreamTokenResponse, error) {
	token, expiresIn, err := a.jwtService.GenerateStreamToken(userID)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

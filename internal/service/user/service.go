package user

import (
	"context"
	"log/slog"

	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
	"github.com/trackify/trackify-backend-go/internal/repository/postgresql"
)

const collection = "users"

type UserServiceImpl struct {
	transactor postgresql.Transactor
	userRepo   user.UserRepository
	publisher  changefeed.Publisher
}

func NewUserService(transactor postgresql.Transactor, userRepo user.UserRepository, publisher changefeed.Publisher) user.UserService {
	return &UserServiceImpl{
		transactor: transactor,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// ListPending implements user.UserService.
func (s *UserServiceImpl) ListPending(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, u.ToResponse())
	}
	return resp, nil
}

// Approve implements user.UserService. The account becomes an approved viewer.
func (s *UserServiceImpl) Approve(ctx context.Context, actorID, userID string) (user.UserResponse, error) {
	return s.changeAccess(ctx, actorID, userID, func(u user.User) (user.Role, bool, error) {
		return user.RoleViewer, true, nil
	})
}

// Reject implements user.UserService. Only the approval flag is cleared; a
// role granted earlier is kept but has no effect while unapproved.
func (s *UserServiceImpl) Reject(ctx context.Context, actorID, userID string) (user.UserResponse, error) {
	return s.changeAccess(ctx, actorID, userID, func(u user.User) (user.Role, bool, error) {
		return u.Role, false, nil
	})
}

// SetRole implements user.UserService. Only approved accounts can be promoted.
func (s *UserServiceImpl) SetRole(ctx context.Context, actorID string, req user.SetRoleRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	return s.changeAccess(ctx, actorID, req.UserID, func(u user.User) (user.Role, bool, error) {
		if !u.Approved {
			return "", false, user.ErrNotApproved
		}
		return req.Role, true, nil
	})
}

func (s *UserServiceImpl) changeAccess(
	ctx context.Context,
	actorID, userID string,
	decide func(user.User) (user.Role, bool, error),
) (user.UserResponse, error) {
	if actorID == userID {
		return user.UserResponse{}, user.ErrCannotSelfAdmin
	}

	var updated user.User
	err := s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		current, err := s.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}

		role, approved, err := decide(current)
		if err != nil {
			return err
		}

		updated, err = s.userRepo.UpdateAccess(txCtx, userID, role, approved)
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user access changed", "actor_id", actorID, "user_id", userID,
		"role", updated.Role, "approved", updated.Approved)

	resp := updated.ToResponse()
	changefeed.Notify(ctx, s.publisher, changefeed.Event{Collection: collection, Op: changefeed.OpUpsert, ID: updated.ID, Data: resp})
	return resp, nil
}

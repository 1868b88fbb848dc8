package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	SetRole(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{
		userService: userService,
	}
}

func (h *userHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, users, &response.Meta{TotalItems: len(users)})
}

func (h *userHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.changeAccess(w, r, "User approved", h.userService.Approve)
}

func (h *userHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.changeAccess(w, r, "User rejected", h.userService.Reject)
}

func (h *userHandlerImpl) changeAccess(w http.ResponseWriter, r *http.Request, message string,
	change func(ctx context.Context, actorID, userID string) (user.UserResponse, error)) {
	actorID := getUserIDFromContext(r)
	if actorID == "" {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	userID := chi.URLParam(r, "id")
	if userID == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	result, err := change(r.Context(), actorID, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

func (h *userHandlerImpl) SetRole(w http.ResponseWriter, r *http.Request) {
	actorID := getUserIDFromContext(r)
	if actorID == "" {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req user.SetRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.SetRole(r.Context(), actorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Role updated", result)
}

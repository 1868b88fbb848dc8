package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/handler/http/response"
)

// RoleFromClaims reads the effective role carried by an access token. A
// token without an approval claim counts as unapproved.
func RoleFromClaims(claims map[string]interface{}) user.Role {
	roleStr, _ := claims["role"].(string)
	approved, _ := claims["approved"].(bool)
	return user.EffectiveRole(user.Role(roleStr), approved)
}

// RequirePermission checks the caller's role against the access policy.
func RequirePermission(action user.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", action))
				return
			}

			role := RoleFromClaims(claims)
			if !user.Authorize(role, action) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", action, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AccountLoader returns the stored effective role of an account.
type AccountLoader func(ctx context.Context, userID string) (user.Role, error)

// RequireCurrentPermission checks the token's role like RequirePermission and
// then checks the stored account, so a demotion or revoked approval applies
// before the access token expires.
func RequireCurrentPermission(load AccountLoader, action user.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequirePermission(action)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, _ := jwtauth.FromContext(r.Context())
			userID, _ := claims["user_id"].(string)
			if userID == "" {
				response.Unauthorized(w, "Invalid token")
				return
			}

			role, err := load(r.Context(), userID)
			if errors.Is(err, user.ErrUserNotFound) {
				response.Unauthorized(w, "Account no longer exists")
				return
			}
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.Authorize(role, action) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", action, role))
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}

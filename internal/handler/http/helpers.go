package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/trackify/trackify-backend-go/internal/domain/auth"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/handler/http/middleware"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// decodeJSON reads a JSON body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// AccountRoles loads the current effective role of an account for
// middleware.RequireCurrentPermission.
func AccountRoles(authService auth.AuthService) middleware.AccountLoader {
	return func(ctx context.Context, userID string) (user.Role, error) {
		me, err := authService.Me(ctx, userID)
		if err != nil {
			return "", err
		}
		return user.EffectiveRole(me.Role, me.Approved), nil
	}
}

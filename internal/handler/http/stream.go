package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/trackify/trackify-backend-go/internal/domain/auth"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/handler/http/response"
	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
	"github.com/trackify/trackify-backend-go/internal/pkg/jwt"
	"github.com/trackify/trackify-backend-go/internal/pkg/validator"
)

const streamKeepalive = 30 * time.Second

var errCollectionForbidden = errors.New("collection not readable")

// streamCollections maps each subscribable collection to the action needed
// to read it.
var streamCollections = map[string]user.Action{
	"employees":  user.ActionEmployeeView,
	"attendance": user.ActionAttendanceView,
	"users":      user.ActionUserApprove,
}

type StreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
	hub         *changefeed.Hub
	keepalive   time.Duration
}

func NewStreamHandler(jwtService jwt.Service, authService auth.AuthService, hub *changefeed.Hub) StreamHandler {
	return &streamHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
		hub:         hub,
		keepalive:   streamKeepalive,
	}
}

// Stream handles the SSE changefeed. EventSource cannot send headers, so the
// caller authenticates with a stream token in the query string.
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// Role is read fresh so a revoked account loses the feed immediately.
	me, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	role := user.EffectiveRole(me.Role, me.Approved)

	allowed, err := resolveCollections(r.URL.Query().Get("collections"), role)
	if errors.Is(err, errCollectionForbidden) {
		response.Forbidden(w, err.Error())
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if len(allowed) == 0 {
		response.Forbidden(w, "No readable collections")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe(changefeed.AllCollections, func(e changefeed.Event) bool {
		return allowed[e.Collection]
	})
	defer sub.Cancel()

	names := make([]string, 0, len(allowed))
	for name := range allowed {
		names = append(names, name)
	}
	writeEvent(w, "connected", map[string]interface{}{
		"status":      "connected",
		"user_id":     userID,
		"collections": names,
	})
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeEvent(w, "change", event); err != nil {
				slog.Warn("failed to encode change event", "collection", event.Collection, "id", event.ID, "error", err)
				continue
			}
			flusher.Flush()

		case <-keepalive.C:
			writeEvent(w, "ping", map[string]int64{"timestamp": time.Now().Unix()})
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}

// resolveCollections parses a comma separated collection list. An empty list
// means every collection the role may read. Naming a collection the role may
// not read is refused.
func resolveCollections(param string, role user.Role) (map[string]bool, error) {
	allowed := make(map[string]bool)

	if strings.TrimSpace(param) == "" {
		for name, action := range streamCollections {
			if user.Authorize(role, action) {
				allowed[name] = true
			}
		}
		return allowed, nil
	}

	for _, name := range strings.Split(param, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		action, ok := streamCollections[name]
		if !ok {
			return nil, validator.ValidationErrors{{
				Field:   "collections",
				Message: fmt.Sprintf("unknown collection '%s'", name),
			}}
		}
		if !user.Authorize(role, action) {
			return nil, fmt.Errorf("%w: '%s' requires '%s'", errCollectionForbidden, name, action)
		}
		allowed[name] = true
	}
	return allowed, nil
}

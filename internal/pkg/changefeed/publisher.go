package changefeed

import (
	"context"
	"log/slog"
)

// Publisher announces record store writes.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Notify publishes event and logs a failure instead of returning it.
func Notify(ctx context.Context, p Publisher, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish change event",
			"collection", event.Collection, "op", event.Op, "id", event.ID, "error", err)
	}
}

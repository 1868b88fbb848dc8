package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
	"github.com/trackify/trackify-backend-go/internal/pkg/database"
)

// NOTIFY rejects payloads of 8000 bytes or more.
const maxNotifyPayload = 7999

type changeNotifierImpl struct {
	db      *database.DB
	channel string
}

// NewChangeNotifier returns a Publisher backed by pg_notify. Every instance
// running a changefeed.Relay on channel receives the event, this one included.
func NewChangeNotifier(db *database.DB, channel string) changefeed.Publisher {
	return &changeNotifierImpl{db: db, channel: channel}
}

func (n *changeNotifierImpl) Publish(ctx context.Context, event changefeed.Event) error {
	q := GetQuerier(ctx, n.db)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode change event: %w", err)
	}
	if len(payload) > maxNotifyPayload {
		// Listeners refetch the document by id.
		event.Data = nil
		if payload, err = json.Marshal(event); err != nil {
			return fmt.Errorf("failed to encode change event: %w", err)
		}
	}

	if _, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, n.channel, string(payload)); err != nil {
		return fmt.Errorf("failed to notify %s: %w", n.channel, err)
	}
	return nil
}

package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const relayRetryDelay = 5 * time.Second

// Relay listens on a Postgres channel and republishes every notification
// into a local Hub.
type Relay struct {
	pool       *pgxpool.Pool
	channel    string
	hub        *Hub
	retryDelay time.Duration
}

func NewRelay(pool *pgxpool.Pool, channel string, hub *Hub) *Relay {
	return &Relay{
		pool:       pool,
		channel:    channel,
		hub:        hub,
		retryDelay: relayRetryDelay,
	}
}

// Run blocks until ctx is cancelled, reconnecting after connection errors.
func (r *Relay) Run(ctx context.Context) {
	slog.Info("changefeed relay started", "channel", r.channel)
	for {
		err := r.listen(ctx)
		if ctx.Err() != nil {
			slog.Info("changefeed relay stopped", "channel", r.channel)
			return
		}
		slog.Error("changefeed relay disconnected", "channel", r.channel, "error", err, "retry_in", r.retryDelay.String())

		select {
		case <-ctx.Done():
			slog.Info("changefeed relay stopped", "channel", r.channel)
			return
		case <-time.After(r.retryDelay):
		}
	}
}

func (r *Relay) listen(ctx context.Context) error {
	pooled, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	// A listening connection must never go back to the pool.
	conn := pooled.Hijack()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := conn.Close(closeCtx); err != nil {
			slog.Warn("failed to close changefeed connection", "channel", r.channel, "error", err)
		}
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{r.channel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.channel, err)
	}

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		event, err := DecodeEvent([]byte(notification.Payload))
		if err != nil {
			slog.Warn("dropping malformed change event", "channel", r.channel, "error", err)
			continue
		}
		r.hub.Publish(ctx, event)
	}
}

// DecodeEvent parses a notification payload. Data is left as decoded JSON.
func DecodeEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, err
	}
	if event.Collection == "" || event.ID == "" {
		return Event{}, errors.New("change event missing collection or id")
	}
	return event, nil
}

package changefeed

import (
	"context"
	"sync"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"

	// AllCollections subscribes to every collection.
	AllCollections = "*"

	subscriberBuffer = 32
)

// Event describes one write to a collection. Data holds the new document
// for upserts and is nil for deletes.
type Event struct {
	Collection string `json:"collection"`
	Op         string `json:"op"`
	ID         string `json:"id"`
	Data       any    `json:"data,omitempty"`
}

// Filter narrows a subscription. A nil Filter accepts everything.
type Filter func(Event) bool

// Subscription is a cancellable handle on a live event stream.
type Subscription struct {
	ch     chan Event
	filter Filter
	once   sync.Once
	cancel func()
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Cancel detaches the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Hub fans events out to in-process subscribers keyed by collection.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

func (h *Hub) Subscribe(collection string, filter Filter) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscription{
		ch:     make(chan Event, subscriberBuffer),
		filter: filter,
	}
	sub.cancel = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[collection], sub)
		close(sub.ch)
		if len(h.subscribers[collection]) == 0 {
			delete(h.subscribers, collection)
		}
	}

	if h.subscribers[collection] == nil {
		h.subscribers[collection] = make(map[*Subscription]struct{})
	}
	h.subscribers[collection][sub] = struct{}{}

	return sub
}

// Publish delivers event to matching subscribers without blocking. A
// subscriber with a full buffer misses the event.
func (h *Hub) Publish(_ context.Context, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.subscribers[event.Collection], event)
	if event.Collection != AllCollections {
		h.deliver(h.subscribers[AllCollections], event)
	}
	return nil
}

func (h *Hub) deliver(subs map[*Subscription]struct{}, event Event) {
	for sub := range subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for a collection.
func (h *Hub) SubscriberCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[collection])
}

// TotalSubscribers returns the number of active subscribers across all collections.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}

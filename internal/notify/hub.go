// Package notify delivers in-process change notifications. Services publish
// an event after every successful mutation; interested components subscribe
// and refresh their view instead of polling the store.
package notify

import "sync"

// Kind names the class of change an event describes.
type Kind string

const (
	KindEntries  Kind = "entries"
	KindSettings Kind = "settings"
	KindSession  Kind = "session"
	KindTheme    Kind = "theme"
)

// Event is one change notification.
type Event struct {
	// Kind is the class of data that changed.
	Kind Kind

	// UserID is the owner of the changed data. Zero for changes that are
	// not scoped to one user (the theme, the session slot).
	UserID int64
}

// Hub fans events out to subscribers. Delivery is synchronous and in
// subscription order; handlers must return quickly and must not publish
// from inside a handler.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewHub() *Hub {
	return &Hub{
		subs: map[int]func(Event){},
	}
}

// Subscribe registers fn for all future events and returns a cancel
// function. Cancelling twice is harmless.
func (h *Hub) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish delivers event to every current subscriber.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	handlers := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}
}

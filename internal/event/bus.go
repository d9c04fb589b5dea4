// Package event connects the editing core to its observers. The core is
// single threaded, so delivery is synchronous: Publish calls every matching
// handler before it returns, and handlers run on the publishing goroutine.
package event

import (
	"sync"

	"github.com/google/uuid"
)

// Handler receives published events.
type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	id uuid.UUID
	t  Type
}

// Bus is a synchronous publish/subscribe hub.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type]map[uuid.UUID]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Type]map[uuid.UUID]Handler)}
}

// Subscribe registers a handler for one event type and returns its
// subscription token.
func (b *Bus) Subscribe(t Type, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	if b.handlers[t] == nil {
		b.handlers[t] = make(map[uuid.UUID]Handler)
	}
	b.handlers[t][id] = h
	return Subscription{id: id, t: t}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers[sub.t], sub.id)
}

// Publish delivers the event to every subscriber of its type, in
// unspecified order, before returning.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[e.Type]))
	for _, h := range b.handlers[e.Type] {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}

// SubscriberCount returns the number of handlers for a type.
func (b *Bus) SubscriberCount(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}

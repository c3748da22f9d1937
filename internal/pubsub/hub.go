package pubsub

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is an owned handle for a Hub callback. Releasing it removes the
// callback; releasing twice is a no-op.
type Subscription interface {
	ID() string
	Release()
}

// Hub delivers payloads synchronously, in subscription order, on the
// publisher's goroutine. It backs surface change notifications, which must run
// on the UI goroutine that caused them.
type Hub[T any] struct {
	mu    sync.Mutex
	order []string
	subs  map[string]func(T)
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[string]func(T))}
}

// Subscribe registers fn and returns the handle that owns it.
func (h *Hub[T]) Subscribe(fn func(T)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	h.subs[id] = fn
	h.order = append(h.order, id)
	return &hubSubscription[T]{id: id, hub: h}
}

// Publish calls every live subscriber with payload. Subscribers released while
// the publish is in flight are skipped.
func (h *Hub[T]) Publish(payload T) {
	h.mu.Lock()
	ids := make([]string, len(h.order))
	copy(ids, h.order)
	h.mu.Unlock()

	for _, id := range ids {
		h.mu.Lock()
		fn, ok := h.subs[id]
		h.mu.Unlock()
		if ok {
			fn(payload)
		}
	}
}

// Len returns the number of live subscriptions.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub[T]) release(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	for i, o := range h.order {
		if o == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

type hubSubscription[T any] struct {
	id   string
	hub  *Hub[T]
	once sync.Once
}

func (s *hubSubscription[T]) ID() string { return s.id }

func (s *hubSubscription[T]) Release() {
	s.once.Do(func() { s.hub.release(s.id) })
}

// Subscriptions collects handles so an owner can release them all at once.
type Subscriptions []Subscription

// Add appends sub and returns the grown set.
func (s Subscriptions) Add(sub Subscription) Subscriptions {
	if sub == nil {
		return s
	}
	return append(s, sub)
}

// ReleaseAll releases every handle and returns an empty set.
func (s Subscriptions) ReleaseAll() Subscriptions {
	for _, sub := range s {
		sub.Release()
	}
	return nil
}

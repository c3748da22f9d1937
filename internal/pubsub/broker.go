package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 8

// subscriber is one Subscribe call's channel. closeOnce guards the channel
// against the context watcher and Close racing each other.
type subscriber[T any] struct {
	ch        chan Event[T]
	closeOnce sync.Once
}

func (s *subscriber[T]) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// offer delivers ev without blocking. A full buffer loses its oldest pending
// event, so a slow reader always ends up with the newest state.
func (s *subscriber[T]) offer(ev Event[T]) {
	for range 2 {
		select {
		case s.ch <- ev:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Broker fans events out from background goroutines (file watcher, config
// reload) to subscribers on other goroutines. Publish never blocks.
type Broker[T any] struct {
	mu         sync.Mutex
	subs       map[uint64]*subscriber[T]
	nextID     uint64
	closed     bool
	done       chan struct{}
	bufferSize int
}

// NewBroker creates a broker with the default per-subscriber buffer.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker whose subscribers buffer size events.
// Sizes below one are raised to one.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[uint64]*subscriber[T]),
		done:       make(chan struct{}),
		bufferSize: max(size, 1),
	}
}

// Subscribe returns a channel of future events. The channel is closed when
// ctx is cancelled or the broker is closed; subscribing to a closed broker
// yields an already closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber[T]{ch: make(chan Event[T], b.bufferSize)}
	if b.closed {
		sub.close()
		return sub.ch
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = sub

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(id)
		case <-b.done:
		}
	}()
	return sub.ch
}

func (b *Broker[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()
	if ok {
		sub.close()
	}
}

// Publish stamps payload and offers it to every subscriber.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	ev := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		sub.offer(ev)
	}
}

// Close closes every subscriber channel. Later calls are no-ops.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for id, sub := range b.subs {
		sub.close()
		delete(b.subs, id)
	}
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

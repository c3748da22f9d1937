// Package pubsub provides the event plumbing used by the minimap: a synchronous
// Hub for same-goroutine change notifications with owned subscription handles,
// and an asynchronous Broker for handing events from background goroutines to
// the Bubble Tea update loop.
package pubsub

import "time"

// EventType classifies a broker event.
type EventType string

const (
	// ChangedEvent reports that watched state changed and should be reloaded.
	ChangedEvent EventType = "changed"
	// ErrorEvent reports a failure in the background producer.
	ErrorEvent EventType = "error"
)

// Event is a published value stamped with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

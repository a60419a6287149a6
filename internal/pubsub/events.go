// Package pubsub provides typed publish/subscribe brokers that decouple
// the core state layer from the presentation layer.
package pubsub

import "time"

// EventType classifies what happened to the payload.
type EventType string

// Generic event type constants.
const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event wraps a domain payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

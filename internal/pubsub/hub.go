package pubsub

import (
	"sync"

	"docchat/internal/events"
)

// Hub is the central container for all domain brokers. The core services
// publish into it; the presentation bridge subscribes out of it.
type Hub struct {
	Auth     *Broker[events.AuthEvent]
	Document *Broker[events.DocumentEvent]
	Chat     *Broker[events.ChatEvent]
	Notice   *Broker[events.NoticeEvent]

	registry *Registry
	done     chan struct{}
}

// NewHub creates a new Hub with all domain brokers initialized.
func NewHub() *Hub {
	h := &Hub{
		Auth:     NewBroker[events.AuthEvent]("auth"),
		Document: NewBroker[events.DocumentEvent]("document"),
		Chat:     NewBroker[events.ChatEvent]("chat"),
		Notice:   NewBroker[events.NoticeEvent]("notice"),
		registry: NewRegistry(),
		done:     make(chan struct{}),
	}

	h.registry.Register("auth", h.Auth)
	h.registry.Register("document", h.Document)
	h.registry.Register("chat", h.Chat)
	h.registry.Register("notice", h.Notice)

	return h
}

// Shutdown gracefully shuts down all brokers.
func (h *Hub) Shutdown() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() { defer wg.Done(); h.Auth.Shutdown() }()
	go func() { defer wg.Done(); h.Document.Shutdown() }()
	go func() { defer wg.Done(); h.Chat.Shutdown() }()
	go func() { defer wg.Done(); h.Notice.Shutdown() }()

	wg.Wait()
}

// IsShutdown returns true if the hub has been shut down.
func (h *Hub) IsShutdown() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that's closed when the hub is shut down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Registry returns the debug registry for introspection.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// DebugString returns a formatted debug string for all brokers.
func (h *Hub) DebugString() string {
	return h.registry.DebugString()
}

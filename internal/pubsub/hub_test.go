package pubsub

import (
	"context"
	"testing"
	"time"

	"docchat/internal/events"
)

func TestHub(t *testing.T) {
	t.Run("registers all domain brokers", func(t *testing.T) {
		hub := NewHub()
		defer hub.Shutdown()

		for _, name := range []string{"auth", "document", "chat", "notice"} {
			if _, ok := hub.Registry().Get(name); !ok {
				t.Errorf("broker %q not registered", name)
			}
		}
	})

	t.Run("events flow through the hub", func(t *testing.T) {
		hub := NewHub()
		defer hub.Shutdown()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub := hub.Notice.Subscribe(ctx)
		hub.Notice.Publish(EventCreated, events.NewNotice(events.NoticeInfo, "hello"))

		select {
		case event := <-sub:
			if event.Payload.Message != "hello" {
				t.Errorf("Message = %q, want %q", event.Payload.Message, "hello")
			}
		case <-time.After(100 * time.Millisecond):
			t.Error("timeout waiting for notice")
		}
	})

	t.Run("shutdown closes everything", func(t *testing.T) {
		hub := NewHub()

		sub := hub.Document.Subscribe(context.Background())
		hub.Shutdown()

		if _, ok := <-sub; ok {
			t.Error("expected subscriber channel to be closed")
		}
		if !hub.IsShutdown() {
			t.Error("expected hub to report shutdown")
		}
		if !hub.Auth.IsShutdown() || !hub.Chat.IsShutdown() {
			t.Error("expected all brokers to be shut down")
		}

		// Second shutdown is a no-op.
		hub.Shutdown()
	})
}

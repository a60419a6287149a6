// Package bridge provides the connection between the pub/sub system and Bubble Tea.
package bridge

import (
	"docchat/internal/events"
	"docchat/internal/pubsub"
)

// AuthEventMsg wraps an auth event for the TUI.
type AuthEventMsg struct {
	Event pubsub.Event[events.AuthEvent]
}

// DocumentEventMsg wraps a document event for the TUI.
type DocumentEventMsg struct {
	Event pubsub.Event[events.DocumentEvent]
}

// ChatEventMsg wraps a chat event for the TUI.
type ChatEventMsg struct {
	Event pubsub.Event[events.ChatEvent]
}

// NoticeEventMsg wraps a notice for the TUI.
type NoticeEventMsg struct {
	Event pubsub.Event[events.NoticeEvent]
}

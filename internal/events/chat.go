package events

import "time"

// ChatEventType represents chat-specific event types.
type ChatEventType string

// Chat event type constants.
const (
	ChatEventSessionCreated  ChatEventType = "session_created"
	ChatEventSessionSwitched ChatEventType = "session_switched"
	ChatEventSessionRenamed  ChatEventType = "session_renamed"
	ChatEventSessionDeleted  ChatEventType = "session_deleted"
	ChatEventMessageAppended ChatEventType = "message_appended"
	ChatEventTypingStarted   ChatEventType = "typing_started"
	ChatEventTypingStopped   ChatEventType = "typing_stopped"
	ChatEventCleared         ChatEventType = "cleared"
)

// ChatEvent represents a chat state change.
type ChatEvent struct {
	Type      ChatEventType
	SessionID string
	Timestamp time.Time

	// Optional fields
	Title       string // for SessionCreated, SessionSwitched, SessionRenamed
	MessageRole string // for MessageAppended
	MessageText string // for MessageAppended
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(sessionID, title string) ChatEvent {
	return ChatEvent{
		Type:      ChatEventSessionCreated,
		SessionID: sessionID,
		Title:     title,
		Timestamp: time.Now(),
	}
}

// NewSessionSwitchedEvent creates a session switched event.
func NewSessionSwitchedEvent(sessionID, title string) ChatEvent {
	return ChatEvent{
		Type:      ChatEventSessionSwitched,
		SessionID: sessionID,
		Title:     title,
		Timestamp: time.Now(),
	}
}

// NewSessionRenamedEvent creates a session renamed event.
func NewSessionRenamedEvent(sessionID, title string) ChatEvent {
	return ChatEvent{
		Type:      ChatEventSessionRenamed,
		SessionID: sessionID,
		Title:     title,
		Timestamp: time.Now(),
	}
}

// NewSessionDeletedEvent creates a session deleted event.
func NewSessionDeletedEvent(sessionID string) ChatEvent {
	return ChatEvent{
		Type:      ChatEventSessionDeleted,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewMessageAppendedEvent creates a message appended event.
func NewMessageAppendedEvent(sessionID, role, text string) ChatEvent {
	return ChatEvent{
		Type:        ChatEventMessageAppended,
		SessionID:   sessionID,
		MessageRole: role,
		MessageText: text,
		Timestamp:   time.Now(),
	}
}

// NewTypingStartedEvent creates a typing started event.
func NewTypingStartedEvent(sessionID string) ChatEvent {
	return ChatEvent{
		Type:      ChatEventTypingStarted,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewTypingStoppedEvent creates a typing stopped event.
func NewTypingStoppedEvent(sessionID string) ChatEvent {
	return ChatEvent{
		Type:      ChatEventTypingStopped,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// NewChatClearedEvent creates a cleared event.
func NewChatClearedEvent() ChatEvent {
	return ChatEvent{
		Type:      ChatEventCleared,
		Timestamp: time.Now(),
	}
}

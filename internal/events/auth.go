// Package events defines the domain event payloads published on the hub.
package events

import "time"

// AuthEventType represents auth-specific event types.
type AuthEventType string

// Auth event type constants.
const (
	AuthEventLoggedIn  AuthEventType = "logged_in"
	AuthEventRestored  AuthEventType = "restored"
	AuthEventLoggedOut AuthEventType = "logged_out"
	AuthEventExpired   AuthEventType = "expired"
)

// AuthEvent represents an authentication state transition.
type AuthEvent struct {
	Type      AuthEventType
	UserID    string
	UserName  string
	Timestamp time.Time
}

// NewLoggedInEvent creates a logged in event.
func NewLoggedInEvent(userID, userName string) AuthEvent {
	return AuthEvent{
		Type:      AuthEventLoggedIn,
		UserID:    userID,
		UserName:  userName,
		Timestamp: time.Now(),
	}
}

// NewRestoredEvent creates a session restored event.
func NewRestoredEvent(userID, userName string) AuthEvent {
	return AuthEvent{
		Type:      AuthEventRestored,
		UserID:    userID,
		UserName:  userName,
		Timestamp: time.Now(),
	}
}

// NewLoggedOutEvent creates a logged out event.
func NewLoggedOutEvent() AuthEvent {
	return AuthEvent{
		Type:      AuthEventLoggedOut,
		Timestamp: time.Now(),
	}
}

// NewExpiredEvent creates a session expired event.
func NewExpiredEvent() AuthEvent {
	return AuthEvent{
		Type:      AuthEventExpired,
		Timestamp: time.Now(),
	}
}

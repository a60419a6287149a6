package chat

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when a session ID does not exist or
// belongs to a different user.
var ErrSessionNotFound = errors.New("chat session not found")

// Store persists sessions and their messages. All lookups are scoped to a
// user so one account can never read another's conversations.
type Store interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, userID, sessionID string) (*Session, error)
	ListSessions(ctx context.Context, userID string) ([]*Session, error)
	RenameSession(ctx context.Context, userID, sessionID, title string) error
	TouchSession(ctx context.Context, userID, sessionID string, at int64) error
	DeleteSession(ctx context.Context, userID, sessionID string) error

	AppendMessage(ctx context.Context, userID string, msg *Message) error
	Messages(ctx context.Context, userID, sessionID string) ([]*Message, error)
}

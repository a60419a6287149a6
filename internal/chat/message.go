// Package chat manages conversation sessions: persistence, switching,
// titling, and the send round-trip against the remote service.
package chat

// Role identifies a message author.
type Role string

// Role constants. The wire protocol uses the same strings.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	ID        string
	SessionID string
	Role      Role
	Content   string
	CreatedAt int64 // unix milliseconds
}

// Session is a named conversation owned by one user.
type Session struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt int64 // unix milliseconds
	UpdatedAt int64
}

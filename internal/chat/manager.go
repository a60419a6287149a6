package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"docchat/internal/api"
	"docchat/internal/debug"
	"docchat/internal/document"
	"docchat/internal/events"
	"docchat/internal/pubsub"
)

// ErrEmptyMessage is returned when Send is called with nothing but
// whitespace. Nothing is persisted and nothing goes on the wire.
var ErrEmptyMessage = errors.New("message is empty")

// apologyText stands in for the assistant when the service call fails, so
// the transcript records the failure instead of hanging on a user turn.
const apologyText = "Sorry, an error occurred. Please try again."

const titleMaxGraphemes = 50

// Manager owns the active conversation. A session row is only created
// when the first message is sent, so browsing in and out of empty chats
// leaves no residue.
type Manager struct {
	client   *api.Client
	store    Store
	registry *document.Registry
	hub      *pubsub.Hub

	mu      sync.RWMutex
	userID  string
	current *Session
	history []*Message
}

// NewManager creates a chat manager over the given collaborators.
func NewManager(client *api.Client, store Store, registry *document.Registry, hub *pubsub.Hub) *Manager {
	return &Manager{
		client:   client,
		store:    store,
		registry: registry,
		hub:      hub,
	}
}

// SetUser binds the manager to a user and resumes their most recent
// session, if any.
func (m *Manager) SetUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	m.userID = userID
	m.current = nil
	m.history = nil
	m.mu.Unlock()

	if userID == "" {
		return nil
	}

	sessions, err := m.store.ListSessions(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading chat sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}
	return m.SwitchSession(ctx, sessions[0].ID)
}

// Reset clears all chat state, for logout. Persisted sessions survive for
// the next login.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.userID = ""
	m.current = nil
	m.history = nil
	m.mu.Unlock()
	m.publish(events.NewChatClearedEvent())
}

// Send runs one full round-trip: persist the user turn, call the service
// with the prior history and the selected document scope, persist the
// reply. On failure a fixed apology is recorded as the assistant turn and
// the error is also returned for notice handling.
func (m *Manager) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	session, err := m.ensureSession(ctx, text)
	if err != nil {
		return err
	}

	m.mu.RLock()
	userID := m.userID
	wire := make([]api.ChatMessage, 0, len(m.history))
	for _, msg := range m.history {
		wire = append(wire, api.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	m.mu.RUnlock()

	if err := m.append(ctx, userID, session.ID, RoleUser, text); err != nil {
		return err
	}

	scope := m.registry.SelectedScope()
	targetID, targetName := "", ""
	if scope != document.ScopeAll {
		targetID = scope
		targetName = m.registry.ResolveName(scope)
	}

	m.publish(events.NewTypingStartedEvent(session.ID))
	result, err := m.client.Chat(ctx, text, wire, targetID, targetName)
	m.publish(events.NewTypingStoppedEvent(session.ID))

	if err != nil {
		debug.Error("chat", err, "sending message")
		if appendErr := m.append(ctx, userID, session.ID, RoleAssistant, apologyText); appendErr != nil {
			debug.Error("chat", appendErr, "recording apology")
		}
		return fmt.Errorf("sending message: %w", err)
	}

	return m.append(ctx, userID, session.ID, RoleAssistant, result.Response)
}

// NewSession detaches from the current session. The next Send starts a
// fresh one.
func (m *Manager) NewSession() {
	m.mu.Lock()
	m.current = nil
	m.history = nil
	m.mu.Unlock()
	m.publish(events.NewChatClearedEvent())
}

// SwitchSession makes the given session current, loads its transcript,
// and bumps its recency so the session list keeps opened chats on top.
func (m *Manager) SwitchSession(ctx context.Context, sessionID string) error {
	m.mu.RLock()
	userID := m.userID
	m.mu.RUnlock()

	session, err := m.store.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	msgs, err := m.store.Messages(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	now := time.Now().UnixMilli()
	if err := m.store.TouchSession(ctx, userID, sessionID, now); err != nil {
		return err
	}
	session.UpdatedAt = now

	m.mu.Lock()
	m.current = session
	m.history = msgs
	m.mu.Unlock()

	m.publish(events.NewSessionSwitchedEvent(session.ID, session.Title))
	return nil
}

// RenameSession retitles a session. The title goes through the same
// normalization as derived titles, so it never exceeds the display
// length and never ends up blank.
func (m *Manager) RenameSession(ctx context.Context, sessionID, title string) error {
	m.mu.RLock()
	userID := m.userID
	m.mu.RUnlock()

	title = Title(title)
	if err := m.store.RenameSession(ctx, userID, sessionID, title); err != nil {
		return err
	}

	m.mu.Lock()
	if m.current != nil && m.current.ID == sessionID {
		m.current.Title = title
	}
	m.mu.Unlock()

	m.publish(events.NewSessionRenamedEvent(sessionID, title))
	return nil
}

// DeleteSession removes a session and its transcript. Deleting the
// current session detaches, like NewSession.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.RLock()
	userID := m.userID
	wasCurrent := m.current != nil && m.current.ID == sessionID
	m.mu.RUnlock()

	if err := m.store.DeleteSession(ctx, userID, sessionID); err != nil {
		return err
	}

	m.publish(events.NewSessionDeletedEvent(sessionID))
	if wasCurrent {
		m.NewSession()
	}
	return nil
}

// Sessions lists the user's sessions, most recently active first.
func (m *Manager) Sessions(ctx context.Context) ([]*Session, error) {
	m.mu.RLock()
	userID := m.userID
	m.mu.RUnlock()
	return m.store.ListSessions(ctx, userID)
}

// Current returns the active session, or nil before the first Send.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// History returns a snapshot of the current transcript.
func (m *Manager) History() []*Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Message, len(m.history))
	for i, msg := range m.history {
		copied := *msg
		out[i] = &copied
	}
	return out
}

// ensureSession returns the current session, creating one titled from the
// first message when none is active.
func (m *Manager) ensureSession(ctx context.Context, firstMessage string) (*Session, error) {
	m.mu.Lock()
	if m.current != nil {
		session := m.current
		m.mu.Unlock()
		return session, nil
	}
	userID := m.userID
	m.mu.Unlock()

	now := time.Now().UnixMilli()
	session := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     Title(firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = session
	m.history = nil
	m.mu.Unlock()

	m.publish(events.NewSessionCreatedEvent(session.ID, session.Title))
	debug.Event("chat", "session_created", fmt.Sprintf("id=%s title=%q", session.ID, session.Title))
	return session, nil
}

// append persists one message and mirrors it into the in-memory
// transcript when the session is still current.
func (m *Manager) append(ctx context.Context, userID, sessionID string, role Role, content string) error {
	msg := &Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := m.store.AppendMessage(ctx, userID, msg); err != nil {
		return fmt.Errorf("persisting message: %w", err)
	}

	m.mu.Lock()
	if m.current != nil && m.current.ID == sessionID {
		m.history = append(m.history, msg)
		m.current.UpdatedAt = msg.CreatedAt
	}
	m.mu.Unlock()

	m.publish(events.NewMessageAppendedEvent(sessionID, string(role), content))
	return nil
}

func (m *Manager) publish(ev events.ChatEvent) {
	if m.hub != nil {
		m.hub.Chat.Publish(pubsub.EventUpdated, ev)
	}
}

// Title derives a session title from its first message, truncated on a
// grapheme boundary so multi-byte text never splits mid-character.
func Title(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "New chat"
	}

	var b strings.Builder
	state := -1
	rest := text
	count := 0
	for len(rest) > 0 && count < titleMaxGraphemes {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b.WriteString(cluster)
		count++
	}
	if len(rest) > 0 {
		return b.String() + "…"
	}
	return b.String()
}

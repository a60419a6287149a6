// Package auth manages the authentication session: login, registration,
// restore across restarts, and the forced teardown on an expired session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"docchat/internal/api"
	"docchat/internal/debug"
	"docchat/internal/events"
	"docchat/internal/pubsub"
	"docchat/internal/storage"
)

// SessionKey is the storage key of the persisted session record.
const SessionKey = "auth_session"

// Session is the single persisted authentication record. Absence means
// unauthenticated; there is never more than one.
type Session struct {
	Token     string   `json:"token"`
	User      api.User `json:"user"`
	ExpiresAt int64    `json:"expiresAt"` // unix seconds
}

// Service owns the session state machine. Transitions are atomic from the
// caller's perspective: after Login/Register/Restore return, the token is
// installed on the API client and the record is persisted.
type Service struct {
	client *api.Client
	store  storage.Store
	hub    *pubsub.Hub

	mu      sync.RWMutex
	session *Session
}

// NewService creates an auth service over the given collaborators.
func NewService(client *api.Client, store storage.Store, hub *pubsub.Hub) *Service {
	return &Service{
		client: client,
		store:  store,
		hub:    hub,
	}
}

// Login authenticates with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	session := s.apply(result)
	s.publish(events.NewLoggedInEvent(session.User.ID, session.User.Name))
	s.notify(events.NoticeSuccess, "Logged in successfully")
	return session, nil
}

// Register creates a new account and signs in.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	result, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	session := s.apply(result)
	s.publish(events.NewLoggedInEvent(session.User.ID, session.User.Name))
	s.notify(events.NoticeSuccess, "Account created successfully")
	return session, nil
}

// Restore reads the persisted session record at startup. A malformed or
// incomplete record (missing token or user identity) is treated as absent;
// there is no partial restore.
func (s *Service) Restore() (*Session, bool) {
	var session Session
	if err := s.store.Get(SessionKey, &session); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			debug.Error("auth", err, "restoring session")
		}
		return nil, false
	}

	if session.Token == "" || session.User.ID == "" {
		debug.Event("auth", "restore", "incomplete record, treating as absent")
		return nil, false
	}

	s.mu.Lock()
	s.session = &session
	s.mu.Unlock()
	s.client.SetToken(session.Token)

	s.publish(events.NewRestoredEvent(session.User.ID, session.User.Name))
	return &session, true
}

// Logout clears the in-memory and persisted session unconditionally. It is
// idempotent and always succeeds.
func (s *Service) Logout() {
	had := s.clear()
	if had {
		s.publish(events.NewLoggedOutEvent())
		s.notify(events.NoticeSuccess, "Logged out")
	}
}

// HandleUnauthorized is invoked by any collaborator that received an auth
// rejection. It tears down the session like Logout and shows the expiry
// notice exactly once; later calls for the same teardown are no-ops.
func (s *Service) HandleUnauthorized() {
	had := s.clear()
	if !had {
		return
	}

	s.publish(events.NewExpiredEvent())
	s.notify(events.NoticeError, "Session expired. Please log in again.")
}

// Current returns the active session, or nil when unauthenticated.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Authenticated reports whether a session is active.
func (s *Service) Authenticated() bool {
	return s.Current() != nil
}

// UserID returns the active user's identity, or empty when unauthenticated.
func (s *Service) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.User.ID
}

// apply installs a fresh auth result as the active session and persists it.
func (s *Service) apply(result *api.AuthResult) *Session {
	session := &Session{
		Token:     result.Token,
		User:      result.User,
		ExpiresAt: result.ExpiresAt,
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.client.SetToken(session.Token)

	if err := s.store.Put(SessionKey, session); err != nil {
		// The in-memory session still works for this run.
		debug.Error("auth", err, "persisting session")
	}

	return session
}

// clear drops session state everywhere. Returns false when there was no
// session to clear.
func (s *Service) clear() bool {
	s.mu.Lock()
	had := s.session != nil
	s.session = nil
	s.mu.Unlock()

	s.client.ClearToken()
	if err := s.store.Delete(SessionKey); err != nil {
		debug.Error("auth", err, "deleting persisted session")
	}

	return had
}

func (s *Service) publish(ev events.AuthEvent) {
	if s.hub != nil {
		s.hub.Auth.Publish(pubsub.EventUpdated, ev)
	}
}

func (s *Service) notify(level events.NoticeLevel, msg string) {
	if s.hub != nil {
		s.hub.Notice.Publish(pubsub.EventCreated, events.NewNotice(level, msg))
	}
}

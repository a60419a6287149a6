package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docchat/internal/db"
)

// SQLiteStore is the Store implementation over the local database.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a store over the given database.
func NewSQLiteStore(database *db.DB) *SQLiteStore {
	return &SQLiteStore{db: database}
}

var _ Store = (*SQLiteStore)(nil)

// CreateSession inserts a new session row.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Title, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating chat session: %w", err)
	}
	return nil
}

// GetSession fetches one session scoped to the user.
func (s *SQLiteStore) GetSession(ctx context.Context, userID, sessionID string) (*Session, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE id = ? AND user_id = ?`, sessionID, userID)

	var session Session
	err := row.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching chat session: %w", err)
	}
	return &session, nil
}

// ListSessions returns the user's sessions, most recently active first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string) ([]*Session, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// RenameSession updates a session's title.
func (s *SQLiteStore) RenameSession(ctx context.Context, userID, sessionID, title string) error {
	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE chat_sessions SET title = ?
		WHERE id = ? AND user_id = ?`, title, sessionID, userID)
	if err != nil {
		return fmt.Errorf("renaming chat session: %w", err)
	}
	return requireRow(res)
}

// TouchSession bumps a session's activity timestamp.
func (s *SQLiteStore) TouchSession(ctx context.Context, userID, sessionID string, at int64) error {
	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE chat_sessions SET updated_at = ?
		WHERE id = ? AND user_id = ?`, at, sessionID, userID)
	if err != nil {
		return fmt.Errorf("touching chat session: %w", err)
	}
	return requireRow(res)
}

// DeleteSession removes a session; its messages cascade.
func (s *SQLiteStore) DeleteSession(ctx context.Context, userID, sessionID string) error {
	res, err := s.db.Conn().ExecContext(ctx, `
		DELETE FROM chat_sessions
		WHERE id = ? AND user_id = ?`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("deleting chat session: %w", err)
	}
	return requireRow(res)
}

// AppendMessage inserts one message and bumps the owning session, in one
// transaction. The ownership check rides on the touch update.
func (s *SQLiteStore) AppendMessage(ctx context.Context, userID string, msg *Message) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE chat_sessions SET updated_at = ?
			WHERE id = ? AND user_id = ?`, msg.CreatedAt, msg.SessionID, userID)
		if err != nil {
			return fmt.Errorf("touching chat session: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO chat_messages (id, session_id, role, content, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			msg.ID, msg.SessionID, string(msg.Role), msg.Content, msg.CreatedAt)
		if err != nil {
			return fmt.Errorf("appending chat message: %w", err)
		}
		return nil
	})
}

// Messages returns a session's messages in chronological order.
func (s *SQLiteStore) Messages(ctx context.Context, userID, sessionID string) ([]*Message, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT m.id, m.session_id, m.role, m.content, m.created_at
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE m.session_id = ? AND s.user_id = ?
		ORDER BY m.created_at, m.id`, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var msg Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msg.Role = Role(role)
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

package chat

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"docchat/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func mustCreate(t *testing.T, store *SQLiteStore, id, userID, title string, at int64) {
	t.Helper()
	err := store.CreateSession(context.Background(), &Session{
		ID: id, UserID: userID, Title: title, CreatedAt: at, UpdatedAt: at,
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
}

func TestSQLiteStoreSessions(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	t.Run("creates and fetches a session", func(t *testing.T) {
		mustCreate(t, store, "s1", "u1", "First chat", 100)

		session, err := store.GetSession(ctx, "u1", "s1")
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if session.Title != "First chat" || session.CreatedAt != 100 {
			t.Errorf("unexpected session: %+v", session)
		}
	})

	t.Run("sessions are scoped to the user", func(t *testing.T) {
		mustCreate(t, store, "s2", "u1", "Private", 200)

		if _, err := store.GetSession(ctx, "u2", "s2"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("GetSession() error = %v, want ErrSessionNotFound", err)
		}

		sessions, err := store.ListSessions(ctx, "u2")
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}
		if len(sessions) != 0 {
			t.Errorf("ListSessions() returned %d sessions for other user", len(sessions))
		}
	})

	t.Run("lists most recently active first", func(t *testing.T) {
		store := NewSQLiteStore(setupTestDB(t))
		mustCreate(t, store, "old", "u1", "Old", 100)
		mustCreate(t, store, "new", "u1", "New", 200)

		sessions, err := store.ListSessions(ctx, "u1")
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}
		if len(sessions) != 2 || sessions[0].ID != "new" {
			t.Errorf("unexpected order: %+v", sessions)
		}

		if err := store.TouchSession(ctx, "u1", "old", 300); err != nil {
			t.Fatalf("TouchSession() error = %v", err)
		}
		sessions, err = store.ListSessions(ctx, "u1")
		if err != nil {
			t.Fatalf("ListSessions() error = %v", err)
		}
		if sessions[0].ID != "old" {
			t.Errorf("expected touched session first, got %q", sessions[0].ID)
		}
	})

	t.Run("rename updates the title", func(t *testing.T) {
		mustCreate(t, store, "s3", "u1", "Before", 100)

		if err := store.RenameSession(ctx, "u1", "s3", "After"); err != nil {
			t.Fatalf("RenameSession() error = %v", err)
		}
		session, err := store.GetSession(ctx, "u1", "s3")
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if session.Title != "After" {
			t.Errorf("Title = %q, want %q", session.Title, "After")
		}
	})

	t.Run("updates for missing sessions fail", func(t *testing.T) {
		if err := store.RenameSession(ctx, "u1", "nope", "x"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("RenameSession() error = %v, want ErrSessionNotFound", err)
		}
		if err := store.DeleteSession(ctx, "u1", "nope"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("DeleteSession() error = %v, want ErrSessionNotFound", err)
		}
	})
}

func TestSQLiteStoreMessages(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	mustCreate(t, store, "s1", "u1", "Chat", 100)

	addMsg := func(t *testing.T, id string, role Role, content string, at int64) {
		t.Helper()
		err := store.AppendMessage(ctx, "u1", &Message{
			ID: id, SessionID: "s1", Role: role, Content: content, CreatedAt: at,
		})
		if err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	t.Run("messages come back in order", func(t *testing.T) {
		addMsg(t, "m1", RoleUser, "hello", 110)
		addMsg(t, "m2", RoleAssistant, "hi there", 120)

		msgs, err := store.Messages(ctx, "u1", "s1")
		if err != nil {
			t.Fatalf("Messages() error = %v", err)
		}
		if len(msgs) != 2 {
			t.Fatalf("Messages() returned %d, want 2", len(msgs))
		}
		if msgs[0].Role != RoleUser || msgs[1].Role != RoleAssistant {
			t.Errorf("unexpected roles: %q, %q", msgs[0].Role, msgs[1].Role)
		}
	})

	t.Run("append bumps the session timestamp", func(t *testing.T) {
		addMsg(t, "m3", RoleUser, "another", 500)

		session, err := store.GetSession(ctx, "u1", "s1")
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if session.UpdatedAt != 500 {
			t.Errorf("UpdatedAt = %d, want 500", session.UpdatedAt)
		}
	})

	t.Run("append to another user's session fails", func(t *testing.T) {
		err := store.AppendMessage(ctx, "u2", &Message{
			ID: "mx", SessionID: "s1", Role: RoleUser, Content: "nope", CreatedAt: 600,
		})
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("AppendMessage() error = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("other users cannot read messages", func(t *testing.T) {
		msgs, err := store.Messages(ctx, "u2", "s1")
		if err != nil {
			t.Fatalf("Messages() error = %v", err)
		}
		if len(msgs) != 0 {
			t.Errorf("Messages() returned %d for other user, want 0", len(msgs))
		}
	})

	t.Run("deleting a session cascades to messages", func(t *testing.T) {
		if err := store.DeleteSession(ctx, "u1", "s1"); err != nil {
			t.Fatalf("DeleteSession() error = %v", err)
		}

		var count int
		err := store.db.Conn().QueryRow(
			`SELECT COUNT(*) FROM chat_messages WHERE session_id = 's1'`,
		).Scan(&count)
		if err != nil {
			t.Fatalf("counting messages: %v", err)
		}
		if count != 0 {
			t.Errorf("message count = %d, want 0 after cascade", count)
		}
	})
}

package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestOpen(t *testing.T) {
	t.Run("creates schema", func(t *testing.T) {
		database := openTestDB(t)

		for _, table := range []string{"chat_sessions", "chat_messages", "document_cache"} {
			var name string
			err := database.Conn().QueryRow(
				`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
			).Scan(&name)
			if err != nil {
				t.Errorf("table %q missing: %v", table, err)
			}
		}
	})

	t.Run("reopening an existing database succeeds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")

		first, err := Open(path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		first.Close()

		second, err := Open(path)
		if err != nil {
			t.Fatalf("second Open() error = %v", err)
		}
		second.Close()
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "test.db")
		database, err := Open(path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		database.Close()
	})
}

func TestWithTx(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
				VALUES ('s1', 'u1', 'test', 1, 1)`)
			return err
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}

		var count int
		if err := database.Conn().QueryRow(`SELECT COUNT(*) FROM chat_sessions`).Scan(&count); err != nil {
			t.Fatalf("counting rows: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		wantErr := sql.ErrNoRows
		err := database.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
				VALUES ('s2', 'u1', 'doomed', 1, 1)`); err != nil {
				return err
			}
			return wantErr
		})
		if err != wantErr {
			t.Fatalf("WithTx() error = %v, want %v", err, wantErr)
		}

		var count int
		if err := database.Conn().QueryRow(
			`SELECT COUNT(*) FROM chat_sessions WHERE id = 's2'`,
		).Scan(&count); err != nil {
			t.Fatalf("counting rows: %v", err)
		}
		if count != 0 {
			t.Errorf("count = %d, want 0 after rollback", count)
		}
	})
}

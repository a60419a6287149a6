package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docchat/internal/api"
	"docchat/internal/document"
)

// chatHandler fakes the /chat endpoint. Set fail to return a server error.
type chatHandler struct {
	fail     bool
	lastBody map[string]any
}

func (h *chatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/documents" {
		w.Write([]byte(`{"documents":[]}`))
		return
	}
	if r.URL.Path != "/chat" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	json.NewDecoder(r.Body).Decode(&h.lastBody)

	if h.fail {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"upstream unavailable"}`))
		return
	}
	w.Write([]byte(`{"response":"The answer."}`))
}

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *SQLiteStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.New(server.URL)
	client.SetToken("tok")

	store := NewSQLiteStore(setupTestDB(t))
	registry := document.NewRegistry(client, nil, nil)
	manager := NewManager(client, store, registry, nil)

	if err := manager.SetUser(context.Background(), "u1"); err != nil {
		t.Fatalf("SetUser() error = %v", err)
	}
	return manager, store
}

func TestManagerSend(t *testing.T) {
	t.Run("rejects empty messages", func(t *testing.T) {
		manager, _ := newTestManager(t, &chatHandler{})

		if err := manager.Send(context.Background(), "   "); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send() error = %v, want ErrEmptyMessage", err)
		}
		if manager.Current() != nil {
			t.Error("no session should be created for an empty message")
		}
	})

	t.Run("first message creates a titled session", func(t *testing.T) {
		manager, store := newTestManager(t, &chatHandler{})

		if err := manager.Send(context.Background(), "What is in the report?"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}

		current := manager.Current()
		if current == nil {
			t.Fatal("expected a session after Send")
		}
		if current.Title != "What is in the report?" {
			t.Errorf("Title = %q", current.Title)
		}

		msgs, err := store.Messages(context.Background(), "u1", current.ID)
		if err != nil {
			t.Fatalf("Messages() error = %v", err)
		}
		if len(msgs) != 2 {
			t.Fatalf("persisted %d messages, want 2", len(msgs))
		}
		if msgs[0].Role != RoleUser || msgs[1].Role != RoleAssistant {
			t.Errorf("roles = %q, %q", msgs[0].Role, msgs[1].Role)
		}
		if msgs[1].Content != "The answer." {
			t.Errorf("assistant content = %q", msgs[1].Content)
		}
	})

	t.Run("prior turns go on the wire as history", func(t *testing.T) {
		handler := &chatHandler{}
		manager, _ := newTestManager(t, handler)
		ctx := context.Background()

		if err := manager.Send(ctx, "first"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if err := manager.Send(ctx, "second"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}

		history, ok := handler.lastBody["chatHistory"].([]any)
		if !ok || len(history) != 2 {
			t.Fatalf("chatHistory = %v, want 2 prior turns", handler.lastBody["chatHistory"])
		}
		if handler.lastBody["message"] != "second" {
			t.Errorf("message = %v", handler.lastBody["message"])
		}
	})

	t.Run("failure records the apology and returns the error", func(t *testing.T) {
		manager, store := newTestManager(t, &chatHandler{fail: true})
		ctx := context.Background()

		err := manager.Send(ctx, "doomed question")
		if err == nil {
			t.Fatal("expected error from failed send")
		}

		current := manager.Current()
		msgs, storeErr := store.Messages(ctx, "u1", current.ID)
		if storeErr != nil {
			t.Fatalf("Messages() error = %v", storeErr)
		}
		if len(msgs) != 2 {
			t.Fatalf("persisted %d messages, want user turn plus apology", len(msgs))
		}
		if msgs[1].Content != apologyText {
			t.Errorf("assistant content = %q, want apology", msgs[1].Content)
		}
	})
}

func TestManagerSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("switch restores the transcript", func(t *testing.T) {
		manager, _ := newTestManager(t, &chatHandler{})

		if err := manager.Send(ctx, "hello"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		first := manager.Current().ID

		manager.NewSession()
		if manager.Current() != nil {
			t.Fatal("expected detached state after NewSession")
		}
		if err := manager.Send(ctx, "other topic"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if manager.Current().ID == first {
			t.Fatal("expected a new session for the second conversation")
		}

		if err := manager.SwitchSession(ctx, first); err != nil {
			t.Fatalf("SwitchSession() error = %v", err)
		}
		history := manager.History()
		if len(history) != 2 || history[0].Content != "hello" {
			t.Errorf("unexpected history after switch: %+v", history)
		}
	})

	t.Run("deleting the current session detaches", func(t *testing.T) {
		manager, _ := newTestManager(t, &chatHandler{})

		if err := manager.Send(ctx, "hello"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		id := manager.Current().ID

		if err := manager.DeleteSession(ctx, id); err != nil {
			t.Fatalf("DeleteSession() error = %v", err)
		}
		if manager.Current() != nil {
			t.Error("expected no current session after deleting it")
		}
		sessions, err := manager.Sessions(ctx)
		if err != nil {
			t.Fatalf("Sessions() error = %v", err)
		}
		if len(sessions) != 0 {
			t.Errorf("Sessions() returned %d, want 0", len(sessions))
		}
	})

	t.Run("rename retitles the current session", func(t *testing.T) {
		manager, store := newTestManager(t, &chatHandler{})

		if err := manager.Send(ctx, "hello"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		id := manager.Current().ID

		if err := manager.RenameSession(ctx, id, "  Quarterly   report  "); err != nil {
			t.Fatalf("RenameSession() error = %v", err)
		}
		if got := manager.Current().Title; got != "Quarterly report" {
			t.Errorf("Current().Title = %q, want normalized title", got)
		}
		persisted, err := store.GetSession(ctx, "u1", id)
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if persisted.Title != "Quarterly report" {
			t.Errorf("persisted title = %q", persisted.Title)
		}
	})

	t.Run("renaming a missing session fails", func(t *testing.T) {
		manager, _ := newTestManager(t, &chatHandler{})
		if err := manager.RenameSession(ctx, "nope", "title"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("RenameSession() error = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("switching bumps the session's recency", func(t *testing.T) {
		manager, store := newTestManager(t, &chatHandler{})
		mustCreate(t, store, "old", "u1", "Old", 100)

		if err := manager.SwitchSession(ctx, "old"); err != nil {
			t.Fatalf("SwitchSession() error = %v", err)
		}

		session, err := store.GetSession(ctx, "u1", "old")
		if err != nil {
			t.Fatalf("GetSession() error = %v", err)
		}
		if session.UpdatedAt == 100 {
			t.Error("UpdatedAt unchanged, expected switch to bump recency")
		}
		if manager.Current().UpdatedAt != session.UpdatedAt {
			t.Errorf("in-memory UpdatedAt = %d, persisted = %d", manager.Current().UpdatedAt, session.UpdatedAt)
		}
	})

	t.Run("set user resumes the most recent session", func(t *testing.T) {
		manager, _ := newTestManager(t, &chatHandler{})

		if err := manager.Send(ctx, "persisted question"); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		id := manager.Current().ID

		if err := manager.SetUser(ctx, "u1"); err != nil {
			t.Fatalf("SetUser() error = %v", err)
		}
		if current := manager.Current(); current == nil || current.ID != id {
			t.Errorf("expected session %q to be resumed", id)
		}
		if len(manager.History()) != 2 {
			t.Errorf("history length = %d, want 2", len(manager.History()))
		}
	})
}

func TestTitle(t *testing.T) {
	t.Run("short text is used as is", func(t *testing.T) {
		if got := Title("Summarize the contract"); got != "Summarize the contract" {
			t.Errorf("Title() = %q", got)
		}
	})

	t.Run("whitespace collapses", func(t *testing.T) {
		if got := Title("  what\n\nis   this  "); got != "what is this" {
			t.Errorf("Title() = %q", got)
		}
	})

	t.Run("long text truncates on grapheme boundary", func(t *testing.T) {
		long := strings.Repeat("a", 60)
		got := Title(long)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("Title() = %q, want ellipsis suffix", got)
		}
		if len([]rune(got)) != 51 {
			t.Errorf("Title() rune length = %d, want 51", len([]rune(got)))
		}
	})

	t.Run("multi byte text never splits mid character", func(t *testing.T) {
		long := strings.Repeat("日本語のテキスト", 10)
		got := Title(long)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("Title() = %q, want ellipsis suffix", got)
		}
		for _, r := range got {
			if r == '�' {
				t.Fatal("title contains a replacement character")
			}
		}
	})

	t.Run("empty text falls back", func(t *testing.T) {
		if got := Title("   "); got != "New chat" {
			t.Errorf("Title() = %q, want %q", got, "New chat")
		}
	})
}

package document

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"docchat/internal/api"
	"docchat/internal/events"
	"docchat/internal/pubsub"
)

// docsHandler fakes /documents and /delete with a mutable listing.
type docsHandler struct {
	mu         sync.Mutex
	docs       []api.DocumentInfo
	deleteFail bool
}

func (h *docsHandler) set(docs ...api.DocumentInfo) {
	h.mu.Lock()
	h.docs = docs
	h.mu.Unlock()
}

func (h *docsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch r.URL.Path {
	case "/documents":
		json.NewEncoder(w).Encode(map[string]any{"documents": h.docs})
	case "/delete":
		if h.deleteFail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"delete failed"}`))
			return
		}
		var req struct {
			FileKey string `json:"fileKey"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		kept := h.docs[:0]
		for _, doc := range h.docs {
			if doc.S3Key != req.FileKey {
				kept = append(kept, doc)
			}
		}
		h.docs = kept
		w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestRegistry(t *testing.T, handler *docsHandler) *Registry {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.New(server.URL)
	client.SetToken("tok")

	registry := NewRegistry(client, nil, nil)
	registry.SetUser(context.Background(), "u1")
	return registry
}

func info(key, name string, modified string) api.DocumentInfo {
	return api.DocumentInfo{
		ID: key, S3Key: key, Name: name, Size: 10,
		SizeReadable: "10 B", SourceURI: "s3://bucket/" + key, LastModified: modified,
	}
}

func TestRegistryRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the list newest first", func(t *testing.T) {
		handler := &docsHandler{}
		handler.set(info("k1", "old.pdf", "2026-01-01"), info("k2", "new.pdf", "2026-02-01"))
		registry := newTestRegistry(t, handler)

		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		docs := registry.Documents()
		if len(docs) != 2 {
			t.Fatalf("Documents() returned %d, want 2", len(docs))
		}
		if docs[0].Name != "new.pdf" || docs[1].Name != "old.pdf" {
			t.Errorf("unexpected order: %q, %q", docs[0].Name, docs[1].Name)
		}
		if docs[0].Status != StatusCompleted {
			t.Errorf("Status = %q, want completed", docs[0].Status)
		}
	})

	t.Run("local identifiers stay stable across refreshes", func(t *testing.T) {
		handler := &docsHandler{}
		handler.set(info("k1", "report.pdf", "2026-01-01"))
		registry := newTestRegistry(t, handler)

		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		first := registry.Documents()[0].ID

		handler.set(info("k1", "report.pdf", "2026-01-01"), info("k2", "other.pdf", "2026-02-01"))
		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("second Refresh() error = %v", err)
		}

		for _, doc := range registry.Documents() {
			if doc.RemoteKey == "k1" && doc.ID != first {
				t.Errorf("ID changed across refresh: %q -> %q", first, doc.ID)
			}
		}
	})

	t.Run("pending placeholders survive a refresh", func(t *testing.T) {
		handler := &docsHandler{}
		handler.set(info("k1", "report.pdf", "2026-01-01"))
		registry := newTestRegistry(t, handler)

		registry.AddPlaceholder(&Document{ID: "local-1", Name: "inflight.pdf", Status: StatusUploading})

		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		docs := registry.Documents()
		if len(docs) != 2 {
			t.Fatalf("Documents() returned %d, want placeholder plus remote", len(docs))
		}
		if docs[0].ID != "local-1" || docs[0].Status != StatusUploading {
			t.Errorf("placeholder not at head: %+v", docs[0])
		}
	})

	t.Run("acknowledged placeholders merge with the server entry", func(t *testing.T) {
		handler := &docsHandler{}
		registry := newTestRegistry(t, handler)

		registry.AddPlaceholder(&Document{ID: "local-1", Name: "done.pdf", Status: StatusProcessing, RemoteKey: "k9"})
		handler.set(info("k9", "done.pdf", "2026-03-01"))

		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		docs := registry.Documents()
		if len(docs) != 1 {
			t.Fatalf("Documents() returned %d, want merged single entry", len(docs))
		}
		if docs[0].ID != "local-1" {
			t.Errorf("ID = %q, want placeholder identity kept", docs[0].ID)
		}
		if docs[0].Status != StatusCompleted {
			t.Errorf("Status = %q, want completed", docs[0].Status)
		}
	})

	t.Run("dangling scope resets to all", func(t *testing.T) {
		handler := &docsHandler{}
		handler.set(info("k1", "report.pdf", "2026-01-01"))
		registry := newTestRegistry(t, handler)

		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		registry.Select("k1")
		if registry.SelectedScope() != "k1" {
			t.Fatalf("SelectedScope() = %q", registry.SelectedScope())
		}

		handler.set()
		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if registry.SelectedScope() != ScopeAll {
			t.Errorf("SelectedScope() = %q, want %q", registry.SelectedScope(), ScopeAll)
		}
	})
}

func TestRegistrySelect(t *testing.T) {
	ctx := context.Background()
	handler := &docsHandler{}
	handler.set(info("k1", "report.pdf", "2026-01-01"))
	registry := newTestRegistry(t, handler)
	if err := registry.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	t.Run("selects an existing document", func(t *testing.T) {
		registry.Select("k1")
		if registry.SelectedScope() != "k1" {
			t.Errorf("SelectedScope() = %q, want %q", registry.SelectedScope(), "k1")
		}
	})

	t.Run("unknown reference falls back to all", func(t *testing.T) {
		registry.Select("missing")
		if registry.SelectedScope() != ScopeAll {
			t.Errorf("SelectedScope() = %q, want %q", registry.SelectedScope(), ScopeAll)
		}
	})
}

func TestRegistryRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the entry and resets scope", func(t *testing.T) {
		handler := &docsHandler{}
		handler.set(info("k1", "report.pdf", "2026-01-01"))
		registry := newTestRegistry(t, handler)
		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		registry.Select("k1")

		if err := registry.Remove(ctx, "k1"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if len(registry.Documents()) != 0 {
			t.Errorf("Documents() = %d entries, want 0", len(registry.Documents()))
		}
		if registry.SelectedScope() != ScopeAll {
			t.Errorf("SelectedScope() = %q, want %q", registry.SelectedScope(), ScopeAll)
		}
	})

	t.Run("failure restores the previous status", func(t *testing.T) {
		handler := &docsHandler{deleteFail: true}
		handler.set(info("k1", "report.pdf", "2026-01-01"))
		registry := newTestRegistry(t, handler)
		if err := registry.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}

		if err := registry.Remove(ctx, "k1"); err == nil {
			t.Fatal("expected error from failed delete")
		}

		docs := registry.Documents()
		if len(docs) != 1 {
			t.Fatalf("entry vanished after failed delete")
		}
		if docs[0].Status != StatusCompleted {
			t.Errorf("Status = %q, want completed restored", docs[0].Status)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		registry := newTestRegistry(t, &docsHandler{})
		if err := registry.Remove(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Remove() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("errored placeholder is dropped without a server call", func(t *testing.T) {
		// The failing delete endpoint proves nothing goes on the wire.
		handler := &docsHandler{deleteFail: true}
		registry := newTestRegistry(t, handler)
		registry.AddPlaceholder(&Document{ID: "local-1", Name: "failed.pdf", Status: StatusError})

		if err := registry.Remove(ctx, "local-1"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if len(registry.Documents()) != 0 {
			t.Errorf("Documents() = %d entries, want 0", len(registry.Documents()))
		}
	})
}

func TestRegistryReset(t *testing.T) {
	ctx := context.Background()

	handler := &docsHandler{}
	handler.set(info("k1", "report.pdf", "2026-01-01"))
	server := httptest.NewServer(handler)
	defer server.Close()

	client := api.New(server.URL)
	client.SetToken("tok")

	cache := newTestCache(t)
	registry := NewRegistry(client, cache, nil)
	registry.SetUser(ctx, "u1")

	if err := registry.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	cached, err := cache.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("cache holds %d entries before reset, want 1", len(cached))
	}

	registry.Reset(ctx)

	if len(registry.Documents()) != 0 {
		t.Errorf("Documents() = %d entries after reset, want 0", len(registry.Documents()))
	}
	cached, err = cache.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cached) != 0 {
		t.Errorf("cache holds %d entries after reset, want 0", len(cached))
	}
}

func TestResolveName(t *testing.T) {
	ctx := context.Background()
	handler := &docsHandler{}
	handler.set(api.DocumentInfo{
		ID: "k1", S3Key: "k1", Name: "report.pdf", Size: 10,
		SizeReadable: "10 B", SourceURI: "s3://bucket/uploads/k1",
	})
	registry := newTestRegistry(t, handler)
	if err := registry.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	localID := registry.Documents()[0].ID

	cases := []struct {
		name string
		ref  string
		want string
	}{
		{"by remote key", "k1", "report.pdf"},
		{"by local id", localID, "report.pdf"},
		{"by uri suffix", "uploads/k1", "report.pdf"},
		{"scope all is empty", ScopeAll, ""},
		{"unknown is empty", "nope", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := registry.ResolveName(tc.ref); got != tc.want {
				t.Errorf("ResolveName(%q) = %q, want %q", tc.ref, got, tc.want)
			}
		})
	}
}

func TestRegistryEvents(t *testing.T) {
	ctx := context.Background()
	hub := pubsub.NewHub()
	defer hub.Shutdown()

	handler := &docsHandler{}
	server := httptest.NewServer(handler)
	defer server.Close()

	client := api.New(server.URL)
	client.SetToken("tok")
	registry := NewRegistry(client, nil, hub)
	registry.SetUser(ctx, "u1")

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	docEvents := hub.Document.Subscribe(subCtx)

	handler.set(info("k1", "report.pdf", "2026-01-01"))
	if err := registry.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	event := <-docEvents
	if event.Payload.Type != events.DocumentEventRefreshed {
		t.Errorf("event type = %q, want refreshed", event.Payload.Type)
	}
	if event.Payload.Count != 1 {
		t.Errorf("Count = %d, want 1", event.Payload.Count)
	}
}

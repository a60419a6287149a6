package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientLogin(t *testing.T) {
	t.Run("decodes auth result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/login" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}

			var req map[string]string
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decoding request: %v", err)
			}
			if req["email"] != "a@b.c" || req["password"] != "secret" {
				t.Errorf("unexpected credentials: %v", req)
			}

			json.NewEncoder(w).Encode(map[string]any{
				"token":     "tok-1",
				"user":      map[string]string{"id": "u1", "name": "Ada", "email": "a@b.c"},
				"expiresAt": 1700000000,
			})
		}))
		defer server.Close()

		client := New(server.URL)
		result, err := client.Login(context.Background(), "a@b.c", "secret")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if result.Token != "tok-1" || result.User.ID != "u1" || result.ExpiresAt != 1700000000 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("extracts server error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid email or password"}`))
		}))
		defer server.Close()

		client := New(server.URL)
		_, err := client.Login(context.Background(), "a@b.c", "wrong")
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error %T is not a *StatusError", err)
		}
		if statusErr.Message != "Invalid email or password" {
			t.Errorf("Message = %q", statusErr.Message)
		}
	})
}

func TestClientAuthenticatedCalls(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok-2" {
				t.Errorf("Authorization = %q, want %q", got, "Bearer tok-2")
			}
			w.Write([]byte(`{"documents":[]}`))
		}))
		defer server.Close()

		client := New(server.URL)
		client.SetToken("tok-2")
		if _, err := client.Documents(context.Background()); err != nil {
			t.Fatalf("Documents() error = %v", err)
		}
	})

	t.Run("401 maps to ErrUnauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
		}))
		defer server.Close()

		client := New(server.URL)
		client.SetToken("stale")
		_, err := client.Documents(context.Background())
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"File not found"}`))
		}))
		defer server.Close()

		client := New(server.URL)
		client.SetToken("tok")
		err := client.Delete(context.Background(), "key", "name")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestClientChat(t *testing.T) {
	t.Run("sends history and scope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Message            string        `json:"message"`
				ChatHistory        []ChatMessage `json:"chatHistory"`
				TargetDocumentID   string        `json:"targetDocumentId"`
				TargetDocumentName string        `json:"targetDocumentName"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decoding request: %v", err)
			}
			if req.Message != "what is this?" {
				t.Errorf("Message = %q", req.Message)
			}
			if len(req.ChatHistory) != 2 {
				t.Errorf("ChatHistory length = %d, want 2", len(req.ChatHistory))
			}
			if req.TargetDocumentID != "doc-key" || req.TargetDocumentName != "report.pdf" {
				t.Errorf("scope = %q/%q", req.TargetDocumentID, req.TargetDocumentName)
			}

			w.Write([]byte(`{"response":"It is a report."}`))
		}))
		defer server.Close()

		client := New(server.URL)
		client.SetToken("tok")

		history := []ChatMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		}
		result, err := client.Chat(context.Background(), "what is this?", history, "doc-key", "report.pdf")
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Response != "It is a report." {
			t.Errorf("Response = %q", result.Response)
		}
	})

	t.Run("scope fields omitted when empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw map[string]any
			if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
				t.Fatalf("decoding request: %v", err)
			}
			if _, ok := raw["targetDocumentId"]; ok {
				t.Error("targetDocumentId should be omitted")
			}
			w.Write([]byte(`{"response":"ok"}`))
		}))
		defer server.Close()

		client := New(server.URL)
		client.SetToken("tok")
		if _, err := client.Chat(context.Background(), "hi", nil, "", ""); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
	})
}

// Package api implements the HTTP client for the document-QA service.
//
// The client is a thin request/response wrapper: it injects the Bearer
// token on authenticated calls and extracts the service's uniform
// {"error": text} failure body. It performs no retries and no caching;
// higher layers own those decisions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultTimeout = 60 * time.Second

// User is the server-owned user identity.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// AuthResult is the response to login and register.
type AuthResult struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ExpiresAt int64  `json:"expiresAt"` // unix seconds
}

// DocumentInfo is one entry of the server's document listing.
type DocumentInfo struct {
	ID           string `json:"id"`
	S3Key        string `json:"s3Key"`
	Name         string `json:"name"`
	StoredName   string `json:"storedName,omitempty"`
	Size         int64  `json:"size"`
	SizeReadable string `json:"sizeReadable"`
	SourceURI    string `json:"sourceUri"`
	LastModified string `json:"lastModified,omitempty"`
}

// UploadResult is the response to a successful upload.
type UploadResult struct {
	FileID       string `json:"fileId"`
	FileName     string `json:"fileName"`
	SourceURI    string `json:"sourceUri"`
	KendraSyncID string `json:"kendraSyncId,omitempty"`
}

// ChatMessage is one turn of prior conversation history on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult is the assistant's reply.
type ChatResult struct {
	Response string `json:"response"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type uploadRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"` // base64
	FileType    string `json:"fileType"`
}

type deleteRequest struct {
	FileKey  string `json:"fileKey"`
	FileName string `json:"fileName,omitempty"`
}

type chatRequest struct {
	Message            string        `json:"message"`
	ChatHistory        []ChatMessage `json:"chatHistory"`
	TargetDocumentID   string        `json:"targetDocumentId,omitempty"`
	TargetDocumentName string        `json:"targetDocumentName,omitempty"`
}

type documentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

// Client talks to the remote document-QA service.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken sets the Bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the Bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the current Bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &result, false)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/register", registerRequest{Name: name, Email: email, Password: password}, &result, false)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Documents fetches the full authoritative document list.
func (c *Client) Documents(ctx context.Context) ([]DocumentInfo, error) {
	var result documentsResponse
	if err := c.do(ctx, http.MethodGet, "/documents", nil, &result, true); err != nil {
		return nil, err
	}
	return result.Documents, nil
}

// Upload submits a file as base64-encoded content.
func (c *Client) Upload(ctx context.Context, fileName, contentBase64, fileType string) (*UploadResult, error) {
	var result UploadResult
	req := uploadRequest{FileName: fileName, FileContent: contentBase64, FileType: fileType}
	if err := c.do(ctx, http.MethodPost, "/upload", req, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a document by its remote key.
func (c *Client) Delete(ctx context.Context, fileKey, fileName string) error {
	return c.do(ctx, http.MethodPost, "/delete", deleteRequest{FileKey: fileKey, FileName: fileName}, nil, true)
}

// Chat sends a message with the full prior history and optional document scope.
func (c *Client) Chat(ctx context.Context, message string, history []ChatMessage, targetDocID, targetDocName string) (*ChatResult, error) {
	var result ChatResult
	req := chatRequest{
		Message:            message,
		ChatHistory:        history,
		TargetDocumentID:   targetDocID,
		TargetDocumentName: targetDocName,
	}
	if err := c.do(ctx, http.MethodPost, "/chat", req, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// do issues one request and decodes the response. Authenticated calls carry
// the Bearer token; non-2xx responses become a *StatusError with the
// server's extracted message.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.Token())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: extractError(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

// extractError pulls the message from the service's uniform error body.
func extractError(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error
}

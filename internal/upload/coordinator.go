// Package upload validates files and drives them through the upload
// lifecycle: local placeholder, server submission, and a registry refresh
// on either outcome.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docchat/internal/api"
	"docchat/internal/debug"
	"docchat/internal/document"
	"docchat/internal/events"
	"docchat/internal/pubsub"
)

// MaxFileSize is the largest accepted file, in bytes. Files exactly this
// size are accepted.
const MaxFileSize = 5 * 1024 * 1024

// Validation errors.
var (
	ErrInvalidType = errors.New("unsupported file type")
	ErrTooLarge    = errors.New("file exceeds the 5 MB limit")
	ErrEmptyFile   = errors.New("file is empty")
)

// allowedTypes maps file extensions to the MIME type sent on the wire.
// Only these three types are accepted; everything else is rejected before
// any bytes leave the machine.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Coordinator validates and uploads files on behalf of the document
// registry.
type Coordinator struct {
	client   *api.Client
	registry *document.Registry
	hub      *pubsub.Hub
}

// NewCoordinator creates a coordinator over the given collaborators.
func NewCoordinator(client *api.Client, registry *document.Registry, hub *pubsub.Hub) *Coordinator {
	return &Coordinator{
		client:   client,
		registry: registry,
		hub:      hub,
	}
}

// Validate checks a candidate file's type and size without reading it.
// It returns the MIME type to send on success. Extension matching is
// case-insensitive.
func Validate(name string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mime, ok := allowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidType, ext)
	}
	if size <= 0 {
		return "", ErrEmptyFile
	}
	if size > MaxFileSize {
		return "", fmt.Errorf("%w: %s", ErrTooLarge, document.FormatSize(size))
	}
	return mime, nil
}

// UploadFile reads the file at path and uploads it. See Upload.
func (c *Coordinator) UploadFile(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", path, err)
	}

	name := filepath.Base(path)
	mime, err := Validate(name, info.Size())
	if err != nil {
		c.notify(events.NoticeError, fmt.Sprintf("Cannot upload %s: %v", name, err))
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return c.Upload(ctx, name, mime, content)
}

// Upload submits validated content to the server. A placeholder appears
// in the registry immediately and transitions to completed or error; a
// refresh follows either outcome so the list converges with the server.
func (c *Coordinator) Upload(ctx context.Context, name, mime string, content []byte) error {
	userID := c.registry.UserID()
	placeholder := &document.Document{
		ID:           uuid.New().String(),
		Name:         name,
		Size:         int64(len(content)),
		SizeReadable: document.FormatSize(int64(len(content))),
		Status:       document.StatusUploading,
	}
	c.registry.AddPlaceholder(placeholder)
	c.publish(events.NewUploadStartedEvent(userID, placeholder.ID, name))
	debug.Event("upload", "started", fmt.Sprintf("name=%s size=%d", name, len(content)))

	encoded := base64.StdEncoding.EncodeToString(content)
	result, err := c.client.Upload(ctx, name, encoded, mime)
	if err != nil {
		c.registry.UpdatePlaceholder(placeholder.ID, func(d *document.Document) {
			d.Status = document.StatusError
		})
		c.publish(events.NewUploadFailedEvent(userID, placeholder.ID, name, err))
		c.notify(events.NoticeError, fmt.Sprintf("Upload of %s failed: %v", name, err))
		debug.Error("upload", err, "uploading "+name)

		c.refresh(ctx)
		return fmt.Errorf("uploading %s: %w", name, err)
	}

	c.registry.UpdatePlaceholder(placeholder.ID, func(d *document.Document) {
		d.Status = document.StatusProcessing
		d.RemoteKey = result.FileID
		d.SourceURI = result.SourceURI
	})
	c.publish(events.NewUploadFinishedEvent(userID, placeholder.ID, result.FileID, name))
	c.notify(events.NoticeSuccess, fmt.Sprintf("Uploaded %s", name))
	debug.Event("upload", "finished", fmt.Sprintf("name=%s fileId=%s", name, result.FileID))

	c.refresh(ctx)
	return nil
}

// refresh reconciles the list after a terminal upload outcome. A refresh
// failure here is logged, not surfaced: the placeholder already tells the
// user what happened.
func (c *Coordinator) refresh(ctx context.Context) {
	if err := c.registry.Refresh(ctx); err != nil {
		debug.Error("upload", err, "refreshing after upload")
	}
}

func (c *Coordinator) publish(ev events.DocumentEvent) {
	if c.hub != nil {
		c.hub.Document.Publish(pubsub.EventUpdated, ev)
	}
}

func (c *Coordinator) notify(level events.NoticeLevel, msg string) {
	if c.hub != nil {
		c.hub.Notice.Publish(pubsub.EventCreated, events.NewNotice(level, msg))
	}
}

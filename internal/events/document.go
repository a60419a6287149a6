package events

import "time"

// DocumentEventType represents document-specific event types.
type DocumentEventType string

// Document event type constants.
const (
	DocumentEventRefreshed      DocumentEventType = "refreshed"
	DocumentEventScopeChanged   DocumentEventType = "scope_changed"
	DocumentEventUploadStarted  DocumentEventType = "upload_started"
	DocumentEventUploadFinished DocumentEventType = "upload_finished"
	DocumentEventUploadFailed   DocumentEventType = "upload_failed"
	DocumentEventDeleted        DocumentEventType = "deleted"
	DocumentEventDeleteFailed   DocumentEventType = "delete_failed"
)

// DocumentEvent represents a document registry change.
type DocumentEvent struct {
	Type      DocumentEventType
	UserID    string
	Timestamp time.Time

	// Optional fields
	DocumentID string // local identifier of the affected document
	RemoteKey  string // server-assigned key, when known
	Name       string
	Scope      string // for ScopeChanged
	Count      int    // for Refreshed
	Err        error  // for the failed variants
}

// NewDocumentsRefreshedEvent creates a refreshed event.
func NewDocumentsRefreshedEvent(userID string, count int) DocumentEvent {
	return DocumentEvent{
		Type:      DocumentEventRefreshed,
		UserID:    userID,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// NewScopeChangedEvent creates a scope changed event.
func NewScopeChangedEvent(userID, scope string) DocumentEvent {
	return DocumentEvent{
		Type:      DocumentEventScopeChanged,
		UserID:    userID,
		Scope:     scope,
		Timestamp: time.Now(),
	}
}

// NewUploadStartedEvent creates an upload started event.
func NewUploadStartedEvent(userID, documentID, name string) DocumentEvent {
	return DocumentEvent{
		Type:       DocumentEventUploadStarted,
		UserID:     userID,
		DocumentID: documentID,
		Name:       name,
		Timestamp:  time.Now(),
	}
}

// NewUploadFinishedEvent creates an upload finished event.
func NewUploadFinishedEvent(userID, documentID, remoteKey, name string) DocumentEvent {
	return DocumentEvent{
		Type:       DocumentEventUploadFinished,
		UserID:     userID,
		DocumentID: documentID,
		RemoteKey:  remoteKey,
		Name:       name,
		Timestamp:  time.Now(),
	}
}

// NewUploadFailedEvent creates an upload failed event.
func NewUploadFailedEvent(userID, documentID, name string, err error) DocumentEvent {
	return DocumentEvent{
		Type:       DocumentEventUploadFailed,
		UserID:     userID,
		DocumentID: documentID,
		Name:       name,
		Err:        err,
		Timestamp:  time.Now(),
	}
}

// NewDocumentDeletedEvent creates a deleted event.
func NewDocumentDeletedEvent(userID, remoteKey, name string) DocumentEvent {
	return DocumentEvent{
		Type:      DocumentEventDeleted,
		UserID:    userID,
		RemoteKey: remoteKey,
		Name:      name,
		Timestamp: time.Now(),
	}
}

// NewDeleteFailedEvent creates a delete failed event.
func NewDeleteFailedEvent(userID, remoteKey, name string, err error) DocumentEvent {
	return DocumentEvent{
		Type:      DocumentEventDeleteFailed,
		UserID:    userID,
		RemoteKey: remoteKey,
		Name:      name,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Package document maintains the client's mirror of the server's document
// list, the per-document lifecycle status, and the selected chat scope.
package document

import "fmt"

// Status is a document's lifecycle state as seen by this client.
type Status string

// Status constants.
const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
	StatusDeleting   Status = "deleting"
)

// ScopeAll is the sentinel scope meaning "answer against all documents".
const ScopeAll = "all"

// Document is one entry of the registry. RemoteKey is empty until the
// server acknowledges the upload; once set it is the canonical identity
// used in delete and selection calls.
type Document struct {
	ID           string // local identifier, stable across refreshes
	Name         string
	Size         int64
	SizeReadable string
	Status       Status
	RemoteKey    string
	SourceURI    string
	LastModified string
}

// Remote reports whether the server has acknowledged this document.
func (d *Document) Remote() bool {
	return d.RemoteKey != ""
}

// FormatSize renders a byte count the way the service does (B/KB/MB/GB).
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	const unit = 1024
	sizes := []string{"B", "KB", "MB", "GB"}

	value := float64(bytes)
	i := 0
	for value >= unit && i < len(sizes)-1 {
		value /= unit
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.2f %s", value, sizes[i])
}

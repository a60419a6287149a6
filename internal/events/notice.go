package events

import "time"

// NoticeLevel classifies a user-visible notice.
type NoticeLevel string

// Notice level constants.
const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// NoticeEvent is a one-line user-visible notice. The presentation layer
// decides how to display it; the core only says what happened.
type NoticeEvent struct {
	Level     NoticeLevel
	Message   string
	Timestamp time.Time
}

// NewNotice creates a notice event.
func NewNotice(level NoticeLevel, message string) NoticeEvent {
	return NoticeEvent{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

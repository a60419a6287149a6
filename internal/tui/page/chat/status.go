package chat

import (
	"charm.land/lipgloss/v2"

	"docchat/internal/tui/styles"
)

// Status represents the current chat status.
type Status int

// Status constants.
const (
	StatusReady Status = iota
	StatusThinking
	StatusUploading
	StatusError
	StatusNotice
)

// StatusBar displays the current chat status, the selected document scope,
// and key hints.
type StatusBar struct {
	status    Status
	scopeName string
	message   string
	width     int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		status: StatusReady,
	}
}

// SetStatus sets the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.status = status
	if status == StatusReady {
		s.message = ""
	}
}

// SetScopeName sets the display name of the selected document scope.
// Empty means all documents.
func (s *StatusBar) SetScopeName(name string) {
	s.scopeName = name
}

// SetError sets an error message.
func (s *StatusBar) SetError(msg string) {
	s.status = StatusError
	s.message = msg
}

// SetNotice sets a transient informational message.
func (s *StatusBar) SetNotice(msg string) {
	s.status = StatusNotice
	s.message = msg
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var statusText string
	var statusStyle lipgloss.Style

	switch s.status {
	case StatusReady:
		statusText = "Ready"
		statusStyle = t.S().Success
	case StatusThinking:
		statusText = "Thinking..."
		statusStyle = t.S().Info
	case StatusUploading:
		statusText = "Uploading..."
		statusStyle = t.S().Warning
	case StatusError:
		statusText = "Error: " + s.message
		statusStyle = t.S().Error
	case StatusNotice:
		statusText = s.message
		statusStyle = t.S().Info
	}

	scope := "All documents"
	if s.scopeName != "" {
		scope = "Doc: " + s.scopeName
	}

	barStyle := lipgloss.NewStyle().
		Width(s.width).
		Padding(0, 1).
		Background(t.BgSubtle)

	left := statusStyle.Render(statusText)
	right := t.S().Muted.Render(scope + "  Enter send • Tab panels • Ctrl+C quit")

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return barStyle.Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}

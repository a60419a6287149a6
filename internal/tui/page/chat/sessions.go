package chat

import (
	"fmt"

	"docchat/internal/chat"
	"docchat/internal/tui/styles"
)

// SessionPanel lists saved conversations for switching and deletion.
type SessionPanel struct {
	sessions  []*chat.Session
	currentID string
	cursor    int
	panel     borderedPanel
}

// NewSessionPanel creates a new session panel.
func NewSessionPanel() *SessionPanel {
	return &SessionPanel{}
}

// SetSessions replaces the listed sessions.
func (p *SessionPanel) SetSessions(sessions []*chat.Session) {
	p.sessions = sessions
	if p.cursor >= len(sessions) && len(sessions) > 0 {
		p.cursor = len(sessions) - 1
	}
}

// SetCurrentID marks the active session.
func (p *SessionPanel) SetCurrentID(id string) {
	p.currentID = id
}

// SetSize sets the panel dimensions.
func (p *SessionPanel) SetSize(width, height int) {
	p.panel.width = width
	p.panel.height = height
}

// SetFocused sets whether the panel has focus.
func (p *SessionPanel) SetFocused(focused bool) {
	p.panel.focused = focused
}

// MoveUp moves the cursor up.
func (p *SessionPanel) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the cursor down.
func (p *SessionPanel) MoveDown() {
	if p.cursor < len(p.sessions)-1 {
		p.cursor++
	}
}

// CursorSession returns the session under the cursor.
func (p *SessionPanel) CursorSession() *chat.Session {
	if p.cursor < 0 || p.cursor >= len(p.sessions) {
		return nil
	}
	return p.sessions[p.cursor]
}

// View renders the panel.
func (p *SessionPanel) View() string {
	t := styles.CurrentTheme()
	p.panel.title = fmt.Sprintf("Chats (%d)", len(p.sessions))

	contentWidth := p.panel.width - 6

	if len(p.sessions) == 0 {
		p.panel.content = t.S().Muted.Render("  No saved chats")
		return p.panel.view()
	}

	content := ""
	for i, session := range p.sessions {
		prefix := "  "
		style := t.S().Text
		if i == p.cursor && p.panel.focused {
			prefix = styles.Selected + " "
			style = t.S().Primary
		} else if session.ID == p.currentID {
			style = t.S().Success
		}

		label := truncate(session.Title, contentWidth-2)

		if i > 0 {
			content += "\n"
		}
		content += style.Render(prefix + label)
	}

	p.panel.content = content
	return p.panel.view()
}

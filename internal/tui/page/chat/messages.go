package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"docchat/internal/chat"
	"docchat/internal/tui/styles"
)

// MessageList displays the conversation transcript.
type MessageList struct {
	messages []*chat.Message
	markdown *MarkdownRenderer
	typing   bool
	width    int
	height   int
	offset   int // lines scrolled up from the bottom
}

// NewMessageList creates a new message list component.
func NewMessageList() *MessageList {
	return &MessageList{
		markdown: NewMarkdownRenderer(),
	}
}

// SetMessages replaces the transcript and scrolls to the bottom.
func (m *MessageList) SetMessages(messages []*chat.Message) {
	m.messages = messages
	m.offset = 0
}

// AppendMessage adds a message and scrolls to the bottom.
func (m *MessageList) AppendMessage(msg *chat.Message) {
	m.messages = append(m.messages, msg)
	m.offset = 0
}

// SetTyping toggles the assistant typing indicator.
func (m *MessageList) SetTyping(typing bool) {
	m.typing = typing
	if typing {
		m.offset = 0
	}
}

// LastAssistantText returns the content of the most recent assistant turn.
func (m *MessageList) LastAssistantText() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == chat.RoleAssistant {
			return m.messages[i].Content
		}
	}
	return ""
}

// SetSize sets the component size.
func (m *MessageList) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ScrollUp scrolls the transcript up one line.
func (m *MessageList) ScrollUp() {
	m.offset++
}

// ScrollDown scrolls the transcript down one line.
func (m *MessageList) ScrollDown() {
	if m.offset > 0 {
		m.offset--
	}
}

// ScrollToBottom snaps to the newest message.
func (m *MessageList) ScrollToBottom() {
	m.offset = 0
}

// View renders the visible window of the transcript.
func (m *MessageList) View() string {
	t := styles.CurrentTheme()

	if len(m.messages) == 0 && !m.typing {
		empty := t.S().Muted.Render("No messages yet. Ask a question about your documents.")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}

	var rendered []string
	for _, msg := range m.messages {
		rendered = append(rendered, m.renderMessage(msg))
	}
	if m.typing {
		rendered = append(rendered, t.S().Muted.Render("Assistant is typing..."))
	}

	lines := strings.Split(strings.Join(rendered, "\n\n"), "\n")

	// Clamp the scroll offset and take the visible window from the bottom.
	maxOffset := len(lines) - m.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	end := len(lines) - m.offset
	start := end - m.height
	if start < 0 {
		start = 0
	}
	visible := lines[start:end]

	containerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1)

	return containerStyle.Render(strings.Join(visible, "\n"))
}

func (m *MessageList) renderMessage(msg *chat.Message) string {
	t := styles.CurrentTheme()
	contentWidth := m.width - 4

	switch msg.Role {
	case chat.RoleUser:
		header := t.S().Text.Bold(true).Render("You")
		content := t.S().Text.Width(contentWidth).Render(msg.Content)
		return lipgloss.JoinVertical(lipgloss.Left, header, content)

	case chat.RoleAssistant:
		header := t.S().Primary.Bold(true).Render("Assistant")
		content, err := m.markdown.Render(msg.Content, contentWidth)
		if err != nil {
			content = t.S().Text.Width(contentWidth).Render(msg.Content)
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, strings.TrimRight(content, "\n"))

	default:
		return t.S().Muted.Render(msg.Content)
	}
}

// Package chat provides the conversation page: transcript, input, and the
// documents and chats sidebars.
package chat

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"docchat/internal/api"
	authsvc "docchat/internal/auth"
	chatsvc "docchat/internal/chat"
	"docchat/internal/bridge"
	"docchat/internal/debug"
	"docchat/internal/document"
	"docchat/internal/events"
	"docchat/internal/pubsub"
	"docchat/internal/tui/util"
	"docchat/internal/upload"
)

// sidebarWidth is the fixed width of the right-hand panels.
const sidebarWidth = 34

// focusTarget identifies which component receives navigation keys.
type focusTarget int

const (
	focusInput focusTarget = iota
	focusDocuments
	focusSessions
)

// Async result messages.
type (
	sendDoneMsg    struct{ err error }
	uploadDoneMsg  struct{ err error }
	refreshDoneMsg struct{ err error }
	deleteDoneMsg  struct{ err error }
	switchDoneMsg  struct{ err error }

	sessionsLoadedMsg struct {
		sessions []*chatsvc.Session
		err      error
	}

	answerCopiedMsg struct{ err error }
)

// Model is the chat page model.
type Model struct {
	manager     *chatsvc.Manager
	registry    *document.Registry
	coordinator *upload.Coordinator
	auth        *authsvc.Service

	messages        *MessageList
	input           *Input
	status          *StatusBar
	docPanel        *DocumentPanel
	sessionPanel    *SessionPanel
	commandRegistry *CommandRegistry

	focus   focusTarget
	sending bool
	width   int
	height  int
}

// New creates the chat page.
func New(manager *chatsvc.Manager, registry *document.Registry, coordinator *upload.Coordinator, auth *authsvc.Service) *Model {
	return &Model{
		manager:      manager,
		registry:     registry,
		coordinator:  coordinator,
		auth:         auth,
		messages:     NewMessageList(),
		input:        NewInput(),
		status:       NewStatusBar(),
		docPanel:     NewDocumentPanel(),
		sessionPanel: NewSessionPanel(),
	}
}

// Init initializes the page from current service state.
func (m *Model) Init() tea.Cmd {
	m.syncTranscript()
	m.syncDocuments()
	return tea.Batch(m.input.Init(), m.loadSessions())
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		if msg.Button == tea.MouseWheelUp {
			m.messages.ScrollUp()
		} else if msg.Button == tea.MouseWheelDown {
			m.messages.ScrollDown()
		}
		return m, nil

	case sendDoneMsg:
		m.sending = false
		m.input.Enable()
		if msg.err != nil && !errors.Is(msg.err, chatsvc.ErrEmptyMessage) {
			m.status.SetError(errorText(msg.err))
		} else {
			m.status.SetStatus(StatusReady)
		}
		return m, tea.Batch(m.input.Focus(), m.loadSessions())

	case uploadDoneMsg:
		if msg.err != nil {
			m.status.SetError(errorText(msg.err))
		} else {
			m.status.SetStatus(StatusReady)
		}
		m.syncDocuments()
		return m, nil

	case refreshDoneMsg, deleteDoneMsg:
		m.syncDocuments()
		return m, nil

	case switchDoneMsg:
		if msg.err != nil {
			m.status.SetError(errorText(msg.err))
		}
		return m, nil

	case sessionsLoadedMsg:
		if msg.err != nil {
			debug.Error("chat_page", msg.err, "loading sessions")
			return m, nil
		}
		m.sessionPanel.SetSessions(msg.sessions)
		if current := m.manager.Current(); current != nil {
			m.sessionPanel.SetCurrentID(current.ID)
		} else {
			m.sessionPanel.SetCurrentID("")
		}
		return m, nil

	case answerCopiedMsg:
		if msg.err != nil {
			m.status.SetError(errorText(msg.err))
		} else {
			m.status.SetNotice("Answer copied to clipboard")
		}
		return m, nil

	case NewSessionMsg:
		m.manager.NewSession()
		return m, m.loadSessions()

	case UploadRequestMsg:
		if msg.Path == "" {
			m.status.SetError("usage: /upload <path>")
			return m, nil
		}
		m.status.SetStatus(StatusUploading)
		return m, m.uploadCmd(msg.Path)

	case RefreshRequestMsg:
		return m, m.refreshCmd()

	case RenameRequestMsg:
		current := m.manager.Current()
		if current == nil {
			m.status.SetError("no chat to rename")
			return m, nil
		}
		if msg.Title == "" {
			m.status.SetError("usage: /rename <title>")
			return m, nil
		}
		return m, m.renameCmd(current.ID, msg.Title)

	case CopyAnswerMsg:
		return m, m.copyAnswerCmd()

	case UnknownCommandMsg:
		m.status.SetError(fmt.Sprintf("unknown command: /%s", msg.Command))
		return m, nil

	case bridge.ChatEventMsg:
		return m.handleChatEvent(msg.Event)

	case bridge.DocumentEventMsg:
		return m.handleDocumentEvent(msg.Event)

	case bridge.NoticeEventMsg:
		return m.handleNotice(msg.Event.Payload)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	case "ctrl+y":
		return m, m.copyAnswerCmd()
	case "pgup":
		m.messages.ScrollUp()
		return m, nil
	case "pgdown":
		m.messages.ScrollDown()
		return m, nil
	}

	switch m.focus {
	case focusDocuments:
		return m.handleDocumentsKey(msg)
	case focusSessions:
		return m.handleSessionsKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if m.sending {
			return m, nil
		}
		value := m.input.Value()
		if value == "" {
			return m, nil
		}
		m.input.Clear()

		if cmd := m.parseCommand(value); cmd != nil {
			return m, cmd
		}

		m.sending = true
		m.input.Disable()
		m.status.SetStatus(StatusThinking)
		return m, m.sendCmd(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDocumentsKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	if m.docPanel.ConfirmingDelete() {
		switch msg.String() {
		case "y":
			doc := m.docPanel.CursorDocument()
			m.docPanel.CancelDelete()
			if doc != nil {
				return m, m.deleteCmd(doc.ID)
			}
		default:
			m.docPanel.CancelDelete()
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.docPanel.MoveUp()
	case "down", "j":
		m.docPanel.MoveDown()
	case "enter":
		if scope, ok := m.docPanel.CursorScope(); ok {
			m.registry.Select(scope)
		}
	case "d", "delete":
		m.docPanel.RequestDelete()
	case "r":
		return m, m.refreshCmd()
	case "esc":
		m.setFocus(focusInput)
	}
	return m, nil
}

func (m *Model) handleSessionsKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.sessionPanel.MoveUp()
	case "down", "j":
		m.sessionPanel.MoveDown()
	case "enter":
		if session := m.sessionPanel.CursorSession(); session != nil {
			return m, m.switchCmd(session.ID)
		}
	case "n":
		m.manager.NewSession()
		return m, m.loadSessions()
	case "d", "delete":
		if session := m.sessionPanel.CursorSession(); session != nil {
			return m, m.deleteSessionCmd(session.ID)
		}
	case "esc":
		m.setFocus(focusInput)
	}
	return m, nil
}

func (m *Model) cycleFocus(dir int) {
	targets := []focusTarget{focusInput, focusDocuments, focusSessions}
	idx := int(m.focus)
	idx = (idx + dir + len(targets)) % len(targets)
	m.setFocus(targets[idx])
}

func (m *Model) setFocus(target focusTarget) {
	m.focus = target
	m.docPanel.SetFocused(target == focusDocuments)
	m.sessionPanel.SetFocused(target == focusSessions)
	if target == focusInput && !m.sending {
		m.input.Enable()
	} else {
		m.input.Blur()
	}
}

// Commands

func (m *Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := m.manager.Send(context.Background(), text)
		m.checkUnauthorized(err)
		return sendDoneMsg{err: err}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		err := m.coordinator.UploadFile(context.Background(), path)
		m.checkUnauthorized(err)
		return uploadDoneMsg{err: err}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.registry.Refresh(context.Background())
		m.checkUnauthorized(err)
		return refreshDoneMsg{err: err}
	}
}

func (m *Model) deleteCmd(docID string) tea.Cmd {
	return func() tea.Msg {
		err := m.registry.Remove(context.Background(), docID)
		m.checkUnauthorized(err)
		return deleteDoneMsg{err: err}
	}
}

func (m *Model) switchCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		return switchDoneMsg{err: m.manager.SwitchSession(context.Background(), sessionID)}
	}
}

func (m *Model) renameCmd(sessionID, title string) tea.Cmd {
	return func() tea.Msg {
		return switchDoneMsg{err: m.manager.RenameSession(context.Background(), sessionID, title)}
	}
}

func (m *Model) deleteSessionCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.manager.DeleteSession(context.Background(), sessionID); err != nil {
			return switchDoneMsg{err: err}
		}
		return nil
	}
}

func (m *Model) loadSessions() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.manager.Sessions(context.Background())
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

func (m *Model) copyAnswerCmd() tea.Cmd {
	text := m.messages.LastAssistantText()
	if text == "" {
		m.status.SetNotice("Nothing to copy yet")
		return nil
	}
	return func() tea.Msg {
		return answerCopiedMsg{err: clipboard.WriteAll(text)}
	}
}

// checkUnauthorized tears down the session when the server rejected the
// token. The resulting expiry event routes everyone back to the login page.
func (m *Model) checkUnauthorized(err error) {
	if err != nil && errors.Is(err, api.ErrUnauthorized) {
		m.auth.HandleUnauthorized()
	}
}

// Event handlers

func (m *Model) handleChatEvent(event pubsub.Event[events.ChatEvent]) (util.Model, tea.Cmd) {
	payload := event.Payload

	current := m.manager.Current()
	isCurrent := current != nil && current.ID == payload.SessionID

	switch payload.Type {
	case events.ChatEventMessageAppended:
		if isCurrent {
			m.syncTranscript()
		}

	case events.ChatEventTypingStarted:
		if isCurrent {
			m.messages.SetTyping(true)
		}

	case events.ChatEventTypingStopped:
		m.messages.SetTyping(false)

	case events.ChatEventSessionCreated, events.ChatEventSessionSwitched:
		m.syncTranscript()
		if isCurrent {
			m.sessionPanel.SetCurrentID(payload.SessionID)
		}
		return m, m.loadSessions()

	case events.ChatEventSessionRenamed, events.ChatEventSessionDeleted:
		return m, m.loadSessions()

	case events.ChatEventCleared:
		m.syncTranscript()
		m.sessionPanel.SetCurrentID("")
	}

	return m, nil
}

func (m *Model) handleDocumentEvent(event pubsub.Event[events.DocumentEvent]) (util.Model, tea.Cmd) {
	m.syncDocuments()
	return m, nil
}

func (m *Model) handleNotice(notice events.NoticeEvent) (util.Model, tea.Cmd) {
	switch notice.Level {
	case events.NoticeError:
		m.status.SetError(notice.Message)
	case events.NoticeWarning, events.NoticeInfo, events.NoticeSuccess:
		m.status.SetNotice(notice.Message)
	}
	return m, nil
}

// State sync

func (m *Model) syncTranscript() {
	m.messages.SetMessages(m.manager.History())
}

func (m *Model) syncDocuments() {
	m.docPanel.SetDocuments(m.registry.Documents())
	scope := m.registry.SelectedScope()
	m.docPanel.SetSelectedScope(scope)
	if scope == document.ScopeAll {
		m.status.SetScopeName("")
	} else {
		m.status.SetScopeName(m.registry.ResolveName(scope))
	}
}

// View renders the chat page.
func (m *Model) View() string {
	mainWidth := m.width
	showSidebar := m.width >= sidebarWidth*2
	if showSidebar {
		mainWidth = m.width - sidebarWidth
	}

	statusHeight := 1
	inputHeight := m.input.Height()
	messagesHeight := m.height - statusHeight - inputHeight
	if messagesHeight < 1 {
		messagesHeight = 1
	}

	m.messages.SetSize(mainWidth, messagesHeight)
	m.input.SetWidth(mainWidth)
	m.status.SetWidth(m.width)

	main := lipgloss.JoinVertical(
		lipgloss.Left,
		m.messages.View(),
		m.input.View(),
	)

	var content string
	if showSidebar {
		panelHeight := (m.height - statusHeight) / 2
		m.docPanel.SetSize(sidebarWidth, panelHeight)
		m.sessionPanel.SetSize(sidebarWidth, m.height-statusHeight-panelHeight)

		sidebar := lipgloss.JoinVertical(
			lipgloss.Left,
			m.docPanel.View(),
			m.sessionPanel.View(),
		)
		content = lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)
	} else {
		content = main
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.status.View())
}

// SetSize sets the chat page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Cursor returns the cursor position.
func (m *Model) Cursor() *tea.Cursor {
	if m.focus == focusInput && !m.sending {
		return m.input.Cursor()
	}
	return nil
}

// errorText strips wrapping context so the status bar shows the most
// specific message.
func errorText(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return err.Error()
}

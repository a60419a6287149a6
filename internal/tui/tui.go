// Package tui provides the terminal user interface for docchat.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"docchat/internal/api"
	authsvc "docchat/internal/auth"
	"docchat/internal/bridge"
	chatsvc "docchat/internal/chat"
	"docchat/internal/debug"
	"docchat/internal/document"
	"docchat/internal/events"
	"docchat/internal/pubsub"
	"docchat/internal/tui/page"
	authpage "docchat/internal/tui/page/auth"
	chatpage "docchat/internal/tui/page/chat"
	"docchat/internal/tui/styles"
	"docchat/internal/tui/util"
	"docchat/internal/upload"
)

// Services bundles the collaborators the TUI drives.
type Services struct {
	Auth        *authsvc.Service
	Registry    *document.Registry
	Coordinator *upload.Coordinator
	Chat        *chatsvc.Manager
	Hub         *pubsub.Hub
}

// Model is the main TUI model. It owns page routing; each page owns its
// own state.
type Model struct {
	services Services

	authPage *authpage.Model
	chatPage *chatpage.Model

	currentPage page.ID
	statusMsg   string
	width       int
	height      int
	ready       bool
}

// New creates a new TUI model. When a session was restored before start,
// the chat page is shown directly.
func New(services Services) *Model {
	m := &Model{
		services:    services,
		authPage:    authpage.New(services.Auth),
		currentPage: page.Auth,
	}

	if services.Auth.Authenticated() {
		m.chatPage = m.newChatPage()
		m.currentPage = page.Chat
	}

	return m
}

func (m *Model) newChatPage() *chatpage.Model {
	return chatpage.New(m.services.Chat, m.services.Registry, m.services.Coordinator, m.services.Auth)
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	if m.currentPage == page.Chat && m.chatPage != nil {
		return tea.Batch(m.chatPage.Init(), m.bootstrapCmd())
	}
	return m.authPage.Init()
}

// bootstrapCmd binds the stores to the authenticated user and fetches the
// document list in the background.
func (m *Model) bootstrapCmd() tea.Cmd {
	userID := m.services.Auth.UserID()
	return func() tea.Msg {
		ctx := context.Background()
		m.services.Registry.SetUser(ctx, userID)
		if err := m.services.Chat.SetUser(ctx, userID); err != nil {
			debug.Error("tui", err, "loading chat state")
		}
		if err := m.services.Registry.Refresh(ctx); err != nil {
			debug.Error("tui", err, "initial document refresh")
			// A restored token the server no longer accepts must tear the
			// session down, same as any other authenticated call.
			if errors.Is(err, api.ErrUnauthorized) {
				m.services.Auth.HandleUnauthorized()
			}
		}
		return nil
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateComponentSizes()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case authpage.SuccessMsg:
		debug.Event("tui", "Authenticated", fmt.Sprintf("user=%s", msg.Session.User.ID))
		m.statusMsg = ""
		m.chatPage = m.newChatPage()
		m.chatPage.SetSize(m.width, m.height)
		m.currentPage = page.Chat
		return m, tea.Batch(m.chatPage.Init(), m.bootstrapCmd())

	case chatpage.LogoutMsg:
		m.logout()
		return m, m.authPage.Init()

	case bridge.AuthEventMsg:
		if msg.Event.Payload.Type == events.AuthEventExpired && m.currentPage == page.Chat {
			m.logout()
			m.statusMsg = "Session expired. Please log in again."
			return m, m.authPage.Init()
		}

	case util.InfoMsg:
		if m.currentPage != page.Chat {
			m.statusMsg = msg.Msg
		}
		return m, nil

	case page.ChangeMsg:
		m.currentPage = msg.Page
		return m, nil
	}

	return m, m.routeToPage(msg)
}

// logout tears everything down to the login page. The auth service side is
// already handled when the teardown came from an expiry event.
func (m *Model) logout() {
	m.services.Auth.Logout()
	m.services.Registry.Reset(context.Background())
	m.services.Chat.Reset()
	m.chatPage = nil
	m.authPage = authpage.New(m.services.Auth)
	m.authPage.SetSize(m.width, m.height)
	m.currentPage = page.Auth
}

func (m *Model) routeToPage(msg tea.Msg) tea.Cmd {
	switch m.currentPage {
	case page.Auth:
		_, cmd := m.authPage.Update(msg)
		return cmd
	case page.Chat:
		if m.chatPage == nil {
			return nil
		}
		_, cmd := m.chatPage.Update(msg)
		return cmd
	}
	return nil
}

// View renders the TUI.
func (m *Model) View() tea.View {
	t := styles.CurrentTheme()

	var view tea.View
	view.AltScreen = true

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	var content string
	switch m.currentPage {
	case page.Auth:
		content = m.authPage.View()
	case page.Chat:
		if m.chatPage != nil {
			content = m.chatPage.View()
		}
	default:
		content = "Unknown page"
	}

	// The chat page has its own status bar.
	if m.statusMsg != "" && m.currentPage != page.Chat {
		status := t.S().Info.Render(m.statusMsg)
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", status)
	}

	view.Content = content

	switch m.currentPage {
	case page.Auth:
		view.Cursor = m.authPage.Cursor()
	case page.Chat:
		if m.chatPage != nil {
			view.Cursor = m.chatPage.Cursor()
		}
	}

	return view
}

func (m *Model) updateComponentSizes() {
	if m.authPage != nil {
		m.authPage.SetSize(m.width, m.height)
	}
	if m.chatPage != nil {
		m.chatPage.SetSize(m.width, m.height)
	}
}

// Run starts the TUI program.
func Run(services Services) error {
	// Check if running in a terminal.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("docchat requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	// Initialize theme.
	styles.NewManager()

	model := New(services)
	p := tea.NewProgram(model)

	// Forward pub/sub events to Bubble Tea messages.
	if services.Hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tuiBridge := bridge.NewTUIBridge(services.Hub, p)
		tuiBridge.Start(ctx)
		defer tuiBridge.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// Package auth provides the login and registration page.
package auth

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	authsvc "docchat/internal/auth"
	"docchat/internal/tui/components/logo"
	"docchat/internal/tui/styles"
	"docchat/internal/tui/util"
)

// SuccessMsg is sent when login or registration succeeds.
type SuccessMsg struct {
	Session *authsvc.Session
}

// resultMsg carries the outcome of a submit back onto the UI loop.
type resultMsg struct {
	session *authsvc.Session
	err     error
}

// Mode selects between the login and register forms.
type Mode int

// Form modes.
const (
	ModeLogin Mode = iota
	ModeRegister
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// Model is the auth page model.
type Model struct {
	service *authsvc.Service

	mode       Mode
	name       textinput.Model
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	errMsg     string

	width  int
	height int
}

// New creates the auth page.
func New(service *authsvc.Service) *Model {
	t := styles.CurrentTheme()

	name := textinput.New()
	name.Placeholder = "Your name"
	name.Prompt = "> "
	name.SetStyles(t.S().TextInput)
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "> "
	email.SetStyles(t.S().TextInput)
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "Password"
	password.Prompt = "> "
	password.SetStyles(t.S().TextInput)
	password.EchoMode = textinput.EchoPassword

	m := &Model{
		service:  service,
		mode:     ModeLogin,
		name:     name,
		email:    email,
		password: password,
		focus:    fieldEmail,
	}
	m.email.Focus()
	return m
}

// Init initializes the page.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		m.password.SetValue("")
		return m, util.CmdHandler(SuccessMsg{Session: msg.session})
	}

	return m, m.updateInputs(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (util.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m, m.submit()
	case "tab", "down":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.cycleFocus(-1)
		return m, nil
	case "ctrl+r":
		m.toggleMode()
		return m, nil
	}

	return m, m.updateInputs(msg)
}

func (m *Model) toggleMode() {
	if m.mode == ModeLogin {
		m.mode = ModeRegister
		m.setFocus(fieldName)
	} else {
		m.mode = ModeLogin
		m.setFocus(fieldEmail)
	}
	m.errMsg = ""
}

func (m *Model) cycleFocus(dir int) {
	fields := []int{fieldEmail, fieldPassword}
	if m.mode == ModeRegister {
		fields = []int{fieldName, fieldEmail, fieldPassword}
	}

	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(fields)) % len(fields)
	m.setFocus(fields[idx])
}

func (m *Model) setFocus(field int) {
	m.focus = field
	m.name.Blur()
	m.email.Blur()
	m.password.Blur()

	switch field {
	case fieldName:
		m.name.Focus()
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	}
}

func (m *Model) submit() tea.Cmd {
	name := strings.TrimSpace(m.name.Value())
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	if m.mode == ModeRegister && name == "" {
		m.errMsg = "Name is required"
		return nil
	}
	if email == "" || password == "" {
		m.errMsg = "Email and password are required"
		return nil
	}

	m.errMsg = ""
	m.submitting = true
	mode := m.mode
	service := m.service

	return func() tea.Msg {
		ctx := context.Background()
		if mode == ModeRegister {
			session, err := service.Register(ctx, name, email, password)
			return resultMsg{session: session, err: err}
		}
		session, err := service.Login(ctx, email, password)
		return resultMsg{session: session, err: err}
	}
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.name, cmd = m.name.Update(msg)
	cmds = append(cmds, cmd)
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

// View renders the page.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	var b strings.Builder
	b.WriteString(logo.RenderWithTagline())
	b.WriteString("\n\n")

	if m.mode == ModeLogin {
		b.WriteString(t.S().Title.Render("Sign in"))
	} else {
		b.WriteString(t.S().Title.Render("Create account"))
	}
	b.WriteString("\n\n")

	if m.mode == ModeRegister {
		b.WriteString(t.S().Muted.Render("Name"))
		b.WriteString("\n")
		b.WriteString(m.name.View())
		b.WriteString("\n\n")
	}

	b.WriteString(t.S().Muted.Render("Email"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n\n")
	b.WriteString(t.S().Muted.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(t.S().Info.Render("Signing in..."))
	case m.errMsg != "":
		b.WriteString(t.S().Error.Render(m.errMsg))
	default:
		hint := "Enter to sign in • Ctrl+R to create an account"
		if m.mode == ModeRegister {
			hint = "Enter to register • Ctrl+R to sign in instead"
		}
		b.WriteString(t.S().Subtle.Render(hint))
	}

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		b.String(),
	)
}

// SetSize sets the page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Cursor returns the cursor of the focused field.
func (m *Model) Cursor() *tea.Cursor {
	switch m.focus {
	case fieldName:
		return m.name.Cursor()
	case fieldEmail:
		return m.email.Cursor()
	case fieldPassword:
		return m.password.Cursor()
	}
	return nil
}

// errorText strips the wrapping context so the user sees the server's own
// message when one exists.
func errorText(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}
	return msg
}

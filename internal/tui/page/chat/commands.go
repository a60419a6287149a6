package chat

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"docchat/internal/tui/util"
)

// Command message types.
type (
	// NewSessionMsg requests starting a fresh conversation.
	NewSessionMsg struct{}

	// UploadRequestMsg requests uploading the file at Path.
	UploadRequestMsg struct {
		Path string
	}

	// RefreshRequestMsg requests a document list refresh.
	RefreshRequestMsg struct{}

	// RenameRequestMsg requests retitling the current conversation.
	RenameRequestMsg struct {
		Title string
	}

	// CopyAnswerMsg requests copying the last assistant answer.
	CopyAnswerMsg struct{}

	// LogoutMsg requests signing out.
	LogoutMsg struct{}

	// UnknownCommandMsg indicates an unknown slash command was entered.
	UnknownCommandMsg struct {
		Command string
	}
)

// Command represents a slash command.
type Command struct {
	Name        string
	Description string
	Handler     func(args []string) tea.Msg
}

// CommandRegistry holds registered slash commands.
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry with default commands.
func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{
		commands: make(map[string]Command),
	}

	r.Register(Command{
		Name:        "new",
		Description: "Start a new chat",
		Handler:     func(args []string) tea.Msg { return NewSessionMsg{} },
	})
	r.Register(Command{
		Name:        "upload",
		Description: "Upload a document: /upload <path>",
		Handler: func(args []string) tea.Msg {
			return UploadRequestMsg{Path: strings.Join(args, " ")}
		},
	})
	r.Register(Command{
		Name:        "rename",
		Description: "Rename the current chat: /rename <title>",
		Handler: func(args []string) tea.Msg {
			return RenameRequestMsg{Title: strings.Join(args, " ")}
		},
	})
	r.Register(Command{
		Name:        "refresh",
		Description: "Refresh the document list",
		Handler:     func(args []string) tea.Msg { return RefreshRequestMsg{} },
	})
	r.Register(Command{
		Name:        "copy",
		Description: "Copy the last answer to the clipboard",
		Handler:     func(args []string) tea.Msg { return CopyAnswerMsg{} },
	})
	r.Register(Command{
		Name:        "logout",
		Description: "Sign out",
		Handler:     func(args []string) tea.Msg { return LogoutMsg{} },
	})

	return r
}

// Register adds a command to the registry.
func (r *CommandRegistry) Register(cmd Command) {
	r.commands[cmd.Name] = cmd
}

// Parse attempts to parse input as a slash command.
// Returns the command message and true if it's a command, nil and false otherwise.
func (r *CommandRegistry) Parse(input string) (tea.Msg, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil, false
	}

	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return nil, false
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, ok := r.commands[cmdName]
	if !ok {
		return UnknownCommandMsg{Command: cmdName}, true
	}

	return cmd.Handler(args), true
}

// parseCommand returns a tea.Cmd if the input is a slash command, nil
// otherwise.
func (m *Model) parseCommand(input string) tea.Cmd {
	if m.commandRegistry == nil {
		m.commandRegistry = NewCommandRegistry()
	}

	msg, isCmd := m.commandRegistry.Parse(input)
	if !isCmd {
		return nil
	}

	return util.CmdHandler(msg)
}

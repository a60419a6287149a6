// Package util provides shared TUI helpers.
package util

import tea "charm.land/bubbletea/v2"

// Model is the interface all page models implement.
type Model interface {
	Init() tea.Cmd
	Update(tea.Msg) (Model, tea.Cmd)
	View() string
}

// InfoType classifies an InfoMsg.
type InfoType int

// Info type constants.
const (
	InfoTypeInfo InfoType = iota
	InfoTypeSuccess
	InfoTypeWarn
	InfoTypeError
)

// InfoMsg carries a transient status line for display.
type InfoMsg struct {
	Type InfoType
	Msg  string
}

// CmdHandler wraps a message into a tea.Cmd.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ReportSuccess returns a command that reports a success message.
func ReportSuccess(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeSuccess, Msg: msg})
}

// ReportWarn returns a command that reports a warning message.
func ReportWarn(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeWarn, Msg: msg})
}

// ReportError returns a command that reports an error.
func ReportError(err error) tea.Cmd {
	return CmdHandler(InfoMsg{Type: InfoTypeError, Msg: err.Error()})
}

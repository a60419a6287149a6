// Package page defines page identifiers and navigation messages.
package page

// ID identifies a TUI page.
type ID string

// Page identifiers.
const (
	Auth ID = "auth"
	Chat ID = "chat"
)

// ChangeMsg requests a page transition.
type ChangeMsg struct {
	Page ID
}

package chat

import (
	"fmt"

	"docchat/internal/document"
	"docchat/internal/tui/styles"
)

// DocumentPanel lists the user's documents and drives scope selection and
// deletion. The first row is the "All documents" scope.
type DocumentPanel struct {
	docs          []*document.Document
	selectedScope string
	cursor        int
	confirmDelete bool
	panel         borderedPanel
}

// NewDocumentPanel creates a new document panel.
func NewDocumentPanel() *DocumentPanel {
	return &DocumentPanel{
		selectedScope: document.ScopeAll,
	}
}

// SetDocuments replaces the listed documents.
func (p *DocumentPanel) SetDocuments(docs []*document.Document) {
	p.docs = docs
	if p.cursor > len(docs) {
		p.cursor = len(docs)
	}
	p.confirmDelete = false
}

// SetSelectedScope marks the active scope.
func (p *DocumentPanel) SetSelectedScope(scope string) {
	p.selectedScope = scope
}

// SetSize sets the panel dimensions.
func (p *DocumentPanel) SetSize(width, height int) {
	p.panel.width = width
	p.panel.height = height
}

// SetFocused sets whether the panel has focus.
func (p *DocumentPanel) SetFocused(focused bool) {
	p.panel.focused = focused
	if !focused {
		p.confirmDelete = false
	}
}

// MoveUp moves the cursor up.
func (p *DocumentPanel) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
	p.confirmDelete = false
}

// MoveDown moves the cursor down.
func (p *DocumentPanel) MoveDown() {
	if p.cursor < len(p.docs) {
		p.cursor++
	}
	p.confirmDelete = false
}

// CursorScope returns the scope under the cursor: ScopeAll on the first
// row, otherwise the document's remote key. Documents the server has not
// acknowledged yet have no key and return false.
func (p *DocumentPanel) CursorScope() (string, bool) {
	if p.cursor == 0 {
		return document.ScopeAll, true
	}
	doc := p.docs[p.cursor-1]
	if !doc.Remote() || doc.Status != document.StatusCompleted {
		return "", false
	}
	return doc.RemoteKey, true
}

// CursorDocument returns the document under the cursor, nil on the
// "All documents" row.
func (p *DocumentPanel) CursorDocument() *document.Document {
	if p.cursor == 0 || p.cursor > len(p.docs) {
		return nil
	}
	return p.docs[p.cursor-1]
}

// ConfirmingDelete reports whether a delete is pending confirmation.
func (p *DocumentPanel) ConfirmingDelete() bool {
	return p.confirmDelete
}

// RequestDelete arms the delete confirmation for the cursor row. It
// returns false on rows that cannot be deleted: the scope row and
// documents still in flight. Errored placeholders are deletable so a
// failed upload can be cleared away.
func (p *DocumentPanel) RequestDelete() bool {
	doc := p.CursorDocument()
	if doc == nil {
		return false
	}
	if !doc.Remote() && doc.Status != document.StatusError {
		return false
	}
	p.confirmDelete = true
	return true
}

// CancelDelete disarms the confirmation.
func (p *DocumentPanel) CancelDelete() {
	p.confirmDelete = false
}

// View renders the panel.
func (p *DocumentPanel) View() string {
	t := styles.CurrentTheme()
	p.panel.title = fmt.Sprintf("Documents (%d)", len(p.docs))

	contentWidth := p.panel.width - 6
	lines := make([]string, 0, len(p.docs)+1)
	lines = append(lines, p.renderRow(0, "All documents", "", p.selectedScope == document.ScopeAll, contentWidth))

	for i, doc := range p.docs {
		marker := ""
		switch doc.Status {
		case document.StatusUploading:
			marker = " ↑"
		case document.StatusProcessing:
			marker = " …"
		case document.StatusError:
			marker = " ✗"
		case document.StatusDeleting:
			marker = " ⌫"
		}
		active := doc.Remote() && doc.RemoteKey == p.selectedScope
		lines = append(lines, p.renderRow(i+1, doc.Name, marker, active, contentWidth))
	}

	if p.confirmDelete {
		if doc := p.CursorDocument(); doc != nil {
			lines = append(lines, "", t.S().Warning.Render("Delete? y/n"))
		}
	}

	content := ""
	for i, line := range lines {
		if i > 0 {
			content += "\n"
		}
		content += line
	}
	p.panel.content = content
	return p.panel.view()
}

func (p *DocumentPanel) renderRow(index int, name, marker string, active bool, width int) string {
	t := styles.CurrentTheme()

	prefix := "  "
	style := t.S().Text
	if index == p.cursor && p.panel.focused {
		prefix = styles.Selected + " "
		style = t.S().Primary
	} else if active {
		style = t.S().Success
	}

	label := truncate(name+marker, width-2)
	return style.Render(prefix + label)
}

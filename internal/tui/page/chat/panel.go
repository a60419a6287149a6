package chat

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"

	"docchat/internal/tui/styles"
)

// borderedPanel renders content inside a rounded box with a title in the
// top border. The documents and sessions sidebars share it.
type borderedPanel struct {
	title   string
	content string
	width   int
	height  int
	focused bool
}

func (p *borderedPanel) view() string {
	t := styles.CurrentTheme()

	borderColor := t.Border
	if p.focused {
		borderColor = t.BorderFocus
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := t.S().Primary.Bold(true)

	innerWidth := p.width - 2
	if innerWidth < 4 {
		innerWidth = 4
	}
	contentWidth := innerWidth - 2

	title := truncate(p.title, innerWidth-4)
	titleRendered := titleStyle.Render(" " + title + " ")
	titleWidth := lipgloss.Width(titleRendered)

	left := (innerWidth - titleWidth) / 2
	if left < 0 {
		left = 0
	}
	right := innerWidth - titleWidth - left
	if right < 0 {
		right = 0
	}

	top := borderStyle.Render("╭"+strings.Repeat("─", left)) +
		titleRendered +
		borderStyle.Render(strings.Repeat("─", right)+"╮")
	bottom := borderStyle.Render("╰" + strings.Repeat("─", innerWidth) + "╯")

	contentLines := strings.Split(p.content, "\n")
	contentHeight := p.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	lines := make([]string, 0, contentHeight+2)
	lines = append(lines, top)
	for i := 0; i < contentHeight; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		if w := lipgloss.Width(line); w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		}
		lines = append(lines, borderStyle.Render("│")+" "+line+" "+borderStyle.Render("│"))
	}
	lines = append(lines, bottom)

	return strings.Join(lines, "\n")
}

// truncate shortens a plain string to at most max display cells, cutting
// on grapheme boundaries so multi-byte names never split mid-character.
func truncate(s string, max int) string {
	if max <= 3 || uniseg.StringWidth(s) <= max {
		return s
	}

	target := max - 3
	var b strings.Builder
	width := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if width+w > target {
			break
		}
		b.WriteString(cluster)
		width += w
	}
	return b.String() + "..."
}

// Package styles provides theming for the TUI.
package styles

import (
	"image/color"
	"strings"
	"sync"

	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Selected is the marker rendered next to the highlighted list entry.
const Selected = "›"

// Theme holds the color palette.
type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles *StyleSet
	once   sync.Once
}

// StyleSet holds pre-built lipgloss styles derived from the theme.
type StyleSet struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Primary  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	TextInput textinput.Styles
}

// S returns the style set, building it on first use.
func (t *Theme) S() *StyleSet {
	t.once.Do(func() {
		ti := textinput.DefaultDarkStyles()
		ti.Focused.Prompt = lipgloss.NewStyle().Foreground(t.Primary)
		ti.Focused.Placeholder = lipgloss.NewStyle().Foreground(t.FgSubtle)
		ti.Blurred.Prompt = lipgloss.NewStyle().Foreground(t.FgMuted)
		ti.Blurred.Placeholder = lipgloss.NewStyle().Foreground(t.FgSubtle)

		t.styles = &StyleSet{
			Title:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
			Subtitle: lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
			Text:     lipgloss.NewStyle().Foreground(t.FgBase),
			Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
			Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
			Primary:  lipgloss.NewStyle().Foreground(t.Primary),

			Success: lipgloss.NewStyle().Foreground(t.Success),
			Error:   lipgloss.NewStyle().Foreground(t.Error),
			Warning: lipgloss.NewStyle().Foreground(t.Warning),
			Info:    lipgloss.NewStyle().Foreground(t.Info),

			TextInput: ti,
		}
	})
	return t.styles
}

var (
	managerMu sync.RWMutex
	current   *Theme
)

// NewManager initializes the theme manager with the default theme.
func NewManager() {
	managerMu.Lock()
	defer managerMu.Unlock()
	if current == nil {
		current = NewDefaultTheme()
	}
}

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	managerMu.RLock()
	t := current
	managerMu.RUnlock()
	if t != nil {
		return t
	}
	NewManager()
	managerMu.RLock()
	defer managerMu.RUnlock()
	return current
}

// ParseHex converts a hex string like "#61afef" into a color. Invalid
// input falls back to white so a bad palette entry is visible, not fatal.
func ParseHex(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	return c
}

// ApplyForegroundGrad renders text with a horizontal gradient between two
// colors, used for the wordmark.
func ApplyForegroundGrad(text string, from, to color.Color) string {
	fromC, okFrom := colorful.MakeColor(from)
	toC, okTo := colorful.MakeColor(to)
	if !okFrom || !okTo {
		return text
	}

	lines := strings.Split(text, "\n")
	maxWidth := 0
	for _, line := range lines {
		if w := len([]rune(line)); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 1 {
		return text
	}

	var b strings.Builder
	for li, line := range lines {
		if li > 0 {
			b.WriteByte('\n')
		}
		for i, r := range []rune(line) {
			ratio := float64(i) / float64(maxWidth-1)
			c := fromC.BlendLuv(toC, ratio)
			b.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
		}
	}
	return b.String()
}

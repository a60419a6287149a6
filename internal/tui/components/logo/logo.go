// Package logo renders the docchat wordmark.
package logo

import (
	"strings"

	"charm.land/lipgloss/v2"

	"docchat/internal/tui/styles"
)

// ASCII art for the docchat logo.
const docchatLogo = `
██████╗  ██████╗  ██████╗ ██████╗██╗  ██╗ █████╗ ████████╗
██╔══██╗██╔═══██╗██╔════╝██╔════╝██║  ██║██╔══██╗╚══██╔══╝
██║  ██║██║   ██║██║     ██║     ███████║███████║   ██║
██║  ██║██║   ██║██║     ██║     ██╔══██║██╔══██║   ██║
██████╔╝╚██████╔╝╚██████╗╚██████╗██║  ██║██║  ██║   ██║
╚═════╝  ╚═════╝  ╚═════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// Smaller logo for narrow spaces.
const docchatLogoSmall = `
╔╦╗╔═╗╔═╗╔═╗╦ ╦╔═╗╔╦╗
 ║║║ ║║  ║  ╠═╣╠═╣ ║
═╩╝╚═╝╚═╝╚═╝╩ ╩╩ ╩ ╩
`

// Render returns the logo with the current theme colors.
func Render() string {
	t := styles.CurrentTheme()
	logo := strings.TrimPrefix(docchatLogo, "\n")
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Secondary)
}

// RenderSmall returns a smaller version of the logo.
func RenderSmall() string {
	t := styles.CurrentTheme()
	logo := strings.TrimPrefix(docchatLogoSmall, "\n")
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Secondary)
}

// RenderWithTagline returns the logo with a tagline.
func RenderWithTagline() string {
	t := styles.CurrentTheme()
	tagline := t.S().Muted.Render("Ask your documents anything")
	return lipgloss.JoinVertical(lipgloss.Center, Render(), "", tagline)
}

// Width returns the width of the full logo.
func Width() int {
	return lipgloss.Width(docchatLogo)
}

package styles

// NewDefaultTheme creates the default dark theme.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		IsDark: true,

		// Ocean blue tones
		Primary:   ParseHex("#5eb5f7"), // Ocean blue
		Secondary: ParseHex("#7ec8e8"), // Light sky blue
		Tertiary:  ParseHex("#3e4451"), // Dark gray-blue
		Accent:    ParseHex("#8fd4f4"), // Bright water

		// Dark backgrounds
		BgBase:    ParseHex("#1e1e1e"),
		BgSubtle:  ParseHex("#252526"),
		BgOverlay: ParseHex("#2d2d30"),

		// Light foregrounds
		FgBase:   ParseHex("#c5d1de"), // Soft white-blue
		FgMuted:  ParseHex("#7a8b99"), // Muted blue-gray
		FgSubtle: ParseHex("#4d5b66"), // Subtle blue-gray

		// Borders
		Border:      ParseHex("#3e4451"),
		BorderFocus: ParseHex("#5eb5f7"),

		// Status colors
		Success: ParseHex("#98c379"), // Green
		Error:   ParseHex("#e06c75"), // Red
		Warning: ParseHex("#e5c07b"), // Yellow
		Info:    ParseHex("#61afef"), // Blue
	}
}

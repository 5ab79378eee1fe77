package styles

// NewDefaultTheme creates the night-sky theme murph ships with.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "nightsky",
		IsDark: true,

		// Deep-sky blues with a nebula accent
		Primary:   ParseHex("#5eb5f7"), // Ocean blue
		Secondary: ParseHex("#7ec8e8"), // Light sky blue
		Tertiary:  ParseHex("#39465e"), // Slate blue
		Accent:    ParseHex("#b58cf5"), // Nebula violet

		BgBase:    ParseHex("#0d1117"), // Near black
		BgSubtle:  ParseHex("#161b28"), // Slightly lighter
		BgOverlay: ParseHex("#1d2433"), // Overlay background

		FgBase:   ParseHex("#c5d1de"), // Soft white-blue
		FgMuted:  ParseHex("#7a8b99"), // Muted blue-gray
		FgSubtle: ParseHex("#4d5b66"), // Subtle blue-gray

		Border:      ParseHex("#39465e"),
		BorderFocus: ParseHex("#5eb5f7"),

		Success: ParseHex("#8fd48a"), // Aurora green
		Error:   ParseHex("#e8737f"), // Red giant
		Warning: ParseHex("#e8c47b"), // Solar yellow
		Info:    ParseHex("#5eb5f7"), // Blue
	}
}

package ui

// Accessors for the escape codes of the current theme. They return "" when
// colors are disabled.

// ColorReset returns the code that clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary color.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the info color.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the secondary color.
func ColorCyan() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold attribute.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline attribute.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorComponent returns the color of density component i (a
// cosmo.Component value). Out-of-range indices get no color.
func ColorComponent(i int) string {
	t := GetCurrentTheme()
	if i < 0 || i >= len(t.Components) {
		return ""
	}
	return t.Components[i]
}

// CLIColorProvider adapts the theme to apperrors.ColorProvider.
type CLIColorProvider struct{}

// Red returns the error color.
func (CLIColorProvider) Red() string { return ColorRed() }

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ColorYellow() }

// Reset clears formatting.
func (CLIColorProvider) Reset() string { return ColorReset() }

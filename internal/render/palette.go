package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/phishguard/internal/model"
)

// Palette is a terminal color scheme.
type Palette struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Accent     lipgloss.Color
	IsDark     bool
}

// Semantic colors, shared by both palettes.
var (
	ColorAlert   = lipgloss.Color("#e53935")
	ColorCaution = lipgloss.Color("#FFC107")
	ColorSafe    = lipgloss.Color("#8BC34A")
	ColorInfo    = lipgloss.Color("#2196F3")
)

// LightPalette returns the light terminal palette.
func LightPalette() Palette {
	return Palette{
		Foreground: lipgloss.Color("#101F38"),
		Muted:      lipgloss.Color("#5c6b80"),
		Border:     lipgloss.Color("#dce0e5"),
		Accent:     lipgloss.Color("#101F38"),
	}
}

// DarkPalette returns the dark terminal palette.
func DarkPalette() Palette {
	return Palette{
		Foreground: lipgloss.Color("#f2f2f2"),
		Muted:      lipgloss.Color("#8a96a8"),
		Border:     lipgloss.Color("#2a3850"),
		Accent:     lipgloss.Color("#8BC34A"),
		IsDark:     true,
	}
}

// PaletteFor returns the palette matching a theme.
func PaletteFor(t model.Theme) Palette {
	if t == model.ThemeDark {
		return DarkPalette()
	}
	return LightPalette()
}

// StyleColor returns the semantic color for a verdict style.
func StyleColor(s model.Style) lipgloss.Color {
	switch s {
	case model.StyleAlert:
		return ColorAlert
	case model.StyleCaution:
		return ColorCaution
	default:
		return ColorSafe
	}
}

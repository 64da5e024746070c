package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
)

// styles are the chrome styles for one theme.
type styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Tab     lipgloss.Style
	TabOn   lipgloss.Style
	Body    lipgloss.Style
	Prompt  lipgloss.Style
	Confirm lipgloss.Style
	Spinner lipgloss.Style
}

func stylesFor(t model.Theme) styles {
	p := render.PaletteFor(t)
	return styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Muted: lipgloss.NewStyle().Foreground(p.Muted),
		Tab:   lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		TabOn: lipgloss.NewStyle().Bold(true).Foreground(p.Foreground).Underline(true).Padding(0, 1),
		Body: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Prompt:  lipgloss.NewStyle().Foreground(p.Accent),
		Confirm: lipgloss.NewStyle().Bold(true).Foreground(render.ColorCaution),
		Spinner: lipgloss.NewStyle().Foreground(render.ColorInfo),
	}
}

package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/phishguard/internal/model"
)

// Terminal renders fragments as styled text for a terminal.
type Terminal struct {
	r       *lipgloss.Renderer
	palette Palette
}

// TerminalOption configures a Terminal renderer.
type TerminalOption func(*Terminal)

// WithPalette sets the color palette.
func WithPalette(p Palette) TerminalOption {
	return func(t *Terminal) { t.palette = p }
}

// WithLipglossRenderer sets the lipgloss renderer, which decides the color profile.
func WithLipglossRenderer(r *lipgloss.Renderer) TerminalOption {
	return func(t *Terminal) {
		if r != nil {
			t.r = r
		}
	}
}

// NewTerminal returns a terminal renderer using the light palette.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{
		r:       lipgloss.DefaultRenderer(),
		palette: LightPalette(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

var _ Renderer = (*Terminal)(nil)

func (t *Terminal) badge(s model.Style, text string) string {
	return t.r.NewStyle().Bold(true).Foreground(StyleColor(s)).Render(text)
}

func (t *Terminal) muted(text string) string {
	return t.r.NewStyle().Foreground(t.palette.Muted).Render(text)
}

func (t *Terminal) heading(text string) string {
	return t.r.NewStyle().Bold(true).Foreground(t.palette.Accent).Render(text)
}

func (t *Terminal) card(s model.Style, body string) string {
	return t.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StyleColor(s)).
		Padding(0, 1).
		Render(body)
}

// Results renders one bordered card per result.
func (t *Terminal) Results(results []model.ScanResult) Fragment {
	cards := make([]string, 0, len(results))
	for i := range results {
		cards = append(cards, t.result(&results[i]))
	}
	return Fragment{Kind: KindResult, Style: worstStyle(results), Body: strings.Join(cards, "\n")}
}

func (t *Terminal) result(r *model.ScanResult) string {
	style := r.Verdict.Style()

	var sb strings.Builder
	sb.WriteString(t.badge(style, r.Verdict.Label()))
	if target := r.Target(); target != "" {
		sb.WriteString("  ")
		sb.WriteString(target)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s   %s %s   %s %s",
		t.muted("final"), percent(r.FinalScore),
		t.muted("ml"), percent(r.MLProbability),
		t.muted("threshold"), percent(r.Threshold))

	if len(r.Reasons) > 0 {
		sb.WriteString("\n")
		sb.WriteString(t.heading("Reasons"))
		for _, reason := range r.Reasons {
			sb.WriteString("\n  - ")
			sb.WriteString(reason)
		}
	}

	if names := r.ModelNames(); len(names) > 0 {
		width := 0
		for _, n := range names {
			width = max(width, len(n))
		}
		sb.WriteString("\n")
		sb.WriteString(t.heading("Models"))
		for _, n := range names {
			fmt.Fprintf(&sb, "\n  %-*s %s", width, n, percent(r.PerModel[n]))
		}
	}
	return t.card(style, sb.String())
}

// History renders one line per entry, or a single placeholder line.
func (t *Terminal) History(entries []model.HistoryEntry) Fragment {
	if len(entries) == 0 {
		return Fragment{Kind: KindPlaceholder, Body: t.muted(EmptyHistoryMessage)}
	}

	lines := make([]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		line := fmt.Sprintf("%s %s", t.badge(e.Verdict.Style(), fmt.Sprintf("%-10s", e.Verdict.Label())), e.Target())
		if e.Timestamp != "" {
			line += "  " + t.muted(e.Timestamp)
		}
		lines = append(lines, line)
	}
	return Fragment{Kind: KindHistory, Body: strings.Join(lines, "\n")}
}

// Settings renders aligned key/value lines.
func (t *Terminal) Settings(s *model.Settings) Fragment {
	if s == nil {
		s = &model.Settings{}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", t.muted("threshold      "), number(s.Threshold))
	fmt.Fprintf(&sb, "%s %s\n", t.muted("ml_weight      "), number(s.MLWeight))
	sb.WriteString(t.muted("trusted_domains"))
	if len(s.TrustedDomains) == 0 {
		sb.WriteString(" (none)")
	}
	for _, d := range s.TrustedDomains {
		sb.WriteString("\n  - ")
		sb.WriteString(d)
	}
	for _, kv := range s.VisibleExtra() {
		fmt.Fprintf(&sb, "\n%s %s", t.muted(fmt.Sprintf("%-15s", kv.Key)), kv.Value)
	}
	return Fragment{Kind: KindSettings, Body: sb.String()}
}

// AdminHistory renders indented JSON.
func (t *Terminal) AdminHistory(raw json.RawMessage) Fragment {
	return Fragment{Kind: KindAdminHistory, Body: indentJSON(raw)}
}

// Theme renders the current theme and toggle label.
func (t *Terminal) Theme(theme model.Theme) Fragment {
	return Fragment{
		Kind: KindTheme,
		Body: fmt.Sprintf("%s %s  %s", t.muted("theme"), theme, t.muted("("+ToggleLabel(theme)+")")),
	}
}

// Notice renders a one-line notification.
func (t *Terminal) Notice(n Notice) Fragment {
	mark := "✓"
	if n.Style != model.StyleSafe {
		mark = "✗"
	}
	text := n.Message
	if n.Title != "" {
		text = n.Title + ": " + n.Message
	}
	return Fragment{Kind: KindNotice, Style: n.Style, Body: t.badge(n.Style, mark) + " " + text}
}

// Error renders an inline error.
func (t *Terminal) Error(message string) Fragment {
	return Fragment{Kind: KindError, Style: model.StyleAlert, Body: t.badge(model.StyleAlert, "error:") + " " + message}
}

// Validation renders a short input cue.
func (t *Terminal) Validation(message string) Fragment {
	return Fragment{Kind: KindValidation, Style: model.StyleCaution, Body: t.badge(model.StyleCaution, "!") + " " + message}
}

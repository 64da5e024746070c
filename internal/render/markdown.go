package render

import (
	"encoding/json"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/phishguard/internal/model"
)

// Markdown renders fragments as GitHub-flavored Markdown.
type Markdown struct{}

// NewMarkdown returns the Markdown renderer.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

var _ Renderer = (*Markdown)(nil)

func build(fn func(md *markdown.Markdown)) string {
	var sb strings.Builder
	md := markdown.NewMarkdown(&sb)
	fn(md)
	return strings.TrimRight(md.String(), "\n")
}

// Results renders a section per result with a verdict alert.
func (m *Markdown) Results(results []model.ScanResult) Fragment {
	body := build(func(md *markdown.Markdown) {
		for i := range results {
			if i > 0 {
				md.HorizontalRule()
			}
			writeResult(md, &results[i])
		}
	})
	return Fragment{Kind: KindResult, Style: worstStyle(results), Body: body}
}

func writeResult(md *markdown.Markdown, r *model.ScanResult) {
	title := "Scan result: " + r.Verdict.Label()
	if target := r.Target(); target != "" {
		title += " (" + target + ")"
	}
	md.H2(title)
	md.PlainText("")

	switch r.Verdict.Style() {
	case model.StyleAlert:
		md.Cautionf("**%s**: final score %s reached the %s threshold.", r.Verdict.Label(), percent(r.FinalScore), percent(r.Threshold))
	case model.StyleCaution:
		md.Warningf("**%s**: final score %s.", r.Verdict.Label(), percent(r.FinalScore))
	default:
		md.Tip("**" + r.Verdict.Label() + "**: no phishing indicators above the threshold.")
	}
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Score", "Value"},
		Rows: [][]string{
			{"Final score", percent(r.FinalScore)},
			{"ML probability", percent(r.MLProbability)},
			{"Threshold", percent(r.Threshold)},
		},
	})
	md.PlainText("")

	if len(r.Reasons) > 0 {
		md.H3("Reasons")
		md.PlainText("")
		md.BulletList(r.Reasons...)
		md.PlainText("")
	}

	if names := r.ModelNames(); len(names) > 0 {
		rows := make([][]string, 0, len(names))
		for _, n := range names {
			rows = append(rows, []string{n, percent(r.PerModel[n])})
		}
		md.H3("Per-model probability")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Model", "Probability"}, Rows: rows})
		md.PlainText("")
	}
}

// History renders a table, or one placeholder line.
func (m *Markdown) History(entries []model.HistoryEntry) Fragment {
	if len(entries) == 0 {
		return Fragment{Kind: KindPlaceholder, Body: "_" + EmptyHistoryMessage + "_"}
	}

	rows := make([][]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		rows = append(rows, []string{e.Verdict.Label(), "`" + e.Target() + "`", e.Timestamp})
	}
	body := build(func(md *markdown.Markdown) {
		md.Table(markdown.TableSet{Header: []string{"Verdict", "Target", "Time"}, Rows: rows})
	})
	return Fragment{Kind: KindHistory, Body: body}
}

// Settings renders a table of settings and trusted domains.
func (m *Markdown) Settings(s *model.Settings) Fragment {
	if s == nil {
		s = &model.Settings{}
	}
	rows := [][]string{
		{"threshold", number(s.Threshold)},
		{"ml_weight", number(s.MLWeight)},
	}
	for _, kv := range s.VisibleExtra() {
		rows = append(rows, []string{kv.Key, "`" + kv.Value + "`"})
	}
	body := build(func(md *markdown.Markdown) {
		md.H2("Settings")
		md.PlainText("")
		md.Table(markdown.TableSet{Header: []string{"Setting", "Value"}, Rows: rows})
		md.PlainText("")
		md.H3("Trusted domains")
		md.PlainText("")
		if len(s.TrustedDomains) == 0 {
			md.PlainText("_None._")
			return
		}
		md.BulletList(s.TrustedDomains...)
	})
	return Fragment{Kind: KindSettings, Body: body}
}

// AdminHistory renders indented JSON in a code block.
func (m *Markdown) AdminHistory(raw json.RawMessage) Fragment {
	body := build(func(md *markdown.Markdown) {
		md.CodeBlocks(markdown.SyntaxHighlight("json"), indentJSON(raw))
	})
	return Fragment{Kind: KindAdminHistory, Body: body}
}

// Theme renders the theme line.
func (m *Markdown) Theme(t model.Theme) Fragment {
	return Fragment{Kind: KindTheme, Body: "Theme: **" + string(t) + "** (" + ToggleLabel(t) + ")"}
}

// Notice renders a note or caution alert.
func (m *Markdown) Notice(n Notice) Fragment {
	text := n.Message
	if n.Title != "" {
		text = "**" + n.Title + "**: " + n.Message
	}
	body := build(func(md *markdown.Markdown) {
		if n.Style == model.StyleSafe {
			md.Note(text)
			return
		}
		md.Cautionf("%s", text)
	})
	return Fragment{Kind: KindNotice, Style: n.Style, Body: body}
}

// Error renders a caution alert.
func (m *Markdown) Error(message string) Fragment {
	body := build(func(md *markdown.Markdown) {
		md.Cautionf("**Error**: %s", message)
	})
	return Fragment{Kind: KindError, Style: model.StyleAlert, Body: body}
}

// Validation renders an emphasized cue.
func (m *Markdown) Validation(message string) Fragment {
	return Fragment{Kind: KindValidation, Style: model.StyleCaution, Body: "_" + message + "_"}
}

package render

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strings"

	"github.com/nao1215/phishguard/internal/model"
)

var htmlFuncs = template.FuncMap{
	"percent": percent,
	"number":  number,
	"label":   func(v model.Verdict) string { return v.Label() },
	"class":   func(v model.Verdict) string { return v.Style().CSSClass() },
	"verdict": func(v model.Verdict) string { return string(v.Normalize()) },
	"target":  func(r model.ScanResult) string { return r.Target() },
	"entry":   func(h model.HistoryEntry) string { return h.Target() },
	"models":  func(r model.ScanResult) []string { return r.ModelNames() },
	"prob":    func(r model.ScanResult, name string) string { return percent(r.PerModel[name]) },
}

var htmlTemplates = template.Must(template.New("render").Funcs(htmlFuncs).Parse(`
{{- define "result" -}}
<div class="result-card alert {{class .Verdict}}" data-verdict="{{verdict .Verdict}}">
<h3 class="verdict">{{label .Verdict}}</h3>
{{- with target .}}
<p class="target">{{.}}</p>
{{- end}}
<ul class="scores">
<li>Final score: {{percent .FinalScore}}</li>
<li>ML probability: {{percent .MLProbability}}</li>
<li>Threshold: {{percent .Threshold}}</li>
</ul>
{{- if .Reasons}}
<ul class="reasons">
{{- range .Reasons}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .PerModel}}
<table class="per-model">
<tr><th>Model</th><th>Probability</th></tr>
{{- $r := .}}
{{- range models .}}
<tr><td>{{.}}</td><td>{{prob $r .}}</td></tr>
{{- end}}
</table>
{{- end}}
</div>
{{- end -}}

{{- define "results" -}}
{{- range $i, $r := .}}{{if $i}}
{{end}}{{template "result" $r}}{{end -}}
{{- end -}}

{{- define "history" -}}
<ul class="history-list">
{{- range .}}
<li class="history-item {{class .Verdict}}"><span class="verdict">{{label .Verdict}}</span> <span class="target">{{entry .}}</span>{{with .Timestamp}} <span class="timestamp">{{.}}</span>{{end}}</li>
{{- end}}
</ul>
{{- end -}}

{{- define "settings" -}}
<dl class="settings">
<dt>Threshold</dt><dd>{{number .Threshold}}</dd>
<dt>ML weight</dt><dd>{{number .MLWeight}}</dd>
<dt>Trusted domains</dt><dd><ul class="trusted-domains">
{{- range .TrustedDomains}}
<li>{{.}}</li>
{{- end}}
</ul></dd>
{{- range .VisibleExtra}}
<dt>{{.Key}}</dt><dd><code>{{.Value}}</code></dd>
{{- end}}
</dl>
{{- end -}}
`))

// HTML renders fragments as HTML snippets with CSS class names.
type HTML struct{}

// NewHTML returns the HTML renderer.
func NewHTML() *HTML {
	return &HTML{}
}

var _ Renderer = (*HTML)(nil)

func (h *HTML) execute(name string, data any) string {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		// Templates are static and inputs are plain values.
		return `<div class="alert alert-danger error">` + template.HTMLEscapeString(err.Error()) + `</div>`
	}
	return buf.String()
}

// Results renders one card per result.
func (h *HTML) Results(results []model.ScanResult) Fragment {
	return Fragment{Kind: KindResult, Style: worstStyle(results), Body: h.execute("results", results)}
}

// History renders a list, or a single placeholder paragraph when empty.
func (h *HTML) History(entries []model.HistoryEntry) Fragment {
	if len(entries) == 0 {
		return Fragment{
			Kind: KindPlaceholder,
			Body: `<p class="history-empty">` + EmptyHistoryMessage + `</p>`,
		}
	}
	return Fragment{Kind: KindHistory, Body: h.execute("history", entries)}
}

// Settings renders a definition list.
func (h *HTML) Settings(s *model.Settings) Fragment {
	if s == nil {
		s = &model.Settings{}
	}
	return Fragment{Kind: KindSettings, Body: h.execute("settings", s)}
}

// AdminHistory renders indented JSON in a pre block.
func (h *HTML) AdminHistory(raw json.RawMessage) Fragment {
	return Fragment{
		Kind: KindAdminHistory,
		Body: `<pre class="admin-history">` + template.HTMLEscapeString(indentJSON(raw)) + `</pre>`,
	}
}

// Theme renders the toggle button.
func (h *HTML) Theme(t model.Theme) Fragment {
	return Fragment{
		Kind: KindTheme,
		Body: `<button class="theme-toggle" data-theme="` + template.HTMLEscapeString(string(t)) + `">` +
			ToggleLabel(t) + `</button>`,
	}
}

// Notice renders a toast.
func (h *HTML) Notice(n Notice) Fragment {
	var sb strings.Builder
	sb.WriteString(`<div class="toast alert `)
	sb.WriteString(n.Style.CSSClass())
	sb.WriteString(`">`)
	if n.Title != "" {
		sb.WriteString(`<strong>`)
		sb.WriteString(template.HTMLEscapeString(n.Title))
		sb.WriteString(`</strong> `)
	}
	sb.WriteString(template.HTMLEscapeString(n.Message))
	sb.WriteString(`</div>`)
	return Fragment{Kind: KindNotice, Style: n.Style, Body: sb.String()}
}

// Error renders an inline error.
func (h *HTML) Error(message string) Fragment {
	return Fragment{
		Kind:  KindError,
		Style: model.StyleAlert,
		Body:  `<div class="alert alert-danger error">` + template.HTMLEscapeString(message) + `</div>`,
	}
}

// Validation renders a small inline cue.
func (h *HTML) Validation(message string) Fragment {
	return Fragment{
		Kind:  KindValidation,
		Style: model.StyleCaution,
		Body:  `<small class="invalid-feedback">` + template.HTMLEscapeString(message) + `</small>`,
	}
}

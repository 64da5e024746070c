package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/model"
)

func sampleResult(v model.Verdict, score float64) model.ScanResult {
	return model.ScanResult{
		Verdict:       v,
		FinalScore:    score,
		MLProbability: 0.75,
		Reasons:       []string{"Domain registered recently", "Brand name in subdomain"},
		PerModel:      map[string]float64{"xgb": 0.8, "rf": 0.7, "lr": 0.65},
		Domain:        "secure-paypa1.example",
		Threshold:     0.6,
		Timestamp:     "2026-01-01 12:00:00",
	}
}

func sampleSettings() *model.Settings {
	var s model.Settings
	_ = json.Unmarshal([]byte(`{"threshold":0.6,"ml_weight":0.85,"trusted_domains":["google.com","github.com"],"dark_mode":true,"admin_pass":"admin123"}`), &s) //nolint:errcheck // static JSON
	return &s
}

func allRenderers() map[string]Renderer {
	return map[string]Renderer{
		"html":     NewHTML(),
		"terminal": NewTerminal(WithLipglossRenderer(lipgloss.NewRenderer(&strings.Builder{}))),
		"markdown": NewMarkdown(),
		"json":     NewJSON(),
	}
}

// countElements parses an HTML fragment and counts its element nodes.
func countElements(t *testing.T, fragment string) (int, []*html.Node) {
	t.Helper()

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}

	count := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return count, nodes
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// TestPhishingVerdictLabelAndClass tests the phishing label and high-alert class for any score.
func TestPhishingVerdictLabelAndClass(t *testing.T) {
	t.Parallel()

	for _, score := range []float64{0, 0.3, 0.6, 0.999, 1} {
		frag := NewHTML().Results([]model.ScanResult{sampleResult(model.VerdictPhishing, score)})

		if !strings.Contains(frag.Body, ">PHISHING<") {
			t.Errorf("score %v: expected uppercase PHISHING label: %s", score, frag.Body)
		}
		_, nodes := countElements(t, frag.Body)
		if len(nodes) == 0 || !strings.Contains(attr(nodes[0], "class"), "alert-danger") {
			t.Errorf("score %v: expected alert-danger class on the card", score)
		}
		if frag.Style != model.StyleAlert {
			t.Errorf("score %v: expected alert style, got %v", score, frag.Style)
		}
	}
}

// TestVerdictClassMapping tests the fixed verdict to class mapping.
func TestVerdictClassMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verdict model.Verdict
		class   string
	}{
		{model.VerdictPhishing, "alert-danger"},
		{model.VerdictSuspicious, "alert-warning"},
		{model.VerdictSafe, "alert-success"},
		{model.VerdictLegitimate, "alert-success"},
		{"unexpected", "alert-success"},
	}

	for _, tt := range tests {
		t.Run(string(tt.verdict), func(t *testing.T) {
			t.Parallel()

			frag := NewHTML().Results([]model.ScanResult{sampleResult(tt.verdict, 0.5)})
			_, nodes := countElements(t, frag.Body)
			if got := attr(nodes[0], "class"); !strings.Contains(got, tt.class) {
				t.Errorf("class = %q, want %q", got, tt.class)
			}
		})
	}
}

// TestEmptyHistoryPlaceholder tests that an empty history renders exactly one element.
func TestEmptyHistoryPlaceholder(t *testing.T) {
	t.Parallel()

	for _, entries := range [][]model.HistoryEntry{nil, {}} {
		frag := NewHTML().History(entries)
		if frag.Kind != KindPlaceholder {
			t.Errorf("expected placeholder kind, got %v", frag.Kind)
		}
		n, _ := countElements(t, frag.Body)
		if n != 1 {
			t.Errorf("expected exactly one element, got %d: %s", n, frag.Body)
		}
	}

	for name, r := range allRenderers() {
		frag := r.History(nil)
		if frag.Kind != KindPlaceholder || !strings.Contains(frag.Body, EmptyHistoryMessage) {
			t.Errorf("%s: expected placeholder, got %+v", name, frag)
		}
	}
}

// TestHistoryList tests the populated history listing.
func TestHistoryList(t *testing.T) {
	t.Parallel()

	entries := []model.HistoryEntry{
		{Verdict: model.VerdictPhishing, Domain: "a.example", Timestamp: "t1"},
		{Verdict: model.VerdictSafe, UploadedFile: "mail.eml"},
	}
	frag := NewHTML().History(entries)
	if frag.Kind != KindHistory {
		t.Fatalf("expected history kind, got %v", frag.Kind)
	}
	_, nodes := countElements(t, frag.Body)
	items := 0
	for c := nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			items++
		}
	}
	if items != 2 {
		t.Errorf("expected 2 items, got %d", items)
	}
	if !strings.Contains(frag.Body, "mail.eml") || !strings.Contains(frag.Body, "a.example") {
		t.Errorf("expected targets in output: %s", frag.Body)
	}
}

// TestErrorFragmentHasNoResultContent tests the failed-scan rendering.
func TestErrorFragmentHasNoResultContent(t *testing.T) {
	t.Parallel()

	for name, r := range allRenderers() {
		frag := r.Error("scan: server returned 500: Internal server error")
		if frag.Kind != KindError {
			t.Errorf("%s: expected error kind", name)
		}
		if !strings.Contains(frag.Body, "Internal server error") {
			t.Errorf("%s: expected visible message: %s", name, frag.Body)
		}
		for _, forbidden := range []string{"result-card", "Final score", "ML probability", "PHISHING", "SAFE"} {
			if strings.Contains(frag.Body, forbidden) {
				t.Errorf("%s: error fragment contains result content %q", name, forbidden)
			}
		}
	}
}

// TestDeterminism tests that identical input renders identical bytes.
func TestDeterminism(t *testing.T) {
	t.Parallel()

	results := []model.ScanResult{sampleResult(model.VerdictSuspicious, 0.55), sampleResult(model.VerdictPhishing, 0.9)}
	history := []model.HistoryEntry{{Verdict: model.VerdictPhishing, Domain: "x.example", Reasons: []string{"r"}}}
	raw := json.RawMessage(`[{"b":1,"a":2}]`)

	for name, r := range allRenderers() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for i := 0; i < 20; i++ {
				if a, b := r.Results(results), r.Results(results); a != b {
					t.Fatalf("Results not deterministic:\n%s\n---\n%s", a.Body, b.Body)
				}
				if a, b := r.History(history), r.History(history); a != b {
					t.Fatal("History not deterministic")
				}
				if a, b := r.Settings(sampleSettings()), r.Settings(sampleSettings()); a != b {
					t.Fatal("Settings not deterministic")
				}
				if a, b := r.AdminHistory(raw), r.AdminHistory(raw); a != b {
					t.Fatal("AdminHistory not deterministic")
				}
			}
		})
	}
}

// TestPerModelSorted tests that per-model rows are sorted by name.
func TestPerModelSorted(t *testing.T) {
	t.Parallel()

	body := NewHTML().Results([]model.ScanResult{sampleResult(model.VerdictSafe, 0.1)}).Body
	lr, rf, xgb := strings.Index(body, ">lr<"), strings.Index(body, ">rf<"), strings.Index(body, ">xgb<")
	if lr < 0 || !(lr < rf && rf < xgb) {
		t.Errorf("expected sorted model rows: lr=%d rf=%d xgb=%d", lr, rf, xgb)
	}
	if !strings.Contains(body, "80.0%") {
		t.Errorf("expected xgb probability: %s", body)
	}
}

// TestSettingsHideAdminPass tests that no format shows the admin password.
func TestSettingsHideAdminPass(t *testing.T) {
	t.Parallel()

	for name, r := range allRenderers() {
		body := r.Settings(sampleSettings()).Body
		if strings.Contains(body, "admin123") || strings.Contains(body, "admin_pass") {
			t.Errorf("%s: settings leaked admin password: %s", name, body)
		}
		if !strings.Contains(body, "github.com") || !strings.Contains(body, "0.85") {
			t.Errorf("%s: expected settings values: %s", name, body)
		}
	}
}

// TestHTMLEscaping tests that server strings are escaped.
func TestHTMLEscaping(t *testing.T) {
	t.Parallel()

	r := sampleResult(model.VerdictSafe, 0.1)
	r.Reasons = []string{`<script>alert(1)</script>`}
	body := NewHTML().Results([]model.ScanResult{r}).Body
	if strings.Contains(body, "<script>") {
		t.Errorf("expected escaped reason: %s", body)
	}

	if body := NewHTML().Error(`<b>x</b>`).Body; strings.Contains(body, "<b>") {
		t.Errorf("expected escaped error: %s", body)
	}
}

// TestAdminHistoryIndented tests JSON indentation and the invalid JSON fallback.
func TestAdminHistoryIndented(t *testing.T) {
	t.Parallel()

	got := NewJSON().AdminHistory(json.RawMessage(`[{"verdict":"phishing"}]`)).Body
	want := "[\n  {\n    \"verdict\": \"phishing\"\n  }\n]"
	if got != want {
		t.Errorf("AdminHistory() = %q, want %q", got, want)
	}

	if got := NewJSON().AdminHistory(json.RawMessage(`not json`)).Body; got != "not json" {
		t.Errorf("expected raw fallback, got %q", got)
	}
}

// TestThemeFragment tests the toggle label.
func TestThemeFragment(t *testing.T) {
	t.Parallel()

	if got := ToggleLabel(model.ThemeLight); got != "Switch to dark mode" {
		t.Errorf("ToggleLabel(light) = %q", got)
	}
	if got := ToggleLabel(model.ThemeDark); got != "Switch to light mode" {
		t.Errorf("ToggleLabel(dark) = %q", got)
	}
	body := NewHTML().Theme(model.ThemeDark).Body
	if !strings.Contains(body, `data-theme="dark"`) || !strings.Contains(body, "Switch to light mode") {
		t.Errorf("unexpected theme fragment %s", body)
	}
}

// TestJSONResults tests the scripting format.
func TestJSONResults(t *testing.T) {
	t.Parallel()

	body := NewJSON().Results([]model.ScanResult{sampleResult(model.VerdictPhishing, 0.9)}).Body
	var out []map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out[0]["label"] != "PHISHING" || out[0]["style"] != "alert" || out[0]["verdict"] != "phishing" {
		t.Errorf("unexpected result object %v", out[0])
	}
}

// TestMarkdownResult tests the Markdown alert selection.
func TestMarkdownResult(t *testing.T) {
	t.Parallel()

	body := NewMarkdown().Results([]model.ScanResult{sampleResult(model.VerdictPhishing, 0.9)}).Body
	if !strings.Contains(body, "[!CAUTION]") {
		t.Errorf("expected caution alert: %s", body)
	}
	if !strings.Contains(body, "Scan result: PHISHING") {
		t.Errorf("expected heading: %s", body)
	}

	body = NewMarkdown().Results([]model.ScanResult{sampleResult(model.VerdictSuspicious, 0.5)}).Body
	if !strings.Contains(body, "[!WARNING]") {
		t.Errorf("expected warning alert: %s", body)
	}
}

// TestNotice tests notice styling across formats.
func TestNotice(t *testing.T) {
	t.Parallel()

	for name, r := range allRenderers() {
		ok := r.Notice(Success("Retrain", "model retrained"))
		bad := r.Notice(Failure("Retrain", "dataset empty"))
		if ok.Style != model.StyleSafe || bad.Style != model.StyleAlert {
			t.Errorf("%s: unexpected notice styles %v %v", name, ok.Style, bad.Style)
		}
		if !strings.Contains(bad.Body, "dataset empty") {
			t.Errorf("%s: missing failure message: %s", name, bad.Body)
		}
	}
}

// TestNew tests format selection.
func TestNew(t *testing.T) {
	t.Parallel()

	for _, f := range []string{"", config.FormatText, config.FormatMarkdown, config.FormatJSON, config.FormatHTML} {
		if _, err := New(f); err != nil {
			t.Errorf("New(%q) error = %v", f, err)
		}
	}
	if _, err := New("yaml"); !errors.Is(err, config.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/controller"
	"github.com/nao1215/phishguard/internal/log"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// counter records how often each path was requested.
type counter struct {
	mu    sync.Mutex
	paths map[string]int
}

func (c *counter) hit(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paths == nil {
		c.paths = map[string]int{}
	}
	c.paths[path]++
}

func (c *counter) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths[path]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // test server
}

// newTestModel wires a model to a fake portal server.
func newTestModel(t *testing.T) (Model, *view.View, *counter) {
	t.Helper()

	hits := &counter{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scan", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"verdict": "phishing", "final_score": 0.91, "domain": r.FormValue("url")})
	})
	mux.HandleFunc("GET /history", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{{"verdict": "safe", "domain": "example.com"}})
	})
	mux.HandleFunc("POST /api/clear_history", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "cleared"})
	})
	mux.HandleFunc("GET /get_theme", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"theme": "light"})
	})
	mux.HandleFunc("POST /toggle_theme", func(w http.ResponseWriter, r *http.Request) {
		var p model.ThemePayload
		_ = json.NewDecoder(r.Body).Decode(&p) //nolint:errcheck // test server
		writeJSON(w, p)
	})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.hit(r.URL.Path)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	routes, err := config.RoutesForProfile(config.ProfilePortal)
	if err != nil {
		t.Fatal(err)
	}
	client, err := api.New(ts.URL, routes,
		api.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}),
		api.WithLogger(log.Discard()),
	)
	if err != nil {
		t.Fatal(err)
	}
	v := view.New()
	ctrl := controller.New(client, v, render.NewMarkdown(), controller.WithLogger(log.Discard()))
	return New(context.Background(), ctrl, log.Discard()), v, hits
}

// press sends msg to m and runs the returned command, feeding its result back.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if done, ok := cmd().(opDoneMsg); ok {
		next, _ = m.Update(done)
		m = next.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func TestModelScan(t *testing.T) {
	t.Parallel()

	m, v, hits := newTestModel(t)
	m = typeText(t, m, "paypa1.example")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if hits.count("/scan") != 1 {
		t.Fatalf("scan requests = %d, want 1", hits.count("/scan"))
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if m.pending != 0 {
		t.Errorf("pending = %d, want 0", m.pending)
	}
	if got := v.Fragment(view.Result); got.Kind != render.KindResult {
		t.Errorf("result region = %+v", got)
	}
	if !strings.Contains(m.View(), "PHISHING") {
		t.Errorf("view does not show the verdict:\n%s", m.View())
	}
}

func TestModelEmptyScanShowsCue(t *testing.T) {
	t.Parallel()

	m, v, hits := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if hits.count("/scan") != 0 {
		t.Error("empty scan should not reach the server")
	}
	if got := v.Fragment(view.Result).Kind; got != render.KindValidation {
		t.Errorf("result kind = %v, want validation", got)
	}
}

func TestModelPaneCycle(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	want := []pane{paneHistory, paneSettings, paneResult}
	for _, p := range want {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.pane != p {
			t.Fatalf("pane = %v, want %v", m.pane, p)
		}
	}
}

func TestModelClearHistoryConfirm(t *testing.T) {
	t.Parallel()

	t.Run("declined", func(t *testing.T) {
		t.Parallel()

		m, _, hits := newTestModel(t)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
		if !m.confirmClear || !strings.Contains(m.View(), "Clear all history?") {
			t.Fatal("expected a confirmation prompt")
		}
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		if m.confirmClear || hits.count("/api/clear_history") != 0 {
			t.Error("declined confirmation should not clear history")
		}
	})

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()

		m, v, hits := newTestModel(t)
		m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
		if hits.count("/api/clear_history") != 1 {
			t.Fatalf("clear requests = %d, want 1", hits.count("/api/clear_history"))
		}
		if hits.count("/history") != 1 {
			t.Errorf("history reloads = %d, want 1", hits.count("/history"))
		}
		if m.pane != paneHistory {
			t.Errorf("pane = %v, want history", m.pane)
		}
		if v.Fragment(view.Notice).Kind != render.KindNotice {
			t.Error("expected a notice after clearing")
		}
	})
}

func TestModelToggleTheme(t *testing.T) {
	t.Parallel()

	m, v, hits := newTestModel(t)
	before := v.Theme()
	_ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})

	if hits.count("/toggle_theme") != 1 {
		t.Fatalf("toggle requests = %d, want 1", hits.count("/toggle_theme"))
	}
	if v.Theme() != before.Toggle() {
		t.Errorf("theme = %q, want %q", v.Theme(), before.Toggle())
	}
}

func TestModelWindowSize(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	if m.body.Width != 96 || m.body.Height != 30 {
		t.Errorf("viewport = %dx%d, want 96x30", m.body.Width, m.body.Height)
	}
}

func TestModelQuit(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestNotifierWithoutProgram(t *testing.T) {
	t.Parallel()

	var n Notifier
	// Must not panic before a program is attached.
	n.Observe(view.Result, render.Fragment{})
}

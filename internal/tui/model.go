package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nao1215/phishguard/internal/controller"
	"github.com/nao1215/phishguard/internal/view"
)

// pane is the region shown in the body.
type pane int

const (
	paneResult pane = iota
	paneHistory
	paneSettings
	paneCount
)

func (p pane) region() view.Name {
	switch p {
	case paneHistory:
		return view.History
	case paneSettings:
		return view.Settings
	default:
		return view.Result
	}
}

func (p pane) title() string {
	switch p {
	case paneHistory:
		return "History"
	case paneSettings:
		return "Settings"
	default:
		return "Result"
	}
}

// RedrawMsg asks the model to re-read the view regions.
type RedrawMsg struct {
	Region view.Name
}

// opDoneMsg reports that a background operation finished.
type opDoneMsg struct {
	op  string
	err error
}

const emptyResult = "Enter a URL or domain and press enter to scan."

// Model is the bubbletea model of the interactive client.
type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	view   *view.View
	logger *slog.Logger

	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model
	body    viewport.Model

	pane pane
	// pending counts operations in flight.
	pending      int
	confirmClear bool
	width        int
	height       int
}

// New creates the model. ctx bounds every operation it starts.
func New(ctx context.Context, ctrl *controller.Controller, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	st := stylesFor(ctrl.View().Theme())

	ti := textinput.New()
	ti.Placeholder = "https://example.com/login or example.com"
	ti.Prompt = "› "
	ti.PromptStyle = st.Prompt
	ti.CharLimit = 2048
	ti.Width = 76
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Spinner

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		view:    ctrl.View(),
		logger:  logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   ti,
		spinner: sp,
		body:    viewport.New(80, 16),
	}
}

// Init loads the theme and the history.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.op("theme", func(ctx context.Context) error {
			_, err := m.ctrl.LoadTheme(ctx)
			return err
		}),
		m.op("history", func(ctx context.Context) error {
			_, err := m.ctrl.LoadHistory(ctx)
			return err
		}),
	)
}

// op wraps a controller call as a command. The model counts it as pending
// until its opDoneMsg arrives.
func (m Model) op(name string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: name, err: fn(ctx)}
	}
}

// start marks an operation pending and returns its command.
func (m *Model) start(name string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending++
	return m.op(name, fn)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.body.Width = max(msg.Width-4, 10)
		m.body.Height = max(msg.Height-10, 3)
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case opDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			m.logger.Debug("operation failed", "op", msg.op, "error", msg.err)
		}
		m.refresh()
		return m, nil

	case RedrawMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmClear {
		m.confirmClear = false
		if msg.String() == "y" || msg.String() == "Y" {
			m.pane = paneHistory
			m.refresh()
			return m, m.start("clear", m.ctrl.ClearHistory)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Scan):
		target := m.input.Value()
		m.input.Reset()
		m.pane = paneResult
		m.refresh()
		return m, m.start("scan", func(ctx context.Context) error {
			_, err := m.ctrl.SubmitScan(ctx, controller.ScanInput{Domain: target})
			return err
		})

	case key.Matches(msg, m.keys.Pane):
		m.pane = (m.pane + 1) % paneCount
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.History):
		m.pane = paneHistory
		m.refresh()
		return m, m.start("history", func(ctx context.Context) error {
			_, err := m.ctrl.LoadHistory(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Clear):
		m.confirmClear = true
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.pane = paneSettings
		m.refresh()
		return m, m.start("settings", func(ctx context.Context) error {
			_, err := m.ctrl.LoadSettings(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Theme):
		return m, m.start("toggle theme", func(ctx context.Context) error {
			_, err := m.ctrl.ToggleTheme(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Retrain):
		return m, m.start("retrain", m.ctrl.RetrainModel)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh copies the current pane's fragment into the viewport.
func (m *Model) refresh() {
	content := m.view.Fragment(m.pane.region()).Body
	if content == "" {
		switch m.pane {
		case paneResult:
			content = emptyResult
		case paneSettings:
			content = "Press ctrl+s to load settings."
		default:
			content = "Press ctrl+r to load history."
		}
	}
	m.body.SetContent(content)
}

// View renders the screen.
func (m Model) View() string {
	st := stylesFor(m.view.Theme())
	var sb strings.Builder

	sb.WriteString(st.Title.Render("PhishGuard"))
	if theme := m.view.Fragment(view.Theme).Body; theme != "" {
		sb.WriteString("  ")
		sb.WriteString(st.Muted.Render(firstLine(theme)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	tabs := make([]string, 0, paneCount)
	for p := pane(0); p < paneCount; p++ {
		if p == m.pane {
			tabs = append(tabs, st.TabOn.Render(p.title()))
		} else {
			tabs = append(tabs, st.Tab.Render(p.title()))
		}
	}
	sb.WriteString(strings.Join(tabs, ""))
	if m.pending > 0 {
		sb.WriteString("  ")
		sb.WriteString(m.spinner.View())
		sb.WriteString(st.Muted.Render(fmt.Sprintf(" %d pending", m.pending)))
	}
	sb.WriteString("\n")
	sb.WriteString(st.Body.Render(m.body.View()))
	sb.WriteString("\n")

	switch {
	case m.confirmClear:
		sb.WriteString(st.Confirm.Render("Clear all history? (y/N)"))
		sb.WriteString("\n")
	default:
		if notice := m.view.Fragment(view.Notice).Body; notice != "" {
			sb.WriteString(notice)
			sb.WriteString("\n")
		}
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

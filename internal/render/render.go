package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/model"
)

// Kind identifies what a fragment shows.
type Kind int

const (
	// KindEmpty is the zero fragment: nothing rendered yet.
	KindEmpty Kind = iota
	// KindResult shows one or more scan results.
	KindResult
	// KindHistory shows a history listing.
	KindHistory
	// KindPlaceholder stands in for an empty listing.
	KindPlaceholder
	// KindSettings shows server settings.
	KindSettings
	// KindAdminHistory shows the raw admin history.
	KindAdminHistory
	// KindTheme shows the theme toggle.
	KindTheme
	// KindNotice is a transient notification.
	KindNotice
	// KindError is an inline failure message.
	KindError
	// KindValidation is a minimal inline input cue.
	KindValidation
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindResult:
		return "result"
	case KindHistory:
		return "history"
	case KindPlaceholder:
		return "placeholder"
	case KindSettings:
		return "settings"
	case KindAdminHistory:
		return "admin_history"
	case KindTheme:
		return "theme"
	case KindNotice:
		return "notice"
	case KindError:
		return "error"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Fragment is rendered output for one view region.
type Fragment struct {
	Kind Kind
	// Style is the visual class of the fragment. For results it is the
	// style of the most severe verdict shown.
	Style model.Style
	Body  string
}

// IsZero reports whether nothing has been rendered.
func (f Fragment) IsZero() bool {
	return f.Kind == KindEmpty && f.Body == ""
}

// String returns the body.
func (f Fragment) String() string {
	return f.Body
}

// Notice is a transient notification.
type Notice struct {
	// Style is StyleSafe for success and StyleAlert for failure.
	Style   model.Style
	Title   string
	Message string
}

// Success returns a success notice.
func Success(title, message string) Notice {
	return Notice{Style: model.StyleSafe, Title: title, Message: message}
}

// Failure returns a failure notice.
func Failure(title, message string) Notice {
	return Notice{Style: model.StyleAlert, Title: title, Message: message}
}

// Renderer produces fragments for every region.
type Renderer interface {
	// Results renders the results of one scan, in server order.
	Results(results []model.ScanResult) Fragment
	// History renders a listing; an empty listing renders one placeholder element.
	History(entries []model.HistoryEntry) Fragment
	Settings(s *model.Settings) Fragment
	AdminHistory(raw json.RawMessage) Fragment
	Theme(t model.Theme) Fragment
	Notice(n Notice) Fragment
	Error(message string) Fragment
	Validation(message string) Fragment
}

// New returns the renderer for an output format.
func New(format string) (Renderer, error) {
	switch format {
	case config.FormatText, "":
		return NewTerminal(), nil
	case config.FormatMarkdown:
		return NewMarkdown(), nil
	case config.FormatJSON:
		return NewJSON(), nil
	case config.FormatHTML:
		return NewHTML(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownFormat, format)
	}
}

// EmptyHistoryMessage is the placeholder text for an empty history.
const EmptyHistoryMessage = "No scans yet."

// ToggleLabel returns the label of the theme toggle while t is displayed.
func ToggleLabel(t model.Theme) string {
	if t == model.ThemeDark {
		return "Switch to light mode"
	}
	return "Switch to dark mode"
}

// percent formats a 0-1 probability as a percentage with one decimal.
func percent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 1, 64) + "%"
}

// number formats a setting value without trailing zeros.
func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// worstStyle returns the most severe style among results.
func worstStyle(results []model.ScanResult) model.Style {
	worst := model.StyleSafe
	for i := range results {
		if s := results[i].Verdict.Style(); s > worst {
			worst = s
		}
	}
	return worst
}

// indentJSON pretty-prints raw in server key order, or returns it
// unchanged when it is not JSON.
func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

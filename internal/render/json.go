package render

import (
	"encoding/json"

	"github.com/nao1215/phishguard/internal/model"
)

// JSON renders fragments as indented JSON documents for scripting.
type JSON struct{}

// NewJSON returns the JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

var _ Renderer = (*JSON)(nil)

type jsonResult struct {
	model.ScanResult
	Label string `json:"label"`
	Style string `json:"style"`
}

type jsonMessage struct {
	Kind    string `json:"kind"`
	Style   string `json:"style,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

func encode(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		b, _ = json.Marshal(jsonMessage{Kind: KindError.String(), Message: err.Error()}) //nolint:errcheck // plain struct
	}
	return string(b)
}

// Results renders the results array with label and style added.
func (j *JSON) Results(results []model.ScanResult) Fragment {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		out = append(out, jsonResult{ScanResult: r, Label: r.Verdict.Label(), Style: r.Verdict.Style().String()})
	}
	return Fragment{Kind: KindResult, Style: worstStyle(results), Body: encode(out)}
}

// History renders the entries array. An empty listing renders one
// placeholder message object.
func (j *JSON) History(entries []model.HistoryEntry) Fragment {
	if len(entries) == 0 {
		return Fragment{
			Kind: KindPlaceholder,
			Body: encode(jsonMessage{Kind: KindPlaceholder.String(), Message: EmptyHistoryMessage}),
		}
	}
	return Fragment{Kind: KindHistory, Body: encode(entries)}
}

// Settings renders settings without sensitive fields.
func (j *JSON) Settings(s *model.Settings) Fragment {
	if s == nil {
		s = &model.Settings{}
	}
	return Fragment{Kind: KindSettings, Body: encode(s.Redacted())}
}

// AdminHistory renders the raw JSON indented.
func (j *JSON) AdminHistory(raw json.RawMessage) Fragment {
	return Fragment{Kind: KindAdminHistory, Body: indentJSON(raw)}
}

// Theme renders the theme payload.
func (j *JSON) Theme(t model.Theme) Fragment {
	return Fragment{Kind: KindTheme, Body: encode(model.ThemePayload{Theme: t})}
}

// Notice renders a notice object.
func (j *JSON) Notice(n Notice) Fragment {
	return Fragment{Kind: KindNotice, Style: n.Style, Body: encode(jsonMessage{
		Kind: KindNotice.String(), Style: n.Style.String(), Title: n.Title, Message: n.Message,
	})}
}

// Error renders an error object.
func (j *JSON) Error(message string) Fragment {
	return Fragment{Kind: KindError, Style: model.StyleAlert, Body: encode(jsonMessage{Kind: KindError.String(), Message: message})}
}

// Validation renders a validation object.
func (j *JSON) Validation(message string) Fragment {
	return Fragment{Kind: KindValidation, Style: model.StyleCaution, Body: encode(jsonMessage{Kind: KindValidation.String(), Message: message})}
}

package export

import (
	"encoding/json"
	"io"
)

// JSONWriter outputs the report as JSON, shaped like the server's download
// body with the export metadata and summary added.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter. Output is compact unless an indent option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type jsonReport struct {
	*HistoryReport
	Summary Summary `json:"summary"`
}

// Write outputs the report as a single JSON document followed by a newline.
func (w *JSONWriter) Write(report *HistoryReport) (int, error) {
	v := jsonReport{HistoryReport: report, Summary: report.Summary()}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

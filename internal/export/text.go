package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/phishguard/internal/model"
)

// TextWriter outputs a plain text report for terminals and files.
type TextWriter struct {
	baseWriter

	// verbose adds the reasons of each entry.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose includes the reasons for every entry.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report.
func (w *TextWriter) Write(report *HistoryReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report.Summary())
	w.writeEntries(&sb, report.Entries)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func rule(sb *strings.Builder, c string) {
	sb.WriteString(strings.Repeat(c, 70))
	sb.WriteString("\n")
}

func (w *TextWriter) writeHeader(sb *strings.Builder, report *HistoryReport) {
	rule(sb, "=")
	sb.WriteString("                     PHISHGUARD SCAN HISTORY\n")
	rule(sb, "=")
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Server:     %s\n", report.Server)
	fmt.Fprintf(sb, "Generated:  %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Entries:    %d\n\n", len(report.Entries))
}

func (w *TextWriter) writeSummary(sb *strings.Builder, s Summary) {
	rule(sb, "-")
	sb.WriteString("VERDICT SUMMARY\n")
	rule(sb, "-")
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  PHISHING:   %d\n", s.Phishing)
	fmt.Fprintf(sb, "  SUSPICIOUS: %d\n", s.Suspicious)
	fmt.Fprintf(sb, "  SAFE:       %d\n\n", s.Safe)
}

func (w *TextWriter) writeEntries(sb *strings.Builder, entries []model.HistoryEntry) {
	rule(sb, "-")
	sb.WriteString("ENTRIES\n")
	rule(sb, "-")
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString("  No scans recorded\n\n")
		return
	}
	for i := range entries {
		e := &entries[i]
		fmt.Fprintf(sb, "[%s] %-10s %s\n", indicator(e.Verdict), e.Verdict.Label(), e.Target())
		if e.Timestamp != "" {
			fmt.Fprintf(sb, "    Time:  %s\n", e.Timestamp)
		}
		if e.UserID != "" {
			fmt.Fprintf(sb, "    User:  %s\n", e.UserID)
		}
		if w.verbose {
			for _, r := range e.Reasons {
				fmt.Fprintf(sb, "    - %s\n", r)
			}
		}
	}
	sb.WriteString("\n")
}

// indicator returns a short marker for the verdict class.
func indicator(v model.Verdict) string {
	switch v.Style() {
	case model.StyleAlert:
		return "!!"
	case model.StyleCaution:
		return "! "
	default:
		return "ok"
	}
}

func (w *TextWriter) writeFooter(sb *strings.Builder) {
	rule(sb, "=")
	sb.WriteString("Exported by phishguard\n")
	rule(sb, "=")
}

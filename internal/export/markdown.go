package export

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/phishguard/internal/model"
)

// MarkdownWriter outputs the report as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report.
func (w *MarkdownWriter) Write(report *HistoryReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := report.Summary()

	w.writeHeader(md, report)
	w.writeSummary(md, summary)
	w.writeEntries(md, report.Entries)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *HistoryReport) {
	md.H1("PhishGuard Scan History")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Server", "`" + report.Server + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Entries", strconv.Itoa(len(report.Entries))},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	md.H2("Verdict Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows: [][]string{
			{"🔴 Phishing", strconv.Itoa(s.Phishing)},
			{"🟡 Suspicious", strconv.Itoa(s.Suspicious)},
			{"🟢 Safe", strconv.Itoa(s.Safe)},
			{"**Total**", "**" + strconv.Itoa(s.Total()) + "**"},
		},
	})
	md.PlainText("")

	if s.Total() > 0 {
		w.writePieChart(md, s)
	}

	switch {
	case s.Phishing > 0:
		md.Cautionf("%d phishing verdict(s) in this history.", s.Phishing)
	case s.Suspicious > 0:
		md.Warningf("%d suspicious verdict(s) in this history.", s.Suspicious)
	case s.Total() > 0:
		md.Tip("No phishing or suspicious verdicts.")
	default:
		md.Note("No scans recorded.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the verdict distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdict Distribution"),
		piechart.WithShowData(true),
	)
	if s.Phishing > 0 {
		chart.LabelAndIntValue("Phishing", uint64(s.Phishing))
	}
	if s.Suspicious > 0 {
		chart.LabelAndIntValue("Suspicious", uint64(s.Suspicious))
	}
	if s.Safe > 0 {
		chart.LabelAndIntValue("Safe", uint64(s.Safe))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeEntries(md *markdown.Markdown, entries []model.HistoryEntry) {
	md.H2("Entries")
	md.PlainText("")

	if len(entries) == 0 {
		md.PlainText("No scans recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(entries))
	for i := range entries {
		e := &entries[i]
		rows[i] = []string{
			e.Verdict.Label(),
			truncateString(orDash(e.Target()), 50),
			orDash(e.Timestamp),
			orDash(e.UserID),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Target", "Time", "User"},
		Rows:   rows,
	})
	md.PlainText("")

	for i := range entries {
		e := &entries[i]
		if len(e.Reasons) == 0 {
			continue
		}
		md.Details(e.Verdict.Label()+": "+orDash(e.Target()), "- "+joinLines(e.Reasons))
	}
	md.PlainText("")
}

func joinLines(reasons []string) string {
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "\n- " + r
	}
	return out
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Exported by phishguard*")
}

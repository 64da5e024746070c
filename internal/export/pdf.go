package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/nao1215/phishguard/internal/model"
)

// PDFWriter outputs the report as an A4 PDF document.
type PDFWriter struct {
	baseWriter

	// fontPath is an optional TrueType font for non-ASCII text.
	fontPath string
}

// PDFWriterOption configures a PDFWriter.
type PDFWriterOption func(*PDFWriter)

// WithFontFile registers a UTF-8 TrueType font. Without one, non-ASCII
// characters are replaced with '?'.
func WithFontFile(path string) PDFWriterOption {
	return func(w *PDFWriter) {
		w.fontPath = path
	}
}

// NewPDFWriter creates a PDFWriter.
func NewPDFWriter(output io.Writer, opts ...PDFWriterOption) *PDFWriter {
	w := &PDFWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders and outputs the PDF.
func (w *PDFWriter) Write(report *HistoryReport) (int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("PhishGuard Scan History", false)
	pdf.SetCreator("phishguard", false)
	pdf.SetCreationDate(report.GeneratedAt)

	family, utf8OK := w.initFont(pdf)
	p := &pdfPage{pdf: pdf, family: family, utf8OK: utf8OK}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 9, "PhishGuard Scan History", "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, "Server: "+p.text(report.Server), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated at: "+report.GeneratedAt.Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	s := report.Summary()
	p.sectionTitle("Verdict summary")
	p.kv("Phishing", fmt.Sprint(s.Phishing))
	p.kv("Suspicious", fmt.Sprint(s.Suspicious))
	p.kv("Safe", fmt.Sprint(s.Safe))
	p.kv("Total", fmt.Sprint(s.Total()))
	pdf.Ln(2)

	p.sectionTitle("Entries")
	if len(report.Entries) == 0 {
		pdf.SetFont(family, "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, "(empty)", "", "L", false)
	}
	for i := range report.Entries {
		p.entry(&report.Entries[i])
	}

	if pdf.Err() {
		return 0, fmt.Errorf("render pdf: %w", pdf.Error())
	}
	cw := &countingWriter{w: w.output}
	if err := pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("write pdf: %w", err)
	}
	return cw.n, nil
}

// initFont registers the configured UTF-8 font, falling back to Helvetica.
func (w *PDFWriter) initFont(pdf *gofpdf.Fpdf) (family string, utf8OK bool) {
	const familyName = "unicode"

	if w.fontPath == "" {
		return "Helvetica", false
	}
	if _, err := os.Stat(w.fontPath); err != nil {
		return "Helvetica", false
	}
	pdf.AddUTF8Font(familyName, "", w.fontPath)
	if pdf.Err() {
		pdf.ClearError()
		return "Helvetica", false
	}
	// Bold is registered from the same file so SetFont(..., "B", ...) works.
	pdf.AddUTF8Font(familyName, "B", w.fontPath)
	if pdf.Err() {
		pdf.ClearError()
	}
	return familyName, true
}

type pdfPage struct {
	pdf    *gofpdf.Fpdf
	family string
	utf8OK bool
}

func (p *pdfPage) sectionTitle(title string) {
	p.pdf.SetFont(p.family, "B", 12)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	p.pdf.SetDrawColor(200, 200, 200)
	p.pdf.Line(p.pdf.GetX(), p.pdf.GetY(), 196, p.pdf.GetY())
	p.pdf.Ln(2)
}

func (p *pdfPage) kv(key, value string) {
	p.pdf.SetFont(p.family, "B", 10)
	p.pdf.SetTextColor(30, 30, 30)
	p.pdf.CellFormat(36, 5.2, key+":", "", 0, "L", false, 0, "")
	p.pdf.SetFont(p.family, "", 10)
	p.pdf.SetTextColor(20, 20, 20)
	p.pdf.MultiCell(0, 5.2, p.text(value), "", "L", false)
}

func (p *pdfPage) entry(e *model.HistoryEntry) {
	r, g, b := verdictColor(e.Verdict)
	p.pdf.SetFont(p.family, "B", 10)
	p.pdf.SetTextColor(r, g, b)
	p.pdf.CellFormat(28, 5, e.Verdict.Label(), "", 0, "L", false, 0, "")
	p.pdf.SetTextColor(20, 20, 20)
	p.pdf.MultiCell(0, 5, p.text(orDash(e.Target())), "", "L", false)

	p.pdf.SetFont(p.family, "", 9)
	p.pdf.SetTextColor(90, 90, 90)
	meta := "time: " + orDash(e.Timestamp)
	if e.UserID != "" {
		meta += " | user: " + e.UserID
	}
	p.pdf.MultiCell(0, 4.5, p.text(meta), "", "L", false)
	for _, reason := range e.Reasons {
		p.pdf.MultiCell(0, 4.5, "- "+p.text(reason), "", "L", false)
	}
	p.pdf.Ln(1)
}

// verdictColor returns the RGB text color of a verdict class.
func verdictColor(v model.Verdict) (int, int, int) {
	switch v.Style() {
	case model.StyleAlert:
		return 190, 30, 45
	case model.StyleCaution:
		return 180, 120, 0
	default:
		return 30, 130, 70
	}
}

// text flattens s to one line and, without a UTF-8 font, replaces
// characters the core fonts cannot draw.
func (p *pdfPage) text(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	s = strings.TrimSpace(s)
	if p.utf8OK {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r <= 126 {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

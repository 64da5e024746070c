package export

import (
	"time"

	"github.com/nao1215/phishguard/internal/model"
)

// HistoryReport is a downloaded history plus export metadata.
type HistoryReport struct {
	// Server is the base URL the history came from.
	Server string `json:"server"`

	// GeneratedAt is when the export was made.
	GeneratedAt time.Time `json:"generated_at"`

	// Entries are in server order.
	Entries []model.HistoryEntry `json:"history"`
}

// NewHistoryReport creates a report generated at now.
func NewHistoryReport(server string, entries []model.HistoryEntry, now time.Time) *HistoryReport {
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return &HistoryReport{Server: server, GeneratedAt: now, Entries: entries}
}

// Summary counts entries per verdict class.
type Summary struct {
	Phishing   int `json:"phishing"`
	Suspicious int `json:"suspicious"`
	Safe       int `json:"safe"`
}

// Total returns the number of entries counted.
func (s Summary) Total() int {
	return s.Phishing + s.Suspicious + s.Safe
}

// Summary counts the report's entries. Unrecognized verdicts count as safe,
// matching how they are displayed.
func (r *HistoryReport) Summary() Summary {
	var s Summary
	for i := range r.Entries {
		switch r.Entries[i].Verdict.Style() {
		case model.StyleAlert:
			s.Phishing++
		case model.StyleCaution:
			s.Suspicious++
		default:
			s.Safe++
		}
	}
	return s
}

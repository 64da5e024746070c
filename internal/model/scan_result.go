package model

import "sort"

// ScanResult is the structured result of a single scan.
// A scan request yields one ScanResult per scanned input (URL and/or file).
type ScanResult struct {
	// Verdict is the server's classification.
	Verdict Verdict `json:"verdict"`

	// FinalScore is the combined ML and heuristic score in [0, 1].
	FinalScore float64 `json:"final_score"`

	// MLProbability is the ensemble's phishing probability in [0, 1].
	MLProbability float64 `json:"ml_probability"`

	// HeuristicScore is the rule-based score in [0, 1].
	HeuristicScore float64 `json:"heuristic_score,omitempty"`

	// Reasons lists the human-readable signals, in server order.
	Reasons []string `json:"reasons"`

	// PerModel maps each sub-model name to its own probability.
	PerModel map[string]float64 `json:"per_model,omitempty"`

	// Input is the raw scanned text.
	Input string `json:"input,omitempty"`

	// Domain is the hostname extracted from the input, if any.
	Domain string `json:"domain,omitempty"`

	// UploadedFile is the stored file name for file scans.
	UploadedFile string `json:"uploaded_file,omitempty"`

	// Type is "url" or "file".
	Type string `json:"type,omitempty"`

	// Trusted reports whether the domain matched the trusted list.
	Trusted bool `json:"trusted,omitempty"`

	// Timestamp is the server-formatted scan time.
	Timestamp string `json:"timestamp,omitempty"`

	// UserID is the visitor id the scan was recorded under.
	UserID string `json:"user_id,omitempty"`

	// Threshold is the phishing threshold in effect for this scan.
	Threshold float64 `json:"threshold"`
}

// Target returns the most specific description of what was scanned:
// the uploaded file name, else the domain, else the raw input.
func (r *ScanResult) Target() string {
	return target(r.UploadedFile, r.Domain, r.Input)
}

// ModelNames returns the per-model names in sorted order.
func (r *ScanResult) ModelNames() []string {
	names := make([]string, 0, len(r.PerModel))
	for name := range r.PerModel {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HistoryEntry is one row of a scan history listing.
type HistoryEntry struct {
	Verdict      Verdict  `json:"verdict"`
	Timestamp    string   `json:"timestamp,omitempty"`
	Reasons      []string `json:"reasons,omitempty"`
	Domain       string   `json:"domain,omitempty"`
	Input        string   `json:"input,omitempty"`
	UploadedFile string   `json:"uploaded_file,omitempty"`
	FinalScore   float64  `json:"final_score,omitempty"`
	UserID       string   `json:"user_id,omitempty"`
}

// Target returns the uploaded file name, else the domain, else the raw input.
func (h *HistoryEntry) Target() string {
	return target(h.UploadedFile, h.Domain, h.Input)
}

func target(file, domain, input string) string {
	switch {
	case file != "":
		return file
	case domain != "" && domain != "(file content)":
		return domain
	case input != "":
		return input
	default:
		return domain
	}
}

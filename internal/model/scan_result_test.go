package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestScanResultDecode tests decoding a server scan response.
func TestScanResultDecode(t *testing.T) {
	t.Parallel()

	body := `{
		"input": "http://secure-login.example.com",
		"domain": "secure-login.example.com",
		"type": "url",
		"ml_probability": 0.91,
		"heuristic_score": 0.3,
		"final_score": 0.82,
		"verdict": "phishing",
		"threshold": 0.6,
		"trusted": false,
		"reasons": ["Suspicious terms: login, secure"],
		"timestamp": "2025-01-01 10:00:00",
		"per_model": {"rf": 0.9, "lr": 0.8, "nb": 0.95},
		"uploaded_file": null,
		"user_id": "abc123"
	}`

	var r ScanResult
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Verdict != VerdictPhishing {
		t.Errorf("expected phishing, got %q", r.Verdict)
	}
	if r.UploadedFile != "" {
		t.Errorf("expected null uploaded_file to decode empty, got %q", r.UploadedFile)
	}
	if diff := cmp.Diff([]string{"lr", "nb", "rf"}, r.ModelNames()); diff != "" {
		t.Errorf("model names mismatch (-want +got):\n%s", diff)
	}
	if r.Target() != "secure-login.example.com" {
		t.Errorf("expected domain target, got %q", r.Target())
	}
}

// TestTarget tests target selection precedence.
func TestTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry HistoryEntry
		want  string
	}{
		{"file wins", HistoryEntry{UploadedFile: "mail.eml", Domain: "x.com"}, "mail.eml"},
		{"domain next", HistoryEntry{Domain: "x.com", Input: "http://x.com/a"}, "x.com"},
		{"file content placeholder falls back to input", HistoryEntry{Domain: "(file content)", Input: "hello"}, "hello"},
		{"input last", HistoryEntry{Input: "raw text"}, "raw text"},
		{"nothing", HistoryEntry{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.entry.Target(); got != tt.want {
				t.Errorf("Target() = %q, want %q", got, tt.want)
			}
		})
	}
}

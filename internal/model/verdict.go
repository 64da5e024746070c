package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Verdict is the scan outcome reported by the server.
type Verdict string

const (
	// VerdictSafe means the target showed no phishing indicators.
	VerdictSafe Verdict = "safe"

	// VerdictSuspicious means the score crossed the caution band but not the threshold.
	VerdictSuspicious Verdict = "suspicious"

	// VerdictPhishing means the final score reached the configured threshold.
	VerdictPhishing Verdict = "phishing"

	// VerdictLegitimate is the server's spelling of a clean result.
	// It is displayed as-is and styled like VerdictSafe.
	VerdictLegitimate Verdict = "legitimate"
)

// upper is shared because cases.Caser values are stateless for String().
var upper = cases.Upper(language.Und)

// Label returns the uppercase label shown for the verdict, e.g. "PHISHING".
// An empty verdict is labelled "UNKNOWN".
func (v Verdict) Label() string {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return "UNKNOWN"
	}
	return upper.String(s)
}

// Normalize returns the verdict lowercased and trimmed.
func (v Verdict) Normalize() Verdict {
	return Verdict(strings.ToLower(strings.TrimSpace(string(v))))
}

// Style returns the visual style class for the verdict.
// The mapping is fixed: phishing is high-alert, suspicious is caution,
// anything else (including unknown values) is the default safe style.
func (v Verdict) Style() Style {
	switch v.Normalize() {
	case VerdictPhishing:
		return StyleAlert
	case VerdictSuspicious:
		return StyleCaution
	default:
		return StyleSafe
	}
}

// Style is the visual class a verdict is rendered with.
type Style int

const (
	// StyleSafe is the default style for clean or unrecognized verdicts.
	StyleSafe Style = iota

	// StyleCaution is used for suspicious verdicts.
	StyleCaution

	// StyleAlert is the high-alert style used for phishing verdicts.
	StyleAlert
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleSafe:
		return "safe"
	case StyleCaution:
		return "caution"
	case StyleAlert:
		return "alert"
	default:
		return "unknown"
	}
}

// CSSClass returns the CSS class used by the HTML renderer.
func (s Style) CSSClass() string {
	switch s {
	case StyleAlert:
		return "alert-danger"
	case StyleCaution:
		return "alert-warning"
	default:
		return "alert-success"
	}
}

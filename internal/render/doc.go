// Package render turns server responses into display fragments.
//
// Every Renderer is a pure function of its input: the same ScanResult,
// HistoryEntry or Settings values always produce byte-identical fragments.
// Maps are emitted in sorted key order for that reason.
//
// Verdict styling is fixed across formats: phishing uses the high-alert
// style, suspicious the caution style, and anything else the safe style.
package render

// Package model defines the data structures exchanged with a PhishGuard server.
//
// This package contains the following main types:
//   - ScanResult: the structured verdict returned by a scan request
//   - HistoryEntry: one row of a scan history listing
//   - Settings: the editable server settings (threshold, ML weight, trusted domains)
//   - Verdict and Style: the verdict enumeration and its fixed visual mapping
//   - Theme: the light/dark display theme
//
// All types are transient view-model values. They are decoded from a server
// response, rendered, and discarded; nothing in this package is persisted.
package model

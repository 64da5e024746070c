// Package journal records request metadata in a local SQLite database.
//
// The journal is opt-in (journal.enabled in the config file). It stores one
// row per HTTP exchange with the PhishGuard server: request id, method, path,
// status, latency and a transport error string when there was one. Response
// bodies, scan results, history and settings are never stored; the server is
// the only source of truth for those.
package journal

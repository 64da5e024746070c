// Package transport builds the *http.Client used to talk to a PhishGuard
// server.
//
// The client carries a publicsuffix-aware cookie jar so the server's
// visitor_id cookie (and the admin session cookie after a login) survive
// across requests of one process. A preset visitor id from the config file is
// seeded into the jar so history stays tied to the same identity across runs.
// Requests can optionally be routed through a SOCKS5 proxy.
package transport

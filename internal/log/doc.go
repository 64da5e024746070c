// Package log provides the phishguard logger: a slog handler wrapper that
// masks credentials before records reach the output.
//
// The client handles three kinds of secrets that must never appear in logs,
// even with --verbose:
//   - the admin portal password (form field "password", settings key "admin_pass")
//   - the visitor_id cookie that ties a terminal to its server-side history
//   - the Flask session cookie issued after an admin login
//
// Keys are matched case-insensitively, string values are matched against
// known token shapes, and URL values have sensitive query parameters masked.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("request", "url", "http://host/scan?token=abc", "cookie", "visitor_id=...")
//	// url=http://host/scan?token=***REDACTED*** cookie=***REDACTED***
package log

// Package main provides the entry point for the PhishGuard client CLI.
//
// The client talks to a PhishGuard phishing-detection server: it submits
// URLs or files for scanning, shows the visitor's scan history, and drives
// the admin operations (settings, trusted domains, training data, history
// moderation).
//
// Usage:
//
//	phishguard scan https://example.com/login
//	phishguard history
//	phishguard ui
//
// See --help for all available options.
package main

// main is the entry point for phishguard.
func main() {
	Execute()
}

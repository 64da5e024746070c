// Package config provides configuration structures and utilities for the
// PhishGuard client. It defines the server connection options, the endpoint
// route profiles, history display limits, and output preferences, and loads
// overrides from a YAML configuration file.
package config

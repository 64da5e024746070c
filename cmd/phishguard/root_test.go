package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "phishguard" {
			t.Errorf("expected use 'phishguard', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has persistent flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
		}{
			{"verbose", "v"},
			{"config", "c"},
			{"server", "s"},
			{"format", "f"},
			{"timeout", "t"},
			{"profile", ""},
			{"proxy", ""},
			{"visitor", ""},
			{"rate", ""},
			{"journal", ""},
			{"login", ""},
			{"json-logs", ""},
		}
		for _, tt := range tests {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := []string{"scan", "history", "settings", "domain", "train", "theme",
			"admin", "health", "journal", "ui", "init", "version"}
		have := map[string]bool{}
		for _, sub := range cmd.Commands() {
			have[sub.Name()] = true
		}
		for _, name := range want {
			if !have[name] {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

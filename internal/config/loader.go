package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".phishguard"

// xdgConfigFile is the file name looked up inside the XDG config directory.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .phishguard configuration file.
// Zero values mean "not set" and leave the corresponding Config field alone.
type File struct {
	Server  ServerSection  `yaml:"server,omitempty"`
	Routes  RoutesSection  `yaml:"routes,omitempty"`
	History HistorySection `yaml:"history,omitempty"`
	Output  OutputSection  `yaml:"output,omitempty"`
	Journal JournalSection `yaml:"journal,omitempty"`
}

// ServerSection configures how the server is reached.
type ServerSection struct {
	URL               string            `yaml:"url,omitempty"`
	Timeout           time.Duration     `yaml:"timeout,omitempty"`
	Proxy             string            `yaml:"proxy,omitempty"`
	VisitorID         string            `yaml:"visitor_id,omitempty"`
	Headers           map[string]string `yaml:"headers,omitempty"`
	UserAgent         string            `yaml:"user_agent,omitempty"`
	RequestsPerSecond float64           `yaml:"requests_per_second,omitempty"`
}

// RoutesSection selects a route profile and overrides individual paths.
type RoutesSection struct {
	Profile   string `yaml:"profile,omitempty"`
	Overrides Routes `yaml:"overrides,omitempty"`
}

// HistorySection configures history display.
type HistorySection struct {
	Limit int `yaml:"limit,omitempty"`
}

// OutputSection configures rendering.
type OutputSection struct {
	Format string `yaml:"format,omitempty"`
}

// JournalSection configures the local request journal.
type JournalSection struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .phishguard in the current directory
// 3. Look for .phishguard in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Apply overlays the non-zero values of the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	s := cf.Server
	if s.URL != "" {
		cfg.ServerURL = s.URL
	}
	if s.Timeout != 0 {
		cfg.Timeout = s.Timeout
	}
	if s.Proxy != "" {
		cfg.ProxyAddress = s.Proxy
	}
	if s.VisitorID != "" {
		cfg.VisitorID = s.VisitorID
	}
	if len(s.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range s.Headers {
			cfg.Headers[k] = v
		}
	}
	if s.UserAgent != "" {
		cfg.UserAgent = s.UserAgent
	}
	if s.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = s.RequestsPerSecond
	}

	if cf.Routes.Profile != "" {
		cfg.RouteProfile = cf.Routes.Profile
	}
	cfg.RouteOverrides = cfg.RouteOverrides.WithOverrides(cf.Routes.Overrides)

	if cf.History.Limit != 0 {
		cfg.HistoryLimit = cf.History.Limit
	}
	if cf.Output.Format != "" {
		cfg.Format = cf.Output.Format
	}
	if cf.Journal.Enabled {
		cfg.JournalEnabled = true
	}
	if cf.Journal.Dir != "" {
		cfg.JournalDir = cf.Journal.Dir
	}
}

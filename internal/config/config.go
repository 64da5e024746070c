package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultServerURL is where a locally started PhishGuard server listens.
	DefaultServerURL = "http://127.0.0.1:8080"

	// DefaultTimeout bounds every request. Scans that upload a file and
	// retraining may take several seconds on the server.
	DefaultTimeout = 30 * time.Second

	// DefaultHistoryLimit is how many of the most recent scans are displayed.
	DefaultHistoryLimit = 10

	// DefaultRouteProfile is the unified application path set.
	DefaultRouteProfile = ProfilePortal

	// DefaultFormat is the human-readable terminal output.
	DefaultFormat = FormatText

	// DefaultBatchSize is the number of concurrent scans for multi-target scans.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "phishguard"

	// DefaultUserAgent identifies the client in server logs.
	DefaultUserAgent = "phishguard-client/1.0 (+https://github.com/nao1215/phishguard)"

	// DefaultMaxUploadSize mirrors the server's upload limit (5MB).
	DefaultMaxUploadSize = 5 * 1024 * 1024
)

// Output formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHTML     = "html"
)

// Config holds all configuration options for the PhishGuard client.
// It is populated from defaults, the configuration file, and CLI flags,
// in that order, and passed to components explicitly.
type Config struct {
	// ServerURL is the base URL of the PhishGuard server.
	ServerURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// HistoryLimit caps the number of history entries displayed.
	HistoryLimit int

	// RouteProfile selects the endpoint path set (admin or portal).
	RouteProfile string

	// RouteOverrides replaces individual paths of the selected profile.
	RouteOverrides Routes

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// VisitorID presets the visitor_id cookie so history survives across runs.
	// When empty the server assigns one on the first page load.
	VisitorID string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64

	// Format is the output format: text, markdown, json or html.
	Format string

	// Verbose enables debug logging.
	Verbose bool

	// JSONLogs switches the log handler to JSON lines.
	JSONLogs bool

	// ConfigFilePath is the explicit configuration file, if any.
	ConfigFilePath string

	// JournalEnabled records request metadata in the local journal database.
	JournalEnabled bool

	// JournalDir is where the journal database lives.
	// Defaults to the XDG data directory (~/.local/share/phishguard on Linux).
	JournalDir string

	// BatchSize is the number of concurrent scans for multi-target scans.
	BatchSize int

	// MaxUploadSize is the largest file the client will attempt to upload.
	MaxUploadSize int64
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ServerURL:     DefaultServerURL,
		Timeout:       DefaultTimeout,
		HistoryLimit:  DefaultHistoryLimit,
		RouteProfile:  DefaultRouteProfile,
		UserAgent:     DefaultUserAgent,
		Format:        DefaultFormat,
		JournalDir:    XDGDataDir(),
		BatchSize:     DefaultBatchSize,
		MaxUploadSize: DefaultMaxUploadSize,
		Headers:       make(map[string]string),
	}
}

// XDGDataDir returns the XDG data directory for the client.
// On Linux: ~/.local/share/phishguard
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the client.
// On Linux: ~/.config/phishguard
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Routes resolves the selected profile and applies overrides.
func (c *Config) Routes() (Routes, error) {
	r, err := RoutesForProfile(c.RouteProfile)
	if err != nil {
		return Routes{}, err
	}
	return r.WithOverrides(c.RouteOverrides), nil
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return ErrNoServerURL
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidServerURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.HistoryLimit <= 0 {
		return ErrInvalidHistoryLimit
	}

	routes, err := c.Routes()
	if err != nil {
		return err
	}
	if err := routes.Validate(); err != nil {
		return err
	}

	switch c.Format {
	case FormatText, FormatMarkdown, FormatJSON, FormatHTML:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.RequestsPerSecond < 0 {
		return ErrInvalidRateLimit
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/controller"
	"github.com/nao1215/phishguard/internal/journal"
	"github.com/nao1215/phishguard/internal/log"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/transport"
	"github.com/nao1215/phishguard/internal/view"
)

// app is everything one command invocation needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *api.Client
	journal *journal.Journal
	view    *view.View
	ctrl    *controller.Controller
}

// buildConfig creates a Config from defaults, the configuration file and
// the persistent flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" && cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	if path != "" {
		cf, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cf.Apply(cfg)
	}

	if flags.Changed("server") {
		if cfg.ServerURL, err = flags.GetString("server"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("profile") {
		if cfg.RouteProfile, err = flags.GetString("profile"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
		cfg.Format = strings.ToLower(cfg.Format)
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("visitor") {
		if cfg.VisitorID, err = flags.GetString("visitor"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("rate") {
		if cfg.RequestsPerSecond, err = flags.GetFloat64("rate"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("journal") {
		if cfg.JournalEnabled, err = flags.GetBool("journal"); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("batch"); f != nil && f.Changed {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return nil, err
		}
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.JSONLogs, err = flags.GetBool("json-logs"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newApp wires transport, API client, journal, renderer, view and controller.
func newApp(cmd *cobra.Command, viewOpts ...view.Option) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), cfg.Verbose, cfg.JSONLogs)

	routes, err := cfg.Routes()
	if err != nil {
		return nil, err
	}
	hc, err := transport.NewHTTPClient(transport.Options{
		ServerURL:    cfg.ServerURL,
		Timeout:      cfg.Timeout,
		ProxyAddress: cfg.ProxyAddress,
		VisitorID:    cfg.VisitorID,
		Headers:      cfg.Headers,
		UserAgent:    cfg.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	opts := []api.Option{
		api.WithHTTPClient(hc),
		api.WithLogger(logger),
		api.WithRateLimit(cfg.RequestsPerSecond),
		api.WithMaxUploadSize(cfg.MaxUploadSize),
	}
	if cfg.JournalEnabled {
		j, err := journal.Open(cfg.JournalDir, journal.DefaultOptions())
		if err != nil {
			return nil, err
		}
		a.journal = j
		opts = append(opts, api.WithRecorder(j))
	}

	a.client, err = api.New(cfg.ServerURL, routes, opts...)
	if err != nil {
		a.close()
		return nil, err
	}

	r, err := render.New(cfg.Format)
	if err != nil {
		a.close()
		return nil, err
	}
	a.view = view.New(viewOpts...)
	a.ctrl = controller.New(a.client, a.view, r,
		controller.WithLogger(logger),
		controller.WithHistoryLimit(cfg.HistoryLimit),
		controller.WithConcurrency(cfg.BatchSize),
	)
	return a, nil
}

func (a *app) close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("failed to close journal", "error", err)
	}
}

// bootstrap loads the index page so the server assigns a visitor cookie.
// Skipped when a visitor ID is configured.
func (a *app) bootstrap(ctx context.Context) {
	if a.cfg.VisitorID != "" {
		return
	}
	if err := a.client.Bootstrap(ctx); err != nil {
		a.logger.Debug("bootstrap failed", "error", err)
		return
	}
	a.logger.Debug("visitor assigned", "visitor_id", transport.VisitorID(a.client.HTTPClient(), a.cfg.ServerURL))
}

// print writes the named regions that hold content, followed by any notice.
func (a *app) print(w io.Writer, names ...view.Name) {
	names = append(names, view.Notice)
	for _, name := range names {
		body := a.view.Fragment(name).Body
		if body == "" {
			continue
		}
		fmt.Fprint(w, body)
		if !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(w)
		}
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// shownError is an error whose message has already been printed as a
// rendered fragment. Execute only sets the exit status for it.
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }

func (e *shownError) Unwrap() error { return e.err }

// shown marks err as already displayed.
func shown(err error) error {
	if err == nil {
		return nil
	}
	return &shownError{err: err}
}

package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/batch"
	"github.com/nao1215/phishguard/internal/config"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// API is the server surface the controller drives. *api.Client implements it.
type API interface {
	Scan(ctx context.Context, target string, file *api.Upload) ([]model.ScanResult, error)
	History(ctx context.Context) ([]model.HistoryEntry, error)
	ClearHistory(ctx context.Context) (*api.StatusResponse, error)
	GetTheme(ctx context.Context) (model.Theme, error)
	SetTheme(ctx context.Context, theme model.Theme) (model.Theme, error)
	Settings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, s *model.Settings) (*api.SaveSettingsResponse, error)
	AddDomain(ctx context.Context, domain string) (*api.DomainResponse, error)
	RemoveDomain(ctx context.Context, domain string) (*api.DomainResponse, error)
	UploadCSV(ctx context.Context, file *api.Upload) (*api.UploadResponse, error)
	Retrain(ctx context.Context) (*api.StatusResponse, error)
	AdminHistory(ctx context.Context, f api.HistoryFilter) (json.RawMessage, error)
	RemoveHistory(ctx context.Context, index int) (*api.StatusResponse, error)
	DownloadHistory(ctx context.Context) ([]model.HistoryEntry, error)
	Login(ctx context.Context, password string) error
	Health(ctx context.Context) (*api.HealthResponse, error)
}

var _ API = (*api.Client)(nil)

// Controller runs user operations against the server and renders their
// outcome into view regions.
type Controller struct {
	api      API
	view     *view.View
	renderer render.Renderer
	logger   *slog.Logger

	// historyLimit caps the displayed user history.
	historyLimit int

	// concurrency bounds ScanBatch.
	concurrency int

	mu sync.Mutex
	// settings is the last fetched settings object; saves merge into it.
	settings *model.Settings
	// filter is the last admin history filter, reused after a removal.
	filter api.HistoryFilter
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithHistoryLimit caps the displayed history. Non-positive values keep the default.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

// WithConcurrency bounds the number of concurrent scans in ScanBatch.
func WithConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// New creates a Controller.
func New(client API, v *view.View, r render.Renderer, opts ...Option) *Controller {
	c := &Controller{
		api:          client,
		view:         v,
		renderer:     r,
		historyLimit: config.DefaultHistoryLimit,
		concurrency:  batch.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// View returns the view the controller writes to.
func (c *Controller) View() *view.View {
	return c.view
}

// Renderer returns the renderer used for every fragment.
func (c *Controller) Renderer() render.Renderer {
	return c.renderer
}

func (c *Controller) region(name view.Name) *view.Region {
	return c.view.Region(name)
}

// commit applies f and logs when a newer request already owns the region.
func (c *Controller) commit(tok view.Token, f render.Fragment) {
	if !c.region(tok.Region()).Commit(tok, f) {
		c.logger.Debug("discarded stale response", "region", tok.Region(), "seq", tok.Seq())
	}
}

// notify shows a transient notification.
func (c *Controller) notify(n render.Notice) {
	c.region(view.Notice).Set(c.renderer.Notice(n))
}

// fail logs err and shows it as a failure notice.
func (c *Controller) fail(title string, err error) {
	c.logger.Warn(title+" failed", "error", err)
	c.notify(render.Failure(title, message(err)))
}

// message is the user-facing text of err.
func message(err error) string {
	apiErr, ok := api.AsError(err)
	switch {
	case !ok:
		return err.Error()
	case apiErr.Message != "":
		return apiErr.Message
	case apiErr.Err != nil:
		return apiErr.Err.Error()
	default:
		return apiErr.Error()
	}
}

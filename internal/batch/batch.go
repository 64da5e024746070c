package batch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/phishguard/internal/model"
)

// DefaultConcurrency is used when no concurrency is configured.
const DefaultConcurrency = 4

// ScanFunc scans a single target.
type ScanFunc func(ctx context.Context, target string) ([]model.ScanResult, error)

// Outcome is the result of scanning one target.
type Outcome struct {
	// Target is the input as given.
	Target string

	// Results holds every result the server returned for the target.
	Results []model.ScanResult

	// Err is the scan error, if any. Results is empty when Err is set.
	Err error
}

// Failed reports whether the scan failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Processor scans targets concurrently.
type Processor struct {
	scan ScanFunc

	// concurrency is the maximum number of scans in flight.
	concurrency int

	logger *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger for batch progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scans.
// Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New creates a Processor that scans each target with scan.
func New(scan ScanFunc, opts ...Option) *Processor {
	p := &Processor{
		scan:        scan,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Concurrency returns the configured limit.
func (p *Processor) Concurrency() int {
	return p.concurrency
}

// Process scans every target and returns one outcome per target, in input
// order. A failed scan does not stop the others; the returned error is
// non-nil only when ctx ends before every scan started.
func (p *Processor) Process(ctx context.Context, targets []string) ([]Outcome, error) {
	outcomes := make([]Outcome, len(targets))
	for i, target := range targets {
		outcomes[i] = Outcome{Target: target}
	}

	// Each callback writes a distinct index.
	err := p.ProcessWithCallback(ctx, targets, func(o Outcome, i int) {
		outcomes[i] = o
	})
	return outcomes, err
}

// ProcessWithCallback scans every target and calls fn as each scan
// completes. fn runs on the scanning goroutine and must be safe for
// concurrent use.
func (p *Processor) ProcessWithCallback(ctx context.Context, targets []string, fn func(o Outcome, index int)) error {
	p.logger.Debug("starting batch scan",
		"targets", len(targets),
		"concurrency", p.concurrency,
	)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			results, err := p.scan(ctx, target)
			if err != nil {
				p.logger.Warn("scan failed", "target", target, "error", err)
				results = nil
			}
			fn(Outcome{Target: target, Results: results, Err: err}, i)

			// Scan failures are reported per outcome, never to the group.
			return nil
		})
	}

	err := g.Wait()
	p.logger.Debug("batch scan complete",
		"targets", len(targets),
		"elapsed", time.Since(start),
	)
	return err
}

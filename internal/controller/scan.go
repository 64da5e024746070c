package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/batch"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// ScanInput is what the user asked to scan. At least one field must be set.
type ScanInput struct {
	// Domain is a URL, a domain or raw text.
	Domain string
	File   *api.Upload
}

// SubmitScan scans the input and renders every result into the Result
// region, then refreshes the history. On failure the Result region holds
// only an error message.
func (c *Controller) SubmitScan(ctx context.Context, in ScanInput) ([]model.ScanResult, error) {
	tok := c.region(view.Result).Begin()

	target := strings.TrimSpace(in.Domain)
	if target == "" && in.File == nil {
		err := invalid("url", ErrNoScanInput)
		c.commit(tok, c.renderer.Validation(ErrNoScanInput.Error()))
		return nil, err
	}

	results, err := c.api.Scan(ctx, target, in.File)
	if err != nil {
		c.logger.Warn("scan failed", "error", err)
		c.commit(tok, c.renderer.Error(message(err)))
		return nil, err
	}
	c.commit(tok, c.renderer.Results(results))

	// A history failure is rendered in its own region.
	if _, err := c.LoadHistory(ctx); err != nil {
		c.logger.Debug("history refresh after scan failed", "error", err)
	}
	return results, nil
}

// ScanBatch scans several targets concurrently and renders all successful
// results, in input order, into the Result region. Failed targets are
// listed in a notice. Blank targets are skipped.
func (c *Controller) ScanBatch(ctx context.Context, targets []string) ([]batch.Outcome, error) {
	tok := c.region(view.Result).Begin()

	cleaned := make([]string, 0, len(targets))
	for _, t := range targets {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		c.commit(tok, c.renderer.Validation(ErrNoScanInput.Error()))
		return nil, invalid("url", ErrNoScanInput)
	}

	scan := func(ctx context.Context, target string) ([]model.ScanResult, error) {
		return c.api.Scan(ctx, target, nil)
	}
	p := batch.New(scan, batch.WithConcurrency(c.concurrency), batch.WithLogger(c.logger))
	outcomes, err := p.Process(ctx, cleaned)

	var (
		results  []model.ScanResult
		failures []string
	)
	for _, o := range outcomes {
		switch {
		case o.Failed():
			failures = append(failures, o.Target+": "+message(o.Err))
		case o.Results == nil:
			// Never started because ctx ended.
			failures = append(failures, o.Target+": not scanned")
		default:
			results = append(results, o.Results...)
		}
	}

	if len(results) == 0 {
		c.commit(tok, c.renderer.Error(strings.Join(failures, "\n")))
	} else {
		c.commit(tok, c.renderer.Results(results))
	}
	if len(failures) > 0 {
		c.notify(render.Failure(
			fmt.Sprintf("Scan: %d of %d failed", len(failures), len(cleaned)),
			strings.Join(failures, "; "),
		))
	}

	if len(results) > 0 {
		if _, herr := c.LoadHistory(ctx); herr != nil {
			c.logger.Debug("history refresh after batch failed", "error", herr)
		}
	}
	if err == nil && len(failures) > 0 {
		err = fmt.Errorf("%d of %d scans failed", len(failures), len(cleaned))
	}
	return outcomes, err
}

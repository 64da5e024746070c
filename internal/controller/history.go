package controller

import (
	"context"

	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// LoadHistory replaces the History region with the most recent entries,
// capped to the history limit. It returns the displayed entries.
func (c *Controller) LoadHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	tok := c.region(view.History).Begin()

	entries, err := c.api.History(ctx)
	if err != nil {
		c.logger.Warn("history failed", "error", err)
		c.commit(tok, c.renderer.Error(message(err)))
		return nil, err
	}
	if len(entries) > c.historyLimit {
		entries = entries[:c.historyLimit]
	}
	c.commit(tok, c.renderer.History(entries))
	return entries, nil
}

// ClearHistory clears the visitor's history and always reloads the listing,
// so the region shows what the server holds even after a failed clear.
// Confirmation is the caller's job.
func (c *Controller) ClearHistory(ctx context.Context) error {
	_, err := c.api.ClearHistory(ctx)
	if err != nil {
		c.fail("Clear history", err)
	} else {
		c.notify(render.Success("Clear history", "history cleared"))
	}

	if _, lerr := c.LoadHistory(ctx); err == nil {
		err = lerr
	}
	return err
}

package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// AdminHistory renders the full history, filtered by f, as indented JSON.
func (c *Controller) AdminHistory(ctx context.Context, f api.HistoryFilter) (json.RawMessage, error) {
	tok := c.region(view.AdminHistory).Begin()

	f.Verdict = strings.ToLower(strings.TrimSpace(f.Verdict))
	f.Domain = model.NormalizeDomain(f.Domain)
	f.UserID = strings.TrimSpace(f.UserID)

	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()

	raw, err := c.api.AdminHistory(ctx, f)
	if err != nil {
		c.logger.Warn("admin history failed", "error", err)
		c.commit(tok, c.renderer.Error(message(err)))
		return nil, err
	}
	c.commit(tok, c.renderer.AdminHistory(raw))
	return raw, nil
}

// RemoveHistoryEntry deletes the entry at index and refreshes the admin
// history with the last used filter.
func (c *Controller) RemoveHistoryEntry(ctx context.Context, index int) error {
	if index < 0 {
		c.region(view.Notice).Set(c.renderer.Validation(ErrInvalidIndex.Error()))
		return invalid("index", ErrInvalidIndex)
	}

	if _, err := c.api.RemoveHistory(ctx, index); err != nil {
		c.fail("Remove entry", err)
		return err
	}
	c.notify(render.Success("Remove entry", fmt.Sprintf("entry %d removed", index)))

	c.mu.Lock()
	f := c.filter
	c.mu.Unlock()
	_, err := c.AdminHistory(ctx, f)
	return err
}

// DownloadHistory returns the full history for export. Only a failure is rendered.
func (c *Controller) DownloadHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	entries, err := c.api.DownloadHistory(ctx)
	if err != nil {
		c.fail("Download history", err)
		return nil, err
	}
	return entries, nil
}

// Login opens an admin session. The session cookie lives only in the
// client's cookie jar.
func (c *Controller) Login(ctx context.Context, password string) error {
	if password == "" {
		c.region(view.Notice).Set(c.renderer.Validation(ErrEmptyPassword.Error()))
		return invalid("password", ErrEmptyPassword)
	}
	if err := c.api.Login(ctx, password); err != nil {
		c.fail("Login", err)
		return err
	}
	c.notify(render.Success("Login", "signed in"))
	return nil
}

// Health checks that the server is up.
func (c *Controller) Health(ctx context.Context) (*api.HealthResponse, error) {
	h, err := c.api.Health(ctx)
	if err != nil {
		c.fail("Health", err)
		return nil, err
	}
	msg := h.Status
	if h.Time != "" {
		msg += " at " + h.Time
	}
	c.notify(render.Success("Health", msg))
	return h, nil
}

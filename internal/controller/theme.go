package controller

import (
	"context"

	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/view"
)

// LoadTheme fetches the server theme and displays it.
func (c *Controller) LoadTheme(ctx context.Context) (model.Theme, error) {
	tok := c.region(view.Theme).Begin()

	t, err := c.api.GetTheme(ctx)
	if err != nil {
		c.fail("Theme", err)
		return c.view.Theme(), err
	}
	if !c.view.CommitTheme(tok, t, c.renderer.Theme(t)) {
		c.logger.Debug("discarded stale theme", "theme", t)
	}
	return t, nil
}

// ToggleTheme flips the displayed theme immediately, then tells the server.
// If the server rejects the change and no newer toggle has been issued, the
// previous theme is displayed again. It returns the theme now displayed.
func (c *Controller) ToggleTheme(ctx context.Context) (model.Theme, error) {
	tok := c.region(view.Theme).Begin()

	prev := c.view.Theme()
	next := prev.Toggle()
	c.view.CommitTheme(tok, next, c.renderer.Theme(next))

	echoed, err := c.api.SetTheme(ctx, next)
	if err != nil {
		if c.view.CommitTheme(tok, prev, c.renderer.Theme(prev)) {
			c.logger.Debug("reverted theme", "theme", prev)
		}
		c.fail("Theme", err)
		return c.view.Theme(), err
	}
	if echoed != next {
		c.view.CommitTheme(tok, echoed, c.renderer.Theme(echoed))
	}
	return c.view.Theme(), nil
}

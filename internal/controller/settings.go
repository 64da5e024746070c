package controller

import (
	"context"
	"fmt"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

// LoadSettings fetches the settings into the Settings region and remembers
// them as the base for the next save.
func (c *Controller) LoadSettings(ctx context.Context) (*model.Settings, error) {
	tok := c.region(view.Settings).Begin()

	s, err := c.api.Settings(ctx)
	if err != nil {
		c.logger.Warn("settings failed", "error", err)
		c.commit(tok, c.renderer.Error(message(err)))
		return nil, err
	}

	c.mu.Lock()
	c.settings = s.Clone()
	c.mu.Unlock()

	c.commit(tok, c.renderer.Settings(s))
	return s, nil
}

// LastSettings returns a copy of the last fetched settings, or nil.
func (c *Controller) LastSettings() *model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.Clone()
}

// SaveSettings merges the edited fields into the last fetched settings,
// fetching them first when none are known, posts the merge and reloads.
// Fields the edit leaves nil, and fields the client does not know, are
// posted exactly as fetched.
func (c *Controller) SaveSettings(ctx context.Context, edit model.SettingsEdit) error {
	if edit.IsEmpty() {
		c.notify(render.Notice{Style: model.StyleCaution, Title: "Settings", Message: ErrEmptySettingsEdit.Error()})
		return invalid("settings", ErrEmptySettingsEdit)
	}
	if edit.TrustedDomains != nil {
		edit.TrustedDomains = model.NormalizeDomainSet(edit.TrustedDomains)
	}

	base := c.LastSettings()
	if base == nil {
		var err error
		if base, err = c.LoadSettings(ctx); err != nil {
			return fmt.Errorf("fetch settings before save: %w", err)
		}
	}

	if _, err := c.api.SaveSettings(ctx, edit.Merge(base)); err != nil {
		c.fail("Save settings", err)
		return err
	}
	c.notify(render.Success("Save settings", "settings saved"))

	_, err := c.LoadSettings(ctx)
	return err
}

// AddDomain normalizes d, adds it to the trusted set and reloads settings.
// A blank domain is rejected without a request.
func (c *Controller) AddDomain(ctx context.Context, d string) error {
	return c.changeDomain(ctx, "Add domain", d, c.api.AddDomain)
}

// RemoveDomain normalizes d, removes it from the trusted set and reloads settings.
func (c *Controller) RemoveDomain(ctx context.Context, d string) error {
	return c.changeDomain(ctx, "Remove domain", d, c.api.RemoveDomain)
}

func (c *Controller) changeDomain(ctx context.Context, title, d string, call func(context.Context, string) (*api.DomainResponse, error)) error {
	domain := model.NormalizeDomain(d)
	if domain == "" {
		c.region(view.Notice).Set(c.renderer.Validation(ErrEmptyDomain.Error()))
		return invalid("domain", ErrEmptyDomain)
	}

	if _, err := call(ctx, domain); err != nil {
		c.fail(title, err)
		return err
	}
	c.notify(render.Success(title, domain))

	_, err := c.LoadSettings(ctx)
	return err
}

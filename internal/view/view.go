package view

import (
	"sync"

	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
)

// Name identifies a region.
type Name string

// Regions owned by every View.
const (
	Result       Name = "result"
	History      Name = "history"
	Settings     Name = "settings"
	Notice       Name = "notice"
	Theme        Name = "theme"
	AdminHistory Name = "admin_history"
)

// Names returns every region name in display order.
func Names() []Name {
	return []Name{Theme, Result, History, Settings, AdminHistory, Notice}
}

// Observer is called after every successful commit.
type Observer func(name Name, f render.Fragment)

// View is the set of regions plus the displayed theme attribute.
type View struct {
	regions  map[Name]*Region
	observer Observer

	mu    sync.RWMutex
	theme model.Theme
}

// Option configures a View.
type Option func(*View)

// WithObserver registers fn to be called after each successful commit.
// fn runs on the committing goroutine, after the region lock is released.
func WithObserver(fn Observer) Option {
	return func(v *View) {
		v.observer = fn
	}
}

// WithTheme sets the initially displayed theme.
func WithTheme(t model.Theme) Option {
	return func(v *View) {
		v.theme = t
	}
}

// New returns a View with every region empty and the light theme displayed.
func New(opts ...Option) *View {
	v := &View{
		regions: make(map[Name]*Region),
		theme:   model.ThemeLight,
	}
	for _, opt := range opts {
		opt(v)
	}
	for _, name := range Names() {
		v.regions[name] = &Region{name: name, notify: v.notify}
	}
	return v
}

func (v *View) notify(name Name, f render.Fragment) {
	if v.observer != nil {
		v.observer(name, f)
	}
}

// Region returns the named region, or nil for an unknown name.
func (v *View) Region(name Name) *Region {
	return v.regions[name]
}

// Fragment returns the current fragment of the named region.
func (v *View) Fragment(name Name) render.Fragment {
	r := v.Region(name)
	if r == nil {
		return render.Fragment{}
	}
	return r.Fragment()
}

// Snapshot returns the non-empty fragments in display order.
func (v *View) Snapshot() []Entry {
	out := make([]Entry, 0, len(v.regions))
	for _, name := range Names() {
		if f := v.regions[name].Fragment(); !f.IsZero() {
			out = append(out, Entry{Name: name, Fragment: f})
		}
	}
	return out
}

// Entry is one region in a Snapshot.
type Entry struct {
	Name     Name
	Fragment render.Fragment
}

// Theme returns the displayed theme.
func (v *View) Theme() model.Theme {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.theme
}

// SetTheme changes the displayed theme unconditionally.
func (v *View) SetTheme(t model.Theme) {
	v.mu.Lock()
	v.theme = t
	v.mu.Unlock()
}

// CommitTheme sets the displayed theme and commits f to the Theme region,
// both only if tok is still the latest Theme reservation.
func (v *View) CommitTheme(tok Token, t model.Theme, f render.Fragment) bool {
	return v.regions[Theme].commit(tok, f, func() { v.SetTheme(t) })
}

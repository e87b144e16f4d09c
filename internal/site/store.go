package site

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Site Store: sitemap, themes, datasources, site attributes
// ─────────────────────────────────────────────────────────────

// Change is published after every committed site mutation.
type Change struct {
	Op   string
	Prev *domain.Site
	Next *domain.Site
}

var errUnchanged = errors.New("unchanged")

// Store owns the site aggregate with the same copy-on-write and silent
// no-op rules as draft.Store.
type Store struct {
	mu     sync.Mutex
	site   *domain.Site
	logger *slog.Logger

	subsMu  sync.Mutex
	subs    map[int]func(Change)
	order   []int
	nextSub int
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store holding a copy of site. A nil site starts empty.
func New(site *domain.Site, opts ...Option) *Store {
	s := &Store{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:   make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.site = normalize(site)
	return s
}

func normalize(site *domain.Site) *domain.Site {
	if site == nil {
		site = &domain.Site{}
	}
	c := domain.CloneSite(site)
	if c.Attributes == nil {
		c.Attributes = map[string]any{}
	}
	if c.Sitemap == nil {
		c.Sitemap = []domain.PageSummary{}
	}
	return c
}

// Subscribe registers fn for committed changes; call the returned func to
// unsubscribe.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(c Change) {
	s.subsMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, id := range s.order {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.subsMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

func (s *Store) mutate(op string, fn func(next *domain.Site) error, attrs ...any) bool {
	s.mu.Lock()
	prev := s.site
	next := domain.CloneSite(prev)
	if err := fn(next); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errUnchanged) {
			return false
		}
		s.logger.Warn("site operation ignored", append([]any{"op", op, "reason", err.Error()}, attrs...)...)
		return false
	}
	s.site = next
	s.mu.Unlock()
	s.publish(Change{Op: op, Prev: prev, Next: next})
	return true
}

// Load replaces the whole site.
func (s *Store) Load(site *domain.Site) {
	next := normalize(site)
	s.mu.Lock()
	prev := s.site
	s.site = next
	s.mu.Unlock()
	s.publish(Change{Op: "load", Prev: prev, Next: next})
}

// ── Queries ────────────────────────────────────────────────

// Site returns the current snapshot. Treat it as read-only.
func (s *Store) Site() *domain.Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.site
}

// Theme returns the theme to render with: the staged preview if any.
func (s *Store) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.site.PreviewTheme != nil {
		return *s.site.PreviewTheme
	}
	return s.site.Theme
}

func (s *Store) Datasource(id string) (domain.Datasource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.site.Datasources {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Datasource{}, false
}

// ── Sitemap ────────────────────────────────────────────────

// UpsertPageSummary adds the page to the sitemap or updates its entry.
func (s *Store) UpsertPageSummary(p domain.PageSummary) bool {
	return s.mutate("upsertPageSummary", func(next *domain.Site) error {
		if p.ID == "" {
			return fmt.Errorf("page summary with empty id")
		}
		for i, cur := range next.Sitemap {
			if cur.ID == p.ID {
				if cur == p {
					return errUnchanged
				}
				next.Sitemap[i] = p
				return nil
			}
		}
		next.Sitemap = append(next.Sitemap, p)
		return nil
	}, "pageId", p.ID)
}

func (s *Store) RemovePage(id string) bool {
	return s.mutate("removePage", func(next *domain.Site) error {
		for i, cur := range next.Sitemap {
			if cur.ID == id {
				next.Sitemap = append(next.Sitemap[:i:i], next.Sitemap[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}, "pageId", id)
}

// ── Themes ─────────────────────────────────────────────────

func themeIndex(themes []domain.Theme, id string) int {
	for i, t := range themes {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// AddTheme adds theme to the library, replacing an entry with the same id,
// and makes it current when selectIt is set.
func (s *Store) AddTheme(theme domain.Theme, selectIt bool) bool {
	return s.mutate("addTheme", func(next *domain.Site) error {
		if theme.ID == "" {
			return fmt.Errorf("theme with empty id")
		}
		t := domain.CloneTheme(theme)
		if i := themeIndex(next.Themes, t.ID); i >= 0 {
			next.Themes[i] = t
		} else {
			next.Themes = append(next.Themes, t)
		}
		if selectIt || next.Theme.ID == t.ID {
			next.Theme = domain.CloneTheme(t)
		}
		return nil
	}, "themeId", theme.ID)
}

// SetTheme makes a library theme current and drops any staged preview.
func (s *Store) SetTheme(id string) bool {
	return s.mutate("setTheme", func(next *domain.Site) error {
		i := themeIndex(next.Themes, id)
		if i < 0 {
			return fmt.Errorf("theme %s: %w", id, domain.ErrNotFound)
		}
		next.Theme = domain.CloneTheme(next.Themes[i])
		next.PreviewTheme = nil
		return nil
	}, "themeId", id)
}

// UpdateTheme merges the non-empty fields of patch into the theme with
// patch.ID, in the library and as current theme. Color and typography
// maps merge per key; tags are replaced.
func (s *Store) UpdateTheme(patch domain.Theme) bool {
	apply := func(t *domain.Theme) {
		if patch.Name != "" {
			t.Name = patch.Name
		}
		if patch.Description != "" {
			t.Description = patch.Description
		}
		if patch.BrowserColorScheme != "" {
			t.BrowserColorScheme = patch.BrowserColorScheme
		}
		if patch.Tags != nil {
			t.Tags = append([]string(nil), patch.Tags...)
		}
		t.Colors = mergeStrings(t.Colors, patch.Colors)
		t.Typography = mergeStrings(t.Typography, patch.Typography)
	}
	return s.mutate("updateTheme", func(next *domain.Site) error {
		found := false
		if i := themeIndex(next.Themes, patch.ID); i >= 0 {
			apply(&next.Themes[i])
			found = true
		}
		if next.Theme.ID == patch.ID && patch.ID != "" {
			apply(&next.Theme)
			found = true
		}
		if !found {
			return fmt.Errorf("theme %s: %w", patch.ID, domain.ErrNotFound)
		}
		return nil
	}, "themeId", patch.ID)
}

func mergeStrings(dst, patch map[string]string) map[string]string {
	if len(patch) == 0 {
		return dst
	}
	out := make(map[string]string, len(dst)+len(patch))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// SetPreviewTheme stages theme without changing the current one.
func (s *Store) SetPreviewTheme(theme domain.Theme) bool {
	return s.mutate("setPreviewTheme", func(next *domain.Site) error {
		t := domain.CloneTheme(theme)
		next.PreviewTheme = &t
		return nil
	}, "themeId", theme.ID)
}

// AcceptPreviewTheme promotes the staged theme to current and adds it to
// the library.
func (s *Store) AcceptPreviewTheme() bool {
	return s.mutate("acceptPreviewTheme", func(next *domain.Site) error {
		if next.PreviewTheme == nil {
			return fmt.Errorf("no preview theme staged")
		}
		t := *next.PreviewTheme
		next.PreviewTheme = nil
		next.Theme = t
		if t.ID == "" {
			return nil
		}
		if i := themeIndex(next.Themes, t.ID); i >= 0 {
			next.Themes[i] = domain.CloneTheme(t)
		} else {
			next.Themes = append(next.Themes, domain.CloneTheme(t))
		}
		return nil
	})
}

func (s *Store) DiscardPreviewTheme() bool {
	return s.mutate("discardPreviewTheme", func(next *domain.Site) error {
		if next.PreviewTheme == nil {
			return errUnchanged
		}
		next.PreviewTheme = nil
		return nil
	})
}

// ── Data ───────────────────────────────────────────────────

func (s *Store) UpsertDatasource(ds domain.Datasource) bool {
	return s.mutate("upsertDatasource", func(next *domain.Site) error {
		if ds.ID == "" {
			return fmt.Errorf("datasource with empty id")
		}
		d := ds
		d.Schema = domain.CloneMap(ds.Schema)
		if ds.Sample != nil {
			d.Sample = domain.CloneValue(ds.Sample).([]map[string]any)
		}
		for i, cur := range next.Datasources {
			if cur.ID == d.ID {
				next.Datasources[i] = d
				return nil
			}
		}
		next.Datasources = append(next.Datasources, d)
		return nil
	}, "datasourceId", ds.ID)
}

func (s *Store) UpsertDatarecord(dr domain.Datarecord) bool {
	return s.mutate("upsertDatarecord", func(next *domain.Site) error {
		if dr.ID == "" {
			return fmt.Errorf("datarecord with empty id")
		}
		d := dr
		d.Schema = domain.CloneMap(dr.Schema)
		for i, cur := range next.Datarecords {
			if cur.ID == d.ID {
				next.Datarecords[i] = d
				return nil
			}
		}
		next.Datarecords = append(next.Datarecords, d)
		return nil
	}, "datarecordId", dr.ID)
}

// UpdateAttributes merges patch into the site attributes with
// domain.MergeProps rules.
func (s *Store) UpdateAttributes(patch map[string]any) bool {
	return s.mutate("updateAttributes", func(next *domain.Site) error {
		if len(patch) == 0 {
			return errUnchanged
		}
		next.Attributes = domain.MergeProps(next.Attributes, patch)
		return nil
	})
}

func (s *Store) SetSitePrompt(prompt string) bool {
	return s.mutate("setSitePrompt", func(next *domain.Site) error {
		if next.SitePrompt == prompt {
			return errUnchanged
		}
		next.SitePrompt = prompt
		return nil
	})
}

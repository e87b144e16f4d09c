package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"pagebuilder/internal/autosave"
	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/history"
	"pagebuilder/internal/manifest"
	"pagebuilder/internal/site"
	"pagebuilder/internal/storage"
	"pagebuilder/internal/toolcall"
)

// App owns the document state of one open page and everything around it:
// persistence, history, the assistant bridge and background jobs.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	db          *storage.DB
	docs        *storage.DocumentStore
	checkpoints *storage.CheckpointStore

	manifests *manifest.Registry
	store     *draft.Store
	history   *history.Manager
	site      *site.Store
	editor    *editor.State
	bridge    *toolcall.Bridge
	saver     *autosave.Saver

	cron   *cron.Cron
	cancel context.CancelFunc

	cpMu         sync.Mutex
	lastSnapshot *domain.Page // page snapshot at the last scheduled checkpoint
}

// New opens storage, loads (or creates) the configured site and page and
// wires the stores together. Call Startup to begin background work.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &App{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		docs:        storage.NewDocumentStore(db),
		checkpoints: storage.NewCheckpointStore(db, cfg.CheckpointKeep),
		manifests:   manifest.New(manifest.WithLogger(logger)),
	}
	if cfg.ManifestPath != "" {
		if err := a.manifests.LoadFile(cfg.ManifestPath); err != nil {
			logger.Warn("using built-in manifests", "path", cfg.ManifestPath, "err", err)
		}
	}

	page, err := a.loadPage(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	st, err := a.loadSite(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	a.store = draft.New(page,
		draft.WithLogger(logger),
		draft.WithManifests(a.manifests),
	)
	a.history = history.New(a.store,
		history.WithLimit(cfg.HistoryLimit),
		history.WithLogger(logger),
	)
	a.site = site.New(st, site.WithLogger(logger))
	a.editor = editor.New(a.store,
		editor.WithLogger(logger),
		editor.WithManifests(a.manifests),
	)
	a.bridge = toolcall.New(a.store,
		toolcall.WithLogger(logger),
		toolcall.WithHistory(a.history),
		toolcall.WithSite(a.site),
	)
	a.saver = autosave.New(a.store, a.docs,
		autosave.WithLogger(logger),
		autosave.WithDelay(cfg.AutosaveDelay),
		autosave.WithSite(a.site),
	)

	// Keep the sitemap entry in step with the open page.
	a.site.UpsertPageSummary(a.store.Page().Summary())
	return a, nil
}

func (a *App) loadPage(ctx context.Context) (*domain.Page, error) {
	page, err := a.docs.LoadPage(ctx, a.cfg.PageID)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	page = &domain.Page{
		ID:         a.cfg.PageID,
		Label:      "Home",
		Path:       "/",
		Attributes: map[string]any{},
		Sections: []*domain.Section{
			{ID: uuid.New().String(), Label: "Main", Order: 0, Props: map[string]any{}},
		},
	}
	if err := a.docs.SavePage(ctx, page); err != nil {
		return nil, err
	}
	a.logger.Info("page created", "pageId", page.ID)
	return page, nil
}

func (a *App) loadSite(ctx context.Context) (*domain.Site, error) {
	st, err := a.docs.LoadSite(ctx, a.cfg.SiteID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	st = &domain.Site{ID: a.cfg.SiteID, Label: a.cfg.SiteID, Attributes: map[string]any{}}
	if err := a.docs.SaveSite(ctx, st); err != nil {
		return nil, err
	}
	a.logger.Info("site created", "siteId", st.ID)
	return st, nil
}

// Startup begins background work: manifest reloads and scheduled
// checkpoints. It stops when ctx is done or Shutdown is called.
func (a *App) Startup(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.cfg.ManifestPath != "" {
		if err := a.manifests.Watch(ctx, a.cfg.ManifestPath); err != nil {
			a.logger.Warn("manifest watch disabled", "err", err)
		}
	}

	if a.cfg.CheckpointSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(a.cfg.CheckpointSchedule, func() { a.scheduledCheckpoint(ctx) }); err != nil {
			return fmt.Errorf("checkpoint schedule %q: %w", a.cfg.CheckpointSchedule, err)
		}
		c.Start()
		a.cron = c
		a.logger.Info("checkpoints scheduled", "schedule", a.cfg.CheckpointSchedule, "keep", a.cfg.CheckpointKeep)
	}
	return nil
}

// Shutdown stops background work, writes pending changes and closes the
// database.
func (a *App) Shutdown(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}

	a.saver.Close()
	err := a.saver.Flush(ctx)

	a.bridge.Reset()
	a.editor.Close()
	a.history.Close()
	return errors.Join(err, a.db.Close())
}

func (a *App) Store() *draft.Store                   { return a.store }
func (a *App) History() *history.Manager             { return a.history }
func (a *App) Site() *site.Store                     { return a.site }
func (a *App) Editor() *editor.State                 { return a.editor }
func (a *App) Bridge() *toolcall.Bridge              { return a.bridge }
func (a *App) Manifests() *manifest.Registry         { return a.manifests }
func (a *App) Checkpoints() *storage.CheckpointStore { return a.checkpoints }

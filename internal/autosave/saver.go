package autosave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
	"pagebuilder/internal/site"
)

// ─────────────────────────────────────────────────────────────
// Autosave: debounced writer of committed document state
// ─────────────────────────────────────────────────────────────

// DefaultDelay is the idle window after the last change before a write.
const DefaultDelay = 1500 * time.Millisecond

// writeTimeout bounds a background flush.
const writeTimeout = 10 * time.Second

// Sink persists committed snapshots.
type Sink interface {
	SavePage(ctx context.Context, page *domain.Page) error
	SaveSite(ctx context.Context, s *domain.Site) error
}

// Saver observes the stores and writes the latest snapshot once edits go
// quiet. It only reads committed state.
type Saver struct {
	sink      Sink
	logger    *slog.Logger
	delay     time.Duration
	siteStore *site.Store
	debounced func(func())

	mu          sync.Mutex
	pendingPage *domain.Page
	pendingSite *domain.Site

	flushMu sync.Mutex
	unsubs  []func()
}

type Option func(*Saver)

func WithLogger(l *slog.Logger) Option {
	return func(s *Saver) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithDelay(d time.Duration) Option {
	return func(s *Saver) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithSite also saves the site aggregate.
func WithSite(st *site.Store) Option {
	return func(s *Saver) { s.siteStore = st }
}

// New subscribes a saver to store.
func New(store *draft.Store, sink Sink, opts ...Option) *Saver {
	s := &Saver{
		sink:   sink,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		delay:  DefaultDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debounced = debounce.New(s.delay)

	s.unsubs = append(s.unsubs, store.Subscribe(func(c draft.Change) {
		s.mu.Lock()
		s.pendingPage = c.Next
		s.mu.Unlock()
		s.debounced(s.flushInBackground)
	}))
	if s.siteStore != nil {
		s.unsubs = append(s.unsubs, s.siteStore.Subscribe(func(c site.Change) {
			s.mu.Lock()
			s.pendingSite = c.Next
			s.mu.Unlock()
			s.debounced(s.flushInBackground)
		}))
	}
	return s
}

// Pending reports whether a snapshot is waiting to be written.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingPage != nil || s.pendingSite != nil
}

func (s *Saver) flushInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.logger.Warn("autosave failed, will retry on next change", "err", err)
	}
}

// Flush writes pending snapshots now. A snapshot that fails to write stays
// pending unless a newer one arrived meanwhile.
func (s *Saver) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	page, st := s.pendingPage, s.pendingSite
	s.pendingPage, s.pendingSite = nil, nil
	s.mu.Unlock()

	var errs []error
	if page != nil {
		if err := s.sink.SavePage(ctx, page); err != nil {
			errs = append(errs, fmt.Errorf("save page %s: %w", page.ID, err))
			s.mu.Lock()
			if s.pendingPage == nil {
				s.pendingPage = page
			}
			s.mu.Unlock()
		} else {
			s.logger.Debug("page saved", "pageId", page.ID)
		}
	}
	if st != nil {
		if err := s.sink.SaveSite(ctx, st); err != nil {
			errs = append(errs, fmt.Errorf("save site %s: %w", st.ID, err))
			s.mu.Lock()
			if s.pendingSite == nil {
				s.pendingSite = st
			}
			s.mu.Unlock()
		} else {
			s.logger.Debug("site saved", "siteId", st.ID)
		}
	}
	return errors.Join(errs...)
}

// Close stops observing the stores. Call Flush afterwards to write what is
// still pending.
func (s *Saver) Close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}

package draft

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Draft Store: mutation/query authority over one page document
// ─────────────────────────────────────────────────────────────

// Origin tells subscribers what produced a change.
type Origin string

const (
	OriginEdit    Origin = "edit"
	OriginHistory Origin = "history"
	OriginLoad    Origin = "load"
)

// Change is published after every committed mutation. Prev and Next are
// immutable snapshots and must not be modified by subscribers.
type Change struct {
	Op     string
	Origin Origin
	Prev   *domain.Page
	Next   *domain.Page
}

var (
	// errUnchanged marks an operation that is valid but would not alter the
	// document, e.g. reordering a brick onto its current position.
	errUnchanged = errors.New("unchanged")
	// errAborted wraps a panic recovered while an operation ran.
	errAborted = errors.New("aborted")
)

type subscriber struct {
	id int
	fn func(Change)
}

// Store owns the page document. Every mutation clones the current page,
// applies the change to the clone, rebuilds the index and swaps the clone
// in. Pointers returned by queries are read-only and only valid until the
// next mutation.
//
// Rejected operations (unknown ids, structural violations, list
// boundaries) never panic or return errors: they log a warning and report
// false.
type Store struct {
	mu        sync.Mutex
	page      *domain.Page
	index     Index
	logger    *slog.Logger
	manifests domain.ManifestLookup
	newID     func() string
	now       func() time.Time

	subsMu  sync.Mutex
	subs    []subscriber
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithManifests makes move/delete/duplicate consult brick capability flags.
func WithManifests(m domain.ManifestLookup) Option {
	return func(s *Store) { s.manifests = m }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// New creates a Store holding a copy of page. A nil page starts an empty
// document. It panics if page contains duplicate brick ids; use Load for
// untrusted input.
func New(page *domain.Page, opts ...Option) *Store {
	s := &Store{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.page = normalizePage(page)
	s.index = mustBuildIndex(s.page.Sections)
	return s
}

func normalizePage(page *domain.Page) *domain.Page {
	if page == nil {
		page = &domain.Page{}
	}
	p := domain.ClonePage(page)
	if p.Attributes == nil {
		p.Attributes = map[string]any{}
	}
	if p.Sections == nil {
		p.Sections = []*domain.Section{}
	}
	for _, sec := range p.Sections {
		if sec.Props == nil {
			sec.Props = map[string]any{}
		}
		if sec.Bricks == nil {
			sec.Bricks = []*domain.Brick{}
		}
	}
	return p
}

// Subscribe registers fn to be called after each committed change, in
// subscription order. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish(c Change) {
	s.subsMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()
	for _, sub := range subs {
		sub.fn(c)
	}
}

// tx is the working copy handed to a mutation.
type tx struct {
	page     *domain.Page
	index    Index
	store    *Store
	reserved map[string]bool // ids handed out by freshID
}

// mutate runs fn against a clone of the current page and commits it when
// fn succeeds. attrs are added to the diagnostic logged on rejection.
func (s *Store) mutate(op string, fn func(t *tx) error, attrs ...any) bool {
	prev, next, err := s.commit(fn)
	if err != nil {
		switch {
		case errors.Is(err, errUnchanged):
			s.logger.Debug("draft operation changed nothing", append([]any{"op", op}, attrs...)...)
		case errors.Is(err, errAborted):
			s.logger.Error("draft operation aborted", append([]any{"op", op, "reason", err.Error()}, attrs...)...)
		default:
			s.logger.Warn("draft operation ignored", append([]any{"op", op, "reason", err.Error()}, attrs...)...)
		}
		return false
	}
	s.publish(Change{Op: op, Origin: OriginEdit, Prev: prev, Next: next})
	return true
}

// commit holds the lock only around fn and the index rebuild. A panic in
// either leaves the current page untouched and comes back as errAborted.
func (s *Store) commit(fn func(t *tx) error) (prev, next *domain.Page, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			prev, next, err = nil, nil, fmt.Errorf("%w: %v", errAborted, r)
		}
	}()
	prev = s.page
	next = domain.ClonePage(prev)
	t := &tx{page: next, index: mustBuildIndex(next.Sections), store: s}
	if err := fn(t); err != nil {
		return nil, nil, err
	}
	s.index = mustBuildIndex(next.Sections)
	s.page = next
	return prev, next, nil
}

// Load replaces the whole document, e.g. when the editor switches pages.
// Subscribers see OriginLoad and the undo history starts over.
func (s *Store) Load(page *domain.Page) error {
	p, idx, err := prepare(page)
	if err != nil {
		return fmt.Errorf("load page: %w", err)
	}
	s.swap("load", OriginLoad, p, idx)
	return nil
}

// Replace swaps in a whole new document as an ordinary edit, so the page it
// replaces stays one undo away. AI page generation goes through here.
func (s *Store) Replace(page *domain.Page) error {
	p, idx, err := prepare(page)
	if err != nil {
		return fmt.Errorf("replace page: %w", err)
	}
	s.swap("replacePage", OriginEdit, p, idx)
	return nil
}

func prepare(page *domain.Page) (*domain.Page, Index, error) {
	if page != nil {
		if err := domain.CheckSections(page.Sections); err != nil {
			return nil, nil, err
		}
	}
	p := normalizePage(page)
	idx, err := BuildIndex(p.Sections)
	if err != nil {
		return nil, nil, fmt.Errorf("page %s: %w", p.ID, err)
	}
	return p, idx, nil
}

// Restore replaces the document with a snapshot previously published by
// this store. It is used by the undo history.
func (s *Store) Restore(page *domain.Page) {
	p := domain.ClonePage(page)
	s.swap("restore", OriginHistory, p, mustBuildIndex(p.Sections))
}

func (s *Store) swap(op string, origin Origin, p *domain.Page, idx Index) {
	s.mu.Lock()
	prev := s.page
	s.page = p
	s.index = idx
	s.mu.Unlock()
	s.publish(Change{Op: op, Origin: origin, Prev: prev, Next: p})
}

// allows reports whether the manifest for b's type grants the capability.
// Unknown types and a store without manifests allow everything.
func (s *Store) allows(b *domain.Brick, capability func(domain.Manifest) bool) bool {
	if s.manifests == nil {
		return true
	}
	m, ok := s.manifests.Lookup(b.Type)
	if !ok {
		return true
	}
	return capability(m)
}

func canMove(m domain.Manifest) bool      { return m.Movable }
func canDelete(m domain.Manifest) bool    { return m.Deletable }
func canDuplicate(m domain.Manifest) bool { return m.Duplicatable }

package history

import (
	"io"
	"log/slog"
	"reflect"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
)

// ─────────────────────────────────────────────────────────────
// Undo/Redo: bounded snapshot history over a draft.Store
// ─────────────────────────────────────────────────────────────

// DefaultLimit is the number of undo steps kept per document.
const DefaultLimit = 100

// Manager records the previous page snapshot of every committed edit.
// Snapshots published by draft.Store are immutable, so they are stored as
// is; restoring one hands the store a copy.
type Manager struct {
	mu     sync.Mutex
	store  *draft.Store
	logger *slog.Logger
	limit  int

	past   []*domain.Page
	future []*domain.Page

	batchDepth int
	batchStart *domain.Page

	unsubscribe func()
}

type Option func(*Manager)

// WithLimit caps the past stack; the oldest entries are evicted first.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New attaches a history to store. Call Close to detach it.
func New(store *draft.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		limit:  DefaultLimit,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.unsubscribe = store.Subscribe(m.onChange)
	return m
}

// Close stops recording.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Manager) onChange(c draft.Change) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch c.Origin {
	case draft.OriginHistory:
		return
	case draft.OriginLoad:
		m.clearLocked()
		return
	}

	if m.batchDepth > 0 {
		if m.batchStart == nil {
			m.batchStart = c.Prev
		}
		return
	}
	m.pushLocked(c.Op, c.Prev, c.Next)
}

// pushLocked records prev unless the change was a no-op or prev equals the
// snapshot already on top of the past stack.
func (m *Manager) pushLocked(op string, prev, next *domain.Page) {
	if samePage(prev, next) {
		m.logger.Debug("history: no-op change skipped", "op", op)
		return
	}
	if n := len(m.past); n > 0 && samePage(m.past[n-1], prev) {
		m.logger.Debug("history: change coalesced", "op", op)
		return
	}
	m.past = append(m.past, prev)
	if over := len(m.past) - m.limit; over > 0 {
		m.past = append([]*domain.Page(nil), m.past[over:]...)
	}
	m.future = nil
}

// Batch runs fn and records every commit it makes as one history entry.
// Batches nest; only the outermost one records.
func (m *Manager) Batch(fn func()) {
	m.mu.Lock()
	m.batchDepth++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.batchDepth--
		if m.batchDepth > 0 || m.batchStart == nil {
			return
		}
		start := m.batchStart
		m.batchStart = nil
		m.pushLocked("batch", start, m.store.Page())
	}()
	fn()
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo or a batch is running.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	if len(m.past) == 0 || m.batchDepth > 0 {
		m.mu.Unlock()
		return false
	}
	target := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append(m.future, m.store.Page())
	m.mu.Unlock()

	m.store.Restore(target)
	return true
}

// Redo re-applies the most recently undone snapshot.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	if len(m.future) == 0 || m.batchDepth > 0 {
		m.mu.Unlock()
		return false
	}
	target := m.future[len(m.future)-1]
	m.future = m.future[:len(m.future)-1]
	m.past = append(m.past, m.store.Page())
	m.mu.Unlock()

	m.store.Restore(target)
	return true
}

func (m *Manager) PastLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.past)
}

func (m *Manager) FutureLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.future)
}

func (m *Manager) CanUndo() bool { return m.PastLen() > 0 }
func (m *Manager) CanRedo() bool { return m.FutureLen() > 0 }

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	m.past = nil
	m.future = nil
	m.batchStart = nil
}

// samePage compares two snapshots ignoring the lastTouched stamp.
func samePage(a, b *domain.Page) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ca, cb := *a, *b
	ca.LastTouched, cb.LastTouched = 0, 0
	return reflect.DeepEqual(ca, cb)
}

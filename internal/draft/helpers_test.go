package draft_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
)

// ─────────────────────────────────────────────────────────────
// Test helpers
// ─────────────────────────────────────────────────────────────

// recorder is a slog.Handler that keeps every record for assertions.
type recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }
func (r *recorder) WithAttrs([]slog.Attr) slog.Handler      { return r }
func (r *recorder) WithGroup(string) slog.Handler           { return r }

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// warnings returns the "op" attribute of every warning logged so far.
func (r *recorder) warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ops []string
	for _, rec := range r.records {
		if rec.Level != slog.LevelWarn {
			continue
		}
		op := ""
		rec.Attrs(func(a slog.Attr) bool {
			if a.Key == "op" {
				op = a.Value.String()
				return false
			}
			return true
		})
		ops = append(ops, op)
	}
	return ops
}

func leaf(id string) *domain.Brick {
	return &domain.Brick{ID: id, Type: "text", Props: map[string]any{}}
}

func box(id string, children ...*domain.Brick) *domain.Brick {
	b := &domain.Brick{ID: id, Type: "container", Props: map[string]any{}}
	b.SetChildren(children)
	return b
}

func section(id string, order int, bricks ...*domain.Brick) *domain.Section {
	if bricks == nil {
		bricks = []*domain.Brick{}
	}
	return &domain.Section{ID: id, Label: id, Order: order, Props: map[string]any{}, Bricks: bricks}
}

func page(sections ...*domain.Section) *domain.Page {
	return &domain.Page{ID: "p1", Label: "Home", Path: "/", Sections: sections}
}

// counterIDs returns a generator yielding n1, n2, ...
func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func newStore(t *testing.T, p *domain.Page, opts ...draft.Option) (*draft.Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]draft.Option{draft.WithLogger(slog.New(rec)), draft.WithIDGenerator(counterIDs())}, opts...)
	return draft.New(p, opts...), rec
}

func ids(bricks []*domain.Brick) []string {
	out := make([]string, len(bricks))
	for i, b := range bricks {
		out[i] = b.ID
	}
	return out
}

func sectionIDs(sections []*domain.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.ID
	}
	return out
}

// assertIndexConsistent checks the bijection between descent and index.
func assertIndexConsistent(t *testing.T, s *draft.Store) {
	t.Helper()
	idx := s.Index()
	p := s.Page()
	want, err := draft.BuildIndex(p.Sections)
	if err != nil {
		t.Fatalf("document holds duplicate ids: %v", err)
	}
	if len(idx) != domain.CountBricks(p.Sections) {
		t.Fatalf("expected %d index entries, got %d", domain.CountBricks(p.Sections), len(idx))
	}
	for id, e := range want {
		got, ok := idx[id]
		if !ok {
			t.Fatalf("brick %s reachable but not indexed", id)
		}
		if got.Brick != e.Brick || got.SectionID != e.SectionID || got.ParentID != e.ParentID {
			t.Fatalf("stale index entry for %s: got {%s %s}, want {%s %s}",
				id, got.SectionID, got.ParentID, e.SectionID, e.ParentID)
		}
	}
}

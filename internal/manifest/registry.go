package manifest

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Manifest Registry: brick type capabilities
// ─────────────────────────────────────────────────────────────

// Registry resolves brick types to manifests. It implements
// domain.ManifestLookup and is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	manifests map[string]domain.Manifest
	logger    *slog.Logger
}

type Option func(*Registry)

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a registry holding the built-in manifests.
func New(opts ...Option) *Registry {
	r := &Registry{
		manifests: make(map[string]domain.Manifest),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, m := range Builtin() {
		r.Register(m)
	}
	return r
}

// Register adds a manifest. Panics on duplicate registration.
func (r *Registry) Register(m domain.Manifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.manifests[m.Type]; exists {
		panic(fmt.Sprintf("manifest registry: duplicate registration for brick type %q", m.Type))
	}
	r.manifests[m.Type] = m
}

// Lookup returns the manifest for brickType.
func (r *Registry) Lookup(brickType string) (domain.Manifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.manifests[brickType]
	return m, ok
}

// Types lists the registered brick types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.manifests))
	for t := range r.manifests {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ForEach calls fn for every manifest in type order.
func (r *Registry) ForEach(fn func(domain.Manifest)) {
	for _, t := range r.Types() {
		if m, ok := r.Lookup(t); ok {
			fn(m)
		}
	}
}

// replace swaps the whole set in one step so lookups never observe a
// half-loaded file.
func (r *Registry) replace(manifests map[string]domain.Manifest) {
	r.mu.Lock()
	r.manifests = manifests
	r.mu.Unlock()
}

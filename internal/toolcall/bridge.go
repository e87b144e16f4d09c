package toolcall

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"pagebuilder/internal/draft"
	"pagebuilder/internal/history"
	"pagebuilder/internal/site"
)

// ─────────────────────────────────────────────────────────────
// Tool-Call Bridge: assistant tool results onto the document
// ─────────────────────────────────────────────────────────────

var (
	// ErrUnknownTool is logged for tool names outside the closed set.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrRejected means the store refused the operation; the store has
	// already logged why.
	ErrRejected = errors.New("operation rejected by store")
	// ErrUnavailable means the tool needs a collaborator the bridge was
	// built without.
	ErrUnavailable = errors.New("collaborator not configured")

	ErrNotReady       = errors.New("tool output not available yet")
	ErrMissingCallID  = errors.New("missing toolCallId")
	ErrAlreadyApplied = errors.New("tool call already applied")
)

// Bridge applies completed tool calls at most once per call id, in the
// order given.
type Bridge struct {
	store   *draft.Store
	history *history.Manager
	site    *site.Store
	logger  *slog.Logger
	newID   func() string

	mu      sync.Mutex
	applied map[string]bool
}

type Option func(*Bridge)

func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithHistory enables the undo/redo tools and groups multi-step tools into
// one history entry.
func WithHistory(h *history.Manager) Option {
	return func(b *Bridge) { b.history = h }
}

// WithSite enables the sitemap, theme, datasource and attribute tools.
func WithSite(s *site.Store) Option {
	return func(b *Bridge) { b.site = s }
}

// WithIDGenerator sets the generator for ids the assistant left out.
func WithIDGenerator(fn func() string) Option {
	return func(b *Bridge) {
		if fn != nil {
			b.newID = fn
		}
	}
}

func New(store *draft.Store, opts ...Option) *Bridge {
	b := &Bridge{
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:   func() string { return uuid.New().String() },
		applied: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process applies parts in order and returns how many changed something.
// A failing part never stops the ones after it.
func (b *Bridge) Process(parts []Part) int {
	n := 0
	for _, p := range parts {
		if b.Apply(p) {
			n++
		}
	}
	return n
}

// Apply handles one part and reports whether it changed something.
func (b *Bridge) Apply(p Part) bool {
	return b.Run(p) == nil
}

// Run handles one part and returns why it did not apply. Only completed
// outputs act; their call id is marked as handled before dispatch so a
// failing output is not retried when the stream replays it.
func (b *Bridge) Run(p Part) error {
	if p.State != StateOutputAvailable {
		return ErrNotReady
	}
	if p.ToolCallID == "" {
		b.logger.Warn("tool call ignored", "tool", p.Type, "reason", "missing toolCallId")
		return ErrMissingCallID
	}

	b.mu.Lock()
	if b.applied[p.ToolCallID] {
		b.mu.Unlock()
		return ErrAlreadyApplied
	}
	b.applied[p.ToolCallID] = true
	b.mu.Unlock()

	if err := b.dispatch(p); err != nil {
		b.logger.Warn("tool call failed", "tool", string(p.ToolName()), "toolCallId", p.ToolCallID, "err", err)
		return err
	}
	b.logger.Debug("tool call applied", "tool", string(p.ToolName()), "toolCallId", p.ToolCallID)
	return nil
}

// Applied reports whether a call id has been handled.
func (b *Bridge) Applied(callID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applied[callID]
}

// Reset forgets handled call ids, e.g. when a new chat starts.
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applied = make(map[string]bool)
}

func (b *Bridge) dispatch(p Part) error {
	out := p.Output
	switch name := p.ToolName(); name {
	case ToolCreatePage:
		return b.createPage(out)
	case ToolEditPage:
		return b.editPage(out)
	case ToolCreateSection:
		return b.createSection(out)
	case ToolEditSection:
		return b.editSection(out)
	case ToolDeleteSection:
		return b.deleteSection(out)
	case ToolMoveSection:
		return b.moveSection(out)
	case ToolReorderSections:
		return b.reorderSections(out)
	case ToolCreateBrick:
		return b.createBrick(out)
	case ToolEditBrick:
		return b.editBrick(out)
	case ToolDeleteBrick:
		return b.deleteBrick(out)
	case ToolMoveBrick:
		return b.moveBrick(out)
	case ToolDuplicateBrick:
		return b.duplicateBrick(out)
	case ToolCreateTheme:
		return b.createTheme(out)
	case ToolEditTheme:
		return b.editTheme(out)
	case ToolSetPreviewTheme:
		return b.setPreviewTheme(out)
	case ToolCreateDatasource:
		return b.createDatasource(out)
	case ToolCreateDatarecord:
		return b.createDatarecord(out)
	case ToolEditSiteAttributes:
		return b.editSiteAttributes(out)
	case ToolUndo:
		return b.undo()
	case ToolRedo:
		return b.redo()
	default:
		return fmt.Errorf("%w %q", ErrUnknownTool, name)
	}
}

// batch runs fn as a single history entry when a history is attached.
func (b *Bridge) batch(fn func()) {
	if b.history == nil {
		fn()
		return
	}
	b.history.Batch(fn)
}

func applied(ok bool) error {
	if !ok {
		return ErrRejected
	}
	return nil
}

package editor

import (
	"io"
	"log/slog"
	"sync"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
)

// ─────────────────────────────────────────────────────────────
// Editor State: selection, panels and in-flight gestures
// ─────────────────────────────────────────────────────────────

// Panel is the side panel currently open.
type Panel string

const (
	PanelNone      Panel = "none"
	PanelInspector Panel = "inspector"
	PanelLibrary   Panel = "library"
	PanelTheme     Panel = "theme"
	PanelSettings  Panel = "settings"
	PanelChat      Panel = "chat"
)

// Snapshot is a copy of the UI state for readers.
type Snapshot struct {
	SelectedBrickID    string
	SelectedSectionID  string
	HoveredBrickID     string
	TextEditingBrickID string
	Breakpoint         domain.Breakpoint
	Panel              Panel
	Preview            bool
	Drag               *DragSession
	Resize             *ResizeSession
}

// State tracks what the user is looking at and doing. It reads the draft
// store and only writes to it when a gesture commits or a selection-based
// command runs.
//
// The lock is never held while calling a store mutation: the store
// notifies State synchronously.
type State struct {
	mu        sync.Mutex
	store     *draft.Store
	manifests domain.ManifestLookup
	logger    *slog.Logger

	selectedBrick   string
	selectedSection string
	hovered         string
	textEditing     string
	breakpoint      domain.Breakpoint
	panel           Panel
	preview         bool

	drag   *DragSession
	resize *ResizeSession

	unsubscribe func()
}

type Option func(*State)

func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithManifests enables resize constraints and the resizable flag.
func WithManifests(m domain.ManifestLookup) Option {
	return func(s *State) { s.manifests = m }
}

// New creates editor state bound to store.
func New(store *draft.Store, opts ...Option) *State {
	s := &State{
		store:      store,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		breakpoint: domain.BreakpointDesktop,
		panel:      PanelNone,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = store.Subscribe(s.onChange)
	return s
}

// Close detaches the state from the store.
func (s *State) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// onChange drops references that no longer resolve in the new snapshot.
func (s *State) onChange(c draft.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	has := func(id string) bool {
		if id == "" {
			return true
		}
		found := false
		domain.Walk(c.Next.Sections, func(b *domain.Brick, _, _ string) bool {
			found = b.ID == id
			return !found
		})
		return found
	}
	if !has(s.selectedBrick) {
		s.selectedBrick = ""
	}
	if !has(s.hovered) {
		s.hovered = ""
	}
	if !has(s.textEditing) {
		s.textEditing = ""
	}
	if s.selectedSection != "" && domain.FindSection(c.Next.Sections, s.selectedSection) == nil {
		s.selectedSection = ""
	}
	if s.drag != nil && !has(s.drag.SourceID) {
		s.logger.Debug("drag source removed, gesture cancelled", "brickId", s.drag.SourceID)
		s.drag = nil
	}
	if s.resize != nil && !has(s.resize.BrickID) {
		s.logger.Debug("resize target removed, gesture cancelled", "brickId", s.resize.BrickID)
		s.resize = nil
	}
}

// Snapshot returns a copy of the current UI state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		SelectedBrickID:    s.selectedBrick,
		SelectedSectionID:  s.selectedSection,
		HoveredBrickID:     s.hovered,
		TextEditingBrickID: s.textEditing,
		Breakpoint:         s.breakpoint,
		Panel:              s.panel,
		Preview:            s.preview,
	}
	if s.drag != nil {
		d := *s.drag
		snap.Drag = &d
	}
	if s.resize != nil {
		r := *s.resize
		snap.Resize = &r
	}
	return snap
}

// ── Selection ──────────────────────────────────────────────

// SelectBrick selects a brick and its section. Unknown ids are ignored.
func (s *State) SelectBrick(id string) bool {
	sectionID := s.store.SectionOf(id)
	if sectionID == "" {
		s.logger.Warn("select ignored", "op", "selectBrick", "brickId", id, "reason", "unknown brick")
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedBrick = id
	s.selectedSection = sectionID
	return true
}

// SelectSection selects a section and clears the brick selection.
func (s *State) SelectSection(id string) bool {
	if s.store.Section(id) == nil {
		s.logger.Warn("select ignored", "op", "selectSection", "sectionId", id, "reason", "unknown section")
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSection = id
	s.selectedBrick = ""
	return true
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedBrick = ""
	s.selectedSection = ""
	s.textEditing = ""
}

// Hover marks a brick as hovered; an empty id clears it.
func (s *State) Hover(id string) {
	if id != "" && s.store.Brick(id) == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered = id
}

// BeginTextEditing starts inline editing on a brick and selects it.
func (s *State) BeginTextEditing(id string) bool {
	if !s.SelectBrick(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textEditing = id
	return true
}

func (s *State) EndTextEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textEditing = ""
}

func (s *State) SetBreakpoint(bp domain.Breakpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoint = bp
}

func (s *State) OpenPanel(p Panel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panel = p
}

// SetPreview toggles preview mode. Entering preview ends any gesture.
func (s *State) SetPreview(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = on
	if on {
		s.drag = nil
		s.resize = nil
		s.textEditing = ""
	}
}

// ── Selection commands ─────────────────────────────────────

// DeleteSelected deletes the selected brick, or the selected section when
// no brick is selected.
func (s *State) DeleteSelected() bool {
	s.mu.Lock()
	brickID, sectionID := s.selectedBrick, s.selectedSection
	s.mu.Unlock()

	switch {
	case brickID != "":
		return s.store.DeleteBrick(brickID)
	case sectionID != "":
		return s.store.DeleteSection(sectionID)
	}
	return false
}

// DuplicateSelected duplicates the selected brick or section and selects
// the copy.
func (s *State) DuplicateSelected() bool {
	s.mu.Lock()
	brickID, sectionID := s.selectedBrick, s.selectedSection
	s.mu.Unlock()

	switch {
	case brickID != "":
		id, ok := s.store.DuplicateBrickID(brickID)
		if ok {
			s.SelectBrick(id)
		}
		return ok
	case sectionID != "":
		id, ok := s.store.DuplicateSectionID(sectionID)
		if ok {
			s.SelectSection(id)
		}
		return ok
	}
	return false
}

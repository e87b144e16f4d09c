package editor

import (
	"pagebuilder/internal/domain"
)

// ── Drag ───────────────────────────────────────────────────

// DropTarget is where a dragged brick would land. ContainerID is either a
// section id or a container brick id.
type DropTarget struct {
	ContainerID string
	Index       int
}

// DropEvent is what the drag library reports when the pointer is released.
type DropEvent struct {
	SourceID               string
	DestinationContainerID string
	DestinationIndex       int
}

// DragSession is the visual-only state of a drag in progress.
type DragSession struct {
	SourceID string
	Over     *DropTarget
}

// BeginDrag starts dragging a brick. The document is not touched until
// the drop.
func (s *State) BeginDrag(sourceID string) bool {
	if s.store.Brick(sourceID) == nil {
		s.logger.Warn("drag ignored", "op", "beginDrag", "brickId", sourceID, "reason", "unknown brick")
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview {
		return false
	}
	s.drag = &DragSession{SourceID: sourceID}
	s.resize = nil
	return true
}

// UpdateDrag records the current hover target for the drop preview.
func (s *State) UpdateDrag(target DropTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return
	}
	t := target
	s.drag.Over = &t
}

// CancelDrag drops the preview without touching the document.
func (s *State) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
}

// EndDrag commits the drag onto its last previewed target. Without a
// target the gesture is cancelled.
func (s *State) EndDrag() bool {
	s.mu.Lock()
	d := s.drag
	s.drag = nil
	s.mu.Unlock()

	if d == nil || d.Over == nil {
		return false
	}
	return s.applyDrop(DropEvent{
		SourceID:               d.SourceID,
		DestinationContainerID: d.Over.ContainerID,
		DestinationIndex:       d.Over.Index,
	})
}

// Drop ends any drag session and translates ev into exactly one store
// mutation. A drop without a destination is a cancellation.
func (s *State) Drop(ev DropEvent) bool {
	s.mu.Lock()
	s.drag = nil
	s.mu.Unlock()
	return s.applyDrop(ev)
}

func (s *State) applyDrop(ev DropEvent) bool {
	if ev.DestinationContainerID == "" {
		return false
	}
	src, ok := s.store.Entry(ev.SourceID)
	if !ok {
		s.logger.Warn("drop ignored", "op", "drop", "brickId", ev.SourceID, "reason", "unknown brick")
		return false
	}
	current := src.ParentID
	if current == "" {
		current = src.SectionID
	}

	switch {
	case ev.DestinationContainerID == current:
		return s.store.ReorderBrickWithin(ev.SourceID, ev.DestinationIndex)
	case s.store.Section(ev.DestinationContainerID) != nil:
		return s.store.MoveBrickToSection(ev.SourceID, ev.DestinationContainerID, ev.DestinationIndex)
	default:
		return s.store.MoveBrickToContainerBrick(ev.SourceID, ev.DestinationContainerID, ev.DestinationIndex)
	}
}

// ── Resize ─────────────────────────────────────────────────

// ResizeSession is the visual-only state of a resize in progress.
type ResizeSession struct {
	BrickID    string
	Breakpoint domain.Breakpoint
	StartW     float64
	StartH     float64
	W          float64
	H          float64
}

// BeginResize starts resizing a brick on the current breakpoint. Bricks
// whose manifest is not resizable are refused.
func (s *State) BeginResize(id string) bool {
	b := s.store.Brick(id)
	if b == nil {
		s.logger.Warn("resize ignored", "op", "beginResize", "brickId", id, "reason", "unknown brick")
		return false
	}
	if m, ok := s.lookup(b.Type); ok && !m.Resizable {
		s.logger.Warn("resize ignored", "op", "beginResize", "brickId", id, "reason", "not resizable")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview {
		return false
	}
	w, h := size(b, s.breakpoint)
	s.resize = &ResizeSession{BrickID: id, Breakpoint: s.breakpoint, StartW: w, StartH: h, W: w, H: h}
	s.drag = nil
	return true
}

// UpdateResize previews a new size, clamped by the manifest constraints of
// the session's breakpoint.
func (s *State) UpdateResize(w, h float64) {
	s.mu.Lock()
	r := s.resize
	s.mu.Unlock()
	if r == nil {
		return
	}

	if b := s.store.Brick(r.BrickID); b != nil {
		if m, ok := s.lookup(b.Type); ok {
			w, h = m.Sizes[r.Breakpoint].Clamp(w, h)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resize == r {
		s.resize.W, s.resize.H = w, h
	}
}

// EndResize commits the previewed size as one props update, into the
// mobile overrides when the gesture ran on the mobile breakpoint.
func (s *State) EndResize() bool {
	s.mu.Lock()
	r := s.resize
	s.resize = nil
	s.mu.Unlock()

	if r == nil || (r.W == r.StartW && r.H == r.StartH) {
		return false
	}
	return s.store.UpdateBrickProps(r.BrickID, map[string]any{
		"width":  r.W,
		"height": r.H,
	}, r.Breakpoint == domain.BreakpointMobile)
}

// CancelResize reverts the preview without touching the document.
func (s *State) CancelResize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resize = nil
}

func (s *State) lookup(brickType string) (domain.Manifest, bool) {
	if s.manifests == nil {
		return domain.Manifest{}, false
	}
	return s.manifests.Lookup(brickType)
}

// size reads width/height for bp, mobile overrides first.
func size(b *domain.Brick, bp domain.Breakpoint) (float64, float64) {
	read := func(key string) float64 {
		if bp == domain.BreakpointMobile {
			if v, ok := number(b.MobileProps[key]); ok {
				return v
			}
		}
		v, _ := number(b.Props[key])
		return v
	}
	return read("width"), read("height")
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

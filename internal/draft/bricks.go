package draft

import (
	"fmt"

	"pagebuilder/internal/domain"
)

// AddBrick inserts a copy of brick at index within the section's top-level
// list, or within parentID's children when parentID is set. index is
// clamped to the list; a negative index appends. Children the brick
// already carries are indexed with it.
func (s *Store) AddBrick(brick *domain.Brick, sectionID string, index int, parentID string) bool {
	if brick == nil {
		s.logger.Warn("draft operation ignored", "op", "addBrick", "reason", "nil brick")
		return false
	}
	b := domain.CloneBrick(brick)
	if b.Props == nil {
		b.Props = map[string]any{}
	}
	return s.mutate("addBrick", func(t *tx) error {
		if err := t.assertFreeIDs(b); err != nil {
			return err
		}
		list, err := t.sectionList(sectionID)
		if err != nil {
			return err
		}
		if parentID != "" {
			pe, err := t.entry(parentID)
			if err != nil {
				return err
			}
			if pe.SectionID != sectionID {
				return fmt.Errorf("parent %s lives in section %s, not %s", parentID, pe.SectionID, sectionID)
			}
			if list, err = t.containerList(parentID); err != nil {
				return err
			}
		}
		list.set(insertAt(list.bricks, index, b))
		return nil
	}, "brickId", b.ID, "sectionId", sectionID, "parentId", parentID)
}

// DeleteBrick removes the brick and all of its descendants.
func (s *Store) DeleteBrick(id string) bool {
	return s.mutate("deleteBrick", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if !s.allows(e.Brick, canDelete) {
			return fmt.Errorf("delete %s brick: %w", e.Brick.Type, domain.ErrForbidden)
		}
		list, err := t.listOf(e)
		if err != nil {
			return err
		}
		list.set(removeAt(list.bricks, indexOf(list.bricks, id)))
		return nil
	}, "brickId", id)
}

// DuplicateBrick deep-clones the brick subtree with fresh ids and inserts
// the clone right after the original.
func (s *Store) DuplicateBrick(id string) bool {
	_, ok := s.DuplicateBrickID(id)
	return ok
}

// DuplicateBrickID is DuplicateBrick returning the clone's id.
func (s *Store) DuplicateBrickID(id string) (string, bool) {
	var cloneID string
	ok := s.mutate("duplicateBrick", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if !s.allows(e.Brick, canDuplicate) {
			return fmt.Errorf("duplicate %s brick: %w", e.Brick.Type, domain.ErrForbidden)
		}
		list, err := t.listOf(e)
		if err != nil {
			return err
		}
		var genErr error
		clone := domain.CloneBrickWithNewIDs(e.Brick, func() string {
			nid, err := t.freshID()
			if err != nil {
				genErr = err
			}
			return nid
		})
		if genErr != nil {
			return genErr
		}
		cloneID = clone.ID
		list.set(insertAt(list.bricks, indexOf(list.bricks, id)+1, clone))
		return nil
	}, "brickId", id)
	return cloneID, ok
}

// moveTarget resolves the sibling swap for a move in dir. It is shared by
// CanMoveTo and MoveBrick so both always agree.
func moveTarget(s *Store, idx Index, page *domain.Page, id string, dir domain.Direction) (from, to int, err error) {
	e, ok := idx[id]
	if !ok {
		return 0, 0, fmt.Errorf("brick %s: %w", id, domain.ErrNotFound)
	}
	if !s.allows(e.Brick, canMove) {
		return 0, 0, fmt.Errorf("move %s brick: %w", e.Brick.Type, domain.ErrForbidden)
	}
	var siblings []*domain.Brick
	if e.ParentID == "" {
		sec := domain.FindSection(page.Sections, e.SectionID)
		if sec == nil {
			return 0, 0, fmt.Errorf("section %s: %w", e.SectionID, domain.ErrNotFound)
		}
		siblings = sec.Bricks
	} else {
		siblings = idx[e.ParentID].Brick.Children()
	}
	from = indexOf(siblings, id)
	switch dir {
	case domain.DirectionPrevious:
		to = from - 1
	case domain.DirectionNext:
		to = from + 1
	default:
		return 0, 0, fmt.Errorf("unknown direction %q", dir)
	}
	if to < 0 || to >= len(siblings) {
		return 0, 0, fmt.Errorf("move %s: %w", dir, domain.ErrBoundary)
	}
	return from, to, nil
}

// CanMoveTo reports whether MoveBrick(id, dir) would change the document.
func (s *Store) CanMoveTo(id string, dir domain.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, err := moveTarget(s, s.index, s.page, id, dir)
	return err == nil
}

// MoveBrick swaps the brick with its previous or next sibling. It is a
// no-op at the list boundary.
func (s *Store) MoveBrick(id string, dir domain.Direction) bool {
	return s.mutate("moveBrick", func(t *tx) error {
		from, to, err := moveTarget(s, t.index, t.page, id, dir)
		if err != nil {
			return err
		}
		list, err := t.listOf(t.index[id])
		if err != nil {
			return err
		}
		out := make([]*domain.Brick, len(list.bricks))
		copy(out, list.bricks)
		out[from], out[to] = out[to], out[from]
		list.set(out)
		return nil
	}, "brickId", id, "direction", string(dir))
}

// ReorderBrickWithin moves the brick to toIndex inside its current list.
// toIndex is clamped to [0, len-1].
func (s *Store) ReorderBrickWithin(id string, toIndex int) bool {
	return s.mutate("reorderBrickWithin", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if !s.allows(e.Brick, canMove) {
			return fmt.Errorf("move %s brick: %w", e.Brick.Type, domain.ErrForbidden)
		}
		list, err := t.listOf(e)
		if err != nil {
			return err
		}
		from := indexOf(list.bricks, id)
		if toIndex < 0 {
			toIndex = 0
		}
		if toIndex > len(list.bricks)-1 {
			toIndex = len(list.bricks) - 1
		}
		if toIndex == from {
			return errUnchanged
		}
		list.set(insertAt(removeAt(list.bricks, from), toIndex, e.Brick))
		return nil
	}, "brickId", id, "toIndex", toIndex)
}

// MoveBrickToContainerBrick detaches the brick and inserts it into
// newParentID's children at index (negative appends). The index refers to
// the destination list after the brick has been removed.
func (s *Store) MoveBrickToContainerBrick(id, newParentID string, index int) bool {
	return s.mutate("moveBrickToContainerBrick", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if !s.allows(e.Brick, canMove) {
			return fmt.Errorf("move %s brick: %w", e.Brick.Type, domain.ErrForbidden)
		}
		if _, err := t.entry(newParentID); err != nil {
			return err
		}
		for cur := newParentID; cur != ""; cur = t.index[cur].ParentID {
			if cur == id {
				return fmt.Errorf("move %s into %s: %w", id, newParentID, domain.ErrCycle)
			}
		}
		dest, err := t.containerList(newParentID)
		if err != nil {
			return err
		}
		src, err := t.listOf(e)
		if err != nil {
			return err
		}
		src.set(removeAt(src.bricks, indexOf(src.bricks, id)))
		// re-read: source and destination may be the same list
		dest, _ = t.containerList(newParentID)
		dest.set(insertAt(dest.bricks, index, e.Brick))
		return nil
	}, "brickId", id, "parentId", newParentID, "index", index)
}

// MoveBrickToSection detaches the brick and inserts it into the section's
// top-level list at index (negative appends). Descendants follow it.
func (s *Store) MoveBrickToSection(id, sectionID string, index int) bool {
	return s.mutate("moveBrickToSection", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if !s.allows(e.Brick, canMove) {
			return fmt.Errorf("move %s brick: %w", e.Brick.Type, domain.ErrForbidden)
		}
		if _, err := t.section(sectionID); err != nil {
			return err
		}
		src, err := t.listOf(e)
		if err != nil {
			return err
		}
		src.set(removeAt(src.bricks, indexOf(src.bricks, id)))
		dest, err := t.sectionList(sectionID)
		if err != nil {
			return err
		}
		dest.set(insertAt(dest.bricks, index, e.Brick))
		return nil
	}, "brickId", id, "sectionId", sectionID, "index", index)
}

// DetachBrickFromContainer moves a nested brick out of its parent and
// places it right after the parent, in the parent's own list.
func (s *Store) DetachBrickFromContainer(id string) bool {
	return s.mutate("detachBrickFromContainer", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if e.ParentID == "" {
			return fmt.Errorf("brick %s is not inside a container", id)
		}
		src, err := t.listOf(e)
		if err != nil {
			return err
		}
		src.set(removeAt(src.bricks, indexOf(src.bricks, id)))

		pe := t.index[e.ParentID]
		dest, err := t.listOf(pe)
		if err != nil {
			return err
		}
		dest.set(insertAt(dest.bricks, indexOf(dest.bricks, pe.Brick.ID)+1, e.Brick))
		return nil
	}, "brickId", id)
}

// UpdateBrickProps merges patch into the brick's props, or its mobile
// overrides when isMobile is set (see domain.MergeProps). The children
// key is ignored: structure only changes through the move operations.
func (s *Store) UpdateBrickProps(id string, patch map[string]any, isMobile bool) bool {
	clean := make(map[string]any, len(patch))
	for k, v := range patch {
		if k == domain.ChildrenKey {
			s.logger.Warn("draft patch key ignored", "op", "updateBrickProps", "brickId", id, "key", k)
			continue
		}
		clean[k] = v
	}
	return s.mutate("updateBrickProps", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if isMobile {
			e.Brick.MobileProps = domain.MergeProps(e.Brick.MobileProps, clean)
		} else {
			e.Brick.Props = domain.MergeProps(e.Brick.Props, clean)
		}
		t.page.LastTouched = s.now().UnixMilli()
		return nil
	}, "brickId", id, "mobile", isMobile)
}

// ToggleBrickVisibility flips props.hidden[breakpoint].
func (s *Store) ToggleBrickVisibility(id string, bp domain.Breakpoint) bool {
	return s.mutate("toggleBrickVisibility", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		hidden, _ := e.Brick.Props["hidden"].(map[string]any)
		current, _ := hidden[string(bp)].(bool)
		e.Brick.Props = domain.MergeProps(e.Brick.Props, map[string]any{
			"hidden": map[string]any{string(bp): !current},
		})
		t.page.LastTouched = s.now().UnixMilli()
		return nil
	}, "brickId", id, "breakpoint", string(bp))
}

// UpdateBrickType switches the manifest governing the brick, keeping props.
func (s *Store) UpdateBrickType(id, brickType string) bool {
	return s.mutate("updateBrickType", func(t *tx) error {
		e, err := t.entry(id)
		if err != nil {
			return err
		}
		if e.Brick.Type == brickType {
			return errUnchanged
		}
		e.Brick.Type = brickType
		return nil
	}, "brickId", id, "type", brickType)
}

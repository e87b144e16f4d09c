package draft

import (
	"fmt"

	"pagebuilder/internal/domain"
)

// copySuffix is appended to the label of a duplicated section.
const copySuffix = " (copy)"

// sectionIDTaken reports whether id is used by a section or a brick.
func (t *tx) sectionIDTaken(id string) bool {
	if domain.FindSection(t.page.Sections, id) != nil {
		return true
	}
	_, used := t.index[id]
	return used
}

// normalizeOrders reassigns 0..n-1 following the current sort order when
// two sections share an order value. Distinct orders are left untouched.
func (t *tx) normalizeOrders() {
	seen := make(map[int]bool, len(t.page.Sections))
	tie := false
	for _, sec := range t.page.Sections {
		if seen[sec.Order] {
			tie = true
			break
		}
		seen[sec.Order] = true
	}
	if !tie {
		return
	}
	for i, sec := range domain.SortSections(t.page.Sections) {
		sec.Order = i
	}
}

// placeAfter gives sec the order right after afterID, shifting every later
// section by one, and appends it to the page. An empty afterID appends at
// the end.
func (t *tx) placeAfter(sec *domain.Section, afterID string) error {
	if afterID == "" {
		order := 0
		for i, s := range t.page.Sections {
			if i == 0 || s.Order+1 > order {
				order = s.Order + 1
			}
		}
		sec.Order = order
		t.page.Sections = append(t.page.Sections, sec)
		return nil
	}
	after, err := t.section(afterID)
	if err != nil {
		return err
	}
	t.normalizeOrders()
	for _, s := range t.page.Sections {
		if s.Order > after.Order {
			s.Order++
		}
	}
	sec.Order = after.Order + 1
	t.page.Sections = append(t.page.Sections, sec)
	return nil
}

// AddSection inserts a copy of section right after afterID, or at the end
// when afterID is empty. Bricks the section already carries are indexed.
func (s *Store) AddSection(section *domain.Section, afterID string) bool {
	if section == nil {
		s.logger.Warn("draft operation ignored", "op", "addSection", "reason", "nil section")
		return false
	}
	sec := domain.CloneSection(section)
	if sec.Props == nil {
		sec.Props = map[string]any{}
	}
	if sec.Bricks == nil {
		sec.Bricks = []*domain.Brick{}
	}
	return s.mutate("addSection", func(t *tx) error {
		if sec.ID == "" {
			return fmt.Errorf("section with empty id")
		}
		if t.sectionIDTaken(sec.ID) {
			return fmt.Errorf("section %s: %w", sec.ID, domain.ErrDuplicateID)
		}
		if err := t.assertFreeIDs(sec.Bricks...); err != nil {
			return err
		}
		return t.placeAfter(sec, afterID)
	}, "sectionId", sec.ID, "afterId", afterID)
}

// DuplicateSection deep-clones the section with fresh ids for the section
// and every brick, and places the copy right after the original.
func (s *Store) DuplicateSection(id string) bool {
	_, ok := s.DuplicateSectionID(id)
	return ok
}

// DuplicateSectionID is DuplicateSection returning the copy's id.
func (s *Store) DuplicateSectionID(id string) (string, bool) {
	var copyID string
	ok := s.mutate("duplicateSection", func(t *tx) error {
		orig, err := t.section(id)
		if err != nil {
			return err
		}
		var genErr error
		dup := domain.CloneSectionWithNewIDs(orig, func() string {
			nid, err := t.freshID()
			if err != nil {
				genErr = err
			}
			return nid
		})
		if genErr != nil {
			return genErr
		}
		dup.Label = orig.Label + copySuffix
		copyID = dup.ID
		return t.placeAfter(dup, id)
	}, "sectionId", id)
	return copyID, ok
}

// DeleteSection removes the section with all its bricks.
func (s *Store) DeleteSection(id string) bool {
	return s.mutate("deleteSection", func(t *tx) error {
		if _, err := t.section(id); err != nil {
			return err
		}
		kept := make([]*domain.Section, 0, len(t.page.Sections)-1)
		for _, sec := range t.page.Sections {
			if sec.ID != id {
				kept = append(kept, sec)
			}
		}
		t.page.Sections = kept
		return nil
	}, "sectionId", id)
}

// sectionNeighbour returns the section adjacent to id in sort order.
func sectionNeighbour(sections []*domain.Section, id string, dir domain.Direction) (*domain.Section, *domain.Section, error) {
	sorted := domain.SortSections(sections)
	pos := -1
	for i, sec := range sorted {
		if sec.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	other := pos + 1
	if dir == domain.DirectionPrevious {
		other = pos - 1
	}
	if other < 0 || other >= len(sorted) {
		return nil, nil, fmt.Errorf("move section %s: %w", dir, domain.ErrBoundary)
	}
	return sorted[pos], sorted[other], nil
}

func (s *Store) moveSection(op, id string, dir domain.Direction) bool {
	return s.mutate(op, func(t *tx) error {
		if _, _, err := sectionNeighbour(t.page.Sections, id, dir); err != nil {
			return err
		}
		t.normalizeOrders()
		sec, other, err := sectionNeighbour(t.page.Sections, id, dir)
		if err != nil {
			return err
		}
		sec.Order, other.Order = other.Order, sec.Order
		return nil
	}, "sectionId", id)
}

// MoveSectionUp swaps the section's order with the previous section by
// order. No-op for the first section.
func (s *Store) MoveSectionUp(id string) bool {
	return s.moveSection("moveSectionUp", id, domain.DirectionPrevious)
}

// MoveSectionDown swaps the section's order with the next section by
// order. No-op for the last section.
func (s *Store) MoveSectionDown(id string) bool {
	return s.moveSection("moveSectionDown", id, domain.DirectionNext)
}

// ReorderSections assigns orders 1..N following orderedIDs. Sections not
// listed keep their relative order after the listed ones; unknown and
// repeated ids are ignored.
func (s *Store) ReorderSections(orderedIDs []string) bool {
	return s.mutate("reorderSections", func(t *tx) error {
		placed := make(map[string]bool, len(t.page.Sections))
		next := 1
		changed := false
		assign := func(sec *domain.Section) {
			if sec.Order != next {
				changed = true
			}
			sec.Order = next
			placed[sec.ID] = true
			next++
		}
		// sort before assigning so unlisted sections see their previous order
		sorted := domain.SortSections(t.page.Sections)
		for _, id := range orderedIDs {
			sec := domain.FindSection(t.page.Sections, id)
			if sec == nil {
				s.logger.Warn("reorder sections: unknown id", "sectionId", id)
				continue
			}
			if placed[id] {
				continue
			}
			assign(sec)
		}
		for _, sec := range sorted {
			if !placed[sec.ID] {
				assign(sec)
			}
		}
		if !changed {
			return errUnchanged
		}
		return nil
	}, "count", len(orderedIDs))
}

// UpdateSection sets the label when label is non-nil and merges propsPatch
// into the section's props.
func (s *Store) UpdateSection(id string, label *string, propsPatch map[string]any) bool {
	return s.mutate("updateSection", func(t *tx) error {
		sec, err := t.section(id)
		if err != nil {
			return err
		}
		if label == nil && len(propsPatch) == 0 {
			return errUnchanged
		}
		if label != nil {
			sec.Label = *label
		}
		if len(propsPatch) > 0 {
			sec.Props = domain.MergeProps(sec.Props, propsPatch)
		}
		return nil
	}, "sectionId", id)
}

// UpdatePageAttributes merges patch into the page attributes.
func (s *Store) UpdatePageAttributes(patch map[string]any) bool {
	return s.mutate("updatePageAttributes", func(t *tx) error {
		if len(patch) == 0 {
			return errUnchanged
		}
		t.page.Attributes = domain.MergeProps(t.page.Attributes, patch)
		return nil
	})
}

// UpdatePageInfo changes the page label and path. Empty values keep the
// current ones.
func (s *Store) UpdatePageInfo(label, path string) bool {
	return s.mutate("updatePageInfo", func(t *tx) error {
		if label == "" && path == "" {
			return errUnchanged
		}
		if label != "" {
			t.page.Label = label
		}
		if path != "" {
			t.page.Path = path
		}
		return nil
	}, "label", label, "path", path)
}

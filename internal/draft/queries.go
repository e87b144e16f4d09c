package draft

import (
	"pagebuilder/internal/domain"
)

// Queries never mutate. Returned pointers belong to the current snapshot:
// treat them as read-only and do not keep them across a mutation.

// Page returns the current document snapshot.
func (s *Store) Page() *domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Sections returns the sections sorted by order.
func (s *Store) Sections() []*domain.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SortSections(s.page.Sections)
}

func (s *Store) Section(id string) *domain.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.FindSection(s.page.Sections, id)
}

func (s *Store) Brick(id string) *domain.Brick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[id].Brick
}

// Entry returns the index entry for a brick id.
func (s *Store) Entry(id string) (IndexEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.index[id]
	return e, ok
}

// Index returns a copy of the current index.
func (s *Store) Index() Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.clone()
}

// SectionOf returns the id of the section holding the brick, or "".
func (s *Store) SectionOf(brickID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[brickID].SectionID
}

// GetParentBrick returns the container holding the brick, or nil for
// top-level and unknown bricks.
func (s *Store) GetParentBrick(id string) *domain.Brick {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.index[id]
	if !ok || e.ParentID == "" {
		return nil
	}
	return s.index[e.ParentID].Brick
}

// Siblings returns the list holding the brick: its parent's children or
// its section's top-level bricks.
func (s *Store) Siblings(id string) []*domain.Brick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.siblingsLocked(id)
}

func (s *Store) siblingsLocked(id string) []*domain.Brick {
	e, ok := s.index[id]
	if !ok {
		return nil
	}
	if e.ParentID != "" {
		return s.index[e.ParentID].Brick.Children()
	}
	if sec := domain.FindSection(s.page.Sections, e.SectionID); sec != nil {
		return sec.Bricks
	}
	return nil
}

// GetPositionWithinParent returns the brick's position in its containing
// list.
func (s *Store) GetPositionWithinParent(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.siblingsLocked(id), id)
	return i, i >= 0
}

// IsFirstSection reports whether id is the section with the lowest order.
func (s *Store) IsFirstSection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := domain.SortSections(s.page.Sections)
	return len(sorted) > 0 && sorted[0].ID == id
}

// IsLastSection reports whether id is the section with the highest order.
func (s *Store) IsLastSection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := domain.SortSections(s.page.Sections)
	return len(sorted) > 0 && sorted[len(sorted)-1].ID == id
}

package draft

import (
	"fmt"

	"pagebuilder/internal/domain"
)

// brickList is an ordered list of bricks together with the owner it must
// be written back to: a section's top-level list or a container's children.
type brickList struct {
	bricks []*domain.Brick
	set    func([]*domain.Brick)
}

func (t *tx) section(id string) (*domain.Section, error) {
	sec := domain.FindSection(t.page.Sections, id)
	if sec == nil {
		return nil, fmt.Errorf("section %s: %w", id, domain.ErrNotFound)
	}
	return sec, nil
}

func (t *tx) entry(id string) (IndexEntry, error) {
	e, ok := t.index[id]
	if !ok {
		return IndexEntry{}, fmt.Errorf("brick %s: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// listOf returns the list that holds the brick described by e.
func (t *tx) listOf(e IndexEntry) (brickList, error) {
	if e.ParentID == "" {
		return t.sectionList(e.SectionID)
	}
	return t.containerList(e.ParentID)
}

func (t *tx) sectionList(sectionID string) (brickList, error) {
	sec, err := t.section(sectionID)
	if err != nil {
		return brickList{}, err
	}
	return brickList{
		bricks: sec.Bricks,
		set:    func(l []*domain.Brick) { sec.Bricks = l },
	}, nil
}

func (t *tx) containerList(containerID string) (brickList, error) {
	pe, err := t.entry(containerID)
	if err != nil {
		return brickList{}, err
	}
	parent := pe.Brick
	if !parent.IsContainer() {
		return brickList{}, fmt.Errorf("brick %s: %w", containerID, domain.ErrNotContainer)
	}
	return brickList{
		bricks: parent.Children(),
		set:    parent.SetChildren,
	}, nil
}

// assertFreeIDs fails when a subtree holds a nil brick, or when any of its
// ids is already used by a brick or section or repeats among the subtrees.
func (t *tx) assertFreeIDs(bricks ...*domain.Brick) error {
	if err := domain.CheckBricks(bricks); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, b := range bricks {
		for _, id := range domain.SubtreeIDs(b) {
			if id == "" {
				return fmt.Errorf("brick with empty id")
			}
			if _, exists := t.index[id]; exists || seen[id] {
				return fmt.Errorf("brick %s: %w", id, domain.ErrDuplicateID)
			}
			if domain.FindSection(t.page.Sections, id) != nil {
				return fmt.Errorf("brick %s: section id: %w", id, domain.ErrDuplicateID)
			}
			seen[id] = true
		}
	}
	return nil
}

// freshID returns a generated id that is not used by any brick or section.
func (t *tx) freshID() (string, error) {
	for range 8 {
		id := t.store.newID()
		if _, used := t.index[id]; used || t.reserved[id] {
			continue
		}
		if domain.FindSection(t.page.Sections, id) != nil {
			continue
		}
		if t.reserved == nil {
			t.reserved = make(map[string]bool)
		}
		t.reserved[id] = true
		return id, nil
	}
	return "", fmt.Errorf("id generator keeps returning used ids: %w", domain.ErrDuplicateID)
}

func indexOf(list []*domain.Brick, id string) int {
	for i, b := range list {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// clampInsert bounds i to [0, n]; a negative i means the end.
func clampInsert(i, n int) int {
	if i < 0 || i > n {
		return n
	}
	return i
}

func insertAt(list []*domain.Brick, i int, b *domain.Brick) []*domain.Brick {
	i = clampInsert(i, len(list))
	out := make([]*domain.Brick, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, b)
	return append(out, list[i:]...)
}

func removeAt(list []*domain.Brick, i int) []*domain.Brick {
	out := make([]*domain.Brick, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

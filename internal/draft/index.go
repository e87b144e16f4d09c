package draft

import (
	"fmt"

	"pagebuilder/internal/domain"
)

// IndexEntry locates a brick in the document. ParentID is empty for a
// brick that sits in its section's top-level list.
type IndexEntry struct {
	Brick     *domain.Brick
	SectionID string
	ParentID  string
}

// Index maps brick id to its location. It is derived from the sections and
// always rebuilt wholesale, never patched.
type Index map[string]IndexEntry

// BuildIndex derives the index from the nested graph, one entry per brick
// reached by domain.Walk. A repeated id, or a brick id that names a section,
// is reported as domain.ErrDuplicateID.
func BuildIndex(sections []*domain.Section) (Index, error) {
	idx := make(Index)
	sectionIDs := make(map[string]bool, len(sections))
	for _, s := range sections {
		if s != nil {
			sectionIDs[s.ID] = true
		}
	}
	var err error
	domain.Walk(sections, func(b *domain.Brick, sectionID, parentID string) bool {
		if _, exists := idx[b.ID]; exists || sectionIDs[b.ID] {
			err = fmt.Errorf("brick %s: %w", b.ID, domain.ErrDuplicateID)
			return false
		}
		idx[b.ID] = IndexEntry{Brick: b, SectionID: sectionID, ParentID: parentID}
		return true
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func mustBuildIndex(sections []*domain.Section) Index {
	idx, err := BuildIndex(sections)
	if err != nil {
		panic(fmt.Sprintf("draft: index rebuild: %v", err))
	}
	return idx
}

// clone returns a shallow copy: entries share brick pointers.
func (idx Index) clone() Index {
	out := make(Index, len(idx))
	for k, v := range idx {
		out[k] = v
	}
	return out
}

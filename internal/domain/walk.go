package domain

import "fmt"

// WalkFunc is called for every brick reached by a descent. parentID is empty
// for top-level bricks. Returning false stops the walk.
type WalkFunc func(b *Brick, sectionID, parentID string) bool

// Walk visits every brick of the sections depth-first: sections in slice
// order, each section's top-level list in order, recursing into container
// children in order before moving to the next sibling.
func Walk(sections []*Section, fn WalkFunc) {
	for _, s := range sections {
		if s == nil {
			continue
		}
		if !WalkBricks(s.Bricks, s.ID, "", fn) {
			return
		}
	}
}

// WalkBricks visits bricks and their descendants, skipping nil entries. It
// reports whether the walk ran to completion.
func WalkBricks(bricks []*Brick, sectionID, parentID string, fn WalkFunc) bool {
	for _, b := range bricks {
		if b == nil {
			continue
		}
		if !fn(b, sectionID, parentID) {
			return false
		}
		if b.IsContainer() {
			if !WalkBricks(b.Children(), sectionID, b.ID, fn) {
				return false
			}
		}
	}
	return true
}

// SubtreeIDs returns the ids of b and all its descendants in descent order.
func SubtreeIDs(b *Brick) []string {
	var ids []string
	WalkBricks([]*Brick{b}, "", "", func(n *Brick, _, _ string) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// CountBricks returns how many bricks the descent reaches.
func CountBricks(sections []*Section) int {
	n := 0
	Walk(sections, func(*Brick, string, string) bool {
		n++
		return true
	})
	return n
}

// CheckBricks reports ErrNilNode when bricks or any descendant list holds a
// nil entry.
func CheckBricks(bricks []*Brick) error {
	for i, b := range bricks {
		if b == nil {
			return fmt.Errorf("brick at %d: %w", i, ErrNilNode)
		}
		if err := CheckBricks(b.Children()); err != nil {
			return fmt.Errorf("brick %s: %w", b.ID, err)
		}
	}
	return nil
}

// CheckSections is CheckBricks for a whole section list.
func CheckSections(sections []*Section) error {
	for i, s := range sections {
		if s == nil {
			return fmt.Errorf("section at %d: %w", i, ErrNilNode)
		}
		if err := CheckBricks(s.Bricks); err != nil {
			return fmt.Errorf("section %s: %w", s.ID, err)
		}
	}
	return nil
}

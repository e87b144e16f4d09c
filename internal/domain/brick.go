package domain

import (
	"encoding/json"
	"fmt"
)

// ChildrenKey is the reserved prop holding a container brick's children.
const ChildrenKey = "$children"

type Breakpoint string

const (
	BreakpointDesktop Breakpoint = "desktop"
	BreakpointMobile  Breakpoint = "mobile"
)

// Direction is a sibling move direction within a containing list.
type Direction string

const (
	DirectionPrevious Direction = "previous"
	DirectionNext     Direction = "next"
)

// Brick is a single content element. A brick whose Props carries
// ChildrenKey is a container; its children are owned exclusively by it.
type Brick struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Props       map[string]any `json:"props"`
	MobileProps map[string]any `json:"mobileProps,omitempty"`
}

// IsContainer reports whether the brick holds a children list, even an empty one.
func (b *Brick) IsContainer() bool {
	if b == nil || b.Props == nil {
		return false
	}
	_, ok := b.Props[ChildrenKey]
	return ok
}

// Children returns the brick's children, or nil for a leaf.
func (b *Brick) Children() []*Brick {
	if b == nil || b.Props == nil {
		return nil
	}
	children, _ := b.Props[ChildrenKey].([]*Brick)
	return children
}

// SetChildren replaces the children list and turns the brick into a container.
func (b *Brick) SetChildren(children []*Brick) {
	if b.Props == nil {
		b.Props = map[string]any{}
	}
	if children == nil {
		children = []*Brick{}
	}
	b.Props[ChildrenKey] = children
}

// UnmarshalJSON normalizes the children prop into []*Brick.
func (b *Brick) UnmarshalJSON(data []byte) error {
	type rawBrick struct {
		ID          string                     `json:"id"`
		Type        string                     `json:"type"`
		Props       map[string]json.RawMessage `json:"props"`
		MobileProps map[string]any             `json:"mobileProps,omitempty"`
	}
	var raw rawBrick
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.ID = raw.ID
	b.Type = raw.Type
	b.MobileProps = raw.MobileProps
	b.Props = make(map[string]any, len(raw.Props))
	for k, v := range raw.Props {
		if k == ChildrenKey {
			var children []*Brick
			if err := json.Unmarshal(v, &children); err != nil {
				return fmt.Errorf("brick %s children: %w", raw.ID, err)
			}
			b.SetChildren(children)
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("brick %s prop %q: %w", raw.ID, k, err)
		}
		b.Props[k] = val
	}
	return nil
}

// DecodeBrick converts a loosely typed value (usually a tool-call payload)
// into a Brick.
func DecodeBrick(v any) (*Brick, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode brick: %w", err)
	}
	var b Brick
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode brick: %w", err)
	}
	if err := CheckBricks(b.Children()); err != nil {
		return nil, fmt.Errorf("decode brick: %w", err)
	}
	if b.Props == nil {
		b.Props = map[string]any{}
	}
	return &b, nil
}

package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Section is an ordered top-level grouping of bricks. Order only has to be
// consistent relative to sibling sections; values need not be contiguous.
type Section struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Order  int            `json:"order"`
	Props  map[string]any `json:"props"`
	Bricks []*Brick       `json:"bricks"`
}

// Page is one editable document of a site.
type Page struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Path        string         `json:"path"`
	Attributes  map[string]any `json:"attributes"`
	Sections    []*Section     `json:"sections"`
	Tags        []string       `json:"tags,omitempty"`
	LastTouched int64          `json:"lastTouched,omitempty"` // unix millis of the last prop edit
}

// PageSummary is the sitemap entry for a page.
type PageSummary struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Summary returns the sitemap entry for p.
func (p *Page) Summary() PageSummary {
	return PageSummary{ID: p.ID, Label: p.Label, Path: p.Path}
}

// SortSections returns a copy of sections sorted by Order. Ties keep
// their slice order.
func SortSections(sections []*Section) []*Section {
	sorted := make([]*Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// FindSection returns the section with the given id.
func FindSection(sections []*Section, id string) *Section {
	for _, s := range sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// DecodeSection converts a loosely typed value into a Section.
func DecodeSection(v any) (*Section, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode section: %w", err)
	}
	var s Section
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode section: %w", err)
	}
	if err := CheckBricks(s.Bricks); err != nil {
		return nil, fmt.Errorf("decode section: %w", err)
	}
	if s.Props == nil {
		s.Props = map[string]any{}
	}
	if s.Bricks == nil {
		s.Bricks = []*Brick{}
	}
	return &s, nil
}

// DecodePage converts a loosely typed value into a Page.
func DecodePage(v any) (*Page, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if err := CheckSections(p.Sections); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if p.Attributes == nil {
		p.Attributes = map[string]any{}
	}
	for _, s := range p.Sections {
		if s.Props == nil {
			s.Props = map[string]any{}
		}
		if s.Bricks == nil {
			s.Bricks = []*Brick{}
		}
	}
	return &p, nil
}

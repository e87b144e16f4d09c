package domain

import "reflect"

// CloneValue deep-copies the value shapes that appear in props: maps,
// slices, nested bricks. Other slice and map types are copied element by
// element. Scalars are returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case []*Brick:
		out := make([]*Brick, len(t))
		for i, b := range t {
			out[i] = CloneBrick(b)
		}
		return out
	case *Brick:
		return CloneBrick(t)
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i] = CloneMap(m)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	default:
		return cloneReflect(v)
	}
}

func cloneReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(cloneElem(rv.Index(i)))
		}
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return out.Interface()
	default:
		return v
	}
}

// cloneElem deep-copies e and returns it as a value of e's static type.
func cloneElem(e reflect.Value) reflect.Value {
	c := CloneValue(e.Interface())
	if c == nil {
		return reflect.Zero(e.Type())
	}
	return reflect.ValueOf(c).Convert(e.Type())
}

// CloneMap deep-copies m. A nil map stays nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

func CloneBrick(b *Brick) *Brick {
	if b == nil {
		return nil
	}
	return &Brick{
		ID:          b.ID,
		Type:        b.Type,
		Props:       CloneMap(b.Props),
		MobileProps: CloneMap(b.MobileProps),
	}
}

func CloneBricks(bricks []*Brick) []*Brick {
	out := make([]*Brick, len(bricks))
	for i, b := range bricks {
		out[i] = CloneBrick(b)
	}
	return out
}

func CloneSection(s *Section) *Section {
	if s == nil {
		return nil
	}
	return &Section{
		ID:     s.ID,
		Label:  s.Label,
		Order:  s.Order,
		Props:  CloneMap(s.Props),
		Bricks: CloneBricks(s.Bricks),
	}
}

func ClonePage(p *Page) *Page {
	if p == nil {
		return nil
	}
	sections := make([]*Section, len(p.Sections))
	for i, s := range p.Sections {
		sections[i] = CloneSection(s)
	}
	var tags []string
	if p.Tags != nil {
		tags = append([]string{}, p.Tags...)
	}
	return &Page{
		ID:          p.ID,
		Label:       p.Label,
		Path:        p.Path,
		Attributes:  CloneMap(p.Attributes),
		Sections:    sections,
		Tags:        tags,
		LastTouched: p.LastTouched,
	}
}

// CloneBrickWithNewIDs deep-copies b, giving the copy and every descendant
// an id from newID.
func CloneBrickWithNewIDs(b *Brick, newID func() string) *Brick {
	c := CloneBrick(b)
	reassignIDs(c, newID)
	return c
}

// CloneSectionWithNewIDs deep-copies s with a fresh section id and fresh
// ids on every contained brick.
func CloneSectionWithNewIDs(s *Section, newID func() string) *Section {
	c := CloneSection(s)
	c.ID = newID()
	for _, b := range c.Bricks {
		reassignIDs(b, newID)
	}
	return c
}

func reassignIDs(b *Brick, newID func() string) {
	if b == nil {
		return
	}
	b.ID = newID()
	for _, child := range b.Children() {
		reassignIDs(child, newID)
	}
}

// CloneTheme deep-copies t.
func CloneTheme(t Theme) Theme {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Colors != nil {
		c.Colors = CloneValue(t.Colors).(map[string]string)
	}
	if t.Typography != nil {
		c.Typography = CloneValue(t.Typography).(map[string]string)
	}
	return c
}

// CloneSite deep-copies s.
func CloneSite(s *Site) *Site {
	if s == nil {
		return nil
	}
	c := *s
	c.Sitemap = append([]PageSummary(nil), s.Sitemap...)
	c.Theme = CloneTheme(s.Theme)
	if s.PreviewTheme != nil {
		pt := CloneTheme(*s.PreviewTheme)
		c.PreviewTheme = &pt
	}
	c.Themes = make([]Theme, len(s.Themes))
	for i, t := range s.Themes {
		c.Themes[i] = CloneTheme(t)
	}
	c.Datasources = make([]Datasource, len(s.Datasources))
	for i, d := range s.Datasources {
		d.Schema = CloneMap(d.Schema)
		if d.Sample != nil {
			d.Sample = CloneValue(d.Sample).([]map[string]any)
		}
		c.Datasources[i] = d
	}
	c.Datarecords = make([]Datarecord, len(s.Datarecords))
	for i, d := range s.Datarecords {
		d.Schema = CloneMap(d.Schema)
		c.Datarecords[i] = d
	}
	c.Attributes = CloneMap(s.Attributes)
	return &c
}

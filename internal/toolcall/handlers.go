package toolcall

import (
	"errors"
	"fmt"

	"pagebuilder/internal/domain"
)

// ensureIDs gives every brick of the subtree without an id a fresh one.
func (b *Bridge) ensureIDs(bricks ...*domain.Brick) {
	for _, root := range bricks {
		domain.WalkBricks([]*domain.Brick{root}, "", "", func(n *domain.Brick, _, _ string) bool {
			if n.ID == "" {
				n.ID = b.newID()
			}
			return true
		})
	}
}

func (b *Bridge) ensureSectionIDs(sec *domain.Section) {
	if sec.ID == "" {
		sec.ID = b.newID()
	}
	b.ensureIDs(sec.Bricks...)
}

func indexOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}

// ── Page ───────────────────────────────────────────────────

func (b *Bridge) createPage(out map[string]any) error {
	var p createPagePayload
	if err := decode(out, &p); err != nil {
		return err
	}
	page, err := domain.DecodePage(p.Page)
	if err != nil {
		return err
	}
	if page.ID == "" {
		page.ID = b.newID()
	}
	for _, sec := range page.Sections {
		b.ensureSectionIDs(sec)
	}
	if err := b.store.Replace(page); err != nil {
		return err
	}
	if b.site != nil {
		b.site.UpsertPageSummary(page.Summary())
	}
	return nil
}

func (b *Bridge) editPage(out map[string]any) error {
	var p editPagePayload
	if err := decode(out, &p); err != nil {
		return err
	}
	changed := false
	b.batch(func() {
		if p.Label != "" || p.Path != "" {
			changed = b.store.UpdatePageInfo(p.Label, p.Path) || changed
		}
		if len(p.Attributes) > 0 {
			changed = b.store.UpdatePageAttributes(p.Attributes) || changed
		}
	})
	if changed && b.site != nil {
		b.site.UpsertPageSummary(b.store.Page().Summary())
	}
	return applied(changed)
}

// ── Sections ───────────────────────────────────────────────

func (b *Bridge) createSection(out map[string]any) error {
	var p createSectionPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	sec, err := domain.DecodeSection(p.Section)
	if err != nil {
		return err
	}
	b.ensureSectionIDs(sec)
	return applied(b.store.AddSection(sec, p.AfterSectionID))
}

func (b *Bridge) editSection(out map[string]any) error {
	var p editSectionPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	return applied(b.store.UpdateSection(p.SectionID, p.Label, p.Props))
}

func (b *Bridge) deleteSection(out map[string]any) error {
	var p sectionRef
	if err := decode(out, &p); err != nil {
		return err
	}
	return applied(b.store.DeleteSection(p.SectionID))
}

func (b *Bridge) moveSection(out map[string]any) error {
	var p moveSectionPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	if p.Direction == "up" {
		return applied(b.store.MoveSectionUp(p.SectionID))
	}
	return applied(b.store.MoveSectionDown(p.SectionID))
}

func (b *Bridge) reorderSections(out map[string]any) error {
	var p reorderSectionsPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	return applied(b.store.ReorderSections(p.SectionIDs))
}

// ── Bricks ─────────────────────────────────────────────────

func (b *Bridge) createBrick(out map[string]any) error {
	var p createBrickPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	brick, err := domain.DecodeBrick(p.Brick)
	if err != nil {
		return err
	}
	if brick.Type == "" {
		return errors.New("brick without type")
	}
	b.ensureIDs(brick)
	return applied(b.store.AddBrick(brick, p.SectionID, indexOr(p.Index, -1), p.ParentID))
}

func (b *Bridge) editBrick(out map[string]any) error {
	var p editBrickPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	if b.store.Brick(p.BrickID) == nil {
		return fmt.Errorf("brick %s: %w", p.BrickID, domain.ErrNotFound)
	}
	changed := false
	b.batch(func() {
		if p.Type != "" {
			changed = b.store.UpdateBrickType(p.BrickID, p.Type) || changed
		}
		if len(p.Props) > 0 {
			changed = b.store.UpdateBrickProps(p.BrickID, p.Props, false) || changed
		}
		if len(p.MobileProps) > 0 {
			changed = b.store.UpdateBrickProps(p.BrickID, p.MobileProps, true) || changed
		}
	})
	return applied(changed)
}

func (b *Bridge) deleteBrick(out map[string]any) error {
	var p brickRef
	if err := decode(out, &p); err != nil {
		return err
	}
	return applied(b.store.DeleteBrick(p.BrickID))
}

func (b *Bridge) moveBrick(out map[string]any) error {
	var p moveBrickPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	switch {
	case p.Direction != "":
		return applied(b.store.MoveBrick(p.BrickID, domain.Direction(p.Direction)))
	case p.ParentID != "":
		return applied(b.store.MoveBrickToContainerBrick(p.BrickID, p.ParentID, indexOr(p.Index, -1)))
	default:
		return applied(b.store.MoveBrickToSection(p.BrickID, p.SectionID, indexOr(p.Index, -1)))
	}
}

func (b *Bridge) duplicateBrick(out map[string]any) error {
	var p brickRef
	if err := decode(out, &p); err != nil {
		return err
	}
	return applied(b.store.DuplicateBrick(p.BrickID))
}

// ── Site ───────────────────────────────────────────────────

func (b *Bridge) requireSite() error {
	if b.site == nil {
		return fmt.Errorf("site tools: %w", ErrUnavailable)
	}
	return nil
}

func (b *Bridge) createTheme(out map[string]any) error {
	if err := b.requireSite(); err != nil {
		return err
	}
	var p themePayload
	if err := decode(out, &p); err != nil {
		return err
	}
	if p.Theme.ID == "" {
		p.Theme.ID = b.newID()
	}
	return applied(b.site.AddTheme(p.Theme, p.Select))
}

func (b *Bridge) editTheme(out map[string]any) error {
	if err := b.requireSite(); err != nil {
		return err
	}
	var p editThemePayload
	if err := decode(out, &p); err != nil {
		return err
	}
	return applied(b.site.UpdateTheme(p.Theme))
}

func (b *Bridge) setPreviewTheme(out map[string]any) error {
	if err := b.requireSite(); err != nil {
		return err
	}
	var p themePayload
	if err := decode(out, &p); err != nil {
		return err
	}
	if p.Theme.ID == "" {
		p.Theme.ID = b.newID()
	}
	return applied(b.site.SetPreviewTheme(p.Theme))
}

func (b *Bridge) createDatasource(out map[string]any) error {
	if err := b.requireSite(); err != nil {
		return err
	}
	var p datasourcePayload
	if err := decode(out, &p); err != nil {
		return err
	}
	if p.Datasource.ID == "" {
		p.Datasource.ID = b.newID()
	}
	return applied(b.site.UpsertDatasource(p.Datasource))
}

func (b *Bridge) createDatarecord(out map[string]any) error {
	if err := b.requireSite(); err != nil {
		return err
	}
	var p datarecordPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	if p.Datarecord.ID == "" {
		p.Datarecord.ID = b.newID()
	}
	return applied(b.site.UpsertDatarecord(p.Datarecord))
}

func (b *Bridge) editSiteAttributes(out map[string]any) error {
	if err := b.requireSite(); err != nil {
		return err
	}
	var p siteAttributesPayload
	if err := decode(out, &p); err != nil {
		return err
	}
	changed := false
	if len(p.Attributes) > 0 {
		changed = b.site.UpdateAttributes(p.Attributes) || changed
	}
	if p.SitePrompt != nil {
		changed = b.site.SetSitePrompt(*p.SitePrompt) || changed
	}
	return applied(changed)
}

// ── History ────────────────────────────────────────────────

func (b *Bridge) undo() error {
	if b.history == nil {
		return fmt.Errorf("undo: %w", ErrUnavailable)
	}
	if !b.history.Undo() {
		return errors.New("nothing to undo")
	}
	return nil
}

func (b *Bridge) redo() error {
	if b.history == nil {
		return fmt.Errorf("redo: %w", ErrUnavailable)
	}
	if !b.history.Redo() {
		return errors.New("nothing to redo")
	}
	return nil
}

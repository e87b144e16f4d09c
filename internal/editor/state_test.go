package editor_test

import (
	"reflect"
	"testing"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
	"pagebuilder/internal/editor"
	"pagebuilder/internal/history"
	"pagebuilder/internal/manifest"
)

func leaf(id string) *domain.Brick {
	return &domain.Brick{ID: id, Type: "text", Props: map[string]any{}}
}

func box(id string, children ...*domain.Brick) *domain.Brick {
	b := &domain.Brick{ID: id, Type: "container", Props: map[string]any{}}
	b.SetChildren(children)
	return b
}

func ids(bricks []*domain.Brick) []string {
	out := make([]string, len(bricks))
	for i, b := range bricks {
		out[i] = b.ID
	}
	return out
}

func setup(t *testing.T) (*draft.Store, *history.Manager, *editor.State) {
	t.Helper()
	reg := manifest.New()
	img := &domain.Brick{ID: "img", Type: "image", Props: map[string]any{"width": 300.0, "height": 200.0}}
	s := draft.New(&domain.Page{ID: "p1", Sections: []*domain.Section{
		{ID: "s1", Order: 0, Bricks: []*domain.Brick{leaf("a"), leaf("b"), box("c", leaf("x")), img}},
		{ID: "s2", Order: 1, Bricks: []*domain.Brick{leaf("d")}},
	}}, draft.WithManifests(reg))
	h := history.New(s)
	e := editor.New(s, editor.WithManifests(reg))
	t.Cleanup(func() {
		e.Close()
		h.Close()
	})
	return s, h, e
}

func TestState_SelectionFollowsDocument(t *testing.T) {
	s, _, e := setup(t)

	if !e.SelectBrick("x") {
		t.Fatal("expected selection")
	}
	if snap := e.Snapshot(); snap.SelectedBrickID != "x" || snap.SelectedSectionID != "s1" {
		t.Fatalf("expected x in s1 selected, got %+v", snap)
	}
	if e.SelectBrick("nope") {
		t.Error("unknown brick must not be selected")
	}

	e.Hover("x")
	s.DeleteBrick("c")
	snap := e.Snapshot()
	if snap.SelectedBrickID != "" || snap.HoveredBrickID != "" {
		t.Errorf("deleted brick must be deselected, got %+v", snap)
	}
	if snap.SelectedSectionID != "s1" {
		t.Errorf("section selection should survive, got %q", snap.SelectedSectionID)
	}

	s.DeleteSection("s1")
	if e.Snapshot().SelectedSectionID != "" {
		t.Error("deleted section must be deselected")
	}
}

func TestState_SelectionCommands(t *testing.T) {
	s, _, e := setup(t)

	e.SelectBrick("a")
	if !e.DuplicateSelected() {
		t.Fatal("expected duplicate")
	}
	dup := e.Snapshot().SelectedBrickID
	if dup == "a" || s.Brick(dup) == nil {
		t.Fatalf("expected the copy to be selected, got %q", dup)
	}
	if !e.DeleteSelected() {
		t.Fatal("expected delete")
	}
	if s.Brick(dup) != nil {
		t.Error("expected the copy to be gone")
	}

	e.SelectSection("s2")
	if !e.DeleteSelected() || s.Section("s2") != nil {
		t.Error("expected the selected section to be deleted")
	}
	if e.DeleteSelected() {
		t.Error("nothing selected means nothing to delete")
	}
}

func TestState_DropTranslation(t *testing.T) {
	cases := []struct {
		name   string
		ev     editor.DropEvent
		check  func(t *testing.T, s *draft.Store)
		commit bool
	}{
		{
			name:   "same list reorders",
			ev:     editor.DropEvent{SourceID: "a", DestinationContainerID: "s1", DestinationIndex: 2},
			commit: true,
			check: func(t *testing.T, s *draft.Store) {
				if got := ids(s.Section("s1").Bricks); !reflect.DeepEqual(got, []string{"b", "c", "a", "img"}) {
					t.Errorf("expected [b c a img], got %v", got)
				}
			},
		},
		{
			name:   "other section moves",
			ev:     editor.DropEvent{SourceID: "x", DestinationContainerID: "s2", DestinationIndex: 0},
			commit: true,
			check: func(t *testing.T, s *draft.Store) {
				if e, _ := s.Entry("x"); e.SectionID != "s2" || e.ParentID != "" {
					t.Errorf("expected x top-level in s2, got %+v", e)
				}
			},
		},
		{
			name:   "container reparents",
			ev:     editor.DropEvent{SourceID: "d", DestinationContainerID: "c", DestinationIndex: 0},
			commit: true,
			check: func(t *testing.T, s *draft.Store) {
				if p := s.GetParentBrick("d"); p == nil || p.ID != "c" {
					t.Errorf("expected d inside c, got %v", p)
				}
			},
		},
		{
			name: "no destination cancels",
			ev:   editor.DropEvent{SourceID: "a"},
		},
		{
			name: "leaf destination is rejected",
			ev:   editor.DropEvent{SourceID: "a", DestinationContainerID: "b"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, h, e := setup(t)
			before := domain.ClonePage(s.Page())

			e.BeginDrag(tc.ev.SourceID)
			if got := e.Drop(tc.ev); got != tc.commit {
				t.Fatalf("expected commit=%v, got %v", tc.commit, got)
			}
			if e.Snapshot().Drag != nil {
				t.Error("drop must end the drag session")
			}
			if !tc.commit {
				if !reflect.DeepEqual(before, s.Page()) {
					t.Error("uncommitted drop changed the document")
				}
				return
			}
			if h.PastLen() != 1 {
				t.Errorf("expected exactly one history entry, got %d", h.PastLen())
			}
			tc.check(t, s)
		})
	}
}

func TestState_DropOnSectionIDIsUnambiguous(t *testing.T) {
	s, _, e := setup(t)

	if s.AddBrick(box("s2"), "s1", 0, "") {
		t.Fatal("a container must not take a section's id")
	}

	e.BeginDrag("a")
	if !e.Drop(editor.DropEvent{SourceID: "a", DestinationContainerID: "s2", DestinationIndex: 0}) {
		t.Fatal("expected drop to commit")
	}
	if en, _ := s.Entry("a"); en.SectionID != "s2" || en.ParentID != "" {
		t.Errorf("expected a top-level in section s2, got %+v", en)
	}
}

func TestState_DragPreviewCommitsOnce(t *testing.T) {
	s, h, e := setup(t)
	var commits int
	s.Subscribe(func(draft.Change) { commits++ })

	if !e.BeginDrag("a") {
		t.Fatal("expected drag to start")
	}
	for i := range 20 {
		e.UpdateDrag(editor.DropTarget{ContainerID: "s1", Index: i % 4})
	}
	e.UpdateDrag(editor.DropTarget{ContainerID: "s2", Index: 1})
	if commits != 0 {
		t.Fatalf("preview frames must not commit, got %d", commits)
	}
	if over := e.Snapshot().Drag.Over; over == nil || over.ContainerID != "s2" {
		t.Fatalf("expected preview over s2, got %+v", over)
	}

	if !e.EndDrag() {
		t.Fatal("expected drop to commit")
	}
	if commits != 1 || h.PastLen() != 1 {
		t.Errorf("expected one commit and one history entry, got %d and %d", commits, h.PastLen())
	}
	if got := ids(s.Section("s2").Bricks); !reflect.DeepEqual(got, []string{"d", "a"}) {
		t.Errorf("expected [d a], got %v", got)
	}
}

func TestState_CancelDragNeverTouchesStore(t *testing.T) {
	s, h, e := setup(t)
	before := s.Page()

	e.BeginDrag("a")
	e.UpdateDrag(editor.DropTarget{ContainerID: "s2", Index: 0})
	e.CancelDrag()
	if e.EndDrag() {
		t.Error("ending a cancelled drag must not commit")
	}
	if s.Page() != before || h.PastLen() != 0 {
		t.Error("cancel must not mutate the document")
	}
}

func TestState_Resize(t *testing.T) {
	s, h, e := setup(t)

	if e.BeginResize("a") {
		t.Error("text bricks are not resizable")
	}
	if !e.BeginResize("img") {
		t.Fatal("expected resize to start")
	}
	e.UpdateResize(5000, 10)
	r := e.Snapshot().Resize
	if r == nil || r.W != 1920 || r.H != 32 {
		t.Fatalf("expected preview clamped to 1920x32, got %+v", r)
	}
	e.UpdateResize(640, 480)
	if !e.EndResize() {
		t.Fatal("expected resize to commit")
	}
	if got := s.Brick("img").Props; got["width"] != 640.0 || got["height"] != 480.0 {
		t.Errorf("expected 640x480, got %v", got)
	}
	if h.PastLen() != 1 {
		t.Errorf("expected one history entry, got %d", h.PastLen())
	}
}

func TestState_ResizeOnMobileWritesOverrides(t *testing.T) {
	s, _, e := setup(t)
	e.SetBreakpoint(domain.BreakpointMobile)

	e.BeginResize("img")
	e.UpdateResize(900, 300)
	e.EndResize()

	b := s.Brick("img")
	if b.MobileProps["width"] != 480.0 {
		t.Errorf("expected mobile width clamped to 480, got %v", b.MobileProps["width"])
	}
	if b.Props["width"] != 300.0 {
		t.Errorf("desktop width must stay 300, got %v", b.Props["width"])
	}
}

func TestState_CancelResize(t *testing.T) {
	s, _, e := setup(t)
	before := s.Page()

	e.BeginResize("img")
	e.UpdateResize(100, 100)
	e.CancelResize()
	if e.EndResize() || s.Page() != before {
		t.Error("cancelled resize must not touch the document")
	}

	e.BeginResize("img")
	if e.EndResize() {
		t.Error("a resize that ends at its start size must not commit")
	}
}

func TestState_PreviewBlocksGestures(t *testing.T) {
	_, _, e := setup(t)
	e.BeginDrag("a")
	e.SetPreview(true)
	if e.Snapshot().Drag != nil {
		t.Error("entering preview ends the drag")
	}
	if e.BeginDrag("a") || e.BeginResize("img") {
		t.Error("gestures are disabled in preview")
	}
	e.OpenPanel(editor.PanelTheme)
	if e.Snapshot().Panel != editor.PanelTheme {
		t.Error("expected theme panel")
	}
}

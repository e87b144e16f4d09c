package draft_test

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/draft"
)

// ─────────────────────────────────────────────────────────────
// Brick operations
// ─────────────────────────────────────────────────────────────

func TestStore_ConcreteScenario(t *testing.T) {
	s, _ := newStore(t, page(section("S1", 0)))

	if !s.AddBrick(&domain.Brick{ID: "b1", Type: "text", Props: map[string]any{}}, "S1", 0, "") {
		t.Fatal("expected b1 to be added")
	}
	if got := ids(s.Section("S1").Bricks); !reflect.DeepEqual(got, []string{"b1"}) {
		t.Fatalf("expected [b1], got %v", got)
	}

	b2 := &domain.Brick{ID: "b2", Type: "container", Props: map[string]any{domain.ChildrenKey: []*domain.Brick{}}}
	if !s.AddBrick(b2, "S1", 1, "") {
		t.Fatal("expected b2 to be added")
	}
	if !s.AddBrick(leaf("b3"), "S1", 0, "b2") {
		t.Fatal("expected b3 to be added into b2")
	}

	e, ok := s.Entry("b3")
	if !ok || e.SectionID != "S1" || e.ParentID != "b2" {
		t.Fatalf("expected b3 at {S1 b2}, got %+v (found=%v)", e, ok)
	}
	if p := s.GetParentBrick("b3"); p == nil || p.ID != "b2" {
		t.Fatalf("expected parent b2, got %v", p)
	}

	if !s.DeleteBrick("b2") {
		t.Fatal("expected b2 to be deleted")
	}
	for _, id := range []string{"b2", "b3"} {
		if _, ok := s.Entry(id); ok {
			t.Errorf("expected no index entry for %s", id)
		}
	}
	if got := ids(s.Section("S1").Bricks); !reflect.DeepEqual(got, []string{"b1"}) {
		t.Fatalf("expected [b1], got %v", got)
	}
	assertIndexConsistent(t, s)
}

func TestStore_AddBrick_Rejections(t *testing.T) {
	s, rec := newStore(t, page(
		section("s1", 0, leaf("a"), box("c", leaf("x"))),
		section("s2", 1, box("d")),
	))
	before := s.Page()

	cases := []struct {
		name   string
		brick  *domain.Brick
		sec    string
		parent string
	}{
		{"unknown section", leaf("n"), "nope", ""},
		{"unknown parent", leaf("n"), "s1", "nope"},
		{"leaf parent", leaf("n"), "s1", "a"},
		{"parent in other section", leaf("n"), "s1", "d"},
		{"duplicate id", leaf("a"), "s1", ""},
		{"duplicate nested id", box("n", leaf("x")), "s2", ""},
		{"empty id", leaf(""), "s1", ""},
		{"nil child", box("n", leaf("m"), nil), "s1", ""},
		{"section id", leaf("s2"), "s1", ""},
		{"nested section id", box("n", leaf("s1")), "s2", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if s.AddBrick(tc.brick, tc.sec, 0, tc.parent) {
				t.Fatal("expected add to be rejected")
			}
		})
	}
	if s.Page() != before {
		t.Error("rejected adds must not replace the document")
	}
	if got := len(rec.warnings()); got != len(cases) {
		t.Errorf("expected %d warnings, got %d", len(cases), got)
	}
}

func TestStore_AddBrick_NilChildLeavesStoreUsable(t *testing.T) {
	s, rec := newStore(t, page(section("S1", 0)))

	if s.AddBrick(box("c", nil), "S1", 0, "") {
		t.Fatal("expected a container with a nil child to be rejected")
	}
	if len(rec.warnings()) != 1 {
		t.Errorf("expected one warning, got %v", rec.warnings())
	}

	done := make(chan bool)
	go func() { done <- s.AddBrick(leaf("b1"), "S1", 0, "") }()
	select {
	case ok := <-done:
		if !ok {
			t.Fatal("expected b1 to be added after the rejection")
		}
	case <-time.After(time.Second):
		t.Fatal("store stayed locked after a rejected add")
	}
	if got := ids(s.Section("S1").Bricks); !reflect.DeepEqual(got, []string{"b1"}) {
		t.Fatalf("expected [b1], got %v", got)
	}
	assertIndexConsistent(t, s)
}

func TestStore_AddBrick_SectionIDIsTaken(t *testing.T) {
	s, _ := newStore(t, page(section("S1", 0), section("S2", 1)))

	if s.AddBrick(leaf("S2"), "S1", 0, "") {
		t.Fatal("a brick must not reuse a section id")
	}
	if len(s.Section("S1").Bricks) != 0 {
		t.Error("rejected brick reached the section")
	}
}

// panickyManifests fails every lookup, standing in for a broken registry.
type panickyManifests struct{}

func (panickyManifests) Lookup(string) (domain.Manifest, bool) { panic("registry unavailable") }

func TestStore_PanicDuringOperationIsRejected(t *testing.T) {
	s, rec := newStore(t, page(section("s1", 0, leaf("a"))), draft.WithManifests(panickyManifests{}))
	before := s.Page()
	notified := false
	s.Subscribe(func(draft.Change) { notified = true })

	if s.DeleteBrick("a") {
		t.Fatal("expected the delete to fail")
	}
	if s.Page() != before || notified {
		t.Error("aborted operation must leave the document and subscribers untouched")
	}

	aborted := false
	rec.mu.Lock()
	for _, r := range rec.records {
		if r.Level == slog.LevelError && r.Message == "draft operation aborted" {
			aborted = true
		}
	}
	rec.mu.Unlock()
	if !aborted {
		t.Error("expected the panic to be logged as an aborted operation")
	}

	if !s.AddBrick(leaf("b"), "s1", 1, "") {
		t.Fatal("store should keep working after an aborted operation")
	}
	assertIndexConsistent(t, s)
}

func TestStore_AddBrick_IndexClampAndCopy(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"), leaf("b"))))

	in := box("n", leaf("m"))
	s.AddBrick(in, "s1", 99, "")
	s.AddBrick(leaf("first"), "s1", 0, "")
	s.AddBrick(leaf("last"), "s1", -1, "")

	want := []string{"first", "a", "b", "n", "last"}
	if got := ids(s.Section("s1").Bricks); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	in.Props["title"] = "mutated after add"
	if _, ok := s.Brick("n").Props["title"]; ok {
		t.Error("store must keep its own copy of an added brick")
	}
	if e, _ := s.Entry("m"); e.ParentID != "n" {
		t.Errorf("expected carried child m under n, got parent %q", e.ParentID)
	}
	assertIndexConsistent(t, s)
}

func TestStore_DeleteBrick_Cascade(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0,
		leaf("a"),
		box("c", leaf("x"), box("y", leaf("z"))),
	)))
	before := len(s.Index())

	if !s.DeleteBrick("c") {
		t.Fatal("expected delete to apply")
	}
	// c has 3 descendants
	if got := before - len(s.Index()); got != 4 {
		t.Errorf("expected 4 entries removed, got %d", got)
	}
	if got := ids(s.Section("s1").Bricks); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected [a], got %v", got)
	}
	if s.DeleteBrick("c") {
		t.Error("deleting an unknown id must be a no-op")
	}
	assertIndexConsistent(t, s)
}

func TestStore_DuplicateBrick(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"), box("c", leaf("x")), leaf("b"))))

	id, ok := s.DuplicateBrickID("c")
	if !ok {
		t.Fatal("expected duplicate to apply")
	}
	got := ids(s.Section("s1").Bricks)
	want := []string{"a", "c", id, "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	clone := s.Brick(id)
	if len(clone.Children()) != 1 || clone.Children()[0].ID == "x" {
		t.Fatalf("expected clone child with a fresh id, got %v", ids(clone.Children()))
	}
	if clone.Children()[0] == s.Brick("x") {
		t.Error("clone must not share children with the original")
	}
	assertIndexConsistent(t, s)
}

func TestStore_DuplicateBrick_SkipsUsedIDs(t *testing.T) {
	gen := []string{"a", "x", "fresh1", "fresh2"}
	next := func() string {
		id := gen[0]
		gen = gen[1:]
		return id
	}
	s, _ := newStore(t, page(section("s1", 0, leaf("a"), box("c", leaf("x")))), draft.WithIDGenerator(next))

	id, ok := s.DuplicateBrickID("c")
	if !ok {
		t.Fatal("expected duplicate to apply")
	}
	if id != "fresh1" {
		t.Errorf("expected fresh1, got %s", id)
	}
	if child := s.Brick(id).Children()[0].ID; child != "fresh2" {
		t.Errorf("expected fresh2, got %s", child)
	}
	assertIndexConsistent(t, s)
}

func TestStore_MoveBrick_BoundaryIdempotence(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"), box("c", leaf("x"), leaf("y")))))

	cases := []struct {
		id  string
		dir domain.Direction
		can bool
	}{
		{"a", domain.DirectionPrevious, false},
		{"a", domain.DirectionNext, true},
		{"c", domain.DirectionNext, false},
		{"x", domain.DirectionPrevious, false},
		{"y", domain.DirectionNext, false},
		{"y", domain.DirectionPrevious, true},
		{"nope", domain.DirectionNext, false},
	}
	for _, tc := range cases {
		if got := s.CanMoveTo(tc.id, tc.dir); got != tc.can {
			t.Errorf("CanMoveTo(%s, %s) = %v, want %v", tc.id, tc.dir, got, tc.can)
		}
		if tc.can {
			continue
		}
		before := domain.ClonePage(s.Page())
		if s.MoveBrick(tc.id, tc.dir) {
			t.Errorf("MoveBrick(%s, %s) applied at a boundary", tc.id, tc.dir)
		}
		if !reflect.DeepEqual(before, s.Page()) {
			t.Errorf("MoveBrick(%s, %s) changed the document", tc.id, tc.dir)
		}
	}

	if !s.MoveBrick("y", domain.DirectionPrevious) {
		t.Fatal("expected move to apply")
	}
	if got := ids(s.Brick("c").Children()); !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Errorf("expected [y x], got %v", got)
	}
	assertIndexConsistent(t, s)
}

func TestStore_ReorderBrickWithin_Clamps(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"), leaf("b"), leaf("c"))))

	if !s.ReorderBrickWithin("a", 99) {
		t.Fatal("expected out-of-range index to clamp")
	}
	if got := ids(s.Section("s1").Bricks); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Fatalf("expected [b c a], got %v", got)
	}
	if !s.ReorderBrickWithin("a", -3) {
		t.Fatal("expected negative index to clamp")
	}
	if got := ids(s.Section("s1").Bricks); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected [a b c], got %v", got)
	}
	if s.ReorderBrickWithin("a", 0) {
		t.Error("reordering onto the current position must not commit")
	}
	assertIndexConsistent(t, s)
}

func TestStore_MoveBrickToContainerBrick(t *testing.T) {
	s, _ := newStore(t, page(
		section("s1", 0, box("p", leaf("x"), leaf("y"), leaf("z")), box("q", box("r", leaf("deep")))),
		section("s2", 1, box("t")),
	))

	// index refers to the list after removal
	if !s.MoveBrickToContainerBrick("x", "p", 2) {
		t.Fatal("expected move within the same container")
	}
	if got := ids(s.Brick("p").Children()); !reflect.DeepEqual(got, []string{"y", "z", "x"}) {
		t.Fatalf("expected [y z x], got %v", got)
	}

	if !s.MoveBrickToContainerBrick("q", "t", -1) {
		t.Fatal("expected move across sections")
	}
	for _, id := range []string{"q", "r", "deep"} {
		if got := s.SectionOf(id); got != "s2" {
			t.Errorf("expected %s to follow into s2, got %q", id, got)
		}
	}

	for _, tc := range []struct{ id, parent string }{
		{"q", "q"},
		{"q", "r"},
		{"q", "deep"},
		{"x", "nope"},
		{"nope", "p"},
	} {
		if s.MoveBrickToContainerBrick(tc.id, tc.parent, 0) {
			t.Errorf("move %s into %s must be rejected", tc.id, tc.parent)
		}
	}
	assertIndexConsistent(t, s)
}

func TestStore_MoveBrickToSection(t *testing.T) {
	s, _ := newStore(t, page(
		section("s1", 0, box("p", leaf("x"))),
		section("s2", 1, leaf("a"), leaf("b")),
	))

	if !s.MoveBrickToSection("p", "s2", 1) {
		t.Fatal("expected move to apply")
	}
	if got := ids(s.Section("s2").Bricks); !reflect.DeepEqual(got, []string{"a", "p", "b"}) {
		t.Fatalf("expected [a p b], got %v", got)
	}
	if e, _ := s.Entry("x"); e.SectionID != "s2" || e.ParentID != "p" {
		t.Errorf("expected x at {s2 p}, got %+v", e)
	}
	if !s.MoveBrickToSection("x", "s1", -1) {
		t.Fatal("expected nested brick to move to the top level")
	}
	if e, _ := s.Entry("x"); e.SectionID != "s1" || e.ParentID != "" {
		t.Errorf("expected x at {s1 -}, got %+v", e)
	}
	if s.MoveBrickToSection("x", "nope", 0) {
		t.Error("unknown section must be rejected")
	}
	assertIndexConsistent(t, s)
}

func TestStore_DetachBrickFromContainer(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, box("p", leaf("x"), leaf("y")), leaf("q"))))

	if !s.DetachBrickFromContainer("x") {
		t.Fatal("expected detach to apply")
	}
	if got := ids(s.Section("s1").Bricks); !reflect.DeepEqual(got, []string{"p", "x", "q"}) {
		t.Fatalf("expected [p x q], got %v", got)
	}
	if got := ids(s.Brick("p").Children()); !reflect.DeepEqual(got, []string{"y"}) {
		t.Errorf("expected [y], got %v", got)
	}
	if s.DetachBrickFromContainer("q") {
		t.Error("detaching a top-level brick must be a no-op")
	}
	assertIndexConsistent(t, s)
}

func TestStore_UpdateBrickProps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := box("c", leaf("x"))
	b.Props["style"] = map[string]any{"color": "red", "size": 12}
	b.Props["items"] = []any{1, 2}
	s, _ := newStore(t, page(section("s1", 0, b)), draft.WithClock(func() time.Time { return now }))

	ok := s.UpdateBrickProps("c", map[string]any{
		"style":            map[string]any{"color": "blue"},
		"items":            []any{3},
		domain.ChildrenKey: []*domain.Brick{},
	}, false)
	if !ok {
		t.Fatal("expected patch to apply")
	}
	got := s.Brick("c")
	if want := map[string]any{"color": "blue", "size": 12}; !reflect.DeepEqual(got.Props["style"], want) {
		t.Errorf("expected nested merge %v, got %v", want, got.Props["style"])
	}
	if want := []any{3}; !reflect.DeepEqual(got.Props["items"], want) {
		t.Errorf("expected slice replace %v, got %v", want, got.Props["items"])
	}
	if len(got.Children()) != 1 {
		t.Error("children key in a patch must be ignored")
	}
	if s.Page().LastTouched != now.UnixMilli() {
		t.Errorf("expected lastTouched %d, got %d", now.UnixMilli(), s.Page().LastTouched)
	}

	s.UpdateBrickProps("c", map[string]any{"fontSize": 10}, true)
	if got := s.Brick("c"); got.MobileProps["fontSize"] != 10 || got.Props["fontSize"] != nil {
		t.Errorf("expected mobile-only override, got props=%v mobile=%v", got.Props, got.MobileProps)
	}
	if s.UpdateBrickProps("nope", map[string]any{"a": 1}, false) {
		t.Error("unknown brick must be a no-op")
	}
}

func TestStore_ToggleBrickVisibility(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"))))

	s.ToggleBrickVisibility("a", domain.BreakpointMobile)
	want := map[string]any{"mobile": true}
	if got := s.Brick("a").Props["hidden"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	s.ToggleBrickVisibility("a", domain.BreakpointDesktop)
	s.ToggleBrickVisibility("a", domain.BreakpointMobile)
	want = map[string]any{"mobile": false, "desktop": true}
	if got := s.Brick("a").Props["hidden"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestStore_UpdateBrickType(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"))))
	if !s.UpdateBrickType("a", "heading") {
		t.Fatal("expected type change")
	}
	if s.UpdateBrickType("a", "heading") {
		t.Error("same type must not commit")
	}
	if s.Brick("a").Type != "heading" {
		t.Errorf("expected heading, got %s", s.Brick("a").Type)
	}
}

// ─────────────────────────────────────────────────────────────
// Manifest capabilities
// ─────────────────────────────────────────────────────────────

type manifests map[string]domain.Manifest

func (m manifests) Lookup(t string) (domain.Manifest, bool) {
	mf, ok := m[t]
	return mf, ok
}

func TestStore_ManifestCapabilities(t *testing.T) {
	lookup := manifests{
		"navbar": {Type: "navbar", Movable: false, Deletable: false, Duplicatable: false},
		"text":   {Type: "text", Movable: true, Deletable: true, Duplicatable: true},
	}
	nav := &domain.Brick{ID: "nav", Type: "navbar", Props: map[string]any{}}
	s, rec := newStore(t, page(section("s1", 0, nav, leaf("a"), &domain.Brick{ID: "u", Type: "custom", Props: map[string]any{}})),
		draft.WithManifests(lookup))

	if s.CanMoveTo("nav", domain.DirectionNext) || s.MoveBrick("nav", domain.DirectionNext) {
		t.Error("non-movable brick must not move")
	}
	if s.DeleteBrick("nav") {
		t.Error("non-deletable brick must not be deleted")
	}
	if s.DuplicateBrick("nav") {
		t.Error("non-duplicatable brick must not be duplicated")
	}
	if !s.CanMoveTo("a", domain.DirectionNext) {
		t.Error("movable brick should be movable")
	}
	if !s.DeleteBrick("u") {
		t.Error("unknown types allow everything")
	}
	if len(rec.warnings()) != 3 {
		t.Errorf("expected 3 warnings, got %v", rec.warnings())
	}
}

// ─────────────────────────────────────────────────────────────
// Subscription, load, consistency
// ─────────────────────────────────────────────────────────────

func TestStore_SubscribePublishesCommittedChanges(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"), leaf("b"))))

	var changes []draft.Change
	unsubscribe := s.Subscribe(func(c draft.Change) { changes = append(changes, c) })

	s.MoveBrick("a", domain.DirectionNext)
	s.MoveBrick("a", domain.DirectionNext) // boundary
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Op != "moveBrick" || c.Origin != draft.OriginEdit || c.Prev == c.Next || c.Next != s.Page() {
		t.Errorf("unexpected change %+v", c)
	}
	if got := ids(c.Prev.Sections[0].Bricks); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("previous snapshot must stay untouched, got %v", got)
	}

	unsubscribe()
	s.MoveBrick("a", domain.DirectionPrevious)
	if len(changes) != 1 {
		t.Errorf("expected no notification after unsubscribe, got %d", len(changes))
	}
}

func TestStore_UpdateBrickProps_CopiesTypedValues(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"))))
	cols := []int{1, 2}
	spans := map[string]int{"md": 6}

	if !s.UpdateBrickProps("a", map[string]any{"cols": cols, "spans": spans}, false) {
		t.Fatal("expected props update")
	}
	cols[0] = 99
	spans["md"] = 99

	b := s.Brick("a")
	if got := b.Props["cols"].([]int); got[0] != 1 {
		t.Errorf("stored cols follow the caller's slice: %v", got)
	}
	if got := b.Props["spans"].(map[string]int); got["md"] != 6 {
		t.Errorf("stored spans follow the caller's map: %v", got)
	}
}

func TestStore_Load(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"))))
	var origin draft.Origin
	s.Subscribe(func(c draft.Change) { origin = c.Origin })

	err := s.Load(page(section("s1", 0, leaf("a")), section("s2", 1, leaf("a"))))
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if origin != "" {
		t.Error("failed load must not notify")
	}

	if err := s.Load(page(section("x", 0, leaf("z")))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if origin != draft.OriginLoad {
		t.Errorf("expected load origin, got %q", origin)
	}
	if _, ok := s.Entry("z"); !ok {
		t.Error("expected loaded brick to be indexed")
	}
}

func TestStore_Load_RejectsNullsAndSectionIDs(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"))))
	before := s.Page()

	if err := s.Load(page(section("s1", 0), nil)); !errors.Is(err, domain.ErrNilNode) {
		t.Errorf("nil section: expected ErrNilNode, got %v", err)
	}
	if err := s.Load(page(section("s1", 0, box("c", nil)))); !errors.Is(err, domain.ErrNilNode) {
		t.Errorf("nil child: expected ErrNilNode, got %v", err)
	}
	if err := s.Load(page(section("s1", 0), section("s2", 1, leaf("s1")))); !errors.Is(err, domain.ErrDuplicateID) {
		t.Errorf("brick named like a section: expected ErrDuplicateID, got %v", err)
	}
	if s.Page() != before {
		t.Error("failed loads must not replace the document")
	}
}

func TestStore_Replace(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, leaf("a"))))
	before := s.Page()
	var got draft.Change
	s.Subscribe(func(c draft.Change) { got = c })

	if err := s.Replace(page(section("x", 0), nil)); err == nil {
		t.Fatal("expected a page with a nil section to be rejected")
	}
	if err := s.Replace(page(section("x", 0, leaf("z")))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Origin != draft.OriginEdit || got.Op != "replacePage" {
		t.Errorf("expected an edit change, got %q/%q", got.Origin, got.Op)
	}
	if got.Prev != before {
		t.Error("change should carry the replaced page as Prev")
	}
	if _, ok := s.Entry("z"); !ok {
		t.Error("expected replaced brick to be indexed")
	}
}

func TestNew_PanicsOnDuplicateIDs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a document with duplicate ids")
		}
	}()
	draft.New(page(section("s1", 0, leaf("a"), box("c", leaf("a")))))
}

func TestStore_IndexBijectionAcrossOperations(t *testing.T) {
	s, _ := newStore(t, page(
		section("s1", 0, leaf("a"), box("c", leaf("x"), box("y", leaf("z")))),
		section("s2", 1, leaf("b")),
	))

	steps := []func(){
		func() { s.DuplicateBrick("c") },
		func() { s.MoveBrickToSection("y", "s2", 0) },
		func() { s.MoveBrickToContainerBrick("b", "y", -1) },
		func() { s.DetachBrickFromContainer("z") },
		func() { s.DuplicateSection("s2") },
		func() { s.AddBrick(box("k", leaf("k1")), "s1", 1, "c") },
		func() { s.DeleteBrick("c") },
		func() { s.ReorderBrickWithin("a", 5) },
		func() { s.DeleteSection("s2") },
	}
	for i, step := range steps {
		step()
		t.Logf("step %d: %d bricks", i, len(s.Index()))
		assertIndexConsistent(t, s)
	}
	for id, e := range s.Index() {
		if e.SectionID == "s2" {
			t.Errorf("brick %s still references deleted section", id)
		}
	}
}

func TestStore_QueriesDoNotMutate(t *testing.T) {
	s, _ := newStore(t, page(section("s1", 0, box("c", leaf("x"), leaf("y")))))
	before := s.Page()

	if pos, ok := s.GetPositionWithinParent("y"); !ok || pos != 1 {
		t.Errorf("expected position 1, got %d (%v)", pos, ok)
	}
	if _, ok := s.GetPositionWithinParent("nope"); ok {
		t.Error("unknown brick has no position")
	}
	if s.GetParentBrick("c") != nil {
		t.Error("top-level brick has no parent")
	}
	if got := ids(s.Siblings("x")); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("expected [x y], got %v", got)
	}
	s.CanMoveTo("x", domain.DirectionNext)
	s.IsFirstSection("s1")

	idx := s.Index()
	delete(idx, "x")
	if _, ok := s.Entry("x"); !ok {
		t.Error("Index must return a copy")
	}
	if s.Page() != before {
		t.Error("queries must not replace the document")
	}
}

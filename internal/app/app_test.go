package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/toolcall"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:        dir,
		DBPath:         filepath.Join(dir, "pb.db"),
		SiteID:         "site1",
		PageID:         "home",
		AutosaveDelay:  time.Hour,
		HistoryLimit:   10,
		CheckpointKeep: 3,
	}
}

func TestApp_CreatesAndReopensDocuments(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Startup(ctx); err != nil {
		t.Fatalf("startup: %v", err)
	}
	page := a.Store().Page()
	if page.ID != "home" || len(page.Sections) != 1 {
		t.Fatalf("expected a fresh page with one section, got %+v", page)
	}
	if sm := a.Site().Site().Sitemap; len(sm) != 1 || sm[0].ID != "home" {
		t.Fatalf("expected the page in the sitemap, got %+v", sm)
	}

	sectionID := page.Sections[0].ID
	ok := a.Bridge().Apply(toolcall.NewPart(toolcall.ToolCreateBrick, "call-1", map[string]any{
		"sectionId": sectionID,
		"brick":     map[string]any{"id": "hello", "type": "text", "props": map[string]any{"text": "Hello"}},
	}))
	if !ok {
		t.Fatal("create brick via bridge failed")
	}
	if err := a.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	b, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Shutdown(ctx)
	if got := b.Store().Brick("hello"); got == nil || got.Props["text"] != "Hello" {
		t.Fatalf("expected persisted brick, got %+v", got)
	}
	if b.History().CanUndo() {
		t.Error("a reopened page starts with empty history")
	}
}

func TestApp_ScheduledCheckpointSkipsUnchangedPage(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Shutdown(ctx)

	a.scheduledCheckpoint(ctx)
	a.scheduledCheckpoint(ctx)
	list, err := a.Checkpoints().List(ctx, "home")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one checkpoint for an unchanged page, got %d", len(list))
	}

	sectionID := a.Store().Sections()[0].ID
	a.Store().AddBrick(&domain.Brick{ID: "x", Type: "text", Props: map[string]any{}}, sectionID, -1, "")
	a.scheduledCheckpoint(ctx)
	if list, _ = a.Checkpoints().List(ctx, "home"); len(list) != 2 {
		t.Errorf("expected a second checkpoint after an edit, got %d", len(list))
	}
}

func TestApp_ManifestFileOverridesBuiltins(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.ManifestPath = filepath.Join(cfg.DataDir, "manifests.yaml")
	yaml := "manifests:\n  - type: text\n    name: Locked text\n    deletable: false\n"
	if err := os.WriteFile(cfg.ManifestPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Shutdown(ctx)

	sectionID := a.Store().Sections()[0].ID
	a.Store().AddBrick(&domain.Brick{ID: "t", Type: "text", Props: map[string]any{}}, sectionID, -1, "")
	if a.Store().DeleteBrick("t") {
		t.Error("manifest file should make text bricks undeletable")
	}
}

func TestApp_BadManifestFileFallsBackToBuiltins(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.ManifestPath = filepath.Join(cfg.DataDir, "missing.yaml")

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("a bad manifest file must not stop the app: %v", err)
	}
	defer a.Shutdown(ctx)
	if _, ok := a.Manifests().Lookup("container"); !ok {
		t.Error("expected built-in manifests")
	}
}

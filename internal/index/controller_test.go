package index

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/hnp180493/gloss/internal/parser"
	"github.com/hnp180493/gloss/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func controllerEnv(t *testing.T) (*Controller, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	ctrl := NewController(New(), store, "definitions", parser.DividerHyphens, 50*time.Millisecond, testLogger(), nil)
	t.Cleanup(ctrl.Close)
	return ctrl, store
}

func TestReload_MixedFormats(t *testing.T) {
	ctrl, store := controllerEnv(t)

	_ = store.Write("definitions/glossary.md", []byte("# Widget\n*gadget*\n\nA small device.\n\n---\n\n# Gizmo\n\nAnother one.\n"))
	_ = store.Write("definitions/API.md", []byte("---\ndef-type: atomic\naliases: [interface]\n---\nApplication programming interface.\n"))
	_ = store.Write("notes/unrelated.md", []byte("# Widget\nnot a definition\n"))

	if err := ctrl.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	ix := ctrl.Index()
	if d := ix.GetDefinition("widget", nil); d == nil || d.SourceFile != "definitions/glossary.md" {
		t.Errorf("widget = %+v", d)
	}
	if d := ix.GetDefinition("gadget", nil); d == nil || d.Phrase != "Widget" {
		t.Errorf("alias gadget = %+v", d)
	}
	if d := ix.GetDefinition("api", nil); d == nil || d.SourceType != "atomic" {
		t.Errorf("atomic api = %+v", d)
	}
	if d := ix.GetDefinition("interface", nil); d == nil {
		t.Error("atomic alias not indexed")
	}
	if ix.IsDefinitionFile("notes/unrelated.md") {
		t.Error("out-of-folder file must not be indexed")
	}
	if !ix.IsDefinitionFile("definitions/glossary.md") {
		t.Error("definition file not classified")
	}
}

func TestReload_MissingFolderNonFatal(t *testing.T) {
	ctrl, _ := controllerEnv(t)
	if err := ctrl.Reload(); err != nil {
		t.Fatalf("missing folder should not be fatal: %v", err)
	}
	if got := ctrl.Index().GetAllDefinitions(nil); len(got) != 0 {
		t.Errorf("index should be empty, got %d", len(got))
	}
}

func TestReload_ClearsPreviousContents(t *testing.T) {
	ctrl, store := controllerEnv(t)
	_ = store.Write("definitions/a.md", []byte("# Old\nold body\n"))
	_ = ctrl.Reload()
	if ctrl.Index().GetDefinition("old", nil) == nil {
		t.Fatal("precondition failed")
	}

	_ = store.Delete("definitions/a.md")
	_ = store.Write("definitions/b.md", []byte("# New\nnew body\n"))
	_ = ctrl.Reload()

	if ctrl.Index().GetDefinition("old", nil) != nil {
		t.Error("stale definition survived reload")
	}
	if ctrl.Index().GetDefinition("new", nil) == nil {
		t.Error("new definition missing")
	}
}

func TestDefTypeClassificationDefault(t *testing.T) {
	ctrl, store := controllerEnv(t)
	// No def-type: consolidated by default, so the H1 is a block header.
	_ = store.Write("definitions/d.md", []byte("---\ntitle: whatever\n---\n# Term\nbody\n"))
	_ = ctrl.Reload()
	d := ctrl.Index().GetDefinition("term", nil)
	if d == nil || d.SourceType != "consolidated" {
		t.Errorf("d = %+v, want consolidated", d)
	}
}

func TestReconfigure_PatternRebuilds(t *testing.T) {
	ctrl, store := controllerEnv(t)
	_ = store.Write("definitions/d.md", []byte("# A\none\n___\n# B\ntwo\n"))
	_ = ctrl.Reload()

	if d := ctrl.Index().GetDefinition("a", nil); d == nil || d.Content != "one\n___" {
		t.Errorf("hyphens content = %+v", d)
	}

	if err := ctrl.Reconfigure("definitions", parser.DividerBoth); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if d := ctrl.Index().GetDefinition("a", nil); d == nil || d.Content != "one" {
		t.Errorf("both content = %+v", d)
	}
}

func TestEvictThenScheduleReload(t *testing.T) {
	ctrl, store := controllerEnv(t)
	_ = store.Write("definitions/d.md", []byte("# Term\nbody\n"))
	_ = ctrl.Reload()

	ctrl.Evict("definitions/d.md")
	if ctrl.Index().GetDefinition("term", nil) != nil {
		t.Fatal("evicted entry still resolves")
	}

	ctrl.ScheduleReload()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ctrl.Index().GetDefinition("term", nil) != nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("debounced reload never repopulated the index")
}

func TestScheduleReload_Coalesces(t *testing.T) {
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	reloads := 0
	ctrl := NewController(New(), store, "definitions", parser.DividerHyphens, 100*time.Millisecond, testLogger(), func(kind, _ string) {
		if kind == "reloaded" {
			mu.Lock()
			reloads++
			mu.Unlock()
		}
	})
	t.Cleanup(ctrl.Close)

	for i := 0; i < 10; i++ {
		ctrl.ScheduleReload()
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	got := reloads
	mu.Unlock()
	if got != 1 {
		t.Errorf("reloads = %d, want 1 (trailing-edge debounce)", got)
	}
}

func TestFindUsages(t *testing.T) {
	ctrl, store := controllerEnv(t)
	_ = store.Write("definitions/d.md", []byte("# Widget\n\nA widget is a device.\n"))
	_ = store.Write("notes/journal.md", []byte("Bought a widget today.\nNo mention here.\nWidgets are plural.\nwidget again\n"))
	_ = ctrl.Reload()

	usages, err := ctrl.FindUsages("widget")
	if err != nil {
		t.Fatalf("FindUsages: %v", err)
	}
	if len(usages) != 2 {
		t.Fatalf("usages = %+v, want 2 (whole-word only, defining file excluded)", usages)
	}
	if usages[0].File != "notes/journal.md" || usages[0].Line != 1 {
		t.Errorf("first usage = %+v", usages[0])
	}
	if usages[1].Line != 4 || usages[1].Text != "widget again" {
		t.Errorf("second usage = %+v", usages[1])
	}
}

func TestInScope(t *testing.T) {
	ctrl, _ := controllerEnv(t)
	cases := []struct {
		path string
		want bool
	}{
		{"definitions/a.md", true},
		{"definitions/sub/a.md", true},
		{"definitionsX/a.md", false},
		{"notes/a.md", false},
		{"definitions/../notes/a.md", false},
		{"definitions/sub/../../notes/a.md", false},
		{"definitions/./sub/a.md", true},
		{"notes/../definitions/a.md", true},
	}
	for _, c := range cases {
		if got := ctrl.InScope(c.path); got != c.want {
			t.Errorf("InScope(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

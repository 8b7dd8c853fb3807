package index

import (
	"testing"

	"github.com/hnp180493/gloss/internal/models"
)

func def(phrase, file string, aliases ...string) models.Definition {
	return models.Definition{
		Phrase:     phrase,
		Aliases:    aliases,
		Content:    phrase + " content",
		SourceFile: file,
		SourceType: models.SourceConsolidated,
		LineNumber: 1,
	}
}

func TestAliasFanOutAndDeDup(t *testing.T) {
	ix := New()
	ix.AddFile("defs/a.md", []models.Definition{def("CPU", "defs/a.md", "Central Processing Unit")})

	if d := ix.GetDefinition("cpu", nil); d == nil || d.Phrase != "CPU" {
		t.Errorf("lookup by phrase = %+v", d)
	}
	if d := ix.GetDefinition("central processing unit", nil); d == nil || d.Phrase != "CPU" {
		t.Errorf("lookup by alias = %+v", d)
	}
	all := ix.GetAllDefinitions(nil)
	if len(all) != 1 {
		t.Errorf("GetAllDefinitions len = %d, want 1 (aliases must not duplicate)", len(all))
	}
}

func TestContextFiltering(t *testing.T) {
	ix := New()
	ix.AddFile("defs/a.md", []models.Definition{def("term", "defs/a.md")})

	if d := ix.GetDefinition("term", []string{"defs/b.md"}); d != nil {
		t.Errorf("foreign context should hide the definition, got %+v", d)
	}
	if d := ix.GetDefinition("term", []string{"defs/a.md"}); d == nil {
		t.Error("owning context should resolve the definition")
	}
	if d := ix.GetDefinition("term", nil); d == nil {
		t.Error("no context means all definitions visible")
	}
	if d := ix.GetDefinition("term", []string{}); d == nil {
		t.Error("empty context list means no filter")
	}
}

func TestFirstMatchWinsInsertionOrder(t *testing.T) {
	ix := New()
	ix.AddFile("defs/a.md", []models.Definition{def("dup", "defs/a.md")})
	ix.AddFile("defs/b.md", []models.Definition{def("dup", "defs/b.md")})

	d := ix.GetDefinition("dup", nil)
	if d == nil || d.SourceFile != "defs/a.md" {
		t.Errorf("first match = %+v, want defs/a.md entry", d)
	}
	all := ix.GetDefinitions("dup", nil)
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	// Context narrows to the second file.
	d = ix.GetDefinition("dup", []string{"defs/b.md"})
	if d == nil || d.SourceFile != "defs/b.md" {
		t.Errorf("context-filtered = %+v", d)
	}
}

func TestRemoveFileEvictionComplete(t *testing.T) {
	ix := New()
	ix.AddFile("defs/a.md", []models.Definition{
		def("alpha", "defs/a.md", "first letter"),
		def("beta", "defs/a.md"),
	})
	ix.AddFile("defs/b.md", []models.Definition{def("alpha", "defs/b.md")})

	ix.RemoveFile("defs/a.md")

	if ix.IsDefinitionFile("defs/a.md") {
		t.Error("file still owns definitions after removal")
	}
	for _, d := range ix.GetDefinitions("alpha", nil) {
		if d.SourceFile == "defs/a.md" {
			t.Errorf("residual entry from removed file: %+v", d)
		}
	}
	// Keys contributed only by the removed file must be pruned entirely.
	if got := ix.GetDefinitions("beta", nil); got != nil {
		t.Errorf("pruned key still resolves: %+v", got)
	}
	if got := ix.GetDefinitions("first letter", nil); got != nil {
		t.Errorf("alias key not pruned: %+v", got)
	}
	// Untouched file survives.
	if d := ix.GetDefinition("alpha", nil); d == nil || d.SourceFile != "defs/b.md" {
		t.Errorf("surviving entry = %+v", d)
	}
}

func TestAddFileReplacesWithoutDuplication(t *testing.T) {
	ix := New()
	ix.AddFile("defs/a.md", []models.Definition{def("term", "defs/a.md", "old-alias")})
	ix.AddFile("defs/a.md", []models.Definition{def("term", "defs/a.md", "new-alias")})

	if got := ix.GetDefinitions("term", nil); len(got) != 1 {
		t.Errorf("len = %d, want 1 after reinsert", len(got))
	}
	if got := ix.GetDefinitions("old-alias", nil); got != nil {
		t.Errorf("stale alias survives reinsert: %+v", got)
	}
	if d := ix.GetDefinition("new-alias", nil); d == nil {
		t.Error("new alias not indexed")
	}
}

func TestRebuildReplacesEverything(t *testing.T) {
	ix := New()
	ix.AddFile("defs/a.md", []models.Definition{def("old", "defs/a.md")})
	ix.Rebuild([]models.Definition{def("new", "defs/b.md")})

	if ix.GetDefinition("old", nil) != nil {
		t.Error("old entry survived rebuild")
	}
	if ix.GetDefinition("new", nil) == nil {
		t.Error("new entry missing after rebuild")
	}
	if ix.Len() != 1 {
		t.Errorf("Len = %d, want 1", ix.Len())
	}
}

func TestGetAllPhrasesUnion(t *testing.T) {
	ix := New()
	ix.AddFile("defs/a.md", []models.Definition{
		def("CPU", "defs/a.md", "Central Processing Unit"),
		def("cpu", "defs/a.md"), // case-duplicate collapses
	})

	phrases := ix.GetAllPhrases(nil)
	if len(phrases) != 2 {
		t.Fatalf("phrases = %v, want 2 entries", phrases)
	}
	if phrases[0] != "CPU" || phrases[1] != "Central Processing Unit" {
		t.Errorf("phrases = %v", phrases)
	}
}

func TestLastUpdatedStamped(t *testing.T) {
	ix := New()
	if !ix.LastUpdated().IsZero() {
		t.Error("fresh index should have zero timestamp")
	}
	ix.AddFile("defs/a.md", []models.Definition{def("x", "defs/a.md")})
	if ix.LastUpdated().IsZero() {
		t.Error("timestamp not stamped on mutation")
	}
}

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func testFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f, dir
}

func TestWriteReadRoundTrip(t *testing.T) {
	f, _ := testFS(t)
	if err := f.Write("defs/a.md", []byte("# A\nbody\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := f.Read("defs/a.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "# A\nbody\n" {
		t.Errorf("data = %q", data)
	}
}

func TestList_OnlyMarkdown(t *testing.T) {
	f, dir := testFS(t)
	_ = f.Write("one.md", []byte("x"))
	_ = f.Write("sub/two.md", []byte("y"))
	_ = os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("z"), 0o644)

	metas, err := f.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2", len(metas))
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("missing checksum for %s", m.Path)
		}
	}
}

func TestList_SubdirScoped(t *testing.T) {
	f, _ := testFS(t)
	_ = f.Write("defs/a.md", []byte("x"))
	_ = f.Write("notes/b.md", []byte("y"))

	metas, err := f.List("defs")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 1 || metas[0].Path != "defs/a.md" {
		t.Errorf("metas = %+v", metas)
	}
}

func TestList_MissingDirErrors(t *testing.T) {
	f, _ := testFS(t)
	if _, err := f.List("nope"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSafePath_TraversalRejected(t *testing.T) {
	f, _ := testFS(t)
	if _, err := f.Read("../outside.md"); err == nil {
		t.Error("expected traversal rejection")
	}
	if err := f.Write("/abs.md", []byte("x")); err == nil {
		t.Error("expected absolute path rejection")
	}
}

func TestDeleteAndMove(t *testing.T) {
	f, _ := testFS(t)
	_ = f.Write("a.md", []byte("x"))
	if err := f.Move("a.md", "sub/b.md"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := f.Read("a.md"); err == nil {
		t.Error("old path should be gone")
	}
	if err := f.Delete("sub/b.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.Read("sub/b.md"); err == nil {
		t.Error("deleted file still readable")
	}
}

func TestWrite_FailureLeavesNoTemp(t *testing.T) {
	f, dir := testFS(t)
	_ = f.Write("keep.md", []byte("v1"))
	_ = f.Write("keep.md", []byte("v2"))

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() != "keep.md" {
			t.Errorf("unexpected leftover %s", e.Name())
		}
	}
	data, _ := f.Read("keep.md")
	if string(data) != "v2" {
		t.Errorf("data = %q", data)
	}
}

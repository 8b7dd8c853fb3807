package parser

import "testing"

func TestDefType_Default(t *testing.T) {
	if got := DefType(nil); got != "consolidated" {
		t.Errorf("DefType(nil) = %q", got)
	}
	if got := DefType(map[string]interface{}{"def-type": "weird"}); got != "consolidated" {
		t.Errorf("unrecognised def-type = %q, want consolidated", got)
	}
	if got := DefType(map[string]interface{}{"def-type": "atomic"}); got != "atomic" {
		t.Errorf("def-type atomic = %q", got)
	}
}

func TestDefContext_Shapes(t *testing.T) {
	if got := DefContext(map[string]interface{}{"def-context": "defs/a.md"}); len(got) != 1 || got[0] != "defs/a.md" {
		t.Errorf("scalar context = %v", got)
	}
	fm := map[string]interface{}{"def-context": []interface{}{"defs/a.md", " defs/b.md ", ""}}
	got := DefContext(fm)
	if len(got) != 2 || got[0] != "defs/a.md" || got[1] != "defs/b.md" {
		t.Errorf("list context = %v", got)
	}
	if got := DefContext(map[string]interface{}{"def-context": 7}); got != nil {
		t.Errorf("bad shape context = %v, want nil", got)
	}
	if got := DefContext(nil); got != nil {
		t.Errorf("nil fm context = %v", got)
	}
}

func TestFrontmatter_Extract(t *testing.T) {
	fm := Frontmatter([]byte("---\ndef-type: atomic\ndef-context: defs/a.md\n---\nbody"))
	if fm == nil {
		t.Fatal("expected frontmatter")
	}
	if DefType(fm) != "atomic" {
		t.Errorf("def-type = %q", DefType(fm))
	}
	if fm2 := Frontmatter([]byte("no frontmatter here")); fm2 != nil {
		t.Errorf("expected nil, got %v", fm2)
	}
}

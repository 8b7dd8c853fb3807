// Package index maintains the in-memory definition index and keeps it
// consistent under file-system change events.
package index

import (
	"sort"
	"sync"
	"time"

	"github.com/hnp180493/gloss/internal/models"
)

// Index is the reverse index from lowercased phrase/alias keys to
// definitions. Two coupled mappings are maintained: byKey for lookups and
// byFile for O(entries-in-file) eviction. Every definition reachable from
// byFile is reachable from byKey under at least its own phrase key, and
// removing a file leaves no residual byKey entries (empty keys are pruned).
//
// A single RWMutex guards both maps; rebuilds swap in freshly built maps so
// readers never observe a partially repopulated index.
type Index struct {
	mu          sync.RWMutex
	byKey       map[string][]*models.Definition
	byFile      map[string][]*models.Definition
	lastUpdated time.Time
}

// New creates an empty index.
func New() *Index {
	return &Index{
		byKey:  make(map[string][]*models.Definition),
		byFile: make(map[string][]*models.Definition),
	}
}

// AddFile inserts a file's definitions, evicting any previous contribution
// from the same path first so repeated indexing never duplicates entries.
func (ix *Index) AddFile(path string, defs []models.Definition) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeFileLocked(path)
	for i := range defs {
		d := defs[i]
		ix.addLocked(&d)
	}
	ix.lastUpdated = time.Now()
}

// RemoveFile evicts every definition owned by path.
func (ix *Index) RemoveFile(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeFileLocked(path)
	ix.lastUpdated = time.Now()
}

// Rebuild replaces the whole index with the given definitions in one step.
// Readers see either the old contents or the new, never a mixture.
func (ix *Index) Rebuild(defs []models.Definition) {
	byKey := make(map[string][]*models.Definition)
	byFile := make(map[string][]*models.Definition)
	for i := range defs {
		d := defs[i]
		byFile[d.SourceFile] = append(byFile[d.SourceFile], &d)
		for _, key := range d.Keys() {
			if key == "" {
				continue
			}
			byKey[key] = append(byKey[key], &d)
		}
	}

	ix.mu.Lock()
	ix.byKey = byKey
	ix.byFile = byFile
	ix.lastUpdated = time.Now()
	ix.mu.Unlock()
}

// Clear drops everything.
func (ix *Index) Clear() {
	ix.Rebuild(nil)
}

func (ix *Index) addLocked(d *models.Definition) {
	ix.byFile[d.SourceFile] = append(ix.byFile[d.SourceFile], d)
	for _, key := range d.Keys() {
		if key == "" {
			continue
		}
		ix.byKey[key] = append(ix.byKey[key], d)
	}
}

func (ix *Index) removeFileLocked(path string) {
	defs, ok := ix.byFile[path]
	if !ok {
		return
	}
	for _, d := range defs {
		for _, key := range d.Keys() {
			kept := ix.byKey[key][:0]
			for _, e := range ix.byKey[key] {
				if e.SourceFile != path {
					kept = append(kept, e)
				}
			}
			if len(kept) == 0 {
				delete(ix.byKey, key)
			} else {
				ix.byKey[key] = kept
			}
		}
	}
	delete(ix.byFile, path)
}

// GetDefinition returns the first definition indexed under phrase, in
// discovery order, restricted to contextFiles when non-empty. Nil when the
// key is absent or nothing survives the filter.
func (ix *Index) GetDefinition(phrase string, contextFiles []string) *models.Definition {
	defs := ix.GetDefinitions(phrase, contextFiles)
	if len(defs) == 0 {
		return nil
	}
	return &defs[0]
}

// GetDefinitions returns every definition indexed under phrase, in discovery
// order, restricted to contextFiles when non-empty.
func (ix *Index) GetDefinitions(phrase string, contextFiles []string) []models.Definition {
	key := models.NormalizeKey(phrase)
	filter := contextSet(contextFiles)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []models.Definition
	for _, d := range ix.byKey[key] {
		if filter != nil {
			if _, ok := filter[d.SourceFile]; !ok {
				continue
			}
		}
		out = append(out, *d)
	}
	return out
}

// GetAllDefinitions returns every definition exactly once, de-duplicated by
// (sourceFile, phrase): each entry is indexed under its phrase and every
// alias, so byKey alone would repeat it. Output is ordered by source file
// then in-file discovery order.
func (ix *Index) GetAllDefinitions(contextFiles []string) []models.Definition {
	filter := contextSet(contextFiles)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	files := make([]string, 0, len(ix.byFile))
	for f := range ix.byFile {
		if filter != nil {
			if _, ok := filter[f]; !ok {
				continue
			}
		}
		files = append(files, f)
	}
	sort.Strings(files)

	var out []models.Definition
	for _, f := range files {
		for _, d := range ix.byFile[f] {
			out = append(out, *d)
		}
	}
	return out
}

// GetAllPhrases returns the union of every definition's phrase and aliases,
// collapsed case-insensitively, preserving the first-seen display form.
// This is the candidate set fed to the phrase scanner.
func (ix *Index) GetAllPhrases(contextFiles []string) []string {
	defs := ix.GetAllDefinitions(contextFiles)

	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		key := models.NormalizeKey(s)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	for i := range defs {
		add(defs[i].Phrase)
		for _, a := range defs[i].Aliases {
			add(a)
		}
	}
	return out
}

// IsDefinitionFile reports whether path currently owns at least one cached
// definition.
func (ix *Index) IsDefinitionFile(path string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byFile[path]) > 0
}

// Files returns every source path currently contributing definitions, sorted.
func (ix *Index) Files() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]string, 0, len(ix.byFile))
	for f := range ix.byFile {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct definitions.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n := 0
	for _, defs := range ix.byFile {
		n += len(defs)
	}
	return n
}

// LastUpdated returns the time of the most recent mutation.
func (ix *Index) LastUpdated() time.Time {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.lastUpdated
}

func contextSet(files []string) map[string]struct{} {
	if len(files) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	return set
}

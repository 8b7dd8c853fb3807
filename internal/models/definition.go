// Package models defines the domain types for Gloss.
package models

import "time"

// SourceType identifies the on-disk layout a definition was parsed from.
type SourceType string

const (
	// SourceAtomic is a file defining exactly one phrase (phrase = filename).
	SourceAtomic SourceType = "atomic"
	// SourceConsolidated is a file defining many phrases via header/divider blocks.
	SourceConsolidated SourceType = "consolidated"
)

// Definition is one resolved glossary entry.
type Definition struct {
	Phrase     string     `json:"phrase"`
	Aliases    []string   `json:"aliases,omitempty"`
	Content    string     `json:"content"`
	SourceFile string     `json:"source_file"`
	SourceType SourceType `json:"source_type"`
	// LineNumber is the 1-indexed line of the block's header.
	// Zero for atomic definitions (the whole file is the block).
	LineNumber int `json:"line_number,omitempty"`
}

// Keys returns every lowercased lookup key this definition is indexed under:
// its phrase plus each alias.
func (d *Definition) Keys() []string {
	keys := make([]string, 0, 1+len(d.Aliases))
	keys = append(keys, NormalizeKey(d.Phrase))
	for _, a := range d.Aliases {
		keys = append(keys, NormalizeKey(a))
	}
	return keys
}

// Match is one phrase occurrence found by the scanner, as byte offsets
// into the scanned text.
type Match struct {
	Phrase string `json:"phrase"`
	From   int    `json:"from"`
	To     int    `json:"to"`
}

// Usage is one occurrence of a phrase in a non-definition document.
type Usage struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

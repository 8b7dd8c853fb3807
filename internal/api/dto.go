package api

import "github.com/hnp180493/gloss/internal/models"

// CreateDefinitionRequest is the request body for creating a definition.
// Atomic selects a new single-definition file named after the phrase; when
// false the block is appended to File (which must be inside the definition
// folder).
type CreateDefinitionRequest struct {
	File    string   `json:"file,omitempty"`
	Phrase  string   `json:"phrase"`
	Aliases []string `json:"aliases,omitempty"`
	Content string   `json:"content"`
	Atomic  bool     `json:"atomic,omitempty"`
}

// UpdateDefinitionRequest is the request body for rewriting a block.
type UpdateDefinitionRequest struct {
	File    string   `json:"file"`
	Phrase  string   `json:"phrase"`
	Aliases []string `json:"aliases,omitempty"`
	Content string   `json:"content"`
}

// ScanRequest asks the scanner to find glossary phrases in text. Path, when
// set, is a vault document whose def-context narrows the candidate set.
type ScanRequest struct {
	Text string `json:"text"`
	Path string `json:"path,omitempty"`
}

// ScanResponse wraps scanner matches.
type ScanResponse struct {
	Matches []models.Match `json:"matches"`
}

// DefinitionListResponse wraps definition listings.
type DefinitionListResponse struct {
	Definitions []models.Definition `json:"definitions"`
	Total       int                 `json:"total"`
}

// PhraseListResponse wraps the scanner candidate phrase set.
type PhraseListResponse struct {
	Phrases []string `json:"phrases"`
}

// UsageListResponse wraps usage search results.
type UsageListResponse struct {
	Usages []models.Usage `json:"usages"`
}

// ClassifyResponse reports whether a path owns cached definitions.
type ClassifyResponse struct {
	Path           string `json:"path"`
	DefinitionFile bool   `json:"definition_file"`
}

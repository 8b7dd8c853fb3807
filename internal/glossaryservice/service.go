// Package glossaryservice coordinates the definition index, the phrase
// scanner, and the vault write path behind one service facade.
package glossaryservice

import (
	"errors"
	"os"

	"github.com/hnp180493/gloss/internal/apperr"
	"github.com/hnp180493/gloss/internal/index"
	"github.com/hnp180493/gloss/internal/models"
	"github.com/hnp180493/gloss/internal/parser"
	"github.com/hnp180493/gloss/internal/scanner"
	"github.com/hnp180493/gloss/internal/storage"
)

// Service exposes lookup, scanning, and definition CRUD.
type Service struct {
	store storage.Provider
	ctrl  *index.Controller
}

// NewService creates a new glossary service.
func NewService(store storage.Provider, ctrl *index.Controller) *Service {
	return &Service{store: store, ctrl: ctrl}
}

// Lookup returns the first definition for phrase under the optional context
// filter, or apperr.ErrNotFound.
func (s *Service) Lookup(phrase string, contextFiles []string) (*models.Definition, error) {
	d := s.ctrl.Index().GetDefinition(phrase, contextFiles)
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

// LookupAll returns every definition for phrase under the optional context
// filter, in discovery order.
func (s *Service) LookupAll(phrase string, contextFiles []string) []models.Definition {
	return s.ctrl.Index().GetDefinitions(phrase, contextFiles)
}

// AllDefinitions returns every indexed definition, de-duplicated.
func (s *Service) AllDefinitions(contextFiles []string) []models.Definition {
	return s.ctrl.Index().GetAllDefinitions(contextFiles)
}

// Phrases returns the scanner candidate set: every phrase and alias.
func (s *Service) Phrases(contextFiles []string) []string {
	return s.ctrl.Index().GetAllPhrases(contextFiles)
}

// IsDefinitionFile reports whether path currently owns cached definitions.
func (s *Service) IsDefinitionFile(path string) bool {
	return s.ctrl.Index().IsDefinitionFile(path)
}

// DefinitionFiles returns every path currently contributing definitions.
func (s *Service) DefinitionFiles() []string {
	return s.ctrl.Index().Files()
}

// ContextFor reads a document's own frontmatter and returns its def-context
// allow-list. A missing or unreadable document simply yields no context.
func (s *Service) ContextFor(docPath string) []string {
	if docPath == "" {
		return nil
	}
	data, err := s.store.Read(docPath)
	if err != nil {
		return nil
	}
	return parser.DefContext(parser.Frontmatter(data))
}

// Scan finds glossary phrases in text. When docPath is non-empty the
// document's own def-context narrows the candidate set, mirroring how a
// viewer of that document would resolve phrases.
func (s *Service) Scan(text, docPath string) []models.Match {
	ctx := s.ContextFor(docPath)
	return scanner.FindPhrases(text, s.ctrl.Index().GetAllPhrases(ctx))
}

// Usages returns every whole-word occurrence of phrase in non-definition
// documents.
func (s *Service) Usages(phrase string) ([]models.Usage, error) {
	return s.ctrl.FindUsages(phrase)
}

// Reload triggers a full index rebuild.
func (s *Service) Reload() error {
	return s.ctrl.Reload()
}

// ReadSource returns the raw content of a definition file for navigation,
// or apperr.ErrNotFound when the target no longer exists.
func (s *Service) ReadSource(path string) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

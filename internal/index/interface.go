package index

import (
	"time"

	"github.com/hnp180493/gloss/internal/models"
)

// Querier is the read-only lookup surface of the definition index.
// Consumers should depend on this interface rather than the concrete *Index
// type to facilitate testing with mocks.
type Querier interface {
	GetDefinition(phrase string, contextFiles []string) *models.Definition
	GetDefinitions(phrase string, contextFiles []string) []models.Definition
	GetAllDefinitions(contextFiles []string) []models.Definition
	GetAllPhrases(contextFiles []string) []string
	IsDefinitionFile(path string) bool
	Files() []string
	LastUpdated() time.Time
}

// Verify *Index satisfies Querier at compile time.
var _ Querier = (*Index)(nil)

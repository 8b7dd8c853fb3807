package index

import (
	"log/slog"
	"strings"

	"github.com/hnp180493/gloss/internal/models"
	"github.com/hnp180493/gloss/internal/scanner"
)

// FindUsages scans every vault document outside the definition folder for
// whole-word, case-insensitive occurrences of phrase. A term's own defining
// documents are excluded: the block that defines a phrase is not a usage.
func (c *Controller) FindUsages(phrase string) ([]models.Usage, error) {
	metas, err := c.store.List("")
	if err != nil {
		return nil, err
	}

	needle := []string{phrase}
	var out []models.Usage
	for _, m := range metas {
		if c.InScope(m.Path) || c.ix.IsDefinitionFile(m.Path) {
			continue
		}
		data, readErr := c.store.Read(m.Path)
		if readErr != nil {
			c.logger.Warn("usages: read failed", slog.String("path", m.Path), slog.String("error", readErr.Error()))
			continue
		}
		for i, line := range strings.Split(string(data), "\n") {
			if len(scanner.FindPhrases(line, needle)) == 0 {
				continue
			}
			out = append(out, models.Usage{
				File: m.Path,
				Line: i + 1,
				Text: strings.TrimSpace(line),
			})
		}
	}
	return out, nil
}

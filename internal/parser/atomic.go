package parser

import (
	"path/filepath"
	"strings"

	"github.com/hnp180493/gloss/internal/models"
)

// ParseAtomic converts a single-definition document into one Definition.
// The phrase is the filename without extension; aliases come from the
// frontmatter "aliases" key (sequence or scalar); content is the body with
// leading blank lines stripped and trailing whitespace trimmed.
//
// Malformed frontmatter never fails the parse: the file simply yields no
// aliases and the whole (trimmed) content becomes the definition body.
func ParseAtomic(path string, data []byte) models.Definition {
	fm, body := splitFrontmatter(data)

	var aliases []string
	if fm != nil {
		if raw, ok := fm[KeyAliases]; ok {
			aliases = stringList(raw)
		}
	}

	base := filepath.Base(path)
	phrase := strings.TrimSuffix(base, filepath.Ext(base))

	// With frontmatter only blank lines are stripped from the body's start,
	// preserving any indentation of the first content line. Without it the
	// whole raw content is trimmed.
	content := strings.TrimRight(strings.TrimLeft(body, "\n\r"), " \t\n\r")
	if fm == nil {
		content = strings.TrimSpace(body)
	}

	return models.Definition{
		Phrase:     phrase,
		Aliases:    aliases,
		Content:    content,
		SourceFile: path,
		SourceType: models.SourceAtomic,
	}
}

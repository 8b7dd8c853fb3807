package glossaryservice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hnp180493/gloss/internal/apperr"
	"github.com/hnp180493/gloss/internal/checksum"
	"github.com/hnp180493/gloss/internal/models"
	"github.com/hnp180493/gloss/internal/parser"
)

// The write path is strictly read-modify-write: the complete new file
// content is computed in memory and committed with one atomic storage write,
// so a failure anywhere leaves the source document unmodified.

// CreateAtomic creates a new single-definition file named after the phrase
// inside the definition folder.
func (s *Service) CreateAtomic(phrase string, aliases []string, content string) (*models.Definition, error) {
	if err := validateDefinition(phrase, content); err != nil {
		return nil, err
	}

	path := s.ctrl.Folder() + "/" + strings.TrimSpace(phrase) + ".md"
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}

	var b strings.Builder
	b.WriteString("---\ndef-type: atomic\n")
	if clean := cleanAliases(aliases); len(clean) > 0 {
		b.WriteString("aliases:\n")
		for _, a := range clean {
			b.WriteString("  - " + a + "\n")
		}
	}
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(content) + "\n")

	data := []byte(b.String())
	if err := s.store.Write(path, data); err != nil {
		return nil, err
	}
	s.ctrl.IndexFile(path, data)

	d := parser.ParseAtomic(path, data)
	return &d, nil
}

// CreateBlock appends a definition block to a consolidated file in the
// definition folder, creating the file when it does not exist yet.
func (s *Service) CreateBlock(file, phrase string, aliases []string, content string) (*models.Definition, error) {
	if err := validateDefinition(phrase, content); err != nil {
		return nil, err
	}
	if !s.ctrl.InScope(file) {
		return nil, fmt.Errorf("%w: %s is outside the definition folder", apperr.ErrValidation, file)
	}
	// Index under the same path a reload would discover.
	file = filepath.ToSlash(filepath.Clean(filepath.FromSlash(file)))
	if d := s.ctrl.Index().GetDefinition(phrase, []string{file}); d != nil {
		return nil, apperr.ErrAlreadyExists
	}

	existing, err := s.store.Read(file)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var b strings.Builder
	if trimmed := strings.TrimRight(string(existing), "\n"); trimmed != "" {
		b.WriteString(trimmed + "\n\n")
		if !endsWithDivider(trimmed) {
			b.WriteString("---\n\n")
		}
	}
	b.WriteString(renderBlock(phrase, aliases, content))

	data := []byte(b.String())
	if err := s.store.Write(file, data); err != nil {
		return nil, err
	}
	s.ctrl.IndexFile(file, data)

	d := s.ctrl.Index().GetDefinition(phrase, []string{file})
	if d == nil {
		return nil, fmt.Errorf("glossaryservice: block for %q not indexed after write", phrase)
	}
	return d, nil
}

// UpdateBlock rewrites an existing consolidated block in place, located by
// its indexed line number. ifMatch, when non-empty, must equal the current
// file checksum (optimistic concurrency).
func (s *Service) UpdateBlock(file, phrase string, aliases []string, content, ifMatch string) (*models.Definition, error) {
	if err := validateDefinition(phrase, content); err != nil {
		return nil, err
	}

	target := s.ctrl.Index().GetDefinition(phrase, []string{file})
	if target == nil || target.SourceType != models.SourceConsolidated {
		return nil, apperr.ErrNotFound
	}

	existing, err := s.store.Read(file)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}

	lines := splitLines(existing)
	start := target.LineNumber - 1
	if start < 0 || start >= len(lines) {
		return nil, apperr.ErrNotFound
	}
	end, hadDivider := blockEnd(lines, start, s.ctrl.DividerPattern())

	replacement := splitLines([]byte(renderBlockBody(phrase, aliases, content)))
	if hadDivider {
		replacement = append(replacement, "", "---", "")
	}

	out := make([]string, 0, len(lines)-(end-start)+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)

	data := []byte(strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n")
	if err := s.store.Write(file, data); err != nil {
		return nil, err
	}
	s.ctrl.IndexFile(file, data)

	d := s.ctrl.Index().GetDefinition(phrase, []string{file})
	if d == nil {
		return nil, fmt.Errorf("glossaryservice: block for %q not indexed after update", phrase)
	}
	return d, nil
}

// DeleteDefinition removes a definition: an atomic file is deleted outright,
// a consolidated block is spliced out of its file.
func (s *Service) DeleteDefinition(file, phrase string) error {
	target := s.ctrl.Index().GetDefinition(phrase, []string{file})
	if target == nil {
		return apperr.ErrNotFound
	}

	if target.SourceType == models.SourceAtomic {
		if err := s.store.Delete(file); err != nil {
			return err
		}
		s.ctrl.Evict(file)
		return nil
	}

	existing, err := s.store.Read(file)
	if err != nil {
		return apperr.ErrNotFound
	}
	lines := splitLines(existing)
	start := target.LineNumber - 1
	if start < 0 || start >= len(lines) {
		return apperr.ErrNotFound
	}
	end, _ := blockEnd(lines, start, s.ctrl.DividerPattern())

	out := append(append([]string{}, lines[:start]...), lines[end:]...)
	body := strings.Trim(strings.Join(out, "\n"), "\n")

	if body == "" {
		if err := s.store.Delete(file); err != nil {
			return err
		}
		s.ctrl.Evict(file)
		return nil
	}

	data := []byte(body + "\n")
	if err := s.store.Write(file, data); err != nil {
		return err
	}
	s.ctrl.IndexFile(file, data)
	return nil
}

// blockEnd returns the exclusive end line of the block starting at the
// header line start, and whether the block was terminated by a divider
// (which then belongs to the block and is part of the span).
func blockEnd(lines []string, start int, pattern parser.DividerPattern) (int, bool) {
	i := start + 1
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if t == "---" || (pattern == parser.DividerBoth && t == "___") {
			return i + 1, true
		}
		if strings.HasPrefix(t, "# ") {
			return i, false
		}
		i++
	}
	return i, false
}

func renderBlock(phrase string, aliases []string, content string) string {
	return renderBlockBody(phrase, aliases, content) + "\n"
}

func renderBlockBody(phrase string, aliases []string, content string) string {
	var b strings.Builder
	b.WriteString("# " + strings.TrimSpace(phrase) + "\n")
	if clean := cleanAliases(aliases); len(clean) > 0 {
		b.WriteString("*" + strings.Join(clean, ", ") + "*\n")
	}
	b.WriteString("\n" + strings.TrimSpace(content))
	return b.String()
}

// endsWithDivider reports whether the last non-blank line of text is a
// divider token, so CreateBlock knows whether it must insert one.
func endsWithDivider(text string) bool {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			continue
		}
		return t == "---" || t == "___"
	}
	return false
}

func cleanAliases(aliases []string) []string {
	var out []string
	for _, a := range aliases {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func validateDefinition(phrase, content string) error {
	err := validation.Errors{
		"phrase":  validation.Validate(strings.TrimSpace(phrase), validation.Required, validation.By(pathSafe)),
		"content": validation.Validate(strings.TrimSpace(content), validation.Required),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	return nil
}

// pathSafe rejects phrases that would change the target file path: the
// phrase becomes a filename, so separators and parent-directory segments
// must not appear.
func pathSafe(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return errors.New("must not contain path separators")
	}
	return nil
}

func splitLines(data []byte) []string {
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
}

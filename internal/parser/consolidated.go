package parser

import (
	"strings"

	"github.com/hnp180493/gloss/internal/models"
)

// DividerPattern selects which line tokens terminate a consolidated block.
type DividerPattern string

const (
	// DividerHyphens accepts only "---" as a block divider.
	DividerHyphens DividerPattern = "hyphens"
	// DividerBoth accepts "---" and "___".
	DividerBoth DividerPattern = "both"
)

// Valid reports whether p is a recognised pattern.
func (p DividerPattern) Valid() bool {
	return p == DividerHyphens || p == DividerBoth
}

func (p DividerPattern) isDivider(line string) bool {
	t := strings.TrimSpace(line)
	if t == "---" {
		return true
	}
	return p == DividerBoth && t == "___"
}

// ParseConsolidated converts a multi-definition document into an ordered
// sequence of Definitions. Each block starts at a "# Phrase" header line,
// optionally followed by an "*alias, alias*" line, then content lines until
// a divider (consumed), the next header (not consumed), or end of file.
//
// Line numbers are 1-indexed positions of the header line in the raw input,
// counting any leading frontmatter, so callers can navigate and edit blocks
// in place. Malformed blocks are skipped, never fatal.
func ParseConsolidated(data []byte, path string, pattern DividerPattern) []models.Definition {
	if !pattern.Valid() {
		pattern = DividerHyphens
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	i := skipFrontmatterLines(lines)

	var defs []models.Definition
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "# ") {
			i++
			continue
		}

		phrase := strings.TrimSpace(trimmed[2:])
		headerLine := i + 1 // 1-indexed
		i++

		// An empty header yields no definition but still advances.
		if phrase == "" {
			continue
		}

		var aliases []string
		if i < len(lines) {
			if a, ok := parseAliasLine(lines[i]); ok {
				aliases = a
				i++
			}
		}

		var content []string
		for i < len(lines) {
			t := strings.TrimSpace(lines[i])
			if pattern.isDivider(lines[i]) {
				i++ // divider belongs to this block; consume it
				break
			}
			if strings.HasPrefix(t, "# ") {
				break // next block's header stays for the outer loop
			}
			content = append(content, lines[i])
			i++
		}

		defs = append(defs, models.Definition{
			Phrase:     phrase,
			Aliases:    aliases,
			Content:    strings.Join(trimBlankEdges(content), "\n"),
			SourceFile: path,
			SourceType: models.SourceConsolidated,
			LineNumber: headerLine,
		})
	}

	return defs
}

// skipFrontmatterLines returns the index of the first line after an optional
// leading frontmatter block ("---" ... "---"), or 0 when there is none.
func skipFrontmatterLines(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0
	}
	for j := 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == "---" {
			return j + 1
		}
	}
	return 0
}

// parseAliasLine recognises a "*alias one, alias two*" line and returns the
// comma-separated, trimmed, non-empty alias list.
func parseAliasLine(line string) ([]string, bool) {
	t := strings.TrimSpace(line)
	if len(t) <= 2 || !strings.HasPrefix(t, "*") || !strings.HasSuffix(t, "*") {
		return nil, false
	}
	inner := t[1 : len(t)-1]
	var out []string
	for _, part := range strings.Split(inner, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// trimBlankEdges drops fully-blank lines from both ends, preserving interior
// blank lines.
func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// Package scanner finds glossary phrases in free-form document text.
//
// Matching is case-insensitive, whole-word, and overlap-free: phrases are
// tried longest first, and a shorter phrase whose span would overlap or even
// touch an already-claimed span is discarded. For two phrases where one is a
// word-bounded prefix of the other at the same position, the longer one
// therefore always wins regardless of input order.
package scanner

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hnp180493/gloss/internal/models"
)

// FindPhrases scans text for every phrase in phrases and returns the
// accepted matches sorted by ascending start offset. Offsets are byte
// positions into text.
func FindPhrases(text string, phrases []string) []models.Match {
	candidates := make([]string, 0, len(phrases))
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		candidates = append(candidates, p)
	}

	// Longest phrase claims its span first. Stable so equal-length phrases
	// keep their input order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	var matches []models.Match
	for _, phrase := range candidates {
		offset := 0
		for {
			from, to := foldIndex(text, phrase, offset)
			if from < 0 {
				break
			}
			_, size := utf8.DecodeRuneInString(text[from:])
			offset = from + size

			if !wholeWord(text, from, to) {
				continue
			}
			if overlapsAny(matches, from, to) {
				continue
			}
			matches = append(matches, models.Match{Phrase: phrase, From: from, To: to})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].From < matches[j].From })
	return matches
}

// foldIndex returns the byte span [from,to) of the first case-insensitive
// occurrence of needle in text at or after start, or (-1,-1). Matching folds
// rune by rune over the original text, so the span stays valid even for
// runes whose lowercase form has a different UTF-8 length.
func foldIndex(text, needle string, start int) (int, int) {
	for i := start; i < len(text); {
		if end, ok := foldMatchAt(text, needle, i); ok {
			return i, end
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, -1
}

// foldMatchAt reports whether needle matches text at byte offset at,
// comparing lowercased runes, and returns the exclusive end offset.
func foldMatchAt(text, needle string, at int) (int, bool) {
	i := at
	for _, nr := range needle {
		if i >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[i:])
		if unicode.ToLower(tr) != unicode.ToLower(nr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// wholeWord reports whether text[from:to] is delimited by non-word runes
// (or the text edges) on both sides.
func wholeWord(text string, from, to int) bool {
	if from > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:from])
		if isWordRune(r) {
			return false
		}
	}
	if to < len(text) {
		r, _ := utf8.DecodeRuneInString(text[to:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// overlapsAny reports whether [from,to) overlaps or touches any accepted span.
// Touching counts: a shorter match is never allowed to butt up against a
// claimed span.
func overlapsAny(matches []models.Match, from, to int) bool {
	for _, m := range matches {
		if from <= m.To && to >= m.From {
			return true
		}
	}
	return false
}

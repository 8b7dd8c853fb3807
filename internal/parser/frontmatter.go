// Package parser converts definition documents into Definition entities.
// Two on-disk layouts are supported: atomic (one file, one phrase) and
// consolidated (one file, many header/divider blocks).
package parser

import (
	"bytes"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter keys recognised across the vault.
const (
	KeyDefType    = "def-type"
	KeyAliases    = "aliases"
	KeyDefContext = "def-context"
)

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is
// body. Invalid YAML also falls back to body-only: a broken header must never
// take the rest of the file down with it.
func splitFrontmatter(data []byte) (map[string]interface{}, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}

	return fm, body
}

// Frontmatter parses and returns just the frontmatter of a document,
// or nil when there is none (or it is malformed).
func Frontmatter(data []byte) map[string]interface{} {
	fm, _ := splitFrontmatter(data)
	return fm
}

// DefType returns the declared definition layout of a document.
// Anything other than an explicit "atomic" means consolidated; that is the
// backward-compatible default for files written before the key existed.
func DefType(fm map[string]interface{}) string {
	if fm != nil {
		if v, ok := fm[KeyDefType].(string); ok && strings.TrimSpace(v) == "atomic" {
			return "atomic"
		}
	}
	return "consolidated"
}

// DefContext extracts the def-context allow-list from a document's
// frontmatter: either a single path string or a sequence of paths.
// Nil means no context, i.e. every definition file is visible.
func DefContext(fm map[string]interface{}) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm[KeyDefContext]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

// stringList coerces a frontmatter value into a list of trimmed, non-empty
// strings. A scalar becomes a one-element list; any other shape yields nil.
func stringList(raw interface{}) []string {
	switch v := raw.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []interface{}:
		var out []string
		for _, item := range v {
			s := strings.TrimSpace(stringify(item))
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

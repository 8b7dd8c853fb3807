package models

import "strings"

// NormalizeKey converts a phrase or alias to its index key form:
// trimmed and lowercased. Lookups compare by exact key equality.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Package normalize provides canonical forms for user-entered identifiers
// so lookups and uniqueness checks behave consistently.
package normalize

import "strings"

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username trims whitespace. Case is preserved for display; use the folded
// username_ci field for case-insensitive comparisons.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Name trims whitespace, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

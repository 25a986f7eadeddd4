// Package htmlsanitize strips unsafe markup from administrator-entered
// HTML (group descriptions, the denial message) before it is stored or
// rendered.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting tags (p, strong, em, a, lists) are preserved.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

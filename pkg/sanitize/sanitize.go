// Package sanitize normalizes user-supplied names and tag strings before
// they reach file paths or training prompts.
package sanitize

import (
	"strings"
	"unicode"
)

func allowed(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-'
}

// Name strips everything except letters, digits, and "._-" so the result
// is safe to use as a directory or file name.
func Name(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tags sanitizes a comma-separated tag list: each tag is trimmed, inner
// spaces become underscores, disallowed characters are dropped, and empty
// tags are removed.
func Tags(s string) string {
	var out []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.ReplaceAll(strings.TrimSpace(tag), " ", "_")
		if tag = Name(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return strings.Join(out, ",")
}

// IsSet reports whether a user-facing option value carries information.
// Both the empty string and the "*" wildcard count as unset.
func IsSet(val string) bool {
	return val != "" && val != "*"
}

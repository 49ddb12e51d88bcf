// Package tags holds the canonical casing applied to question text.
package tags

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize upper-cases the first character of s and lower-cases the rest.
// "aLGEBRA" and "algebra" both become "Algebra". An empty string is returned unchanged.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free-text answers so equivalent submissions tally
// together: lower-case, strip diacritics, drop punctuation, trim whitespace.
// "Café!" and "cafe" normalize to the same string. Empty input yields "".
func Normalize(s string) string {
	s = strings.ToLower(s)

	// Decompose accented characters so combining marks can be dropped.
	s = norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue // combining diacritical mark
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// Package matching holds the pure scoring functions behind duplicate
// detection: text normalization, edit distance, name similarity and the
// confidence classifier.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical comparison form of s: lowercased,
// diacritics removed and surrounding whitespace trimmed.
func Normalize(s string) string {
	// transform.Chain holds state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		result = strings.ToLower(s)
	}
	return strings.TrimSpace(result)
}

// NormalizeEmail returns the form exact-email matching compares. It is
// Normalize, so "José@x.com" and "jose@x.com" are the same address.
func NormalizeEmail(email string) string {
	return Normalize(email)
}

// LocalPart returns the part of an email address before the first '@',
// or the whole string when there is none.
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

package matching

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Levenshtein returns the unit-cost edit distance between a and b.
// Inputs are compared as given; callers normalize first when needed.
func Levenshtein(a, b string) int {
	if a == "" {
		return utf8.RuneCountInString(b)
	}
	if b == "" {
		return utf8.RuneCountInString(a)
	}
	return levenshtein.ComputeDistance(a, b)
}

// Similarity scores two strings from 0 to 100 after normalizing both.
// Equal normalized forms (including two empty strings) score 100 and a
// single empty side scores 0.
func Similarity(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 100
	}

	la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
	if la == 0 || lb == 0 {
		return 0
	}

	maxLen := max(la, lb)
	ratio := 1 - float64(Levenshtein(na, nb))/float64(maxLen)
	return clampScore(roundHalfUp(ratio * 100))
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package reconcile

import "github.com/agnivade/levenshtein"

// DefaultSimilarityThreshold is the ratio at or above which two descriptions
// are considered the same transfer pattern.
const DefaultSimilarityThreshold = 0.90

// similarity returns a normalized edit ratio in [0,1]: 1 means identical.
// Two empty strings are identical; one empty string never matches a
// non-empty one.
func similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// descriptionsMatch reports whether two descriptions are equal enough at the
// given threshold.
func descriptionsMatch(a, b string, threshold float64) bool {
	return similarity(a, b) >= threshold
}

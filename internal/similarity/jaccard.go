// Package similarity ranks texts against recent search history using
// token-set (Jaccard) similarity.
package similarity

import "strings"

// tokenSet builds the set of unique lowercased whitespace-delimited tokens.
func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Jaccard computes |intersection| / |union| over the unique token sets of a
// and b. Symmetric, 1.0 for identical non-empty texts, and 0 when both token
// sets are empty (the undefined case is treated as no similarity).
func Jaccard(a, b string) float64 {
	sa, sb := tokenSet(a), tokenSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 0
	}
	intersection := 0
	for tok := range sa {
		if _, ok := sb[tok]; ok {
			intersection++
		}
	}
	union := len(sa) + len(sb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

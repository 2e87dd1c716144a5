package workspace

import "strings"

// maxSuggestDistance bounds how far a name may be from a candidate and
// still be offered as a correction.
const maxSuggestDistance = 2

// suggest picks the known name closest to missing: smallest edit
// distance within maxSuggestDistance, ties broken lexicographically.
// When no candidate is close enough, a case-insensitive substring
// match is offered instead, shortest first. Candidates must be sorted.
func suggest(missing string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, cand := range candidates {
		if cand == missing {
			continue
		}
		if d := levenshtein(missing, cand); d < bestDist {
			best = cand
			bestDist = d
		}
	}
	if best != "" {
		return best
	}

	lower := strings.ToLower(missing)
	for _, cand := range candidates {
		cl := strings.ToLower(cand)
		if strings.Contains(cl, lower) || strings.Contains(lower, cl) {
			if best == "" || len(cand) < len(best) {
				best = cand
			}
		}
	}
	return best
}

// levenshtein computes the edit distance between a and b using two
// rolling rows.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

package inflect

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-byte insertions, deletions or substitutions required to
// transform one into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	// Two rows instead of the full matrix.
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity returns 1 - distance/maxLen over the Keys of a and b.
// 1.0 means the names are interchangeable, 0.0 means nothing in common.
func Similarity(a, b string) float64 {
	ka, kb := Key(a), Key(b)
	if len(ka) == 0 && len(kb) == 0 {
		return 1.0
	}

	maxLen := max(len(ka), len(kb))

	return 1.0 - float64(Levenshtein(ka, kb))/float64(maxLen)
}

package inflect

import (
	"sort"
)

const (
	// SuggestThreshold is the minimum similarity for a candidate to be suggested.
	SuggestThreshold = 0.6
	// SuggestLimit caps the number of suggestions returned.
	SuggestLimit = 3
)

type scored struct {
	name  string
	score float64
}

// Suggest returns up to SuggestLimit candidates that look like name, best
// first. Candidates with equal scores keep their input order.
func Suggest(name string, candidates []string) []string {
	var ranked []scored

	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}

		seen[c] = struct{}{}

		s := Similarity(name, c)
		if s >= SuggestThreshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > SuggestLimit {
		ranked = ranked[:SuggestLimit]
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.name)
	}

	return out
}

package registry

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to word, or "" when nothing is close.
// Abbreviations ("ret" for "retrieve") are matched first, then small typos.
func Suggest(word string, candidates []string) string {
	if word == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(word, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, candidate := range candidates {
		if d := fuzzy.LevenshteinDistance(word, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

// DidYouMean formats a suggestion suffix for an error message.
func DidYouMean(word string, candidates []string) string {
	if s := Suggest(word, candidates); s != "" {
		return " (did you mean '" + s + "'?)"
	}
	return ""
}

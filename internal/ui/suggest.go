package ui

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns up to limit candidates close to name, best match first
func Suggest(name string, candidates []string, limit int) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)

	// Names that do not contain the query still deserve a hint when the
	// edit distance is small (typos rather than prefixes)
	seen := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		seen[r.Target] = true
	}
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(normalize(name), normalize(c)); d <= maxTypoDistance(name) {
			ranks = append(ranks, fuzzy.Rank{Source: name, Target: c, Distance: d})
			seen[c] = true
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance == ranks[j].Distance {
			return ranks[i].Target < ranks[j].Target
		}
		return ranks[i].Distance < ranks[j].Distance
	})

	out := make([]string, 0, limit)
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		if r.Target == name {
			continue
		}
		out = append(out, r.Target)
	}
	return out
}

func maxTypoDistance(name string) int {
	switch n := len(name); {
	case n <= 3:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

func normalize(s string) string {
	return strings.ToLower(s)
}

package util

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/exp/slices"
)

// FuzzyFilter keeps the items whose label fuzzy-matches query, closest first.
// An empty query keeps every item in its original order.
func FuzzyFilter[T any](items []T, query string, label func(T) string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	type ranked struct {
		item     T
		distance int
	}

	var matches []ranked
	for _, item := range items {
		if d := fuzzy.RankMatchNormalizedFold(query, label(item)); d >= 0 {
			matches = append(matches, ranked{item: item, distance: d})
		}
	}

	slices.SortStableFunc(matches, func(a, b ranked) int {
		return a.distance - b.distance
	})

	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = m.item
	}
	return out
}

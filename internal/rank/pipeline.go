// Package rank implements the pure ranking pipeline: chain restriction,
// threshold/stable/text filters, scoring, a stable descending sort, and
// truncation. Every pass recomputes from the full snapshot; there is no
// incremental path and none is needed at this input size.
package rank

import (
	"sort"
	"strings"

	"yieldRadar/internal/model"
)

// Rank runs the full pipeline over a raw snapshot. The result is a new
// slice; the input is never reordered or mutated. The pipeline is
// deterministic: identical (pools, chain, view) inputs produce an
// identically ordered result.
func Rank(pools []model.Pool, chain string, view model.ViewConfig) []model.RankedPool {
	view = view.Normalize()

	query := strings.ToLower(strings.TrimSpace(view.Query))

	filtered := make([]model.RankedPool, 0, len(pools))
	for _, p := range pools {
		// Exact, case-sensitive chain match mirrors the source API's
		// own casing.
		if p.Chain != chain {
			continue
		}
		if p.TVLOrZero() < view.MinTVL {
			continue
		}
		if view.StableOnly && !IsStable(p) {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(p.Project + " " + p.Symbol)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		filtered = append(filtered, model.RankedPool{Pool: p, Score: Score(p)})
	}

	sortPools(filtered, view.SortKey)

	if len(filtered) > view.Limit {
		filtered = filtered[:view.Limit]
	}
	return filtered
}

// sortPools orders descending by the selected key. The sort is stable:
// ties keep their relative order from the filter stage.
func sortPools(pools []model.RankedPool, key model.SortKey) {
	switch key {
	case model.SortByAPY:
		// Null APY sinks below any real value, not to 0.
		sort.SliceStable(pools, func(i, j int) bool {
			a, b := pools[i].APY, pools[j].APY
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a > *b
		})
	case model.SortByTVL:
		sort.SliceStable(pools, func(i, j int) bool {
			return pools[i].TVLOrZero() > pools[j].TVLOrZero()
		})
	default:
		sort.SliceStable(pools, func(i, j int) bool {
			return pools[i].Score > pools[j].Score
		})
	}
}

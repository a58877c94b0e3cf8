package model

import "math"

// SortKey selects the ordering of the ranked list.
type SortKey string

const (
	SortByScore SortKey = "score"
	SortByAPY   SortKey = "apy"
	SortByTVL   SortKey = "tvl"
)

// Defaults for a fresh view.
const (
	DefaultMinTVL = 50_000
	DefaultLimit  = 30
)

// Limits is the fixed set of allowed result counts.
var Limits = []int{10, 20, 30, 50, 100}

// ViewConfig holds the user-controlled filter and sort settings for one
// pipeline pass. It is a value: each recomputation receives its own
// copy and the pipeline never mutates it.
type ViewConfig struct {
	Query      string
	MinTVL     float64
	StableOnly bool
	SortKey    SortKey
	Limit      int
}

// DefaultView returns the view settings used before any user input.
func DefaultView() ViewConfig {
	return ViewConfig{
		MinTVL:  DefaultMinTVL,
		SortKey: SortByScore,
		Limit:   DefaultLimit,
	}
}

// Normalize clamps the view into its valid domain: a negative or
// non-finite TVL floor becomes 0, an unknown sort key falls back to
// score, and a limit outside the fixed set falls back to the default.
// NaN and infinity count as non-numeric input: +Inf would filter out
// every pool and NaN defeats the floor comparison entirely.
func (v ViewConfig) Normalize() ViewConfig {
	if v.MinTVL < 0 || math.IsNaN(v.MinTVL) || math.IsInf(v.MinTVL, 0) {
		v.MinTVL = 0
	}
	switch v.SortKey {
	case SortByScore, SortByAPY, SortByTVL:
	default:
		v.SortKey = SortByScore
	}
	if !validLimit(v.Limit) {
		v.Limit = DefaultLimit
	}
	return v
}

func validLimit(n int) bool {
	for _, l := range Limits {
		if n == l {
			return true
		}
	}
	return false
}

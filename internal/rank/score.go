package rank

import (
	"math"

	"yieldRadar/internal/model"
)

// Score computes the composite ranking metric: APY damped by the order
// of magnitude of liquidity. Pure APY favors pools with tiny, unreliable
// liquidity; the log term keeps depth relevant without letting it
// dominate. Null APY or TVL counts as 0 here only; the record itself is
// left untouched. A zero-TVL pool scores 0 regardless of APY.
func Score(p model.Pool) float64 {
	return p.APYOrZero() * math.Log10(1+p.TVLOrZero())
}

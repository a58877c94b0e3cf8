package rank

import (
	"strings"

	"yieldRadar/internal/model"
)

// stableMarkers are matched as plain substrings of the uppercased
// symbol, so "bMUSD" counts as stable via "MUSD".
var stableMarkers = []string{
	"USDC", "USDT", "DAI", "USDB", "FDUSD", "MUSD", "USDE", "PYUSD",
}

// LooksStable reports whether a pool symbol looks stablecoin-denominated.
func LooksStable(symbol string) bool {
	upper := strings.ToUpper(symbol)
	for _, marker := range stableMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// IsStable resolves a pool's stablecoin status. The source's explicit
// flag always wins when present, including an explicit false; the
// symbol heuristic is only a fallback for records without the flag.
func IsStable(p model.Pool) bool {
	if p.Stablecoin != nil {
		return *p.Stablecoin
	}
	return LooksStable(p.Symbol)
}

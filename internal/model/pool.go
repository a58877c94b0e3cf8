package model

import (
	"net/url"

	"github.com/ethereum/go-ethereum/common"
)

// Pool represents a single yield pool record as returned by the
// DefiLlama yields API. Numeric fields arrive nullable and are kept
// that way; consumers coalesce at the point of use.
type Pool struct {
	ID               string   `json:"pool"`
	Project          string   `json:"project"`
	Chain            string   `json:"chain"`
	Symbol           string   `json:"symbol"`
	TVLUSD           *float64 `json:"tvlUsd"`
	APY              *float64 `json:"apy"`
	APYBase          *float64 `json:"apyBase"`
	APYReward        *float64 `json:"apyReward"`
	URL              string   `json:"url,omitempty"`
	Stablecoin       *bool    `json:"stablecoin,omitempty"`
	UnderlyingTokens []string `json:"underlyingTokens,omitempty"`
}

// TVLOrZero returns the TVL, treating null as 0.
func (p Pool) TVLOrZero() float64 {
	if p.TVLUSD == nil {
		return 0
	}
	return *p.TVLUSD
}

// APYOrZero returns the total APY, treating null as 0.
func (p Pool) APYOrZero() float64 {
	if p.APY == nil {
		return 0
	}
	return *p.APY
}

// PoolURL returns the detail page link: the record's own URL when the
// source provides one, otherwise the DefiLlama pool page.
func (p Pool) PoolURL() string {
	if p.URL != "" {
		return p.URL
	}
	return "https://defillama.com/yields/pool/" + url.QueryEscape(p.ID)
}

// SearchURL returns the DefiLlama yields search link for this pool's
// project on the given chain.
func (p Pool) SearchURL(chain string) string {
	q := url.Values{}
	q.Set("chain", chain)
	q.Set("search", p.Project)
	return "https://defillama.com/yields?" + q.Encode()
}

// ChecksumUnderlying returns the underlying token addresses in EIP-55
// checksum form. Entries that are not hex addresses are passed through
// unchanged; the slice is for display only.
func (p Pool) ChecksumUnderlying() []string {
	if len(p.UnderlyingTokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(p.UnderlyingTokens))
	for _, raw := range p.UnderlyingTokens {
		if common.IsHexAddress(raw) {
			out = append(out, common.HexToAddress(raw).Hex())
			continue
		}
		out = append(out, raw)
	}
	return out
}

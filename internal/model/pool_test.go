package model

import (
	"encoding/json"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestPoolJSONRoundTrip(t *testing.T) {
	raw := `{"pool":"0xabc-base","project":"aerodrome","chain":"Base","symbol":"USDC-WETH","tvlUsd":1234.5,"apy":null,"apyBase":2.5,"stablecoin":false,"underlyingTokens":["0xd9aaec86b65d86f6a7b5b1b0c42ffa531710b6ca"]}`

	var p Pool
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if p.ID != "0xabc-base" || p.Chain != "Base" {
		t.Fatalf("identity fields mismatch: %+v", p)
	}
	if p.APY != nil {
		t.Fatalf("null apy must stay nil")
	}
	if p.APYBase == nil || *p.APYBase != 2.5 {
		t.Fatalf("apyBase mismatch: %+v", p.APYBase)
	}
	if p.Stablecoin == nil || *p.Stablecoin {
		t.Fatalf("explicit stablecoin=false must survive decoding")
	}
}

func TestOrZeroHelpers(t *testing.T) {
	p := Pool{}
	if p.TVLOrZero() != 0 || p.APYOrZero() != 0 {
		t.Fatalf("nil numerics must coalesce to 0")
	}

	p = Pool{TVLUSD: fp(10), APY: fp(-1)}
	if p.TVLOrZero() != 10 || p.APYOrZero() != -1 {
		t.Fatalf("present numerics must pass through")
	}
}

func TestPoolURL(t *testing.T) {
	p := Pool{ID: "abc def", URL: "https://app.example.com/pool/1"}
	if got := p.PoolURL(); got != "https://app.example.com/pool/1" {
		t.Fatalf("explicit url must win, got %q", got)
	}

	p.URL = ""
	want := "https://defillama.com/yields/pool/abc+def"
	if got := p.PoolURL(); got != want {
		t.Fatalf("fallback url = %q, want %q", got, want)
	}
}

func TestSearchURL(t *testing.T) {
	p := Pool{Project: "uniswap v3"}
	got := p.SearchURL("Base")
	want := "https://defillama.com/yields?chain=Base&search=uniswap+v3"
	if got != want {
		t.Fatalf("search url = %q, want %q", got, want)
	}
}

func TestChecksumUnderlying(t *testing.T) {
	p := Pool{UnderlyingTokens: []string{
		"0xd9aaec86b65d86f6a7b5b1b0c42ffa531710b6ca",
		"not-an-address",
	}}
	got := p.ChecksumUnderlying()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0] != "0xd9aAEc86B65D86f6A7B5B1b0c42FFA531710b6CA" {
		t.Fatalf("checksum mismatch: %q", got[0])
	}
	if got[1] != "not-an-address" {
		t.Fatalf("non-address entries must pass through, got %q", got[1])
	}
}

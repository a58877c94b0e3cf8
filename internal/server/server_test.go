package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yieldRadar/internal/model"
)

type stubFetcher struct {
	pools []model.Pool
	err   error
	calls int
}

func (s *stubFetcher) FetchPools(context.Context) ([]model.Pool, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.pools, nil
}

func f(v float64) *float64 { return &v }

func testPools() []model.Pool {
	return []model.Pool{
		{ID: "p1", Project: "aerodrome", Chain: "Base", Symbol: "USDC-WETH", TVLUSD: f(2_000_000), APY: f(14.2), APYBase: f(6.1), APYReward: f(8.1)},
		{ID: "p2", Project: "moonwell", Chain: "Base", Symbol: "USDC", TVLUSD: f(9_000_000), APY: f(6.3)},
		{ID: "p3", Project: "uniswap-v3", Chain: "Ethereum", Symbol: "USDC-WETH", TVLUSD: f(90_000_000), APY: f(11.0)},
		{ID: "p4", Project: "smallcap", Chain: "Base", Symbol: "DEGEN-WETH", TVLUSD: f(10_000), APY: f(120)},
	}
}

func newTestServer(t *testing.T, fetcher PoolFetcher) *Server {
	t.Helper()
	return New("Base", fetcher, nil, nil)
}

func TestAPIPools(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{pools: testPools()})
	require.NoError(t, srv.Refresh(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/api/pools", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp poolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Base", resp.Chain)
	assert.Empty(t, resp.Error)
	// p3 is on the wrong chain, p4 is under the default TVL floor.
	require.Equal(t, 2, resp.Count)
	for _, p := range resp.Pools {
		assert.Equal(t, "Base", p.Chain)
	}
	// Default sort is by score descending.
	assert.Equal(t, "aerodrome", resp.Pools[0].Project)
	assert.Equal(t, "moonwell", resp.Pools[1].Project)
}

func TestAPIPoolsQueryParams(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{pools: testPools()})
	require.NoError(t, srv.Refresh(context.Background()))

	get := func(rawQuery string) poolsResponse {
		req := httptest.NewRequest(http.MethodGet, "/api/pools?"+rawQuery, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp poolsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	// Text query narrows by project.
	resp := get("q=moon")
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "moonwell", resp.Pools[0].Project)

	// Non-numeric TVL floor degrades to 0, letting the small pool in.
	resp = get("min_tvl=abc")
	assert.Equal(t, 3, resp.Count)

	// APY sort puts the high-yield small pool first once the floor is 0.
	resp = get("min_tvl=0&sort=apy")
	assert.Equal(t, "smallcap", resp.Pools[0].Project)

	// Out-of-set limit snaps to the default.
	resp = get("limit=17&min_tvl=0")
	assert.LessOrEqual(t, resp.Count, model.DefaultLimit)
}

func TestUnderlyingTokensAreChecksummed(t *testing.T) {
	pools := testPools()
	pools[0].UnderlyingTokens = []string{"0xd9aaec86b65d86f6a7b5b1b0c42ffa531710b6ca"}
	srv := newTestServer(t, &stubFetcher{pools: pools})
	require.NoError(t, srv.Refresh(context.Background()))

	const checksummed = "0xd9aAEc86B65D86f6A7B5B1b0c42FFA531710b6CA"

	req := httptest.NewRequest(http.MethodGet, "/api/pools", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp poolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Pools)
	assert.Equal(t, []string{checksummed}, resp.Pools[0].UnderlyingTokens)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), checksummed)

	// The cached snapshot keeps the addresses as received.
	cached, _, _ := srv.snapshot()
	assert.Equal(t, []string{"0xd9aaec86b65d86f6a7b5b1b0c42ffa531710b6ca"}, cached[0].UnderlyingTokens)
}

func TestIndexRendersCards(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{pools: testPools()})
	require.NoError(t, srv.Refresh(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "aerodrome")
	assert.Contains(t, body, "moonwell")
	assert.NotContains(t, body, "uniswap-v3")
	assert.Contains(t, body, "defillama.com/yields")
}

func TestIndexEmptyStateIsNotAnError(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{pools: []model.Pool{}})
	require.NoError(t, srv.Refresh(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "no pools match")
	assert.NotContains(t, body, "failed to load pools")
}

func TestFetchFailureBanner(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	srv := newTestServer(t, fetcher)
	require.Error(t, srv.Refresh(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	// The page still renders over the empty snapshot, with the banner.
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "failed to load pools")
	assert.Contains(t, body, "no pools match")
}

func TestRefreshRecoversAndKeepsSnapshotOnFailure(t *testing.T) {
	fetcher := &stubFetcher{pools: testPools()}
	srv := newTestServer(t, fetcher)
	require.NoError(t, srv.Refresh(context.Background()))

	// Later fetches fail: the old snapshot keeps serving.
	fetcher.err = errors.New("rate limited")

	req := httptest.NewRequest(http.MethodPost, "/refresh?q=moon", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?q=moon", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/api/pools", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp poolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Contains(t, resp.Error, "rate limited")
}

func TestRefreshRequiresPost(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParseView(t *testing.T) {
	q := url.Values{}
	view := parseView(q)
	assert.Equal(t, model.DefaultView(), view)

	q = url.Values{
		"q":       {"  USDC "},
		"min_tvl": {"-5"},
		"stable":  {"on"},
		"sort":    {"TVL"},
		"limit":   {"50"},
	}
	view = parseView(q)
	assert.Equal(t, "USDC", view.Query)
	assert.Equal(t, 0.0, view.MinTVL)
	assert.True(t, view.StableOnly)
	assert.Equal(t, model.SortByTVL, view.SortKey)
	assert.Equal(t, 50, view.Limit)

	// Junk degrades to defaults rather than erroring.
	q = url.Values{
		"min_tvl": {"lots"},
		"sort":    {"volume"},
		"limit":   {"banana"},
	}
	view = parseView(q)
	assert.Equal(t, 0.0, view.MinTVL)
	assert.Equal(t, model.SortByScore, view.SortKey)
	assert.Equal(t, model.DefaultLimit, view.Limit)

	// An empty TVL field counts as 0, not as the default floor.
	q = url.Values{"min_tvl": {""}}
	assert.Equal(t, 0.0, parseView(q).MinTVL)

	// ParseFloat accepts non-finite spellings; they count as
	// non-numeric input, not as a floor.
	for _, raw := range []string{"Inf", "+Inf", "-Inf", "NaN"} {
		q = url.Values{"min_tvl": {raw}}
		assert.Equal(t, 0.0, parseView(q).MinTVL, "min_tvl=%s", raw)
	}
}

func TestAPIPoolsNonFiniteFloor(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{pools: testPools()})
	require.NoError(t, srv.Refresh(context.Background()))

	// An infinite floor must not filter out every pool.
	req := httptest.NewRequest(http.MethodGet, "/api/pools?min_tvl=Inf", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp poolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Package server exposes the ranked pool list over HTTP: an HTML card
// page, a JSON API, and a manual refresh path. The fetched snapshot is
// the only shared state; the refresh path is its only writer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"yieldRadar/internal/model"
	"yieldRadar/internal/observability"
	"yieldRadar/internal/rank"
)

// PoolFetcher retrieves a fresh pool snapshot.
type PoolFetcher interface {
	FetchPools(ctx context.Context) ([]model.Pool, error)
}

// Server serves the screener UI and API over one cached snapshot.
type Server struct {
	chain   string
	fetcher PoolFetcher
	logger  *zap.Logger
	metrics *observability.Metrics

	mu        sync.RWMutex
	pools     []model.Pool
	fetchedAt time.Time
	lastErr   string
}

// New creates a server for the given chain. metrics may be nil.
func New(chain string, fetcher PoolFetcher, logger *zap.Logger, metrics *observability.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		chain:   chain,
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// Refresh fetches a new snapshot. On failure the previous snapshot is
// kept and the error message is held for the banner; rendering never
// stops working.
func (s *Server) Refresh(ctx context.Context) error {
	start := time.Now()
	pools, err := s.fetcher.FetchPools(ctx)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.FetchDuration.Observe(elapsed.Seconds())
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.FetchTotal.WithLabelValues("error").Inc()
		}
		s.mu.Lock()
		s.lastErr = fmt.Sprintf("failed to load pools: %v", err)
		s.mu.Unlock()
		s.logger.Warn("snapshot refresh failed", zap.Error(err))
		return err
	}

	if s.metrics != nil {
		s.metrics.FetchTotal.WithLabelValues("ok").Inc()
		s.metrics.PoolsCached.Set(float64(len(pools)))
	}

	s.mu.Lock()
	s.pools = pools
	s.fetchedAt = time.Now()
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Info("snapshot refreshed", zap.Int("pools", len(pools)), zap.Duration("elapsed", elapsed))
	return nil
}

// snapshot returns the cached pools plus fetch metadata.
func (s *Server) snapshot() ([]model.Pool, time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pools, s.fetchedAt, s.lastErr
}

// Handler returns the HTTP mux with all routes attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.instrument("index", s.handleIndex))
	mux.HandleFunc("/api/pools", s.instrument("api_pools", s.handleAPIPools))
	mux.HandleFunc("/refresh", s.instrument("refresh", s.handleRefresh))
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		if s.metrics != nil {
			s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// rankSnapshot runs the pipeline over the cached snapshot with the
// given view settings.
func (s *Server) rankSnapshot(view model.ViewConfig) ([]model.RankedPool, time.Time, string) {
	pools, fetchedAt, lastErr := s.snapshot()

	start := time.Now()
	ranked := rank.Rank(pools, s.chain, view)
	if s.metrics != nil {
		s.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}

	// Underlying token addresses leave the server in EIP-55 form. This
	// touches only the outgoing copies, never the cached snapshot.
	for i := range ranked {
		ranked[i].UnderlyingTokens = ranked[i].ChecksumUnderlying()
	}
	return ranked, fetchedAt, lastErr
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	view := parseView(r.URL.Query())
	ranked, fetchedAt, lastErr := s.rankSnapshot(view)

	data := pageData{
		Chain:     s.chain,
		View:      view,
		Pools:     ranked,
		Limits:    model.Limits,
		FetchErr:  lastErr,
		FetchedAt: fetchedAt,
		Query:     r.URL.RawQuery,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}

type poolsResponse struct {
	Chain     string             `json:"chain"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
	Error     string             `json:"error,omitempty"`
	Count     int                `json:"count"`
	Pools     []model.RankedPool `json:"pools"`
}

func (s *Server) handleAPIPools(w http.ResponseWriter, r *http.Request) {
	view := parseView(r.URL.Query())
	ranked, fetchedAt, lastErr := s.rankSnapshot(view)

	resp := poolsResponse{
		Chain: s.chain,
		Error: lastErr,
		Count: len(ranked),
		Pools: ranked,
	}
	if !fetchedAt.IsZero() {
		resp.UpdatedAt = &fetchedAt
	}
	if resp.Pools == nil {
		resp.Pools = []model.RankedPool{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode pools response", zap.Error(err))
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// A failed refresh still redirects: the page shows the held error
	// banner over the previous snapshot.
	_ = s.Refresh(r.Context())

	target := "/"
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// parseView maps query parameters onto view settings. Malformed input
// degrades instead of erroring: a non-numeric TVL floor means 0, an
// unknown sort or limit snaps to its default.
func parseView(q url.Values) model.ViewConfig {
	view := model.DefaultView()

	view.Query = strings.TrimSpace(q.Get("q"))

	if q.Has("min_tvl") {
		val, err := strconv.ParseFloat(strings.TrimSpace(q.Get("min_tvl")), 64)
		if err != nil || val < 0 {
			val = 0
		}
		view.MinTVL = val
	}

	switch strings.ToLower(q.Get("stable")) {
	case "1", "true", "on", "yes":
		view.StableOnly = true
	}

	if raw := q.Get("sort"); raw != "" {
		view.SortKey = model.SortKey(strings.ToLower(raw))
	}

	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			view.Limit = n
		}
	}

	return view.Normalize()
}

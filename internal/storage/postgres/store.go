package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"yieldRadar/internal/model"
)

// Store provides Postgres persistence for pool snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPools inserts or updates pool snapshot rows keyed by pool id.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool, fetchedAt time.Time) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range pools {
		batch.Queue(`
			INSERT INTO pool_snapshots (
				pool_id, project, chain, symbol, tvl_usd, apy, apy_base, apy_reward,
				url, stablecoin, fetched_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
			ON CONFLICT (pool_id)
			DO UPDATE SET
				project = EXCLUDED.project,
				chain = EXCLUDED.chain,
				symbol = EXCLUDED.symbol,
				tvl_usd = EXCLUDED.tvl_usd,
				apy = EXCLUDED.apy,
				apy_base = EXCLUDED.apy_base,
				apy_reward = EXCLUDED.apy_reward,
				url = EXCLUDED.url,
				stablecoin = EXCLUDED.stablecoin,
				fetched_at = EXCLUDED.fetched_at,
				updated_at = now()
		`,
			p.ID,
			p.Project,
			p.Chain,
			p.Symbol,
			p.TVLUSD,
			p.APY,
			p.APYBase,
			p.APYReward,
			p.URL,
			p.Stablecoin,
			fetchedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// CountPools returns the number of snapshot rows for a chain.
func (s *Store) CountPools(ctx context.Context, chain string) (int64, error) {
	var count int64
	row := s.pool.QueryRow(ctx, `SELECT count(*) FROM pool_snapshots WHERE chain=$1`, chain)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

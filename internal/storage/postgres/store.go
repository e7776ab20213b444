package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"positionScope/internal/model"
)

// Store provides Postgres persistence for analysis results.
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

// PutResult upserts one result keyed by (pool, window, range).
func (s *Store) PutResult(result model.AnalysisResult) error {
	return s.UpsertResults(context.Background(), []model.AnalysisResult{result})
}

// UpsertResults inserts or updates analysis rows. The per-tick fee ledger is
// stored as a JSONB column next to the scalar aggregates.
func (s *Store) UpsertResults(ctx context.Context, results []model.AnalysisResult) error {
	if len(results) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, result := range results {
		feesByTick, err := json.Marshal(result.FeesByTick)
		if err != nil {
			return fmt.Errorf("marshal fee ledger: %w", err)
		}
		batch.Queue(`
			INSERT INTO position_analyses (
				pool_address, start_block, end_block, tick_lower, tick_upper,
				position_liquidity, initial_amount0, initial_amount1,
				final_amount0, final_amount1, final_value,
				impermanent_loss, impermanent_loss_pct,
				fees_token0, fees_token1, fees_value, fees_by_tick,
				unused_amount0, unused_amount1, unused_value,
				final_total_value, pnl, pnl_pct,
				price_start, price_end, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,now(),now())
			ON CONFLICT (pool_address, start_block, end_block, tick_lower, tick_upper)
			DO UPDATE SET
				position_liquidity = EXCLUDED.position_liquidity,
				initial_amount0 = EXCLUDED.initial_amount0,
				initial_amount1 = EXCLUDED.initial_amount1,
				final_amount0 = EXCLUDED.final_amount0,
				final_amount1 = EXCLUDED.final_amount1,
				final_value = EXCLUDED.final_value,
				impermanent_loss = EXCLUDED.impermanent_loss,
				impermanent_loss_pct = EXCLUDED.impermanent_loss_pct,
				fees_token0 = EXCLUDED.fees_token0,
				fees_token1 = EXCLUDED.fees_token1,
				fees_value = EXCLUDED.fees_value,
				fees_by_tick = EXCLUDED.fees_by_tick,
				unused_amount0 = EXCLUDED.unused_amount0,
				unused_amount1 = EXCLUDED.unused_amount1,
				unused_value = EXCLUDED.unused_value,
				final_total_value = EXCLUDED.final_total_value,
				pnl = EXCLUDED.pnl,
				pnl_pct = EXCLUDED.pnl_pct,
				price_start = EXCLUDED.price_start,
				price_end = EXCLUDED.price_end,
				updated_at = now()
		`,
			result.PoolAddress,
			int64(result.StartBlock),
			int64(result.EndBlock),
			result.TickLower,
			result.TickUpper,
			result.PositionLiquidity,
			result.InitialAmount0,
			result.InitialAmount1,
			result.FinalAmount0,
			result.FinalAmount1,
			result.FinalValue,
			result.ImpermanentLoss,
			result.ImpermanentLossPct,
			result.FeesToken0,
			result.FeesToken1,
			result.FeesValue,
			feesByTick,
			result.UnusedAmount0,
			result.UnusedAmount1,
			result.UnusedValue,
			result.FinalTotalValue,
			result.PnL,
			result.PnLPct,
			result.PriceStart,
			result.PriceEnd,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

package datasource

import (
	"context"

	"positionScope/internal/model"
)

// Source supplies the fully materialized inputs the analysis core consumes.
// The core never sees where the data came from; a cached and a fresh source
// must be interchangeable.
type Source interface {
	GetPoolSnapshot(ctx context.Context, pool string, block uint64) (model.PoolSnapshot, error)
	GetTickDeltas(ctx context.Context, pool string, block uint64, tickLower, tickUpper int) (map[int]model.TickDelta, error)
	GetTradeEvents(ctx context.Context, pool string, startBlock, endBlock uint64) ([]model.TradeEvent, error)
}

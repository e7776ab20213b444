package datasource

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"positionScope/internal/cache"
	"positionScope/internal/model"
)

// Cached decorates a Source with a cache.Provider. A hit decodes the exact
// bytes the miss path stored, so both paths hand the core identical inputs.
// Undecodable entries are dropped and refetched rather than trusted.
type Cached struct {
	inner  Source
	cache  cache.Provider
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps inner with caching. A nil logger is replaced with a nop.
func NewCached(inner Source, provider cache.Provider, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{inner: inner, cache: provider, ttl: ttl, logger: logger}
}

func (c *Cached) GetPoolSnapshot(ctx context.Context, pool string, block uint64) (model.PoolSnapshot, error) {
	key := cache.PoolSnapshotKey(pool, block)
	if data, ok := c.cache.Fetch(key); ok {
		var snap model.PoolSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return snap, nil
		}
		c.cache.Delete(key)
	}

	snap, err := c.inner.GetPoolSnapshot(ctx, pool, block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	c.store(key, snap)
	return snap, nil
}

func (c *Cached) GetTickDeltas(ctx context.Context, pool string, block uint64, tickLower, tickUpper int) (map[int]model.TickDelta, error) {
	key := cache.TickDeltasKey(pool, block, tickLower, tickUpper)
	if data, ok := c.cache.Fetch(key); ok {
		var deltas map[int]model.TickDelta
		if err := json.Unmarshal(data, &deltas); err == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return deltas, nil
		}
		c.cache.Delete(key)
	}

	deltas, err := c.inner.GetTickDeltas(ctx, pool, block, tickLower, tickUpper)
	if err != nil {
		return nil, err
	}
	c.store(key, deltas)
	return deltas, nil
}

func (c *Cached) GetTradeEvents(ctx context.Context, pool string, startBlock, endBlock uint64) ([]model.TradeEvent, error) {
	key := cache.TradeEventsKey(pool, startBlock, endBlock)
	if data, ok := c.cache.Fetch(key); ok {
		var trades []model.TradeEvent
		if err := json.Unmarshal(data, &trades); err == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return trades, nil
		}
		c.cache.Delete(key)
	}

	trades, err := c.inner.GetTradeEvents(ctx, pool, startBlock, endBlock)
	if err != nil {
		return nil, err
	}
	c.store(key, trades)
	return trades, nil
}

func (c *Cached) store(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Store(key, data, c.ttl); err != nil {
		c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}

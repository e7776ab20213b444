package cache

import (
	"fmt"
	"time"
)

// Provider is the capability the data layer needs from a cache: byte values
// keyed by string, with per-entry expiry. Implementations must treat a
// missing and an expired entry identically.
type Provider interface {
	Fetch(key string) ([]byte, bool)
	Store(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PoolSnapshotKey builds the cache key for a pool snapshot.
func PoolSnapshotKey(pool string, block uint64) string {
	return fmt.Sprintf("pool_state:%s:%d", pool, block)
}

// TickDeltasKey builds the cache key for a tick-delta range fetch.
func TickDeltasKey(pool string, block uint64, tickLower, tickUpper int) string {
	return fmt.Sprintf("tick_deltas:%s:%d:%d:%d", pool, block, tickLower, tickUpper)
}

// TradeEventsKey builds the cache key for the trades of a block window.
func TradeEventsKey(pool string, startBlock, endBlock uint64) string {
	return fmt.Sprintf("trade_events:%s:%d:%d", pool, startBlock, endBlock)
}

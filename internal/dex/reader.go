package dex

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"positionScope/internal/chain"
	"positionScope/internal/model"
	"positionScope/internal/univ3"
)

// ReaderConfig tunes how the reader talks to the RPC endpoint.
type ReaderConfig struct {
	// TickWorkers bounds the concurrent ticks(t) calls per range fetch.
	TickWorkers int
	// BatchSize is the block span of one getLogs query.
	BatchSize uint64
	// MaxRetries and RetryDelay shape the per-call retry policy.
	MaxRetries uint
	RetryDelay time.Duration
}

func (c ReaderConfig) withDefaults() ReaderConfig {
	if c.TickWorkers <= 0 {
		c.TickWorkers = 10
	}
	if c.BatchSize == 0 {
		c.BatchSize = 2000
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 5
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
	return c
}

// PoolReader retrieves pool snapshots, tick deltas and swap events from a
// V3 pool contract. It implements datasource.Source.
type PoolReader struct {
	chain  *chain.Client
	cfg    ReaderConfig
	logger *zap.Logger
}

// NewPoolReader builds a PoolReader over a chain client.
func NewPoolReader(chainClient *chain.Client, cfg ReaderConfig, logger *zap.Logger) *PoolReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolReader{chain: chainClient, cfg: cfg.withDefaults(), logger: logger}
}

// GetPoolSnapshot reads slot0, aggregate liquidity, fee tier, tick spacing,
// token identities and token decimals at one block.
func (r *PoolReader) GetPoolSnapshot(ctx context.Context, pool string, block uint64) (model.PoolSnapshot, error) {
	addr, blockPtr, err := parseTarget(pool, block)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	poolABI, err := V3PoolABI()
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := r.callContract(ctx, addr, poolABI, "slot0", blockPtr)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	if len(values) < 2 {
		return model.PoolSnapshot{}, fmt.Errorf("unexpected slot0 values: %d", len(values))
	}
	sqrtPrice, err := asBigInt(values[0])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("slot0 sqrt price: %w", err)
	}
	tickBig, err := asBigInt(values[1])
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("slot0 tick: %w", err)
	}
	tick, err := int24FromBig(tickBig)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("slot0 tick: %w", err)
	}

	liquidity, err := r.callBigInt(ctx, addr, poolABI, "liquidity", blockPtr)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	feeBig, err := r.callBigInt(ctx, addr, poolABI, "fee", blockPtr)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	spacingBig, err := r.callBigInt(ctx, addr, poolABI, "tickSpacing", blockPtr)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	spacing, err := int24FromBig(spacingBig)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("tick spacing: %w", err)
	}

	token0, err := r.callAddress(ctx, addr, poolABI, "token0", blockPtr)
	if err != nil {
		return model.PoolSnapshot{}, err
	}
	token1, err := r.callAddress(ctx, addr, poolABI, "token1", blockPtr)
	if err != nil {
		return model.PoolSnapshot{}, err
	}

	decimals0, err := r.tokenDecimals(ctx, token0)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("token0 decimals: %w", err)
	}
	decimals1, err := r.tokenDecimals(ctx, token1)
	if err != nil {
		return model.PoolSnapshot{}, fmt.Errorf("token1 decimals: %w", err)
	}

	return model.PoolSnapshot{
		PoolAddress:    addr.Hex(),
		BlockNumber:    block,
		SqrtPriceX96:   sqrtPrice,
		Tick:           int(tick),
		Liquidity:      liquidity,
		FeePPM:         uint32(feeBig.Uint64()),
		TickSpacing:    int(spacing),
		Token0:         token0.Hex(),
		Token1:         token1.Hex(),
		Token0Decimals: decimals0,
		Token1Decimals: decimals1,
	}, nil
}

// GetTickDeltas fetches per-tick liquidity records for the requested range,
// widened to spacing-aligned bounds. Only initialized ticks appear in the
// result; ticks that keep failing after retries are skipped with a warning,
// matching the advisory treatment of sparse tick data downstream.
func (r *PoolReader) GetTickDeltas(ctx context.Context, pool string, block uint64, tickLower, tickUpper int) (map[int]model.TickDelta, error) {
	addr, blockPtr, err := parseTarget(pool, block)
	if err != nil {
		return nil, err
	}
	poolABI, err := V3PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	spacingBig, err := r.callBigInt(ctx, addr, poolABI, "tickSpacing", blockPtr)
	if err != nil {
		return nil, err
	}
	spacing24, err := int24FromBig(spacingBig)
	if err != nil {
		return nil, fmt.Errorf("tick spacing: %w", err)
	}
	spacing := int(spacing24)
	if spacing <= 0 {
		return nil, fmt.Errorf("tick spacing must be positive, got %d", spacing)
	}

	alignedLower := univ3.AlignTickLower(tickLower, spacing)
	alignedUpper := univ3.AlignTickUpper(tickUpper, spacing)

	workers, err := ants.NewPool(r.cfg.TickWorkers)
	if err != nil {
		return nil, fmt.Errorf("tick worker pool: %w", err)
	}
	defer workers.Release()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		deltas = make(map[int]model.TickDelta)
	)

	for tick := alignedLower; tick <= alignedUpper; tick += spacing {
		tick := tick
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			values, err := r.callContract(ctx, addr, poolABI, "ticks", blockPtr, big.NewInt(int64(tick)))
			if err != nil {
				r.logger.Warn("tick fetch failed", zap.Int("tick", tick), zap.Error(err))
				return
			}
			if len(values) < 8 {
				r.logger.Warn("unexpected ticks() shape", zap.Int("tick", tick), zap.Int("values", len(values)))
				return
			}

			initialized, err := asBool(values[7])
			if err != nil || !initialized {
				return
			}
			gross, err := asBigInt(values[0])
			if err != nil {
				r.logger.Warn("tick gross decode failed", zap.Int("tick", tick), zap.Error(err))
				return
			}
			net, err := asBigInt(values[1])
			if err != nil {
				r.logger.Warn("tick net decode failed", zap.Int("tick", tick), zap.Error(err))
				return
			}

			mu.Lock()
			deltas[tick] = model.TickDelta{LiquidityGross: gross, LiquidityNet: net, Initialized: true}
			mu.Unlock()
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit tick fetch: %w", err)
		}
	}

	wg.Wait()
	r.logger.Debug("tick deltas fetched",
		zap.Int("aligned_lower", alignedLower),
		zap.Int("aligned_upper", alignedUpper),
		zap.Int("initialized", len(deltas)),
	)
	return deltas, nil
}

// GetTradeEvents returns the pool's Swap events in [startBlock, endBlock],
// ordered by block number then log index.
func (r *PoolReader) GetTradeEvents(ctx context.Context, pool string, startBlock, endBlock uint64) ([]model.TradeEvent, error) {
	addr, _, err := parseTarget(pool, startBlock)
	if err != nil {
		return nil, err
	}
	poolABI, err := V3PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	ranges, err := splitRange(startBlock, endBlock, r.cfg.BatchSize)
	if err != nil {
		return nil, err
	}

	swapTopic := poolABI.Events["Swap"].ID
	trades := make([]model.TradeEvent, 0)

	for _, blockRange := range ranges {
		logs, err := retry.DoWithData(func() ([]types.Log, error) {
			return r.chain.FilterLogs(ctx, blockRange.from, blockRange.to, []common.Address{addr}, []common.Hash{swapTopic})
		}, retry.Attempts(r.cfg.MaxRetries), retry.Delay(r.cfg.RetryDelay), retry.Context(ctx), retry.LastErrorOnly(true))
		if err != nil {
			return nil, fmt.Errorf("filter swap logs [%d, %d]: %w", blockRange.from, blockRange.to, err)
		}

		for _, log := range logs {
			if log.Removed {
				continue
			}
			trade, err := swapFromLog(poolABI, log)
			if err != nil {
				return nil, fmt.Errorf("decode swap %s/%d: %w", log.TxHash.Hex(), log.Index, err)
			}
			trades = append(trades, trade)
		}
	}

	sort.Slice(trades, func(i, j int) bool {
		if trades[i].BlockNumber != trades[j].BlockNumber {
			return trades[i].BlockNumber < trades[j].BlockNumber
		}
		return trades[i].LogIndex < trades[j].LogIndex
	})
	return trades, nil
}

func swapFromLog(poolABI abi.ABI, log types.Log) (model.TradeEvent, error) {
	event := poolABI.Events["Swap"]
	if len(log.Topics) != 3 {
		return model.TradeEvent{}, fmt.Errorf("expected 3 topics, got %d", len(log.Topics))
	}

	var indexed struct {
		Sender    common.Address
		Recipient common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), log.Topics[1:]); err != nil {
		return model.TradeEvent{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return model.TradeEvent{}, fmt.Errorf("unpack swap: %w", err)
	}
	if len(values) != 5 {
		return model.TradeEvent{}, fmt.Errorf("unexpected swap values: %d", len(values))
	}

	amount0, err := asBigInt(values[0])
	if err != nil {
		return model.TradeEvent{}, err
	}
	amount1, err := asBigInt(values[1])
	if err != nil {
		return model.TradeEvent{}, err
	}
	sqrtPrice, err := asBigInt(values[2])
	if err != nil {
		return model.TradeEvent{}, err
	}
	liquidity, err := asBigInt(values[3])
	if err != nil {
		return model.TradeEvent{}, err
	}
	tickBig, err := asBigInt(values[4])
	if err != nil {
		return model.TradeEvent{}, err
	}
	tick, err := int24FromBig(tickBig)
	if err != nil {
		return model.TradeEvent{}, err
	}

	return model.TradeEvent{
		Sender:       indexed.Sender.Hex(),
		Recipient:    indexed.Recipient.Hex(),
		Amount0:      amount0,
		Amount1:      amount1,
		SqrtPriceX96: sqrtPrice,
		Liquidity:    liquidity,
		Tick:         int(tick),
		BlockNumber:  log.BlockNumber,
		TxHash:       log.TxHash.Hex(),
		LogIndex:     uint64(log.Index),
	}, nil
}

func (r *PoolReader) tokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	parsed, err := erc20ABIInstance()
	if err != nil {
		return 0, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := r.callContract(ctx, token, parsed, "decimals", nil)
	if err != nil {
		return 0, err
	}
	return asUint8(values[0])
}

func (r *PoolReader) callBigInt(ctx context.Context, target common.Address, parsed abi.ABI, method string, block *big.Int) (*big.Int, error) {
	values, err := r.callContract(ctx, target, parsed, method, block)
	if err != nil {
		return nil, err
	}
	value, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return value, nil
}

func (r *PoolReader) callAddress(ctx context.Context, target common.Address, parsed abi.ABI, method string, block *big.Int) (common.Address, error) {
	values, err := r.callContract(ctx, target, parsed, method, block)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", method, err)
	}
	return addr, nil
}

func (r *PoolReader) callContract(ctx context.Context, target common.Address, parsed abi.ABI, method string, block *big.Int, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &target, Data: data}

	resp, err := retry.DoWithData(func() ([]byte, error) {
		return r.chain.CallContract(ctx, msg, block)
	}, retry.Attempts(r.cfg.MaxRetries), retry.Delay(r.cfg.RetryDelay), retry.Context(ctx), retry.LastErrorOnly(true))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func parseTarget(pool string, block uint64) (common.Address, *big.Int, error) {
	if !common.IsHexAddress(pool) {
		return common.Address{}, nil, fmt.Errorf("invalid pool address: %s", pool)
	}
	var blockPtr *big.Int
	if block > 0 {
		blockPtr = new(big.Int).SetUint64(block)
	}
	return common.HexToAddress(pool), blockPtr, nil
}

type blockRange struct {
	from uint64
	to   uint64
}

func splitRange(from, to, batchSize uint64) ([]blockRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to block must be >= from block")
	}

	ranges := make([]blockRange, 0)
	start := from
	for start <= to {
		end := to
		if remaining := to - start + 1; remaining > batchSize {
			end = start + batchSize - 1
		}
		ranges = append(ranges, blockRange{from: start, to: end})
		if end == to {
			break
		}
		start = end + 1
	}
	return ranges, nil
}

package univ3

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positionScope/internal/model"
)

func snapshotAtTick(t *testing.T, tick, spacing int) model.PoolSnapshot {
	t.Helper()
	sqrtPrice, err := SqrtRatioAtTick(tick)
	require.NoError(t, err)
	return model.PoolSnapshot{
		PoolAddress:    "0x1111111111111111111111111111111111111111",
		SqrtPriceX96:   sqrtPrice,
		Tick:           tick,
		Liquidity:      big.NewInt(1_000_000_000),
		FeePPM:         3000,
		TickSpacing:    spacing,
		Token0Decimals: 6,
		Token1Decimals: 6,
	}
}

func TestOpenPositionValidation(t *testing.T) {
	curve := NewCurve(6, 6)
	snap := snapshotAtTick(t, 0, 60)

	_, err := curve.OpenPosition(snap, 600, -600, 1000, 1000)
	assert.ErrorIs(t, err, ErrTickOrder)

	_, err = curve.OpenPosition(snap, -601, 600, 1000, 1000)
	assert.ErrorIs(t, err, ErrMisalignedTick)

	_, err = curve.OpenPosition(snap, -600, 601, 1000, 1000)
	assert.ErrorIs(t, err, ErrMisalignedTick)
}

func TestOpenPositionConsumesAtMostDesired(t *testing.T) {
	curve := NewCurve(6, 6)
	snap := snapshotAtTick(t, 0, 60)

	pos, err := curve.OpenPosition(snap, -600, 600, 1000, 1000)
	require.NoError(t, err)

	assert.Equal(t, 1, pos.Liquidity.Sign(), "in-range deposit mints liquidity")
	assert.LessOrEqual(t, pos.Amount0, 1000.0+1e-9)
	assert.LessOrEqual(t, pos.Amount1, 1000.0+1e-9)
	assert.Greater(t, pos.Amount0, 0.0)
	assert.Greater(t, pos.Amount1, 0.0)
}

func TestOpenPositionZeroDeposit(t *testing.T) {
	curve := NewCurve(6, 6)
	snap := snapshotAtTick(t, 0, 60)

	pos, err := curve.OpenPosition(snap, -600, 600, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, pos.Liquidity.Sign())
	assert.Zero(t, pos.Amount0)
	assert.Zero(t, pos.Amount1)
}

func TestOpenPositionOutOfRangeIsSingleSided(t *testing.T) {
	curve := NewCurve(6, 6)
	snap := snapshotAtTick(t, -1200, 60)

	// Price below the range: only token0 is deposited.
	pos, err := curve.OpenPosition(snap, -600, 600, 1000, 1000)
	require.NoError(t, err)
	assert.Greater(t, pos.Amount0, 0.0)
	assert.Zero(t, pos.Amount1)

	snap = snapshotAtTick(t, 1200, 60)
	pos, err = curve.OpenPosition(snap, -600, 600, 1000, 1000)
	require.NoError(t, err)
	assert.Zero(t, pos.Amount0)
	assert.Greater(t, pos.Amount1, 0.0)
}

func TestValueAtTracksPrice(t *testing.T) {
	curve := NewCurve(6, 6)
	snap := snapshotAtTick(t, 0, 60)

	pos, err := curve.OpenPosition(snap, -600, 600, 1000, 1000)
	require.NoError(t, err)

	// At the opening price the mark equals the deposit.
	amount0, amount1, err := curve.ValueAt(pos, snap.SqrtPriceX96)
	require.NoError(t, err)
	assert.InDelta(t, pos.Amount0, amount0, 1e-6)
	assert.InDelta(t, pos.Amount1, amount1, 1e-6)

	// Above the range everything is token1, below everything token0.
	high, err := SqrtRatioAtTick(1200)
	require.NoError(t, err)
	amount0, amount1, err = curve.ValueAt(pos, high)
	require.NoError(t, err)
	assert.Zero(t, amount0)
	assert.Greater(t, amount1, 0.0)

	low, err := SqrtRatioAtTick(-1200)
	require.NoError(t, err)
	amount0, amount1, err = curve.ValueAt(pos, low)
	require.NoError(t, err)
	assert.Greater(t, amount0, 0.0)
	assert.Zero(t, amount1)
}

func TestQuotePrice(t *testing.T) {
	curve := NewCurve(6, 6)

	assert.InDelta(t, 1.0, curve.QuotePrice(Q96), 1e-12, "tick zero, equal decimals")
	assert.Zero(t, curve.QuotePrice(nil))
	assert.Zero(t, curve.QuotePrice(big.NewInt(0)))

	// 18/6 decimal skew: the whole-token quote scales by 10^12.
	skewed := NewCurve(6, 18)
	assert.InDelta(t, 1e12, skewed.QuotePrice(Q96), 1e-2)

	// Higher sqrt price means token1 is worth less token0.
	higher, err := SqrtRatioAtTick(1000)
	require.NoError(t, err)
	assert.Less(t, curve.QuotePrice(higher), 1.0)
}
package liquidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positionScope/internal/model"
)

func delta(net int64) model.TickDelta {
	return model.TickDelta{
		LiquidityGross: new(big.Int).Abs(big.NewInt(net)),
		LiquidityNet:   big.NewInt(net),
		Initialized:    true,
	}
}

func tableValue(t *testing.T, table *Table, tick int) int64 {
	t.Helper()
	value, ok := table.At(tick)
	require.Truef(t, ok, "tick %d must be inside the table", tick)
	return value.Int64()
}

func TestBuildTableWalksBothDirections(t *testing.T) {
	snap := model.PoolSnapshot{
		Tick:        205,
		Liquidity:   big.NewInt(5_000_000),
		TickSpacing: 10,
	}
	deltas := map[int]model.TickDelta{
		190: delta(500_000),
		210: delta(1_000_000),
	}

	table, report, err := BuildTable(snap, deltas, 180, 230)
	require.NoError(t, err)
	assert.False(t, report.Clamped())

	// Reference cell carries the snapshot's aggregate liquidity.
	assert.EqualValues(t, 5_000_000, tableValue(t, table, 200))
	assert.EqualValues(t, 5_000_000, tableValue(t, table, 205))

	// Upward: net of an initialized tick applies on arrival.
	assert.EqualValues(t, 6_000_000, tableValue(t, table, 210))
	assert.EqualValues(t, 6_000_000, tableValue(t, table, 215))
	assert.EqualValues(t, 6_000_000, tableValue(t, table, 230))

	// Downward: leaving 200 changes nothing (not initialized), leaving
	// 190 reverses its positive net.
	assert.EqualValues(t, 5_000_000, tableValue(t, table, 190))
	assert.EqualValues(t, 5_000_000, tableValue(t, table, 199))
	assert.EqualValues(t, 4_500_000, tableValue(t, table, 180))
	assert.EqualValues(t, 4_500_000, tableValue(t, table, 185))
}

func TestBuildTableIntermediateTicksInherit(t *testing.T) {
	snap := model.PoolSnapshot{
		Tick:        0,
		Liquidity:   big.NewInt(777),
		TickSpacing: 60,
	}

	table, report, err := BuildTable(snap, nil, -30, 90)
	require.NoError(t, err)
	assert.False(t, report.Clamped())

	for tick := -30; tick <= 90; tick++ {
		assert.EqualValuesf(t, 777, tableValue(t, table, tick), "tick %d", tick)
	}
}

func TestBuildTableReferenceBelowRange(t *testing.T) {
	snap := model.PoolSnapshot{
		Tick:        95,
		Liquidity:   big.NewInt(1000),
		TickSpacing: 10,
	}
	deltas := map[int]model.TickDelta{
		100: delta(50),
		120: delta(25),
	}

	table, _, err := BuildTable(snap, deltas, 120, 140)
	require.NoError(t, err)

	assert.EqualValues(t, 1075, tableValue(t, table, 120))
	assert.EqualValues(t, 1075, tableValue(t, table, 125))
	assert.EqualValues(t, 1075, tableValue(t, table, 140))
}

func TestBuildTableClampsNegativeCells(t *testing.T) {
	snap := model.PoolSnapshot{
		Tick:        0,
		Liquidity:   big.NewInt(100),
		TickSpacing: 10,
	}
	deltas := map[int]model.TickDelta{
		10: delta(-500),
	}

	table, report, err := BuildTable(snap, deltas, 0, 25)
	require.NoError(t, err)
	require.True(t, report.Clamped())
	assert.Len(t, report.ClampedTicks, 16)

	for tick := 0; tick <= 9; tick++ {
		assert.EqualValuesf(t, 100, tableValue(t, table, tick), "tick %d", tick)
	}
	for tick := 10; tick <= 25; tick++ {
		assert.Zerof(t, tableValue(t, table, tick), "tick %d must be floored", tick)
	}
}

func TestBuildTableUninitializedDeltasIgnored(t *testing.T) {
	snap := model.PoolSnapshot{
		Tick:        0,
		Liquidity:   big.NewInt(500),
		TickSpacing: 10,
	}
	deltas := map[int]model.TickDelta{
		10: {LiquidityGross: big.NewInt(0), LiquidityNet: big.NewInt(999), Initialized: false},
	}

	table, _, err := BuildTable(snap, deltas, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 500, tableValue(t, table, 15))
}

func TestBuildTableRejectsBadInput(t *testing.T) {
	snap := model.PoolSnapshot{Tick: 0, Liquidity: big.NewInt(1), TickSpacing: 10}

	_, _, err := BuildTable(snap, nil, 100, 50)
	assert.Error(t, err, "inverted range")

	badSpacing := snap
	badSpacing.TickSpacing = 0
	_, _, err = BuildTable(badSpacing, nil, 0, 10)
	assert.Error(t, err, "zero spacing")

	noLiquidity := snap
	noLiquidity.Liquidity = nil
	_, _, err = BuildTable(noLiquidity, nil, 0, 10)
	assert.Error(t, err, "missing aggregate liquidity")
}

func TestTableBounds(t *testing.T) {
	snap := model.PoolSnapshot{Tick: 0, Liquidity: big.NewInt(1), TickSpacing: 1}
	table, _, err := BuildTable(snap, nil, -5, 5)
	require.NoError(t, err)

	lower, upper := table.Bounds()
	assert.Equal(t, -5, lower)
	assert.Equal(t, 5, upper)

	_, ok := table.At(6)
	assert.False(t, ok)
	_, ok = table.At(-6)
	assert.False(t, ok)
}

package univ3

import (
	"math/big"
	"testing"

	sdkutils "github.com/daoleno/uniswapv3-sdk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqrtRatioAtTickBounds(t *testing.T) {
	_, err := SqrtRatioAtTick(MinTick - 1)
	assert.ErrorIs(t, err, ErrTickRange, "tick too small")

	_, err = SqrtRatioAtTick(MaxTick + 1)
	assert.ErrorIs(t, err, ErrTickRange, "tick too large")

	rmin, err := SqrtRatioAtTick(MinTick)
	require.NoError(t, err)
	assert.Zero(t, rmin.Cmp(MinSqrtRatio), "min tick ratio")

	rmax, err := SqrtRatioAtTick(MaxTick)
	require.NoError(t, err)
	assert.Zero(t, rmax.Cmp(MaxSqrtRatio), "max tick ratio")

	r0, err := SqrtRatioAtTick(0)
	require.NoError(t, err)
	assert.Zero(t, r0.Cmp(Q96), "tick zero is Q96")
}

func TestSqrtRatioAtTickMatchesReference(t *testing.T) {
	ticks := []int{
		MinTick, -500000, -200000, -100000, -50000, -887, -60, -2, -1,
		0, 1, 2, 60, 887, 50000, 100000, 193200, 200000, 500000, MaxTick,
	}
	for _, tick := range ticks {
		want, err := sdkutils.GetSqrtRatioAtTick(tick)
		require.NoError(t, err, "reference tick %d", tick)

		got, err := SqrtRatioAtTick(tick)
		require.NoError(t, err, "tick %d", tick)
		assert.Zerof(t, got.Cmp(want), "tick %d: got %s want %s", tick, got, want)
	}
}

func TestSqrtRatioAtTickMonotonic(t *testing.T) {
	prev, err := SqrtRatioAtTick(-2000)
	require.NoError(t, err)
	for tick := -1999; tick <= 2000; tick++ {
		cur, err := SqrtRatioAtTick(tick)
		require.NoError(t, err)
		require.Equalf(t, 1, cur.Cmp(prev), "ratio must grow at tick %d", tick)
		prev = cur
	}
}

func TestTickAtSqrtRatioRoundTrip(t *testing.T) {
	ticks := []int{-700000, -345000, -120000, -199, -60, -1, 0, 1, 60, 199, 120000, 193200, 345000, 700000}
	for _, tick := range ticks {
		ratio, err := SqrtRatioAtTick(tick)
		require.NoError(t, err)

		got, err := TickAtSqrtRatio(ratio)
		require.NoError(t, err)
		assert.InDeltaf(t, tick, got, 1, "round trip for tick %d", tick)
	}
}

func TestTickAtSqrtRatioRejectsNonPositive(t *testing.T) {
	_, err := TickAtSqrtRatio(nil)
	assert.ErrorIs(t, err, ErrTickRange)

	_, err = TickAtSqrtRatio(big.NewInt(0))
	assert.ErrorIs(t, err, ErrTickRange)

	_, err = TickAtSqrtRatio(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrTickRange)
}

func TestAlignTick(t *testing.T) {
	cases := []struct {
		tick, spacing, lower, upper int
	}{
		{205, 10, 200, 210},
		{200, 10, 200, 200},
		{209, 10, 200, 210},
		{-205, 10, -210, -200},
		{-200, 10, -200, -200},
		{-1, 60, -60, 0},
		{1, 60, 0, 60},
		{0, 60, 0, 0},
		{59, 60, 0, 60},
		{-61, 60, -120, -60},
		{7, 1, 7, 7},
		{-7, 1, -7, -7},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.lower, AlignTickLower(tc.tick, tc.spacing), "lower align of %d/%d", tc.tick, tc.spacing)
		assert.Equalf(t, tc.upper, AlignTickUpper(tc.tick, tc.spacing), "upper align of %d/%d", tc.tick, tc.spacing)
	}
}

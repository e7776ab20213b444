package univ3

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrTickRange is returned for ticks outside [MinTick, MaxTick].
var ErrTickRange = errors.New("tick outside supported range")

// SqrtRatioAtTick returns sqrt(1.0001^tick) in Q96 fixed point.
//
// The multiplier table is built for negative powers, so the decomposition
// runs on |tick| and the result is inverted for positive ticks.
func SqrtRatioAtTick(tick int) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, fmt.Errorf("%w: %d", ErrTickRange, tick)
	}

	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}

	ratio := new(big.Int)
	if absTick&1 != 0 {
		ratio.Set(tickRatioOdd)
	} else {
		ratio.Set(tickRatioOne)
	}
	for i, mult := range tickRatios {
		if absTick&(1<<(uint(i)+1)) != 0 {
			ratio.Mul(ratio, mult)
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(new(big.Int).Set(maxUint256), ratio)
	}

	// Q128 -> Q96, rounding up into the uint160 domain so the round trip
	// through TickAtSqrtRatio never undershoots.
	remainder := new(big.Int).And(ratio, shiftMask32)
	ratio.Rsh(ratio, 32)
	if remainder.Sign() != 0 {
		ratio.Add(ratio, big.NewInt(1))
	}
	return ratio, nil
}

// TickAtSqrtRatio inverts SqrtRatioAtTick through the continuous identity
// tick = floor(log(price) / log(1.0001)). Exact inversion is not guaranteed;
// the round trip lands within one tick.
func TickAtSqrtRatio(sqrtPriceX96 *big.Int) (int, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return 0, fmt.Errorf("%w: sqrt price must be positive", ErrTickRange)
	}

	sqrtPrice, _ := new(big.Float).Quo(
		new(big.Float).SetInt(sqrtPriceX96),
		new(big.Float).SetInt(Q96),
	).Float64()
	price := sqrtPrice * sqrtPrice

	tick := int(math.Floor(math.Log(price) / math.Log(1.0001)))
	if tick < MinTick || tick > MaxTick {
		return 0, fmt.Errorf("%w: %d", ErrTickRange, tick)
	}
	return tick, nil
}

// AlignTickLower rounds tick down to a multiple of spacing.
func AlignTickLower(tick, spacing int) int {
	return tick - floorMod(tick, spacing)
}

// AlignTickUpper rounds tick up to a multiple of spacing.
func AlignTickUpper(tick, spacing int) int {
	return tick + floorMod(spacing-floorMod(tick, spacing), spacing)
}

// floorMod is the non-negative remainder, needed because Go's % keeps the
// sign of the dividend while tick alignment must floor for negative ticks.
func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

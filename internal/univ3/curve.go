package univ3

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"positionScope/internal/model"
)

var (
	// ErrMisalignedTick is returned when a position boundary is not a
	// multiple of the pool's tick spacing. Boundaries are never silently
	// realigned; the caller owns alignment.
	ErrMisalignedTick = errors.New("tick not aligned to spacing")
	// ErrTickOrder is returned when tickLower > tickUpper.
	ErrTickOrder = errors.New("tick lower above tick upper")
)

// Curve performs position math for one token pair. Decimals parameterize the
// conversion between whole-token floats at the API surface and the smallest
// on-chain units used by all internal arithmetic.
type Curve struct {
	Token0Decimals uint8
	Token1Decimals uint8
}

// NewCurve builds a Curve for a token pair.
func NewCurve(token0Decimals, token1Decimals uint8) *Curve {
	return &Curve{Token0Decimals: token0Decimals, Token1Decimals: token1Decimals}
}

// OpenPosition computes the liquidity a range can hold for the desired
// amounts and the token amounts actually consumed. Consumed amounts never
// exceed desired amounts; both desired amounts zero yields a valid
// zero-liquidity position.
func (c *Curve) OpenPosition(
	snap model.PoolSnapshot,
	tickLower, tickUpper int,
	amount0Desired, amount1Desired float64,
) (model.Position, error) {
	if tickLower > tickUpper {
		return model.Position{}, fmt.Errorf("%w: [%d, %d]", ErrTickOrder, tickLower, tickUpper)
	}
	if spacing := snap.TickSpacing; spacing > 1 {
		if floorMod(tickLower, spacing) != 0 {
			return model.Position{}, fmt.Errorf("%w: %d (spacing %d)", ErrMisalignedTick, tickLower, spacing)
		}
		if floorMod(tickUpper, spacing) != 0 {
			return model.Position{}, fmt.Errorf("%w: %d (spacing %d)", ErrMisalignedTick, tickUpper, spacing)
		}
	}

	sqrtRatioA, err := SqrtRatioAtTick(tickLower)
	if err != nil {
		return model.Position{}, err
	}
	sqrtRatioB, err := SqrtRatioAtTick(tickUpper)
	if err != nil {
		return model.Position{}, err
	}

	amount0Units := unitsFromFloat(amount0Desired, c.Token0Decimals)
	amount1Units := unitsFromFloat(amount1Desired, c.Token1Decimals)

	liquidity := LiquidityForAmounts(snap.SqrtPriceX96, sqrtRatioA, sqrtRatioB, amount0Units, amount1Units)
	used0, used1 := amountsForLiquidity(snap.SqrtPriceX96, sqrtRatioA, sqrtRatioB, liquidity)

	return model.Position{
		Liquidity: liquidity,
		TickLower: tickLower,
		TickUpper: tickUpper,
		Amount0:   floatFromUnits(used0, c.Token0Decimals),
		Amount1:   floatFromUnits(used1, c.Token1Decimals),
	}, nil
}

// ValueAt marks a position to market at an arbitrary sqrt price without
// changing its liquidity. Out of range the value is exactly single-sided.
func (c *Curve) ValueAt(pos model.Position, sqrtPriceX96 *big.Int) (amount0, amount1 float64, err error) {
	sqrtRatioA, err := SqrtRatioAtTick(pos.TickLower)
	if err != nil {
		return 0, 0, err
	}
	sqrtRatioB, err := SqrtRatioAtTick(pos.TickUpper)
	if err != nil {
		return 0, 0, err
	}

	units0, units1 := amountsForLiquidity(sqrtPriceX96, sqrtRatioA, sqrtRatioB, pos.Liquidity)
	return floatFromUnits(units0, c.Token0Decimals), floatFromUnits(units1, c.Token1Decimals), nil
}

// QuotePrice returns the whole-token0 price of one whole token1 at the given
// sqrt price (e.g. USDC per WETH for the reference pool). Returns 0 for a
// degenerate price.
func (c *Curve) QuotePrice(sqrtPriceX96 *big.Int) float64 {
	if sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return 0
	}
	sqrtPrice, _ := new(big.Float).Quo(
		new(big.Float).SetInt(sqrtPriceX96),
		new(big.Float).SetInt(Q96),
	).Float64()
	raw := sqrtPrice * sqrtPrice
	if raw <= 0 {
		return 0
	}
	scale := math.Pow10(int(c.Token1Decimals) - int(c.Token0Decimals))
	return scale / raw
}

func amountsForLiquidity(sqrtPriceX96, sqrtRatioA, sqrtRatioB *big.Int, liquidity *big.Int) (*big.Int, *big.Int) {
	switch {
	case sqrtPriceX96.Cmp(sqrtRatioA) <= 0:
		return Amount0ForLiquidity(sqrtRatioA, sqrtRatioB, liquidity), big.NewInt(0)
	case sqrtPriceX96.Cmp(sqrtRatioB) < 0:
		return Amount0ForLiquidity(sqrtPriceX96, sqrtRatioB, liquidity),
			Amount1ForLiquidity(sqrtRatioA, sqrtPriceX96, liquidity)
	default:
		return big.NewInt(0), Amount1ForLiquidity(sqrtRatioA, sqrtRatioB, liquidity)
	}
}

func unitsFromFloat(amount float64, decimals uint8) *big.Int {
	if amount <= 0 {
		return big.NewInt(0)
	}
	scaled := new(big.Float).Mul(big.NewFloat(amount), pow10Float(decimals))
	units, _ := scaled.Int(nil)
	return units
}

func floatFromUnits(units *big.Int, decimals uint8) float64 {
	if units == nil || units.Sign() == 0 {
		return 0
	}
	value, _ := new(big.Float).Quo(new(big.Float).SetInt(units), pow10Float(decimals)).Float64()
	return value
}

func pow10Float(decimals uint8) *big.Float {
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Float).SetInt(exp)
}

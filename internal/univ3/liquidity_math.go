package univ3

import "math/big"

// Amount0ForLiquidity returns the token0 amount held by liquidity between
// two sqrt prices: liquidity * Q96 * (sqrtB - sqrtA) / (sqrtB * sqrtA).
// Inputs are auto-swapped so the smaller bound is always the lower one.
func Amount0ForLiquidity(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int) *big.Int {
	a, b := orderRatios(sqrtRatioAX96, sqrtRatioBX96)
	if a.Sign() == 0 {
		return big.NewInt(0)
	}

	numerator := new(big.Int).Mul(liquidity, Q96)
	numerator.Mul(numerator, new(big.Int).Sub(b, a))
	denominator := new(big.Int).Mul(b, a)
	return numerator.Div(numerator, denominator)
}

// Amount1ForLiquidity returns the token1 amount held by liquidity between
// two sqrt prices: liquidity * (sqrtB - sqrtA) / Q96.
func Amount1ForLiquidity(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int) *big.Int {
	a, b := orderRatios(sqrtRatioAX96, sqrtRatioBX96)
	result := new(big.Int).Mul(liquidity, new(big.Int).Sub(b, a))
	return result.Div(result, Q96)
}

// LiquidityForAmount0 solves Amount0ForLiquidity for liquidity.
func LiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0 *big.Int) *big.Int {
	a, b := orderRatios(sqrtRatioAX96, sqrtRatioBX96)
	width := new(big.Int).Sub(b, a)
	if width.Sign() == 0 {
		return big.NewInt(0)
	}

	intermediate := new(big.Int).Mul(a, b)
	intermediate.Div(intermediate, Q96)
	result := new(big.Int).Mul(amount0, intermediate)
	return result.Div(result, width)
}

// LiquidityForAmount1 solves Amount1ForLiquidity for liquidity.
func LiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1 *big.Int) *big.Int {
	a, b := orderRatios(sqrtRatioAX96, sqrtRatioBX96)
	width := new(big.Int).Sub(b, a)
	if width.Sign() == 0 {
		return big.NewInt(0)
	}

	result := new(big.Int).Mul(amount1, Q96)
	return result.Div(result, width)
}

// LiquidityForAmounts returns the liquidity a range can hold given both
// desired token amounts and the current price. Below the range only amount0
// constrains liquidity, above it only amount1; inside the range the position
// cannot use more of one token than the price ratio allows, so the smaller
// implied liquidity wins.
func LiquidityForAmounts(sqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1 *big.Int) *big.Int {
	a, b := orderRatios(sqrtRatioAX96, sqrtRatioBX96)

	switch {
	case sqrtRatioX96.Cmp(a) <= 0:
		return LiquidityForAmount0(a, b, amount0)
	case sqrtRatioX96.Cmp(b) < 0:
		liquidity0 := LiquidityForAmount0(sqrtRatioX96, b, amount0)
		liquidity1 := LiquidityForAmount1(a, sqrtRatioX96, amount1)
		if liquidity0.Cmp(liquidity1) < 0 {
			return liquidity0
		}
		return liquidity1
	default:
		return LiquidityForAmount1(a, b, amount1)
	}
}

func orderRatios(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

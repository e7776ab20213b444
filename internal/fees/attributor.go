package fees

import (
	"math"
	"math/big"

	"positionScope/internal/liquidity"
	"positionScope/internal/model"
)

// Report collects advisory conditions hit while attributing fees.
type Report struct {
	// ZeroLiquidityTicks are ticks a trade crossed where the table held no
	// liquidity; the position's share there is zero, not an error.
	ZeroLiquidityTicks []int
	// OutOfTableTicks are crossed ticks missing from the liquidity table,
	// which points at a table built for the wrong range.
	OutOfTableTicks []int
}

// Attributor distributes observed trade fees to a position tick by tick,
// proportional to the position's share of liquidity at each tick.
//
// The crossed range of a trade is approximated as the tick interval between
// the previous trade's tick and this trade's tick, with the fee split evenly
// across the crossed ticks. The even split intentionally ignores how
// liquidity concentrates inside a single trade's path; downstream numbers
// are calibrated to this approximation.
type Attributor struct {
	FeePPM         uint32
	Token0Decimals uint8
	Token1Decimals uint8
}

// NewAttributor builds an Attributor for one pool fee tier and token pair.
func NewAttributor(feePPM uint32, token0Decimals, token1Decimals uint8) *Attributor {
	return &Attributor{
		FeePPM:         feePPM,
		Token0Decimals: token0Decimals,
		Token1Decimals: token1Decimals,
	}
}

// Attribute replays trades in order and returns the position's fee ledger
// in whole-token units. The ledger holds an entry for every tick in the
// position's range even when no fee accrues; entries only ever grow.
func (a *Attributor) Attribute(
	pos model.Position,
	trades []model.TradeEvent,
	table *liquidity.Table,
) (model.FeeLedger, Report) {
	ledger := make(model.FeeLedger, pos.TickUpper-pos.TickLower+1)
	for tick := pos.TickLower; tick <= pos.TickUpper; tick++ {
		ledger[tick] = model.TickFees{}
	}

	report := Report{}
	if pos.Liquidity == nil || pos.Liquidity.Sign() == 0 {
		return ledger, report
	}

	feeRate := float64(a.FeePPM) / 1e6
	positionLiquidity := new(big.Float).SetInt(pos.Liquidity)

	for i, trade := range trades {
		prevTick := trade.Tick
		if i > 0 {
			prevTick = trades[i-1].Tick
		}

		tickStart := min(prevTick, trade.Tick)
		tickEnd := max(prevTick, trade.Tick)

		// Clip to the position's range; a trade that never touches it
		// earns nothing.
		tickStart = max(tickStart, pos.TickLower)
		tickEnd = min(tickEnd, pos.TickUpper)
		if tickStart > tickEnd {
			continue
		}

		fee0 := absFloat(trade.Amount0, a.Token0Decimals) * feeRate
		fee1 := absFloat(trade.Amount1, a.Token1Decimals) * feeRate
		ticksCrossed := float64(tickEnd - tickStart + 1)

		for tick := tickStart; tick <= tickEnd; tick++ {
			total, ok := table.At(tick)
			if !ok {
				report.OutOfTableTicks = append(report.OutOfTableTicks, tick)
				continue
			}
			if total == nil || total.Sign() == 0 {
				report.ZeroLiquidityTicks = append(report.ZeroLiquidityTicks, tick)
				continue
			}

			share, _ := new(big.Float).Quo(positionLiquidity, new(big.Float).SetInt(total)).Float64()
			entry := ledger[tick]
			entry.Token0 += fee0 / ticksCrossed * share
			entry.Token1 += fee1 / ticksCrossed * share
			ledger[tick] = entry
		}
	}

	return ledger, report
}

func absFloat(amount *big.Int, decimals uint8) float64 {
	if amount == nil || amount.Sign() == 0 {
		return 0
	}
	abs := new(big.Float).Abs(new(big.Float).SetInt(amount))
	scale := new(big.Float).SetFloat64(math.Pow10(int(decimals)))
	value, _ := new(big.Float).Quo(abs, scale).Float64()
	return value
}

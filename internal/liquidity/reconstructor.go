package liquidity

import (
	"fmt"
	"math/big"

	"positionScope/internal/model"
	"positionScope/internal/univ3"
)

// Report collects data-quality conditions observed during reconstruction.
// A clamped tick means the raw accumulated liquidity went negative there,
// which points at missing or inconsistent delta data rather than a bug in
// the walk; the value is floored at zero and the condition surfaced here.
type Report struct {
	ClampedTicks []int
}

// Clamped reports whether any cell had to be floored at zero.
func (r Report) Clamped() bool {
	return len(r.ClampedTicks) > 0
}

// BuildTable reconstructs aggregate liquidity for every tick in the
// inclusive range [tickLower, tickUpper] from a sparse set of per-tick
// deltas and the snapshot's reference point (current tick + aggregate
// liquidity).
//
// The walk starts at the spacing-aligned tick at or below the current tick.
// Moving upward, liquidity_net of each initialized tick is added when the
// tick is reached; moving downward, the net of each tick left behind is
// subtracted, reversing its upward-crossing definition. Only spacing
// multiples carry delta data, so each intermediate tick inherits the value
// of the aligned tick at or below it.
func BuildTable(
	snap model.PoolSnapshot,
	deltas map[int]model.TickDelta,
	tickLower, tickUpper int,
) (*Table, Report, error) {
	if tickLower > tickUpper {
		return nil, Report{}, fmt.Errorf("tick range [%d, %d] is inverted", tickLower, tickUpper)
	}
	spacing := snap.TickSpacing
	if spacing <= 0 {
		return nil, Report{}, fmt.Errorf("tick spacing must be positive, got %d", spacing)
	}
	if snap.Liquidity == nil {
		return nil, Report{}, fmt.Errorf("snapshot carries no aggregate liquidity")
	}

	referenceTick := univ3.AlignTickLower(snap.Tick, spacing)
	alignedLower := univ3.AlignTickLower(tickLower, spacing)
	alignedUpper := univ3.AlignTickUpper(tickUpper, spacing)

	aligned := alignedValues(referenceTick, snap.Liquidity, deltas, spacing, alignedLower, alignedUpper)

	table := newTable(tickLower, tickUpper)
	report := Report{}
	for tick := tickLower; tick <= tickUpper; tick++ {
		raw := aligned[univ3.AlignTickLower(tick, spacing)]
		if raw.Sign() < 0 {
			report.ClampedTicks = append(report.ClampedTicks, tick)
			table.set(tick, big.NewInt(0))
			continue
		}
		table.set(tick, new(big.Int).Set(raw))
	}

	return table, report, nil
}

// alignedValues runs the two directional accumulation passes from the
// reference tick and returns the raw (unclamped) liquidity at every aligned
// tick the requested range can touch.
func alignedValues(
	referenceTick int,
	referenceLiquidity *big.Int,
	deltas map[int]model.TickDelta,
	spacing, alignedLower, alignedUpper int,
) map[int]*big.Int {
	values := map[int]*big.Int{referenceTick: new(big.Int).Set(referenceLiquidity)}

	// Forward: entering tick t applies net(t).
	running := new(big.Int).Set(referenceLiquidity)
	for tick := referenceTick + spacing; tick <= alignedUpper; tick += spacing {
		if delta, ok := deltas[tick]; ok && delta.Initialized {
			running.Add(running, delta.LiquidityNet)
		}
		values[tick] = new(big.Int).Set(running)
	}

	// Backward: leaving tick t+spacing downward reverses net(t+spacing).
	// The reference tick's own net is reversed first.
	running = new(big.Int).Set(referenceLiquidity)
	for tick := referenceTick - spacing; tick >= alignedLower; tick -= spacing {
		if delta, ok := deltas[tick+spacing]; ok && delta.Initialized {
			running.Sub(running, delta.LiquidityNet)
		}
		values[tick] = new(big.Int).Set(running)
	}

	return values
}

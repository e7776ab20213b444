package liquidity

import (
	"fmt"
	"math/big"
)

// Table is a dense tick -> aggregate liquidity mapping over an inclusive
// tick range, backed by an index-addressed arena rather than a map so every
// cell is cheap to audit. Values are always >= 0.
type Table struct {
	tickLower int
	tickUpper int
	values    []*big.Int
}

func newTable(tickLower, tickUpper int) *Table {
	return &Table{
		tickLower: tickLower,
		tickUpper: tickUpper,
		values:    make([]*big.Int, tickUpper-tickLower+1),
	}
}

// Bounds returns the inclusive tick range the table covers.
func (t *Table) Bounds() (tickLower, tickUpper int) {
	return t.tickLower, t.tickUpper
}

// At returns the aggregate liquidity active at tick, and whether the tick is
// inside the table's range.
func (t *Table) At(tick int) (*big.Int, bool) {
	if tick < t.tickLower || tick > t.tickUpper {
		return nil, false
	}
	return t.values[tick-t.tickLower], true
}

func (t *Table) set(tick int, value *big.Int) {
	t.values[tick-t.tickLower] = value
}

// String renders the bounds for log and error messages.
func (t *Table) String() string {
	return fmt.Sprintf("liquidity table [%d, %d]", t.tickLower, t.tickUpper)
}

package model

import "math/big"

// Position is a concentrated-liquidity allocation over a tick range.
// Amount0/Amount1 are the whole-token amounts actually consumed when the
// position was opened. Immutable once computed.
type Position struct {
	Liquidity *big.Int
	TickLower int
	TickUpper int
	Amount0   float64
	Amount1   float64
}

package model

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// TickDelta is the per-tick liquidity record read from pool storage.
// LiquidityNet is the signed change applied to aggregate liquidity when
// price crosses the tick moving upward.
type TickDelta struct {
	LiquidityGross *big.Int
	LiquidityNet   *big.Int
	Initialized    bool
}

type tickDeltaJSON struct {
	LiquidityGross string `json:"liquidity_gross"`
	LiquidityNet   string `json:"liquidity_net"`
	Initialized    bool   `json:"initialized"`
}

// MarshalJSON encodes big integers as decimal strings.
func (d TickDelta) MarshalJSON() ([]byte, error) {
	return json.Marshal(tickDeltaJSON{
		LiquidityGross: bigString(d.LiquidityGross),
		LiquidityNet:   bigString(d.LiquidityNet),
		Initialized:    d.Initialized,
	})
}

// UnmarshalJSON decodes a TickDelta from JSON.
func (d *TickDelta) UnmarshalJSON(data []byte) error {
	var raw tickDeltaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	gross, err := ParseBigInt(raw.LiquidityGross)
	if err != nil {
		return fmt.Errorf("liquidity_gross: %w", err)
	}
	net, err := ParseBigInt(raw.LiquidityNet)
	if err != nil {
		return fmt.Errorf("liquidity_net: %w", err)
	}
	*d = TickDelta{LiquidityGross: gross, LiquidityNet: net, Initialized: raw.Initialized}
	return nil
}

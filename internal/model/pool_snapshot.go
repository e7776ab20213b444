package model

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// PoolSnapshot is the observable state of a V3 pool at one block.
// It is created once per query and never mutated.
type PoolSnapshot struct {
	PoolAddress    string
	BlockNumber    uint64
	SqrtPriceX96   *big.Int
	Tick           int
	Liquidity      *big.Int
	FeePPM         uint32
	TickSpacing    int
	Token0         string
	Token1         string
	Token0Decimals uint8
	Token1Decimals uint8
}

type poolSnapshotJSON struct {
	PoolAddress    string `json:"pool_address"`
	BlockNumber    uint64 `json:"block_number"`
	SqrtPriceX96   string `json:"sqrt_price_x96"`
	Tick           int    `json:"tick"`
	Liquidity      string `json:"liquidity"`
	FeePPM         uint32 `json:"fee_ppm"`
	TickSpacing    int    `json:"tick_spacing"`
	Token0         string `json:"token0"`
	Token1         string `json:"token1"`
	Token0Decimals uint8  `json:"token0_decimals"`
	Token1Decimals uint8  `json:"token1_decimals"`
}

// MarshalJSON encodes big integers as decimal strings.
func (s PoolSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(poolSnapshotJSON{
		PoolAddress:    s.PoolAddress,
		BlockNumber:    s.BlockNumber,
		SqrtPriceX96:   bigString(s.SqrtPriceX96),
		Tick:           s.Tick,
		Liquidity:      bigString(s.Liquidity),
		FeePPM:         s.FeePPM,
		TickSpacing:    s.TickSpacing,
		Token0:         s.Token0,
		Token1:         s.Token1,
		Token0Decimals: s.Token0Decimals,
		Token1Decimals: s.Token1Decimals,
	})
}

// UnmarshalJSON decodes a PoolSnapshot from JSON.
func (s *PoolSnapshot) UnmarshalJSON(data []byte) error {
	var raw poolSnapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sqrtPrice, err := ParseBigInt(raw.SqrtPriceX96)
	if err != nil {
		return fmt.Errorf("sqrt_price_x96: %w", err)
	}
	liquidity, err := ParseBigInt(raw.Liquidity)
	if err != nil {
		return fmt.Errorf("liquidity: %w", err)
	}
	*s = PoolSnapshot{
		PoolAddress:    raw.PoolAddress,
		BlockNumber:    raw.BlockNumber,
		SqrtPriceX96:   sqrtPrice,
		Tick:           raw.Tick,
		Liquidity:      liquidity,
		FeePPM:         raw.FeePPM,
		TickSpacing:    raw.TickSpacing,
		Token0:         raw.Token0,
		Token1:         raw.Token1,
		Token0Decimals: raw.Token0Decimals,
		Token1Decimals: raw.Token1Decimals,
	}
	return nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// ParseBigInt parses a decimal string into a big.Int, treating "" as zero.
func ParseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}

package model

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// TradeEvent is one observed swap. Amount signs follow the pool convention:
// a negative amount leaves the pool, a positive amount enters it.
type TradeEvent struct {
	Sender       string
	Recipient    string
	Amount0      *big.Int
	Amount1      *big.Int
	SqrtPriceX96 *big.Int
	Liquidity    *big.Int
	Tick         int
	BlockNumber  uint64
	TxHash       string
	LogIndex     uint64
}

type tradeEventJSON struct {
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	Amount0      string `json:"amount0"`
	Amount1      string `json:"amount1"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Liquidity    string `json:"liquidity"`
	Tick         int    `json:"tick"`
	BlockNumber  uint64 `json:"block_number"`
	TxHash       string `json:"tx_hash"`
	LogIndex     uint64 `json:"log_index"`
}

// MarshalJSON encodes big integers as decimal strings.
func (e TradeEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(tradeEventJSON{
		Sender:       e.Sender,
		Recipient:    e.Recipient,
		Amount0:      bigString(e.Amount0),
		Amount1:      bigString(e.Amount1),
		SqrtPriceX96: bigString(e.SqrtPriceX96),
		Liquidity:    bigString(e.Liquidity),
		Tick:         e.Tick,
		BlockNumber:  e.BlockNumber,
		TxHash:       e.TxHash,
		LogIndex:     e.LogIndex,
	})
}

// UnmarshalJSON decodes a TradeEvent from JSON.
func (e *TradeEvent) UnmarshalJSON(data []byte) error {
	var raw tradeEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount0, err := ParseBigInt(raw.Amount0)
	if err != nil {
		return fmt.Errorf("amount0: %w", err)
	}
	amount1, err := ParseBigInt(raw.Amount1)
	if err != nil {
		return fmt.Errorf("amount1: %w", err)
	}
	sqrtPrice, err := ParseBigInt(raw.SqrtPriceX96)
	if err != nil {
		return fmt.Errorf("sqrt_price_x96: %w", err)
	}
	liquidity, err := ParseBigInt(raw.Liquidity)
	if err != nil {
		return fmt.Errorf("liquidity: %w", err)
	}
	*e = TradeEvent{
		Sender:       raw.Sender,
		Recipient:    raw.Recipient,
		Amount0:      amount0,
		Amount1:      amount1,
		SqrtPriceX96: sqrtPrice,
		Liquidity:    liquidity,
		Tick:         raw.Tick,
		BlockNumber:  raw.BlockNumber,
		TxHash:       raw.TxHash,
		LogIndex:     raw.LogIndex,
	}
	return nil
}

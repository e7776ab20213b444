package model

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"
)

func TestPoolSnapshotJSONRoundTrip(t *testing.T) {
	sqrtPrice, _ := new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)
	snap := PoolSnapshot{
		PoolAddress:    "0x1111111111111111111111111111111111111111",
		BlockNumber:    18000000,
		SqrtPriceX96:   sqrtPrice,
		Tick:           -200534,
		Liquidity:      big.NewInt(987654321),
		FeePPM:         500,
		TickSpacing:    10,
		Token0:         "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Token1:         "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Token0Decimals: 6,
		Token1Decimals: 18,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"sqrt_price_x96":"1461446703485210103287273052203988822378723970342"`) {
		t.Errorf("big int must encode as a decimal string: %s", data)
	}

	var back PoolSnapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.SqrtPriceX96.Cmp(snap.SqrtPriceX96) != 0 {
		t.Errorf("sqrt price changed: %s", back.SqrtPriceX96)
	}
	if back.Tick != snap.Tick || back.FeePPM != snap.FeePPM || back.Token1Decimals != snap.Token1Decimals {
		t.Errorf("scalar fields changed: %+v", back)
	}
}

func TestTradeEventJSONKeepsSigns(t *testing.T) {
	event := TradeEvent{
		Amount0:      big.NewInt(-123456789),
		Amount1:      big.NewInt(987654321),
		SqrtPriceX96: big.NewInt(1),
		Liquidity:    big.NewInt(2),
		Tick:         -7,
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back TradeEvent
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Amount0.Int64() != -123456789 {
		t.Errorf("amount0 = %s, want -123456789", back.Amount0)
	}
	if back.Tick != -7 {
		t.Errorf("tick = %d, want -7", back.Tick)
	}
}

func TestTickDeltaMapKeysSurviveJSON(t *testing.T) {
	deltas := map[int]TickDelta{
		-200540: {LiquidityGross: big.NewInt(10), LiquidityNet: big.NewInt(-10), Initialized: true},
		200540:  {LiquidityGross: big.NewInt(10), LiquidityNet: big.NewInt(10), Initialized: true},
	}

	data, err := json.Marshal(deltas)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back map[int]TickDelta
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("got %d entries, want 2", len(back))
	}
	if back[-200540].LiquidityNet.Int64() != -10 {
		t.Errorf("negative tick key lost its delta")
	}
}

func TestFeeLedgerTotals(t *testing.T) {
	ledger := FeeLedger{
		100: {Token0: 1.5, Token1: 0.25},
		101: {Token0: 0.5, Token1: 0.75},
		102: {},
	}

	total0, total1 := ledger.TotalFees()
	if total0 != 2.0 {
		t.Errorf("total0 = %v, want 2", total0)
	}
	if total1 != 1.0 {
		t.Errorf("total1 = %v, want 1", total1)
	}
}

func TestParseBigInt(t *testing.T) {
	value, err := ParseBigInt("")
	if err != nil || value.Sign() != 0 {
		t.Fatalf("empty string: %s, %v", value, err)
	}
	if _, err := ParseBigInt("not a number"); err == nil {
		t.Fatal("expected parse error")
	}
}

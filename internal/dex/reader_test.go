package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func topicFromAddress(addr common.Address) common.Hash {
	var topic common.Hash
	copy(topic[12:], addr.Bytes())
	return topic
}

func TestSwapFromLog(t *testing.T) {
	poolABI, err := V3PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	sender := common.HexToAddress("0x2222222222222222222222222222222222222222")
	recipient := common.HexToAddress("0x3333333333333333333333333333333333333333")

	data, err := poolABI.Events["Swap"].Inputs.NonIndexed().Pack(
		big.NewInt(-1000),
		big.NewInt(2000),
		big.NewInt(123456789),
		big.NewInt(987654321),
		big.NewInt(-15),
	)
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}

	log := types.Log{
		Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Topics: []common.Hash{
			poolABI.Events["Swap"].ID,
			topicFromAddress(sender),
			topicFromAddress(recipient),
		},
		Data:        data,
		BlockNumber: 12345,
		TxHash:      common.HexToHash("0xdead"),
		Index:       7,
	}

	trade, err := swapFromLog(poolABI, log)
	if err != nil {
		t.Fatalf("decode swap: %v", err)
	}

	if trade.Sender != sender.Hex() {
		t.Errorf("sender = %s, want %s", trade.Sender, sender.Hex())
	}
	if trade.Recipient != recipient.Hex() {
		t.Errorf("recipient = %s, want %s", trade.Recipient, recipient.Hex())
	}
	if trade.Amount0.Int64() != -1000 {
		t.Errorf("amount0 = %s, want -1000", trade.Amount0)
	}
	if trade.Amount1.Int64() != 2000 {
		t.Errorf("amount1 = %s, want 2000", trade.Amount1)
	}
	if trade.SqrtPriceX96.Int64() != 123456789 {
		t.Errorf("sqrt price = %s, want 123456789", trade.SqrtPriceX96)
	}
	if trade.Liquidity.Int64() != 987654321 {
		t.Errorf("liquidity = %s, want 987654321", trade.Liquidity)
	}
	if trade.Tick != -15 {
		t.Errorf("tick = %d, want -15", trade.Tick)
	}
	if trade.BlockNumber != 12345 {
		t.Errorf("block = %d, want 12345", trade.BlockNumber)
	}
	if trade.LogIndex != 7 {
		t.Errorf("log index = %d, want 7", trade.LogIndex)
	}
}

func TestSwapFromLogRejectsBadTopics(t *testing.T) {
	poolABI, err := V3PoolABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	log := types.Log{
		Topics: []common.Hash{poolABI.Events["Swap"].ID},
	}
	if _, err := swapFromLog(poolABI, log); err == nil {
		t.Fatal("expected error for missing indexed topics")
	}
}

func TestSplitRange(t *testing.T) {
	cases := []struct {
		name      string
		from, to  uint64
		batchSize uint64
		want      []blockRange
	}{
		{"single batch", 100, 150, 100, []blockRange{{100, 150}}},
		{"exact batches", 0, 39, 20, []blockRange{{0, 19}, {20, 39}}},
		{"remainder", 10, 35, 10, []blockRange{{10, 19}, {20, 29}, {30, 35}}},
		{"one block", 7, 7, 10, []blockRange{{7, 7}}},
	}

	for _, tc := range cases {
		got, err := splitRange(tc.from, tc.to, tc.batchSize)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %d ranges, want %d", tc.name, len(got), len(tc.want))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: range %d = %+v, want %+v", tc.name, i, got[i], tc.want[i])
			}
		}
	}

	if _, err := splitRange(10, 5, 10); err == nil {
		t.Fatal("expected error for inverted range")
	}
	if _, err := splitRange(0, 10, 0); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}

func TestInt24FromBig(t *testing.T) {
	if v, err := int24FromBig(big.NewInt(-887272)); err != nil || v != -887272 {
		t.Fatalf("got %d, %v", v, err)
	}
	if _, err := int24FromBig(big.NewInt(1 << 23)); err == nil {
		t.Fatal("expected overflow error")
	}
	if _, err := int24FromBig(big.NewInt(-(1<<23) - 1)); err == nil {
		t.Fatal("expected underflow error")
	}
}

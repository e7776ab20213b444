package model

// TickFees holds per-token fees accrued at one tick, in whole-token units.
type TickFees struct {
	Token0 float64 `json:"token0"`
	Token1 float64 `json:"token1"`
}

// FeeLedger maps tick -> fees credited to the position over a window.
// Entries are only ever added to, never decremented.
type FeeLedger map[int]TickFees

// TotalFees sums the ledger per token.
func (l FeeLedger) TotalFees() (token0, token1 float64) {
	for _, fees := range l {
		token0 += fees.Token0
		token1 += fees.Token1
	}
	return token0, token1
}

// AnalysisResult is the aggregate report for one position over one window.
// All token quantities are whole-token floats; percentage fields are
// already multiplied by 100. Reporting code consumes these fields verbatim.
type AnalysisResult struct {
	PoolAddress string `json:"pool_address"`
	StartBlock  uint64 `json:"start_block"`
	EndBlock    uint64 `json:"end_block"`

	PositionLiquidity string  `json:"position_liquidity"`
	TickLower         int     `json:"tick_lower"`
	TickUpper         int     `json:"tick_upper"`
	InitialAmount0    float64 `json:"initial_amount0"`
	InitialAmount1    float64 `json:"initial_amount1"`

	FinalAmount0 float64 `json:"final_amount0"`
	FinalAmount1 float64 `json:"final_amount1"`
	FinalValue   float64 `json:"final_value"`

	ImpermanentLoss    float64 `json:"impermanent_loss"`
	ImpermanentLossPct float64 `json:"impermanent_loss_pct"`

	FeesToken0    float64   `json:"fees_token0"`
	FeesToken1    float64   `json:"fees_token1"`
	FeesValue     float64   `json:"fees_value"`
	FeesByTick    FeeLedger `json:"fees_by_tick"`

	UnusedAmount0 float64 `json:"unused_amount0"`
	UnusedAmount1 float64 `json:"unused_amount1"`
	UnusedValue   float64 `json:"unused_value"`

	FinalTotalValue float64 `json:"final_total_value"`
	PnL             float64 `json:"pnl"`
	PnLPct          float64 `json:"pnl_pct"`

	PriceStart float64 `json:"price_start"`
	PriceEnd   float64 `json:"price_end"`
}

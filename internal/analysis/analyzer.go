package analysis

import (
	"fmt"

	"positionScope/internal/fees"
	"positionScope/internal/liquidity"
	"positionScope/internal/model"
	"positionScope/internal/univ3"
)

// Input carries everything one analysis window needs. All collections must
// be fully materialized before Analyze is called; the analyzer itself never
// fetches anything.
type Input struct {
	Position      model.Position
	StartSnapshot model.PoolSnapshot
	EndSnapshot   model.PoolSnapshot
	Table         *liquidity.Table
	Trades        []model.TradeEvent

	// PriceStart/PriceEnd are the whole-token0 price of one whole token1
	// at the window boundaries (the common valuation unit).
	PriceStart float64
	PriceEnd   float64

	// CommittedAmount0/CommittedAmount1 are the caller's total capital
	// split, of which the position may have consumed only part.
	CommittedAmount0 float64
	CommittedAmount1 float64
}

// Quality aggregates the advisory conditions from the sub-computations so
// callers can observe data-quality issues without losing the result.
type Quality struct {
	Fees fees.Report
}

// Analyzer combines position valuation, impermanent loss, fee attribution
// and PnL arithmetic into one report. It is stateless; each call performs
// one full analysis.
type Analyzer struct {
	curve *univ3.Curve
}

// NewAnalyzer builds an Analyzer on top of a position-math curve.
func NewAnalyzer(curve *univ3.Curve) *Analyzer {
	return &Analyzer{curve: curve}
}

// Analyze values the position at the end of the window, computes
// impermanent loss against holding, attributes trade fees, and closes the
// books: final total value is position value plus fees plus unused capital,
// and PnL is measured against the committed capital at the start price.
func (a *Analyzer) Analyze(in Input) (model.AnalysisResult, Quality, error) {
	if in.Table == nil {
		return model.AnalysisResult{}, Quality{}, fmt.Errorf("liquidity table is required")
	}
	if in.EndSnapshot.SqrtPriceX96 == nil {
		return model.AnalysisResult{}, Quality{}, fmt.Errorf("end snapshot carries no price")
	}

	final0, final1, err := a.curve.ValueAt(in.Position, in.EndSnapshot.SqrtPriceX96)
	if err != nil {
		return model.AnalysisResult{}, Quality{}, fmt.Errorf("value position: %w", err)
	}

	il, ilPct := ImpermanentLoss(
		in.Position.Amount0, in.Position.Amount1,
		final0, final1,
		in.PriceStart, in.PriceEnd,
	)

	attributor := fees.NewAttributor(
		in.StartSnapshot.FeePPM,
		a.curve.Token0Decimals,
		a.curve.Token1Decimals,
	)
	ledger, feeReport := attributor.Attribute(in.Position, in.Trades, in.Table)
	feesToken0, feesToken1 := ledger.TotalFees()

	positionValue := final0 + final1*in.PriceEnd
	feesValue := feesToken0 + feesToken1*in.PriceEnd

	unused0 := in.CommittedAmount0 - in.Position.Amount0
	unused1 := in.CommittedAmount1 - in.Position.Amount1
	unusedValue := unused0 + unused1*in.PriceEnd

	finalTotal := positionValue + feesValue + unusedValue
	committedValue := in.CommittedAmount0 + in.CommittedAmount1*in.PriceStart
	pnl := finalTotal - committedValue
	pnlPct := 0.0
	if committedValue != 0 {
		pnlPct = pnl / committedValue * 100
	}

	return model.AnalysisResult{
		PoolAddress: in.StartSnapshot.PoolAddress,
		StartBlock:  in.StartSnapshot.BlockNumber,
		EndBlock:    in.EndSnapshot.BlockNumber,

		PositionLiquidity: in.Position.Liquidity.String(),
		TickLower:         in.Position.TickLower,
		TickUpper:         in.Position.TickUpper,
		InitialAmount0:    in.Position.Amount0,
		InitialAmount1:    in.Position.Amount1,

		FinalAmount0: final0,
		FinalAmount1: final1,
		FinalValue:   positionValue,

		ImpermanentLoss:    il,
		ImpermanentLossPct: ilPct,

		FeesToken0: feesToken0,
		FeesToken1: feesToken1,
		FeesValue:  feesValue,
		FeesByTick: ledger,

		UnusedAmount0: unused0,
		UnusedAmount1: unused1,
		UnusedValue:   unusedValue,

		FinalTotalValue: finalTotal,
		PnL:             pnl,
		PnLPct:          pnlPct,

		PriceStart: in.PriceStart,
		PriceEnd:   in.PriceEnd,
	}, Quality{Fees: feeReport}, nil
}

// ImpermanentLoss compares the marked-to-market position against simply
// holding the initial amounts. Both values use the end price; the
// percentage is relative to the initial value at the start price, and zero
// initial value yields a zero percentage.
func ImpermanentLoss(
	initial0, initial1 float64,
	final0, final1 float64,
	priceStart, priceEnd float64,
) (il, ilPct float64) {
	initialValue := initial0 + initial1*priceStart
	hodlValue := initial0 + initial1*priceEnd
	lpValue := final0 + final1*priceEnd

	il = hodlValue - lpValue
	if initialValue > 0 {
		ilPct = il / initialValue * 100
	}
	return il, ilPct
}

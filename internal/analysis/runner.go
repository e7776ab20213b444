package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"positionScope/internal/datasource"
	"positionScope/internal/liquidity"
	"positionScope/internal/model"
	"positionScope/internal/univ3"
)

// RunConfig describes one position analysis window.
type RunConfig struct {
	Pool       string
	StartBlock uint64
	EndBlock   uint64
	TickLower  int
	TickUpper  int
	Amount0    float64
	Amount1    float64
}

// RunReport collects the advisory conditions observed during a run.
type RunReport struct {
	Liquidity liquidity.Report
	Quality   Quality
}

// Runner drives a full analysis: it fetches pool state and trades through a
// data source, opens the hypothetical position and hands everything to the
// analyzer.
type Runner struct {
	source datasource.Source
	logger *zap.Logger
}

func NewRunner(source datasource.Source, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{source: source, logger: logger}
}

// Run executes one analysis window.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (model.AnalysisResult, RunReport, error) {
	startSnap, err := r.source.GetPoolSnapshot(ctx, cfg.Pool, cfg.StartBlock)
	if err != nil {
		return model.AnalysisResult{}, RunReport{}, fmt.Errorf("start snapshot: %w", err)
	}
	endSnap, err := r.source.GetPoolSnapshot(ctx, cfg.Pool, cfg.EndBlock)
	if err != nil {
		return model.AnalysisResult{}, RunReport{}, fmt.Errorf("end snapshot: %w", err)
	}
	r.logger.Info("pool state fetched",
		zap.String("pool", startSnap.PoolAddress),
		zap.Int("start_tick", startSnap.Tick),
		zap.Int("end_tick", endSnap.Tick),
		zap.Uint32("fee_ppm", startSnap.FeePPM),
		zap.Int("tick_spacing", startSnap.TickSpacing),
	)

	curve := univ3.NewCurve(startSnap.Token0Decimals, startSnap.Token1Decimals)
	position, err := curve.OpenPosition(startSnap, cfg.TickLower, cfg.TickUpper, cfg.Amount0, cfg.Amount1)
	if err != nil {
		return model.AnalysisResult{}, RunReport{}, fmt.Errorf("open position: %w", err)
	}
	r.logger.Info("position opened",
		zap.String("liquidity", position.Liquidity.String()),
		zap.Float64("amount0", position.Amount0),
		zap.Float64("amount1", position.Amount1),
	)

	deltas, err := r.source.GetTickDeltas(ctx, cfg.Pool, cfg.StartBlock, cfg.TickLower, cfg.TickUpper)
	if err != nil {
		return model.AnalysisResult{}, RunReport{}, fmt.Errorf("tick deltas: %w", err)
	}
	table, liqReport, err := liquidity.BuildTable(startSnap, deltas, cfg.TickLower, cfg.TickUpper)
	if err != nil {
		return model.AnalysisResult{}, RunReport{}, fmt.Errorf("build liquidity table: %w", err)
	}
	if liqReport.Clamped() {
		r.logger.Warn("liquidity table clamped to zero at some ticks",
			zap.Int("ticks", len(liqReport.ClampedTicks)))
	}

	trades, err := r.source.GetTradeEvents(ctx, cfg.Pool, cfg.StartBlock, cfg.EndBlock)
	if err != nil {
		return model.AnalysisResult{}, RunReport{}, fmt.Errorf("trade events: %w", err)
	}
	r.logger.Info("trades fetched", zap.Int("count", len(trades)))

	analyzer := NewAnalyzer(curve)
	result, quality, err := analyzer.Analyze(Input{
		Position:         position,
		StartSnapshot:    startSnap,
		EndSnapshot:      endSnap,
		Table:            table,
		Trades:           trades,
		PriceStart:       curve.QuotePrice(startSnap.SqrtPriceX96),
		PriceEnd:         curve.QuotePrice(endSnap.SqrtPriceX96),
		CommittedAmount0: cfg.Amount0,
		CommittedAmount1: cfg.Amount1,
	})
	if err != nil {
		return model.AnalysisResult{}, RunReport{}, err
	}

	if len(quality.Fees.ZeroLiquidityTicks) > 0 {
		r.logger.Warn("fees attributed across zero-liquidity ticks",
			zap.Int("ticks", len(quality.Fees.ZeroLiquidityTicks)))
	}
	if len(quality.Fees.OutOfTableTicks) > 0 {
		r.logger.Warn("trades crossed ticks outside the reconstructed table",
			zap.Int("ticks", len(quality.Fees.OutOfTableTicks)))
	}

	return result, RunReport{Liquidity: liqReport, Quality: quality}, nil
}

package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"

	"positionScope/internal/model"
)

// Renderer writes a human-readable summary of one analysis result.
type Renderer struct {
	// Places is the number of decimal places shown for token quantities.
	Places int32
	// ShowTicks includes the per-tick fee ledger when true.
	ShowTicks bool
}

func NewRenderer(places int32, showTicks bool) *Renderer {
	if places <= 0 {
		places = 6
	}
	return &Renderer{Places: places, ShowTicks: showTicks}
}

// Render writes the formatted report to w.
func (r *Renderer) Render(w io.Writer, result model.AnalysisResult) error {
	lines := []string{
		fmt.Sprintf("pool          %s", result.PoolAddress),
		fmt.Sprintf("blocks        %d -> %d", result.StartBlock, result.EndBlock),
		fmt.Sprintf("range         [%d, %d)", result.TickLower, result.TickUpper),
		fmt.Sprintf("liquidity     %s", result.PositionLiquidity),
		fmt.Sprintf("price         %s -> %s", r.amount(result.PriceStart), r.amount(result.PriceEnd)),
		"",
		fmt.Sprintf("deposited     %s token0, %s token1", r.amount(result.InitialAmount0), r.amount(result.InitialAmount1)),
		fmt.Sprintf("unused        %s token0, %s token1 (%s quote)", r.amount(result.UnusedAmount0), r.amount(result.UnusedAmount1), r.amount(result.UnusedValue)),
		fmt.Sprintf("final         %s token0, %s token1 (%s quote)", r.amount(result.FinalAmount0), r.amount(result.FinalAmount1), r.amount(result.FinalValue)),
		"",
		fmt.Sprintf("fees          %s token0, %s token1 (%s quote)", r.amount(result.FeesToken0), r.amount(result.FeesToken1), r.amount(result.FeesValue)),
		fmt.Sprintf("imperm. loss  %s (%s%%)", r.amount(result.ImpermanentLoss), r.pct(result.ImpermanentLossPct)),
		fmt.Sprintf("total value   %s", r.amount(result.FinalTotalValue)),
		fmt.Sprintf("pnl           %s (%s%%)", r.amount(result.PnL), r.pct(result.PnLPct)),
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if r.ShowTicks {
		return r.renderTicks(w, result.FeesByTick)
	}
	return nil
}

func (r *Renderer) renderTicks(w io.Writer, ledger model.FeeLedger) error {
	ticks := make([]int, 0, len(ledger))
	for tick := range ledger {
		ticks = append(ticks, tick)
	}
	sort.Ints(ticks)

	if _, err := fmt.Fprintln(w, "\nfees by tick"); err != nil {
		return err
	}
	for _, tick := range ticks {
		fees := ledger[tick]
		if fees.Token0 == 0 && fees.Token1 == 0 {
			continue
		}
		_, err := fmt.Fprintf(w, "  %8d  %s token0  %s token1\n", tick, r.amount(fees.Token0), r.amount(fees.Token1))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) amount(v float64) string {
	return decimal.NewFromFloat(v).Round(r.Places).String()
}

func (r *Renderer) pct(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}

// Package report renders evaluation passes as plain text for log and
// stdout delivery.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Brownz73/portfolio-tracker/internal/model"
	"github.com/Brownz73/portfolio-tracker/internal/runner"
)

// FormatPassReport renders the full pass: per-position lines, the portfolio
// summary, benchmark comparison and harvestable losses.
func FormatPassReport(result *runner.PassResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s | %s ===\n",
		result.Portfolio, result.StartedAt.Format("2006-01-02 15:04")))

	tickers := make([]string, 0, len(result.Analyses))
	for t := range result.Analyses {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		b.WriteString(formatPositionLine(result.Analyses[ticker]))
	}
	if len(result.Excluded) > 0 {
		b.WriteString(fmt.Sprintf("excluded (fetch failed): %s\n",
			strings.Join(result.Excluded, ", ")))
	}

	b.WriteString(formatMetrics(result.Metrics))

	if len(result.Benchmark) > 0 {
		b.WriteString("benchmark: ")
		b.WriteString(formatBenchmark(result.Benchmark))
		b.WriteString("\n")
	}

	if harvest := formatHarvest(result.LotAnalyses); harvest != "" {
		b.WriteString(harvest)
	}

	return b.String()
}

func formatPositionLine(a *model.PositionAnalysis) string {
	line := fmt.Sprintf("%-8s %10.2f  %+7.2f%%  %-16s buy=%.0f sell=%.0f risk=%.0f",
		a.Ticker, a.CurrentPrice, a.GainLossPct, a.Action,
		a.BuyScore, a.SellScore, a.RiskScore)

	if top := topSignal(a.Signals); top != nil {
		line += fmt.Sprintf("  [%s]", top.Title)
	}
	return line + "\n"
}

// topSignal returns the most urgent signal, or nil when there are none.
// Signals arrive already sorted by priority.
func topSignal(signals []model.Signal) *model.Signal {
	if len(signals) == 0 {
		return nil
	}
	return &signals[0]
}

func formatMetrics(m *model.PortfolioMetrics) string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("total: $%.2f (%+.2f%%, $%+.2f)  beta=%.2f\n",
		m.TotalValue, m.TotalReturnPct, m.TotalGain, m.PortfolioBeta))
	b.WriteString(fmt.Sprintf("positions=%d sectors=%d  concentration=%.1f%%  diversification=%.0f/100\n",
		m.NumPositions, m.NumSectors, m.ConcentrationRisk, m.DiversificationScore))
	return b.String()
}

func formatBenchmark(returns map[string]float64) string {
	order := []string{"1D", "1W", "1M", "3M", "6M", "1Y", "YTD"}
	parts := make([]string, 0, len(returns))
	for _, period := range order {
		if ret, ok := returns[period]; ok {
			parts = append(parts, fmt.Sprintf("%s %+.2f%%", period, ret))
		}
	}
	return strings.Join(parts, "  ")
}

func formatHarvest(lotAnalyses map[string]*model.LotAnalysis) string {
	tickers := make([]string, 0, len(lotAnalyses))
	for t, la := range lotAnalyses {
		if la != nil && len(la.HarvestableLosses) > 0 {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return ""
	}
	sort.Strings(tickers)

	var b strings.Builder
	b.WriteString("tax-loss harvest candidates:\n")
	for _, ticker := range tickers {
		la := lotAnalyses[ticker]
		for _, c := range la.HarvestableLosses {
			term := "short"
			if c.IsLongTerm {
				term = "long"
			}
			b.WriteString(fmt.Sprintf("  %-8s lot %s  loss $%.2f  %s-term  held %dd  repurchase after %s\n",
				ticker, c.LotID, c.Loss, term, c.DaysHeld,
				c.RepurchaseAfter.Format("2006-01-02")))
		}
		b.WriteString(fmt.Sprintf("  %-8s potential tax savings $%.2f\n",
			ticker, la.PotentialTaxSavings))
	}
	return b.String()
}

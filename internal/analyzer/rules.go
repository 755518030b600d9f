package analyzer

import (
	"fmt"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// ruleResult is the effect of one fired rule: a signal plus a score delta on
// exactly one side.
type ruleResult struct {
	signal model.Signal
	buy    float64
	sell   float64
}

type ruleFunc func(*ruleContext) *ruleResult

// catalogue is the ordered list of heuristic rules. Each rule is independent
// and produces zero or one signal; evaluation order fixes tie-breaking for
// signals of equal priority.
var catalogue = []struct {
	name string
	eval ruleFunc
}{
	{"profit_taking", evalProfitTaking},
	{"stop_loss", evalStopLoss},
	{"week52_high", evalWeek52High},
	{"week52_low", evalWeek52Low},
	{"analyst_target", evalAnalystTarget},
	{"analyst_rating", evalAnalystRating},
	{"volume_spike", evalVolumeSpike},
	{"technical_score", evalTechnicalScore},
	{"rsi_extreme", evalRSIExtreme},
	{"earnings_proximity", evalEarnings},
	{"dividend_yield", evalDividendYield},
	{"ex_dividend", evalExDividend},
	{"valuation", evalValuation},
	{"short_interest", evalShortInterest},
	{"insider_ownership", evalInsiderOwnership},
}

func evalProfitTaking(ctx *ruleContext) *ruleResult {
	g := ctx.gainLossPct
	switch {
	case g >= 100:
		return &ruleResult{sell: 45, signal: model.Signal{
			Kind: model.SignalStrongSell, Title: "Doubled Your Money",
			Message:  fmt.Sprintf("Position up %.1f%% - consider taking profits", g),
			Priority: 1, Category: "profit_target",
		}}
	case g >= 75:
		return &ruleResult{sell: 35, signal: model.Signal{
			Kind: model.SignalSell, Title: "Exceptional Gains",
			Message:  fmt.Sprintf("Up %.1f%% - consider scaling out", g),
			Priority: 2, Category: "profit_target",
		}}
	case g >= ctx.th.TakeProfitPct:
		return &ruleResult{sell: 30, signal: model.Signal{
			Kind: model.SignalSell, Title: "Profit Target Hit",
			Message:  fmt.Sprintf("Up %.1f%% (target: %.0f%%)", g, ctx.th.TakeProfitPct),
			Priority: 2, Category: "profit_target",
		}}
	case g >= 30:
		return &ruleResult{sell: 15, signal: model.Signal{
			Kind: model.SignalInfo, Title: "Solid Gains",
			Message:  "Consider setting a trailing stop",
			Priority: 4, Category: "info",
		}}
	}
	return nil
}

func evalStopLoss(ctx *ruleContext) *ruleResult {
	g := ctx.gainLossPct
	switch {
	case g <= -50:
		return &ruleResult{sell: 50, signal: model.Signal{
			Kind: model.SignalStrongSell, Title: "Critical Loss",
			Message:  "Down 50%+ - evaluate if thesis still valid",
			Priority: 1, Category: "stop_loss",
		}}
	case g <= -30:
		return &ruleResult{sell: 30, signal: model.Signal{
			Kind: model.SignalSell, Title: "Major Loss",
			Message:  "Consider cutting losses or averaging down",
			Priority: 2, Category: "stop_loss",
		}}
	case g <= ctx.th.StopLossPct:
		return &ruleResult{sell: 20, signal: model.Signal{
			Kind: model.SignalWarning, Title: "Stop Loss Level",
			Message:  fmt.Sprintf("Down %.1f%% - at your stop loss threshold", -g),
			Priority: 2, Category: "stop_loss",
		}}
	}
	return nil
}

func evalWeek52High(ctx *ruleContext) *ruleResult {
	if ctx.snap.Week52High <= 0 {
		return nil
	}
	switch {
	case ctx.pctFromHigh <= 2:
		return &ruleResult{sell: 25, signal: model.Signal{
			Kind: model.SignalSell, Title: "At 52-Week High",
			Message:  "Stock at peak - high resistance",
			Priority: 2, Category: "technical",
		}}
	case ctx.pctFromHigh <= 5:
		return &ruleResult{sell: 10, signal: model.Signal{
			Kind: model.SignalInfo, Title: "Near 52-Week High",
			Message:  fmt.Sprintf("Only %.1f%% from peak", ctx.pctFromHigh),
			Priority: 4, Category: "technical",
		}}
	}
	return nil
}

func evalWeek52Low(ctx *ruleContext) *ruleResult {
	if ctx.snap.Week52Low <= 0 {
		return nil
	}
	switch {
	case ctx.pctFromLow <= 5:
		return &ruleResult{buy: 25, signal: model.Signal{
			Kind: model.SignalBuy, Title: "Near 52-Week Low",
			Message:  "Potential value opportunity",
			Priority: 2, Category: "technical",
		}}
	case ctx.pctFromLow <= 15:
		return &ruleResult{buy: 10, signal: model.Signal{
			Kind: model.SignalInfo, Title: "Approaching 52-Week Low",
			Message:  fmt.Sprintf("%.1f%% from bottom", ctx.pctFromLow),
			Priority: 4, Category: "technical",
		}}
	}
	return nil
}

func evalAnalystTarget(ctx *ruleContext) *ruleResult {
	if ctx.snap.TargetMean == nil || *ctx.snap.TargetMean <= 0 {
		return nil
	}
	target := *ctx.snap.TargetMean
	price := ctx.snap.Price
	upside := (target - price) / price * 100
	switch {
	case price >= target:
		return &ruleResult{sell: 20, signal: model.Signal{
			Kind: model.SignalSell, Title: "Above Analyst Target",
			Message:  fmt.Sprintf("Trading above $%.2f consensus", target),
			Priority: 2, Category: "analyst",
		}}
	case upside >= 50:
		return &ruleResult{buy: 35, signal: model.Signal{
			Kind: model.SignalStrongBuy, Title: fmt.Sprintf("%.0f%% Upside Potential", upside),
			Message:  fmt.Sprintf("Target $%.2f", target),
			Priority: 2, Category: "analyst",
		}}
	case upside >= 25:
		return &ruleResult{buy: 20, signal: model.Signal{
			Kind: model.SignalBuy, Title: fmt.Sprintf("%.0f%% Upside", upside),
			Message:  fmt.Sprintf("Target $%.2f", target),
			Priority: 3, Category: "analyst",
		}}
	}
	return nil
}

func evalAnalystRating(ctx *ruleContext) *ruleResult {
	switch ctx.snap.Recommendation {
	case "strong_buy", "strongBuy":
		return &ruleResult{buy: 25, signal: model.Signal{
			Kind: model.SignalStrongBuy, Title: "Analyst: STRONG BUY",
			Message:  fmt.Sprintf("%d analysts recommend", ctx.snap.NumAnalysts),
			Priority: 2, Category: "analyst",
		}}
	case "buy":
		return &ruleResult{buy: 15, signal: model.Signal{
			Kind: model.SignalBuy, Title: "Analyst: BUY",
			Message:  "Wall Street recommends buying",
			Priority: 3, Category: "analyst",
		}}
	case "sell":
		return &ruleResult{sell: 20, signal: model.Signal{
			Kind: model.SignalSell, Title: "Analyst: SELL",
			Message:  "Wall Street recommends selling",
			Priority: 2, Category: "analyst",
		}}
	case "strong_sell", "strongSell":
		return &ruleResult{sell: 30, signal: model.Signal{
			Kind: model.SignalStrongSell, Title: "Analyst: STRONG SELL",
			Message:  "Strong sell recommendation",
			Priority: 1, Category: "analyst",
		}}
	}
	return nil
}

func evalVolumeSpike(ctx *ruleContext) *ruleResult {
	switch {
	case ctx.volumeRatio >= ctx.th.VolumeSpikeMultiplier:
		return &ruleResult{signal: model.Signal{
			Kind: model.SignalWarning, Title: "Volume Spike",
			Message:  fmt.Sprintf("%.1fx average - check for news", ctx.volumeRatio),
			Priority: 1, Category: "volume",
		}}
	case ctx.volumeRatio >= 2:
		return &ruleResult{signal: model.Signal{
			Kind: model.SignalInfo, Title: "High Volume",
			Message:  fmt.Sprintf("%.1fx average volume", ctx.volumeRatio),
			Priority: 4, Category: "volume",
		}}
	}
	return nil
}

func evalTechnicalScore(ctx *ruleContext) *ruleResult {
	if ctx.ind == nil {
		return nil
	}
	score := ctx.ind.Score
	switch {
	case score >= 60:
		return &ruleResult{buy: 30, signal: model.Signal{
			Kind: model.SignalStrongBuy, Title: "Strong Bullish Technicals",
			Message:  fmt.Sprintf("Technical score: %.0f/100", score),
			Priority: 2, Category: "technical",
		}}
	case score >= 30:
		return &ruleResult{buy: 15, signal: model.Signal{
			Kind: model.SignalBuy, Title: "Bullish Technicals",
			Message:  fmt.Sprintf("Technical score: %.0f/100", score),
			Priority: 3, Category: "technical",
		}}
	case score <= -60:
		return &ruleResult{sell: 30, signal: model.Signal{
			Kind: model.SignalStrongSell, Title: "Strong Bearish Technicals",
			Message:  fmt.Sprintf("Technical score: %.0f/100", score),
			Priority: 2, Category: "technical",
		}}
	case score <= -30:
		return &ruleResult{sell: 15, signal: model.Signal{
			Kind: model.SignalSell, Title: "Bearish Technicals",
			Message:  fmt.Sprintf("Technical score: %.0f/100", score),
			Priority: 3, Category: "technical",
		}}
	}
	return nil
}

func evalRSIExtreme(ctx *ruleContext) *ruleResult {
	if ctx.ind == nil {
		return nil
	}
	rsi := ctx.ind.RSI
	switch {
	case rsi >= 80:
		return &ruleResult{sell: 20, signal: model.Signal{
			Kind: model.SignalSell, Title: "RSI Extremely Overbought",
			Message:  fmt.Sprintf("RSI at %.0f - extended", rsi),
			Priority: 2, Category: "technical",
		}}
	case rsi >= 70:
		return &ruleResult{sell: 10, signal: model.Signal{
			Kind: model.SignalInfo, Title: "RSI Overbought",
			Message:  fmt.Sprintf("RSI at %.0f", rsi),
			Priority: 4, Category: "technical",
		}}
	case rsi <= 20:
		return &ruleResult{buy: 20, signal: model.Signal{
			Kind: model.SignalBuy, Title: "RSI Extremely Oversold",
			Message:  fmt.Sprintf("RSI at %.0f - potential bounce", rsi),
			Priority: 2, Category: "technical",
		}}
	case rsi <= 30:
		return &ruleResult{buy: 10, signal: model.Signal{
			Kind: model.SignalInfo, Title: "RSI Oversold",
			Message:  fmt.Sprintf("RSI at %.0f", rsi),
			Priority: 4, Category: "technical",
		}}
	}
	return nil
}

func evalEarnings(ctx *ruleContext) *ruleResult {
	if ctx.snap.EarningsDate == nil {
		return nil
	}
	days := daysBetween(ctx.now, *ctx.snap.EarningsDate)
	switch {
	case days >= 0 && days <= 7:
		return &ruleResult{signal: model.Signal{
			Kind: model.SignalWarning, Title: "Earnings Coming",
			Message:  fmt.Sprintf("Earnings in %d days - expect volatility", days),
			Priority: 1, Category: "earnings",
		}}
	case days == -1:
		return &ruleResult{signal: model.Signal{
			Kind: model.SignalWarning, Title: "Earnings Today/Yesterday",
			Message:  "Check earnings results",
			Priority: 1, Category: "earnings",
		}}
	}
	return nil
}

func evalDividendYield(ctx *ruleContext) *ruleResult {
	switch y := ctx.snap.DividendYield; {
	case y >= 5:
		return &ruleResult{buy: 10, signal: model.Signal{
			Kind: model.SignalBuy, Title: "High Dividend Yield",
			Message:  fmt.Sprintf("%.2f%% yield", y),
			Priority: 3, Category: "dividend",
		}}
	case y >= 3:
		return &ruleResult{signal: model.Signal{
			Kind: model.SignalInfo, Title: "Good Dividend",
			Message:  fmt.Sprintf("%.2f%% yield", y),
			Priority: 5, Category: "dividend",
		}}
	}
	return nil
}

func evalExDividend(ctx *ruleContext) *ruleResult {
	if ctx.snap.ExDividendDate == nil {
		return nil
	}
	days := daysBetween(ctx.now, *ctx.snap.ExDividendDate)
	if days >= 0 && days <= 7 {
		return &ruleResult{signal: model.Signal{
			Kind: model.SignalInfo, Title: "Ex-Dividend Coming",
			Message:  fmt.Sprintf("Ex-div in %d days", days),
			Priority: 3, Category: "dividend",
		}}
	}
	return nil
}

func evalValuation(ctx *ruleContext) *ruleResult {
	if ctx.snap.PERatio == nil || *ctx.snap.PERatio == 0 {
		return nil
	}
	pe := *ctx.snap.PERatio
	switch {
	case pe < 10:
		return &ruleResult{buy: 15, signal: model.Signal{
			Kind: model.SignalBuy, Title: "Very Low P/E",
			Message:  fmt.Sprintf("P/E of %.1f - potentially undervalued", pe),
			Priority: 3, Category: "valuation",
		}}
	case pe < 15:
		return &ruleResult{buy: 5, signal: model.Signal{
			Kind: model.SignalInfo, Title: "Low P/E",
			Message:  fmt.Sprintf("P/E of %.1f", pe),
			Priority: 5, Category: "valuation",
		}}
	case pe > 50:
		return &ruleResult{sell: 10, signal: model.Signal{
			Kind: model.SignalWarning, Title: "Very High P/E",
			Message:  fmt.Sprintf("P/E of %.1f - expensive valuation", pe),
			Priority: 3, Category: "valuation",
		}}
	}
	return nil
}

func evalShortInterest(ctx *ruleContext) *ruleResult {
	if ctx.snap.ShortPercent == nil || *ctx.snap.ShortPercent <= 0.2 {
		return nil
	}
	return &ruleResult{signal: model.Signal{
		Kind: model.SignalWarning, Title: "High Short Interest",
		Message:  fmt.Sprintf("%.1f%% of float shorted", *ctx.snap.ShortPercent*100),
		Priority: 2, Category: "risk",
	}}
}

func evalInsiderOwnership(ctx *ruleContext) *ruleResult {
	if ctx.snap.HeldPercentInsiders == nil || *ctx.snap.HeldPercentInsiders <= 0.3 {
		return nil
	}
	return &ruleResult{signal: model.Signal{
		Kind: model.SignalInfo, Title: "High Insider Ownership",
		Message:  fmt.Sprintf("%.1f%% insider owned", *ctx.snap.HeldPercentInsiders*100),
		Priority: 5, Category: "ownership",
	}}
}

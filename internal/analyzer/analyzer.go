// Package analyzer evaluates one position against its market snapshot and
// indicator readings, producing ranked signals, buy/sell/risk scores and an
// action recommendation. Everything here is pure: inputs arrive as arguments,
// including the evaluation time.
package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// Thresholds are the user-configurable trigger levels for the rule catalogue.
type Thresholds struct {
	TakeProfitPct         float64 // percent gain that triggers a sell signal
	StopLossPct           float64 // negative percent loss that triggers a warning
	VolumeSpikeMultiplier float64 // volume/average ratio that triggers an alert
}

// DefaultThresholds mirrors the application defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{TakeProfitPct: 50, StopLossPct: -20, VolumeSpikeMultiplier: 3.0}
}

// ruleContext carries the shared inputs and pre-derived figures every rule
// reads.
type ruleContext struct {
	pos  model.Position
	snap *model.MarketSnapshot
	ind  *model.IndicatorSnapshot // nil when no price history was available
	th   Thresholds
	now  time.Time

	gainLossPct float64
	pctFromHigh float64
	pctFromLow  float64
	volumeRatio float64
}

// Analyze runs the full rule catalogue for one position. ind may be nil when
// the ticker had no usable price history; technical rules are then skipped.
func Analyze(pos model.Position, snap *model.MarketSnapshot, ind *model.IndicatorSnapshot, th Thresholds, now time.Time) *model.PositionAnalysis {
	price := snap.Price

	var gainLossPct float64
	if pos.AvgCost > 0 {
		gainLossPct = (price - pos.AvgCost) / pos.AvgCost * 100
	}
	gainLossDollars := (price - pos.AvgCost) * pos.Shares

	// 52-week placement
	pctInRange := 50.0
	if r := snap.Week52High - snap.Week52Low; r > 0 {
		pctInRange = (price - snap.Week52Low) / r * 100
	}
	var pctFromHigh, pctFromLow float64
	if snap.Week52High > 0 {
		pctFromHigh = (snap.Week52High - price) / snap.Week52High * 100
	}
	if snap.Week52Low > 0 {
		pctFromLow = (price - snap.Week52Low) / snap.Week52Low * 100
	}

	ctx := &ruleContext{
		pos: pos, snap: snap, ind: ind, th: th, now: now,
		gainLossPct: gainLossPct,
		pctFromHigh: pctFromHigh,
		pctFromLow:  pctFromLow,
		volumeRatio: snap.VolumeRatio(),
	}

	var signals []model.Signal
	var buyScore, sellScore float64
	for _, r := range catalogue {
		res := r.eval(ctx)
		if res == nil {
			continue
		}
		signals = append(signals, res.signal)
		buyScore += res.buy
		sellScore += res.sell
	}

	// Most urgent first; ties keep catalogue order.
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Priority < signals[j].Priority
	})

	return &model.PositionAnalysis{
		Ticker:          snap.Ticker,
		CurrentPrice:    price,
		Shares:          pos.Shares,
		AvgCost:         pos.AvgCost,
		GainLossPct:     gainLossPct,
		GainLossDollars: gainLossDollars,
		TotalValue:      price * pos.Shares,
		CostBasis:       pos.AvgCost * pos.Shares,
		PctInRange:      pctInRange,
		PctFromHigh:     pctFromHigh,
		PctFromLow:      pctFromLow,
		Signals:         signals,
		Action:          decideAction(buyScore, sellScore),
		BuyScore:        buyScore,
		SellScore:       sellScore,
		RiskScore:       riskScore(ctx),
		IsCrypto:        snap.IsCrypto,
		Snapshot:        snap,
		Indicators:      ind,
	}
}

// decideAction maps the buy and sell scores to the final recommendation. The
// rule is deliberately asymmetric: a side needs both an absolute magnitude
// and a ratio edge over the other side, not just the larger score.
func decideAction(buyScore, sellScore float64) model.Action {
	switch {
	case sellScore >= 60 && sellScore > buyScore*1.5:
		return model.ActionStrongSell
	case sellScore >= 40 && sellScore > buyScore:
		return model.ActionConsiderSelling
	case buyScore >= 60 && buyScore > sellScore*1.5:
		return model.ActionStrongBuy
	case buyScore >= 40 && buyScore > sellScore:
		return model.ActionConsiderBuying
	default:
		return model.ActionHold
	}
}

// riskScore adds up independent risk contributions and clamps to [0, 100].
func riskScore(ctx *ruleContext) float64 {
	beta := ctx.snap.BetaOrDefault()
	risk := math.Min(math.Abs(beta-1)*15, 25)

	if ctx.gainLossPct < -20 {
		risk += 15
	}
	if ctx.gainLossPct < -40 {
		risk += 15
	}
	if ctx.volumeRatio > 3 {
		risk += 10
	}
	if ctx.snap.ShortPercent != nil && *ctx.snap.ShortPercent > 0.15 {
		risk += 10
	}
	if ctx.snap.EarningsDate != nil {
		if d := daysBetween(ctx.now, *ctx.snap.EarningsDate); d >= 0 && d <= 7 {
			risk += 15
		}
	}
	if ctx.snap.IsCrypto {
		risk += 20
	}
	return math.Min(risk, 100)
}

// daysBetween returns the whole days from now until then, flooring so that a
// moment within the previous 24 hours counts as -1.
func daysBetween(now, then time.Time) int {
	return int(math.Floor(then.Sub(now).Hours() / 24))
}

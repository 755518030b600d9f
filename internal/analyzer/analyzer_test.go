package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

var evalTime = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

// quietSnapshot builds a snapshot where no rule fires on its own: price far
// from both 52-week extremes, normal volume, no analyst or fundamental data.
func quietSnapshot(price float64) *model.MarketSnapshot {
	return &model.MarketSnapshot{
		Ticker:     "TEST",
		Sector:     "Technology",
		Price:      price,
		Week52High: price * 1.5,
		Week52Low:  price * 0.6,
		Volume:     1_000_000,
		AvgVolume:  1_000_000,
	}
}

func findSignal(signals []model.Signal, title string) *model.Signal {
	for i := range signals {
		if signals[i].Title == title {
			return &signals[i]
		}
	}
	return nil
}

func TestAnalyze_QuietPositionHolds(t *testing.T) {
	pos := model.Position{Shares: 10, AvgCost: 100}
	a := Analyze(pos, quietSnapshot(105), nil, DefaultThresholds(), evalTime)

	assert.Equal(t, model.ActionHold, a.Action)
	assert.Zero(t, a.BuyScore)
	assert.Zero(t, a.SellScore)
	assert.Empty(t, a.Signals)
	assert.InDelta(t, 5.0, a.GainLossPct, 1e-9)
	assert.InDelta(t, 50.0, a.GainLossDollars, 1e-9)
}

func TestAnalyze_DoubledMoney(t *testing.T) {
	pos := model.Position{Shares: 5, AvgCost: 50}
	a := Analyze(pos, quietSnapshot(100), nil, DefaultThresholds(), evalTime)

	sig := findSignal(a.Signals, "Doubled Your Money")
	require.NotNil(t, sig, "exact 100%% gain must fire the doubled-money rule")
	assert.Equal(t, model.SignalStrongSell, sig.Kind)
	assert.Equal(t, 1, sig.Priority)
	assert.Equal(t, 45.0, a.SellScore)
}

func TestAnalyze_ProfitTargetScenario(t *testing.T) {
	// Position {shares:10, avg_cost:100} at price 150 with the default 50%
	// take-profit threshold, pinned at the 52-week high.
	pos := model.Position{Shares: 10, AvgCost: 100}
	snap := &model.MarketSnapshot{
		Ticker:     "TEST",
		Price:      150,
		Week52High: 153, // within 2% of the high
		Week52Low:  95,
		Volume:     1_000_000,
		AvgVolume:  1_000_000,
	}
	a := Analyze(pos, snap, nil, DefaultThresholds(), evalTime)

	require.NotNil(t, findSignal(a.Signals, "Profit Target Hit"))
	// +30 profit target, +25 at 52-week high, nothing on the buy side.
	assert.Equal(t, 55.0, a.SellScore)
	assert.Zero(t, a.BuyScore)
	assert.Equal(t, model.ActionConsiderSelling, a.Action)
}

func TestAnalyze_SignalsSortedByPriority(t *testing.T) {
	pos := model.Position{Shares: 10, AvgCost: 100}
	snap := quietSnapshot(210) // +110%: doubled-money, priority 1
	snap.PERatio = fptr(60)    // very high P/E, priority 3
	snap.DividendYield = 3.5   // good dividend, priority 5

	a := Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
	require.GreaterOrEqual(t, len(a.Signals), 3)
	for i := 1; i < len(a.Signals); i++ {
		assert.LessOrEqual(t, a.Signals[i-1].Priority, a.Signals[i].Priority)
	}
}

func TestDecideAction(t *testing.T) {
	tests := []struct {
		name     string
		buy      float64
		sell     float64
		expected model.Action
	}{
		{"strong sell needs magnitude and ratio", 30, 60, model.ActionStrongSell},
		{"high sell without ratio edge is not strong", 50, 60, model.ActionConsiderSelling},
		{"moderate sell", 20, 45, model.ActionConsiderSelling},
		{"strong buy", 75, 40, model.ActionStrongBuy},
		{"consider buying", 45, 30, model.ActionConsiderBuying},
		{"balanced scores hold", 50, 50, model.ActionHold},
		{"low scores hold", 20, 25, model.ActionHold},
		{"zero scores hold", 0, 0, model.ActionHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decideAction(tt.buy, tt.sell))
		})
	}
}

func TestRiskScore_Components(t *testing.T) {
	pos := model.Position{Shares: 1, AvgCost: 100}

	// Baseline: beta 1, no flags.
	a := Analyze(pos, quietSnapshot(105), nil, DefaultThresholds(), evalTime)
	assert.Zero(t, a.RiskScore)

	// Beta contribution is capped at 25.
	snap := quietSnapshot(105)
	snap.Beta = fptr(4.0)
	a = Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
	assert.Equal(t, 25.0, a.RiskScore)

	// Deep loss adds both loss tiers.
	snap = quietSnapshot(105)
	pos45 := model.Position{Shares: 1, AvgCost: 200} // price 105 -> -47.5%
	a = Analyze(pos45, snap, nil, DefaultThresholds(), evalTime)
	assert.Equal(t, 30.0, a.RiskScore)

	// Crypto flag is a flat +20.
	snap = quietSnapshot(105)
	snap.IsCrypto = true
	snap.Beta = fptr(1.0)
	a = Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
	assert.Equal(t, 20.0, a.RiskScore)

	// Earnings inside a week adds 15.
	snap = quietSnapshot(105)
	ed := evalTime.AddDate(0, 0, 3)
	snap.EarningsDate = &ed
	a = Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
	assert.Equal(t, 15.0, a.RiskScore)
}

func TestRiskScore_Clamped(t *testing.T) {
	pos := model.Position{Shares: 1, AvgCost: 300} // price 105 -> -65%
	snap := quietSnapshot(105)
	snap.IsCrypto = true
	snap.Beta = fptr(5.0)
	snap.Volume = 4_000_000 // 4x average
	snap.ShortPercent = fptr(0.25)
	ed := evalTime.AddDate(0, 0, 2)
	snap.EarningsDate = &ed

	a := Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
	assert.Equal(t, 100.0, a.RiskScore)
}

func TestAnalyze_TechnicalRules(t *testing.T) {
	pos := model.Position{Shares: 1, AvgCost: 100}

	ind := &model.IndicatorSnapshot{Score: 65, RSI: 50}
	a := Analyze(pos, quietSnapshot(105), ind, DefaultThresholds(), evalTime)
	require.NotNil(t, findSignal(a.Signals, "Strong Bullish Technicals"))
	assert.Equal(t, 30.0, a.BuyScore)

	// RSI weight is independent of the score band.
	ind = &model.IndicatorSnapshot{Score: 65, RSI: 85}
	a = Analyze(pos, quietSnapshot(105), ind, DefaultThresholds(), evalTime)
	assert.Equal(t, 30.0, a.BuyScore)
	assert.Equal(t, 20.0, a.SellScore)

	// No indicator snapshot: technical rules are skipped entirely.
	a = Analyze(pos, quietSnapshot(105), nil, DefaultThresholds(), evalTime)
	assert.Nil(t, findSignal(a.Signals, "Strong Bullish Technicals"))
}

func TestAnalyze_EarningsBands(t *testing.T) {
	pos := model.Position{Shares: 1, AvgCost: 100}

	for _, tt := range []struct {
		name   string
		offset time.Duration
		title  string
	}{
		{"five days ahead", 5 * 24 * time.Hour, "Earnings Coming"},
		{"earlier today", -6 * time.Hour, "Earnings Today/Yesterday"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			snap := quietSnapshot(105)
			ed := evalTime.Add(tt.offset)
			snap.EarningsDate = &ed
			a := Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
			assert.NotNil(t, findSignal(a.Signals, tt.title))
		})
	}

	// Far-future earnings stay quiet.
	snap := quietSnapshot(105)
	ed := evalTime.AddDate(0, 1, 0)
	snap.EarningsDate = &ed
	a := Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
	assert.Nil(t, findSignal(a.Signals, "Earnings Coming"))
}

func TestAnalyze_MissingFieldsSkipRules(t *testing.T) {
	pos := model.Position{Shares: 1, AvgCost: 100}
	snap := quietSnapshot(105)
	// All optional fields nil: no analyst, valuation, ownership or earnings
	// rules may fire.
	a := Analyze(pos, snap, nil, DefaultThresholds(), evalTime)
	for _, s := range a.Signals {
		assert.NotContains(t, []string{"analyst", "valuation", "ownership", "earnings"}, s.Category)
	}
}

func TestAnalyze_ZeroAvgCost(t *testing.T) {
	// A zero cost basis must not divide by zero.
	pos := model.Position{Shares: 10, AvgCost: 0}
	a := Analyze(pos, quietSnapshot(105), nil, DefaultThresholds(), evalTime)
	assert.Zero(t, a.GainLossPct)
	assert.Equal(t, 1050.0, a.TotalValue)
}

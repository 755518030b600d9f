package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownz73/portfolio-tracker/internal/analyzer"
	"github.com/Brownz73/portfolio-tracker/internal/marketdata"
	"github.com/Brownz73/portfolio-tracker/internal/model"
	"github.com/Brownz73/portfolio-tracker/internal/recorder"
	"github.com/Brownz73/portfolio-tracker/internal/taxlot"
)

// captureRecorder keeps the last recorded pass for assertions.
type captureRecorder struct {
	last *recorder.PassRecord
}

func (c *captureRecorder) RecordPass(rec *recorder.PassRecord) error {
	c.last = rec
	return nil
}
func (c *captureRecorder) Close() error { return nil }

func newTestRunner(provider marketdata.Provider, rec recorder.Recorder) *Runner {
	return New(provider, rec, analyzer.DefaultThresholds(), taxlot.DefaultParams(), "SPY", zerolog.Nop())
}

func TestRunPass_FailedTickerExcluded(t *testing.T) {
	provider := &marketdata.MockProvider{
		Price: 100,
		Err:   map[string]error{"BAD": errors.New("upstream down")},
	}
	capture := &captureRecorder{}
	r := newTestRunner(provider, capture)

	positions := map[string]model.Position{
		"AAPL": {Shares: 10, AvgCost: 80},
		"MSFT": {Shares: 5, AvgCost: 120},
		"BAD":  {Shares: 1, AvgCost: 50},
	}

	result, err := r.RunPass(context.Background(), "Main Portfolio", positions, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"BAD"}, result.Excluded)
	assert.Len(t, result.Analyses, 2)
	assert.NotContains(t, result.Analyses, "BAD")

	// Aggregation covers only the analyzed tickers.
	require.NotNil(t, result.Metrics)
	assert.Equal(t, 2, result.Metrics.NumPositions)
	assert.InDelta(t, 10*100+5*100, result.Metrics.TotalValue, 1e-9)

	// Benchmark series came from the mock provider.
	assert.NotEmpty(t, result.Benchmark)

	require.NotNil(t, capture.last)
	assert.Equal(t, result.PassID, capture.last.PassID)
	assert.NotEmpty(t, result.PassID)
}

func TestRunPass_LotAnalyses(t *testing.T) {
	provider := &marketdata.MockProvider{Price: 100}
	r := newTestRunner(provider, recorder.NewNoopRecorder())

	lots := map[string][]model.TaxLot{
		"AAPL": {taxlot.NewLot("AAPL", 10, 120, time.Now().AddDate(-2, 0, 0))},
	}
	result, err := r.RunPass(context.Background(), "Main Portfolio",
		map[string]model.Position{"AAPL": {Shares: 10, AvgCost: 120}}, lots)
	require.NoError(t, err)

	la := result.LotAnalyses["AAPL"]
	require.NotNil(t, la)
	assert.Equal(t, 1, la.TotalLots)
	assert.InDelta(t, 200.0, la.LongTermLosses, 1)
	assert.Len(t, la.HarvestableLosses, 1)
}

func TestRunPass_EmptyPortfolio(t *testing.T) {
	provider := &marketdata.MockProvider{Price: 100}
	r := newTestRunner(provider, recorder.NewNoopRecorder())

	result, err := r.RunPass(context.Background(), "Main Portfolio", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Analyses)
	assert.Zero(t, result.Metrics.TotalValue)
}

func TestRunPass_CancelledContext(t *testing.T) {
	provider := &marketdata.MockProvider{Price: 100}
	r := newTestRunner(provider, recorder.NewNoopRecorder())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RunPass(ctx, "Main Portfolio",
		map[string]model.Position{"AAPL": {Shares: 1, AvgCost: 100}}, nil)
	assert.Error(t, err)
}

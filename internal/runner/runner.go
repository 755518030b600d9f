// Package runner orchestrates one evaluation pass over a portfolio: fetch,
// indicator computation, position analysis, tax lot analysis and portfolio
// aggregation.
package runner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Brownz73/portfolio-tracker/internal/analyzer"
	"github.com/Brownz73/portfolio-tracker/internal/indicator"
	"github.com/Brownz73/portfolio-tracker/internal/marketdata"
	"github.com/Brownz73/portfolio-tracker/internal/model"
	"github.com/Brownz73/portfolio-tracker/internal/portfolio"
	"github.com/Brownz73/portfolio-tracker/internal/recorder"
	"github.com/Brownz73/portfolio-tracker/internal/taxlot"
)

// PassResult is everything one evaluation pass produced. Tickers whose data
// fetch failed appear in Excluded and nowhere else.
type PassResult struct {
	PassID    string
	Portfolio string
	StartedAt time.Time

	Analyses    map[string]*model.PositionAnalysis
	LotAnalyses map[string]*model.LotAnalysis
	Excluded    []string

	Metrics   *model.PortfolioMetrics
	Benchmark map[string]float64
}

// Runner evaluates portfolios. All fields are fixed at construction.
type Runner struct {
	provider   marketdata.Provider
	recorder   recorder.Recorder
	thresholds analyzer.Thresholds
	taxParams  taxlot.Params
	benchmark  string
	log        zerolog.Logger
}

// New creates a Runner. rec may be a NoopRecorder.
func New(provider marketdata.Provider, rec recorder.Recorder, th analyzer.Thresholds, tp taxlot.Params, benchmarkSymbol string, logger zerolog.Logger) *Runner {
	return &Runner{
		provider:   provider,
		recorder:   rec,
		thresholds: th,
		taxParams:  tp,
		benchmark:  benchmarkSymbol,
		log:        logger.With().Str("component", "runner").Logger(),
	}
}

// RunPass evaluates every position concurrently, joins, aggregates and
// records. A ticker whose fetch fails is excluded from the pass, never
// fatal; the pass itself only fails on context cancellation.
func (r *Runner) RunPass(ctx context.Context, portfolioName string, positions map[string]model.Position, lots map[string][]model.TaxLot) (*PassResult, error) {
	now := time.Now()
	result := &PassResult{
		PassID:      uuid.NewString(),
		Portfolio:   portfolioName,
		StartedAt:   now,
		Analyses:    map[string]*model.PositionAnalysis{},
		LotAnalyses: map[string]*model.LotAnalysis{},
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	for ticker, pos := range positions {
		ticker, pos := ticker, pos
		g.Go(func() error {
			analysis, err := r.evaluate(gctx, ticker, pos, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.log.Warn().Err(err).Str("ticker", ticker).Msg("ticker excluded from pass")
				result.Excluded = append(result.Excluded, ticker)
				return nil
			}
			result.Analyses[ticker] = analysis
			if tickerLots := lots[ticker]; len(tickerLots) > 0 {
				result.LotAnalyses[ticker] = taxlot.AnalyzeLots(tickerLots, analysis.CurrentPrice, r.taxParams, now)
			}
			return nil
		})
	}

	if r.benchmark != "" {
		g.Go(func() error {
			series, err := r.provider.GetSeries(gctx, r.benchmark)
			if err != nil {
				r.log.Warn().Err(err).Str("ticker", r.benchmark).Msg("benchmark fetch failed")
				return nil
			}
			returns := portfolio.BenchmarkReturns(series, now)
			mu.Lock()
			result.Benchmark = returns
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(result.Excluded)
	result.Metrics = portfolio.Aggregate(result.Analyses)

	if err := r.recorder.RecordPass(&recorder.PassRecord{
		PassID:    result.PassID,
		Portfolio: result.Portfolio,
		StartedAt: result.StartedAt,
		Analyses:  result.Analyses,
		Metrics:   result.Metrics,
		Benchmark: result.Benchmark,
	}); err != nil {
		r.log.Error().Err(err).Msg("record pass failed")
	}

	r.log.Info().
		Str("pass_id", result.PassID).
		Str("portfolio", portfolioName).
		Int("analyzed", len(result.Analyses)).
		Int("excluded", len(result.Excluded)).
		Dur("elapsed", time.Since(now)).
		Msg("pass complete")
	return result, nil
}

func (r *Runner) evaluate(ctx context.Context, ticker string, pos model.Position, now time.Time) (*model.PositionAnalysis, error) {
	snap, err := r.provider.GetSnapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var ind *model.IndicatorSnapshot
	if series, err := r.provider.GetSeries(ctx, ticker); err != nil {
		// Analysis proceeds on snapshot data alone; technical rules skip.
		r.log.Debug().Err(err).Str("ticker", ticker).Msg("no price history")
	} else {
		ind = indicator.Compute(series, snap.Price)
	}

	analysis := analyzer.Analyze(pos, snap, ind, r.thresholds, now)
	return analysis, nil
}

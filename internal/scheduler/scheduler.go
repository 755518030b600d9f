// Package scheduler drives periodic evaluation passes over every portfolio
// in the store.
package scheduler

import (
	"context"
	"fmt"
	"io"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Brownz73/portfolio-tracker/internal/model"
	"github.com/Brownz73/portfolio-tracker/internal/report"
	"github.com/Brownz73/portfolio-tracker/internal/runner"
	"github.com/Brownz73/portfolio-tracker/internal/store"
)

// Scheduler manages the cron task that runs evaluation passes.
type Scheduler struct {
	cron   *cron.Cron
	runner *runner.Runner
	store  *store.Store
	ctx    context.Context
	out    io.Writer
	log    zerolog.Logger
}

// New creates a Scheduler. ctx bounds every pass it triggers; reports go to
// out (stdout in production).
func New(ctx context.Context, r *runner.Runner, s *store.Store, out io.Writer, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		runner: r,
		store:  s,
		ctx:    ctx,
		out:    out,
		log:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the evaluation pass task on the given cron expression
// (six-field, with seconds).
func (s *Scheduler) Register(passCron string) error {
	if _, err := s.cron.AddFunc(passCron, s.passTask); err != nil {
		return fmt.Errorf("register pass task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes a pass immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.passTask()
}

// passTask evaluates every portfolio in the store and prints the reports.
// One portfolio failing does not stop the others.
func (s *Scheduler) passTask() {
	for _, name := range s.store.PortfolioNames() {
		positions := s.store.Positions(name)
		if len(positions) == 0 {
			s.log.Debug().Str("portfolio", name).Msg("skipping empty portfolio")
			continue
		}

		result, err := s.runner.RunPass(s.ctx, name, positions, s.lotsFor(positions))
		if err != nil {
			s.log.Error().Err(err).Str("portfolio", name).Msg("pass failed")
			continue
		}
		fmt.Fprint(s.out, report.FormatPassReport(result))
	}
}

func (s *Scheduler) lotsFor(positions map[string]model.Position) map[string][]model.TaxLot {
	lots := make(map[string][]model.TaxLot, len(positions))
	for ticker := range positions {
		if l := s.store.Lots(ticker); len(l) > 0 {
			lots[ticker] = l
		}
	}
	return lots
}

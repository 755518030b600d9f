package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Brownz73/portfolio-tracker/internal/analyzer"
	"github.com/Brownz73/portfolio-tracker/internal/config"
	"github.com/Brownz73/portfolio-tracker/internal/marketdata"
	"github.com/Brownz73/portfolio-tracker/internal/recorder"
	"github.com/Brownz73/portfolio-tracker/internal/runner"
	"github.com/Brownz73/portfolio-tracker/internal/scheduler"
	"github.com/Brownz73/portfolio-tracker/internal/store"
	"github.com/Brownz73/portfolio-tracker/internal/taxlot"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	log.Info().Msg("portfolio-tracker starting")

	// Data provider, cached for the duration of a pass
	var provider marketdata.Provider = marketdata.NewYahooProvider(cfg.Proxy)
	if os.Getenv("USE_MOCK_DATA") == "true" {
		provider = &marketdata.MockProvider{Price: 100}
	}
	provider = marketdata.NewCachedProvider(provider, 5*time.Minute)
	log.Info().Str("provider", provider.Name()).Msg("data source ready")

	// State store
	st, err := store.Open(cfg.State.File, log.With().Str("component", "store").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("open state store")
	}

	// Pass history recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath,
			log.With().Str("component", "recorder").Logger())
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	thresholds := analyzer.Thresholds{
		TakeProfitPct:         cfg.Thresholds.TakeProfitPct,
		StopLossPct:           cfg.Thresholds.StopLossPct,
		VolumeSpikeMultiplier: cfg.Thresholds.VolumeSpikeMultiplier,
	}
	taxParams := taxlot.Params{
		HoldingPeriodDays:  cfg.Tax.HoldingPeriodDays,
		WashSaleWindowDays: cfg.Tax.WashSaleWindowDays,
		ShortTermRate:      cfg.Tax.ShortTermRate,
		LongTermRate:       cfg.Tax.LongTermRate,
	}
	run := runner.New(provider, rec, thresholds, taxParams, cfg.Benchmark.Symbol, log.Logger)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, run, st, os.Stdout, log.Logger)
	if err := sched.Register(cfg.Schedule.PassCron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing pass now")
		go sched.RunNow()
	}

	log.Info().Msg("portfolio-tracker is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("portfolio-tracker stopped")
}

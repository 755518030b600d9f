package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists pass history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the tracker writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passes (
			pass_id               TEXT PRIMARY KEY,
			timestamp             INTEGER NOT NULL,
			portfolio             TEXT,
			num_positions         INTEGER,
			total_value           REAL,
			total_cost            REAL,
			total_gain            REAL,
			total_return_pct      REAL,
			portfolio_beta        REAL,
			concentration_risk    REAL,
			diversification_score REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_passes_ts ON passes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS position_analyses (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			pass_id       TEXT NOT NULL,
			ticker        TEXT NOT NULL,
			price         REAL,
			shares        REAL,
			avg_cost      REAL,
			total_value   REAL,
			gain_loss_pct REAL,
			buy_score     REAL,
			sell_score    REAL,
			risk_score    REAL,
			tech_score    REAL,
			action        TEXT,
			num_signals   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_pass ON position_analyses(pass_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ticker ON position_analyses(ticker)`,

		`CREATE TABLE IF NOT EXISTS benchmark_returns (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			pass_id    TEXT NOT NULL,
			period     TEXT NOT NULL,
			return_pct REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_benchmark_pass ON benchmark_returns(pass_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordPass writes the pass summary, one row per analyzed position and the
// benchmark returns, atomically.
func (r *SQLiteRecorder) RecordPass(rec *PassRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	m := rec.Metrics
	_, err = tx.Exec(`INSERT INTO passes
		(pass_id, timestamp, portfolio, num_positions, total_value, total_cost,
		 total_gain, total_return_pct, portfolio_beta, concentration_risk,
		 diversification_score)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		rec.PassID, rec.StartedAt.Unix(), rec.Portfolio,
		m.NumPositions, m.TotalValue, m.TotalCost,
		m.TotalGain, m.TotalReturnPct, m.PortfolioBeta,
		m.ConcentrationRisk, m.DiversificationScore,
	)
	if err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}

	for ticker, a := range rec.Analyses {
		if a == nil {
			continue
		}
		var techScore float64
		if a.Indicators != nil {
			techScore = a.Indicators.Score
		}
		_, err = tx.Exec(`INSERT INTO position_analyses
			(pass_id, ticker, price, shares, avg_cost, total_value,
			 gain_loss_pct, buy_score, sell_score, risk_score, tech_score,
			 action, num_signals)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			rec.PassID, ticker, a.CurrentPrice, a.Shares, a.AvgCost,
			a.TotalValue, a.GainLossPct, a.BuyScore, a.SellScore,
			a.RiskScore, techScore, string(a.Action), len(a.Signals),
		)
		if err != nil {
			return fmt.Errorf("insert analysis %s: %w", ticker, err)
		}
	}

	for period, ret := range rec.Benchmark {
		_, err = tx.Exec(`INSERT INTO benchmark_returns (pass_id, period, return_pct)
			VALUES (?,?,?)`, rec.PassID, period, ret)
		if err != nil {
			return fmt.Errorf("insert benchmark %s: %w", period, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

// Package recorder persists evaluation pass history for later analysis.
package recorder

import (
	"time"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// PassRecord holds everything one evaluation pass produced.
type PassRecord struct {
	PassID    string
	Portfolio string
	StartedAt time.Time

	Analyses  map[string]*model.PositionAnalysis
	Metrics   *model.PortfolioMetrics
	Benchmark map[string]float64 // period label -> percent return
}

// Recorder persists pass history.
type Recorder interface {
	RecordPass(rec *PassRecord) error
	Close() error
}

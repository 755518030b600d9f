package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Thresholds.TakeProfitPct)
	assert.Equal(t, -20.0, cfg.Thresholds.StopLossPct)
	assert.Equal(t, 3.0, cfg.Thresholds.VolumeSpikeMultiplier)
	assert.Equal(t, 0.35, cfg.Tax.ShortTermRate)
	assert.Equal(t, 0.15, cfg.Tax.LongTermRate)
	assert.Equal(t, 365, cfg.Tax.HoldingPeriodDays)
	assert.Equal(t, 30, cfg.Tax.WashSaleWindowDays)
	assert.Equal(t, "SPY", cfg.Benchmark.Symbol)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
thresholds:
  take_profit_pct: 40
  stop_loss_pct: -15
benchmark:
  symbol: QQQ
log:
  level: debug
`), 0644))

	t.Setenv("BENCHMARK_SYMBOL", "VTI")
	t.Setenv("TAKE_PROFIT_PCT", "60")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Env wins over file, file wins over defaults.
	assert.Equal(t, 60.0, cfg.Thresholds.TakeProfitPct)
	assert.Equal(t, "VTI", cfg.Benchmark.Symbol)
	assert.Equal(t, -15.0, cfg.Thresholds.StopLossPct)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Thresholds.StopLossPct = 5
	assert.Error(t, cfg.Validate())

	cfg.Thresholds.StopLossPct = -20
	cfg.Tax.ShortTermRate = 1.5
	assert.Error(t, cfg.Validate())

	cfg.Tax.ShortTermRate = 0.35
	cfg.Benchmark.Symbol = ""
	assert.Error(t, cfg.Validate())
}

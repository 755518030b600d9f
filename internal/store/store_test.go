package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	return s, path
}

func TestOpen_FreshState(t *testing.T) {
	s, path := tempStore(t)
	assert.Equal(t, []string{DefaultPortfolio}, s.PortfolioNames())
	assert.Empty(t, s.Positions(DefaultPortfolio))

	// Open writes the file immediately.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestAddPosition_NewAndAveragedIn(t *testing.T) {
	s, _ := tempStore(t)
	date := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	pos, err := s.AddPosition(DefaultPortfolio, "AAPL", 10, 100, date)
	require.NoError(t, err)
	assert.Equal(t, model.Position{Shares: 10, AvgCost: 100}, pos)

	// Second buy averages the cost basis.
	pos, err = s.AddPosition(DefaultPortfolio, "AAPL", 10, 200, date.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 20.0, pos.Shares)
	assert.InDelta(t, 150.0, pos.AvgCost, 1e-9)

	// Each buy creates its own lot.
	lots := s.Lots("AAPL")
	require.Len(t, lots, 2)
	assert.Equal(t, 100.0, lots[0].CostPerShare)
	assert.Equal(t, 200.0, lots[1].CostPerShare)
	assert.Equal(t, model.LotOpen, lots[0].Status)
}

func TestAddPosition_RejectsNonPositive(t *testing.T) {
	s, _ := tempStore(t)
	_, err := s.AddPosition(DefaultPortfolio, "AAPL", 0, 100, time.Now())
	assert.Error(t, err)
	_, err = s.AddPosition(DefaultPortfolio, "AAPL", 10, -1, time.Now())
	assert.Error(t, err)
}

func TestRemovePosition_KeepsLotsClosed(t *testing.T) {
	s, _ := tempStore(t)
	date := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.AddPosition(DefaultPortfolio, "AAPL", 10, 100, date)
	require.NoError(t, err)

	require.NoError(t, s.RemovePosition(DefaultPortfolio, "AAPL", 120, date.AddDate(0, 2, 0)))
	assert.Empty(t, s.Positions(DefaultPortfolio))

	lots := s.Lots("AAPL")
	require.Len(t, lots, 1)
	assert.Equal(t, model.LotClosed, lots[0].Status)

	err = s.RemovePosition(DefaultPortfolio, "AAPL", 120, time.Now())
	assert.Error(t, err, "second removal fails")
}

func TestStore_RoundTrip(t *testing.T) {
	s, path := tempStore(t)
	date := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.AddPosition("Trading Account", "btc-usd", 0.5, 40000, date)
	require.NoError(t, err)

	reopened, err := Open(path, zerolog.Nop())
	require.NoError(t, err)

	pos := reopened.Positions("Trading Account")
	require.Contains(t, pos, "btc-usd")
	assert.Equal(t, 0.5, pos["btc-usd"].Shares)
	assert.Equal(t, 40000.0, pos["btc-usd"].AvgCost)
	require.Len(t, reopened.Lots("btc-usd"), 1)
}

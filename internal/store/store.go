// Package store persists portfolio positions and tax lots to a JSON state
// file, guarded for concurrent use.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Brownz73/portfolio-tracker/internal/model"
	"github.com/Brownz73/portfolio-tracker/internal/taxlot"
)

// DefaultPortfolio is the portfolio used when none is named.
const DefaultPortfolio = "Main Portfolio"

// Transaction is one entry in the append-only trade log.
type Transaction struct {
	Date      time.Time `json:"date"`
	Portfolio string    `json:"portfolio"`
	Ticker    string    `json:"ticker"`
	Action    string    `json:"action"` // BUY or SELL
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
}

// State is everything written to the state file. Tax lots are keyed by
// ticker, not portfolio: a lot belongs to the instrument it bought.
type State struct {
	Portfolios   map[string]map[string]model.Position `json:"portfolios"`
	TaxLots      map[string][]model.TaxLot            `json:"tax_lots"`
	Transactions []Transaction                        `json:"transactions,omitempty"`
	UpdatedAt    time.Time                            `json:"updated_at"`
}

// Store handles state file operations with concurrency safety.
type Store struct {
	mu       sync.Mutex
	state    *State
	filePath string
	log      zerolog.Logger
}

// Open loads the state file, initializing a fresh state with the default
// portfolio when the file does not exist.
func Open(filePath string, logger zerolog.Logger) (*Store, error) {
	state, err := loadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if state.Portfolios == nil {
		state.Portfolios = map[string]map[string]model.Position{}
	}
	if len(state.Portfolios) == 0 {
		state.Portfolios[DefaultPortfolio] = map[string]model.Position{}
	}
	if state.TaxLots == nil {
		state.TaxLots = map[string][]model.TaxLot{}
	}

	s := &Store{state: state, filePath: filePath, log: logger}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

func loadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// save writes the state file. Callers must hold s.mu.
func (s *Store) save() error {
	s.state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

// PortfolioNames lists the portfolios in sorted order.
func (s *Store) PortfolioNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.state.Portfolios))
	for name := range s.state.Portfolios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Positions returns a copy of the named portfolio's positions. A portfolio
// that does not exist yields an empty map.
func (s *Store) Positions(portfolio string) map[string]model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.Position, len(s.state.Portfolios[portfolio]))
	for ticker, pos := range s.state.Portfolios[portfolio] {
		out[ticker] = pos
	}
	return out
}

// Lots returns a copy of the ticker's lot history, open and closed.
func (s *Store) Lots(ticker string) []model.TaxLot {
	s.mu.Lock()
	defer s.mu.Unlock()
	lots := s.state.TaxLots[ticker]
	out := make([]model.TaxLot, len(lots))
	copy(out, lots)
	return out
}

// AddPosition records a buy: the position is created or averaged in, a tax
// lot is appended and the trade is logged. The portfolio is created on
// first use.
func (s *Store) AddPosition(portfolio, ticker string, shares, cost float64, purchaseDate time.Time) (model.Position, error) {
	if shares <= 0 || cost <= 0 {
		return model.Position{}, fmt.Errorf("add position %s: shares and cost must be positive", ticker)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Portfolios[portfolio] == nil {
		s.state.Portfolios[portfolio] = map[string]model.Position{}
	}

	pos := s.state.Portfolios[portfolio][ticker]
	if pos.Shares > 0 {
		oldTotal := pos.Shares * pos.AvgCost
		combined := pos.Shares + shares
		pos = model.Position{
			Shares:  combined,
			AvgCost: (oldTotal + shares*cost) / combined,
		}
	} else {
		pos = model.Position{Shares: shares, AvgCost: cost}
	}
	s.state.Portfolios[portfolio][ticker] = pos

	s.state.TaxLots[ticker] = append(s.state.TaxLots[ticker], taxlot.NewLot(ticker, shares, cost, purchaseDate))
	s.state.Transactions = append(s.state.Transactions, Transaction{
		Date:      purchaseDate,
		Portfolio: portfolio,
		Ticker:    ticker,
		Action:    "BUY",
		Shares:    shares,
		Price:     cost,
	})

	if err := s.save(); err != nil {
		return model.Position{}, fmt.Errorf("save state: %w", err)
	}
	s.log.Info().Str("portfolio", portfolio).Str("ticker", ticker).
		Float64("shares", pos.Shares).Float64("avg_cost", pos.AvgCost).
		Msg("position updated")
	return pos, nil
}

// RemovePosition drops the position from the portfolio and marks the
// ticker's open lots closed. Lots are never deleted so the purchase history
// stays auditable.
func (s *Store) RemovePosition(portfolio, ticker string, sellPrice float64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.state.Portfolios[portfolio][ticker]
	if !ok {
		return fmt.Errorf("remove position: %s not in %s", ticker, portfolio)
	}
	delete(s.state.Portfolios[portfolio], ticker)

	lots := s.state.TaxLots[ticker]
	for i := range lots {
		if lots[i].Status == model.LotOpen {
			lots[i].Status = model.LotClosed
		}
	}

	s.state.Transactions = append(s.state.Transactions, Transaction{
		Date:      now,
		Portfolio: portfolio,
		Ticker:    ticker,
		Action:    "SELL",
		Shares:    pos.Shares,
		Price:     sellPrice,
	})

	if err := s.save(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.log.Info().Str("portfolio", portfolio).Str("ticker", ticker).Msg("position removed")
	return nil
}

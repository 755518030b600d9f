package model

import "time"

// MarketSnapshot is the point-in-time view of one instrument, supplied by the
// data-fetch collaborator. The evaluation core only reads it. Optional fields
// are pointers: nil means the upstream source had no value, and any rule that
// depends on the field is skipped.
type MarketSnapshot struct {
	// Identity
	Ticker    string
	Name      string
	Sector    string
	Industry  string
	IsCrypto  bool
	MarketCap float64

	// Price data
	Price         float64
	PreviousClose float64
	Week52High    float64
	Week52Low     float64

	// Volume
	Volume    float64
	AvgVolume float64

	// Valuation
	PERatio      *float64
	ForwardPE    *float64
	PEGRatio     *float64
	PriceToBook  *float64
	ProfitMargin *float64

	// Dividends
	DividendYield  float64 // percent
	DividendRate   float64
	ExDividendDate *time.Time

	// Analyst data
	TargetLow      *float64
	TargetMean     *float64
	TargetHigh     *float64
	Recommendation string // strong_buy, buy, hold, sell, strong_sell, none
	NumAnalysts    int

	// Risk metrics
	Beta                    *float64
	ShortPercent            *float64 // fraction of float
	HeldPercentInsiders     *float64 // fraction
	HeldPercentInstitutions *float64 // fraction

	// Earnings
	EarningsDate *time.Time

	FetchedAt time.Time
}

// BetaOrDefault returns the instrument beta, defaulting to 1.0 when the
// upstream source has none (2.0 for cryptocurrencies, which trade with roughly
// double equity volatility).
func (m *MarketSnapshot) BetaOrDefault() float64 {
	if m.Beta != nil && *m.Beta != 0 {
		return *m.Beta
	}
	if m.IsCrypto {
		return 2.0
	}
	return 1.0
}

// VolumeRatio returns the latest volume relative to the average volume,
// defaulting to 1 when no average is available.
func (m *MarketSnapshot) VolumeRatio() float64 {
	if m.AvgVolume <= 0 {
		return 1
	}
	return m.Volume / m.AvgVolume
}

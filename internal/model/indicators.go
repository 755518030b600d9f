package model

// IndicatorSnapshot holds every technical indicator computed from a price
// series, the directional readings they produced, and the aggregate technical
// score. Pointer fields are nil when the series is too short for that window.
type IndicatorSnapshot struct {
	// Simple moving averages
	SMA5   float64
	SMA10  float64
	SMA20  float64
	SMA50  *float64
	SMA100 *float64
	SMA200 *float64

	// Exponential moving averages
	EMA9  float64
	EMA12 float64
	EMA21 float64
	EMA26 float64
	EMA50 *float64

	// MACD
	MACDLine      float64
	MACDSignal    float64
	MACDHistogram float64

	// Oscillators
	RSI       float64
	RSIPrev   float64
	StochK    float64
	StochD    float64
	WilliamsR float64
	CCI       float64

	// Bollinger Bands
	BBMiddle float64
	BBUpper  float64
	BBLower  float64
	BBWidth  float64 // percent of midline

	// Volatility
	ATR        float64
	ATRPercent float64

	// Trend strength
	ADX     float64
	PlusDI  float64
	MinusDI float64

	// Volume
	VolumeRatio float64

	// Support / resistance
	Resistance1 float64
	Support1    float64
	Resistance2 float64
	Support2    float64
	Pivot       float64
	R1          float64
	R2          float64
	S1          float64
	S2          float64

	// Momentum (percent change vs N bars back)
	Momentum10 float64
	Momentum20 float64

	// Directional readings and aggregate score
	Signals      []TechSignal
	BullishCount int
	BearishCount int
	Score        float64 // [-100, 100]
}

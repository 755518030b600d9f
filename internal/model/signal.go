package model

// SignalKind classifies the urgency and direction of a position signal.
type SignalKind string

const (
	SignalStrongBuy  SignalKind = "STRONG_BUY"
	SignalBuy        SignalKind = "BUY"
	SignalHold       SignalKind = "HOLD"
	SignalInfo       SignalKind = "INFO"
	SignalWarning    SignalKind = "WARNING"
	SignalSell       SignalKind = "SELL"
	SignalStrongSell SignalKind = "STRONG_SELL"
)

// Signal is one actionable finding about a position. Signals are recomputed on
// every evaluation pass and never persisted as state.
type Signal struct {
	Kind     SignalKind
	Title    string
	Message  string
	Priority int // 1 = most urgent ... 5 = background info
	Category string
}

// Sentiment is the direction a technical indicator reading points in.
type Sentiment string

const (
	Bullish Sentiment = "bullish"
	Bearish Sentiment = "bearish"
	Neutral Sentiment = "neutral"
)

// TechSignal is a single labelled indicator reading.
type TechSignal struct {
	Label     string
	Sentiment Sentiment
}

package model

// Position is a holding inside a named portfolio: share count and average
// cost per share. The evaluation core never mutates it.
type Position struct {
	Shares  float64 `json:"shares"`
	AvgCost float64 `json:"avg_cost"`
}

// Action is the final recommendation for a position.
type Action string

const (
	ActionStrongSell      Action = "STRONG SELL"
	ActionConsiderSelling Action = "CONSIDER SELLING"
	ActionStrongBuy       Action = "STRONG BUY"
	ActionConsiderBuying  Action = "CONSIDER BUYING"
	ActionHold            Action = "HOLD"
)

// PositionAnalysis is the full evaluation result for one position: derived
// gain figures, the priority-sorted signal list, the buy/sell/risk scores and
// the action recommendation.
type PositionAnalysis struct {
	Ticker       string
	CurrentPrice float64
	Shares       float64
	AvgCost      float64

	GainLossPct     float64
	GainLossDollars float64
	TotalValue      float64
	CostBasis       float64

	// Placement within the 52-week range
	PctInRange  float64 // 0..100
	PctFromHigh float64
	PctFromLow  float64

	Signals   []Signal
	Action    Action
	BuyScore  float64
	SellScore float64
	RiskScore float64 // [0, 100]

	IsCrypto bool

	// Inputs carried along for aggregation and rendering.
	Snapshot   *MarketSnapshot
	Indicators *IndicatorSnapshot
}

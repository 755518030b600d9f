package model

import "time"

// LotStatus marks whether a lot's shares are still held. Lots are never
// removed from the ledger; closing a position only flips the status, so the
// full purchase history stays available for audit.
type LotStatus string

const (
	LotOpen   LotStatus = "open"
	LotClosed LotStatus = "closed"
)

// TaxLot is one discrete purchase, tracked independently for tax purposes.
// Immutable after creation apart from Status.
type TaxLot struct {
	ID           string    `json:"id"`
	Shares       float64   `json:"shares"`
	CostPerShare float64   `json:"cost_per_share"`
	PurchaseDate time.Time `json:"purchase_date"`
	Status       LotStatus `json:"status"`
}

// HarvestCandidate is a lot currently underwater, annotated for tax-loss
// harvesting decisions.
type HarvestCandidate struct {
	LotID        string
	Shares       float64
	Loss         float64 // positive dollar amount
	IsLongTerm   bool
	PurchaseDate time.Time
	DaysHeld     int
	// RepurchaseAfter is the first date a repurchase no longer voids the loss
	// deduction under the wash-sale rule.
	RepurchaseAfter time.Time
}

// LotAnalysis classifies every lot of a ticker at the current price, as if
// sold today. Gains and losses are tracked in separate buckets per term and
// never netted against each other.
type LotAnalysis struct {
	LongTermGains   float64
	ShortTermGains  float64
	LongTermLosses  float64
	ShortTermLosses float64

	TaxLiability        float64
	PotentialTaxSavings float64

	HarvestableLosses []HarvestCandidate
	TotalLots         int
}

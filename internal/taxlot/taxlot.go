// Package taxlot classifies purchase lots at a current price into realized
// and unrealized gain/loss buckets and surfaces tax-loss harvesting
// candidates. All classification is a pure function of the lot list, the
// price and an explicit evaluation time.
package taxlot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// Params holds the tax treatment knobs. All are overridable from config.
type Params struct {
	HoldingPeriodDays  int     // days after which a lot becomes long-term
	WashSaleWindowDays int     // repurchase window that voids a harvested loss
	ShortTermRate      float64 // decimal rate, e.g. 0.35
	LongTermRate       float64 // decimal rate, e.g. 0.15
}

// DefaultParams returns US-style defaults.
func DefaultParams() Params {
	return Params{
		HoldingPeriodDays:  365,
		WashSaleWindowDays: 30,
		ShortTermRate:      0.35,
		LongTermRate:       0.15,
	}
}

// NewLot creates a lot with a deterministic ID derived from its identity
// fields, so re-adding the same purchase yields the same lot ID.
func NewLot(ticker string, shares, costPerShare float64, purchaseDate time.Time) model.TaxLot {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%v|%v|%s", ticker, shares, costPerShare, purchaseDate.Format(time.RFC3339)))
	return model.TaxLot{
		ID:           hex.EncodeToString(sum[:])[:8],
		Shares:       shares,
		CostPerShare: costPerShare,
		PurchaseDate: purchaseDate,
		Status:       model.LotOpen,
	}
}

// AnalyzeLots values every lot as if sold at currentPrice now. Gains and
// losses accumulate in separate per-term buckets and are never netted against
// each other; liability is taxed gains only, savings is the deduction the
// loss buckets would yield if harvested. Closed lots still count toward the
// buckets (the ledger is an audit trail) but are not harvest candidates. An
// empty lot list yields a zeroed analysis, not an error.
func AnalyzeLots(lots []model.TaxLot, currentPrice float64, p Params, now time.Time) *model.LotAnalysis {
	out := &model.LotAnalysis{TotalLots: len(lots)}
	if len(lots) == 0 {
		return out
	}

	price := decimal.NewFromFloat(currentPrice)
	longTermBefore := now.AddDate(0, 0, -p.HoldingPeriodDays)

	var ltGains, stGains, ltLosses, stLosses decimal.Decimal

	for _, lot := range lots {
		shares := decimal.NewFromFloat(lot.Shares)
		gain := price.Sub(decimal.NewFromFloat(lot.CostPerShare)).Mul(shares)
		longTerm := lot.PurchaseDate.Before(longTermBefore)

		if gain.Sign() >= 0 {
			if longTerm {
				ltGains = ltGains.Add(gain)
			} else {
				stGains = stGains.Add(gain)
			}
			continue
		}

		loss := gain.Abs()
		if longTerm {
			ltLosses = ltLosses.Add(loss)
		} else {
			stLosses = stLosses.Add(loss)
		}

		if lot.Status == model.LotClosed {
			continue
		}
		out.HarvestableLosses = append(out.HarvestableLosses, model.HarvestCandidate{
			LotID:           lot.ID,
			Shares:          lot.Shares,
			Loss:            loss.InexactFloat64(),
			IsLongTerm:      longTerm,
			PurchaseDate:    lot.PurchaseDate,
			DaysHeld:        int(now.Sub(lot.PurchaseDate).Hours() / 24),
			RepurchaseAfter: now.AddDate(0, 0, p.WashSaleWindowDays),
		})
	}

	stRate := decimal.NewFromFloat(p.ShortTermRate)
	ltRate := decimal.NewFromFloat(p.LongTermRate)

	out.LongTermGains = ltGains.InexactFloat64()
	out.ShortTermGains = stGains.InexactFloat64()
	out.LongTermLosses = ltLosses.InexactFloat64()
	out.ShortTermLosses = stLosses.InexactFloat64()
	out.TaxLiability = stGains.Mul(stRate).Add(ltGains.Mul(ltRate)).InexactFloat64()
	out.PotentialTaxSavings = stLosses.Mul(stRate).Add(ltLosses.Mul(ltRate)).InexactFloat64()

	sort.SliceStable(out.HarvestableLosses, func(i, j int) bool {
		return out.HarvestableLosses[i].Loss > out.HarvestableLosses[j].Loss
	})
	return out
}

// Package portfolio rolls per-position analyses up into portfolio-wide
// value, allocation, concentration and diversification metrics.
package portfolio

import "github.com/Brownz73/portfolio-tracker/internal/model"

// Aggregate computes portfolio metrics from every position analysis in a
// pass. Tickers whose analysis is nil (failed data fetch) are skipped. An
// empty input yields a zeroed result, not an error.
func Aggregate(analyses map[string]*model.PositionAnalysis) *model.PortfolioMetrics {
	m := &model.PortfolioMetrics{
		SectorAllocation: map[string]float64{},
		AssetAllocation:  map[string]float64{},
		PositionWeights:  map[string]float64{},
	}

	sectorValues := map[string]float64{}
	assetValues := map[string]float64{}

	for _, a := range analyses {
		if a == nil {
			continue
		}
		m.NumPositions++
		m.TotalValue += a.TotalValue
		m.TotalCost += a.CostBasis
		m.TotalGain += a.GainLossDollars

		sector := "Unknown"
		if a.Snapshot != nil && a.Snapshot.Sector != "" {
			sector = a.Snapshot.Sector
		}
		sectorValues[sector] += a.TotalValue

		asset := "stock"
		if a.IsCrypto {
			asset = "crypto"
		}
		assetValues[asset] += a.TotalValue

		if a.Snapshot != nil {
			m.AnnualDividends += a.TotalValue * (a.Snapshot.DividendYield / 100)
		}
	}

	if m.TotalValue > 0 {
		for ticker, a := range analyses {
			if a == nil {
				continue
			}
			weight := a.TotalValue / m.TotalValue
			m.PositionWeights[ticker] = weight * 100

			beta := 1.0
			if a.Snapshot != nil {
				beta = a.Snapshot.BetaOrDefault()
			}
			m.PortfolioBeta += weight * beta
		}
		for sector, v := range sectorValues {
			m.SectorAllocation[sector] = v / m.TotalValue * 100
		}
		for asset, v := range assetValues {
			m.AssetAllocation[asset] = v / m.TotalValue * 100
		}
		m.DividendYield = m.AnnualDividends / m.TotalValue * 100
	}

	if m.TotalCost > 0 {
		m.TotalReturnPct = (m.TotalValue - m.TotalCost) / m.TotalCost * 100
	}

	for _, w := range m.PositionWeights {
		if w > m.ConcentrationRisk {
			m.ConcentrationRisk = w
		}
	}

	m.NumSectors = len(m.SectorAllocation)
	m.DiversificationScore = diversificationScore(m.NumPositions, m.NumSectors, m.ConcentrationRisk)
	return m
}

// diversificationScore steps a base score by breadth and penalizes
// concentration, clamped to [0, 100].
func diversificationScore(positions, sectors int, maxWeight float64) float64 {
	var score float64
	switch {
	case positions >= 15 && sectors >= 8:
		score = 90
	case positions >= 10 && sectors >= 5:
		score = 70
	case positions >= 5 && sectors >= 3:
		score = 50
	default:
		score = 30
	}

	if maxWeight > 40 {
		score -= 30
	} else if maxWeight > 25 {
		score -= 15
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package model

// PortfolioMetrics aggregates every PositionAnalysis in a portfolio into
// value, allocation, concentration and diversification figures.
type PortfolioMetrics struct {
	TotalValue     float64
	TotalCost      float64
	TotalGain      float64
	TotalReturnPct float64

	AnnualDividends float64
	DividendYield   float64 // percent of total value

	SectorAllocation map[string]float64 // sector -> percent of total value
	AssetAllocation  map[string]float64 // "stock"/"crypto" -> percent
	PositionWeights  map[string]float64 // ticker -> percent of total value

	PortfolioBeta float64

	NumPositions int
	NumSectors   int

	ConcentrationRisk    float64 // largest position weight, percent
	DiversificationScore float64 // [0, 100]
}

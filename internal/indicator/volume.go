package indicator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// CalculateVolumeRatio returns the latest volume relative to the trailing
// period average. A zero average resolves to the neutral ratio 1.
func CalculateVolumeRatio(bars []model.Bar, period int) float64 {
	n := len(bars)
	if n == 0 || n < period {
		return 1
	}
	var sum float64
	for _, b := range bars[n-period:] {
		sum += b.Volume
	}
	avg := sum / float64(period)
	if avg <= 0 {
		return 1
	}
	return bars[n-1].Volume / avg
}

// CalculateOBVTrend compares the latest on-balance volume against its
// trailing period average: +1 when OBV sits above the average, -1 otherwise.
func CalculateOBVTrend(bars []model.Bar, period int) int {
	n := len(bars)
	if n < period {
		return -1
	}
	obv := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv[i] = obv[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			obv[i] = obv[i-1] - bars[i].Volume
		default:
			obv[i] = obv[i-1]
		}
	}
	avg := stat.Mean(obv[n-period:], nil)
	if obv[n-1] > avg {
		return 1
	}
	return -1
}

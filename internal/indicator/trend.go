package indicator

import (
	"math"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// adxNeutral is the fallback when the ADX calculation degenerates (too little
// history, zero true-range, or +DI and -DI both zero).
const adxNeutral = 25.0

// CalculateADX computes ADX with +DI/-DI from the directional movement
// series: upward high deltas and downward low deltas, each clipped at zero,
// summed over the period against the summed true range. DX values are
// averaged over a second period window to produce ADX.
func CalculateADX(bars []model.Bar, period int) (adx, plusDI, minusDI float64) {
	adx = adxNeutral
	n := len(bars)
	if n < period+1 {
		return adx, 0, 0
	}

	// Per-bar directional movement, aligned with the true-range series
	// (both start at the second bar).
	tr := trueRanges(bars)
	plusDM := make([]float64, n-1)
	minusDM := make([]float64, n-1)
	for i := 1; i < n; i++ {
		if d := bars[i].High - bars[i-1].High; d > 0 {
			plusDM[i-1] = d
		}
		if d := bars[i-1].Low - bars[i].Low; d > 0 {
			minusDM[i-1] = d
		}
	}

	diAt := func(end int) (pdi, mdi float64, ok bool) {
		// end indexes the diff series; window is the trailing period sums.
		if end < period-1 {
			return 0, 0, false
		}
		var trSum, pSum, mSum float64
		for j := end - period + 1; j <= end; j++ {
			trSum += tr[j]
			pSum += plusDM[j]
			mSum += minusDM[j]
		}
		if trSum == 0 {
			return 0, 0, false
		}
		return 100 * pSum / trSum, 100 * mSum / trSum, true
	}

	last := n - 2 // final index of the diff series
	plusDI, minusDI, _ = diAt(last)

	// ADX needs a full window of defined DX values ending at the last bar.
	if last < 2*period-2 {
		return adx, plusDI, minusDI
	}
	var dxSum float64
	for end := last - period + 1; end <= last; end++ {
		pdi, mdi, ok := diAt(end)
		if !ok || pdi+mdi == 0 {
			return adxNeutral, plusDI, minusDI
		}
		dxSum += 100 * math.Abs(pdi-mdi) / (pdi + mdi)
	}
	return dxSum / float64(period), plusDI, minusDI
}

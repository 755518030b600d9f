package indicator

import (
	"math"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// CalculateBollinger computes the 2-sigma Bollinger Bands around the
// period SMA of closes, plus the band width as a percent of the midline.
func CalculateBollinger(closes []float64, period int) (middle, upper, lower, width float64, ok bool) {
	middle, ok = CalculateSMA(closes, period)
	if !ok {
		return 0, 0, 0, 0, false
	}
	std, ok := rollingStd(closes, period)
	if !ok {
		return 0, 0, 0, 0, false
	}
	upper = middle + 2*std
	lower = middle - 2*std
	if middle != 0 {
		width = (upper - lower) / middle * 100
	}
	return middle, upper, lower, width, true
}

// trueRanges computes the true range series: max of high-low,
// |high-prevClose|, |low-prevClose|. The first bar has no previous close, so
// the series starts at the second bar.
func trueRanges(bars []model.Bar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	tr := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		r := bars[i].High - bars[i].Low
		if v := math.Abs(bars[i].High - prevClose); v > r {
			r = v
		}
		if v := math.Abs(bars[i].Low - prevClose); v > r {
			r = v
		}
		tr[i-1] = r
	}
	return tr
}

// CalculateATR computes the average true range as a plain mean of the
// trailing period true ranges.
func CalculateATR(bars []model.Bar, period int) (float64, bool) {
	tr := trueRanges(bars)
	return CalculateSMA(tr, period)
}

package indicator

import "github.com/Brownz73/portfolio-tracker/internal/model"

// levels holds trailing high/low extremes and the classic floor-trader pivot
// points from the latest bar.
type levels struct {
	resistance1 float64 // 20-bar high
	support1    float64 // 20-bar low
	resistance2 float64 // 50-bar high, falls back to the 20-bar value
	support2    float64 // 50-bar low, falls back to the 20-bar value
	pivot       float64
	r1, r2      float64
	s1, s2      float64
}

// calculateLevels derives support/resistance extremes and pivot points.
// Requires at least 20 bars.
func calculateLevels(bars []model.Bar) levels {
	n := len(bars)
	var lv levels
	lv.resistance1, lv.support1 = rangeExtremes(bars[n-20:])
	lv.resistance2, lv.support2 = lv.resistance1, lv.support1
	if n >= 50 {
		lv.resistance2, lv.support2 = rangeExtremes(bars[n-50:])
	}

	last := bars[n-1]
	lv.pivot = (last.High + last.Low + last.Close) / 3
	lv.r1 = 2*lv.pivot - last.Low
	lv.s1 = 2*lv.pivot - last.High
	lv.r2 = lv.pivot + (last.High - last.Low)
	lv.s2 = lv.pivot - (last.High - last.Low)
	return lv
}

package indicator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// CalculateRSI computes the RSI over the trailing period using a simple
// rolling mean of gains and losses, not Wilder's smoothed average.
//
// Degenerate inputs resolve to fixed values instead of failing: a flat window
// (no gains, no losses) yields 50, and a window with gains but no losses
// yields 100.
func CalculateRSI(closes []float64, period int) (float64, bool) {
	return rsiAt(closes, period, len(closes)-1)
}

// rsiAt computes the RSI value the rolling series would have at bar index end.
// The window covers the period price changes ending at that bar, so end must
// be at least period.
func rsiAt(closes []float64, period int, end int) (float64, bool) {
	if period <= 0 || end < period || end >= len(closes) {
		return 0, false
	}
	var avgGain, avgLoss float64
	for i := end - period + 1; i <= end; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50, true
		}
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// stochasticKAt computes %K at bar index end from the period high/low range.
// A zero range resolves to the scale midpoint 50.
func stochasticKAt(bars []model.Bar, period int, end int) (float64, bool) {
	if period <= 0 || end < period-1 || end >= len(bars) {
		return 0, false
	}
	hh, ll := rangeExtremes(bars[end-period+1 : end+1])
	if hh == ll {
		return 50, true
	}
	return (bars[end].Close - ll) / (hh - ll) * 100, true
}

// CalculateStochastic computes %K from the trailing period range and %D as
// the smooth-period average of %K.
func CalculateStochastic(bars []model.Bar, period, smooth int) (k, d float64, ok bool) {
	n := len(bars)
	if n < period+smooth-1 {
		return 0, 0, false
	}
	sum := 0.0
	for i := 0; i < smooth; i++ {
		ki, kok := stochasticKAt(bars, period, n-1-i)
		if !kok {
			return 0, 0, false
		}
		if i == 0 {
			k = ki
		}
		sum += ki
	}
	return k, sum / float64(smooth), true
}

// CalculateWilliamsR computes Williams %R over the trailing period. A zero
// range resolves to the scale midpoint -50.
func CalculateWilliamsR(bars []model.Bar, period int) (float64, bool) {
	n := len(bars)
	if period <= 0 || n < period {
		return 0, false
	}
	hh, ll := rangeExtremes(bars[n-period:])
	if hh == ll {
		return -50, true
	}
	return -100 * (hh - bars[n-1].Close) / (hh - ll), true
}

// CalculateCCI computes the Commodity Channel Index over the trailing period
// with the standard 0.015 constant. A zero-deviation window resolves to 0.
func CalculateCCI(bars []model.Bar, period int) (float64, bool) {
	n := len(bars)
	if period <= 1 || n < period {
		return 0, false
	}
	tp := make([]float64, period)
	for i := 0; i < period; i++ {
		b := bars[n-period+i]
		tp[i] = (b.High + b.Low + b.Close) / 3
	}
	mean := stat.Mean(tp, nil)
	std := stat.StdDev(tp, nil)
	if std == 0 {
		return 0, true
	}
	return (tp[period-1] - mean) / (0.015 * std), true
}

func rangeExtremes(bars []model.Bar) (high, low float64) {
	high = bars[0].High
	low = bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}

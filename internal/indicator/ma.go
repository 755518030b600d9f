package indicator

import "gonum.org/v1/gonum/stat"

// CalculateSMA computes the arithmetic mean of the trailing period values.
// The second return is false when the series is shorter than the window.
func CalculateSMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	return stat.Mean(values[len(values)-period:], nil), true
}

// CalculateEMA computes the exponential moving average over the full series
// using smoothing factor 2/(span+1), seeded by the first value with no bias
// correction.
func CalculateEMA(values []float64, span int) float64 {
	if len(values) == 0 {
		return 0
	}
	alpha := 2.0 / (float64(span) + 1.0)
	ema := values[0]
	for _, v := range values[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

// smaPtr is CalculateSMA with a nullable result for windows the series may be
// too short for.
func smaPtr(values []float64, period int) *float64 {
	v, ok := CalculateSMA(values, period)
	if !ok {
		return nil
	}
	return &v
}

// rollingStd computes the sample standard deviation of the trailing period
// values.
func rollingStd(values []float64, period int) (float64, bool) {
	if period <= 1 || len(values) < period {
		return 0, false
	}
	return stat.StdDev(values[len(values)-period:], nil), true
}

package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

func seriesFromCloses(closes []float64) *model.PriceSeries {
	bars := make([]model.Bar, len(closes))
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c * 0.999,
			High:   c * 1.005,
			Low:    c * 0.995,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return &model.PriceSeries{Ticker: "TEST", Bars: bars}
}

func flatSeries(value float64, count int) *model.PriceSeries {
	bars := make([]model.Bar, count)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.Bar{
			Date: start.AddDate(0, 0, i), Open: value, High: value,
			Low: value, Close: value, Volume: 1_000_000,
		}
	}
	return &model.PriceSeries{Ticker: "FLAT", Bars: bars}
}

func risingCloses(start float64, count int) []float64 {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return closes
}

func TestCompute_InsufficientHistory(t *testing.T) {
	for _, n := range []int{0, 1, 10, 19} {
		snap := Compute(seriesFromCloses(risingCloses(100, n)), 120)
		assert.Empty(t, snap.Signals, "len=%d", n)
		assert.Zero(t, snap.Score, "len=%d", n)
	}
}

func TestCompute_SMAMatchesDirectMean(t *testing.T) {
	closes := []float64{
		101.2, 99.8, 103.4, 102.1, 98.7, 104.5, 105.2, 103.9, 106.1, 107.3,
		105.8, 108.2, 109.6, 107.7, 110.4, 111.2, 109.9, 112.5, 113.1, 114.8,
		112.9, 115.3, 116.0, 114.2, 117.6,
	}
	snap := Compute(seriesFromCloses(closes), closes[len(closes)-1])

	for _, tc := range []struct {
		period int
		got    float64
	}{
		{5, snap.SMA5},
		{10, snap.SMA10},
		{20, snap.SMA20},
	} {
		sum := 0.0
		for _, c := range closes[len(closes)-tc.period:] {
			sum += c
		}
		assert.InDelta(t, sum/float64(tc.period), tc.got, 1e-9, "SMA%d", tc.period)
	}

	// Too short for the long windows.
	assert.Nil(t, snap.SMA50)
	assert.Nil(t, snap.SMA100)
	assert.Nil(t, snap.SMA200)
}

func TestCalculateEMA_SeededByFirstValue(t *testing.T) {
	closes := []float64{10, 11, 12}
	// span 9 -> alpha 0.2; seed 10, then 0.2*11+0.8*10=10.2, 0.2*12+0.8*10.2=10.56
	assert.InDelta(t, 10.56, CalculateEMA(closes, 9), 1e-9)
}

func TestCalculateRSI_Bounds(t *testing.T) {
	closes := []float64{
		100, 102, 99, 104, 101, 105, 103, 107, 102, 108,
		106, 110, 104, 111, 109, 113, 108, 114, 112, 116,
	}
	rsi, ok := CalculateRSI(closes, 14)
	require.True(t, ok)
	assert.GreaterOrEqual(t, rsi, 0.0)
	assert.LessOrEqual(t, rsi, 100.0)
}

func TestCalculateRSI_DegenerateInputs(t *testing.T) {
	// No losses in the window resolves to 100, not a division failure.
	rsi, ok := CalculateRSI(risingCloses(100, 20), 14)
	require.True(t, ok)
	assert.Equal(t, 100.0, rsi)

	// Flat window (no gains, no losses) resolves to the neutral midpoint.
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	rsi, ok = CalculateRSI(flat, 14)
	require.True(t, ok)
	assert.Equal(t, 50.0, rsi)
}

func TestCompute_FlatSeries(t *testing.T) {
	snap := Compute(flatSeries(100, 20), 100)

	assert.Equal(t, 100.0, snap.SMA20)
	assert.Equal(t, 50.0, snap.RSI)
	assert.Zero(t, snap.BBWidth)

	var squeeze bool
	for _, s := range snap.Signals {
		if s.Label == "BB Squeeze" {
			squeeze = true
		}
	}
	assert.True(t, squeeze, "flat series must flag a BB squeeze")
}

func TestCompute_ScoreBoundsAndNeutrality(t *testing.T) {
	snap := Compute(seriesFromCloses(risingCloses(100, 250)), 360)
	assert.GreaterOrEqual(t, snap.Score, -100.0)
	assert.LessOrEqual(t, snap.Score, 100.0)

	// The score is exactly the normalized net of directional readings;
	// neutral readings stay out of the denominator.
	var bull, bear int
	for _, s := range snap.Signals {
		switch s.Sentiment {
		case model.Bullish:
			bull++
		case model.Bearish:
			bear++
		}
	}
	require.Positive(t, bull+bear)
	assert.InDelta(t, float64(bull-bear)/float64(bull+bear)*100, snap.Score, 1e-9)
}

func TestCompute_RisingSeriesCrossAndMAs(t *testing.T) {
	snap := Compute(seriesFromCloses(risingCloses(100, 250)), 360)

	require.NotNil(t, snap.SMA50)
	require.NotNil(t, snap.SMA200)
	assert.Greater(t, *snap.SMA50, *snap.SMA200)

	labels := make(map[string]model.Sentiment, len(snap.Signals))
	for _, s := range snap.Signals {
		labels[s.Label] = s.Sentiment
	}
	assert.Equal(t, model.Bullish, labels["Golden Cross"])
	assert.Equal(t, model.Bullish, labels["Above SMA20"])
	assert.Equal(t, model.Bullish, labels["Above SMA200"])
}

func TestCalculateStochastic_Bands(t *testing.T) {
	// Close pinned to the top of the range -> %K near 100.
	closes := risingCloses(100, 30)
	k, d, ok := CalculateStochastic(seriesFromCloses(closes).Bars, 14, 3)
	require.True(t, ok)
	assert.Greater(t, k, 80.0)
	assert.Greater(t, d, 80.0)
}

func TestCalculateADX_DegenerateFallback(t *testing.T) {
	adx, plusDI, minusDI := CalculateADX(flatSeries(100, 40).Bars, 14)
	assert.Equal(t, adxNeutral, adx)
	assert.Zero(t, plusDI)
	assert.Zero(t, minusDI)
}

func TestCalculateVolumeRatio_ZeroAverage(t *testing.T) {
	bars := flatSeries(100, 25).Bars
	for i := range bars {
		bars[i].Volume = 0
	}
	assert.Equal(t, 1.0, CalculateVolumeRatio(bars, 20))
}

func TestCalculateLevels_PivotPoints(t *testing.T) {
	s := flatSeries(100, 25)
	last := &s.Bars[len(s.Bars)-1]
	last.High, last.Low, last.Close = 110, 90, 100

	lv := calculateLevels(s.Bars)
	assert.InDelta(t, 100.0, lv.pivot, 1e-9)
	assert.InDelta(t, 110.0, lv.r1, 1e-9) // 2*pivot - low
	assert.InDelta(t, 90.0, lv.s1, 1e-9)  // 2*pivot - high
	assert.InDelta(t, 120.0, lv.r2, 1e-9)
	assert.InDelta(t, 80.0, lv.s2, 1e-9)
}

// Package indicator derives technical indicators and directional readings
// from a daily price series. Every function is pure: the same series always
// produces the same snapshot.
package indicator

import "github.com/Brownz73/portfolio-tracker/internal/model"

// MinBars is the hard floor for indicator computation. Below it the engine
// returns a neutral snapshot: no readings, score 0.
const MinBars = 20

// Compute builds the full indicator snapshot for a series. currentPrice is
// the live quote, which may differ from the last bar's close.
func Compute(series *model.PriceSeries, currentPrice float64) *model.IndicatorSnapshot {
	if series.Len() < MinBars {
		// RSI defaults to the neutral midpoint so score rules downstream
		// stay quiet.
		return &model.IndicatorSnapshot{RSI: 50}
	}

	bars := series.Bars
	closes := series.Closes()
	n := len(closes)
	snap := &model.IndicatorSnapshot{}

	// Moving averages. The 5/10/20 windows are always available at MinBars.
	snap.SMA5, _ = CalculateSMA(closes, 5)
	snap.SMA10, _ = CalculateSMA(closes, 10)
	snap.SMA20, _ = CalculateSMA(closes, 20)
	snap.SMA50 = smaPtr(closes, 50)
	snap.SMA100 = smaPtr(closes, 100)
	snap.SMA200 = smaPtr(closes, 200)

	snap.EMA9 = CalculateEMA(closes, 9)
	snap.EMA12 = CalculateEMA(closes, 12)
	snap.EMA21 = CalculateEMA(closes, 21)
	snap.EMA26 = CalculateEMA(closes, 26)
	if n >= 50 {
		v := CalculateEMA(closes, 50)
		snap.EMA50 = &v
	}

	if currentPrice > snap.SMA20 {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "Above SMA20", Sentiment: model.Bullish})
	} else {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "Below SMA20", Sentiment: model.Bearish})
	}
	if snap.SMA50 != nil {
		if currentPrice > *snap.SMA50 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Above SMA50", Sentiment: model.Bullish})
		} else {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Below SMA50", Sentiment: model.Bearish})
		}
	}
	if snap.SMA200 != nil {
		if currentPrice > *snap.SMA200 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Above SMA200", Sentiment: model.Bullish})
		} else {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Below SMA200", Sentiment: model.Bearish})
		}
	}
	if snap.SMA50 != nil && snap.SMA200 != nil {
		if *snap.SMA50 > *snap.SMA200 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Golden Cross", Sentiment: model.Bullish})
		} else {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Death Cross", Sentiment: model.Bearish})
		}
	}

	// MACD. The signal value is a 9-period EMA of the closing price itself,
	// not of the MACD line.
	snap.MACDLine = snap.EMA12 - snap.EMA26
	snap.MACDSignal = snap.EMA9
	snap.MACDHistogram = snap.MACDLine - snap.MACDSignal
	if snap.MACDHistogram > 0 {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "MACD Bullish", Sentiment: model.Bullish})
	} else {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "MACD Bearish", Sentiment: model.Bearish})
	}
	if snap.MACDLine > 0 {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "MACD Above Zero", Sentiment: model.Bullish})
	} else {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "MACD Below Zero", Sentiment: model.Bearish})
	}

	// RSI
	snap.RSI, _ = CalculateRSI(closes, 14)
	snap.RSIPrev = snap.RSI
	if prev, ok := rsiAt(closes, 14, n-2); ok {
		snap.RSIPrev = prev
	}
	switch {
	case snap.RSI > 80:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "RSI Extremely Overbought", Sentiment: model.Bearish})
	case snap.RSI > 70:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "RSI Overbought", Sentiment: model.Bearish})
	case snap.RSI < 20:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "RSI Extremely Oversold", Sentiment: model.Bullish})
	case snap.RSI < 30:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "RSI Oversold", Sentiment: model.Bullish})
	default:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "RSI Neutral", Sentiment: model.Neutral})
	}

	// RSI divergence: price direction vs RSI direction over the trailing 14
	// bars. Needs a defined RSI value 13 bars back.
	if rsiBack, ok := rsiAt(closes, 14, n-14); ok {
		priceHigher := closes[n-1] > closes[n-14]
		rsiHigher := snap.RSI > rsiBack
		if priceHigher && !rsiHigher {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Bearish RSI Divergence", Sentiment: model.Bearish})
		} else if !priceHigher && rsiHigher {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Bullish RSI Divergence", Sentiment: model.Bullish})
		}
	}

	// Stochastic
	if k, d, ok := CalculateStochastic(bars, 14, 3); ok {
		snap.StochK, snap.StochD = k, d
		if k > 80 && d > 80 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Stochastic Overbought", Sentiment: model.Bearish})
		} else if k < 20 && d < 20 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Stochastic Oversold", Sentiment: model.Bullish})
		}
		if k > d {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Stoch K > D", Sentiment: model.Bullish})
		} else {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Stoch K < D", Sentiment: model.Bearish})
		}
	}

	// Bollinger Bands
	if mid, upper, lower, width, ok := CalculateBollinger(closes, 20); ok {
		snap.BBMiddle, snap.BBUpper, snap.BBLower, snap.BBWidth = mid, upper, lower, width
		switch {
		case currentPrice > upper:
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Above Upper BB", Sentiment: model.Bearish})
		case currentPrice < lower:
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Below Lower BB", Sentiment: model.Bullish})
		case upper > lower:
			pos := (currentPrice - lower) / (upper - lower)
			if pos > 0.8 {
				snap.Signals = append(snap.Signals, model.TechSignal{Label: "Near Upper BB", Sentiment: model.Bearish})
			} else if pos < 0.2 {
				snap.Signals = append(snap.Signals, model.TechSignal{Label: "Near Lower BB", Sentiment: model.Bullish})
			}
		}
		if width < 5 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "BB Squeeze", Sentiment: model.Neutral})
		}
	}

	// ATR
	if atr, ok := CalculateATR(bars, 14); ok {
		snap.ATR = atr
		if currentPrice > 0 {
			snap.ATRPercent = atr / currentPrice * 100
		}
	}

	// ADX
	snap.ADX, snap.PlusDI, snap.MinusDI = CalculateADX(bars, 14)
	if snap.ADX > 40 {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "Strong Trend", Sentiment: model.Neutral})
	} else if snap.ADX < 20 {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "Weak Trend", Sentiment: model.Neutral})
	}

	// Volume
	snap.VolumeRatio = CalculateVolumeRatio(bars, 20)
	switch {
	case snap.VolumeRatio > 3:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "Extreme Volume", Sentiment: model.Neutral})
	case snap.VolumeRatio > 2:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "High Volume", Sentiment: model.Neutral})
	case snap.VolumeRatio < 0.5:
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "Low Volume", Sentiment: model.Neutral})
	}
	if CalculateOBVTrend(bars, 20) > 0 {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "OBV Bullish", Sentiment: model.Bullish})
	} else {
		snap.Signals = append(snap.Signals, model.TechSignal{Label: "OBV Bearish", Sentiment: model.Bearish})
	}

	// Support / resistance
	lv := calculateLevels(bars)
	snap.Resistance1, snap.Support1 = lv.resistance1, lv.support1
	snap.Resistance2, snap.Support2 = lv.resistance2, lv.support2
	snap.Pivot = lv.pivot
	snap.R1, snap.R2, snap.S1, snap.S2 = lv.r1, lv.r2, lv.s1, lv.s2

	// Momentum
	if n >= 10 && closes[n-10] != 0 {
		snap.Momentum10 = (currentPrice/closes[n-10] - 1) * 100
	}
	if n >= 20 && closes[n-20] != 0 {
		snap.Momentum20 = (currentPrice/closes[n-20] - 1) * 100
	}

	// Williams %R
	if wr, ok := CalculateWilliamsR(bars, 14); ok {
		snap.WilliamsR = wr
		if wr > -20 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Williams %R Overbought", Sentiment: model.Bearish})
		} else if wr < -80 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "Williams %R Oversold", Sentiment: model.Bullish})
		}
	}

	// CCI
	if cci, ok := CalculateCCI(bars, 20); ok {
		snap.CCI = cci
		if cci > 100 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "CCI Overbought", Sentiment: model.Bearish})
		} else if cci < -100 {
			snap.Signals = append(snap.Signals, model.TechSignal{Label: "CCI Oversold", Sentiment: model.Bullish})
		}
	}

	// Aggregate score: net directional readings over total directional
	// readings. Neutral readings do not count.
	for _, s := range snap.Signals {
		switch s.Sentiment {
		case model.Bullish:
			snap.BullishCount++
		case model.Bearish:
			snap.BearishCount++
		}
	}
	if total := snap.BullishCount + snap.BearishCount; total > 0 {
		snap.Score = float64(snap.BullishCount-snap.BearishCount) / float64(total) * 100
	}

	return snap
}

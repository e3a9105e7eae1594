package indicators

import (
	"math"

	"signalCore/internal/domain"
)

// trueRanges computes the true range for every bar. The first bar falls back
// to its own high-low span because there is no previous close.
func trueRanges(bars []*domain.Bar) []float64 {
	trs := make([]float64, len(bars))
	if len(bars) == 0 {
		return trs
	}
	trs[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		high := bars[i].High
		low := bars[i].Low
		prevClose := bars[i-1].Close

		tr1 := high - low
		tr2 := math.Abs(high - prevClose)
		tr3 := math.Abs(low - prevClose)
		trs[i] = math.Max(tr1, math.Max(tr2, tr3))
	}
	return trs
}

// atrSeries computes a Wilder-smoothed ATR for every index >= period.
// Entries before the seed index are zero.
func atrSeries(bars []*domain.Bar, period int) []float64 {
	out := make([]float64, len(bars))
	if len(bars) < period+1 {
		return out
	}
	trs := trueRanges(bars)

	atr := 0.0
	for i := 0; i < period; i++ {
		atr += trs[i]
	}
	atr /= float64(period)
	out[period-1] = atr

	for i := period; i < len(bars); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
		out[i] = atr
	}
	return out
}

// emaSeriesValues computes an EMA over raw values, seeded with the SMA of the
// first period values. Entries before the seed index are zero.
func emaSeriesValues(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) < period || period <= 0 {
		return out
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out
}

// emaSeries computes a seeded EMA of the close prices.
func emaSeries(bars []*domain.Bar, period int) []float64 {
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Close
	}
	return emaSeriesValues(values, period)
}

// wilderSeries smooths values with Wilder's method (alpha = 1/period),
// seeded with the SMA of the first period values.
func wilderSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) < period || period <= 0 {
		return out
	}
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	avg := sum / float64(period)
	out[period-1] = avg

	for i := period; i < len(values); i++ {
		avg = (avg*float64(period-1) + values[i]) / float64(period)
		out[i] = avg
	}
	return out
}

// rsiSeries computes a Wilder-smoothed RSI for every index > period.
// Entries at or before the seed index are zero.
func rsiSeries(bars []*domain.Bar, period int) []float64 {
	out := make([]float64, len(bars))
	if len(bars) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - change) / float64(period)
		}
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))
	if rsi > 100 {
		rsi = 100
	} else if rsi < 0 {
		rsi = 0
	}
	return rsi
}

// smaAt computes the SMA of the period values ending at index i (inclusive).
func smaAt(values []float64, period, i int) float64 {
	if period <= 0 || i+1 < period {
		return 0
	}
	sum := 0.0
	for j := i - period + 1; j <= i; j++ {
		sum += values[j]
	}
	return sum / float64(period)
}

// stdDevAt computes the population standard deviation of the period values
// ending at index i (inclusive).
func stdDevAt(values []float64, period, i int) float64 {
	if period <= 0 || i+1 < period {
		return 0
	}
	mean := smaAt(values, period, i)
	variance := 0.0
	for j := i - period + 1; j <= i; j++ {
		d := values[j] - mean
		variance += d * d
	}
	variance /= float64(period)
	return math.Sqrt(variance)
}

// closeValues extracts the close prices.
func closeValues(bars []*domain.Bar) []float64 {
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Close
	}
	return values
}

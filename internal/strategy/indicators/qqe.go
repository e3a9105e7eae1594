package indicators

import (
	"context"
	"fmt"
	"math"

	"signalCore/internal/domain"
)

// QQEConfig holds configuration for the QQE momentum oscillator
type QQEConfig struct {
	RSIPeriod  int     // e.g. 14
	Smoothing  int     // EMA smoothing of the RSI, e.g. 5
	FastFactor float64 // multiplier on the smoothed RSI true range, e.g. 4.236
}

// QQE implements the Quantitative Qualitative Estimation oscillator: an
// EMA-smoothed RSI with adaptive bands derived from the smoothed RSI's own
// true range. Direction flips when the smoothed RSI crosses the opposite band.
type QQE struct {
	config QQEConfig
}

// NewQQE creates a new QQE indicator instance
func NewQQE(config QQEConfig) *QQE {
	return &QQE{config: config}
}

// Name returns the name of the indicator
func (q *QQE) Name() string {
	return "qqe"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (q *QQE) RequiredDataPoints() int {
	wilders := q.config.RSIPeriod*2 - 1
	// RSI seed, then EMA smoothing, then two rounds of Wilder smoothing on
	// the band width, plus one bar for the crossing state machine.
	return q.config.RSIPeriod + q.config.Smoothing + 2*wilders + 1
}

// Calculate computes the smoothed RSI value and the band direction for the
// last bar.
func (q *QQE) Calculate(ctx context.Context, bars []*domain.Bar) (float64, domain.TrendDirection, error) {
	if len(bars) < q.RequiredDataPoints() {
		return 0, domain.TrendFlat, fmt.Errorf("not enough data (%d) to calculate QQE (need %d): %w",
			len(bars), q.RequiredDataPoints(), errInsufficientData)
	}

	rsis := rsiSeries(bars, q.config.RSIPeriod)
	// Drop the zeroed seed prefix before smoothing.
	rsis = rsis[q.config.RSIPeriod:]
	smoothed := emaSeriesValues(rsis, q.config.Smoothing)
	smoothStart := q.config.Smoothing - 1

	wilders := q.config.RSIPeriod*2 - 1
	diffs := make([]float64, len(smoothed))
	for i := smoothStart + 1; i < len(smoothed); i++ {
		diffs[i] = math.Abs(smoothed[i] - smoothed[i-1])
	}
	avgDiff := emaSeriesValues(diffs[smoothStart+1:], wilders)
	dar := emaSeriesValues(avgDiff, wilders)

	// Index alignment: dar[k] corresponds to smoothed[smoothStart+1+k].
	offset := smoothStart + 1
	longBand := 0.0
	shortBand := 0.0
	dir := domain.TrendFlat

	for k := 2*wilders - 2; k < len(dar); k++ {
		i := offset + k
		band := dar[k] * q.config.FastFactor
		newLong := smoothed[i] - band
		newShort := smoothed[i] + band

		prevLong := longBand
		prevShort := shortBand

		if smoothed[i-1] > prevLong && smoothed[i] > prevLong {
			longBand = math.Max(prevLong, newLong)
		} else {
			longBand = newLong
		}
		if smoothed[i-1] < prevShort && smoothed[i] < prevShort {
			shortBand = math.Min(prevShort, newShort)
		} else {
			shortBand = newShort
		}

		switch {
		case prevShort != 0 && smoothed[i-1] <= prevShort && smoothed[i] > prevShort:
			dir = domain.TrendUp
		case prevLong != 0 && smoothed[i-1] >= prevLong && smoothed[i] < prevLong:
			dir = domain.TrendDown
		case dir == domain.TrendFlat:
			// Before the first crossing, lean on the oscillator midline.
			if smoothed[i] >= 50 {
				dir = domain.TrendUp
			} else {
				dir = domain.TrendDown
			}
		}
	}

	return smoothed[len(smoothed)-1], dir, nil
}

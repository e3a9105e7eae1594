package indicators

import (
	"context"
	"fmt"
	"math"

	"signalCore/internal/domain"
)

// HalfTrendConfig holds configuration for the HalfTrend indicator
type HalfTrendConfig struct {
	Amplitude int // lookback window for the channel extremes, e.g. 2
}

// HalfTrend implements the HalfTrend trend-following indicator. It holds the
// extreme low (in an up-trend) or high (in a down-trend) of the recent
// amplitude window and flips when the close crosses the held extremum while
// the SMA channel confirms.
type HalfTrend struct {
	config HalfTrendConfig
}

// NewHalfTrend creates a new HalfTrend indicator instance
func NewHalfTrend(config HalfTrendConfig) *HalfTrend {
	return &HalfTrend{config: config}
}

// Name returns the name of the indicator
func (h *HalfTrend) Name() string {
	return "halftrend"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (h *HalfTrend) RequiredDataPoints() int {
	return h.config.Amplitude + 2
}

// Calculate computes the HalfTrend line and direction for the last bar.
func (h *HalfTrend) Calculate(ctx context.Context, bars []*domain.Bar) (float64, domain.TrendDirection, error) {
	amp := h.config.Amplitude
	if len(bars) < h.RequiredDataPoints() {
		return 0, domain.TrendFlat, fmt.Errorf("not enough data (%d) to calculate HalfTrend for amplitude %d: %w",
			len(bars), amp, errInsufficientData)
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}

	// State carried across bars.
	trendUp := true
	maxLow := bars[0].Low
	minHigh := bars[0].High
	line := bars[0].Close

	for i := amp; i < len(bars); i++ {
		highestHigh := maxOver(highs, amp, i)
		lowestLow := minOver(lows, amp, i)
		highMA := smaAt(highs, amp, i)
		lowMA := smaAt(lows, amp, i)

		prevTrendUp := trendUp
		if trendUp {
			maxLow = math.Max(maxLow, lowestLow)
			if highMA < maxLow && bars[i].Close < bars[i-1].Low {
				trendUp = false
				minHigh = highestHigh
			}
		} else {
			minHigh = math.Min(minHigh, highestHigh)
			if lowMA > minHigh && bars[i].Close > bars[i-1].High {
				trendUp = true
				maxLow = lowestLow
			}
		}

		// On a flip the line resets to the held extremum; while trending it
		// only ratchets in the trend's favor.
		switch {
		case trendUp && !prevTrendUp:
			line = maxLow
		case trendUp:
			line = math.Max(line, maxLow)
		case !trendUp && prevTrendUp:
			line = minHigh
		default:
			line = math.Min(line, minHigh)
		}
	}

	dir := domain.TrendDown
	if trendUp {
		dir = domain.TrendUp
	}
	return line, dir, nil
}

func maxOver(values []float64, window, i int) float64 {
	m := values[i]
	for j := i - window + 1; j <= i; j++ {
		if j >= 0 && values[j] > m {
			m = values[j]
		}
	}
	return m
}

func minOver(values []float64, window, i int) float64 {
	m := values[i]
	for j := i - window + 1; j <= i; j++ {
		if j >= 0 && values[j] < m {
			m = values[j]
		}
	}
	return m
}

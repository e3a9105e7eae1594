package indicators

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
)

// RangeLevelsConfig holds configuration for the structural range levels
type RangeLevelsConfig struct {
	Lookback      int     // rolling window for range extremes, e.g. 96
	ZoneATRFactor float64 // zone depth as a multiple of ATR, e.g. 0.5
	ATRPeriod     int     // ATR period for zone scaling, e.g. 14
}

// RangeLevels reports the rolling range structure around the last bar.
type RangeLevels struct {
	RangeHigh    float64
	RangeLow     float64
	Equilibrium  float64
	InDemandZone bool // close inside the ATR-scaled band above the range low
	InSupplyZone bool // close inside the ATR-scaled band below the range high
	ReclaimedEq  bool // close crossed above the equilibrium this bar
}

// Ranges computes rolling structural levels: range high, range low, the
// midpoint equilibrium, and ATR-scaled demand/supply zone membership.
type Ranges struct {
	config RangeLevelsConfig
}

// NewRanges creates a new structural range levels instance
func NewRanges(config RangeLevelsConfig) *Ranges {
	return &Ranges{config: config}
}

// Name returns the name of the indicator
func (r *Ranges) Name() string {
	return "ranges"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (r *Ranges) RequiredDataPoints() int {
	req := r.config.Lookback + 1 // one extra bar for the reclaim check
	if r.config.ATRPeriod+1 > req {
		req = r.config.ATRPeriod + 1
	}
	return req
}

// Calculate computes the range structure for the last bar.
func (r *Ranges) Calculate(ctx context.Context, bars []*domain.Bar) (RangeLevels, error) {
	if len(bars) < r.RequiredDataPoints() {
		return RangeLevels{}, fmt.Errorf("not enough data (%d) to compute range levels (need %d): %w",
			len(bars), r.RequiredDataPoints(), errInsufficientData)
	}

	n := len(bars)
	levels := rangeWindow(bars, r.config.Lookback, n-1)
	prev := rangeWindow(bars, r.config.Lookback, n-2)

	atrs := atrSeries(bars, r.config.ATRPeriod)
	zone := atrs[n-1] * r.config.ZoneATRFactor

	close := bars[n-1].Close
	levels.InDemandZone = close >= levels.RangeLow && close <= levels.RangeLow+zone
	levels.InSupplyZone = close <= levels.RangeHigh && close >= levels.RangeHigh-zone
	levels.ReclaimedEq = bars[n-2].Close < prev.Equilibrium && close > levels.Equilibrium

	return levels, nil
}

// rangeWindow computes the raw range extremes for the window ending at i.
func rangeWindow(bars []*domain.Bar, lookback, i int) RangeLevels {
	high := bars[i].High
	low := bars[i].Low
	for j := i - lookback + 1; j <= i; j++ {
		if j < 0 {
			continue
		}
		if bars[j].High > high {
			high = bars[j].High
		}
		if bars[j].Low < low {
			low = bars[j].Low
		}
	}
	return RangeLevels{
		RangeHigh:   high,
		RangeLow:    low,
		Equilibrium: (high + low) / 2,
	}
}

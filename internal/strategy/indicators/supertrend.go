package indicators

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
)

// SupertrendConfig holds configuration for the Supertrend indicator
type SupertrendConfig struct {
	IndicatorConfig
	Multiplier float64 // ATR band multiplier, e.g. 3.0
}

// Supertrend implements the Supertrend trend-following indicator.
// It tracks running upper/lower ATR bands around the bar midpoint and flips
// direction when the close crosses the active band.
type Supertrend struct {
	BaseIndicator
	config SupertrendConfig
}

// NewSupertrend creates a new Supertrend indicator instance
func NewSupertrend(config SupertrendConfig) *Supertrend {
	return &Supertrend{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (s *Supertrend) Name() string {
	return "supertrend"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (s *Supertrend) RequiredDataPoints() int {
	// One extra bar for ATR seeding plus one for the band state machine.
	return s.config.Period + 2
}

// Calculate computes the Supertrend line and direction for the last bar.
func (s *Supertrend) Calculate(ctx context.Context, bars []*domain.Bar) (float64, domain.TrendDirection, error) {
	period := s.config.Period
	if len(bars) < s.RequiredDataPoints() {
		return 0, domain.TrendFlat, fmt.Errorf("not enough data (%d) to calculate Supertrend for period %d: %w",
			len(bars), period, errInsufficientData)
	}

	atrs := atrSeries(bars, period)

	n := len(bars)
	finalUB := make([]float64, n)
	finalLB := make([]float64, n)
	line := make([]float64, n)
	dir := make([]domain.TrendDirection, n)

	start := period // first index with a settled ATR value
	for i := start; i < n; i++ {
		mid := (bars[i].High + bars[i].Low) / 2
		basicUB := mid + s.config.Multiplier*atrs[i]
		basicLB := mid - s.config.Multiplier*atrs[i]

		if i == start {
			finalUB[i] = basicUB
			finalLB[i] = basicLB
			line[i] = basicUB
			dir[i] = domain.TrendDown
			continue
		}

		// Bands only ratchet in the trend's favor until price closes through them.
		if basicUB < finalUB[i-1] || bars[i-1].Close > finalUB[i-1] {
			finalUB[i] = basicUB
		} else {
			finalUB[i] = finalUB[i-1]
		}
		if basicLB > finalLB[i-1] || bars[i-1].Close < finalLB[i-1] {
			finalLB[i] = basicLB
		} else {
			finalLB[i] = finalLB[i-1]
		}

		if line[i-1] == finalUB[i-1] {
			if bars[i].Close > finalUB[i] {
				line[i] = finalLB[i]
				dir[i] = domain.TrendUp
			} else {
				line[i] = finalUB[i]
				dir[i] = domain.TrendDown
			}
		} else {
			if bars[i].Close < finalLB[i] {
				line[i] = finalUB[i]
				dir[i] = domain.TrendDown
			} else {
				line[i] = finalLB[i]
				dir[i] = domain.TrendUp
			}
		}
	}

	return line[n-1], dir[n-1], nil
}

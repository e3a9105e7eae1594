package indicators

import (
	"context"
	"fmt"
	"math"

	"signalCore/internal/domain"
)

// ChoppinessConfig holds configuration for the Choppiness Index
type ChoppinessConfig struct {
	IndicatorConfig
}

// Choppiness implements the Choppiness Index: 100 when price churns inside
// its range, near 0 when it trends cleanly through it.
type Choppiness struct {
	BaseIndicator
	config ChoppinessConfig
}

// NewChoppiness creates a new Choppiness Index instance
func NewChoppiness(config ChoppinessConfig) *Choppiness {
	return &Choppiness{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (c *Choppiness) Name() string {
	return "choppiness"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (c *Choppiness) RequiredDataPoints() int {
	return c.config.Period + 1
}

// Calculate computes the Choppiness Index over the last period bars.
func (c *Choppiness) Calculate(ctx context.Context, bars []*domain.Bar) (float64, error) {
	period := c.config.Period
	if len(bars) < c.RequiredDataPoints() {
		return 0, fmt.Errorf("not enough data (%d) to calculate Choppiness for period %d: %w",
			len(bars), period, errInsufficientData)
	}

	trs := trueRanges(bars)
	n := len(bars)

	trSum := 0.0
	highest := bars[n-period].High
	lowest := bars[n-period].Low
	for i := n - period; i < n; i++ {
		trSum += trs[i]
		if bars[i].High > highest {
			highest = bars[i].High
		}
		if bars[i].Low < lowest {
			lowest = bars[i].Low
		}
	}

	priceRange := highest - lowest
	if priceRange <= 0 || trSum <= 0 {
		// A dead-flat window carries no directional information.
		return 100, nil
	}

	return 100 * math.Log10(trSum/priceRange) / math.Log10(float64(period)), nil
}

package indicators

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
)

// ATRConfig holds configuration for the Average True Range indicator
type ATRConfig struct {
	IndicatorConfig
}

// ATR implements the Average True Range indicator using Wilder's smoothing.
type ATR struct {
	BaseIndicator
	config ATRConfig
}

// NewATR creates a new Average True Range indicator instance
func NewATR(config ATRConfig) *ATR {
	return &ATR{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (a *ATR) Name() string {
	return "ATR"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (a *ATR) RequiredDataPoints() int {
	return a.config.Period + 1
}

// Calculate computes the Average True Range value for the last bar
func (a *ATR) Calculate(ctx context.Context, bars []*domain.Bar) (float64, error) {
	period := a.config.Period
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough data points for ATR calculation: need %d, got %d: %w",
			period+1, len(bars), errInsufficientData)
	}
	series := atrSeries(bars, period)
	return series[len(series)-1], nil
}

// Series computes the full Wilder ATR series. Entries before the seed index
// are zero.
func (a *ATR) Series(ctx context.Context, bars []*domain.Bar) ([]float64, error) {
	period := a.config.Period
	if len(bars) < period+1 {
		return nil, fmt.Errorf("not enough data points for ATR series: need %d, got %d: %w",
			period+1, len(bars), errInsufficientData)
	}
	return atrSeries(bars, period), nil
}

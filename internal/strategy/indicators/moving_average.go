package indicators

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
)

// MAType selects the averaging method.
type MAType string

const (
	SimpleMA      MAType = "sma"
	ExponentialMA MAType = "ema"
)

// MovingAverageConfig holds configuration for a moving average
type MovingAverageConfig struct {
	IndicatorConfig
	Type MAType
}

// MovingAverage reports a simple or seeded exponential moving average of the
// close prices for the last bar. The higher-timeframe bias uses the simple
// form for its slope vote.
type MovingAverage struct {
	config MovingAverageConfig
}

// NewMovingAverage creates a new moving average instance
func NewMovingAverage(config MovingAverageConfig) *MovingAverage {
	return &MovingAverage{config: config}
}

// Name returns the name of the indicator
func (m *MovingAverage) Name() string {
	return string(m.config.Type)
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (m *MovingAverage) RequiredDataPoints() int {
	return m.config.Period
}

// Calculate computes the configured average over the close prices.
func (m *MovingAverage) Calculate(ctx context.Context, bars []*domain.Bar) (float64, error) {
	if len(bars) < m.config.Period {
		return 0, fmt.Errorf("not enough data (%d) to calculate %s for period %d: %w",
			len(bars), m.Name(), m.config.Period, errInsufficientData)
	}

	closes := closeValues(bars)
	switch m.config.Type {
	case SimpleMA:
		return smaAt(closes, m.config.Period, len(closes)-1), nil
	case ExponentialMA:
		series := emaSeriesValues(closes, m.config.Period)
		return series[len(series)-1], nil
	default:
		return 0, fmt.Errorf("unsupported moving average type %q", m.config.Type)
	}
}

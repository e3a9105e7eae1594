package indicators

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
)

// RSIConfig holds configuration for the Relative Strength Index
type RSIConfig struct {
	IndicatorConfig
}

// RSI reports Wilder's Relative Strength Index for the last bar. The
// higher-timeframe bias reads its midline as the momentum vote; the QQE
// consumes the full series directly.
type RSI struct {
	config RSIConfig
}

// NewRSI creates a new Relative Strength Index instance
func NewRSI(config RSIConfig) *RSI {
	return &RSI{config: config}
}

// Name returns the name of the indicator
func (r *RSI) Name() string {
	return "rsi"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (r *RSI) RequiredDataPoints() int {
	return r.config.Period + 1
}

// Calculate computes the RSI value for the last bar.
func (r *RSI) Calculate(ctx context.Context, bars []*domain.Bar) (float64, error) {
	if len(bars) < r.RequiredDataPoints() {
		return 0, fmt.Errorf("not enough data (%d) to calculate RSI for period %d: %w",
			len(bars), r.config.Period, errInsufficientData)
	}
	series := rsiSeries(bars, r.config.Period)
	return series[len(series)-1], nil
}

package indicators

import (
	"context"
	"fmt"
	"math"

	"signalCore/internal/domain"
)

// WAEConfig holds configuration for the Waddah Attar Explosion gauge
type WAEConfig struct {
	Sensitivity float64 // multiplier on the MACD derivative, e.g. 150
	FastPeriod  int     // MACD fast EMA, e.g. 20
	SlowPeriod  int     // MACD slow EMA, e.g. 40
	BBPeriod    int     // Bollinger band period, e.g. 20
	BBDeviation float64 // Bollinger band width in standard deviations, e.g. 2.0
	DeadZone    float64 // floor below which no reading counts, 0 disables
}

// WAE implements the Waddah Attar Explosion volatility/momentum gauge.
// Trend power is the bar-to-bar change of the MACD line scaled by the
// sensitivity; the explosion line is the Bollinger band width. A bar is
// "explosive" when the power exceeds the explosion line.
type WAE struct {
	config WAEConfig
}

// NewWAE creates a new Waddah Attar Explosion instance
func NewWAE(config WAEConfig) *WAE {
	return &WAE{config: config}
}

// Name returns the name of the indicator
func (w *WAE) Name() string {
	return "wae"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (w *WAE) RequiredDataPoints() int {
	req := w.config.SlowPeriod + 1
	if w.config.BBPeriod+1 > req {
		req = w.config.BBPeriod + 1
	}
	return req
}

// Calculate reports whether the last bar is explosive and in which direction.
func (w *WAE) Calculate(ctx context.Context, bars []*domain.Bar) (bool, domain.TrendDirection, error) {
	if len(bars) < w.RequiredDataPoints() {
		return false, domain.TrendFlat, fmt.Errorf("not enough data (%d) to calculate WAE (need %d): %w",
			len(bars), w.RequiredDataPoints(), errInsufficientData)
	}

	fast := emaSeries(bars, w.config.FastPeriod)
	slow := emaSeries(bars, w.config.SlowPeriod)

	n := len(bars)
	macdNow := fast[n-1] - slow[n-1]
	macdPrev := fast[n-2] - slow[n-2]
	power := (macdNow - macdPrev) * w.config.Sensitivity

	closes := closeValues(bars)
	dev := stdDevAt(closes, w.config.BBPeriod, n-1)
	// Band width: upper minus lower around the SMA midline.
	explosion := 2 * w.config.BBDeviation * dev

	if explosion <= w.config.DeadZone {
		return false, domain.TrendFlat, nil
	}
	if math.Abs(power) <= explosion || math.Abs(power) <= w.config.DeadZone {
		return false, domain.TrendFlat, nil
	}
	if power > 0 {
		return true, domain.TrendUp, nil
	}
	return true, domain.TrendDown, nil
}

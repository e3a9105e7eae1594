package indicators

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
)

// VolRegimeConfig holds configuration for the volatility regime classifier
type VolRegimeConfig struct {
	ATRPeriod      int     // ATR period, e.g. 14
	Lookback       int     // window for the ATR z-score, e.g. 50
	HighZ          float64 // z-score above which volatility is high, e.g. 1.5
	LowZ           float64 // z-score below which volatility is low, e.g. -0.5
	HighMultiplier float64 // risk multiplier in the high regime, e.g. 0.5
	LowMultiplier  float64 // risk multiplier in the low regime, e.g. 1.2
}

// VolRegimeResult is the classified regime plus the risk multiplier and the
// raw z-score it was derived from.
type VolRegimeResult struct {
	Regime     domain.VolatilityRegime
	Multiplier float64
	ZScore     float64
}

// VolRegime classifies current volatility by the z-score of the latest ATR
// against its own recent history.
type VolRegime struct {
	config VolRegimeConfig
}

// NewVolRegime creates a new volatility regime classifier instance
func NewVolRegime(config VolRegimeConfig) *VolRegime {
	return &VolRegime{config: config}
}

// Name returns the name of the indicator
func (v *VolRegime) Name() string {
	return "vol_regime"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (v *VolRegime) RequiredDataPoints() int {
	return v.config.ATRPeriod + v.config.Lookback + 1
}

// Calculate classifies the volatility regime of the last bar.
func (v *VolRegime) Calculate(ctx context.Context, bars []*domain.Bar) (VolRegimeResult, error) {
	if len(bars) < v.RequiredDataPoints() {
		return VolRegimeResult{}, fmt.Errorf("not enough data (%d) to classify volatility regime (need %d): %w",
			len(bars), v.RequiredDataPoints(), errInsufficientData)
	}

	atrs := atrSeries(bars, v.config.ATRPeriod)
	last := len(atrs) - 1

	mean := smaAt(atrs, v.config.Lookback, last)
	std := stdDevAt(atrs, v.config.Lookback, last)

	z := 0.0
	if std > 0 {
		z = (atrs[last] - mean) / std
	}

	result := VolRegimeResult{Regime: domain.VolRegimeNormal, Multiplier: 1.0, ZScore: z}
	switch {
	case z > v.config.HighZ:
		result.Regime = domain.VolRegimeHigh
		result.Multiplier = v.config.HighMultiplier
	case z < v.config.LowZ:
		result.Regime = domain.VolRegimeLow
		result.Multiplier = v.config.LowMultiplier
	}
	return result, nil
}

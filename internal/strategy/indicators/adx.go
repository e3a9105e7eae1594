package indicators

import (
	"context"
	"fmt"
	"math"

	"signalCore/internal/domain"
)

// ADXConfig holds configuration for the Average Directional Index
type ADXConfig struct {
	IndicatorConfig
}

// ADXResult bundles the trend-strength index and the directional balance.
type ADXResult struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
}

// ADX implements Wilder's Average Directional Index together with the
// +DI/-DI directional movement lines.
type ADX struct {
	BaseIndicator
	config ADXConfig
}

// NewADX creates a new ADX indicator instance
func NewADX(config ADXConfig) *ADX {
	return &ADX{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator
func (a *ADX) Name() string {
	return "adx"
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (a *ADX) RequiredDataPoints() int {
	// One period to seed the smoothed DM/TR, another to seed the ADX itself.
	return 2*a.config.Period + 1
}

// Calculate computes ADX, +DI and -DI for the last bar.
func (a *ADX) Calculate(ctx context.Context, bars []*domain.Bar) (ADXResult, error) {
	period := a.config.Period
	if len(bars) < a.RequiredDataPoints() {
		return ADXResult{}, fmt.Errorf("not enough data (%d) to calculate ADX for period %d: %w",
			len(bars), period, errInsufficientData)
	}

	n := len(bars)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trs := trueRanges(bars)

	for i := 1; i < n; i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	smTR := wilderSeries(trs[1:], period)
	smPlus := wilderSeries(plusDM[1:], period)
	smMinus := wilderSeries(minusDM[1:], period)

	dx := make([]float64, len(smTR))
	for i := period - 1; i < len(smTR); i++ {
		if smTR[i] == 0 {
			continue
		}
		pdi := 100 * smPlus[i] / smTR[i]
		mdi := 100 * smMinus[i] / smTR[i]
		if pdi+mdi == 0 {
			continue
		}
		dx[i] = 100 * math.Abs(pdi-mdi) / (pdi + mdi)
	}

	adxSeries := wilderSeries(dx[period-1:], period)

	last := len(smTR) - 1
	result := ADXResult{ADX: adxSeries[len(adxSeries)-1]}
	if smTR[last] > 0 {
		result.PlusDI = 100 * smPlus[last] / smTR[last]
		result.MinusDI = 100 * smMinus[last] / smTR[last]
	}
	return result, nil
}

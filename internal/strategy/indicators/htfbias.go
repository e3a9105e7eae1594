package indicators

import (
	"context"
	"fmt"
	"time"

	"signalCore/internal/domain"
)

// HTFBiasConfig holds configuration for the higher-timeframe composite bias
type HTFBiasConfig struct {
	RSIPeriod int // momentum vote, e.g. 14
	MAPeriod  int // moving-average slope vote, e.g. 20
	OBVPeriod int // volume-trend vote (OBV vs its SMA), e.g. 10
}

// HTFBias derives a composite directional bias from a coarser timeframe:
// RSI above midline, OBV above its own average, and a rising moving average
// each cast one vote. Two or more bullish votes give an up bias.
//
// The bias is recomputed only from higher-timeframe bars that closed at or
// before the reference time, so a finer-timeframe caller can never see a
// coarse bar that is still open.
type HTFBias struct {
	config HTFBiasConfig
	rsi    *RSI
	ma     *MovingAverage
}

// NewHTFBias creates a new higher-timeframe bias instance
func NewHTFBias(config HTFBiasConfig) *HTFBias {
	return &HTFBias{
		config: config,
		rsi: NewRSI(RSIConfig{
			IndicatorConfig: IndicatorConfig{Period: config.RSIPeriod},
		}),
		ma: NewMovingAverage(MovingAverageConfig{
			IndicatorConfig: IndicatorConfig{Period: config.MAPeriod},
			Type:            SimpleMA,
		}),
	}
}

// Name returns the name of the indicator
func (h *HTFBias) Name() string {
	return "htf_bias"
}

// RequiredDataPoints returns the minimum number of closed HTF bars needed.
func (h *HTFBias) RequiredDataPoints() int {
	req := h.config.RSIPeriod + 1
	if h.config.MAPeriod+1 > req {
		req = h.config.MAPeriod + 1
	}
	if h.config.OBVPeriod+1 > req {
		req = h.config.OBVPeriod + 1
	}
	return req
}

// Calculate computes the bias from the HTF bars closed at or before asOf.
func (h *HTFBias) Calculate(ctx context.Context, htfBars []*domain.Bar, asOf time.Time) (domain.TrendDirection, error) {
	// Forward-fill join: keep only coarse bars already closed at asOf.
	closed := htfBars
	for len(closed) > 0 && closed[len(closed)-1].CloseTime.After(asOf) {
		closed = closed[:len(closed)-1]
	}
	if len(closed) < h.RequiredDataPoints() {
		return domain.TrendFlat, fmt.Errorf("not enough closed HTF bars (%d, need %d): %w",
			len(closed), h.RequiredDataPoints(), errInsufficientData)
	}

	votes := 0

	// Momentum vote
	momentum, err := h.rsi.Calculate(ctx, closed)
	if err != nil {
		return domain.TrendFlat, err
	}
	if momentum > 50 {
		votes++
	}

	// Volume-trend vote: on-balance volume above its own average
	obv := obvSeries(closed)
	last := len(obv) - 1
	if obv[last] > smaAt(obv, h.config.OBVPeriod, last) {
		votes++
	}

	// Moving-average slope vote: close above a rising SMA
	maNow, err := h.ma.Calculate(ctx, closed)
	if err != nil {
		return domain.TrendFlat, err
	}
	maPrev, err := h.ma.Calculate(ctx, closed[:len(closed)-1])
	if err != nil {
		return domain.TrendFlat, err
	}
	if closed[last].Close > maNow && maNow > maPrev {
		votes++
	}

	if votes >= 2 {
		return domain.TrendUp, nil
	}
	return domain.TrendDown, nil
}

// obvSeries computes on-balance volume.
func obvSeries(bars []*domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

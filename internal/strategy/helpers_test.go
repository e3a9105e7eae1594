package strategy

import (
	"context"
	"time"

	"signalCore/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

var snapTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// upSnapshot is a defined snapshot with all three trend votes up and a calm,
// trending regime.
func upSnapshot(close float64) *domain.IndicatorSnapshot {
	return &domain.IndicatorSnapshot{
		Time:          snapTime,
		Close:         close,
		Defined:       true,
		SupertrendDir: domain.TrendUp,
		HalfTrendDir:  domain.TrendUp,
		QQEDir:        domain.TrendUp,
		ExplosionDir:  domain.TrendFlat,
		ATR:           1,
		VolRegime:     domain.VolRegimeNormal,
		VolMultiplier: 1.0,
		ADX:           35,
		PlusDI:        25,
		MinusDI:       10,
		Choppiness:    40,
		HTFBias:       domain.TrendFlat,
	}
}

// downSnapshot flips all three trend votes against a long position.
func downSnapshot(close float64) *domain.IndicatorSnapshot {
	snap := upSnapshot(close)
	snap.SupertrendDir = domain.TrendDown
	snap.HalfTrendDir = domain.TrendDown
	snap.QQEDir = domain.TrendDown
	snap.PlusDI = 10
	snap.MinusDI = 25
	return snap
}

func openPosition(entry float64, entryTime time.Time) *domain.Position {
	return &domain.Position{
		Symbol:       "ETHUSDT",
		EntryPrice:   entry,
		Stake:        200,
		EntryTime:    entryTime,
		Status:       domain.StatusOpen,
		HighestPrice: entry,
	}
}

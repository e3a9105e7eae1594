package indicators

import (
	"context"
	"errors"
	"testing"
	"time"

	"signalCore/internal/domain"
)

func TestHTFBias_Calculate(t *testing.T) {
	ctx := context.Background()
	bias := NewHTFBias(HTFBiasConfig{RSIPeriod: 14, MAPeriod: 20, OBVPeriod: 10})

	t.Run("uptrend bias", func(t *testing.T) {
		bars := trendBars(30, 100, 1, 1)
		dir, err := bias.Calculate(ctx, bars, bars[len(bars)-1].CloseTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != domain.TrendUp {
			t.Errorf("expected TrendUp, got %v", dir)
		}
	})

	t.Run("downtrend bias", func(t *testing.T) {
		bars := trendBars(30, 300, -2, 0.5)
		dir, err := bias.Calculate(ctx, bars, bars[len(bars)-1].CloseTime)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != domain.TrendDown {
			t.Errorf("expected TrendDown, got %v", dir)
		}
	})

	t.Run("open bar is ignored", func(t *testing.T) {
		bars := trendBars(30, 100, 1, 1)
		asOf := bars[len(bars)-1].CloseTime

		// A crash bar that closes after the reference time must not leak
		// into the bias.
		crash := &domain.Bar{
			OpenTime:  asOf,
			CloseTime: asOf.Add(time.Hour),
			Symbol:    "ETHUSDT",
			Interval:  "1h",
			Open:      bars[len(bars)-1].Close,
			High:      bars[len(bars)-1].Close,
			Low:       10,
			Close:     10,
			Volume:    100000,
			IsFinal:   false,
		}
		dir, err := bias.Calculate(ctx, append(bars, crash), asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != domain.TrendUp {
			t.Errorf("expected the open crash bar to be ignored, got %v", dir)
		}
	})

	t.Run("too few closed bars", func(t *testing.T) {
		bars := trendBars(30, 100, 1, 1)
		// An asOf before most closes trims the series below the warmup.
		_, err := bias.Calculate(ctx, bars, bars[5].CloseTime)
		if !errors.Is(err, errInsufficientData) {
			t.Errorf("expected insufficient data error, got %v", err)
		}
	})
}

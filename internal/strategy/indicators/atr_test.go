package indicators

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestATR_Calculate(t *testing.T) {
	ctx := context.Background()
	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 14}})

	t.Run("constant true range", func(t *testing.T) {
		// Each bar spans exactly 3: one unit of drift plus a one-unit wick
		// on both sides of the open-to-close body.
		value, err := atr.Calculate(ctx, trendBars(40, 100, 1, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(value-3) > 1e-6 {
			t.Errorf("expected ATR 3, got %.6f", value)
		}
	})

	t.Run("series aligns with last value", func(t *testing.T) {
		bars := trendBars(40, 100, 1, 1)
		series, err := atr.Series(ctx, bars)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(series) != len(bars) {
			t.Fatalf("expected %d entries, got %d", len(bars), len(series))
		}
		last, err := atr.Calculate(ctx, bars)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if series[len(series)-1] != last {
			t.Errorf("series tail %.6f != point value %.6f", series[len(series)-1], last)
		}
	})

	t.Run("insufficient data", func(t *testing.T) {
		_, err := atr.Calculate(ctx, trendBars(10, 100, 1, 1))
		if !errors.Is(err, errInsufficientData) {
			t.Errorf("expected insufficient data error, got %v", err)
		}
		_, err = atr.Series(ctx, trendBars(10, 100, 1, 1))
		if !errors.Is(err, errInsufficientData) {
			t.Errorf("expected insufficient data error, got %v", err)
		}
	})
}

package indicators

import (
	"time"

	"signalCore/internal/domain"
)

var seriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// trendBars builds a linear hourly series: close = start + i*step, each bar
// opening at the previous close with a wick of the given size on both sides.
func trendBars(n int, start, step, wick float64) []*domain.Bar {
	bars := make([]*domain.Bar, n)
	for i := 0; i < n; i++ {
		close := start + float64(i)*step
		open := close - step
		high := close
		if open > high {
			high = open
		}
		low := close
		if open < low {
			low = open
		}
		bars[i] = &domain.Bar{
			OpenTime:  seriesStart.Add(time.Duration(i) * time.Hour),
			CloseTime: seriesStart.Add(time.Duration(i+1) * time.Hour),
			Symbol:    "ETHUSDT",
			Interval:  "1h",
			Open:      open,
			High:      high + wick,
			Low:       low - wick,
			Close:     close,
			Volume:    100,
			IsFinal:   true,
		}
	}
	return bars
}

// chopBars alternates the close between base-amp and base+amp so price churns
// inside a fixed band without going anywhere.
func chopBars(n int, base, amp float64) []*domain.Bar {
	bars := make([]*domain.Bar, n)
	for i := 0; i < n; i++ {
		close := base - amp
		if i%2 == 1 {
			close = base + amp
		}
		bars[i] = &domain.Bar{
			OpenTime:  seriesStart.Add(time.Duration(i) * time.Hour),
			CloseTime: seriesStart.Add(time.Duration(i+1) * time.Hour),
			Symbol:    "ETHUSDT",
			Interval:  "1h",
			Open:      base,
			High:      close + 1,
			Low:       close - 1,
			Close:     close,
			Volume:    100,
			IsFinal:   true,
		}
	}
	return bars
}

// flatBars builds bars with a constant close and a configurable wick, useful
// for shaping volatility without moving the price.
func flatBars(n int, price, wick float64, from time.Time) []*domain.Bar {
	bars := make([]*domain.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = &domain.Bar{
			OpenTime:  from.Add(time.Duration(i) * time.Hour),
			CloseTime: from.Add(time.Duration(i+1) * time.Hour),
			Symbol:    "ETHUSDT",
			Interval:  "1h",
			Open:      price,
			High:      price + wick,
			Low:       price - wick,
			Close:     price,
			Volume:    100,
			IsFinal:   true,
		}
	}
	return bars
}

package ports

import (
	"context"
	"time"

	"signalCore/internal/domain"
)

// BarSource defines the interface for fetching closed OHLCV bars.
// The decision core never touches this; it is used by the surrounding
// tooling to assemble histories that are then fed into the core.
type BarSource interface {
	// GetBars retrieves the most recent closed bars for the given symbol and interval.
	GetBars(ctx context.Context, symbol, interval string, limit int) ([]*domain.Bar, error)

	// GetBarsRange retrieves all closed bars between start and end.
	GetBarsRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Bar, error)

	// Ping checks connectivity to the source.
	Ping(ctx context.Context) error
}

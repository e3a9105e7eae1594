package ports

import (
	"context"

	"signalCore/internal/domain"
)

// DecisionRepository defines the interface for persisting the audit trail of
// entry evaluations.
type DecisionRepository interface {
	// SaveDecision records one entry evaluation (fired or not) and returns its assigned ID.
	SaveDecision(ctx context.Context, sig *domain.EntrySignal) (int64, error)
	// FindDecisionsBySymbol retrieves the most recent decisions for a symbol, up to a limit.
	FindDecisionsBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.EntrySignal, error)
}

// TradeRepository defines the interface for storing and retrieving completed trades.
type TradeRepository interface {
	// SaveTrade saves a new trade record and returns its assigned ID.
	SaveTrade(ctx context.Context, trade *domain.Trade) (int64, error)
	// FindTradesBySymbol retrieves the most recent trades for a given symbol, up to a limit.
	FindTradesBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.Trade, error)
	// CountByReason returns how many stored trades closed under each exit reason.
	CountByReason(ctx context.Context) (map[domain.ExitReason]int, error)
	// GetTotalProfit calculates the sum of PNL over all stored trades.
	GetTotalProfit(ctx context.Context) (float64, error)
}

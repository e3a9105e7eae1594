package backtesting

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
	"signalCore/internal/risk"
	"signalCore/internal/strategy"
)

// Config holds configuration for a replay run.
type Config struct {
	InitialFunds float64
	// CloseAtEnd force-closes positions still open on the final bar so the
	// result accounts for every stake.
	CloseAtEnd bool
}

// Result holds the results of a replay.
type Result struct {
	TotalTrades        int
	WinningTrades      int
	LosingTrades       int
	WinRate            float64
	TotalProfit        float64
	MaxDrawdown        float64
	ProfitFactor       float64
	AverageWin         float64
	AverageLoss        float64
	FinalBalance       float64
	ReturnOnInvestment float64
	ReasonCounts       map[domain.ExitReason]int
	Trades             []*domain.Trade
	Decisions          []*domain.EntrySignal
}

// Run replays aligned bar histories through the engine, acting as the
// accountant: it owns the capital ledger and the open positions, invokes the
// engine's size query before opening and its exit query on every bar of an
// open position.
//
// All series must cover the same timestamps. When several instruments
// qualify for entry on the same bar they compete for capital in the fixed
// order defined by risk.EntryOrder.
func Run(ctx context.Context, eng *strategy.Engine, series map[string][]*domain.Bar, htf map[string][]*domain.Bar, cfg Config, logger ports.Logger) (*Result, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no bar series to replay", ports.ErrInvalidRequest)
	}

	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	symbols = risk.EntryOrder(symbols)

	length := len(series[symbols[0]])
	for _, sym := range symbols {
		if len(series[sym]) != length {
			return nil, fmt.Errorf("%w: bar series are not aligned (%s has %d bars, want %d)",
				ports.ErrInvalidRequest, sym, len(series[sym]), length)
		}
	}
	if length < eng.RequiredDataPoints() {
		return nil, fmt.Errorf("%w: need at least %d bars, got %d",
			ports.ErrInsufficientData, eng.RequiredDataPoints(), length)
	}

	ledger, err := risk.NewLedger(cfg.InitialFunds)
	if err != nil {
		return nil, err
	}

	result := &Result{
		FinalBalance: cfg.InitialFunds,
		ReasonCounts: make(map[domain.ExitReason]int),
	}
	open := make(map[string]*domain.Position)
	peakBalance := cfg.InitialFunds

	for i := eng.RequiredDataPoints(); i < length; i++ {
		// Exits run before entries so freed capital is available on the
		// same bar. Both passes walk symbols in the fixed order.
		for _, sym := range symbols {
			pos := open[sym]
			if pos == nil {
				continue
			}
			bars := series[sym][:i+1]
			pos.UpdateExcursion(bars[i].Close)

			snap := eng.Snapshot(ctx, bars, htf[sym])
			sig := eng.ExitQuery(ctx, pos, snap)
			if sig == nil {
				continue
			}
			closeTrade(ctx, result, ledger, pos, *sig, logger)
			result.FinalBalance = ledger.Equity()
			peakBalance = updateDrawdown(result, peakBalance)
			delete(open, sym)
		}

		for _, sym := range symbols {
			if open[sym] != nil {
				continue
			}
			bars := series[sym][:i+1]
			snap := eng.Snapshot(ctx, bars, htf[sym])
			sig, st := eng.EvaluateEntry(ctx, snap)
			sig.Symbol = sym
			result.Decisions = append(result.Decisions, sig)
			if !sig.Enter {
				continue
			}

			stake, err := eng.SizeQuery(ctx, sym, ledger.Equity(), ledger.Free(), snap, st, sig.Boosts)
			if err != nil {
				logger.Debug(ctx, "Entry skipped: no stake", map[string]interface{}{
					"symbol": sym,
					"reason": err.Error(),
				})
				continue
			}
			if err := ledger.Reserve(sym, stake); err != nil {
				logger.Debug(ctx, "Entry skipped: reservation failed", map[string]interface{}{
					"symbol": sym,
					"reason": err.Error(),
				})
				continue
			}

			bar := bars[i]
			open[sym] = &domain.Position{
				Symbol:       sym,
				EntryPrice:   bar.Close,
				Stake:        stake,
				EntryTime:    bar.CloseTime,
				Status:       domain.StatusOpen,
				HighestPrice: bar.Close,
			}
			result.TotalTrades++
		}
	}

	if cfg.CloseAtEnd {
		for _, sym := range symbols {
			pos := open[sym]
			if pos == nil {
				continue
			}
			bars := series[sym]
			last := bars[length-1]
			snap := eng.Snapshot(ctx, bars, htf[sym])
			sig := eng.ForcedExit(pos, last.Close, snap)
			closeTrade(ctx, result, ledger, pos, *sig, logger)
			result.FinalBalance = ledger.Equity()
			peakBalance = updateDrawdown(result, peakBalance)
			delete(open, sym)
		}
	}

	if result.TotalTrades > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(result.TotalTrades)
	}
	if result.AverageLoss != 0 {
		result.ProfitFactor = result.AverageWin / -result.AverageLoss
	}
	result.ReturnOnInvestment = (result.FinalBalance - cfg.InitialFunds) / cfg.InitialFunds
	return result, nil
}

// closeTrade settles a position against the ledger and records the trade.
func closeTrade(ctx context.Context, result *Result, ledger *risk.Ledger, pos *domain.Position, sig domain.ExitSignal, logger ports.Logger) {
	pos.Close(sig)
	// The reservation is always present while the position is open; a failed
	// release means the accountant lost track of its own bookkeeping.
	if err := ledger.Release(pos.Symbol, pos.PNL); err != nil {
		logger.Error(ctx, err, "Ledger release failed for closed position", map[string]interface{}{
			"symbol": pos.Symbol,
			"pnl":    pos.PNL,
		})
	}

	result.TotalProfit += pos.PNL
	if pos.PNL > 0 {
		result.WinningTrades++
		result.AverageWin = (result.AverageWin*float64(result.WinningTrades-1) + pos.PNL) / float64(result.WinningTrades)
	} else {
		result.LosingTrades++
		result.AverageLoss = (result.AverageLoss*float64(result.LosingTrades-1) + pos.PNL) / float64(result.LosingTrades)
	}
	result.ReasonCounts[pos.ExitReason]++

	result.Trades = append(result.Trades, &domain.Trade{
		PositionID: pos.ID,
		Symbol:     pos.Symbol,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  pos.ExitPrice,
		Stake:      pos.Stake,
		PNL:        pos.PNL,
		EntryTime:  pos.EntryTime,
		ExitTime:   pos.ExitTime,
		ExitReason: pos.ExitReason,
		MFE:        pos.MFE,
		MAE:        pos.MAE,
	})
}

func updateDrawdown(result *Result, peakBalance float64) float64 {
	if result.FinalBalance > peakBalance {
		return result.FinalBalance
	}
	drawdown := (peakBalance - result.FinalBalance) / peakBalance
	if drawdown > result.MaxDrawdown {
		result.MaxDrawdown = drawdown
	}
	return peakBalance
}

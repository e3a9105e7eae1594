package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"path/filepath"

	"signalCore/config"
	"signalCore/internal/adapters/logger"
	"signalCore/internal/adapters/sqlite"
	"signalCore/internal/domain"
	"signalCore/internal/strategy"
	"signalCore/internal/strategy/analytics"
	"signalCore/internal/strategy/backtesting"
	"signalCore/internal/utils"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Engine
	eng, err := strategy.New(cfg.Engine, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize signal engine")
		log.Fatalf("FATAL: Failed to initialize signal engine: %v", err)
	}
	appLogger.Info(ctx, "Signal engine initialized", map[string]interface{}{
		"mode":       cfg.Engine.Mode,
		"minSignals": cfg.Engine.MinSignals,
		"warmupBars": eng.RequiredDataPoints(),
	})

	// 4. Load bar histories from CSV
	series := make(map[string][]*domain.Bar)
	htf := make(map[string][]*domain.Bar)
	for _, symbol := range cfg.Symbols {
		path := filepath.Join(cfg.DataDir, fmt.Sprintf("%s_%s.csv", symbol, cfg.Interval))
		bars, err := utils.ReadBarsFromCSV(path)
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to load bar history", map[string]interface{}{"symbol": symbol, "path": path})
			log.Fatalf("FATAL: Failed to load bar history for %s: %v", symbol, err)
		}
		series[symbol] = bars
		appLogger.Info(ctx, "Bar history loaded", map[string]interface{}{"symbol": symbol, "bars": len(bars)})

		if cfg.Engine.UseHTFBias {
			htfPath := filepath.Join(cfg.DataDir, fmt.Sprintf("%s_%s.csv", symbol, cfg.HTFInterval))
			htfBars, err := utils.ReadBarsFromCSV(htfPath)
			if err != nil {
				// The bias filter degrades gracefully without higher-timeframe data.
				appLogger.Warn(ctx, "No higher-timeframe history, bias carries no vote", map[string]interface{}{"symbol": symbol, "path": htfPath})
				continue
			}
			htf[symbol] = htfBars
		}
	}

	// 5. Replay
	result, err := backtesting.Run(ctx, eng, series, htf, backtesting.Config{
		InitialFunds: cfg.InitialFunds,
		CloseAtEnd:   cfg.CloseAtEnd,
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Replay failed")
		log.Fatalf("FATAL: Replay failed: %v", err)
	}

	// 6. Analyze and report
	metrics := analytics.AnalyzePerformance(result.Trades, cfg.InitialFunds)
	appLogger.Info(ctx, "Replay result", map[string]interface{}{
		"Trades":  result.TotalTrades,
		"WinRate": metrics.WinRate * 100,
		"PnL":     metrics.TotalProfit,
		"ROI":     metrics.ReturnOnInvestment * 100,
		"MaxDD":   metrics.MaxDrawdown * 100,
		"AvgWin":  metrics.AverageWin,
		"AvgLoss": metrics.AverageLoss,
		"AvgMFE":  metrics.AverageMFE,
		"AvgMAE":  metrics.AverageMAE,
	})
	for reason, count := range result.ReasonCounts {
		appLogger.Info(ctx, "Exit reason count", map[string]interface{}{
			"reason": string(reason),
			"count":  count,
			"pnl":    metrics.ReasonPNL[reason],
		})
	}

	// 7. Persist the audit trail when a database path is configured
	if cfg.DBPath != "" {
		repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to initialize database repository")
			log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				appLogger.Error(ctx, err, "Error closing database repository")
			}
		}()

		for _, decision := range result.Decisions {
			if _, err := repo.SaveDecision(ctx, decision); err != nil {
				appLogger.Error(ctx, err, "Failed to persist decision", map[string]interface{}{"symbol": decision.Symbol})
				os.Exit(1)
			}
		}
		for _, trade := range result.Trades {
			if _, err := repo.SaveTrade(ctx, trade); err != nil {
				appLogger.Error(ctx, err, "Failed to persist trade", map[string]interface{}{"symbol": trade.Symbol})
				os.Exit(1)
			}
		}
		appLogger.Info(ctx, "Audit trail persisted", map[string]interface{}{
			"decisions": len(result.Decisions),
			"trades":    len(result.Trades),
			"dbPath":    cfg.DBPath,
		})
	}

	appLogger.Info(ctx, "Replay finished", map[string]interface{}{
		"trades":       result.TotalTrades,
		"finalBalance": result.FinalBalance,
	})
}

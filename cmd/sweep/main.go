package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"signalCore/config"
	"signalCore/internal/adapters/logger"
	"signalCore/internal/domain"
	"signalCore/internal/strategy"
	"signalCore/internal/strategy/optimization"
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

	// 3. Load bar histories
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

		if cfg.Engine.UseHTFBias {
			htfPath := filepath.Join(cfg.DataDir, fmt.Sprintf("%s_%s.csv", symbol, cfg.HTFInterval))
			if htfBars, err := utils.ReadBarsFromCSV(htfPath); err == nil {
				htf[symbol] = htfBars
			}
		}
	}

	// 4. Sweep entry and stop parameters around the configured base
	opt, err := optimization.NewOptimizer(optimization.Config{
		ParameterRanges: []optimization.ParameterRange{
			{Name: "min_signals", Min: 1, Max: 3, Step: 1, IsInt: true},
			{Name: "fixed_stop_pct", Min: 0.04, Max: 0.10, Step: 0.02},
			{Name: "risk_per_trade", Min: 0.01, Max: 0.03, Step: 0.01},
		},
		InitialFunds: cfg.InitialFunds,
		Apply: func(base strategy.Config, params map[string]float64) strategy.Config {
			base.MinSignals = int(params["min_signals"])
			base.FixedStopPct = params["fixed_stop_pct"]
			base.Sizing.RiskPerTrade = params["risk_per_trade"]
			return base
		},
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize optimizer")
		log.Fatalf("FATAL: Failed to initialize optimizer: %v", err)
	}

	results, err := opt.Optimize(ctx, cfg.Engine, series, htf)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Sweep failed")
		log.Fatalf("FATAL: Sweep failed: %v", err)
	}

	// 5. Report the top combinations
	top := len(results)
	if top > 10 {
		top = 10
	}
	for i := 0; i < top; i++ {
		r := results[i]
		appLogger.Info(ctx, "Sweep result", map[string]interface{}{
			"rank":    i + 1,
			"score":   r.Score,
			"params":  r.Parameters,
			"trades":  r.Metrics.TotalTrades,
			"winRate": r.Metrics.WinRate * 100,
			"pnl":     r.Metrics.TotalProfit,
			"maxDD":   r.Metrics.MaxDrawdown * 100,
		})
	}
	if len(results) == 0 {
		appLogger.Warn(ctx, "Sweep produced no valid results")
	}
}

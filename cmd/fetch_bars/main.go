package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"signalCore/config"
	"signalCore/internal/adapters/binanceclient"
	"signalCore/internal/adapters/logger"
	"signalCore/internal/utils"
)

func main() {
	days := flag.Int("days", 90, "how many days of history to fetch")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize market data client
	client, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	if err := client.Ping(ctx); err != nil {
		appLogger.Error(ctx, err, "FATAL: Market data source unreachable")
		log.Fatalf("FATAL: Market data source unreachable: %v", err)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -*days)

	// Fetch the base interval plus the higher timeframe used by the bias filter.
	intervals := []string{cfg.Interval}
	if cfg.HTFInterval != "" && cfg.HTFInterval != cfg.Interval {
		intervals = append(intervals, cfg.HTFInterval)
	}

	for _, symbol := range cfg.Symbols {
		for _, interval := range intervals {
			appLogger.Info(ctx, "Fetching bars", map[string]interface{}{
				"symbol":   symbol,
				"interval": interval,
				"start":    start.Format(time.RFC3339),
				"end":      end.Format(time.RFC3339),
			})
			bars, err := client.GetBarsRange(ctx, symbol, interval, start, end)
			if err != nil {
				appLogger.Error(ctx, err, "Error fetching bars", map[string]interface{}{"symbol": symbol, "interval": interval})
				log.Fatalf("Error fetching bars for %s %s: %v", symbol, interval, err)
			}

			filename := filepath.Join(cfg.DataDir, fmt.Sprintf("%s_%s.csv", symbol, interval))
			if err := utils.WriteBarsToCSV(bars, filename); err != nil {
				appLogger.Error(ctx, err, "Error writing CSV", map[string]interface{}{"filename": filename})
				log.Fatalf("Error writing CSV %s: %v", filename, err)
			}
			appLogger.Info(ctx, "Saved bars", map[string]interface{}{"filename": filename, "count": len(bars)})
		}
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"signalCore/internal/adapters/logger" // Import the logger package for LogLevel
	"signalCore/internal/ports"
	"signalCore/internal/risk"
	"signalCore/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	// Binance API (only needed when fetching bars; replay over CSV works without keys)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Instruments
	Symbols     []string // evaluated in lexicographic order
	Interval    string   // base timeframe, e.g. "1h"
	HTFInterval string   // higher timeframe for the bias filter, e.g. "4h"

	// Replay
	InitialFunds float64
	DataDir      string // directory holding <symbol>_<interval>.csv files
	CloseAtEnd   bool

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter

	// Engine configuration (defaults overridden from env)
	Engine strategy.Config
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	// Instruments
	symbolsStr := getEnv("SYMBOLS", "ETHUSDT")
	for _, s := range strings.Split(symbolsStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			cfg.Symbols = append(cfg.Symbols, s)
		}
	}
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must name at least one instrument")
	}

	cfg.Interval = getEnv("INTERVAL", "1h")
	if cfg.Interval == "" {
		errs = append(errs, "INTERVAL must be set")
	}
	cfg.HTFInterval = getEnv("HTF_INTERVAL", "4h")

	// Replay
	cfg.InitialFunds, err = getEnvAsFloatRequired("INITIAL_FUNDS", 10000.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INITIAL_FUNDS: %v", err))
	} else if cfg.InitialFunds <= 0 {
		errs = append(errs, "INITIAL_FUNDS must be positive")
	}

	cfg.DataDir = getEnv("DATA_DIR", "./data")
	if cfg.DataDir == "" {
		errs = append(errs, "DATA_DIR must be set")
	}
	cfg.CloseAtEnd = getEnvAsBool("CLOSE_AT_END", true)

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/signal_core.db")

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Engine configuration: start from defaults, apply env overrides.
	eng := strategy.DefaultConfig()

	switch mode := strings.ToLower(getEnv("ENTRY_MODE", string(eng.Mode))); mode {
	case string(strategy.ModeBoost), string(strategy.ModeFilter):
		eng.Mode = strategy.EntryMode(mode)
	default:
		errs = append(errs, fmt.Sprintf("invalid ENTRY_MODE '%s' (want 'boost' or 'filter')", mode))
	}

	eng.MinSignals = getEnvAsInt("MIN_SIGNALS", eng.MinSignals)
	eng.DynamicConfluence = getEnvAsBool("DYNAMIC_CONFLUENCE", eng.DynamicConfluence)
	eng.UseStructure = getEnvAsBool("USE_STRUCTURE", eng.UseStructure)
	eng.UseHTFBias = getEnvAsBool("USE_HTF_BIAS", eng.UseHTFBias)

	eng.MomentumBoost = getEnvAsFloat("MOMENTUM_BOOST", eng.MomentumBoost)
	eng.StructuralBoost = getEnvAsFloat("STRUCTURAL_BOOST", eng.StructuralBoost)
	eng.HTFBoost = getEnvAsFloat("HTF_BOOST", eng.HTFBoost)

	eng.FixedStopPct = getEnvAsFloat("FIXED_STOP_PCT", eng.FixedStopPct)
	eng.UseVolatilityStop = getEnvAsBool("USE_VOLATILITY_STOP", eng.UseVolatilityStop)
	eng.VolatilityStopATRMult = getEnvAsFloat("VOLATILITY_STOP_ATR_MULT", eng.VolatilityStopATRMult)
	eng.UseTrailingStop = getEnvAsBool("USE_TRAILING_STOP", eng.UseTrailingStop)
	eng.TrailingStopPct = getEnvAsFloat("TRAILING_STOP_PCT", eng.TrailingStopPct)
	eng.TrailingOffsetPct = getEnvAsFloat("TRAILING_OFFSET_PCT", eng.TrailingOffsetPct)

	eng.ConsensusProfit = getEnvAsInt("CONSENSUS_PROFIT", eng.ConsensusProfit)
	eng.ConsensusLoss = getEnvAsInt("CONSENSUS_LOSS", eng.ConsensusLoss)
	eng.UseRegimeExit = getEnvAsBool("USE_REGIME_EXIT", eng.UseRegimeExit)

	maxHoldingHours := getEnvAsInt("MAX_HOLDING_HOURS", int(eng.MaxHolding/time.Hour))
	if maxHoldingHours < 0 {
		errs = append(errs, "MAX_HOLDING_HOURS cannot be negative")
	} else {
		eng.MaxHolding = time.Duration(maxHoldingHours) * time.Hour
	}

	eng.Regime.ADXThreshold = getEnvAsFloat("ADX_THRESHOLD", eng.Regime.ADXThreshold)
	eng.Regime.ChopThreshold = getEnvAsFloat("CHOP_THRESHOLD", eng.Regime.ChopThreshold)

	eng.Sizing.RiskPerTrade = getEnvAsFloat("RISK_PER_TRADE", eng.Sizing.RiskPerTrade)
	eng.Sizing.EquityFractionCap = getEnvAsFloat("EQUITY_FRACTION_CAP", eng.Sizing.EquityFractionCap)
	eng.Sizing.MaxPerBoost = getEnvAsFloat("MAX_PER_BOOST", eng.Sizing.MaxPerBoost)
	eng.Sizing.MaxTotalBoost = getEnvAsFloat("MAX_TOTAL_BOOST", eng.Sizing.MaxTotalBoost)

	switch combine := strings.ToLower(getEnv("BOOST_COMBINE", string(eng.Sizing.Combine))); combine {
	case string(risk.CombineMultiplicative), string(risk.CombineAdditive):
		eng.Sizing.Combine = risk.BoostCombination(combine)
	default:
		errs = append(errs, fmt.Sprintf("invalid BOOST_COMBINE '%s' (want 'multiplicative' or 'additive')", combine))
	}

	cfg.Engine = eng

	// Combine validation errors. Engine-level validation runs in strategy.New.
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ports.ErrConfigurationError, strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

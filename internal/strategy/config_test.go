package strategy

import (
	"errors"
	"testing"
	"time"

	"signalCore/internal/ports"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default configuration rejected: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero Supertrend period", func(c *Config) { c.SupertrendPeriod = 0 }},
		{"negative Supertrend multiplier", func(c *Config) { c.SupertrendMultiplier = -1 }},
		{"WAE fast not below slow", func(c *Config) { c.WAEFastPeriod = 40 }},
		{"volatility lookback too small", func(c *Config) { c.VolLookback = 1 }},
		{"inverted volatility z-scores", func(c *Config) { c.VolHighZ = -1; c.VolLowZ = 1 }},
		{"unknown entry mode", func(c *Config) { c.Mode = "hybrid" }},
		{"min signals too low", func(c *Config) { c.MinSignals = 0 }},
		{"min signals too high", func(c *Config) { c.MinSignals = 4 }},
		{"structure without lookback", func(c *Config) { c.UseStructure = true; c.RangeLookback = 0 }},
		{"negative boost", func(c *Config) { c.MomentumBoost = -0.1 }},
		{"fixed stop at zero", func(c *Config) { c.FixedStopPct = 0 }},
		{"fixed stop at one", func(c *Config) { c.FixedStopPct = 1 }},
		{"volatility stop without multiplier", func(c *Config) { c.UseVolatilityStop = true; c.VolatilityStopATRMult = 0 }},
		{"trailing stop without percentage", func(c *Config) { c.UseTrailingStop = true; c.TrailingStopPct = 0 }},
		{"empty ROI ladder", func(c *Config) { c.ROILadder = nil }},
		{"ROI ladder not starting at zero", func(c *Config) {
			c.ROILadder = []ROIStep{{After: time.Hour, Target: 0.05}}
		}},
		{"ROI ladder out of order", func(c *Config) {
			c.ROILadder = []ROIStep{
				{After: 0, Target: 0.12},
				{After: 12 * time.Hour, Target: 0.05},
				{After: 6 * time.Hour, Target: 0.08},
			}
		}},
		{"ROI ladder targets increasing", func(c *Config) {
			c.ROILadder = []ROIStep{
				{After: 0, Target: 0.05},
				{After: 6 * time.Hour, Target: 0.08},
			}
		}},
		{"ROI ladder target not positive", func(c *Config) {
			c.ROILadder = []ROIStep{{After: 0, Target: 0}}
		}},
		{"consensus threshold out of range", func(c *Config) { c.ConsensusLoss = 0 }},
		{"profit consensus looser than loss", func(c *Config) { c.ConsensusProfit = 1; c.ConsensusLoss = 2 }},
		{"regime exit not stricter than gate", func(c *Config) {
			c.UseRegimeExit = true
			c.RegimeExitADX = c.Regime.ADXThreshold
		}},
		{"regime exit without profit band", func(c *Config) {
			c.UseRegimeExit = true
			c.RegimeExitADX = 30
			c.RegimeExitProfitBand = 0
		}},
		{"negative max holding", func(c *Config) { c.MaxHolding = -time.Hour }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, ports.ErrConfigurationError) {
				t.Errorf("expected a configuration error, got %v", err)
			}
		})
	}
}

func TestROITarget(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0.12},
		{5 * time.Hour, 0.12},
		{6 * time.Hour, 0.08},
		{11 * time.Hour, 0.08},
		{12 * time.Hour, 0.05},
		{24 * time.Hour, 0.03},
		{48 * time.Hour, 0.02},
		{100 * time.Hour, 0.02},
	}
	for _, tt := range tests {
		if got := cfg.ROITarget(tt.elapsed); got != tt.want {
			t.Errorf("ROITarget(%v) = %.2f, want %.2f", tt.elapsed, got, tt.want)
		}
	}
}

package risk

import (
	"context"
	"errors"
	"math"
	"testing"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}
func (nopLogger) Fatal(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func defaultSizerConfig() Config {
	return Config{
		RiskPerTrade:      0.02,
		EquityFractionCap: 0.10,
		Combine:           CombineMultiplicative,
		MaxPerBoost:       0.15,
		MaxTotalBoost:     1.25,
	}
}

func TestNewSizerValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero risk per trade", func(c *Config) { c.RiskPerTrade = 0 }},
		{"risk per trade above one", func(c *Config) { c.RiskPerTrade = 1.5 }},
		{"zero equity cap", func(c *Config) { c.EquityFractionCap = 0 }},
		{"unknown combination", func(c *Config) { c.Combine = "harmonic" }},
		{"total boost below one", func(c *Config) { c.MaxTotalBoost = 0.9 }},
		{"negative per-boost cap", func(c *Config) { c.MaxPerBoost = -0.1 }},
	}
	for _, tc := range cases {
		cfg := defaultSizerConfig()
		tc.mutate(&cfg)
		_, err := NewSizer(cfg, nopLogger{})
		if err == nil {
			t.Errorf("%s: expected configuration error", tc.name)
		} else if !errors.Is(err, ports.ErrConfigurationError) {
			t.Errorf("%s: expected ErrConfigurationError, got %v", tc.name, err)
		}
	}

	if _, err := NewSizer(defaultSizerConfig(), nil); err == nil {
		t.Error("expected error for nil logger")
	}
}

func TestStakeWithBoosts(t *testing.T) {
	sizer, err := NewSizer(defaultSizerConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewSizer failed: %v", err)
	}

	snap := &domain.IndicatorSnapshot{Defined: true, VolMultiplier: 1.0}
	boosts := domain.BoostFactors{Momentum: 1.10, Structural: 1.05, HTFBias: 1.10}

	stake, err := sizer.Stake(context.Background(), 10000, 10000, snap, boosts)
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	// Base 200; 1.10*1.05*1.10 = 1.27050 hits the 1.25 total cap.
	want := 10000 * 0.02 * math.Min(1.25, 1.10*1.05*1.10)
	if math.Abs(stake-want) > 1e-9 {
		t.Errorf("expected stake %f, got %f", want, stake)
	}
}

func TestStakeVolatilityScaling(t *testing.T) {
	sizer, err := NewSizer(defaultSizerConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewSizer failed: %v", err)
	}

	highVol := &domain.IndicatorSnapshot{Defined: true, VolRegime: domain.VolRegimeHigh, VolMultiplier: 0.5}
	stake, err := sizer.Stake(context.Background(), 10000, 10000, highVol, domain.NoBoosts())
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if math.Abs(stake-100) > 1e-9 {
		t.Errorf("expected high-volatility stake 100, got %f", stake)
	}

	lowVol := &domain.IndicatorSnapshot{Defined: true, VolRegime: domain.VolRegimeLow, VolMultiplier: 1.2}
	stake, err = sizer.Stake(context.Background(), 10000, 10000, lowVol, domain.NoBoosts())
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if math.Abs(stake-240) > 1e-9 {
		t.Errorf("expected low-volatility stake 240, got %f", stake)
	}
}

func TestStakeUndefinedSnapshotFallsBackToBase(t *testing.T) {
	sizer, err := NewSizer(defaultSizerConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewSizer failed: %v", err)
	}

	undefined := &domain.IndicatorSnapshot{Defined: false, VolMultiplier: 0.5}
	boosts := domain.BoostFactors{Momentum: 1.10, Structural: 1.05, HTFBias: 1.10}

	stake, err := sizer.Stake(context.Background(), 10000, 10000, undefined, boosts)
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	// Boosts and volatility scaling dropped, base alone.
	if math.Abs(stake-200) > 1e-9 {
		t.Errorf("expected base stake 200, got %f", stake)
	}

	stake, err = sizer.Stake(context.Background(), 10000, 10000, nil, boosts)
	if err != nil {
		t.Fatalf("Stake failed for nil snapshot: %v", err)
	}
	if math.Abs(stake-200) > 1e-9 {
		t.Errorf("expected base stake 200 for nil snapshot, got %f", stake)
	}
}

func TestStakeClamps(t *testing.T) {
	cfg := defaultSizerConfig()
	cfg.RiskPerTrade = 0.2
	cfg.EquityFractionCap = 0.10
	sizer, err := NewSizer(cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewSizer failed: %v", err)
	}

	snap := &domain.IndicatorSnapshot{Defined: true, VolMultiplier: 1.0}

	// Equity cap binds before the raw base amount.
	stake, err := sizer.Stake(context.Background(), 10000, 10000, snap, domain.NoBoosts())
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if math.Abs(stake-1000) > 1e-9 {
		t.Errorf("expected equity-capped stake 1000, got %f", stake)
	}

	// Free capital binds when lower than the cap.
	stake, err = sizer.Stake(context.Background(), 10000, 400, snap, domain.NoBoosts())
	if err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if math.Abs(stake-400) > 1e-9 {
		t.Errorf("expected free-capital-capped stake 400, got %f", stake)
	}

	// No free capital at all.
	_, err = sizer.Stake(context.Background(), 10000, 0, snap, domain.NoBoosts())
	if !errors.Is(err, ports.ErrInsufficientCapital) {
		t.Errorf("expected ErrInsufficientCapital, got %v", err)
	}

	// Non-positive equity violates the sizing invariant.
	_, err = sizer.Stake(context.Background(), 0, 100, snap, domain.NoBoosts())
	if !errors.Is(err, ports.ErrInvariantViolation) {
		t.Errorf("expected ErrInvariantViolation, got %v", err)
	}
}

func TestCombineBoosts(t *testing.T) {
	mult, err := NewSizer(defaultSizerConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewSizer failed: %v", err)
	}

	// Per-boost increment clamp: 1.30 clamps to 1.15.
	got := mult.CombineBoosts(domain.BoostFactors{Momentum: 1.30, Structural: 1.0, HTFBias: 1.0})
	if math.Abs(got-1.15) > 1e-9 {
		t.Errorf("expected per-boost clamp to 1.15, got %f", got)
	}

	// Total clamp: 1.15 * 1.15 = 1.3225 clamps to 1.25.
	got = mult.CombineBoosts(domain.BoostFactors{Momentum: 1.15, Structural: 1.15, HTFBias: 1.0})
	if math.Abs(got-1.25) > 1e-9 {
		t.Errorf("expected total clamp to 1.25, got %f", got)
	}

	// Sub-one and zero factors are treated as inactive.
	got = mult.CombineBoosts(domain.BoostFactors{Momentum: 0.8, Structural: 0, HTFBias: 1.10})
	if math.Abs(got-1.10) > 1e-9 {
		t.Errorf("expected inactive factors to contribute nothing, got %f", got)
	}

	addCfg := defaultSizerConfig()
	addCfg.Combine = CombineAdditive
	add, err := NewSizer(addCfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewSizer failed: %v", err)
	}

	// Additive: 1 + 0.10 + 0.05 + 0.10 = 1.25.
	got = add.CombineBoosts(domain.BoostFactors{Momentum: 1.10, Structural: 1.05, HTFBias: 1.10})
	if math.Abs(got-1.25) > 1e-9 {
		t.Errorf("expected additive combination 1.25, got %f", got)
	}
}

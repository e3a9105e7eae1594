package risk

import (
	"context"
	"fmt"
	"math"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
)

// BoostCombination selects how the active boost factors aggregate.
type BoostCombination string

const (
	// CombineMultiplicative multiplies the factors, then caps the product.
	CombineMultiplicative BoostCombination = "multiplicative"
	// CombineAdditive sums the factor increments, then caps the sum.
	CombineAdditive BoostCombination = "additive"
)

// Config holds configuration for position sizing.
type Config struct {
	RiskPerTrade      float64          // base stake as a fraction of equity, e.g. 0.02
	EquityFractionCap float64          // stake never exceeds equity * cap, e.g. 0.10
	Combine           BoostCombination // how boost factors aggregate
	MaxPerBoost       float64          // cap on each single boost increment, e.g. 0.15
	MaxTotalBoost     float64          // cap on the combined multiplier, e.g. 1.25
}

// Sizer implements position sizing: a volatility-scaled base risk amount
// multiplied by the capped combination of the active boost factors.
type Sizer struct {
	cfg    Config
	logger ports.Logger
}

// NewSizer creates a new position sizer.
func NewSizer(cfg Config, logger ports.Logger) (*Sizer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for sizer")
	}
	if cfg.RiskPerTrade <= 0 || cfg.RiskPerTrade >= 1 {
		return nil, fmt.Errorf("%w: risk per trade must be in (0, 1)", ports.ErrConfigurationError)
	}
	if cfg.EquityFractionCap <= 0 || cfg.EquityFractionCap > 1 {
		return nil, fmt.Errorf("%w: equity fraction cap must be in (0, 1]", ports.ErrConfigurationError)
	}
	if cfg.Combine != CombineMultiplicative && cfg.Combine != CombineAdditive {
		return nil, fmt.Errorf("%w: unknown boost combination %q", ports.ErrConfigurationError, cfg.Combine)
	}
	if cfg.MaxTotalBoost < 1 {
		return nil, fmt.Errorf("%w: max total boost must be at least 1", ports.ErrConfigurationError)
	}
	if cfg.MaxPerBoost < 0 {
		return nil, fmt.Errorf("%w: max per-boost increment cannot be negative", ports.ErrConfigurationError)
	}
	return &Sizer{cfg: cfg, logger: logger}, nil
}

// Stake computes the stake for a new position.
//
// The base amount is equity * RiskPerTrade, scaled down or up by the
// snapshot's volatility-regime multiplier. When the snapshot is undefined
// the boosts and the volatility scaling are dropped and the base amount
// alone is used. The result is clamped to min(equity cap, free capital)
// and is guaranteed strictly positive.
func (s *Sizer) Stake(ctx context.Context, equity, freeCapital float64, snap *domain.IndicatorSnapshot, boosts domain.BoostFactors) (float64, error) {
	if equity <= 0 {
		return 0, fmt.Errorf("%w: equity must be positive, got %f", ports.ErrInvariantViolation, equity)
	}

	base := equity * s.cfg.RiskPerTrade
	multiplier := 1.0

	if snap != nil && snap.Defined {
		if snap.VolMultiplier > 0 {
			base *= snap.VolMultiplier
		}
		multiplier = s.CombineBoosts(boosts)
	} else {
		s.logger.Debug(ctx, "Sizing without boosts: indicator snapshot undefined")
	}

	stake := base * multiplier

	maxStake := equity * s.cfg.EquityFractionCap
	if stake > maxStake {
		stake = maxStake
	}
	if stake > freeCapital {
		stake = freeCapital
	}
	if stake <= 0 {
		return 0, fmt.Errorf("%w: no free capital for stake (free=%f)", ports.ErrInsufficientCapital, freeCapital)
	}

	s.logger.Debug(ctx, "Stake computed", map[string]interface{}{
		"equity":     equity,
		"base":       base,
		"multiplier": multiplier,
		"stake":      stake,
	})
	return stake, nil
}

// CombineBoosts aggregates the boost factors under the configured strategy.
// Each factor's increment is first clamped to MaxPerBoost, the combined
// multiplier is then clamped to MaxTotalBoost.
func (s *Sizer) CombineBoosts(boosts domain.BoostFactors) float64 {
	factors := []float64{boosts.Momentum, boosts.Structural, boosts.HTFBias}

	combined := 1.0
	sum := 0.0
	for _, f := range factors {
		if f <= 0 {
			f = 1.0
		}
		increment := math.Min(f-1, s.cfg.MaxPerBoost)
		if increment < 0 {
			increment = 0
		}
		combined *= 1 + increment
		sum += increment
	}

	if s.cfg.Combine == CombineAdditive {
		combined = 1 + sum
	}
	return math.Min(combined, s.cfg.MaxTotalBoost)
}

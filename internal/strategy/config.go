package strategy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"signalCore/internal/ports"
	"signalCore/internal/regime"
	"signalCore/internal/risk"
)

// EntryMode selects whether structural and higher-timeframe conditions only
// scale position size (boost) or also block entry (filter).
type EntryMode string

const (
	ModeBoost  EntryMode = "boost"
	ModeFilter EntryMode = "filter"
)

// ROIStep is one rung of the ROI ladder: after the given holding duration,
// the given profit fraction is enough to exit.
type ROIStep struct {
	After  time.Duration
	Target float64
}

// Config is the single immutable configuration value passed into every
// component. No component reads environment or global state; behavior is a
// pure function of (history, configuration, position state).
type Config struct {
	// Trend lines
	SupertrendPeriod     int
	SupertrendMultiplier float64
	HalfTrendAmplitude   int

	// Momentum oscillator
	QQERSIPeriod  int
	QQESmoothing  int
	QQEFastFactor float64

	// Volatility explosion gauge
	WAESensitivity float64
	WAEFastPeriod  int
	WAESlowPeriod  int
	WAEBBPeriod    int
	WAEBBDeviation float64
	WAEDeadZone    float64

	// Volatility
	ATRPeriod   int
	VolLookback int
	VolHighZ    float64
	VolLowZ     float64
	VolHighMult float64
	VolLowMult  float64

	// Regime gates
	ADXPeriod  int
	ChopPeriod int
	Regime     regime.Config

	// Structural levels (optional)
	UseStructure  bool
	RangeLookback int
	ZoneATRFactor float64

	// Higher-timeframe bias (optional)
	UseHTFBias   bool
	HTFRSIPeriod int
	HTFMAPeriod  int
	HTFOBVPeriod int

	// Entry
	Mode              EntryMode
	MinSignals        int  // confluence minimum, typically 2 or 3 of 3
	DynamicConfluence bool // raise the minimum by one in the high-vol regime

	// Boost increments applied when the corresponding condition holds
	MomentumBoost   float64 // e.g. 0.10 for +10%
	StructuralBoost float64 // e.g. 0.05
	HTFBoost        float64 // e.g. 0.10

	// Exit chain
	FixedStopPct          float64 // always active, e.g. 0.08
	UseVolatilityStop     bool
	VolatilityStopATRMult float64 // e.g. 3.0
	UseTrailingStop       bool
	TrailingStopPct       float64 // e.g. 0.03
	TrailingOffsetPct     float64 // profit needed before trailing arms, e.g. 0.05
	ROILadder             []ROIStep
	ConsensusProfit       int // opposite votes needed to exit a winning trade
	ConsensusLoss         int // opposite votes needed to exit a losing trade
	UseRegimeExit         bool
	RegimeExitADX         float64 // stricter than the entry gate threshold
	RegimeExitProfitBand  float64 // deterioration fires only inside (0, band]
	MaxHolding            time.Duration // 0 disables the forced time exit

	// Sizing
	Sizing risk.Config
}

// DefaultConfig returns the baseline parameter set.
func DefaultConfig() Config {
	return Config{
		SupertrendPeriod:     10,
		SupertrendMultiplier: 3.0,
		HalfTrendAmplitude:   2,

		QQERSIPeriod:  14,
		QQESmoothing:  5,
		QQEFastFactor: 4.236,

		WAESensitivity: 150,
		WAEFastPeriod:  20,
		WAESlowPeriod:  40,
		WAEBBPeriod:    20,
		WAEBBDeviation: 2.0,
		WAEDeadZone:    0,

		ATRPeriod:   14,
		VolLookback: 50,
		VolHighZ:    1.5,
		VolLowZ:     -0.5,
		VolHighMult: 0.5,
		VolLowMult:  1.2,

		ADXPeriod:  14,
		ChopPeriod: 14,
		Regime: regime.Config{
			ADXThreshold:  25,
			ChopThreshold: 60,
		},

		UseStructure:  true,
		RangeLookback: 96,
		ZoneATRFactor: 0.5,

		UseHTFBias:   true,
		HTFRSIPeriod: 14,
		HTFMAPeriod:  20,
		HTFOBVPeriod: 10,

		Mode:              ModeBoost,
		MinSignals:        2,
		DynamicConfluence: true,

		MomentumBoost:   0.10,
		StructuralBoost: 0.05,
		HTFBoost:        0.10,

		FixedStopPct:          0.08,
		UseVolatilityStop:     true,
		VolatilityStopATRMult: 3.0,
		UseTrailingStop:       false,
		TrailingStopPct:       0.03,
		TrailingOffsetPct:     0.05,
		ROILadder: []ROIStep{
			{After: 0, Target: 0.12},
			{After: 6 * time.Hour, Target: 0.08},
			{After: 12 * time.Hour, Target: 0.05},
			{After: 24 * time.Hour, Target: 0.03},
			{After: 48 * time.Hour, Target: 0.02},
		},
		ConsensusProfit:      3,
		ConsensusLoss:        2,
		UseRegimeExit:        false,
		RegimeExitADX:        30,
		RegimeExitProfitBand: 0.01,
		MaxHolding:           0,

		Sizing: risk.Config{
			RiskPerTrade:      0.02,
			EquityFractionCap: 0.10,
			Combine:           risk.CombineMultiplicative,
			MaxPerBoost:       0.15,
			MaxTotalBoost:     1.25,
		},
	}
}

// Validate rejects inconsistent configurations at load time.
func (c Config) Validate() error {
	var errs []string

	if c.SupertrendPeriod <= 0 || c.HalfTrendAmplitude <= 0 || c.QQERSIPeriod <= 0 ||
		c.QQESmoothing <= 0 || c.ATRPeriod <= 0 || c.ADXPeriod <= 0 || c.ChopPeriod <= 0 {
		errs = append(errs, "indicator periods must be positive")
	}
	if c.SupertrendMultiplier <= 0 {
		errs = append(errs, "Supertrend multiplier must be positive")
	}
	if c.WAEFastPeriod <= 0 || c.WAESlowPeriod <= 0 || c.WAEBBPeriod <= 0 {
		errs = append(errs, "WAE periods must be positive")
	}
	if c.WAEFastPeriod >= c.WAESlowPeriod {
		errs = append(errs, "WAE fast period must be less than slow period")
	}
	if c.VolLookback <= 1 {
		errs = append(errs, "volatility lookback must be greater than 1")
	}
	if c.VolHighZ <= c.VolLowZ {
		errs = append(errs, "volatility high z-score must exceed low z-score")
	}
	if c.VolHighMult <= 0 || c.VolLowMult <= 0 {
		errs = append(errs, "volatility regime multipliers must be positive")
	}
	if c.Regime.ADXThreshold <= 0 {
		errs = append(errs, "ADX threshold must be positive")
	}
	if c.Regime.ChopThreshold <= 0 || c.Regime.ChopThreshold > 100 {
		errs = append(errs, "choppiness threshold must be in (0, 100]")
	}

	if c.Mode != ModeBoost && c.Mode != ModeFilter {
		errs = append(errs, fmt.Sprintf("unknown entry mode %q", c.Mode))
	}
	if c.MinSignals < 1 || c.MinSignals > 3 {
		errs = append(errs, "minimum signals must be between 1 and 3")
	}
	if c.UseStructure && (c.RangeLookback <= 0 || c.ZoneATRFactor <= 0) {
		errs = append(errs, "structural levels require positive lookback and zone factor")
	}
	if c.UseHTFBias && (c.HTFRSIPeriod <= 0 || c.HTFMAPeriod <= 0 || c.HTFOBVPeriod <= 0) {
		errs = append(errs, "HTF bias periods must be positive")
	}
	if c.MomentumBoost < 0 || c.StructuralBoost < 0 || c.HTFBoost < 0 {
		errs = append(errs, "boost increments cannot be negative")
	}

	if c.FixedStopPct <= 0 || c.FixedStopPct >= 1 {
		errs = append(errs, "fixed stop must be between 0 and 1 (exclusive)")
	}
	if c.UseVolatilityStop && c.VolatilityStopATRMult <= 0 {
		errs = append(errs, "volatility stop requires a positive ATR multiplier")
	}
	if c.UseTrailingStop {
		if c.TrailingStopPct <= 0 || c.TrailingStopPct >= 1 {
			errs = append(errs, "trailing stop percentage must be between 0 and 1 (exclusive)")
		}
		if c.TrailingOffsetPct < 0 {
			errs = append(errs, "trailing activation offset cannot be negative")
		}
	}
	if len(c.ROILadder) == 0 {
		errs = append(errs, "ROI ladder cannot be empty")
	} else {
		if c.ROILadder[0].After != 0 {
			errs = append(errs, "ROI ladder must start at elapsed time zero")
		}
		if !sort.SliceIsSorted(c.ROILadder, func(i, j int) bool {
			return c.ROILadder[i].After < c.ROILadder[j].After
		}) {
			errs = append(errs, "ROI ladder steps must be ordered by elapsed time")
		}
		for i := 1; i < len(c.ROILadder); i++ {
			if c.ROILadder[i].Target > c.ROILadder[i-1].Target {
				errs = append(errs, "ROI ladder targets must be non-increasing over time")
				break
			}
		}
		for _, step := range c.ROILadder {
			if step.Target <= 0 {
				errs = append(errs, "ROI ladder targets must be positive")
				break
			}
		}
	}
	if c.ConsensusProfit < 1 || c.ConsensusProfit > 3 || c.ConsensusLoss < 1 || c.ConsensusLoss > 3 {
		errs = append(errs, "consensus thresholds must be between 1 and 3")
	}
	if c.ConsensusProfit < c.ConsensusLoss {
		errs = append(errs, "profitable-side consensus threshold cannot be looser than the losing-side threshold")
	}
	if c.UseRegimeExit {
		if c.RegimeExitADX <= c.Regime.ADXThreshold {
			errs = append(errs, "regime exit ADX threshold must be stricter than the entry gate threshold")
		}
		if c.RegimeExitProfitBand <= 0 {
			errs = append(errs, "regime exit profit band must be positive")
		}
	}
	if c.MaxHolding < 0 {
		errs = append(errs, "max holding duration cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ports.ErrConfigurationError, strings.Join(errs, "; "))
	}
	return nil
}

// ROITarget returns the profit fraction required after the given holding
// duration: the target of the deepest ladder step already reached.
func (c Config) ROITarget(elapsed time.Duration) float64 {
	target := c.ROILadder[0].Target
	for _, step := range c.ROILadder {
		if elapsed >= step.After {
			target = step.Target
		}
	}
	return target
}

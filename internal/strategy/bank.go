package strategy

import (
	"context"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
	"signalCore/internal/strategy/indicators"
)

// IndicatorBank computes the full derived-value set for one closed bar.
// It is a pure function of history: bars at or before the snapshot's own
// timestamp, nothing else.
type IndicatorBank struct {
	cfg    Config
	logger ports.Logger

	supertrend *indicators.Supertrend
	halftrend  *indicators.HalfTrend
	qqe        *indicators.QQE
	wae        *indicators.WAE
	atr        *indicators.ATR
	adx        *indicators.ADX
	chop       *indicators.Choppiness
	volRegime  *indicators.VolRegime
	ranges     *indicators.Ranges
	htfBias    *indicators.HTFBias
}

// NewIndicatorBank creates an indicator bank from a validated config.
func NewIndicatorBank(cfg Config, logger ports.Logger) *IndicatorBank {
	b := &IndicatorBank{
		cfg:    cfg,
		logger: logger,
		supertrend: indicators.NewSupertrend(indicators.SupertrendConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.SupertrendPeriod},
			Multiplier:      cfg.SupertrendMultiplier,
		}),
		halftrend: indicators.NewHalfTrend(indicators.HalfTrendConfig{
			Amplitude: cfg.HalfTrendAmplitude,
		}),
		qqe: indicators.NewQQE(indicators.QQEConfig{
			RSIPeriod:  cfg.QQERSIPeriod,
			Smoothing:  cfg.QQESmoothing,
			FastFactor: cfg.QQEFastFactor,
		}),
		wae: indicators.NewWAE(indicators.WAEConfig{
			Sensitivity: cfg.WAESensitivity,
			FastPeriod:  cfg.WAEFastPeriod,
			SlowPeriod:  cfg.WAESlowPeriod,
			BBPeriod:    cfg.WAEBBPeriod,
			BBDeviation: cfg.WAEBBDeviation,
			DeadZone:    cfg.WAEDeadZone,
		}),
		atr: indicators.NewATR(indicators.ATRConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ATRPeriod},
		}),
		adx: indicators.NewADX(indicators.ADXConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ADXPeriod},
		}),
		chop: indicators.NewChoppiness(indicators.ChoppinessConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ChopPeriod},
		}),
		volRegime: indicators.NewVolRegime(indicators.VolRegimeConfig{
			ATRPeriod:      cfg.ATRPeriod,
			Lookback:       cfg.VolLookback,
			HighZ:          cfg.VolHighZ,
			LowZ:           cfg.VolLowZ,
			HighMultiplier: cfg.VolHighMult,
			LowMultiplier:  cfg.VolLowMult,
		}),
	}
	if cfg.UseStructure {
		b.ranges = indicators.NewRanges(indicators.RangeLevelsConfig{
			Lookback:      cfg.RangeLookback,
			ZoneATRFactor: cfg.ZoneATRFactor,
			ATRPeriod:     cfg.ATRPeriod,
		})
	}
	if cfg.UseHTFBias {
		b.htfBias = indicators.NewHTFBias(indicators.HTFBiasConfig{
			RSIPeriod: cfg.HTFRSIPeriod,
			MAPeriod:  cfg.HTFMAPeriod,
			OBVPeriod: cfg.HTFOBVPeriod,
		})
	}
	return b
}

// RequiredDataPoints returns the minimum history length for a fully defined
// snapshot.
func (b *IndicatorBank) RequiredDataPoints() int {
	required := []int{
		b.supertrend.RequiredDataPoints(),
		b.halftrend.RequiredDataPoints(),
		b.qqe.RequiredDataPoints(),
		b.wae.RequiredDataPoints(),
		b.atr.RequiredDataPoints(),
		b.adx.RequiredDataPoints(),
		b.chop.RequiredDataPoints(),
		b.volRegime.RequiredDataPoints(),
	}
	if b.ranges != nil {
		required = append(required, b.ranges.RequiredDataPoints())
	}
	max := 0
	for _, r := range required {
		if r > max {
			max = r
		}
	}
	return max
}

// Snapshot computes the indicator snapshot for the last bar of bars.
// htfBars carries the coarser-timeframe history for the bias vote; it may be
// nil when the bias is disabled.
//
// When any indicator lacks history the snapshot comes back with
// Defined == false and downstream components must treat it as "no signal".
func (b *IndicatorBank) Snapshot(ctx context.Context, bars []*domain.Bar, htfBars []*domain.Bar) *domain.IndicatorSnapshot {
	snap := &domain.IndicatorSnapshot{
		SupertrendDir: domain.TrendFlat,
		HalfTrendDir:  domain.TrendFlat,
		QQEDir:        domain.TrendFlat,
		ExplosionDir:  domain.TrendFlat,
		HTFBias:       domain.TrendFlat,
		VolRegime:     domain.VolRegimeNormal,
		VolMultiplier: 1.0,
	}
	if len(bars) == 0 {
		return snap
	}
	last := bars[len(bars)-1]
	snap.Time = last.CloseTime
	snap.Close = last.Close

	if len(bars) < b.RequiredDataPoints() {
		b.logger.Debug(ctx, "Snapshot undefined: insufficient history", map[string]interface{}{
			"available": len(bars),
			"required":  b.RequiredDataPoints(),
		})
		return snap
	}

	stLine, stDir, err := b.supertrend.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "supertrend", err)
	}
	snap.SupertrendLine, snap.SupertrendDir = stLine, stDir

	htLine, htDir, err := b.halftrend.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "halftrend", err)
	}
	snap.HalfTrendLine, snap.HalfTrendDir = htLine, htDir

	qqeVal, qqeDir, err := b.qqe.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "qqe", err)
	}
	snap.QQEValue, snap.QQEDir = qqeVal, qqeDir

	explosive, expDir, err := b.wae.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "wae", err)
	}
	snap.Explosive, snap.ExplosionDir = explosive, expDir

	atr, err := b.atr.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "atr", err)
	}
	snap.ATR = atr

	adx, err := b.adx.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "adx", err)
	}
	snap.ADX, snap.PlusDI, snap.MinusDI = adx.ADX, adx.PlusDI, adx.MinusDI

	chop, err := b.chop.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "choppiness", err)
	}
	snap.Choppiness = chop

	vol, err := b.volRegime.Calculate(ctx, bars)
	if err != nil {
		return b.undefined(ctx, snap, "vol_regime", err)
	}
	snap.VolRegime, snap.VolMultiplier = vol.Regime, vol.Multiplier

	if b.ranges != nil {
		levels, err := b.ranges.Calculate(ctx, bars)
		if err != nil {
			return b.undefined(ctx, snap, "ranges", err)
		}
		snap.HasStructure = true
		snap.RangeHigh = levels.RangeHigh
		snap.RangeLow = levels.RangeLow
		snap.RangeEq = levels.Equilibrium
		snap.InDemandZone = levels.InDemandZone
		snap.InSupplyZone = levels.InSupplyZone
		snap.ReclaimedEq = levels.ReclaimedEq
	}

	// The HTF bias is optional history: if the coarse series is too short
	// the snapshot stays defined and the bias simply carries no vote.
	if b.htfBias != nil {
		bias, err := b.htfBias.Calculate(ctx, htfBars, last.CloseTime)
		if err == nil {
			snap.HasHTFBias = true
			snap.HTFBias = bias
		} else {
			b.logger.Debug(ctx, "HTF bias unavailable", map[string]interface{}{"reason": err.Error()})
		}
	}

	snap.Defined = true
	return snap
}

func (b *IndicatorBank) undefined(ctx context.Context, snap *domain.IndicatorSnapshot, name string, err error) *domain.IndicatorSnapshot {
	b.logger.Debug(ctx, "Snapshot undefined: indicator failed", map[string]interface{}{
		"indicator": name,
		"reason":    err.Error(),
	})
	return snap
}

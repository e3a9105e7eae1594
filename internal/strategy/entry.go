package strategy

import (
	"context"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
	"signalCore/internal/regime"
)

// EntryEngine produces entry signals from regime gates and indicator
// confluence, together with the audit trail of contributing indicators and
// boosts.
type EntryEngine struct {
	cfg    Config
	logger ports.Logger
}

// NewEntryEngine creates a new entry decision engine.
func NewEntryEngine(cfg Config, logger ports.Logger) *EntryEngine {
	return &EntryEngine{cfg: cfg, logger: logger}
}

// EffectiveMinSignals returns the confluence minimum after the optional
// high-volatility tightening.
func (e *EntryEngine) EffectiveMinSignals(snap *domain.IndicatorSnapshot) int {
	min := e.cfg.MinSignals
	if e.cfg.DynamicConfluence && snap.VolRegime == domain.VolRegimeHigh {
		min++
		if min > len(domain.TrendIndicatorNames) {
			min = len(domain.TrendIndicatorNames)
		}
	}
	return min
}

// Evaluate decides whether a long entry fires on this bar.
//
// Both modes require the regime gate and the confluence minimum. In filter
// mode the structural and higher-timeframe conditions additionally block the
// entry when false; in boost mode they only feed the sizing boosts.
func (e *EntryEngine) Evaluate(ctx context.Context, snap *domain.IndicatorSnapshot, st regime.State) *domain.EntrySignal {
	sig := &domain.EntrySignal{
		Time:      snap.Time,
		Direction: domain.TrendUp,
		Boosts:    domain.NoBoosts(),
	}

	if !snap.Defined {
		sig.BlockedBy = "undefined_snapshot"
		return sig
	}

	sig.MinSignals = e.EffectiveMinSignals(snap)
	sig.Confluence = snap.ConfluenceCount(domain.TrendUp)
	sig.Contributors = snap.Agreeing(domain.TrendUp)

	if !st.Tradeable {
		sig.BlockedBy = "regime_gate"
		return sig
	}
	if sig.Confluence < sig.MinSignals {
		sig.BlockedBy = "confluence"
		return sig
	}

	structuralOK := snap.HasStructure && (snap.InDemandZone || snap.ReclaimedEq)
	htfOK := snap.HasHTFBias && snap.HTFBias == domain.TrendUp

	if e.cfg.Mode == ModeFilter {
		if e.cfg.UseStructure && !structuralOK {
			sig.BlockedBy = "structure_filter"
			return sig
		}
		if e.cfg.UseHTFBias && !htfOK {
			sig.BlockedBy = "htf_filter"
			return sig
		}
	}

	if snap.Explosive && snap.ExplosionDir == domain.TrendUp {
		sig.Boosts.Momentum = 1 + e.cfg.MomentumBoost
	}
	if structuralOK {
		sig.Boosts.Structural = 1 + e.cfg.StructuralBoost
	}
	if htfOK {
		sig.Boosts.HTFBias = 1 + e.cfg.HTFBoost
	}

	sig.Enter = true
	e.logger.Debug(ctx, "Entry signal fired", map[string]interface{}{
		"confluence":   sig.Confluence,
		"minSignals":   sig.MinSignals,
		"contributors": sig.Contributors,
		"boosts":       sig.Boosts,
	})
	return sig
}

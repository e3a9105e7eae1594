package strategy

import (
	"context"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
)

// exitRule is one link of the exit chain. It either declines or produces the
// exit reason it owns; the reason is assigned by the rule at the moment it
// fires, never inferred afterwards from which threshold happened to match.
type exitRule struct {
	name string
	eval func(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason)
}

// ExitEngine evaluates the priority-ordered exit chain once per bar for each
// open position. The first matching rule wins; no further rules run.
type ExitEngine struct {
	cfg    Config
	logger ports.Logger
	rules  []exitRule
}

// NewExitEngine creates the exit decision engine with its rule chain.
func NewExitEngine(cfg Config, logger ports.Logger) *ExitEngine {
	e := &ExitEngine{cfg: cfg, logger: logger}

	e.rules = append(e.rules, exitRule{name: "protective_stop", eval: e.protectiveStop})
	if cfg.UseTrailingStop {
		e.rules = append(e.rules, exitRule{name: "trailing_stop", eval: e.trailingStop})
	}
	e.rules = append(e.rules, exitRule{name: "roi", eval: e.roi})
	if cfg.UseRegimeExit {
		e.rules = append(e.rules, exitRule{name: "regime_deterioration", eval: e.regimeDeterioration})
	}
	e.rules = append(e.rules, exitRule{name: "signal_consensus", eval: e.signalConsensus})
	if cfg.MaxHolding > 0 {
		e.rules = append(e.rules, exitRule{name: "forced", eval: e.timeFailsafe})
	}
	return e
}

// Evaluate walks the chain and returns the single exit signal, or nil when
// the position stays open.
//
// An undefined snapshot restricts the chain to the always-active fixed stop:
// no indicator-derived rule may act on missing data.
func (e *ExitEngine) Evaluate(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) *domain.ExitSignal {
	if pos == nil || !pos.IsOpen() {
		return nil
	}

	if !snap.Defined {
		if fired, reason := e.fixedStopOnly(pos, snap); fired {
			return e.signal(ctx, snap, reason, "protective_stop")
		}
		return nil
	}

	for _, rule := range e.rules {
		if fired, reason := rule.eval(ctx, pos, snap); fired {
			return e.signal(ctx, snap, reason, rule.name)
		}
	}
	return nil
}

func (e *ExitEngine) signal(ctx context.Context, snap *domain.IndicatorSnapshot, reason domain.ExitReason, rule string) *domain.ExitSignal {
	e.logger.Debug(ctx, "Exit rule fired", map[string]interface{}{
		"rule":   rule,
		"reason": string(reason),
		"price":  snap.Close,
	})
	return &domain.ExitSignal{Time: snap.Time, Reason: reason, Price: snap.Close}
}

// protectiveStop combines the fixed percentage stop with the optional
// ATR-derived stop. When both are enabled the wider (less aggressive) bound
// is the active stop, and the exit is tagged with the mechanism that
// actually determined that bound.
func (e *ExitEngine) protectiveStop(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason) {
	fixedLevel := pos.EntryPrice * (1 - e.cfg.FixedStopPct)
	level := fixedLevel
	reason := domain.ExitReasonFixedStop

	if e.cfg.UseVolatilityStop && snap.ATR > 0 {
		volLevel := pos.EntryPrice - snap.ATR*e.cfg.VolatilityStopATRMult
		if volLevel < level {
			level = volLevel
			reason = domain.ExitReasonVolatilityStop
		}
	}

	if snap.Close <= level {
		return true, reason
	}
	return false, ""
}

// fixedStopOnly is the degraded form used when the snapshot is undefined.
func (e *ExitEngine) fixedStopOnly(pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason) {
	if snap.Close <= pos.EntryPrice*(1-e.cfg.FixedStopPct) {
		return true, domain.ExitReasonFixedStop
	}
	return false, ""
}

// trailingStop arms once the position's best excursion reaches the
// activation offset, then trails the running maximum price.
func (e *ExitEngine) trailingStop(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason) {
	if pos.MFE < e.cfg.TrailingOffsetPct {
		return false, ""
	}
	if snap.Close <= pos.HighestPrice*(1-e.cfg.TrailingStopPct) {
		return true, domain.ExitReasonTrailingStop
	}
	return false, ""
}

// roi exits once unrealized profit meets the ladder target for the current
// holding duration.
func (e *ExitEngine) roi(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason) {
	elapsed := snap.Time.Sub(pos.EntryTime)
	if pos.UnrealizedROI(snap.Close) >= e.cfg.ROITarget(elapsed) {
		return true, domain.ExitReasonROI
	}
	return false, ""
}

// regimeDeterioration proactively exits a stalling trade: trend strength has
// dropped below the stricter exit threshold, the directional balance has
// flipped against the position, and unrealized profit sits inside a small
// positive band. It runs ahead of the reversal consensus so a stall is
// tagged as deterioration, not as a full reversal.
func (e *ExitEngine) regimeDeterioration(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason) {
	roi := pos.UnrealizedROI(snap.Close)
	if snap.ADX < e.cfg.RegimeExitADX &&
		snap.MinusDI > snap.PlusDI &&
		roi > 0 && roi <= e.cfg.RegimeExitProfitBand {
		return true, domain.ExitReasonRegimeDeterioration
	}
	return false, ""
}

// signalConsensus exits when enough indicators now vote against the entry
// direction. The threshold may be stricter while the trade is profitable
// (asymmetric consensus).
func (e *ExitEngine) signalConsensus(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason) {
	threshold := e.cfg.ConsensusLoss
	if pos.UnrealizedROI(snap.Close) > 0 {
		threshold = e.cfg.ConsensusProfit
	}
	if snap.ConfluenceCount(domain.TrendDown) >= threshold {
		return true, domain.ExitReasonSignalConsensus
	}
	return false, ""
}

// timeFailsafe force-closes a position held past the maximum duration.
func (e *ExitEngine) timeFailsafe(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) (bool, domain.ExitReason) {
	if snap.Time.Sub(pos.EntryTime) >= e.cfg.MaxHolding {
		return true, domain.ExitReasonForced
	}
	return false, ""
}

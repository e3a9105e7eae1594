package strategy

import (
	"context"
	"fmt"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
	"signalCore/internal/regime"
	"signalCore/internal/risk"
)

// Engine bundles the per-bar decision components behind the two call points
// exposed to the external backtest/live collaborator: SizeQuery immediately
// before opening a position and ExitQuery once per bar for every open
// position.
//
// The engine is stateless across calls; evaluation is fully determined by
// (history, configuration, position state), which is what makes replays
// reproducible.
type Engine struct {
	cfg    Config
	logger ports.Logger

	bank       *IndicatorBank
	classifier *regime.Classifier
	entry      *EntryEngine
	exit       *ExitEngine
	sizer      *risk.Sizer
}

// New validates the configuration and assembles the engine.
func New(cfg Config, logger ports.Logger) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for engine")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	classifier, err := regime.New(cfg.Regime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrConfigurationError, err)
	}
	sizer, err := risk.NewSizer(cfg.Sizing, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		logger:     logger,
		bank:       NewIndicatorBank(cfg, logger),
		classifier: classifier,
		entry:      NewEntryEngine(cfg, logger),
		exit:       NewExitEngine(cfg, logger),
		sizer:      sizer,
	}, nil
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// RequiredDataPoints returns the minimum history length for fully defined
// snapshots.
func (e *Engine) RequiredDataPoints() int {
	return e.bank.RequiredDataPoints()
}

// Snapshot computes the indicator snapshot for the last closed bar.
func (e *Engine) Snapshot(ctx context.Context, bars, htfBars []*domain.Bar) *domain.IndicatorSnapshot {
	return e.bank.Snapshot(ctx, bars, htfBars)
}

// Classify evaluates the regime gates for a snapshot.
func (e *Engine) Classify(snap *domain.IndicatorSnapshot) regime.State {
	return e.classifier.Classify(snap)
}

// EvaluateEntry runs the regime gate and the entry decision for one bar.
func (e *Engine) EvaluateEntry(ctx context.Context, snap *domain.IndicatorSnapshot) (*domain.EntrySignal, regime.State) {
	st := e.classifier.Classify(snap)
	return e.entry.Evaluate(ctx, snap, st), st
}

// SizeQuery computes the stake for a position about to open. Callers pass
// the regime state the entry was evaluated under; a stake may never be
// produced while the regime gate is false.
func (e *Engine) SizeQuery(ctx context.Context, symbol string, equity, freeCapital float64, snap *domain.IndicatorSnapshot, st regime.State, boosts domain.BoostFactors) (float64, error) {
	if snap != nil && snap.Defined && !st.Tradeable {
		return 0, fmt.Errorf("%w: size query while regime gate is false for %s", ports.ErrInvariantViolation, symbol)
	}
	return e.sizer.Stake(ctx, equity, freeCapital, snap, boosts)
}

// ExitQuery evaluates the exit chain for one open position on one bar.
// It returns nil while the position stays open.
func (e *Engine) ExitQuery(ctx context.Context, pos *domain.Position, snap *domain.IndicatorSnapshot) *domain.ExitSignal {
	return e.exit.Evaluate(ctx, pos, snap)
}

// ForcedExit builds the exit signal for a close requested by the external
// accountant (shutdown, manual intervention) rather than by a chain rule.
func (e *Engine) ForcedExit(pos *domain.Position, price float64, snap *domain.IndicatorSnapshot) *domain.ExitSignal {
	return &domain.ExitSignal{Time: snap.Time, Reason: domain.ExitReasonForced, Price: price}
}

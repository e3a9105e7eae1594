package strategy

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"signalCore/internal/domain"
	"signalCore/internal/ports"
	"signalCore/internal/regime"
)

func TestNewEngine(t *testing.T) {
	if _, err := New(DefaultConfig(), nopLogger{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Error("expected an error for a nil logger")
	}

	bad := DefaultConfig()
	bad.MinSignals = 9
	_, err := New(bad, nopLogger{})
	if !errors.Is(err, ports.ErrConfigurationError) {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

func TestEngineSizeQuery(t *testing.T) {
	ctx := context.Background()
	engine, err := New(DefaultConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("gate violation", func(t *testing.T) {
		snap := upSnapshot(100)
		_, err := engine.SizeQuery(ctx, "ETHUSDT", 10000, 10000, snap, regime.State{Tradeable: false}, domain.NoBoosts())
		if !errors.Is(err, ports.ErrInvariantViolation) {
			t.Errorf("expected an invariant violation, got %v", err)
		}
	})

	t.Run("base stake", func(t *testing.T) {
		snap := upSnapshot(100)
		stake, err := engine.SizeQuery(ctx, "ETHUSDT", 10000, 10000, snap, regime.State{Tradeable: true}, domain.NoBoosts())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(stake-200) > 1e-9 {
			t.Errorf("stake = %.2f, want 200", stake)
		}
	})

	t.Run("undefined snapshot skips the gate check", func(t *testing.T) {
		snap := upSnapshot(100)
		snap.Defined = false
		stake, err := engine.SizeQuery(ctx, "ETHUSDT", 10000, 10000, snap, regime.State{Tradeable: false}, domain.NoBoosts())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(stake-200) > 1e-9 {
			t.Errorf("stake = %.2f, want the base 200", stake)
		}
	})
}

func TestEngineForcedExit(t *testing.T) {
	engine, err := New(DefaultConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := openPosition(100, snapTime.Add(-time.Hour))
	sig := engine.ForcedExit(pos, 103, upSnapshot(103))
	if sig.Reason != domain.ExitReasonForced {
		t.Errorf("Reason = %v, want forced", sig.Reason)
	}
	if sig.Price != 103 {
		t.Errorf("Price = %.2f, want 103", sig.Price)
	}
	if !sig.Time.Equal(snapTime) {
		t.Errorf("Time = %v, want the snapshot time", sig.Time)
	}
}

func TestEngineEvaluateEntry_Deterministic(t *testing.T) {
	ctx := context.Background()
	engine, err := New(DefaultConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := upSnapshot(100)
	snap.HasStructure = true
	snap.InDemandZone = true
	first, st1 := engine.EvaluateEntry(ctx, snap)
	second, st2 := engine.EvaluateEntry(ctx, snap)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluations diverged:\n%+v\n%+v", first, second)
	}
	if st1 != st2 {
		t.Errorf("regime states diverged: %+v vs %+v", st1, st2)
	}
	if !first.Enter {
		t.Errorf("expected an entry, blocked by %q", first.BlockedBy)
	}
}

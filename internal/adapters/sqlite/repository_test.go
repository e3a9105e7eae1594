package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"signalCore/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}
func (m *mockLogger) Fatal(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "signal-core-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func TestRepository_SaveAndFindDecision(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	fired := &domain.EntrySignal{
		Time:         now,
		Symbol:       "ETHUSDT",
		Enter:        true,
		Direction:    domain.TrendUp,
		Confluence:   3,
		MinSignals:   2,
		Contributors: []string{"supertrend", "halftrend", "qqe"},
		Boosts:       domain.BoostFactors{Momentum: 1.10, Structural: 1.05, HTFBias: 1.10},
	}
	blocked := &domain.EntrySignal{
		Time:       now.Add(time.Hour),
		Symbol:     "ETHUSDT",
		Enter:      false,
		Direction:  domain.TrendUp,
		Confluence: 2,
		MinSignals: 2,
		Boosts:     domain.NoBoosts(),
		BlockedBy:  "regime_gate",
	}

	id, err := repo.SaveDecision(ctx, fired)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = repo.SaveDecision(ctx, blocked)
	require.NoError(t, err)

	decisions, err := repo.FindDecisionsBySymbol(ctx, "ETHUSDT", 10)
	require.NoError(t, err)
	require.Len(t, decisions, 2)

	// Most recent first.
	got := decisions[0]
	assert.False(t, got.Enter)
	assert.Equal(t, "regime_gate", got.BlockedBy)
	assert.Empty(t, got.Contributors)

	got = decisions[1]
	assert.True(t, got.Enter)
	assert.Equal(t, domain.TrendUp, got.Direction)
	assert.Equal(t, 3, got.Confluence)
	assert.Equal(t, []string{"supertrend", "halftrend", "qqe"}, got.Contributors)
	assert.InDelta(t, 1.10, got.Boosts.Momentum, 1e-9)
	assert.InDelta(t, 1.05, got.Boosts.Structural, 1e-9)
	assert.Empty(t, got.BlockedBy)

	none, err := repo.FindDecisionsBySymbol(ctx, "BTCUSDT", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_SaveAndFindTrade(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	trade := &domain.Trade{
		PositionID: 7,
		Symbol:     "ETHUSDT",
		EntryPrice: 2000.0,
		ExitPrice:  2100.0,
		Stake:      500.0,
		PNL:        25.0,
		EntryTime:  now.Add(-6 * time.Hour),
		ExitTime:   now,
		ExitReason: domain.ExitReasonROI,
		MFE:        0.06,
		MAE:        -0.01,
	}

	id, err := repo.SaveTrade(ctx, trade)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	assert.Equal(t, id, trade.ID)

	trades, err := repo.FindTradesBySymbol(ctx, "ETHUSDT", 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)

	got := trades[0]
	assert.Equal(t, trade.PositionID, got.PositionID)
	assert.Equal(t, trade.EntryPrice, got.EntryPrice)
	assert.Equal(t, trade.ExitPrice, got.ExitPrice)
	assert.Equal(t, trade.Stake, got.Stake)
	assert.Equal(t, trade.PNL, got.PNL)
	assert.Equal(t, domain.ExitReasonROI, got.ExitReason)
	assert.InDelta(t, 0.06, got.MFE, 1e-9)
	assert.InDelta(t, -0.01, got.MAE, 1e-9)
}

func TestRepository_CountByReason(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	reasons := []domain.ExitReason{
		domain.ExitReasonROI,
		domain.ExitReasonROI,
		domain.ExitReasonFixedStop,
		domain.ExitReasonVolatilityStop,
	}
	for i, reason := range reasons {
		_, err := repo.SaveTrade(ctx, &domain.Trade{
			Symbol:     "ETHUSDT",
			EntryPrice: 2000.0,
			ExitPrice:  2050.0,
			Stake:      100.0,
			PNL:        float64(i),
			EntryTime:  now.Add(time.Duration(i) * time.Hour),
			ExitTime:   now.Add(time.Duration(i+1) * time.Hour),
			ExitReason: reason,
		})
		require.NoError(t, err)
	}

	counts, err := repo.CountByReason(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.ExitReasonROI])
	assert.Equal(t, 1, counts[domain.ExitReasonFixedStop])
	assert.Equal(t, 1, counts[domain.ExitReasonVolatilityStop])
	assert.Equal(t, 0, counts[domain.ExitReasonTrailingStop])
}

func TestRepository_GetTotalProfit(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Repository) error
		want  float64
	}{
		{
			name: "multiple trades",
			setup: func(r *Repository) error {
				trades := []*domain.Trade{
					{
						Symbol:     "ETHUSDT",
						EntryPrice: 2000.0,
						ExitPrice:  2100.0,
						Stake:      500.0,
						PNL:        25.0,
						EntryTime:  time.Now(),
						ExitTime:   time.Now(),
						ExitReason: domain.ExitReasonROI,
					},
					{
						Symbol:     "BTCUSDT",
						EntryPrice: 40000.0,
						ExitPrice:  38000.0,
						Stake:      400.0,
						PNL:        -20.0,
						EntryTime:  time.Now(),
						ExitTime:   time.Now(),
						ExitReason: domain.ExitReasonFixedStop,
					},
				}
				for _, trade := range trades {
					if _, err := r.SaveTrade(context.Background(), trade); err != nil {
						return err
					}
				}
				return nil
			},
			want: 5.0,
		},
		{
			name:  "no trades",
			setup: func(r *Repository) error { return nil },
			want:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cleanup := setupTestDB(t)
			defer cleanup()

			ctx := context.Background()

			err := tt.setup(repo)
			require.NoError(t, err)

			got, err := repo.GetTotalProfit(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"signalCore/internal/domain"
	"signalCore/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.DecisionRepository and ports.TradeRepository
// interfaces using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/signal_core.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Open database connection
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Set connection pool settings (important for SQLite)
	db.SetMaxOpenConns(1) // SQLite handles concurrency internally, but Go driver benefits from limiting connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
// NOTE: This is a basic approach. A proper migration tool is recommended for production.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		time TIMESTAMP NOT NULL,
		symbol TEXT NOT NULL,
		enter INTEGER NOT NULL,
		direction TEXT NOT NULL,
		confluence INTEGER NOT NULL,
		min_signals INTEGER NOT NULL,
		contributors TEXT NOT NULL DEFAULT '',
		boost_momentum REAL NOT NULL DEFAULT 1.0,
		boost_structural REAL NOT NULL DEFAULT 1.0,
		boost_htf REAL NOT NULL DEFAULT 1.0,
		blocked_by TEXT NULL
	);

	CREATE TABLE IF NOT EXISTS trade_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		position_id INTEGER NULL,
		symbol TEXT NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		stake REAL NOT NULL,
		pnl REAL NOT NULL,
		entry_time TIMESTAMP NOT NULL,
		exit_time TIMESTAMP NOT NULL,
		exit_reason TEXT NOT NULL,
		mfe REAL NOT NULL DEFAULT 0,
		mae REAL NOT NULL DEFAULT 0
	);
	-- Add indexes for common lookups
	CREATE INDEX IF NOT EXISTS idx_decisions_symbol_time ON decisions (symbol, time);
	CREATE INDEX IF NOT EXISTS idx_trade_history_symbol_entry_time ON trade_history (symbol, entry_time);
	CREATE INDEX IF NOT EXISTS idx_trade_history_exit_reason ON trade_history (exit_reason);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- DecisionRepository Implementation ---

// SaveDecision records one entry evaluation and returns its assigned ID.
func (r *Repository) SaveDecision(ctx context.Context, sig *domain.EntrySignal) (int64, error) {
	const query = `
	INSERT INTO decisions (time, symbol, enter, direction, confluence, min_signals,
	                       contributors, boost_momentum, boost_structural, boost_htf, blocked_by)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var blockedBy sql.NullString
	if sig.BlockedBy != "" {
		blockedBy = sql.NullString{String: sig.BlockedBy, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		sig.Time, sig.Symbol, sig.Enter, string(sig.Direction), sig.Confluence, sig.MinSignals,
		strings.Join(sig.Contributors, ","), sig.Boosts.Momentum, sig.Boosts.Structural, sig.Boosts.HTFBias,
		blockedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to insert decision for symbol %s: %w", sig.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for decision %s: %w", sig.Symbol, err)
	}
	r.logger.Debug(ctx, "Decision recorded", map[string]interface{}{"decisionID": id, "symbol": sig.Symbol, "enter": sig.Enter})
	return id, nil
}

// FindDecisionsBySymbol retrieves the most recent decisions for a symbol, up to a limit.
func (r *Repository) FindDecisionsBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.EntrySignal, error) {
	const query = `
	SELECT time, symbol, enter, direction, confluence, min_signals,
	       contributors, boost_momentum, boost_structural, boost_htf, blocked_by
	FROM decisions
	WHERE symbol = ? ORDER BY time DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions for symbol %s: %w", symbol, err)
	}
	defer rows.Close()

	decisions := make([]*domain.EntrySignal, 0)
	for rows.Next() {
		sig, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision during FindDecisionsBySymbol: %w", err)
		}
		decisions = append(decisions, sig)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating decision rows: %w", err)
	}
	return decisions, nil
}

// --- TradeRepository Implementation ---

// SaveTrade saves a new trade record and returns its assigned ID.
func (r *Repository) SaveTrade(ctx context.Context, trade *domain.Trade) (int64, error) {
	const query = `
	INSERT INTO trade_history (position_id, symbol, entry_price, exit_price, stake, pnl,
	                           entry_time, exit_time, exit_reason, mfe, mae)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var positionID sql.NullInt64
	if trade.PositionID != 0 {
		positionID = sql.NullInt64{Int64: trade.PositionID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		positionID, trade.Symbol, trade.EntryPrice, trade.ExitPrice, trade.Stake, trade.PNL,
		trade.EntryTime, trade.ExitTime, string(trade.ExitReason), trade.MFE, trade.MAE)
	if err != nil {
		return 0, fmt.Errorf("failed to insert trade history for symbol %s: %w", trade.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for trade history %s: %w", trade.Symbol, err)
	}
	trade.ID = id // Update domain object
	r.logger.Debug(ctx, "Trade history created", map[string]interface{}{"tradeID": id, "symbol": trade.Symbol, "pnl": trade.PNL})
	return id, nil
}

// FindTradesBySymbol retrieves the most recent trades for a given symbol, up to a limit.
func (r *Repository) FindTradesBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.Trade, error) {
	const query = `
	SELECT id, position_id, symbol, entry_price, exit_price, stake, pnl,
	       entry_time, exit_time, exit_reason, mfe, mae
	FROM trade_history
	WHERE symbol = ? ORDER BY entry_time DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade history for symbol %s: %w", symbol, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade history during FindTradesBySymbol: %w", err)
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade history rows: %w", err)
	}
	return trades, nil
}

// CountByReason returns how many stored trades closed under each exit reason.
func (r *Repository) CountByReason(ctx context.Context) (map[domain.ExitReason]int, error) {
	const query = `SELECT exit_reason, COUNT(*) FROM trade_history GROUP BY exit_reason`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count trades by exit reason: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ExitReason]int)
	for rows.Next() {
		var reason string
		var count int
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, fmt.Errorf("failed to scan exit reason count: %w", err)
		}
		counts[domain.ExitReason(reason)] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exit reason rows: %w", err)
	}
	return counts, nil
}

// GetTotalProfit calculates the sum of PNL over all stored trades.
func (r *Repository) GetTotalProfit(ctx context.Context) (float64, error) {
	const query = `SELECT COALESCE(SUM(pnl), 0) FROM trade_history`
	var totalProfit float64
	err := r.db.QueryRowContext(ctx, query).Scan(&totalProfit)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate total profit: %w", err)
	}
	return totalProfit, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanDecision scans a row into a domain.EntrySignal struct.
func scanDecision(s scanner) (*domain.EntrySignal, error) {
	sig := &domain.EntrySignal{}
	var direction, contributors string
	var blockedBy sql.NullString
	err := s.Scan(
		&sig.Time, &sig.Symbol, &sig.Enter, &direction, &sig.Confluence, &sig.MinSignals,
		&contributors, &sig.Boosts.Momentum, &sig.Boosts.Structural, &sig.Boosts.HTFBias, &blockedBy)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	sig.Direction = domain.TrendDirection(direction)
	if contributors != "" {
		sig.Contributors = strings.Split(contributors, ",")
	}
	if blockedBy.Valid {
		sig.BlockedBy = blockedBy.String
	}
	return sig, nil
}

// scanTrade scans a row into a domain.Trade struct.
func scanTrade(s scanner) (*domain.Trade, error) {
	th := &domain.Trade{}
	var positionID sql.NullInt64
	var reason string
	err := s.Scan(
		&th.ID, &positionID, &th.Symbol, &th.EntryPrice, &th.ExitPrice, &th.Stake, &th.PNL,
		&th.EntryTime, &th.ExitTime, &reason, &th.MFE, &th.MAE)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	if positionID.Valid {
		th.PositionID = positionID.Int64
	}
	th.ExitReason = domain.ExitReason(reason)
	return th, nil
}

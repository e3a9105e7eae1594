package ports

import "context"

// Logger is the logging port shared by the decision engine, the replay
// driver, and the adapters. Keeping it behind an interface lets the
// engine stay silent in tests and lets tooling swap the sink.
type Logger interface {
	// Debug carries per-bar evaluation detail: indicator readings,
	// vote tallies, gate outcomes.
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	// Info carries lifecycle events: entries, exits, run summaries.
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	// Warn carries degraded but non-fatal conditions, such as a replay
	// running without higher-timeframe history.
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	// Error carries failures, with the causing error alongside the message.
	Error(ctx context.Context, err error, msg string, fields ...map[string]interface{})
}

package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Decision Core Errors
	ErrInsufficientData    = errors.New("not enough history for indicator calculation")
	ErrInvariantViolation  = errors.New("decision invariant violated")
	ErrInsufficientCapital = errors.New("insufficient free capital for stake")

	// Data Source Errors
	ErrSourceUnavailable = errors.New("bar source is unavailable")
	ErrConnectionFailed  = errors.New("failed to connect to the bar source")
	ErrRateLimited       = errors.New("API rate limit exceeded")

	// Database Specific Errors
	ErrDuplicateEntry = errors.New("database record already exists")
	ErrDBConnection   = errors.New("database connection error")
	ErrQueryFailed    = errors.New("database query failed")
	ErrUpdateFailed   = errors.New("database update failed")
)

package domain

// TrendDirection is the directional state reported by a trend or momentum indicator.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// Opposite returns the reversed direction. Flat stays flat.
func (d TrendDirection) Opposite() TrendDirection {
	switch d {
	case TrendUp:
		return TrendDown
	case TrendDown:
		return TrendUp
	default:
		return TrendFlat
	}
}

// VolatilityRegime classifies current volatility relative to its recent history.
type VolatilityRegime string

const (
	VolRegimeHigh   VolatilityRegime = "high"
	VolRegimeNormal VolatilityRegime = "normal"
	VolRegimeLow    VolatilityRegime = "low"
)

// PositionStatus represents the status of a trading position.
type PositionStatus string

const (
	StatusOpen   PositionStatus = "open"
	StatusClosed PositionStatus = "closed"
)

// ExitReason indicates which exit rule closed a position.
// Exactly one reason is ever assigned per close; the rule that fires
// assigns its own tag, the tag is never inferred afterwards.
type ExitReason string

const (
	ExitReasonROI                 ExitReason = "roi"
	ExitReasonFixedStop           ExitReason = "fixed_stop"
	ExitReasonVolatilityStop      ExitReason = "volatility_stop"
	ExitReasonTrailingStop        ExitReason = "trailing_stop"
	ExitReasonSignalConsensus     ExitReason = "signal_consensus"
	ExitReasonRegimeDeterioration ExitReason = "regime_deterioration"
	ExitReasonForced              ExitReason = "forced"
)

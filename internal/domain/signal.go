package domain

import "time"

// BoostFactors holds the named sizing multipliers contributed by optional
// conditions. A factor of 1.0 means the boost is inactive. Each factor is
// independently capped before the factors are combined.
type BoostFactors struct {
	Momentum   float64 // volatility/momentum explosion
	Structural float64 // demand zone membership or equilibrium reclaim
	HTFBias    float64 // higher-timeframe bias agreement
}

// NoBoosts returns the neutral factor set.
func NoBoosts() BoostFactors {
	return BoostFactors{Momentum: 1.0, Structural: 1.0, HTFBias: 1.0}
}

// EntrySignal is the outcome of one entry evaluation, including the audit
// trail of which indicators and boosts contributed.
type EntrySignal struct {
	Time         time.Time
	Symbol       string
	Enter        bool
	Direction    TrendDirection
	Confluence   int      // number of agreeing direction-voting indicators
	MinSignals   int      // effective confluence minimum for this bar
	Contributors []string // names of the agreeing indicators
	Boosts       BoostFactors
	BlockedBy    string // filter-mode condition that suppressed the entry, if any
}

// ExitSignal closes a position under exactly one reason.
type ExitSignal struct {
	Time   time.Time
	Reason ExitReason
	Price  float64
}

package regime

import (
	"fmt"

	"signalCore/internal/domain"
)

// Config holds the two gate thresholds.
type Config struct {
	ADXThreshold  float64 // trend strength must exceed this, e.g. 25
	ChopThreshold float64 // choppiness must stay below this, e.g. 60
}

// State is the classified regime for one bar. Tradeable requires both gates:
// trending and not choppy. The gate is evaluated independently of, and prior
// to, indicator confluence.
type State struct {
	Tradeable  bool
	Trending   bool
	Choppy     bool
	Direction  domain.TrendDirection // directional-movement balance (+DI vs -DI)
	ADX        float64
	Choppiness float64
	PlusDI     float64
	MinusDI    float64
}

// Classifier derives the regime gates from an indicator snapshot.
type Classifier struct {
	cfg Config
}

// New creates a new regime classifier.
func New(cfg Config) (*Classifier, error) {
	if cfg.ADXThreshold <= 0 {
		return nil, fmt.Errorf("ADX threshold must be positive")
	}
	if cfg.ChopThreshold <= 0 || cfg.ChopThreshold > 100 {
		return nil, fmt.Errorf("choppiness threshold must be in (0, 100]")
	}
	return &Classifier{cfg: cfg}, nil
}

// Classify evaluates the regime gates for one snapshot. An undefined
// snapshot is never tradeable.
func (c *Classifier) Classify(snap *domain.IndicatorSnapshot) State {
	st := State{
		ADX:        snap.ADX,
		Choppiness: snap.Choppiness,
		PlusDI:     snap.PlusDI,
		MinusDI:    snap.MinusDI,
		Direction:  domain.TrendFlat,
	}
	if !snap.Defined {
		return st
	}

	st.Trending = snap.ADX > c.cfg.ADXThreshold
	st.Choppy = snap.Choppiness >= c.cfg.ChopThreshold
	st.Tradeable = st.Trending && !st.Choppy

	if snap.PlusDI > snap.MinusDI {
		st.Direction = domain.TrendUp
	} else if snap.MinusDI > snap.PlusDI {
		st.Direction = domain.TrendDown
	}
	return st
}

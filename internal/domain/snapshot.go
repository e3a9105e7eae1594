package domain

import "time"

// IndicatorSnapshot holds every derived value computed for one closed bar.
// It is created once per bar from bars at or before its own timestamp and
// never mutated afterwards.
//
// A snapshot with Defined == false means the history was too short for at
// least one indicator. Consumers must treat that as "no signal": entries are
// suppressed, exits fall back to the fixed stop, sizing drops its boosts.
type IndicatorSnapshot struct {
	Time  time.Time
	Close float64

	Defined bool

	// Trend lines
	SupertrendDir  TrendDirection
	SupertrendLine float64
	HalfTrendDir   TrendDirection
	HalfTrendLine  float64

	// Momentum oscillator (smoothed RSI, 0..100, 50 neutral)
	QQEValue float64
	QQEDir   TrendDirection

	// Volatility explosion gauge
	Explosive    bool
	ExplosionDir TrendDirection

	// Volatility
	ATR           float64
	VolRegime     VolatilityRegime
	VolMultiplier float64

	// Regime inputs
	ADX        float64
	PlusDI     float64
	MinusDI    float64
	Choppiness float64

	// Structural levels (only when HasStructure)
	HasStructure bool
	RangeHigh    float64
	RangeLow     float64
	RangeEq      float64
	InDemandZone bool
	InSupplyZone bool
	ReclaimedEq  bool

	// Higher-timeframe bias (only when HasHTFBias)
	HasHTFBias bool
	HTFBias    TrendDirection
}

// TrendIndicatorNames lists the independent direction-voting indicators in
// their fixed evaluation order.
var TrendIndicatorNames = [3]string{"supertrend", "halftrend", "qqe"}

// Directions returns the directional votes in the same order as
// TrendIndicatorNames.
func (s *IndicatorSnapshot) Directions() [3]TrendDirection {
	return [3]TrendDirection{s.SupertrendDir, s.HalfTrendDir, s.QQEDir}
}

// ConfluenceCount returns how many direction-voting indicators agree with dir.
// An undefined snapshot always counts zero.
func (s *IndicatorSnapshot) ConfluenceCount(dir TrendDirection) int {
	if !s.Defined || dir == TrendFlat {
		return 0
	}
	count := 0
	for _, d := range s.Directions() {
		if d == dir {
			count++
		}
	}
	return count
}

// Agreeing returns the names of the indicators voting for dir, in fixed order.
func (s *IndicatorSnapshot) Agreeing(dir TrendDirection) []string {
	if !s.Defined || dir == TrendFlat {
		return nil
	}
	var names []string
	dirs := s.Directions()
	for i, d := range dirs {
		if d == dir {
			names = append(names, TrendIndicatorNames[i])
		}
	}
	return names
}

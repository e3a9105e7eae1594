package risk

import (
	"fmt"
	"sort"
	"sync"

	"signalCore/internal/ports"
)

// Ledger is the shared capital pool read by the sizer and mutated when
// positions open and close. It is the only serialization point in the core:
// concurrent per-instrument evaluations must never overcommit stake, so all
// access goes through the mutex.
type Ledger struct {
	mu       sync.Mutex
	equity   float64
	reserved map[string]float64
}

// NewLedger creates a ledger with the given starting equity.
func NewLedger(initial float64) (*Ledger, error) {
	if initial <= 0 {
		return nil, fmt.Errorf("%w: initial equity must be positive", ports.ErrConfigurationError)
	}
	return &Ledger{
		equity:   initial,
		reserved: make(map[string]float64),
	}, nil
}

// Equity returns total equity including reserved stakes.
func (l *Ledger) Equity() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.equity
}

// Free returns the capital not committed to open positions.
func (l *Ledger) Free() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.free()
}

func (l *Ledger) free() float64 {
	free := l.equity
	for _, stake := range l.reserved {
		free -= stake
	}
	return free
}

// Reserve commits stake for a new position on symbol. It fails when the
// symbol already holds a reservation or the free capital is insufficient.
func (l *Ledger) Reserve(symbol string, stake float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if stake <= 0 {
		return fmt.Errorf("%w: stake must be positive, got %f", ports.ErrInvariantViolation, stake)
	}
	if _, exists := l.reserved[symbol]; exists {
		return fmt.Errorf("%w: %s already holds a reservation", ports.ErrInvariantViolation, symbol)
	}
	if stake > l.free() {
		return fmt.Errorf("%w: stake %f exceeds free capital %f", ports.ErrInsufficientCapital, stake, l.free())
	}
	l.reserved[symbol] = stake
	return nil
}

// Release settles the reservation for symbol, applying the realized PNL to
// equity.
func (l *Ledger) Release(symbol string, pnl float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.reserved[symbol]; !exists {
		return fmt.Errorf("%w: no reservation for %s", ports.ErrInvariantViolation, symbol)
	}
	delete(l.reserved, symbol)
	l.equity += pnl
	return nil
}

// Reserved returns the stake committed to symbol, zero if none.
func (l *Ledger) Reserved(symbol string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserved[symbol]
}

// EntryOrder returns the deterministic tie-break order in which instruments
// compete for capital when several qualify on the same timestamp: fixed
// lexicographic symbol order. The input is not modified.
func EntryOrder(symbols []string) []string {
	ordered := make([]string, len(symbols))
	copy(ordered, symbols)
	sort.Strings(ordered)
	return ordered
}

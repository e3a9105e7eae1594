package domain

import "time"

// Position represents an open or closed long position.
type Position struct {
	ID         int64          // Unique identifier (usually from DB)
	Symbol     string         // Traded instrument
	EntryPrice float64        // Price at which the position was entered
	ExitPrice  float64        // Price at which the position was exited (0 if open)
	Stake      float64        // Capital committed at entry
	EntryTime  time.Time      // Timestamp when the position was entered
	ExitTime   time.Time      // Timestamp when the position was exited (zero value if open)
	Status     PositionStatus // Current status (open, closed)
	PNL        float64        // Profit and loss, set on close
	ExitReason ExitReason     // Reason assigned by the rule that closed the position

	// Excursion tracking, updated once per bar while open.
	HighestPrice float64 // Running maximum price since entry
	MFE          float64 // Maximum favorable excursion as a fraction of entry
	MAE          float64 // Maximum adverse excursion as a fraction of entry (<= 0)
	BarsHeld     int     // Closed bars elapsed since entry
}

// IsOpen checks if the position status is open.
func (p *Position) IsOpen() bool {
	return p.Status == StatusOpen
}

// UnrealizedROI returns the profit fraction relative to the entry price.
func (p *Position) UnrealizedROI(price float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	return (price - p.EntryPrice) / p.EntryPrice
}

// UpdateExcursion records one more closed bar at the given price, advancing
// the running maximum price and the MFE/MAE watermarks.
func (p *Position) UpdateExcursion(price float64) {
	p.BarsHeld++
	if price > p.HighestPrice {
		p.HighestPrice = price
	}
	roi := p.UnrealizedROI(price)
	if roi > p.MFE {
		p.MFE = roi
	}
	if roi < p.MAE {
		p.MAE = roi
	}
}

// Close transitions the position to closed under the given signal.
func (p *Position) Close(sig ExitSignal) {
	p.Status = StatusClosed
	p.ExitPrice = sig.Price
	p.ExitTime = sig.Time
	p.ExitReason = sig.Reason
	p.PNL = p.UnrealizedROI(sig.Price) * p.Stake
}

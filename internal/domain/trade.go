package domain

import "time"

// Trade represents a completed round trip.
type Trade struct {
	ID         int64      // Unique identifier (usually from DB)
	PositionID int64      // Identifier of the position this trade closed (optional)
	Symbol     string     // Traded instrument
	EntryPrice float64    // Price at which the position was entered
	ExitPrice  float64    // Price at which the position was exited
	Stake      float64    // Capital committed at entry
	PNL        float64    // Profit and loss for this trade
	EntryTime  time.Time  // Timestamp when the position was entered
	ExitTime   time.Time  // Timestamp when the position was exited
	ExitReason ExitReason // Reason the position was closed
	MFE        float64    // Maximum favorable excursion over the trade's life
	MAE        float64    // Maximum adverse excursion over the trade's life
}

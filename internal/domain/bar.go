package domain

import "time"

// Bar represents a single closed OHLCV bar.
type Bar struct {
	OpenTime  time.Time // Start time of the interval
	CloseTime time.Time // End time of the interval
	Symbol    string    // Traded instrument
	Interval  string    // Bar interval (e.g. "1h", "1d")
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Traded volume
	IsFinal   bool      // Whether the interval has closed
}

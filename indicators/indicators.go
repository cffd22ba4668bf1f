// Package indicators provides technical analysis indicators over daily bars.
package indicators

import "github.com/quantlab/ashare/market"

// Indicator computes a single streaming value from bars.
// It is deterministic and safe to use in backtests and scans.
type Indicator interface {
	// Name returns a stable identifier like "SMA(20)" or "ATR(10)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* daily bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. If !Ready() it returns 0;
	// callers should always check Ready().
	Value() float64
}

// Calculate runs ind over bars and returns the final value.
func Calculate(ind Indicator, bars []market.Bar) float64 {
	for _, b := range bars {
		ind.Update(b)
	}
	return ind.Value()
}

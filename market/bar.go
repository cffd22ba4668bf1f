package market

import "time"

// Bar is one daily OHLCV price record for a single instrument.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Usable reports whether the bar carries real price data. Suspended
// sessions show up in A-share exports as zero (or negative) closes;
// those bars are skipped by strategies, never traded.
func (b Bar) Usable() bool {
	return b.Close > 0
}

// Midpoint returns (high+low)/2, the reference price for band
// indicators like Supertrend.
func (b Bar) Midpoint() float64 {
	return (b.High + b.Low) / 2
}

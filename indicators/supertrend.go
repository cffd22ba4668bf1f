package indicators

import (
	"fmt"
	"math"

	"github.com/quantlab/ashare/market"
)

// Supertrend is a streaming Supertrend indicator. Bands are placed at
// midpoint ± multiplier*ATR; the trend flips when the close crosses the
// prior bar's band, otherwise the trend persists and the band on the
// trend side only tightens (lower ratchets up in an uptrend, upper
// ratchets down in a downtrend). Value() is the active band.
type Supertrend struct {
	atr        *ATR
	multiplier float64

	trend int // +1 up, -1 down
	upper float64
	lower float64
	ready bool
}

// NewSupertrend creates a Supertrend indicator with the given ATR
// period and band multiplier.
func NewSupertrend(atrPeriod int, multiplier float64) *Supertrend {
	return &Supertrend{
		atr:        NewATR(atrPeriod),
		multiplier: multiplier,
	}
}

func (s *Supertrend) Name() string {
	return fmt.Sprintf("Supertrend(%d,%g)", s.atr.period, s.multiplier)
}

func (s *Supertrend) Warmup() int {
	return s.atr.Warmup()
}

func (s *Supertrend) Reset() {
	s.atr.Reset()
	s.trend = 0
	s.upper = 0
	s.lower = 0
	s.ready = false
}

func (s *Supertrend) Update(b market.Bar) {
	s.atr.Update(b)
	if !s.atr.Ready() {
		return
	}

	mid := b.Midpoint()
	band := s.multiplier * s.atr.Value()
	rawUpper := mid + band
	rawLower := mid - band

	if !s.ready {
		s.trend = 1
		s.upper = rawUpper
		s.lower = rawLower
		s.ready = true
		return
	}

	switch {
	case b.Close > s.upper:
		// Close above the prior upper band: flip (or stay) up, bands restart raw.
		s.trend = 1
		s.upper = rawUpper
		s.lower = rawLower
	case b.Close < s.lower:
		s.trend = -1
		s.upper = rawUpper
		s.lower = rawLower
	default:
		// Trend persists; only the active-side band tightens.
		if s.trend > 0 {
			s.lower = math.Max(rawLower, s.lower)
			s.upper = rawUpper
		} else {
			s.upper = math.Min(rawUpper, s.upper)
			s.lower = rawLower
		}
	}
}

func (s *Supertrend) Ready() bool {
	return s.ready
}

// Value returns the active band: the lower band in an uptrend, the
// upper band in a downtrend.
func (s *Supertrend) Value() float64 {
	if !s.ready {
		return 0
	}
	if s.trend > 0 {
		return s.lower
	}
	return s.upper
}

// Trend returns +1 for an uptrend, -1 for a downtrend, 0 before warmup.
func (s *Supertrend) Trend() int {
	if !s.ready {
		return 0
	}
	return s.trend
}

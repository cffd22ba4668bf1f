package market

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnsortedInput means the feed handed us bars whose timestamps
	// are not strictly increasing. The core never re-sorts; the feed
	// contract is ascending, deduplicated bars.
	ErrUnsortedInput = errors.New("market: bars out of order")

	// ErrInvalidBar means a bar is structurally malformed (zero
	// timestamp, or negative prices/volume).
	ErrInvalidBar = errors.New("market: invalid bar")
)

// BarSet is an ordered daily bar series for one instrument.
type BarSet struct {
	Instrument string
	Bars       []Bar
}

// NewBarSet wraps bars for instrument. Call Validate before feeding
// the set to a backtest.
func NewBarSet(instrument string, bars []Bar) *BarSet {
	return &BarSet{Instrument: instrument, Bars: bars}
}

// Len returns the number of bars in the set.
func (s *BarSet) Len() int { return len(s.Bars) }

// Validate checks the feed contract: strictly increasing unique
// timestamps and non-negative prices. It returns ErrUnsortedInput or
// ErrInvalidBar wrapped with the offending index.
func (s *BarSet) Validate() error {
	var prev time.Time
	for i, b := range s.Bars {
		if b.Time.IsZero() {
			return fmt.Errorf("bar %d: zero timestamp: %w", i, ErrInvalidBar)
		}
		if b.Open < 0 || b.High < 0 || b.Low < 0 || b.Close < 0 || b.Volume < 0 {
			return fmt.Errorf("bar %d: negative field: %w", i, ErrInvalidBar)
		}
		if i > 0 && !b.Time.After(prev) {
			return fmt.Errorf("bar %d (%s not after %s): %w",
				i, b.Time.Format("2006-01-02"), prev.Format("2006-01-02"), ErrUnsortedInput)
		}
		prev = b.Time
	}
	return nil
}

// Closes returns the close column. The slice is freshly allocated so
// callers cannot mutate the set through it.
func (s *BarSet) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Window returns the sub-series with from <= bar.Time < to. A zero
// bound is open on that side. The backing array is shared; the window
// is a read-only view.
func (s *BarSet) Window(from, to time.Time) []Bar {
	lo, hi := 0, len(s.Bars)
	for lo < hi && !from.IsZero() && s.Bars[lo].Time.Before(from) {
		lo++
	}
	for hi > lo && !to.IsZero() && !s.Bars[hi-1].Time.Before(to) {
		hi--
	}
	return s.Bars[lo:hi]
}

// EquityPoint is one sample of the mark-to-market equity curve.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

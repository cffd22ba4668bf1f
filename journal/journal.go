// Package journal persists backtest fills, equity snapshots, and run
// summaries to CSV or SQLite.
package journal

import "time"

// FillRecord is one applied order: an entry, add-on layer, or exit.
type FillRecord struct {
	RunID      string
	Instrument string
	Time       time.Time
	Side       string // BUY or SELL
	Shares     int
	Price      float64
	Commission float64
	RealizedPL float64 // sells only
	Reason     string  // ENTRY, ADD, TAKE_PROFIT, STOP_LOSS, SIGNAL_EXIT
	Layer      int     // layer count after the fill
}

// EquitySnapshot is the post-bar mark-to-market account state.
type EquitySnapshot struct {
	RunID  string
	Time   time.Time
	Cash   float64
	Shares int
	Equity float64
}

// RunRecord summarizes a completed backtest run.
type RunRecord struct {
	RunID      string
	Created    time.Time
	Instrument string
	Signal     string

	Start time.Time
	End   time.Time

	InitialCash float64
	FinalEquity float64
	ReturnPct   float64

	Trades int
	Wins   int
	Losses int
}

// Journal records backtest output. Implementations need not be
// goroutine safe; each run writes from a single goroutine.
type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	RecordRun(RunRecord) error
	Close() error
}

// Nop discards everything. It is the default journal for library use.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error       { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) RecordRun(RunRecord) error         { return nil }
func (Nop) Close() error                      { return nil }

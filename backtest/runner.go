// Package backtest drives a strategy state machine over a historical
// bar series and reports the resulting return.
package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantlab/ashare/journal"
	"github.com/quantlab/ashare/ledger"
	"github.com/quantlab/ashare/market"
	"github.com/quantlab/ashare/pkg/id"
	"github.com/quantlab/ashare/policy"
	"github.com/quantlab/ashare/strategy"
)

// ErrInsufficientHistory means the series is too short to warm up the
// strategy's indicators. Batch callers should skip the instrument and
// continue.
var ErrInsufficientHistory = errors.New("backtest: insufficient history")

// HistoryMargin is added to the indicator warmup when deriving the
// minimum bar count: a run that can never trade is not worth reporting.
const HistoryMargin = 5

// Config is one run's full configuration. It is immutable during the
// run; each run builds its own signal and account from it.
type Config struct {
	InitialCash    float64
	CommissionRate float64

	// MinBars overrides the derived warmup+margin minimum when > 0.
	MinBars int

	// Signal names the entry/exit predicate (see strategy.SignalByName).
	Signal       string
	SignalParams strategy.SignalConfig

	Policy        policy.Params
	TakeProfitPct float64
	StopLossPct   float64
	AddTriggerPct float64
}

// Result is the summary of a completed run plus its equity curve.
type Result struct {
	RunID      string
	Instrument string
	Signal     string

	InitialCash float64
	FinalEquity float64
	ReturnPct   float64

	// Trades counts completed round trips. A position still open at
	// the last bar is marked to market in FinalEquity but not counted.
	Trades int
	Wins   int
	Losses int

	Start time.Time
	End   time.Time

	curve []market.EquityPoint
}

// EquityCurve returns a copy of the per-bar (time, equity) curve.
func (r *Result) EquityCurve() []market.EquityPoint {
	out := make([]market.EquityPoint, len(r.curve))
	copy(out, r.curve)
	return out
}

// Run backtests cfg over the bar set. The loop is strictly sequential:
// each bar's decision depends on state mutated by the previous bar.
// The journal j may be nil.
func Run(set *market.BarSet, cfg Config, j journal.Journal) (*Result, error) {
	if cfg.InitialCash <= 0 {
		return nil, fmt.Errorf("backtest: initial cash must be positive, got %v", cfg.InitialCash)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("backtest %s: %w", set.Instrument, err)
	}

	sig, err := strategy.SignalByName(cfg.Signal, cfg.SignalParams)
	if err != nil {
		return nil, err
	}

	minBars := cfg.MinBars
	if minBars <= 0 {
		minBars = sig.Warmup() + HistoryMargin
	}
	if set.Len() < minBars {
		return nil, fmt.Errorf("backtest %s: %d bars, need %d: %w",
			set.Instrument, set.Len(), minBars, ErrInsufficientHistory)
	}
	if j == nil {
		j = journal.Nop{}
	}

	machine := strategy.NewMachine(strategy.Config{
		Signal:        sig,
		Policy:        cfg.Policy,
		TakeProfitPct: cfg.TakeProfitPct,
		StopLossPct:   cfg.StopLossPct,
		AddTriggerPct: cfg.AddTriggerPct,
	})
	acct := ledger.NewAccount(cfg.InitialCash, cfg.CommissionRate)

	res := &Result{
		RunID:       id.New(),
		Instrument:  set.Instrument,
		Signal:      sig.Name(),
		InitialCash: cfg.InitialCash,
		Start:       set.Bars[0].Time,
		End:         set.Bars[set.Len()-1].Time,
		curve:       make([]market.EquityPoint, 0, set.Len()),
	}

	var (
		lastClose float64
		episodePL float64 // realized P/L of the open position episode, buy commissions included
	)

	for _, b := range set.Bars {
		intent, ok := machine.OnBar(b, acct)
		if ok {
			var fill ledger.Fill
			if intent.Side == ledger.Buy {
				fill, err = acct.ApplyBuy(intent.Shares, b.Close, b.Time)
			} else {
				fill, err = acct.ApplySell(intent.Shares, b.Close, b.Time)
			}
			if err != nil {
				// The policy gates sizes, so a ledger rejection is a
				// corrupted run, not a skippable bar.
				return nil, fmt.Errorf("backtest %s at %s: %w",
					set.Instrument, b.Time.Format("2006-01-02"), err)
			}
			machine.OnFill(fill)

			switch {
			case fill.Side == ledger.Buy:
				episodePL -= fill.Commission
			case fill.Closed:
				res.Trades++
				if episodePL+fill.RealizedPL > 0 {
					res.Wins++
				} else {
					res.Losses++
				}
				episodePL = 0
			default:
				episodePL += fill.RealizedPL
			}

			if err := j.RecordFill(journal.FillRecord{
				RunID:      res.RunID,
				Instrument: set.Instrument,
				Time:       fill.Time,
				Side:       fill.Side.String(),
				Shares:     fill.Shares,
				Price:      fill.Price,
				Commission: fill.Commission,
				RealizedPL: fill.RealizedPL,
				Reason:     string(intent.Reason),
				Layer:      acct.Layers,
			}); err != nil {
				return nil, err
			}
		}

		if b.Usable() {
			lastClose = b.Close
		}
		equity := acct.MarkToMarket(lastClose)
		res.curve = append(res.curve, market.EquityPoint{Time: b.Time, Equity: equity})

		if err := j.RecordEquity(journal.EquitySnapshot{
			RunID:  res.RunID,
			Time:   b.Time,
			Cash:   acct.Cash,
			Shares: acct.Shares,
			Equity: equity,
		}); err != nil {
			return nil, err
		}
	}

	// An open position is valued at the last close, not force-closed.
	res.FinalEquity = acct.MarkToMarket(lastClose)
	res.ReturnPct = (res.FinalEquity - res.InitialCash) / res.InitialCash * 100

	if err := j.RecordRun(journal.RunRecord{
		RunID:       res.RunID,
		Created:     time.Now().UTC(),
		Instrument:  res.Instrument,
		Signal:      res.Signal,
		Start:       res.Start,
		End:         res.End,
		InitialCash: res.InitialCash,
		FinalEquity: res.FinalEquity,
		ReturnPct:   res.ReturnPct,
		Trades:      res.Trades,
		Wins:        res.Wins,
		Losses:      res.Losses,
	}); err != nil {
		return nil, err
	}

	return res, nil
}

// Package strategy couples a signal predicate with the layering policy
// in a per-bar state machine. The machine emits at most one order
// intent per bar; the backtest driver routes it through the ledger and
// reports the fill back synchronously.
package strategy

import (
	"github.com/quantlab/ashare/ledger"
	"github.com/quantlab/ashare/market"
	"github.com/quantlab/ashare/policy"
)

// State is the machine's position state.
type State int

const (
	Flat State = iota
	Holding
)

func (s State) String() string {
	if s == Holding {
		return "HOLDING"
	}
	return "FLAT"
}

// Reason tags why an intent was emitted.
type Reason string

const (
	ReasonEntry      Reason = "ENTRY"
	ReasonAdd        Reason = "ADD"
	ReasonTakeProfit Reason = "TAKE_PROFIT"
	ReasonStopLoss   Reason = "STOP_LOSS"
	ReasonSignalExit Reason = "SIGNAL_EXIT"
)

// Intent is a sized order request emitted by the machine.
type Intent struct {
	Side   ledger.Side
	Shares int
	Reason Reason
}

// Config is the immutable per-run strategy configuration.
type Config struct {
	Signal Signal
	Policy policy.Params

	// TakeProfitPct closes the position when unrealized return reaches
	// it (positive, e.g. 0.03).
	TakeProfitPct float64

	// StopLossPct closes the position when unrealized return falls
	// below it (negative, e.g. -0.15).
	StopLossPct float64

	// AddTriggerPct arms an add-on layer when unrealized return falls
	// below it (negative, e.g. -0.05).
	AddTriggerPct float64
}

// Machine is the FLAT/HOLDING state machine. It is single-run state;
// build a fresh one per backtest.
type Machine struct {
	cfg   Config
	state State
}

// NewMachine builds a machine starting FLAT.
func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// State returns the current position state.
func (m *Machine) State() State { return m.state }

// OnBar evaluates one bar against the account and returns the intent
// to act on, if any. Rules run in fixed priority order and the first
// match wins: take-profit, stop-loss/layer-breach, signal exit,
// add-on, entry. Bars before indicator warmup and bars without a
// usable close produce no intent.
func (m *Machine) OnBar(b market.Bar, acct *ledger.Account) (Intent, bool) {
	if !b.Usable() {
		return Intent{}, false
	}

	m.cfg.Signal.Update(b)
	pnl := acct.UnrealizedPct(b.Close)

	if m.state == Holding {
		// 1. Take-profit
		if pnl >= m.cfg.TakeProfitPct {
			return Intent{Side: ledger.Sell, Shares: acct.Shares, Reason: ReasonTakeProfit}, true
		}
		// 2. Stop-loss or layer-cap breach
		if pnl < m.cfg.StopLossPct || acct.Layers > m.cfg.Policy.MaxLayers {
			return Intent{Side: ledger.Sell, Shares: acct.Shares, Reason: ReasonStopLoss}, true
		}
		// 3. Signal exit
		if m.cfg.Signal.Ready() && m.cfg.Signal.Exit() {
			return Intent{Side: ledger.Sell, Shares: acct.Shares, Reason: ReasonSignalExit}, true
		}
		// 4. Add-on layer
		if pnl < m.cfg.AddTriggerPct && acct.Layers < m.cfg.Policy.MaxLayers {
			if size := policy.AddSize(m.cfg.Policy, acct, b.Close); size > 0 {
				return Intent{Side: ledger.Buy, Shares: size, Reason: ReasonAdd}, true
			}
		}
		return Intent{}, false
	}

	// 5. Entry (FLAT only)
	if m.cfg.Signal.Ready() && m.cfg.Signal.Entry() {
		if size := policy.EntrySize(m.cfg.Policy, acct, b.Close); size > 0 {
			return Intent{Side: ledger.Buy, Shares: size, Reason: ReasonEntry}, true
		}
	}
	return Intent{}, false
}

// OnFill consumes the ledger's fill for an intent emitted by OnBar and
// advances the position state. The driver calls it in the same bar
// step; there is no deferred notification.
func (m *Machine) OnFill(f ledger.Fill) {
	switch {
	case f.Side == ledger.Buy:
		m.state = Holding
	case f.Closed:
		m.state = Flat
	}
}

package strategy

import (
	"testing"
	"time"

	"github.com/quantlab/ashare/ledger"
	"github.com/quantlab/ashare/market"
	"github.com/quantlab/ashare/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSignal drives the machine directly in tests.
type stubSignal struct {
	ready bool
	entry bool
	exit  bool
}

func (s *stubSignal) Name() string          { return "stub" }
func (s *stubSignal) Warmup() int           { return 1 }
func (s *stubSignal) Update(_ market.Bar)   {}
func (s *stubSignal) Ready() bool           { return s.ready }
func (s *stubSignal) Entry() bool           { return s.entry }
func (s *stubSignal) Exit() bool            { return s.exit }

func testConfig(sig Signal) Config {
	return Config{
		Signal: sig,
		Policy: policy.Params{
			Mode:          policy.Martingale,
			EntryFraction: 0.1,
			MaxLayers:     5,
		},
		TakeProfitPct: 0.03,
		StopLossPct:   -0.15,
		AddTriggerPct: -0.05,
	}
}

func bar(close float64) market.Bar {
	return market.Bar{
		Time:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Open:  close, High: close, Low: close, Close: close,
	}
}

func holdingMachine(t *testing.T, sig *stubSignal, acct *ledger.Account) *Machine {
	t.Helper()
	m := NewMachine(testConfig(sig))

	sig.ready, sig.entry = true, true
	intent, ok := m.OnBar(bar(100), acct)
	require.True(t, ok)
	require.Equal(t, ReasonEntry, intent.Reason)

	fill, err := acct.ApplyBuy(intent.Shares, 100, bar(100).Time)
	require.NoError(t, err)
	m.OnFill(fill)
	require.Equal(t, Holding, m.State())

	sig.entry = false
	return m
}

func TestMachineEntryOnSignal(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{}
	m := holdingMachine(t, sig, acct)

	assert.Equal(t, 1000, acct.Shares)
	assert.Equal(t, Holding, m.State())
}

func TestMachineFixedRiskEntry(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{ready: true, entry: true}
	cfg := testConfig(sig)
	cfg.Policy.RiskFraction = 0.02
	m := NewMachine(cfg)

	// 1,000,000 * 0.02 / 97 = 206 shares, lot-rounded down.
	intent, ok := m.OnBar(bar(97), acct)
	require.True(t, ok)
	assert.Equal(t, ReasonEntry, intent.Reason)
	assert.Equal(t, 200, intent.Shares)
}

func TestMachineNoIntentBeforeWarmup(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{ready: false, entry: true}
	m := NewMachine(testConfig(sig))

	_, ok := m.OnBar(bar(100), acct)
	assert.False(t, ok)
	assert.Equal(t, Flat, m.State())
}

func TestMachineSkipsUnusableBar(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{ready: true, entry: true}
	m := NewMachine(testConfig(sig))

	_, ok := m.OnBar(market.Bar{Close: 0}, acct)
	assert.False(t, ok)
}

func TestMachineTakeProfitFirst(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{}
	m := holdingMachine(t, sig, acct)

	// Exit signal fires at the same time, but take-profit wins.
	sig.exit = true
	intent, ok := m.OnBar(bar(103.5), acct)
	require.True(t, ok)
	assert.Equal(t, ReasonTakeProfit, intent.Reason)
	assert.Equal(t, ledger.Sell, intent.Side)
	assert.Equal(t, acct.Shares, intent.Shares)
}

func TestMachineStopLossBeforeSignalExit(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{}
	m := holdingMachine(t, sig, acct)

	sig.exit = true
	intent, ok := m.OnBar(bar(80), acct)
	require.True(t, ok)
	assert.Equal(t, ReasonStopLoss, intent.Reason)
}

func TestMachineSignalExit(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{}
	m := holdingMachine(t, sig, acct)

	sig.exit = true
	intent, ok := m.OnBar(bar(99), acct)
	require.True(t, ok)
	assert.Equal(t, ReasonSignalExit, intent.Reason)

	fill, err := acct.ApplySell(intent.Shares, 99, bar(99).Time)
	require.NoError(t, err)
	m.OnFill(fill)
	assert.Equal(t, Flat, m.State())
}

func TestMachineAddOnDrawdown(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{}
	m := holdingMachine(t, sig, acct)

	// -6% against a -5% trigger: martingale doubles the position.
	intent, ok := m.OnBar(bar(94), acct)
	require.True(t, ok)
	assert.Equal(t, ReasonAdd, intent.Reason)
	assert.Equal(t, ledger.Buy, intent.Side)
	assert.Equal(t, acct.Shares, intent.Shares)

	fill, err := acct.ApplyBuy(intent.Shares, 94, bar(94).Time)
	require.NoError(t, err)
	m.OnFill(fill)
	assert.Equal(t, Holding, m.State())
	assert.InDelta(t, 97.0, acct.AvgCost, 1e-9)
}

func TestMachineNoAddAboveTrigger(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{}
	m := holdingMachine(t, sig, acct)

	// -3% drawdown does not arm the -5% add trigger.
	_, ok := m.OnBar(bar(97), acct)
	assert.False(t, ok)
}

func TestMachineHoldingNeverEnters(t *testing.T) {
	acct := ledger.NewAccount(1_000_000, 0)
	sig := &stubSignal{}
	m := holdingMachine(t, sig, acct)

	// A fresh entry signal while holding emits nothing.
	sig.entry = true
	_, ok := m.OnBar(bar(100), acct)
	assert.False(t, ok)
}

// Package ledger tracks cash, position, and cost basis for a single
// backtest account and applies buy/sell fills against it.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInsufficientCash means a buy's gross cost (price plus
	// commission) exceeds available cash. The layering policy gates
	// sizes so this should not be reachable through the state machine;
	// it guards callers that bypass the policy.
	ErrInsufficientCash = errors.New("ledger: insufficient cash")

	// ErrInsufficientPosition means a sell asks for more shares than held.
	ErrInsufficientPosition = errors.New("ledger: insufficient position")
)

// DefaultLot is the A-share board-lot size: orders trade in multiples
// of 100 shares.
const DefaultLot = 100

// RoundLot rounds shares down to the nearest multiple of lot.
// A result of 0 means "too small to trade this bar", not an error.
func RoundLot(shares, lot int) int {
	if lot <= 0 {
		lot = DefaultLot
	}
	if shares < 0 {
		return 0
	}
	return shares / lot * lot
}

// Account is the mutable state of one backtest run: cash, share count,
// weighted-average cost basis, and the current add-on layer count.
//
// Invariant: Shares == 0 ⇔ AvgCost == 0 ⇔ Layers == 0.
type Account struct {
	Cash    float64
	Shares  int
	AvgCost float64
	Layers  int

	// CommissionRate is charged on both the buy and sell leg.
	CommissionRate float64
}

// NewAccount returns a flat account holding cash.
func NewAccount(cash, commissionRate float64) *Account {
	return &Account{Cash: cash, CommissionRate: commissionRate}
}

// Fill is the realized result of an applied order.
type Fill struct {
	Time       time.Time
	Side       Side
	Shares     int
	Price      float64
	Commission float64
	RealizedPL float64 // sells only: proceeds net of commission minus cost basis
	Closed     bool    // sell flattened the position
}

// Side is the direction of an applied order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// ApplyBuy debits cash for shares at price plus commission, folds the
// new shares into the weighted-average cost, and counts one layer.
func (a *Account) ApplyBuy(shares int, price float64, at time.Time) (Fill, error) {
	if shares <= 0 || price <= 0 {
		return Fill{}, fmt.Errorf("ledger: bad buy %d@%v", shares, price)
	}

	cost := float64(shares) * price
	commission := cost * a.CommissionRate
	if cost+commission > a.Cash {
		return Fill{}, fmt.Errorf("buy %d@%v needs %.2f, have %.2f: %w",
			shares, price, cost+commission, a.Cash, ErrInsufficientCash)
	}

	total := a.Shares + shares
	a.AvgCost = (a.AvgCost*float64(a.Shares) + cost) / float64(total)
	a.Shares = total
	a.Cash -= cost + commission
	a.Layers++

	return Fill{
		Time:       at,
		Side:       Buy,
		Shares:     shares,
		Price:      price,
		Commission: commission,
	}, nil
}

// ApplySell credits cash for shares at price net of commission. Selling
// the whole position resets the cost basis and layer count.
func (a *Account) ApplySell(shares int, price float64, at time.Time) (Fill, error) {
	if shares <= 0 || price <= 0 {
		return Fill{}, fmt.Errorf("ledger: bad sell %d@%v", shares, price)
	}
	if shares > a.Shares {
		return Fill{}, fmt.Errorf("sell %d, hold %d: %w",
			shares, a.Shares, ErrInsufficientPosition)
	}

	proceeds := float64(shares) * price
	commission := proceeds * a.CommissionRate
	pl := proceeds - commission - float64(shares)*a.AvgCost

	a.Cash += proceeds - commission
	a.Shares -= shares

	closed := a.Shares == 0
	if closed {
		a.AvgCost = 0
		a.Layers = 0
	}

	return Fill{
		Time:       at,
		Side:       Sell,
		Shares:     shares,
		Price:      price,
		Commission: commission,
		RealizedPL: pl,
		Closed:     closed,
	}, nil
}

// MarkToMarket values the account at price without realizing anything.
func (a *Account) MarkToMarket(price float64) float64 {
	return a.Cash + float64(a.Shares)*price
}

// Flat reports whether the account holds no position.
func (a *Account) Flat() bool {
	return a.Shares == 0
}

// UnrealizedPct is (price - avgCost)/avgCost, the per-share return of
// the open position. Zero when flat.
func (a *Account) UnrealizedPct(price float64) float64 {
	if a.Shares == 0 || a.AvgCost == 0 {
		return 0
	}
	return (price - a.AvgCost) / a.AvgCost
}

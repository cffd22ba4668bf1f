// Package policy decides order sizes for initial entries and layered
// add-ons. Sizing is a pure function of account state, price, and
// parameters; calling it twice never returns different sizes.
package policy

import (
	"fmt"
	"math"

	"github.com/quantlab/ashare/ledger"
)

// Mode selects how add-on layers are sized.
type Mode int

const (
	// Martingale doubles the position on each add (next add == current shares).
	Martingale Mode = iota
	// Pyramid adds a fixed fraction of cash on each add.
	Pyramid
	// FixedFraction is the conservative martingale variant; it sizes
	// adds exactly like Pyramid but is kept as its own mode so configs
	// can name the behavior they mean.
	FixedFraction
)

func (m Mode) String() string {
	switch m {
	case Martingale:
		return "martingale"
	case Pyramid:
		return "pyramid"
	case FixedFraction:
		return "fixed-fraction"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "martingale", "":
		return Martingale, nil
	case "pyramid":
		return Pyramid, nil
	case "fixed-fraction", "fixed_fraction":
		return FixedFraction, nil
	default:
		return 0, fmt.Errorf("policy: unknown sizing mode %q", s)
	}
}

// Params is the immutable sizing configuration for one run.
type Params struct {
	Mode Mode

	// EntryFraction of cash spent on the initial entry, (0,1].
	EntryFraction float64

	// AddFraction of cash spent per add in Pyramid/FixedFraction mode.
	AddFraction float64

	// RiskFraction of cash for fixed-risk sizing (RiskSize).
	RiskFraction float64

	// SafetyMargin caps an add's cost at cash*SafetyMargin so the last
	// layer does not exhaust the account. Zero means the 0.9 default.
	SafetyMargin float64

	// MaxLayers is the most layers (entry included) a position may carry.
	MaxLayers int

	// Lot is the share rounding increment. Zero means the board lot (100).
	Lot int
}

func (p Params) lot() int {
	if p.Lot <= 0 {
		return ledger.DefaultLot
	}
	return p.Lot
}

func (p Params) safetyMargin() float64 {
	if p.SafetyMargin <= 0 {
		return 0.9
	}
	return p.SafetyMargin
}

// EntrySize returns the lot-rounded share count for an initial entry:
// floor(budget*entryFraction/price/lot)*lot, where budget is cash net
// of the commission the buy itself incurs, so a sized entry always
// fits its gross cost. A set RiskFraction takes precedence and sizes
// the entry with the fixed-risk budget (RiskSize, lot-rounded here).
// Zero means no entry this bar.
func EntrySize(p Params, acct *ledger.Account, price float64) int {
	if price <= 0 {
		return 0
	}
	budget := acct.Cash / (1 + acct.CommissionRate)
	if p.RiskFraction > 0 {
		return ledger.RoundLot(RiskSize(p, budget, price), p.lot())
	}
	if p.EntryFraction <= 0 {
		return 0
	}
	shares := int(budget * p.EntryFraction / price)
	return ledger.RoundLot(shares, p.lot())
}

// RiskSize returns floor(cash*riskFraction/price), the fixed-risk
// alternative entry size. It is not lot-rounded; callers that trade
// board lots round it themselves.
func RiskSize(p Params, cash, price float64) int {
	if price <= 0 || p.RiskFraction <= 0 {
		return 0
	}
	return int(math.Floor(cash * p.RiskFraction / price))
}

// AddSize returns the share count for the next add-on layer, or 0 when
// the add is gated off (layer cap reached, cost above the safety
// margin, or the size rounds below one lot). A zero size is a normal
// skip for this bar, not an error.
func AddSize(p Params, acct *ledger.Account, price float64) int {
	if price <= 0 || acct.Shares <= 0 {
		return 0
	}
	if acct.Layers >= p.MaxLayers {
		return 0
	}

	var shares int
	switch p.Mode {
	case Martingale:
		shares = acct.Shares
	case Pyramid, FixedFraction:
		shares = ledger.RoundLot(int(acct.Cash*p.AddFraction/price), p.lot())
	default:
		return 0
	}

	if shares < p.lot() {
		return 0
	}
	gross := float64(shares) * price * (1 + acct.CommissionRate)
	if gross >= acct.Cash*p.safetyMargin() {
		return 0
	}
	return shares
}

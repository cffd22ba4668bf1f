package strategy

import (
	"fmt"
	"math"
	"strings"

	"github.com/quantlab/ashare/indicators"
	"github.com/quantlab/ashare/market"
)

// Signal is a pure entry/exit predicate over indicator values. Update
// is called once per usable bar; Entry and Exit report whether the
// current bar triggered. Predicates hold no account state.
type Signal interface {
	Name() string

	// Warmup returns how many bars the slowest indicator needs.
	Warmup() int

	Update(b market.Bar)
	Ready() bool

	// Entry reports an entry trigger on the current bar.
	Entry() bool

	// Exit reports an exit trigger on the current bar.
	Exit() bool
}

// SignalConfig carries the per-signal indicator periods. Only the
// fields a signal uses need to be set; zero values take defaults.
type SignalConfig struct {
	FastPeriod int `json:"fast_period" yaml:"fast_period"`
	SlowPeriod int `json:"slow_period" yaml:"slow_period"`

	// Breakout reference SMA period.
	Period int `json:"period" yaml:"period"`

	// Vegas tunnel EMA periods.
	TunnelFast int `json:"tunnel_fast" yaml:"tunnel_fast"`
	TunnelMid  int `json:"tunnel_mid" yaml:"tunnel_mid"`
	TunnelSlow int `json:"tunnel_slow" yaml:"tunnel_slow"`

	// Supertrend parameters.
	ATRPeriod  int     `json:"atr_period" yaml:"atr_period"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// SignalMaker builds a signal from its configured periods.
type SignalMaker func(cfg SignalConfig) Signal

var registry = make(map[string]SignalMaker)

// Register adds a custom signal constructor under name. Registered
// names shadow the built-ins in SignalByName.
func Register(name string, maker SignalMaker) {
	registry[strings.ToLower(strings.TrimSpace(name))] = maker
}

// SignalByName builds a signal from its registry name.
// Built in: dual-ma, breakout, tunnel, supertrend.
func SignalByName(name string, cfg SignalConfig) (Signal, error) {
	if maker, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return maker(cfg), nil
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dual-ma", "dualma", "":
		return NewDualMACross(cfg.FastPeriod, cfg.SlowPeriod), nil
	case "breakout":
		return NewBreakout(cfg.Period), nil
	case "tunnel", "vegas":
		return NewTunnel(cfg.TunnelFast, cfg.TunnelMid, cfg.TunnelSlow), nil
	case "supertrend":
		return NewSupertrendFlip(cfg.ATRPeriod, cfg.Multiplier), nil
	default:
		return nil, fmt.Errorf("unknown signal %q (supported: dual-ma, breakout, tunnel, supertrend)", name)
	}
}

// DualMACross enters on a golden cross of a fast SMA over a slow SMA
// and exits on the death cross. Cross detection compares exactly the
// prior and current bar values:
//
//	golden: fast[t] > slow[t] && fast[t-1] <= slow[t-1]
//	death:  fast[t] < slow[t] && fast[t-1] >= slow[t-1]
type DualMACross struct {
	fast *indicators.SimpleMA
	slow *indicators.SimpleMA

	prevFast float64
	prevSlow float64
	havePrev bool
	golden   bool
	death    bool
}

func NewDualMACross(fastPeriod, slowPeriod int) *DualMACross {
	if fastPeriod <= 0 {
		fastPeriod = 5
	}
	if slowPeriod <= 0 {
		slowPeriod = 20
	}
	return &DualMACross{
		fast: indicators.NewSMA(fastPeriod),
		slow: indicators.NewSMA(slowPeriod),
	}
}

func (s *DualMACross) Name() string {
	return fmt.Sprintf("dual-ma(%s,%s)", s.fast.Name(), s.slow.Name())
}

func (s *DualMACross) Warmup() int {
	// One extra bar for the prior-value comparison.
	return s.slow.Warmup() + 1
}

func (s *DualMACross) Update(b market.Bar) {
	s.golden, s.death = false, false

	s.fast.Update(b)
	s.slow.Update(b)
	if !s.fast.Ready() || !s.slow.Ready() {
		return
	}

	f, sl := s.fast.Value(), s.slow.Value()
	if s.havePrev {
		s.golden = f > sl && s.prevFast <= s.prevSlow
		s.death = f < sl && s.prevFast >= s.prevSlow
	}
	s.prevFast, s.prevSlow = f, sl
	s.havePrev = true
}

func (s *DualMACross) Ready() bool {
	return s.havePrev
}

func (s *DualMACross) Entry() bool { return s.golden }
func (s *DualMACross) Exit() bool  { return s.death }

// Breakout enters when the close crosses above a reference SMA and
// exits when it crosses back below.
type Breakout struct {
	sma *indicators.SimpleMA

	prevClose float64
	prevSMA   float64
	havePrev  bool
	up        bool
	down      bool
}

func NewBreakout(period int) *Breakout {
	if period <= 0 {
		period = 20
	}
	return &Breakout{sma: indicators.NewSMA(period)}
}

func (s *Breakout) Name() string {
	return fmt.Sprintf("breakout(%s)", s.sma.Name())
}

func (s *Breakout) Warmup() int {
	return s.sma.Warmup() + 1
}

func (s *Breakout) Update(b market.Bar) {
	s.up, s.down = false, false

	s.sma.Update(b)
	if !s.sma.Ready() {
		return
	}

	v := s.sma.Value()
	if s.havePrev {
		s.up = s.prevClose <= s.prevSMA && b.Close > v
		s.down = s.prevClose >= s.prevSMA && b.Close < v
	}
	s.prevClose, s.prevSMA = b.Close, v
	s.havePrev = true
}

func (s *Breakout) Ready() bool {
	return s.havePrev
}

func (s *Breakout) Entry() bool { return s.up }
func (s *Breakout) Exit() bool  { return s.down }

// Tunnel is the vegas tunnel: the fast and mid EMAs form a band, the
// slow EMA confirms the long-term trend. Entry when the close breaks
// above the tunnel top with the slow EMA rising; exit when the close
// falls below the tunnel bottom.
type Tunnel struct {
	fast *indicators.ExponentialMA
	mid  *indicators.ExponentialMA
	slow *indicators.ExponentialMA

	prevClose  float64
	prevTop    float64
	prevBottom float64
	slowHist   []float64
	havePrev   bool
	enter      bool
	exit       bool
}

// NewTunnel builds a vegas tunnel with the classic 144/169/576 periods
// as defaults.
func NewTunnel(fast, mid, slow int) *Tunnel {
	if fast <= 0 {
		fast = 144
	}
	if mid <= 0 {
		mid = 169
	}
	if slow <= 0 {
		slow = 576
	}
	return &Tunnel{
		fast: indicators.NewEMA(fast),
		mid:  indicators.NewEMA(mid),
		slow: indicators.NewEMA(slow),
	}
}

func (s *Tunnel) Name() string {
	return fmt.Sprintf("tunnel(%s,%s,%s)", s.fast.Name(), s.mid.Name(), s.slow.Name())
}

func (s *Tunnel) Warmup() int {
	return s.slow.Warmup() + 4 // slow-EMA slope window plus prior bar
}

func (s *Tunnel) Update(b market.Bar) {
	s.enter, s.exit = false, false

	s.fast.Update(b)
	s.mid.Update(b)
	s.slow.Update(b)
	if !s.slow.Ready() {
		return
	}

	top := math.Max(s.fast.Value(), s.mid.Value())
	bottom := math.Min(s.fast.Value(), s.mid.Value())

	if s.havePrev && len(s.slowHist) >= 3 {
		slowRising := s.slow.Value() > s.slowHist[len(s.slowHist)-3]
		s.enter = s.prevClose <= s.prevTop && b.Close > top && slowRising
		s.exit = s.prevClose >= s.prevBottom && b.Close < bottom
	}

	s.slowHist = append(s.slowHist, s.slow.Value())
	if len(s.slowHist) > 3 {
		s.slowHist = s.slowHist[1:]
	}
	s.prevClose, s.prevTop, s.prevBottom = b.Close, top, bottom
	s.havePrev = true
}

func (s *Tunnel) Ready() bool {
	return s.havePrev && len(s.slowHist) >= 3
}

func (s *Tunnel) Entry() bool { return s.enter }
func (s *Tunnel) Exit() bool  { return s.exit }

// SupertrendFlip enters when the supertrend flips to an uptrend and
// exits when it flips back down.
type SupertrendFlip struct {
	st *indicators.Supertrend

	prevTrend int
	enter     bool
	exit      bool
}

func NewSupertrendFlip(atrPeriod int, multiplier float64) *SupertrendFlip {
	if atrPeriod <= 0 {
		atrPeriod = 10
	}
	if multiplier <= 0 {
		multiplier = 3.0
	}
	return &SupertrendFlip{st: indicators.NewSupertrend(atrPeriod, multiplier)}
}

func (s *SupertrendFlip) Name() string {
	return s.st.Name()
}

func (s *SupertrendFlip) Warmup() int {
	return s.st.Warmup() + 1
}

func (s *SupertrendFlip) Update(b market.Bar) {
	s.enter, s.exit = false, false

	s.st.Update(b)
	trend := s.st.Trend()
	if trend != 0 && s.prevTrend != 0 {
		s.enter = trend > 0 && s.prevTrend < 0
		s.exit = trend < 0 && s.prevTrend > 0
	}
	s.prevTrend = trend
}

func (s *SupertrendFlip) Ready() bool {
	return s.st.Ready()
}

func (s *SupertrendFlip) Entry() bool { return s.enter }
func (s *SupertrendFlip) Exit() bool  { return s.exit }

// Package repeat implements accelerating auto-repeat for selected keys.
//
// A bound key taps once when pressed. If it is still held after the initial
// delay it taps again, and keeps tapping with intervals taken from a
// non-increasing delay curve until it is released. Firmware-level repeat is
// expected to be disabled for these keys.
package repeat

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/sched"
)

// DefaultInitialDelay is the hold time before the first repeat.
const DefaultInitialDelay = 300 * time.Millisecond

// DefaultCurve is the interval between successive repeats. The last entry
// is the floor.
var DefaultCurve = []time.Duration{
	150 * time.Millisecond,
	120 * time.Millisecond,
	100 * time.Millisecond,
	80 * time.Millisecond,
	65 * time.Millisecond,
	50 * time.Millisecond,
	40 * time.Millisecond,
	30 * time.Millisecond,
	25 * time.Millisecond,
	20 * time.Millisecond,
	15 * time.Millisecond,
	10 * time.Millisecond,
}

// DefaultKeys are the keys accelerated by default.
var DefaultKeys = []key.Code{key.KeyBackspace, key.KeyDelete, key.KeyEnter}

// Errors returned by CheckCurve.
var (
	ErrEmptyCurve     = errors.New("repeat curve is empty")
	ErrCurveIncreases = errors.New("repeat curve must not increase")
)

// CheckCurve verifies that curve is non-empty, positive, non-increasing and
// never slower than initial.
func CheckCurve(initial time.Duration, curve []time.Duration) error {
	if len(curve) == 0 {
		return ErrEmptyCurve
	}
	prev := initial
	for i, d := range curve {
		if d <= 0 {
			return fmt.Errorf("repeat curve entry %d is %v, must be positive", i, d)
		}
		if d > prev {
			return fmt.Errorf("%w: entry %d (%v) after %v", ErrCurveIncreases, i, d, prev)
		}
		prev = d
	}
	return nil
}

// Scheduler runs deferred callbacks. sched.Queue satisfies it.
type Scheduler interface {
	Schedule(delay time.Duration, cb sched.Callback, arg any) (sched.Token, error)
	Cancel(tok sched.Token) bool
}

// Report is the keyboard report taps are written to.
type Report interface {
	AddKey(code key.Code)
	DelKey(code key.Code)
	SendReport()
}

// Config selects the keys and timing of an Accelerator.
type Config struct {
	// Keys are the keycodes to accelerate.
	Keys []key.Code

	// InitialDelay is the hold time before the first repeat.
	InitialDelay time.Duration

	// Curve is the interval sequence after the first repeat.
	Curve []time.Duration
}

// DefaultConfig returns the stock key set and timing.
func DefaultConfig() Config {
	return Config{
		Keys:         append([]key.Code(nil), DefaultKeys...),
		InitialDelay: DefaultInitialDelay,
		Curve:        append([]time.Duration(nil), DefaultCurve...),
	}
}

// timer is the repeat state of one bound key.
type timer struct {
	code  key.Code
	token sched.Token
	count int
}

// Accelerator owns a repeat timer per bound key.
// It is not safe for concurrent use.
type Accelerator struct {
	timers  []timer
	index   map[key.Code]int
	initial time.Duration
	curve   []time.Duration
	sched   Scheduler
	out     Report
	taps    uint64
	logger  zerolog.Logger
}

// New creates an accelerator. A zero InitialDelay or empty Curve falls back
// to the defaults.
func New(cfg Config, s Scheduler, out Report, logger zerolog.Logger) *Accelerator {
	a := &Accelerator{
		index:   make(map[key.Code]int, len(cfg.Keys)),
		initial: cfg.InitialDelay,
		curve:   cfg.Curve,
		sched:   s,
		out:     out,
		logger:  logger,
	}
	if a.initial <= 0 {
		a.initial = DefaultInitialDelay
	}
	if len(a.curve) == 0 {
		a.curve = DefaultCurve
	}
	for _, c := range cfg.Keys {
		if _, dup := a.index[c]; dup {
			continue
		}
		a.index[c] = len(a.timers)
		a.timers = append(a.timers, timer{code: c})
	}
	return a
}

// Handles returns true if code is accelerated.
func (a *Accelerator) Handles(code key.Code) bool {
	_, ok := a.index[code]
	return ok
}

// OnKey handles a transition of a bound key. Default handling never applies
// to accelerated keys, so it always returns false.
func (a *Accelerator) OnKey(code key.Code, pressed bool) bool {
	i, ok := a.index[code]
	if !ok {
		return false
	}
	t := &a.timers[i]

	if !pressed {
		if t.token != sched.InvalidToken {
			a.sched.Cancel(t.token)
			t.token = sched.InvalidToken
		}
		return false
	}

	if t.token != sched.InvalidToken {
		return false
	}

	a.tap(code)
	t.count = 0
	tok, err := a.sched.Schedule(a.initial, a.refire, i)
	if err != nil {
		a.logger.Warn().Err(err).Stringer("key", code).Msg("repeat timer not scheduled")
		return false
	}
	t.token = tok
	return false
}

// refire taps the key behind timer index arg and returns the next interval.
func (a *Accelerator) refire(arg any) time.Duration {
	t := &a.timers[arg.(int)]
	a.tap(t.code)
	if t.count < len(a.curve) {
		t.count++
	}
	d := a.curve[t.count-1]
	a.logger.Trace().
		Stringer("key", t.code).
		Int("count", t.count).
		Dur("next", d).
		Msg("repeat")
	return d
}

func (a *Accelerator) tap(code key.Code) {
	a.out.AddKey(code)
	a.out.SendReport()
	a.out.DelKey(code)
	a.out.SendReport()
	a.taps++
}

// Active returns true while code has a pending repeat.
func (a *Accelerator) Active(code key.Code) bool {
	i, ok := a.index[code]
	return ok && a.timers[i].token != sched.InvalidToken
}

// Count returns how many repeats code has fired since its last fresh press.
func (a *Accelerator) Count(code key.Code) int {
	if i, ok := a.index[code]; ok {
		return a.timers[i].count
	}
	return 0
}

// Taps returns the total number of taps emitted.
func (a *Accelerator) Taps() uint64 {
	return a.taps
}

// Keys returns the accelerated keycodes in configuration order.
func (a *Accelerator) Keys() []key.Code {
	out := make([]key.Code, len(a.timers))
	for i, t := range a.timers {
		out[i] = t.code
	}
	return out
}

// Reset cancels every pending repeat and clears the counters.
func (a *Accelerator) Reset() {
	for i := range a.timers {
		t := &a.timers[i]
		if t.token != sched.InvalidToken {
			a.sched.Cancel(t.token)
		}
		t.token = sched.InvalidToken
		t.count = 0
	}
}

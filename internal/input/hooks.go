package input

import (
	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
)

// Hook observes dispatcher decisions. Hooks run after the decision is made
// and cannot change it.
type Hook interface {
	AfterEvent(ev key.Event, d Decision)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ev key.Event, d Decision)

// AfterEvent calls f.
func (f HookFunc) AfterEvent(ev key.Event, d Decision) { f(ev, d) }

// LoggingHook logs every decision at trace level.
// Useful for debugging and development.
type LoggingHook struct {
	Logger zerolog.Logger
}

// AfterEvent logs the decision.
func (h LoggingHook) AfterEvent(ev key.Event, d Decision) {
	e := h.Logger.Trace().
		Stringer("event", ev).
		Stringer("route", d.Route).
		Bool("continue", d.Continue)
	if d.Synthetic > 0 {
		e = e.Int("synthetic", d.Synthetic)
	}
	if d.Pair != "" {
		e = e.Str("pair", d.Pair).Stringer("outcome", d.Outcome)
	}
	if d.Route == RouteMacro && ev.Pressed {
		e = e.Stringer("base", d.Base)
	}
	e.Msg("dispatch")
}

// FilterHook forwards decisions matching a predicate to another hook.
type FilterHook struct {
	// Match selects the decisions to forward.
	Match func(ev key.Event, d Decision) bool

	// Hook receives the matching decisions.
	Hook Hook
}

// AfterEvent forwards matching decisions.
func (h FilterHook) AfterEvent(ev key.Event, d Decision) {
	if h.Hook != nil && (h.Match == nil || h.Match(ev, d)) {
		h.Hook.AfterEvent(ev, d)
	}
}

// Suppressed matches decisions that stopped default handling.
func Suppressed(_ key.Event, d Decision) bool {
	return !d.Continue
}

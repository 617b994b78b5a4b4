package input

import (
	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/input/socd"
)

// Report is the in-flight keyboard report. report.Buffer satisfies it.
type Report = socd.Report

// Accelerator owns the auto-repeat keys. repeat.Accelerator satisfies it.
type Accelerator interface {
	Handles(code key.Code) bool
	OnKey(code key.Code, pressed bool) bool
}

// MacroTrigger handles the shared macro trigger key. macro.Controller
// satisfies it.
type MacroTrigger interface {
	OnTrigger(base key.Code, pressed bool) bool
}

// BaseResolver returns the keycode a position produces on the base layer.
// layout.Keymap satisfies it.
type BaseResolver interface {
	Base(p key.Pos) key.Code
}

// Handler is the single entry point for key transitions. It runs every
// event through the SOCD pairs, then hands the special keys to the
// component that owns them, and tells the caller whether to apply its own
// default handling.
//
// A Handler is not safe for concurrent use. It is driven from the host's
// event loop, which also fires the accelerator's timers.
type Handler struct {
	session *Session
	out     Report
	repeat  Accelerator
	macros  MacroTrigger
	base    BaseResolver
	hooks   []Hook
	metrics *Metrics
	logger  zerolog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithHook adds a hook that observes every decision.
func WithHook(h Hook) Option {
	return func(hd *Handler) { hd.hooks = append(hd.hooks, h) }
}

// WithMetrics records decisions into m.
func WithMetrics(m *Metrics) Option {
	return func(hd *Handler) { hd.metrics = m }
}

// WithLogger sets the logger for state transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(hd *Handler) { hd.logger = l }
}

// NewHandler creates a dispatcher. Any of acc, macros and base may be nil,
// in which case the corresponding keys pass through.
func NewHandler(s *Session, out Report, acc Accelerator, macros MacroTrigger, base BaseResolver, opts ...Option) *Handler {
	h := &Handler{
		session: s,
		out:     out,
		repeat:  acc,
		macros:  macros,
		base:    base,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}
	return h
}

// HandleEvent processes one key transition. It returns true when the
// caller should continue with default handling for the event.
func (h *Handler) HandleEvent(ev key.Event) bool {
	return h.Decide(ev).Continue
}

// Decide is HandleEvent, returning the full decision.
func (h *Handler) Decide(ev key.Event) Decision {
	timer := h.metrics.StartTimer()
	d := h.dispatch(ev)
	timer.Stop(d)

	for _, hook := range h.hooks {
		hook.AfterEvent(ev, d)
	}
	return d
}

func (h *Handler) dispatch(ev key.Event) Decision {
	var d Decision

	if h.session.SOCDEnabled {
		for _, p := range h.session.Pairs {
			o := socd.Apply(p, ev.Code, ev.Pressed, h.out)
			if o.Synthetic() {
				d.Synthetic++
			}
			if !o.Continue() {
				d.Route = RouteSOCD
				d.Pair = p.Name
				d.Outcome = o
				return d
			}
		}
	}

	switch {
	case h.repeat != nil && h.repeat.Handles(ev.Code):
		d.Route = RouteRepeat
		d.Continue = h.repeat.OnKey(ev.Code, ev.Pressed)

	case ev.Code == key.KeySOCDToggle:
		d.Route = RouteSOCDToggle
		if ev.Pressed {
			on := h.session.ToggleSOCD()
			d.Toggled = true
			h.logger.Debug().Bool("enabled", on).Msg("socd toggled")
		}
		d.Continue = true

	case ev.Code == key.KeyMacroTrigger && h.macros != nil:
		d.Route = RouteMacro
		if h.base != nil {
			d.Base = h.base.Base(ev.Pos)
		}
		d.Continue = h.macros.OnTrigger(d.Base, ev.Pressed)

	default:
		d.Continue = true
	}
	return d
}

// Session returns the dispatcher's state.
func (h *Handler) Session() *Session {
	return h.session
}

// Metrics returns the dispatcher's counters.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

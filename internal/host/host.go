package host

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/config"
	"github.com/dshills/beamspring/internal/input"
	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/input/macro"
	"github.com/dshills/beamspring/internal/input/repeat"
	"github.com/dshills/beamspring/internal/layout"
	"github.com/dshills/beamspring/internal/logging"
	"github.com/dshills/beamspring/internal/report"
	"github.com/dshills/beamspring/internal/sched"
)

// Host stands in for the keyboard firmware. It resolves physical key
// transitions through the keymap, runs them past the input handler and
// applies default handling to whatever the handler lets through.
//
// A Host is not safe for concurrent use. Run owns it while running;
// otherwise the caller drives Process and Tick from one goroutine.
type Host struct {
	id     string
	cfg    *config.Config
	keymap *layout.Keymap
	layers layout.LayerState

	// pressed remembers the keycode each held position produced, so its
	// release matches even if the layers changed in between.
	pressed map[key.Pos]key.Code

	queue    *sched.Queue
	buf      *report.Buffer
	session  *input.Session
	repeat   *repeat.Accelerator
	recorder *macro.Recorder
	engine   *macro.Engine
	macros   *macro.Controller
	handler  *input.Handler
	metrics  *input.Metrics
	hooks    []input.Hook

	logger zerolog.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithKeymap replaces the stock keymap.
func WithKeymap(km *layout.Keymap) Option {
	return func(h *Host) { h.keymap = km }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithHook adds an observer of input handler decisions.
func WithHook(hook input.Hook) Option {
	return func(h *Host) { h.hooks = append(h.hooks, hook) }
}

// New creates a host flushing reports to sink. A nil cfg uses the
// defaults.
func New(cfg *config.Config, sink report.Sink, opts ...Option) (*Host, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	h := &Host{
		id:      uuid.NewString(),
		pressed: make(map[key.Pos]key.Code),
		metrics: input.NewMetrics(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.keymap == nil {
		h.keymap = layout.Default()
	}
	h.logger = h.logger.With().Str("session", h.id).Logger()

	h.buf = report.NewBuffer(sink,
		report.WithNKRO(cfg.Report.NKRO),
		report.WithClock(h.Now),
		report.WithLogger(logging.Component(h.logger, "report")),
	)

	if err := h.build(cfg); err != nil {
		return nil, err
	}

	h.logger.Info().
		Bool("socd", h.session.SOCDEnabled).
		Bool("nkro", h.buf.NKRO()).
		Bool("confirm", h.macros.Confirm()).
		Msg("host started")
	return h, nil
}

// build creates every configurable component from cfg. The report
// buffer, metrics and clock carry over. Recorded macros carry over when
// the buffer size is unchanged.
func (h *Host) build(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	pairs, err := cfg.SOCD.BuildPairs()
	if err != nil {
		return err
	}
	rc, err := cfg.Repeat.Build()
	if err != nil {
		return err
	}
	slots, err := cfg.Macro.BuildSlots()
	if err != nil {
		return err
	}

	now := h.Now()
	h.queue = sched.NewQueue(cfg.Timers.Max)
	h.queue.Advance(now)

	h.session = input.NewSession(pairs)
	h.session.SOCDEnabled = cfg.SOCD.Enabled
	h.session.ResetOnEnable = cfg.SOCD.ResetOnEnable

	h.repeat = repeat.New(rc, h.queue, h.buf, logging.Component(h.logger, "repeat"))

	macroLog := logging.Component(h.logger, "macro")
	if h.recorder == nil || h.recorder.Size() != cfg.Macro.Size {
		if h.recorder != nil {
			h.logger.Warn().Int("size", cfg.Macro.Size).Msg("macro buffer resized, recorded macros dropped")
		}
		h.recorder = macro.NewRecorder(cfg.Macro.Size, macroLog)
	}
	h.engine = macro.NewEngine(h.recorder, macro.NewPlayer(h.recorder), macroLog)
	h.engine.SetPlayback(h.replay)
	h.macros = macro.NewController(slots, cfg.Macro.Confirm, h.engine, macroLog)
	h.recorder.SetListener(h.macros)
	for _, s := range macro.AllSlots() {
		if h.recorder.HasMacro(s) {
			h.macros.OnRecordEnd(s)
		}
	}

	opts := []input.Option{
		input.WithMetrics(h.metrics),
		input.WithLogger(logging.Component(h.logger, "input")),
		input.WithHook(input.LoggingHook{Logger: logging.Component(h.logger, "dispatch")}),
	}
	for _, hook := range h.hooks {
		opts = append(opts, input.WithHook(hook))
	}
	h.handler = input.NewHandler(h.session, h.buf, h.repeat, h.macros, h.keymap, opts...)

	if h.buf.NKRO() != cfg.Report.NKRO {
		h.buf.SetNKRO(cfg.Report.NKRO)
	}
	h.cfg = cfg
	return nil
}

// Apply swaps in a new configuration. Every key is released first. An
// invalid cfg is rejected and the running configuration kept.
func (h *Host) Apply(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	h.releaseAll()
	if h.recorder.IsRecording() {
		_, _ = h.recorder.Stop()
	}
	if err := h.build(cfg); err != nil {
		return err
	}
	h.logger.Info().Bool("socd", h.session.SOCDEnabled).Msg("config applied")
	return nil
}

// Reboot returns the host to its power-on state under the current
// configuration: keys released, timers cancelled, layers cleared and
// macros forgotten.
func (h *Host) Reboot() {
	h.releaseAll()
	h.recorder.ClearAll()
	h.macros.Reset()
	h.session.SOCDEnabled = h.cfg.SOCD.Enabled
	h.session.ResetPairs()
	h.logger.Info().Msg("reboot")
}

func (h *Host) releaseAll() {
	h.repeat.Reset()
	h.queue.Reset()
	clear(h.pressed)
	h.layers = 0
	h.buf.Clear()
	h.buf.SendReport()
}

// Process handles one physical transition at time now, measured from host
// start. Timers due at or before now fire first.
func (h *Host) Process(pos key.Pos, pressed bool, now time.Duration) {
	h.Tick(now)

	var code key.Code
	if pressed {
		code = h.keymap.Resolve(pos, h.layers)
		h.pressed[pos] = code
	} else {
		c, ok := h.pressed[pos]
		if !ok {
			h.logger.Trace().Stringer("pos", pos).Msg("release without press")
			return
		}
		code = c
		delete(h.pressed, pos)
	}
	if code == key.KeyNone {
		return
	}

	ev := key.Event{Code: code, Pos: pos, Pressed: pressed, Time: h.Now()}
	if code.IsBasic() {
		// Recorded raw, before the handler; playback runs the handler again.
		h.engine.Record(ev)
	}
	h.handle(ev)
}

// Tick fires every timer due at or before now.
func (h *Host) Tick(now time.Duration) {
	h.queue.Advance(now)
}

// Next returns the time of the earliest pending timer.
func (h *Host) Next() (time.Duration, bool) {
	return h.queue.Next()
}

// Now returns the host clock.
func (h *Host) Now() time.Duration {
	if h.queue == nil {
		return 0
	}
	return h.queue.Now()
}

// handle runs ev through the input handler and, if it allows, the
// default path.
func (h *Host) handle(ev key.Event) {
	if h.handler.HandleEvent(ev) {
		h.apply(ev)
	}
}

// replay feeds a recorded macro event back through the full pipeline. It
// is never recorded again.
func (h *Host) replay(ev key.Event) {
	ev.Time = h.Now()
	h.handle(ev)
}

// ID returns the session id used in logs.
func (h *Host) ID() string { return h.id }

// Config returns the active configuration.
func (h *Host) Config() *config.Config { return h.cfg }

// Keymap returns the keymap.
func (h *Host) Keymap() *layout.Keymap { return h.keymap }

// Layers returns the active layer state.
func (h *Host) Layers() layout.LayerState { return h.layers }

// Report returns the report buffer.
func (h *Host) Report() *report.Buffer { return h.buf }

// Session returns the input handler's state.
func (h *Host) Session() *input.Session { return h.session }

// Metrics returns the input handler's counters.
func (h *Host) Metrics() *input.Metrics { return h.metrics }

// Macros returns the macro controller.
func (h *Host) Macros() *macro.Controller { return h.macros }

// Recorder returns the macro recorder.
func (h *Host) Recorder() *macro.Recorder { return h.recorder }

// Repeat returns the auto-repeat accelerator.
func (h *Host) Repeat() *repeat.Accelerator { return h.repeat }

// Pending returns the number of pending timers.
func (h *Host) Pending() int { return h.queue.Len() }

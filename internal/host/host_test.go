package host

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/beamspring/internal/config"
	"github.com/dshills/beamspring/internal/input"
	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/input/macro"
	"github.com/dshills/beamspring/internal/layout"
	"github.com/dshills/beamspring/internal/report"
)

const ms = time.Millisecond

type rig struct {
	t   *testing.T
	h   *Host
	out *report.Recorder
	now time.Duration

	// fnPos holds the MO(1) key.
	fnPos key.Pos
}

func newRig(t *testing.T, mutate func(*config.Config), opts ...Option) *rig {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	out := &report.Recorder{}
	h, err := New(cfg, out, opts...)
	require.NoError(t, err)

	fn := h.Keymap().Find(layout.LayerBase, key.Momentary(layout.LayerExtn))
	require.NotEmpty(t, fn)
	return &rig{t: t, h: h, out: out, fnPos: fn[0]}
}

// pos returns the base-layer position of code.
func (r *rig) pos(code key.Code) key.Pos {
	r.t.Helper()
	p, ok := r.h.Keymap().Locate(code)
	require.True(r.t, ok, "%s not on base layer", code)
	return p
}

func (r *rig) press(code key.Code)   { r.h.Process(r.pos(code), true, r.now) }
func (r *rig) release(code key.Code) { r.h.Process(r.pos(code), false, r.now) }

func (r *rig) tap(code key.Code) {
	r.press(code)
	r.release(code)
}

// fn taps the key at code's position with the extension layer held.
func (r *rig) fn(code key.Code) {
	r.h.Process(r.fnPos, true, r.now)
	r.tap(code)
	r.h.Process(r.fnPos, false, r.now)
}

func (r *rig) reports() []string {
	return r.out.Strings()
}

func (r *rig) held() string {
	return r.h.Report().Snapshot().String()
}

// ==== Default Handling Tests ====

func TestBasicKeys(t *testing.T) {
	r := newRig(t, nil)

	r.press(key.KeyLeftShift)
	r.press(key.KeyA)
	assert.Equal(t, "LSFT+A", r.held())
	r.release(key.KeyLeftShift)
	r.release(key.KeyA)

	assert.Equal(t, []string{"LSFT", "LSFT+A", "A", "-"}, r.reports())
}

func TestReleaseWithoutPress(t *testing.T) {
	r := newRig(t, nil)
	r.release(key.KeyA)
	assert.Empty(t, r.reports())
}

func TestMomentaryLayer(t *testing.T) {
	r := newRig(t, nil)

	r.h.Process(r.fnPos, true, 0)
	assert.True(t, r.h.Layers().IsOn(layout.LayerExtn))

	// Transparent on the extension layer.
	r.press(key.KeyQ)
	assert.Equal(t, "Q", r.held())

	// Layer released while Q is held: the release still matches Q.
	r.h.Process(r.fnPos, false, 0)
	assert.False(t, r.h.Layers().IsOn(layout.LayerExtn))
	r.release(key.KeyQ)
	assert.Equal(t, []string{"Q", "-"}, r.reports())
}

func TestExtensionKeysProduceNoReport(t *testing.T) {
	r := newRig(t, nil)

	r.fn(key.KeyE) // EE_CLR
	r.fn(key.KeyR) // QK_BOOT
	r.fn(key.KeyL) // QK_LOCK
	assert.Empty(t, r.reports())
}

func TestNKROToggle(t *testing.T) {
	r := newRig(t, nil)
	require.True(t, r.h.Report().NKRO())

	r.fn(key.KeyN)
	assert.False(t, r.h.Report().NKRO())

	r.press(key.KeyA)
	last := r.h.Report().Last()
	assert.False(t, last.NKRO)
	assert.Len(t, last.Bytes(), report.BootSize)
}

// ==== SOCD Tests ====

func TestSOCDToggleKey(t *testing.T) {
	r := newRig(t, nil)
	require.False(t, r.h.Session().SOCDEnabled)

	r.fn(key.KeyS)
	assert.True(t, r.h.Session().SOCDEnabled)
	assert.Empty(t, r.reports())

	r.fn(key.KeyS)
	assert.False(t, r.h.Session().SOCDEnabled)
	assert.Equal(t, uint64(2), r.h.Metrics().Snapshot().SOCDToggles)
}

func TestSOCDNeutral(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.SOCD.Enabled = true })

	r.press(key.KeyW)
	r.press(key.KeyS)
	assert.Equal(t, "-", r.held(), "neither direction while both are held")
	r.release(key.KeyS)
	assert.Equal(t, "W", r.held())
	r.release(key.KeyW)

	assert.Equal(t, []string{"W", "-", "W", "-"}, r.reports())
}

func TestSOCDLast(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.SOCD.Enabled = true })

	r.press(key.KeyA)
	r.press(key.KeyD)
	assert.Equal(t, "D", r.held())
	r.release(key.KeyD)
	assert.Equal(t, "A", r.held())
	r.release(key.KeyA)
	assert.Equal(t, "-", r.held())
}

func TestSOCDDisabledPassesBoth(t *testing.T) {
	r := newRig(t, nil)

	r.press(key.KeyW)
	r.press(key.KeyS)
	assert.Equal(t, "S W", r.held())
}

func TestMacroRecordsRawTransitions(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.SOCD.Enabled = true })

	r.fn(key.Key1) // start recording slot 1
	r.press(key.KeyW)
	r.press(key.KeyS) // suppressed, W released synthetically
	r.release(key.KeyS)
	r.release(key.KeyW)
	r.fn(key.Key1) // stop

	var got []string
	for _, ev := range r.h.Recorder().Get(macro.Slot1) {
		got = append(got, ev.String())
	}
	w, s := r.pos(key.KeyW).String(), r.pos(key.KeyS).String()
	assert.Equal(t, []string{"+W@" + w, "+S@" + s, "-S@" + s, "-W@" + w}, got)
}

func TestMacroNeutralOverlapReplaysBalanced(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.SOCD.Enabled = true })

	r.fn(key.Key1)
	r.press(key.KeyW)
	r.press(key.KeyS)
	r.release(key.KeyW)
	r.release(key.KeyS)
	r.fn(key.Key1)
	require.Equal(t, 4, r.h.Recorder().Len(macro.Slot1))
	require.Equal(t, "-", r.held())

	r.out.Reset()
	r.fn(key.Key1)
	assert.Equal(t, []string{"W", "-", "S", "-"}, r.reports())
	assert.Equal(t, "-", r.held())
	for _, p := range r.h.Session().Pairs {
		assert.False(t, p.Keys[0].Held, "pair %s", p.Name)
		assert.False(t, p.Keys[1].Held, "pair %s", p.Name)
	}
}

// ==== Repeat Tests ====

func TestRepeatAcceleration(t *testing.T) {
	r := newRig(t, nil)

	r.press(key.KeyBackspace)
	assert.Equal(t, uint64(1), r.h.Repeat().Taps())
	assert.Equal(t, "-", r.held(), "a tap does not leave the key held")

	r.h.Tick(1000 * ms)
	assert.Equal(t, uint64(13), r.h.Repeat().Taps())

	r.now = 1000 * ms
	r.release(key.KeyBackspace)
	assert.Equal(t, 0, r.h.Pending())

	r.h.Tick(5 * time.Second)
	assert.Equal(t, uint64(13), r.h.Repeat().Taps())

	reps := r.reports()
	require.Len(t, reps, 26)
	for i, s := range reps {
		want := "BSPC"
		if i%2 == 1 {
			want = "-"
		}
		assert.Equal(t, want, s, "report %d", i)
	}
}

func TestRepeatKeysIndependent(t *testing.T) {
	r := newRig(t, nil)

	r.press(key.KeyBackspace)
	r.h.Tick(300 * ms)
	r.now = 300 * ms
	r.press(key.KeyDelete)
	assert.Equal(t, 1, r.h.Repeat().Count(key.KeyBackspace))
	assert.Equal(t, 0, r.h.Repeat().Count(key.KeyDelete))

	r.release(key.KeyBackspace)
	assert.False(t, r.h.Repeat().Active(key.KeyBackspace))
	assert.True(t, r.h.Repeat().Active(key.KeyDelete))
}

// ==== Macro Tests ====

func recordAB(r *rig) {
	r.fn(key.Key1)
	require.Equal(r.t, macro.PhaseRecording, r.h.Macros().Phase(macro.Slot1))
	r.tap(key.KeyA)
	r.tap(key.KeyB)
	r.fn(key.Key1)
	require.Equal(r.t, macro.PhaseRecorded, r.h.Macros().Phase(macro.Slot1))
}

func TestMacroRecordAndPlay(t *testing.T) {
	r := newRig(t, nil)

	recordAB(r)
	assert.Equal(t, 4, r.h.Recorder().Len(macro.Slot1))

	r.out.Reset()
	r.fn(key.Key1)
	assert.Equal(t, []string{"A", "-", "B", "-"}, r.reports())
	assert.Equal(t, macro.PhaseRecorded, r.h.Macros().Phase(macro.Slot1))
}

func TestMacroRecordsRepeatKeys(t *testing.T) {
	r := newRig(t, nil)

	r.fn(key.Key1)
	r.tap(key.KeyA)
	r.tap(key.KeyBackspace)
	r.tap(key.KeyB)
	r.fn(key.Key1)
	assert.Equal(t, 6, r.h.Recorder().Len(macro.Slot1))

	r.out.Reset()
	r.fn(key.Key1)
	assert.Equal(t, []string{"A", "-", "BSPC", "-", "B", "-"}, r.reports())
	assert.Equal(t, 0, r.h.Pending())
}

func TestMacroConfirmVariant(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.Macro.Confirm = true })

	recordAB(r)
	r.out.Reset()

	r.fn(key.Key1)
	assert.Equal(t, macro.PhaseAwaitingConfirm, r.h.Macros().Phase(macro.Slot1))
	assert.Empty(t, r.reports())

	r.fn(key.Key1)
	assert.Equal(t, macro.PhaseRecorded, r.h.Macros().Phase(macro.Slot1))
	assert.Equal(t, []string{"A", "-", "B", "-"}, r.reports())
}

func TestMacroSecondSlot(t *testing.T) {
	r := newRig(t, nil)

	r.fn(key.Key2)
	assert.Equal(t, macro.PhaseRecording, r.h.Macros().Phase(macro.Slot2))
	r.tap(key.KeyZ)
	r.fn(key.Key2)

	r.out.Reset()
	r.fn(key.Key2)
	assert.Equal(t, []string{"Z", "-"}, r.reports())
	assert.Equal(t, macro.PhaseIdle, r.h.Macros().Phase(macro.Slot1))
}

func TestMacroClearKey(t *testing.T) {
	r := newRig(t, func(c *config.Config) { c.Macro.Confirm = true })

	recordAB(r)
	r.fn(key.Key1)
	require.Equal(t, macro.PhaseAwaitingConfirm, r.h.Macros().Phase(macro.Slot1))

	r.fn(key.KeyC)
	assert.Equal(t, macro.PhaseIdle, r.h.Macros().Phase(macro.Slot1))
}

func TestMacroAbortBySecondSlot(t *testing.T) {
	r := newRig(t, nil)

	r.fn(key.Key1)
	r.tap(key.KeyA)
	r.fn(key.Key2)

	assert.Equal(t, macro.PhaseIdle, r.h.Macros().Phase(macro.Slot1))
	assert.Equal(t, macro.PhaseIdle, r.h.Macros().Phase(macro.Slot2))
	assert.False(t, r.h.Recorder().IsRecording())
}

func TestMacroStopKey(t *testing.T) {
	r := newRig(t, nil)

	r.fn(key.Key1)
	r.tap(key.KeyX)
	r.fn(key.KeyM) // DM_RSTP
	assert.Equal(t, macro.PhaseRecorded, r.h.Macros().Phase(macro.Slot1))
	assert.Equal(t, 2, r.h.Recorder().Len(macro.Slot1))
}

func TestMacroQuantumKeys(t *testing.T) {
	base := append([]key.Code(nil), layout.DefaultBase...)
	// F1..F5 become the dynamic macro keys.
	base[1] = key.KeyMacroRecord1
	base[2] = key.KeyMacroRecord2
	base[3] = key.KeyMacroStop
	base[4] = key.KeyMacroPlay1
	base[5] = key.KeyMacroPlay2
	km, err := layout.New(layout.ANSI, base, layout.DefaultExtn)
	require.NoError(t, err)

	r := newRig(t, nil, WithKeymap(km))
	at := func(i int) key.Pos { return layout.ANSI.Positions()[i] }
	tapAt := func(i int) {
		r.h.Process(at(i), true, 0)
		r.h.Process(at(i), false, 0)
	}

	tapAt(1)
	assert.Equal(t, macro.PhaseRecording, r.h.Macros().Phase(macro.Slot1))
	r.tap(key.KeyQ)
	tapAt(3)
	assert.Equal(t, macro.PhaseRecorded, r.h.Macros().Phase(macro.Slot1))

	tapAt(2)
	r.tap(key.KeyW)
	tapAt(3)

	r.out.Reset()
	tapAt(5)
	tapAt(4)
	assert.Equal(t, []string{"W", "-", "Q", "-"}, r.reports())
}

func TestMacroPlaybackThroughSOCD(t *testing.T) {
	r := newRig(t, nil)

	r.fn(key.Key1)
	r.press(key.KeyW)
	r.press(key.KeyS)
	r.release(key.KeyS)
	r.release(key.KeyW)
	r.fn(key.Key1)

	r.fn(key.KeyS) // SOCD on
	r.out.Reset()
	r.fn(key.Key1)
	assert.Equal(t, []string{"W", "-", "W", "-"}, r.reports())
}

// ==== Reboot and Reload Tests ====

func TestReboot(t *testing.T) {
	r := newRig(t, nil)

	recordAB(r)
	r.fn(key.KeyS)
	r.press(key.KeyBackspace)
	r.press(key.KeyF)
	require.Equal(t, "F", r.held())

	r.fn(key.KeyB)
	assert.Equal(t, "-", r.held())
	assert.Equal(t, 0, r.h.Pending())
	assert.False(t, r.h.Recorder().HasMacro(macro.Slot1))
	assert.Equal(t, macro.PhaseIdle, r.h.Macros().Phase(macro.Slot1))
	assert.False(t, r.h.Session().SOCDEnabled)
	assert.Equal(t, layout.LayerState(0), r.h.Layers())

	// Keys held across the reboot release quietly.
	n := len(r.reports())
	r.release(key.KeyF)
	assert.Len(t, r.reports(), n)
}

func TestApply(t *testing.T) {
	r := newRig(t, nil)
	recordAB(r)
	r.press(key.KeyF)

	cfg := config.Default()
	cfg.SOCD.Enabled = true
	cfg.Macro.Confirm = true
	require.NoError(t, r.h.Apply(cfg))

	assert.Equal(t, "-", r.held())
	assert.True(t, r.h.Session().SOCDEnabled)
	assert.True(t, r.h.Macros().Confirm())
	assert.Equal(t, macro.PhaseRecorded, r.h.Macros().Phase(macro.Slot1), "macros survive a reload")
	assert.Same(t, cfg, r.h.Config())
}

func TestApplyResizeDropsMacros(t *testing.T) {
	r := newRig(t, nil)
	recordAB(r)

	cfg := config.Default()
	cfg.Macro.Size = 64
	require.NoError(t, r.h.Apply(cfg))
	assert.Equal(t, 64, r.h.Recorder().Size())
	assert.False(t, r.h.Recorder().HasMacro(macro.Slot1))
	assert.Equal(t, macro.PhaseIdle, r.h.Macros().Phase(macro.Slot1))
}

func TestApplyInvalid(t *testing.T) {
	r := newRig(t, nil)
	before := r.h.Config()

	cfg := config.Default()
	cfg.Timers.Max = 0
	err := r.h.Apply(cfg)

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "timers.max", verr.Path)
	assert.Same(t, before, r.h.Config())
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Repeat.CurveMS = nil
	_, err := New(cfg, report.Discard)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

// ==== Observation Tests ====

func TestHooksAndMetrics(t *testing.T) {
	var routes []input.Route
	hook := input.HookFunc(func(_ key.Event, d input.Decision) { routes = append(routes, d.Route) })
	r := newRig(t, nil, WithHook(hook))

	r.tap(key.KeyA)
	r.fn(key.KeyS)
	r.press(key.KeyEnter)

	assert.Equal(t, []input.Route{
		// A
		input.RoutePass, input.RoutePass,
		// MO(1) down, S, MO(1) up
		input.RoutePass, input.RouteSOCDToggle, input.RouteSOCDToggle, input.RoutePass,
		// ENT
		input.RouteRepeat,
	}, routes)

	snap := r.h.Metrics().Snapshot()
	assert.Equal(t, uint64(7), snap.Events)
	assert.Equal(t, uint64(1), snap.Suppressed)
	assert.Equal(t, uint64(1), snap.RepeatKeys)
	assert.NotEmpty(t, r.h.ID())
}

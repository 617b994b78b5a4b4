package repeat

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/report"
	"github.com/dshills/beamspring/internal/sched"
)

const ms = time.Millisecond

type rig struct {
	q   *sched.Queue
	rec *report.Recorder
	acc *Accelerator
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	q := sched.NewQueue(0)
	rec := &report.Recorder{}
	buf := report.NewBuffer(rec, report.WithClock(q.Now))
	return &rig{q: q, rec: rec, acc: New(cfg, q, buf, zerolog.Nop())}
}

// tapTimes returns the time of every key-down report for code.
func (r *rig) tapTimes(code key.Code) []time.Duration {
	var out []time.Duration
	for _, rep := range r.rec.Reports() {
		if rep.Has(code) {
			out = append(out, rep.Time)
		}
	}
	return out
}

func TestCheckCurve(t *testing.T) {
	assert.NoError(t, CheckCurve(DefaultInitialDelay, DefaultCurve))
	assert.ErrorIs(t, CheckCurve(300*ms, nil), ErrEmptyCurve)
	assert.ErrorIs(t, CheckCurve(300*ms, []time.Duration{100 * ms, 120 * ms}), ErrCurveIncreases)
	assert.ErrorIs(t, CheckCurve(100*ms, []time.Duration{150 * ms}), ErrCurveIncreases)
	assert.Error(t, CheckCurve(300*ms, []time.Duration{0}))
}

func TestPressTapsImmediately(t *testing.T) {
	r := newRig(t, DefaultConfig())

	assert.False(t, r.acc.OnKey(key.KeyBackspace, true))
	assert.Equal(t, []string{"BSPC", "-"}, r.rec.Strings())
	assert.True(t, r.acc.Active(key.KeyBackspace))

	assert.False(t, r.acc.OnKey(key.KeyBackspace, false))
	assert.False(t, r.acc.Active(key.KeyBackspace))
	assert.Equal(t, 0, r.q.Len())
}

func TestHoldAccelerates(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.acc.OnKey(key.KeyBackspace, true)
	r.q.Advance(2 * time.Second)

	times := r.tapTimes(key.KeyBackspace)
	require.Greater(t, len(times), len(DefaultCurve)+2)
	assert.Equal(t, time.Duration(0), times[0])
	assert.Equal(t, 300*ms, times[1], "first repeat after the initial delay")

	prev := times[1] - times[0]
	for i := 2; i < len(times); i++ {
		gap := times[i] - times[i-1]
		assert.LessOrEqual(t, gap, prev, "interval %d grew", i)
		assert.GreaterOrEqual(t, gap, 10*ms)
		prev = gap
	}
	assert.Equal(t, 10*ms, prev, "bottoms out at the floor")
	assert.Equal(t, len(DefaultCurve), r.acc.Count(key.KeyBackspace), "counter saturates")
}

func TestExactSchedule(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.acc.OnKey(key.KeyEnter, true)
	r.q.Advance(1000 * ms)

	want := []time.Duration{0, 300, 450, 570, 670, 750, 815, 865, 905, 935, 960, 980, 995}
	for i := range want {
		want[i] *= ms
	}
	assert.Equal(t, want, r.tapTimes(key.KeyEnter))
}

func TestReleaseStopsTaps(t *testing.T) {
	for _, hold := range []time.Duration{0, 100 * ms, 300 * ms, 451 * ms, 2 * time.Second} {
		r := newRig(t, DefaultConfig())
		r.acc.OnKey(key.KeyDelete, true)
		r.q.Advance(hold)
		r.acc.OnKey(key.KeyDelete, false)

		n := len(r.tapTimes(key.KeyDelete))
		r.q.Advance(hold + 10*time.Second)
		assert.Len(t, r.tapTimes(key.KeyDelete), n, "hold %v", hold)
		assert.Equal(t, 0, r.q.Len())
	}
}

func TestCounterResetsOnFreshPress(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.acc.OnKey(key.KeyBackspace, true)
	r.q.Advance(600 * ms)
	r.acc.OnKey(key.KeyBackspace, false)
	held := r.acc.Count(key.KeyBackspace)
	assert.Greater(t, held, 0)
	assert.Equal(t, held, r.acc.Count(key.KeyBackspace), "release keeps the counter")

	r.acc.OnKey(key.KeyBackspace, true)
	assert.Equal(t, 0, r.acc.Count(key.KeyBackspace))
}

func TestPressWhilePendingIsIgnored(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.acc.OnKey(key.KeyBackspace, true)
	r.acc.OnKey(key.KeyBackspace, true)
	assert.Equal(t, uint64(1), r.acc.Taps())
	assert.Equal(t, 1, r.q.Len())
}

func TestKeysAreIndependent(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.acc.OnKey(key.KeyBackspace, true)
	r.q.Advance(500 * ms)
	r.acc.OnKey(key.KeyEnter, true)
	r.q.Advance(800 * ms)

	assert.Equal(t, 500*ms, r.tapTimes(key.KeyEnter)[0])
	assert.Equal(t, 800*ms, r.tapTimes(key.KeyEnter)[1])
	assert.Greater(t, r.acc.Count(key.KeyBackspace), r.acc.Count(key.KeyEnter))

	r.acc.OnKey(key.KeyBackspace, false)
	assert.True(t, r.acc.Active(key.KeyEnter))
}

func TestUnboundKey(t *testing.T) {
	r := newRig(t, DefaultConfig())
	assert.False(t, r.acc.Handles(key.KeyA))
	assert.False(t, r.acc.OnKey(key.KeyA, true))
	assert.Equal(t, 0, r.rec.Len())
}

func TestCustomConfig(t *testing.T) {
	r := newRig(t, Config{
		Keys:         []key.Code{key.KeyA, key.KeyA},
		InitialDelay: 50 * ms,
		Curve:        []time.Duration{20 * ms},
	})
	assert.Equal(t, []key.Code{key.KeyA}, r.acc.Keys())

	r.acc.OnKey(key.KeyA, true)
	r.q.Advance(100 * ms)
	assert.Equal(t, []time.Duration{0, 50 * ms, 70 * ms, 90 * ms}, r.tapTimes(key.KeyA))
}

func TestQueueFull(t *testing.T) {
	q := sched.NewQueue(1)
	buf := report.NewBuffer(nil)
	acc := New(DefaultConfig(), q, buf, zerolog.Nop())

	acc.OnKey(key.KeyBackspace, true)
	acc.OnKey(key.KeyEnter, true)
	assert.True(t, acc.Active(key.KeyBackspace))
	assert.False(t, acc.Active(key.KeyEnter))
	assert.Equal(t, uint64(2), acc.Taps(), "the tap still happens")
}

func TestReset(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.acc.OnKey(key.KeyBackspace, true)
	r.acc.OnKey(key.KeyEnter, true)
	r.acc.Reset()
	assert.Equal(t, 0, r.q.Len())
	assert.False(t, r.acc.Active(key.KeyBackspace))
}

package socd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/report"
)

// board runs events through a pair and then through default handling, the
// way the dispatcher and host do.
type board struct {
	pair *Pair
	buf  *report.Buffer
	rec  *report.Recorder
}

func newBoard(mode Mode) *board {
	rec := &report.Recorder{}
	return &board{
		pair: NewPair("h", key.KeyA, key.KeyD, mode),
		buf:  report.NewBuffer(rec),
		rec:  rec,
	}
}

func (b *board) event(code key.Code, pressed bool) bool {
	ok := Resolve(b.pair, code, pressed, b.buf)
	if ok {
		if pressed {
			b.buf.AddKey(code)
		} else {
			b.buf.DelKey(code)
		}
		b.buf.SendReport()
	}
	return ok
}

func (b *board) press(code key.Code) bool   { return b.event(code, true) }
func (b *board) release(code key.Code) bool { return b.event(code, false) }

func (b *board) held() []key.Code { return b.buf.Snapshot().Keys }

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"off", ModeOff},
		{"last", ModeLast},
		{"Neutral", ModeNeutral},
		{" former ", ModeFormer},
		{"LATTER", ModeLatter},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if err != nil {
			t.Errorf("ParseMode(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	_, err := ParseMode("first")
	assert.Error(t, err)
	assert.Equal(t, "Mode(9)", Mode(9).String())
}

func TestModeText(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("latter")))
	assert.Equal(t, ModeLatter, m)

	b, err := ModeNeutral.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "neutral", string(b))

	_, err = Mode(7).MarshalText()
	assert.Error(t, err)
}

func TestUnrelatedKeyPassesThrough(t *testing.T) {
	for _, mode := range []Mode{ModeOff, ModeLast, ModeNeutral, ModeFormer, ModeLatter} {
		b := newBoard(mode)
		assert.True(t, b.press(key.KeyW), "mode %s", mode)
		assert.Equal(t, [2]Key{{Code: key.KeyA}, {Code: key.KeyD}}, b.pair.Keys)
	}
}

func TestOffDoesNotTrack(t *testing.T) {
	b := newBoard(ModeOff)
	assert.True(t, b.press(key.KeyA))
	assert.True(t, b.press(key.KeyD))
	assert.False(t, b.pair.Keys[0].Held)
	assert.Equal(t, []key.Code{key.KeyA, key.KeyD}, b.held())
}

func TestNeutralCancelsBothOrders(t *testing.T) {
	orders := [][2]key.Code{{key.KeyA, key.KeyD}, {key.KeyD, key.KeyA}}
	for _, o := range orders {
		b := newBoard(ModeNeutral)
		assert.True(t, b.press(o[0]))
		assert.False(t, b.press(o[1]), "overlapping press is suppressed")
		assert.Empty(t, b.held())

		assert.False(t, b.release(o[1]), "release of the suppressed key is suppressed")
		assert.Equal(t, []key.Code{o[0]}, b.held(), "first key comes back")

		assert.True(t, b.release(o[0]))
		assert.Empty(t, b.held())
	}
}

func TestNeutralFlushesReport(t *testing.T) {
	b := newBoard(ModeNeutral)
	b.press(key.KeyA)
	b.press(key.KeyD)
	assert.Equal(t, []string{"A", "-"}, b.rec.Strings())
}

func TestLastWithReactivation(t *testing.T) {
	b := newBoard(ModeLast)
	assert.True(t, b.press(key.KeyA))
	assert.True(t, b.press(key.KeyD))
	assert.Equal(t, []key.Code{key.KeyD}, b.held())

	assert.True(t, b.release(key.KeyD))
	assert.Equal(t, []key.Code{key.KeyA}, b.held(), "A reactivates without a new press")

	assert.True(t, b.release(key.KeyA))
	assert.Empty(t, b.held())
	assert.Equal(t, []string{"A", "D", "A", "-"}, b.rec.Strings())
}

func TestFormerWins(t *testing.T) {
	b := newBoard(ModeFormer)
	assert.True(t, b.press(key.KeyA))

	sent := b.rec.Len()
	assert.False(t, b.press(key.KeyD), "latter has no effect while former is held")
	assert.Equal(t, sent, b.rec.Len(), "nothing emitted")
	assert.Equal(t, []key.Code{key.KeyA}, b.held())

	assert.True(t, b.release(key.KeyA))
	assert.Equal(t, []key.Code{key.KeyD}, b.held(), "latter takes effect")

	assert.True(t, b.press(key.KeyA), "former wins over held latter")
	assert.Equal(t, []key.Code{key.KeyA}, b.held())
}

func TestLatterWins(t *testing.T) {
	b := newBoard(ModeLatter)
	assert.True(t, b.press(key.KeyD))
	assert.False(t, b.press(key.KeyA))
	assert.Equal(t, []key.Code{key.KeyD}, b.held())

	b = newBoard(ModeLatter)
	assert.True(t, b.press(key.KeyA))
	assert.True(t, b.press(key.KeyD))
	assert.Equal(t, []key.Code{key.KeyD}, b.held())
	assert.True(t, b.release(key.KeyD))
	assert.Equal(t, []key.Code{key.KeyA}, b.held())
}

func TestHeldFlagsFollowPhysicalKeys(t *testing.T) {
	b := newBoard(ModeNeutral)
	b.press(key.KeyA)
	b.press(key.KeyD)
	assert.True(t, b.pair.Keys[0].Held)
	assert.True(t, b.pair.Keys[1].Held)

	b.pair.Reset()
	assert.False(t, b.pair.Keys[0].Held)
	assert.False(t, b.pair.Keys[1].Held)
}

type mockReport struct {
	mock.Mock
}

func (m *mockReport) AddKey(code key.Code) { m.Called(code) }
func (m *mockReport) DelKey(code key.Code) { m.Called(code) }
func (m *mockReport) SendReport()          { m.Called() }

func TestApplyEmitsAtMostOneSyntheticEvent(t *testing.T) {
	out := &mockReport{}
	p := NewPair("v", key.KeyW, key.KeyS, ModeNeutral)

	assert.Equal(t, Tracked, Apply(p, key.KeyW, true, out))

	out.On("DelKey", key.KeyW).Once()
	out.On("SendReport").Once()
	o := Apply(p, key.KeyS, true, out)
	assert.Equal(t, Cancelled, o)
	assert.True(t, o.Synthetic())
	assert.False(t, o.Continue())
	out.AssertExpectations(t)

	out = &mockReport{}
	out.On("AddKey", key.KeyW).Once()
	out.On("SendReport").Once()
	assert.Equal(t, Cancelled, Apply(p, key.KeyS, false, out))
	out.AssertExpectations(t)
	out.AssertNumberOfCalls(t, "AddKey", 1)
}

func TestApplyBlockedEmitsNothing(t *testing.T) {
	out := &mockReport{}
	p := NewPair("v", key.KeyW, key.KeyS, ModeFormer)

	Apply(p, key.KeyW, true, out)
	o := Apply(p, key.KeyS, true, out)
	assert.Equal(t, Blocked, o)
	assert.False(t, o.Synthetic())
	out.AssertNotCalled(t, "AddKey", mock.Anything)
	out.AssertNotCalled(t, "DelKey", mock.Anything)
	out.AssertNotCalled(t, "SendReport")
}

func TestPairString(t *testing.T) {
	p := NewPair("vertical", key.KeyW, key.KeyS, ModeNeutral)
	assert.Equal(t, "vertical(W/S neutral)", p.String())
}

package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/beamspring/internal/config"
	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/report"
)

type loopRig struct {
	h       *Host
	out     *report.Recorder
	trans   chan Transition
	reloads chan *config.Config
	errc    chan error
	cancel  context.CancelFunc
}

func startLoop(t *testing.T) *loopRig {
	t.Helper()
	out := &report.Recorder{}
	h, err := New(nil, out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	r := &loopRig{
		h:       h,
		out:     out,
		trans:   make(chan Transition),
		reloads: make(chan *config.Config),
		errc:    make(chan error, 1),
		cancel:  cancel,
	}
	t.Cleanup(cancel)

	go func() { r.errc <- h.Run(ctx, r.trans, r.reloads) }()
	return r
}

func (r *loopRig) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.errc:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("host loop did not stop")
		return nil
	}
}

func TestRunProcessesTransitions(t *testing.T) {
	r := startLoop(t)
	a, _ := r.h.Keymap().Locate(key.KeyA)

	r.trans <- Transition{Pos: a, Pressed: true}
	r.trans <- Transition{Pos: a}
	close(r.trans)

	require.NoError(t, r.wait(t))
	assert.Equal(t, []string{"A", "-"}, r.out.Strings())
}

func TestRunFiresRepeatTimers(t *testing.T) {
	r := startLoop(t)
	bspc, _ := r.h.Keymap().Locate(key.KeyBackspace)

	r.trans <- Transition{Pos: bspc, Pressed: true}

	// Initial tap, then repeats at 300ms and 450ms.
	assert.Eventually(t, func() bool { return r.out.Len() >= 6 }, 2*time.Second, 10*time.Millisecond)

	r.trans <- Transition{Pos: bspc}
	close(r.trans)
	require.NoError(t, r.wait(t))
	assert.Equal(t, 0, r.h.Pending())
}

func TestRunReload(t *testing.T) {
	r := startLoop(t)

	cfg := config.Default()
	cfg.SOCD.Enabled = true
	r.reloads <- cfg

	bad := config.Default()
	bad.Macro.Size = 0
	r.reloads <- bad

	close(r.trans)
	require.NoError(t, r.wait(t))
	assert.Same(t, cfg, r.h.Config())
	assert.True(t, r.h.Session().SOCDEnabled)
}

func TestRunContextCancel(t *testing.T) {
	r := startLoop(t)
	f, _ := r.h.Keymap().Locate(key.KeyF)
	r.trans <- Transition{Pos: f, Pressed: true}

	r.cancel()
	assert.ErrorIs(t, r.wait(t), context.Canceled)
	assert.Equal(t, []string{"F", "-"}, r.out.Strings())
}

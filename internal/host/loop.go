package host

import (
	"context"
	"time"

	"github.com/dshills/beamspring/internal/config"
	"github.com/dshills/beamspring/internal/input/key"
)

// Transition is one physical key change delivered by a source.
type Transition struct {
	Pos     key.Pos
	Pressed bool
}

// Run owns the host until ctx is done or transitions is closed. Timers
// fire from a single time.Timer set to the earliest deadline. Configs
// received on reloads are applied between events; a nil reloads channel
// disables reloading.
func (h *Host) Run(ctx context.Context, transitions <-chan Transition, reloads <-chan *config.Config) error {
	start := time.Now()
	clock := func() time.Duration {
		return time.Since(start)
	}
	// The host clock may already be ahead, e.g. after a replay.
	offset := h.Now()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	h.logger.Info().Msg("host loop running")
	defer h.logger.Info().Msg("host loop stopped")

	for {
		var fire <-chan time.Time
		if next, ok := h.Next(); ok {
			wait := next - (offset + clock())
			if wait < 0 {
				wait = 0
			}
			timer.Reset(wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			h.releaseAll()
			return ctx.Err()

		case tr, ok := <-transitions:
			if !ok {
				h.releaseAll()
				return nil
			}
			h.Process(tr.Pos, tr.Pressed, offset+clock())

		case <-fire:
			h.Tick(offset + clock())

		case cfg := <-reloads:
			if cfg == nil {
				continue
			}
			if err := h.Apply(cfg); err != nil {
				h.logger.Error().Err(err).Msg("config reload rejected")
			}
		}
		timer.Stop()
	}
}

package macro

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
)

// Engine adapts a Recorder and Player to the infallible primitives the
// Controller drives. Refusals are logged and otherwise ignored; the
// controller's state follows the recorder's start and end notifications,
// so a refused operation leaves it unchanged.
type Engine struct {
	recorder *Recorder
	player   *Player
	playback EventHandler
	logger   zerolog.Logger
}

// NewEngine creates an engine. Playback events go to the handler set with
// SetPlayback.
func NewEngine(recorder *Recorder, player *Player, logger zerolog.Logger) *Engine {
	return &Engine{
		recorder: recorder,
		player:   player,
		logger:   logger,
	}
}

// SetPlayback sets where replayed events are sent.
func (e *Engine) SetPlayback(h EventHandler) {
	e.playback = h
}

// RecordStart begins recording slot s.
func (e *Engine) RecordStart(s Slot) {
	if e.player.IsPlaying() {
		e.logger.Warn().Stringer("slot", s).Msg("macro record refused during playback")
		return
	}
	if err := e.recorder.Start(s); err != nil {
		e.logger.Warn().Err(err).Stringer("slot", s).Msg("macro record start refused")
	}
}

// RecordStop ends whatever recording is in progress. s names the slot the
// caller believes is recording.
func (e *Engine) RecordStop(s Slot) {
	got, err := e.recorder.Stop()
	if err != nil {
		e.logger.Debug().Err(err).Stringer("slot", s).Msg("macro record stop ignored")
		return
	}
	if got != s && s != SlotNone {
		e.logger.Debug().Stringer("slot", got).Stringer("expected", s).Msg("stopped a different macro slot")
	}
}

// Play replays slot s through the playback handler.
func (e *Engine) Play(s Slot) {
	err := e.player.Play(s, e.playback)
	switch {
	case err == nil:
		e.logger.Debug().Stringer("slot", s).Int("events", e.recorder.Len(s)).Msg("macro played")
	case errors.Is(err, ErrEmptySlot):
		e.logger.Warn().Stringer("slot", s).Msg("macro slot is empty")
	default:
		e.logger.Warn().Err(err).Stringer("slot", s).Msg("macro play refused")
	}
}

// Record appends a default-handled event to the active recording.
func (e *Engine) Record(ev key.Event) bool {
	return e.recorder.Record(ev)
}

// Recorder returns the underlying recorder.
func (e *Engine) Recorder() *Recorder {
	return e.recorder
}

// Player returns the underlying player.
func (e *Engine) Player() *Player {
	return e.player
}

// Reset abandons any recording and clears every slot.
func (e *Engine) Reset() {
	e.recorder.ClearAll()
}

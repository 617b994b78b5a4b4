package macro

import (
	"fmt"

	"github.com/dshills/beamspring/internal/input/key"
)

// EventHandler processes replayed key events.
type EventHandler func(event key.Event)

// Player replays recorded macros synchronously.
//
// Macros do not nest: a macro cannot be played while one is being recorded
// or while another is playing, so a macro that contains a play key does not
// recurse.
type Player struct {
	recorder *Recorder
	playing  Slot
	plays    uint64
}

// NewPlayer creates a player over recorder's slots.
func NewPlayer(recorder *Recorder) *Player {
	return &Player{recorder: recorder}
}

// Play sends every event of slot s to handler, in order.
func (p *Player) Play(s Slot, handler EventHandler) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, s)
	}
	if handler == nil {
		return ErrNilHandler
	}
	if p.recorder.IsRecording() {
		return fmt.Errorf("%w: recording slot %s", ErrNested, p.recorder.Recording())
	}
	if p.playing != SlotNone {
		return fmt.Errorf("%w: slot %s", ErrBusy, p.playing)
	}

	events := p.recorder.Get(s)
	if len(events) == 0 {
		return fmt.Errorf("%w: slot %s", ErrEmptySlot, s)
	}

	p.playing = s
	defer func() { p.playing = SlotNone }()

	for _, ev := range events {
		handler(ev)
	}
	p.plays++
	return nil
}

// IsPlaying returns true while a macro is being replayed.
func (p *Player) IsPlaying() bool {
	return p.playing != SlotNone
}

// Playing returns the slot being replayed, or SlotNone.
func (p *Player) Playing() Slot {
	return p.playing
}

// Plays returns the number of completed playbacks.
func (p *Player) Plays() uint64 {
	return p.plays
}

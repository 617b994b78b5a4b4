package macro

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
)

// DefaultSize is the number of events the shared macro buffer holds.
const DefaultSize = 32

// Errors returned by the recorder and player.
var (
	ErrInvalidSlot      = errors.New("invalid macro slot")
	ErrAlreadyRecording = errors.New("already recording a macro")
	ErrNotRecording     = errors.New("not recording a macro")
	ErrEmptySlot        = errors.New("macro slot is empty")
	ErrNested           = errors.New("cannot play a macro while recording")
	ErrBusy             = errors.New("already playing a macro")
	ErrNilHandler       = errors.New("handler cannot be nil")
)

// Listener is told when recording starts and ends.
type Listener interface {
	OnRecordStart(s Slot)
	OnRecordEnd(s Slot)
}

// Recorder records key events into macro slots.
//
// Both slots draw from one buffer of a fixed number of events: slot 1 and
// slot 2 together never hold more than Size events. Events that do not fit
// are dropped. Starting a recording discards the slot's previous contents.
//
// A Recorder is not safe for concurrent use; the host loop owns it.
type Recorder struct {
	size      int
	slots     [MaxSlots + 1][]key.Event
	recording Slot
	events    []key.Event
	dropped   int
	listener  Listener
	logger    zerolog.Logger
}

// NewRecorder creates a recorder with a shared buffer of size events.
// A size of zero or less uses DefaultSize.
func NewRecorder(size int, logger zerolog.Logger) *Recorder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Recorder{size: size, logger: logger}
}

// SetListener registers the receiver of start and end notifications.
func (r *Recorder) SetListener(l Listener) {
	r.listener = l
}

// Start begins recording to slot s.
func (r *Recorder) Start(s Slot) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, s)
	}
	if r.recording != SlotNone {
		return fmt.Errorf("%w: slot %s", ErrAlreadyRecording, r.recording)
	}

	r.slots[s] = nil
	r.recording = s
	r.events = make([]key.Event, 0, r.capacity(s))
	r.dropped = 0

	r.logger.Debug().Stringer("slot", s).Int("capacity", cap(r.events)).Msg("macro record start")
	if r.listener != nil {
		r.listener.OnRecordStart(s)
	}
	return nil
}

// Stop ends the current recording, saves it and returns the slot it was
// saved to. A recording with no events leaves the slot empty.
func (r *Recorder) Stop() (Slot, error) {
	s := r.recording
	if s == SlotNone {
		return SlotNone, ErrNotRecording
	}

	if len(r.events) > 0 {
		r.slots[s] = r.events
	}
	r.events = nil
	r.recording = SlotNone

	r.logger.Debug().
		Stringer("slot", s).
		Int("events", len(r.slots[s])).
		Int("dropped", r.dropped).
		Msg("macro record end")
	if r.listener != nil {
		r.listener.OnRecordEnd(s)
	}
	return s, nil
}

// Record appends ev to the current recording. Returns false when not
// recording or when the buffer is full.
func (r *Recorder) Record(ev key.Event) bool {
	if r.recording == SlotNone {
		return false
	}
	if len(r.events) >= r.capacity(r.recording) {
		if r.dropped == 0 {
			r.logger.Warn().Stringer("slot", r.recording).Int("size", r.size).Msg("macro buffer full")
		}
		r.dropped++
		return false
	}
	r.events = append(r.events, ev)
	return true
}

// capacity returns the events available to slot s: the buffer minus what
// the other slot holds.
func (r *Recorder) capacity(s Slot) int {
	used := 0
	for _, o := range AllSlots() {
		if o != s {
			used += len(r.slots[o])
		}
	}
	return r.size - used
}

// IsRecording returns true if currently recording.
func (r *Recorder) IsRecording() bool {
	return r.recording != SlotNone
}

// Recording returns the slot being recorded, or SlotNone.
func (r *Recorder) Recording() Slot {
	return r.recording
}

// RecordingLength returns the number of events recorded so far.
func (r *Recorder) RecordingLength() int {
	return len(r.events)
}

// Dropped returns the number of events dropped from the current or last
// recording because the buffer was full.
func (r *Recorder) Dropped() int {
	return r.dropped
}

// Get returns a copy of the macro stored in slot s.
func (r *Recorder) Get(s Slot) []key.Event {
	if !s.IsValid() {
		return nil
	}
	out := make([]key.Event, len(r.slots[s]))
	copy(out, r.slots[s])
	return out
}

// Len returns the number of events stored in slot s.
func (r *Recorder) Len(s Slot) int {
	if !s.IsValid() {
		return 0
	}
	return len(r.slots[s])
}

// HasMacro returns true if slot s holds a macro.
func (r *Recorder) HasMacro(s Slot) bool {
	return r.Len(s) > 0
}

// Clear empties slot s.
func (r *Recorder) Clear(s Slot) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, s)
	}
	r.slots[s] = nil
	return nil
}

// ClearAll abandons any recording and empties every slot. The listener is
// not notified.
func (r *Recorder) ClearAll() {
	r.slots = [MaxSlots + 1][]key.Event{}
	r.recording = SlotNone
	r.events = nil
	r.dropped = 0
}

// Size returns the capacity of the shared buffer.
func (r *Recorder) Size() int {
	return r.size
}

// Free returns the number of unused events in the shared buffer.
func (r *Recorder) Free() int {
	used := len(r.events)
	for _, s := range AllSlots() {
		used += len(r.slots[s])
	}
	return r.size - used
}

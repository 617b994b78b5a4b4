package macro

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/beamspring/internal/input/key"
)

// Phase is the controller's view of one macro slot.
type Phase uint8

const (
	// PhaseIdle means the slot holds nothing the trigger would play.
	PhaseIdle Phase = iota

	// PhaseRecording means the slot is being recorded.
	PhaseRecording

	// PhaseAwaitingConfirm means the slot is recorded and armed: the next
	// trigger press plays it.
	PhaseAwaitingConfirm

	// PhaseRecorded means the slot holds a macro.
	PhaseRecorded
)

var phaseNames = [...]string{"idle", "recording", "awaiting-confirm", "recorded"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Primitives are the engine operations the controller drives.
// Engine satisfies it.
type Primitives interface {
	RecordStart(s Slot)
	RecordStop(s Slot)
	Play(s Slot)
}

// DefaultSlots maps the base-layer keycodes under the trigger key to slots.
func DefaultSlots() map[key.Code]Slot {
	return map[key.Code]Slot{
		key.Key1: Slot1,
		key.Key2: Slot2,
	}
}

// Controller turns presses of the shared macro trigger key into record,
// stop and play operations. Which slot a press addresses is decided by the
// base-layer keycode under the trigger.
//
// Each slot moves Idle -> Recording -> Recorded. In the confirm variant a
// press on a recorded slot arms it (AwaitingConfirm) and the next press
// plays it; otherwise every press on a recorded slot plays it. The
// Recording and Recorded phases are entered through OnRecordStart and
// OnRecordEnd, which the recorder calls, so the phases stay consistent with
// the engine however recording was started or stopped.
type Controller struct {
	slots    map[key.Code]Slot
	phases   [MaxSlots + 1]Phase
	confirm  bool
	engine   Primitives
	triggers uint64
	logger   zerolog.Logger
}

// NewController creates a controller. slots maps base-layer keycodes to
// slots; a nil map uses DefaultSlots.
func NewController(slots map[key.Code]Slot, confirm bool, engine Primitives, logger zerolog.Logger) *Controller {
	if slots == nil {
		slots = DefaultSlots()
	}
	return &Controller{
		slots:   slots,
		confirm: confirm,
		engine:  engine,
		logger:  logger,
	}
}

// OnTrigger handles a transition of the trigger key over a position whose
// base-layer keycode is base. The trigger has no meaning of its own, so it
// always returns false.
func (c *Controller) OnTrigger(base key.Code, pressed bool) bool {
	if !pressed {
		return false
	}
	c.triggers++

	s, ok := c.slots[base]
	if active := c.recording(); active != SlotNone && (!ok || s != active) {
		c.logger.Debug().Stringer("slot", active).Stringer("key", base).Msg("macro recording aborted")
		c.engine.RecordStop(active)
		c.set(active, PhaseIdle)
		return false
	}

	if !ok {
		c.logger.Debug().Stringer("key", base).Msg("macro phases cleared")
		c.Reset()
		return false
	}

	switch c.phases[s] {
	case PhaseIdle:
		c.engine.RecordStart(s)
	case PhaseRecording:
		c.engine.RecordStop(s)
	case PhaseRecorded:
		if c.confirm {
			c.set(s, PhaseAwaitingConfirm)
			return false
		}
		c.engine.Play(s)
	case PhaseAwaitingConfirm:
		c.set(s, PhaseRecorded)
		c.engine.Play(s)
	}
	return false
}

// OnRecordStart implements Listener.
func (c *Controller) OnRecordStart(s Slot) {
	if s.IsValid() {
		c.set(s, PhaseRecording)
	}
}

// OnRecordEnd implements Listener.
func (c *Controller) OnRecordEnd(s Slot) {
	if s.IsValid() {
		c.set(s, PhaseRecorded)
	}
}

// Phase returns the phase of slot s.
func (c *Controller) Phase(s Slot) Phase {
	if !s.IsValid() {
		return PhaseIdle
	}
	return c.phases[s]
}

// SlotFor returns the slot addressed by a base-layer keycode.
func (c *Controller) SlotFor(base key.Code) (Slot, bool) {
	s, ok := c.slots[base]
	return s, ok
}

// Confirm returns true for the variant that arms before playing.
func (c *Controller) Confirm() bool {
	return c.confirm
}

// Triggers returns the number of trigger presses handled.
func (c *Controller) Triggers() uint64 {
	return c.triggers
}

// Reset returns every slot to PhaseIdle without touching the engine.
func (c *Controller) Reset() {
	for _, s := range AllSlots() {
		c.set(s, PhaseIdle)
	}
}

func (c *Controller) recording() Slot {
	for _, s := range AllSlots() {
		if c.phases[s] == PhaseRecording {
			return s
		}
	}
	return SlotNone
}

func (c *Controller) set(s Slot, p Phase) {
	if c.phases[s] == p {
		return
	}
	c.logger.Debug().Stringer("slot", s).Stringer("from", c.phases[s]).Stringer("to", p).Msg("macro phase")
	c.phases[s] = p
}

// Info describes every slot, combining the controller's phases with what
// the recorder stores.
func (c *Controller) Info(rec *Recorder) []SlotInfo {
	out := make([]SlotInfo, 0, MaxSlots)
	for _, s := range AllSlots() {
		out = append(out, SlotInfo{
			Slot:       s,
			Phase:      c.phases[s],
			EventCount: rec.Len(s),
		})
	}
	return out
}

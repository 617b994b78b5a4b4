package macro

import (
	"fmt"
	"strconv"
)

// Slot identifies a dynamic macro. Slot 1 and slot 2 draw from one buffer
// of a fixed number of events.
type Slot uint8

// Slot constants.
const (
	// SlotNone means no slot.
	SlotNone Slot = 0

	// Slot1 is the first macro slot.
	Slot1 Slot = 1

	// Slot2 is the second macro slot.
	Slot2 Slot = 2

	// MaxSlots is the number of macro slots.
	MaxSlots = 2
)

// IsValid returns true if s is a real slot.
func (s Slot) IsValid() bool {
	return s >= Slot1 && s <= MaxSlots
}

// String returns "1", "2" or "none".
func (s Slot) String() string {
	if !s.IsValid() {
		return "none"
	}
	return strconv.Itoa(int(s))
}

// ParseSlot parses "1" or "2".
func ParseSlot(str string) (Slot, error) {
	n, err := strconv.Atoi(str)
	if err != nil || !Slot(n).IsValid() || n > MaxSlots {
		return SlotNone, fmt.Errorf("%w: %q", ErrInvalidSlot, str)
	}
	return Slot(n), nil
}

// AllSlots returns every valid slot in order.
func AllSlots() []Slot {
	out := make([]Slot, 0, MaxSlots)
	for s := Slot1; s <= MaxSlots; s++ {
		out = append(out, s)
	}
	return out
}

// SlotInfo provides metadata about a slot.
type SlotInfo struct {
	// Slot is the slot number.
	Slot Slot

	// Phase is the controller's view of the slot.
	Phase Phase

	// EventCount is the number of events stored.
	EventCount int
}

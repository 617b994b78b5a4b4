package key

import (
	"fmt"
	"time"
)

// Pos is a physical switch position in the key matrix.
type Pos struct {
	Row uint8
	Col uint8
}

// NoPos marks events that did not come from a matrix position, such as
// synthetic events or replayed macro steps whose origin is unknown.
var NoPos = Pos{Row: 0xFF, Col: 0xFF}

// IsValid returns true if the position refers to a real matrix cell.
func (p Pos) IsValid() bool {
	return p != NoPos
}

// String returns "r,c".
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

// Event is a single key transition: one press or one release of a physical
// key, after the layer stack has resolved it to a keycode.
type Event struct {
	// Code is the keycode the position produced.
	Code Code

	// Pos is the physical position of the switch.
	Pos Pos

	// Pressed is true for key-down and false for key-up.
	Pressed bool

	// Time is when the transition happened, measured from host start.
	Time time.Duration
}

// Press creates a key-down event.
func Press(code Code, pos Pos) Event {
	return Event{Code: code, Pos: pos, Pressed: true}
}

// Release creates a key-up event.
func Release(code Code, pos Pos) Event {
	return Event{Code: code, Pos: pos, Pressed: false}
}

// At returns a copy of the event stamped with t.
func (e Event) At(t time.Duration) Event {
	e.Time = t
	return e
}

// Equals returns true if two events describe the same transition.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Code == other.Code &&
		e.Pos == other.Pos &&
		e.Pressed == other.Pressed
}

// String returns a compact form such as "+W@7,1" or "-W@7,1".
func (e Event) String() string {
	sign := "-"
	if e.Pressed {
		sign = "+"
	}
	return sign + e.Code.String() + "@" + e.Pos.String()
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Code: %s, Pos: %s, Pressed: %t, Time: %s}",
		e.Code.String(), e.Pos.String(), e.Pressed, e.Time)
}

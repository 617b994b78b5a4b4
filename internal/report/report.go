// Package report maintains the in-flight keyboard report and delivers it to
// the host.
//
// A Buffer is mutated with AddKey and DelKey; nothing leaves the buffer until
// SendReport flushes a snapshot to its Sink. Reports are encoded either as
// boot-protocol 6KRO (modifier byte, reserved byte, six usage slots) or as an
// NKRO bitmap with one bit per basic usage ID.
package report

import (
	"slices"
	"strings"
	"time"

	"github.com/dshills/beamspring/internal/input/key"
)

// Encoded report sizes.
const (
	// BootSize is the size of a 6KRO boot-protocol report.
	BootSize = 8

	// BootKeys is the number of key slots in a 6KRO report.
	BootKeys = 6

	// BitmapBytes is the size of the NKRO key bitmap.
	BitmapBytes = 32

	// NKROSize is the size of an NKRO report: modifier byte plus bitmap.
	NKROSize = 1 + BitmapBytes
)

// Report is a snapshot of the keys held at one flush.
type Report struct {
	// Time is when the report was flushed.
	Time time.Duration

	// Mods is the modifier byte.
	Mods key.Modifier

	// Keys holds the non-modifier keycodes, in ascending order.
	Keys []key.Code

	// NKRO selects the bitmap encoding.
	NKRO bool
}

// Has returns true if code is held in the report.
func (r Report) Has(code key.Code) bool {
	if code.IsModifier() {
		return r.Mods.Has(code.ModBit())
	}
	_, found := slices.BinarySearch(r.Keys, code)
	return found
}

// IsEmpty returns true if nothing is held.
func (r Report) IsEmpty() bool {
	return r.Mods.IsEmpty() && len(r.Keys) == 0
}

// Codes returns every held keycode, modifiers first.
func (r Report) Codes() []key.Code {
	return append(r.Mods.Codes(), r.Keys...)
}

// Equal compares held keys and encoding. Time is not compared.
func (r Report) Equal(other Report) bool {
	return r.Mods == other.Mods &&
		r.NKRO == other.NKRO &&
		slices.Equal(r.Keys, other.Keys)
}

// Diff returns the keycodes held in r but not in prev, and those held in
// prev but not in r.
func (r Report) Diff(prev Report) (pressed, released []key.Code) {
	for _, c := range r.Codes() {
		if !prev.Has(c) {
			pressed = append(pressed, c)
		}
	}
	for _, c := range prev.Codes() {
		if !r.Has(c) {
			released = append(released, c)
		}
	}
	return pressed, released
}

// Bytes encodes the report for a HID keyboard interface.
func (r Report) Bytes() []byte {
	if r.NKRO {
		b := make([]byte, NKROSize)
		b[0] = byte(r.Mods)
		for _, c := range r.Keys {
			b[1+c/8] |= 1 << (c % 8)
		}
		return b
	}

	b := make([]byte, BootSize)
	b[0] = byte(r.Mods)
	for i, c := range r.Keys {
		if i == BootKeys {
			break
		}
		b[2+i] = byte(c)
	}
	return b
}

// String returns a form like "LSFT+A S", or "-" for an empty report.
func (r Report) String() string {
	if r.IsEmpty() {
		return "-"
	}
	var sb strings.Builder
	if !r.Mods.IsEmpty() {
		sb.WriteString(r.Mods.String())
	}
	for i, c := range r.Keys {
		switch {
		case i == 0 && !r.Mods.IsEmpty():
			sb.WriteByte('+')
		case i > 0:
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

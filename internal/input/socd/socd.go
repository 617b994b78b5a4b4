// Package socd resolves simultaneous opposing cardinal directions.
//
// A Pair watches two opposing keys, such as left and right. While both are
// physically held, the pair's Mode decides which of them the report shows.
// The pair tracks what is physically held, not what the report contains;
// the difference is what lets a suppressed key come back when its opponent
// is released.
package socd

import (
	"fmt"
	"strings"

	"github.com/dshills/beamspring/internal/input/key"
)

// Mode is a resolution strategy for a pair of opposing keys.
type Mode uint8

const (
	// ModeOff disables resolution; both keys behave normally.
	ModeOff Mode = iota

	// ModeLast lets the most recent press win. Releasing it reactivates
	// the opposing key if that is still held.
	ModeLast

	// ModeNeutral cancels both keys while both are held.
	ModeNeutral

	// ModeFormer lets the first key of the pair win.
	ModeFormer

	// ModeLatter lets the second key of the pair win.
	ModeLatter
)

var modeNames = [...]string{
	ModeOff:     "off",
	ModeLast:    "last",
	ModeNeutral: "neutral",
	ModeFormer:  "former",
	ModeLatter:  "latter",
}

// String returns the mode's configuration name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// IsValid returns true for a known mode.
func (m Mode) IsValid() bool {
	return int(m) < len(modeNames)
}

// ParseMode parses a configuration name such as "neutral".
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return ModeOff, fmt.Errorf("unknown socd mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid socd mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Key is one side of a pair.
type Key struct {
	// Code is the keycode watched.
	Code key.Code

	// Held is true while the key is physically down.
	Held bool
}

// Pair is the state for one axis of opposing keys.
type Pair struct {
	// Name labels the pair in logs, such as "vertical".
	Name string

	// Keys holds the former (index 0) and latter (index 1) key.
	Keys [2]Key

	// Mode is the resolution strategy.
	Mode Mode
}

// NewPair creates a pair with nothing held.
func NewPair(name string, former, latter key.Code, mode Mode) *Pair {
	return &Pair{
		Name: name,
		Keys: [2]Key{{Code: former}, {Code: latter}},
		Mode: mode,
	}
}

// Watches returns true if code is one of the pair's keys.
func (p *Pair) Watches(code key.Code) bool {
	return code == p.Keys[0].Code || code == p.Keys[1].Code
}

// Reset forgets which keys are held.
func (p *Pair) Reset() {
	p.Keys[0].Held = false
	p.Keys[1].Held = false
}

// String returns a form like "vertical(W/S neutral)".
func (p *Pair) String() string {
	return fmt.Sprintf("%s(%s/%s %s)", p.Name, p.Keys[0].Code, p.Keys[1].Code, p.Mode)
}

package input

import (
	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/input/socd"
)

// Session is the dispatcher's own state: the SOCD switch and the pairs it
// filters through. Macro phases and repeat timers live in their components.
// Only the host loop touches a Session.
type Session struct {
	// SOCDEnabled turns SOCD filtering on.
	SOCDEnabled bool

	// ResetOnEnable clears every pair's held flags when filtering is turned
	// on, so a key held across the toggle cannot leave stale state behind.
	ResetOnEnable bool

	// Pairs are consulted in order.
	Pairs []*socd.Pair
}

// DefaultPairs returns the stock pairs: W/S cancelling to neutral, then A/D
// with last input priority.
func DefaultPairs() []*socd.Pair {
	return []*socd.Pair{
		socd.NewPair("vertical", key.KeyW, key.KeyS, socd.ModeNeutral),
		socd.NewPair("horizontal", key.KeyA, key.KeyD, socd.ModeLast),
	}
}

// NewSession creates a session with filtering off. Nil pairs uses
// DefaultPairs.
func NewSession(pairs []*socd.Pair) *Session {
	if pairs == nil {
		pairs = DefaultPairs()
	}
	return &Session{
		ResetOnEnable: true,
		Pairs:         pairs,
	}
}

// SetSOCD switches filtering. Returns true if the setting changed.
func (s *Session) SetSOCD(enabled bool) bool {
	if s.SOCDEnabled == enabled {
		return false
	}
	s.SOCDEnabled = enabled
	if enabled && s.ResetOnEnable {
		s.ResetPairs()
	}
	return true
}

// ToggleSOCD flips filtering and returns the new setting.
func (s *Session) ToggleSOCD() bool {
	s.SetSOCD(!s.SOCDEnabled)
	return s.SOCDEnabled
}

// ResetPairs clears every pair's held flags.
func (s *Session) ResetPairs() {
	for _, p := range s.Pairs {
		p.Reset()
	}
}

// Pair returns the pair with the given name, or nil.
func (s *Session) Pair(name string) *socd.Pair {
	for _, p := range s.Pairs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

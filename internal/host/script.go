package host

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/layout"
)

// Script errors.
var (
	ErrBadStep   = errors.New("invalid script step")
	ErrEmptyStep = errors.New("script step needs key or pos")
)

// DefaultTapHold is how long a tap step holds its key.
const DefaultTapHold = 10 * time.Millisecond

// Actions a step can take.
const (
	ActionTap     = "tap"
	ActionPress   = "press"
	ActionRelease = "release"
)

// Script is a timed sequence of key transitions for deterministic replay.
//
//	steps:
//	  - {at: 0, key: W, action: press}
//	  - {at: 40, key: S, action: press}
//	  - {at: 90, pos: [7, 1], action: release}
//	until: 500
type Script struct {
	Steps []Step `yaml:"steps"`

	// Until keeps the clock running to this time (ms) after the last step,
	// so pending timers get to fire.
	Until int `yaml:"until,omitempty"`
}

// Step is one scripted action. Key names the base-layer keycode of a
// position; Pos gives the matrix cell directly.
type Step struct {
	At     int    `yaml:"at"`
	Key    string `yaml:"key,omitempty"`
	Pos    []int  `yaml:"pos,omitempty"`
	Action string `yaml:"action,omitempty"`

	// Hold is the tap duration in ms.
	Hold int `yaml:"hold,omitempty"`
}

// TimedTransition is a transition scheduled at a point in time.
type TimedTransition struct {
	At time.Duration
	Transition
}

// ParseScript decodes a YAML script. Unknown fields are rejected.
func ParseScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	return &s, nil
}

// Transitions expands the steps into transitions ordered by time.
// Transitions at the same time keep step order.
func (s *Script) Transitions(km *layout.Keymap) ([]TimedTransition, error) {
	out := make([]TimedTransition, 0, len(s.Steps)*2)

	for i, st := range s.Steps {
		pos, err := st.position(km)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if st.At < 0 || st.Hold < 0 {
			return nil, fmt.Errorf("step %d: %w: negative time", i, ErrBadStep)
		}
		at := time.Duration(st.At) * time.Millisecond

		switch strings.ToLower(st.Action) {
		case ActionPress:
			out = append(out, TimedTransition{At: at, Transition: Transition{Pos: pos, Pressed: true}})
		case ActionRelease:
			out = append(out, TimedTransition{At: at, Transition: Transition{Pos: pos}})
		case ActionTap, "":
			hold := DefaultTapHold
			if st.Hold > 0 {
				hold = time.Duration(st.Hold) * time.Millisecond
			}
			out = append(out,
				TimedTransition{At: at, Transition: Transition{Pos: pos, Pressed: true}},
				TimedTransition{At: at + hold, Transition: Transition{Pos: pos}},
			)
		default:
			return nil, fmt.Errorf("step %d: %w: unknown action %q", i, ErrBadStep, st.Action)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out, nil
}

func (st Step) position(km *layout.Keymap) (key.Pos, error) {
	switch {
	case len(st.Pos) > 0:
		if len(st.Pos) != 2 || st.Pos[0] < 0 || st.Pos[0] >= layout.Rows || st.Pos[1] < 0 || st.Pos[1] >= layout.Cols {
			return key.NoPos, fmt.Errorf("%w: pos %v", ErrBadStep, st.Pos)
		}
		return key.Pos{Row: uint8(st.Pos[0]), Col: uint8(st.Pos[1])}, nil

	case st.Key != "":
		code, err := key.Parse(st.Key)
		if err != nil {
			return key.NoPos, err
		}
		pos, ok := km.Locate(code)
		if !ok {
			return key.NoPos, fmt.Errorf("%w: %s is not on the base layer", ErrBadStep, code)
		}
		return pos, nil

	default:
		return key.NoPos, ErrEmptyStep
	}
}

// End returns the time the replay runs to.
func (s *Script) End(ts []TimedTransition) time.Duration {
	end := time.Duration(s.Until) * time.Millisecond
	if n := len(ts); n > 0 && ts[n-1].At > end {
		end = ts[n-1].At
	}
	return end
}

// Replay drives h through the script on its virtual clock.
func Replay(h *Host, s *Script) error {
	ts, err := s.Transitions(h.Keymap())
	if err != nil {
		return err
	}
	for _, t := range ts {
		h.Process(t.Pos, t.Pressed, t.At)
	}
	h.Tick(s.End(ts))
	return nil
}

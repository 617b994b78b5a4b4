package socd

import "github.com/dshills/beamspring/internal/input/key"

// Report is the in-flight keyboard report the resolver edits.
type Report interface {
	AddKey(code key.Code)
	DelKey(code key.Code)
	SendReport()
}

// Outcome describes what Resolve did with an event.
type Outcome uint8

const (
	// Ignored means the event did not concern the pair.
	Ignored Outcome = iota

	// Tracked means the held flag was updated and nothing else happened.
	Tracked

	// Swapped means the opposing key was released or restored.
	Swapped

	// Cancelled means the opposing key was swapped and the event suppressed.
	Cancelled

	// Blocked means the event lost to the opposing key and was suppressed.
	Blocked
)

var outcomeNames = [...]string{"ignored", "tracked", "swapped", "cancelled", "blocked"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Continue returns true if default handling should proceed.
func (o Outcome) Continue() bool {
	return o != Cancelled && o != Blocked
}

// Synthetic returns true if the resolver emitted an event for the opposing
// key.
func (o Outcome) Synthetic() bool {
	return o == Swapped || o == Cancelled
}

// Resolve runs one key transition through the pair. It returns true when
// default handling should press or release code as usual, and false when
// the event must be suppressed.
func Resolve(p *Pair, code key.Code, pressed bool, out Report) bool {
	return Apply(p, code, pressed, out).Continue()
}

// Apply is Resolve, reporting in detail what happened.
func Apply(p *Pair, code key.Code, pressed bool, out Report) Outcome {
	if p.Mode == ModeOff || !p.Watches(code) {
		return Ignored
	}

	i := 0
	if code == p.Keys[1].Code {
		i = 1
	}
	opposing := i ^ 1

	p.Keys[i].Held = pressed
	if !p.Keys[opposing].Held {
		return Tracked
	}

	switch p.Mode {
	case ModeLast:
		swap(p, opposing, pressed, out)
		return Swapped

	case ModeNeutral:
		swap(p, opposing, pressed, out)
		out.SendReport()
		return Cancelled

	case ModeFormer, ModeLatter:
		if opposing == int(p.Mode-ModeFormer) {
			return Blocked
		}
		swap(p, opposing, pressed, out)
		return Swapped
	}
	return Tracked
}

// swap releases the opposing key when the current one goes down and
// restores it when the current one comes up.
func swap(p *Pair, opposing int, pressed bool, out Report) {
	if pressed {
		out.DelKey(p.Keys[opposing].Code)
	} else {
		out.AddKey(p.Keys[opposing].Code)
	}
}

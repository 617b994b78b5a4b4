package input

import (
	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/input/socd"
)

// Route identifies which part of the dispatcher decided an event.
type Route uint8

const (
	// RoutePass means no special handling applied.
	RoutePass Route = iota

	// RouteSOCD means an SOCD pair suppressed the event.
	RouteSOCD

	// RouteRepeat means the auto-repeat accelerator owns the key.
	RouteRepeat

	// RouteSOCDToggle means the event was the SOCD toggle key.
	RouteSOCDToggle

	// RouteMacro means the event was the macro trigger key.
	RouteMacro
)

// String returns the route name.
func (r Route) String() string {
	switch r {
	case RoutePass:
		return "pass"
	case RouteSOCD:
		return "socd"
	case RouteRepeat:
		return "repeat"
	case RouteSOCDToggle:
		return "socd-toggle"
	case RouteMacro:
		return "macro"
	default:
		return "unknown"
	}
}

// Decision is the outcome of dispatching one event.
type Decision struct {
	// Route is the component that decided.
	Route Route

	// Continue is true when the host should apply default handling.
	Continue bool

	// Synthetic counts events the SOCD pairs emitted for opposing keys.
	Synthetic int

	// Pair names the SOCD pair that suppressed the event, if any.
	Pair string

	// Outcome is that pair's outcome.
	Outcome socd.Outcome

	// Base is the base-layer keycode under a macro trigger press.
	Base key.Code

	// Toggled is true when the event flipped SOCD filtering.
	Toggled bool
}

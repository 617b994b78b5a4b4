// Package input decides what happens to each physical key transition before
// the host applies its default key-to-report handling.
//
// # Architecture
//
// The Handler is the only caller of the components below it:
//
//   - SOCD pairs (package socd): filter opposing directional keys
//   - Auto-repeat accelerator (package repeat): taps and re-taps bound keys
//   - Macro controller (package macro): drives record and playback from the
//     shared trigger key
//
// Data flows downward only; the components never call each other.
//
// # Dispatch
//
// When SOCD filtering is on, every event passes through each pair in
// order; a pair that suppresses the event ends dispatch. Otherwise the
// event goes to the component that owns its keycode. The SOCD toggle key
// flips filtering on press. Anything else passes through untouched.
//
// # Usage
//
//	session := input.NewSession(nil)
//	handler := input.NewHandler(session, buf, acc, ctl, km)
//
//	if handler.HandleEvent(ev) {
//	    // default handling: press or release ev.Code in the report
//	}
//
// All state is owned by one goroutine. Nothing here locks except Metrics,
// which may be read from elsewhere.
package input

// Package macro provides dynamic keyboard macros: recording, playback and
// the trigger-key state machine that drives them.
//
// # Concepts
//
// A macro is a recorded sequence of key events that can be replayed.
// There are two macro slots. They share one buffer of a fixed number of
// events, so a long macro in one slot leaves less room for the other.
//
// # Recording
//
// Recording is started with Recorder.Start and a slot. While recording,
// every key event the host handles by default is passed to Record. Stop
// saves the events to the slot. Start and Stop notify a Listener.
//
//	rec := macro.NewRecorder(macro.DefaultSize, logger)
//	rec.Start(macro.Slot1)
//	// ... host calls rec.Record(ev) for each default-handled event ...
//	rec.Stop()
//
// # Playback
//
// A Player sends a slot's events to a handler, which feeds them back
// through the input pipeline. Playback is refused while recording or
// while another macro plays, so macros never nest.
//
// # Trigger key
//
// A single trigger keycode sits over several physical positions. The
// Controller uses the base-layer keycode under the pressed position to
// pick a slot, then records, stops or plays it according to the slot's
// Phase. A trigger position with no slot clears every phase; pressing a
// different trigger position while recording aborts the recording.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. All of it runs on
// the host's single event loop.
package macro

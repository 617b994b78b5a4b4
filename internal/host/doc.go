// Package host stands in for the keyboard firmware around the input
// handler.
//
// One goroutine owns a Host and everything in it: the layer stack, the
// report buffer, the timer queue, and the SOCD, macro and repeat state.
// Sources deliver Transitions (physical position plus press or release);
// Process resolves each through the keymap, remembers the keycode for the
// matching release, and hands the event to the input handler. Events the
// handler lets through get default handling: basic keys go into the
// report, MO(n) switches layers, and the quantum keys (dynamic macros,
// NKRO toggle, reboot) act on press.
//
// Time is a duration since host start. Replay runs a Script on a virtual
// clock for reproducible output; Run drives the same host from real time,
// firing timers from a single time.Timer.
//
// On Linux, Device reads an evdev node and UinputSink writes to a virtual
// keyboard. report.HIDWriter covers USB gadget output.
package host

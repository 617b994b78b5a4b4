// Package key provides keycodes, matrix positions and key transition events
// for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Code: A firmware keycode. Basic codes are HID usage IDs; quantum codes
//     (momentary layers, dynamic macro keys, NKRO toggle) and user codes
//     (SOCD toggle, macro trigger) live above the basic range.
//   - Pos: A physical switch position (row, column) in the key matrix.
//   - Event: One press or release of a physical key, resolved to a Code.
//   - Modifier: The modifier byte of a keyboard report.
//
// # Key Specifications
//
// Keycodes can be written in multiple formats:
//
//   - Names: "A", "bspc", "KC_ENT", "LSFT", "DM_PLY1", "SOCD"
//   - Momentary layers: "MO(1)"
//   - Raw values: "0x7E40"
//
// Positions are written as "row,col".
package key

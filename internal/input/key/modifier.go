package key

import "strings"

// Modifier is the modifier byte of a HID keyboard report.
// Bit n corresponds to keycode KeyLeftCtrl+n.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	ModLeftCtrl Modifier = 1 << (iota - 1)
	ModLeftShift
	ModLeftAlt
	ModLeftGUI
	ModRightCtrl
	ModRightShift
	ModRightAlt
	ModRightGUI
)

// ModBit returns the modifier bit for a modifier keycode, or ModNone.
func (c Code) ModBit() Modifier {
	if !c.IsModifier() {
		return ModNone
	}
	return Modifier(1) << (c - KeyLeftCtrl)
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasCtrl returns true if either Control key is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModLeftCtrl | ModRightCtrl)
}

// HasShift returns true if either Shift key is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModLeftShift | ModRightShift)
}

// HasAlt returns true if either Alt key is pressed.
func (m Modifier) HasAlt() bool {
	return m.Has(ModLeftAlt | ModRightAlt)
}

// HasGUI returns true if either GUI key is pressed.
func (m Modifier) HasGUI() bool {
	return m.Has(ModLeftGUI | ModRightGUI)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Codes returns the modifier keycodes set in m, left-hand side first.
func (m Modifier) Codes() []Code {
	var codes []Code
	for i := Code(0); i < 8; i++ {
		if m&(1<<i) != 0 {
			codes = append(codes, KeyLeftCtrl+i)
		}
	}
	return codes
}

// String returns a representation like "LCTL+LSFT".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	for _, c := range m.Codes() {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "+")
}

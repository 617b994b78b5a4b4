package key

import (
	"fmt"
	"strings"
)

// Code is a firmware keycode.
// Codes 0x00-0xFF are HID keyboard usage IDs (basic keycodes); higher values
// are quantum and user keycodes that never reach the report directly.
type Code uint16

const (
	// KeyNone produces nothing.
	KeyNone Code = 0x0000

	// KeyTransparent falls through to the next active layer below.
	KeyTransparent Code = 0x0001
)

// Letters
const (
	KeyA Code = 0x04 + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// Digits (top row)
const (
	Key1 Code = 0x1E + iota
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
)

// Editing and punctuation
const (
	KeyEnter Code = 0x28 + iota
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeyNonUSHash
	KeySemicolon
	KeyQuote
	KeyGrave
	KeyComma
	KeyDot
	KeySlash
	KeyCapsLock
)

// Function keys
const (
	KeyF1 Code = 0x3A + iota
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Navigation cluster
const (
	KeyPrintScreen Code = 0x46 + iota
	KeyScrollLock
	KeyPause
	KeyInsert
	KeyHome
	KeyPageUp
	KeyDelete
	KeyEnd
	KeyPageDown
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
)

// KeyApplication is the menu key.
const KeyApplication Code = 0x65

// Modifiers
const (
	KeyLeftCtrl Code = 0xE0 + iota
	KeyLeftShift
	KeyLeftAlt
	KeyLeftGUI
	KeyRightCtrl
	KeyRightShift
	KeyRightAlt
	KeyRightGUI
)

// Quantum keycodes handled by the host's default path.
const (
	// momentaryBase | layer activates a layer while held.
	momentaryBase Code = 0x5220
	momentaryMax  Code = 0x523F

	KeyNKROToggle   Code = 0x7013
	KeyBootloader   Code = 0x7C00
	KeyReboot       Code = 0x7C01
	KeyClearEEPROM  Code = 0x7C03
	KeyMacroRecord1 Code = 0x7C53
	KeyMacroRecord2 Code = 0x7C54
	KeyMacroStop    Code = 0x7C55
	KeyMacroPlay1   Code = 0x7C56
	KeyMacroPlay2   Code = 0x7C57
	KeyLock         Code = 0x7C5D
)

// User keycodes. They carry no meaning of their own; the input handler gives
// them one.
const (
	// UserRangeStart is the first keycode free for user definitions.
	UserRangeStart Code = 0x7E40

	// KeySOCDToggle flips SOCD filtering on and off.
	KeySOCDToggle Code = UserRangeStart

	// KeyMacroTrigger is the shared dynamic macro key. Which macro it
	// addresses depends on the physical position it sits on.
	KeyMacroTrigger Code = UserRangeStart + 1
)

// Momentary returns the keycode that activates layer while held.
func Momentary(layer uint8) Code {
	return momentaryBase | Code(layer&0x1F)
}

// IsMomentary returns true for MO(layer) keycodes.
func (c Code) IsMomentary() bool {
	return c >= momentaryBase && c <= momentaryMax
}

// Layer returns the layer of a MO(layer) keycode.
func (c Code) Layer() uint8 {
	return uint8(c & 0x1F)
}

// IsBasic returns true if the code is a HID usage that goes into the report.
func (c Code) IsBasic() bool {
	return c > KeyTransparent && c <= 0xFF
}

// IsModifier returns true for the eight modifier keys.
func (c Code) IsModifier() bool {
	return c >= KeyLeftCtrl && c <= KeyRightGUI
}

// IsUser returns true for keycodes in the user range.
func (c Code) IsUser() bool {
	return c >= UserRangeStart
}

// IsDigit returns true for the top-row digits.
func (c Code) IsDigit() bool {
	return c >= Key1 && c <= Key0
}

// String returns the short firmware-style name, e.g. "A", "BSPC", "MO(1)".
func (c Code) String() string {
	if c.IsMomentary() {
		return fmt.Sprintf("MO(%d)", c.Layer())
	}
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint16(c))
}

// codeNames maps codes to their canonical names.
var codeNames = func() map[Code]string {
	m := make(map[Code]string, len(canonicalNames))
	for _, n := range canonicalNames {
		m[n.code] = n.name
	}
	return m
}()

type namedCode struct {
	name string
	code Code
}

// canonicalNames lists one preferred name per code.
var canonicalNames = []namedCode{
	{"NO", KeyNone}, {"TRNS", KeyTransparent},
	{"A", KeyA}, {"B", KeyB}, {"C", KeyC}, {"D", KeyD}, {"E", KeyE}, {"F", KeyF},
	{"G", KeyG}, {"H", KeyH}, {"I", KeyI}, {"J", KeyJ}, {"K", KeyK}, {"L", KeyL},
	{"M", KeyM}, {"N", KeyN}, {"O", KeyO}, {"P", KeyP}, {"Q", KeyQ}, {"R", KeyR},
	{"S", KeyS}, {"T", KeyT}, {"U", KeyU}, {"V", KeyV}, {"W", KeyW}, {"X", KeyX},
	{"Y", KeyY}, {"Z", KeyZ},
	{"1", Key1}, {"2", Key2}, {"3", Key3}, {"4", Key4}, {"5", Key5},
	{"6", Key6}, {"7", Key7}, {"8", Key8}, {"9", Key9}, {"0", Key0},
	{"ENT", KeyEnter}, {"ESC", KeyEscape}, {"BSPC", KeyBackspace}, {"TAB", KeyTab},
	{"SPC", KeySpace}, {"MINS", KeyMinus}, {"EQL", KeyEqual},
	{"LBRC", KeyLeftBracket}, {"RBRC", KeyRightBracket}, {"BSLS", KeyBackslash},
	{"NUHS", KeyNonUSHash}, {"SCLN", KeySemicolon}, {"QUOT", KeyQuote},
	{"GRV", KeyGrave}, {"COMM", KeyComma}, {"DOT", KeyDot}, {"SLSH", KeySlash},
	{"CAPS", KeyCapsLock},
	{"F1", KeyF1}, {"F2", KeyF2}, {"F3", KeyF3}, {"F4", KeyF4}, {"F5", KeyF5},
	{"F6", KeyF6}, {"F7", KeyF7}, {"F8", KeyF8}, {"F9", KeyF9}, {"F10", KeyF10},
	{"F11", KeyF11}, {"F12", KeyF12},
	{"PSCR", KeyPrintScreen}, {"SCRL", KeyScrollLock}, {"PAUS", KeyPause},
	{"INS", KeyInsert}, {"HOME", KeyHome}, {"PGUP", KeyPageUp}, {"DEL", KeyDelete},
	{"END", KeyEnd}, {"PGDN", KeyPageDown},
	{"RGHT", KeyRight}, {"LEFT", KeyLeft}, {"DOWN", KeyDown}, {"UP", KeyUp},
	{"APP", KeyApplication},
	{"LCTL", KeyLeftCtrl}, {"LSFT", KeyLeftShift}, {"LALT", KeyLeftAlt}, {"LGUI", KeyLeftGUI},
	{"RCTL", KeyRightCtrl}, {"RSFT", KeyRightShift}, {"RALT", KeyRightAlt}, {"RGUI", KeyRightGUI},
	{"NK_TOGG", KeyNKROToggle}, {"QK_BOOT", KeyBootloader}, {"QK_RBT", KeyReboot},
	{"EE_CLR", KeyClearEEPROM}, {"QK_LOCK", KeyLock},
	{"DM_REC1", KeyMacroRecord1}, {"DM_REC2", KeyMacroRecord2}, {"DM_RSTP", KeyMacroStop},
	{"DM_PLY1", KeyMacroPlay1}, {"DM_PLY2", KeyMacroPlay2},
	{"SOCD", KeySOCDToggle}, {"DYMC", KeyMacroTrigger},
}

// aliases are accepted by CodeFromName in addition to the canonical names.
var aliases = map[string]Code{
	"ENTER":       KeyEnter,
	"RETURN":      KeyEnter,
	"ESCAPE":      KeyEscape,
	"BACKSPACE":   KeyBackspace,
	"SPACE":       KeySpace,
	"DELETE":      KeyDelete,
	"INSERT":      KeyInsert,
	"PAGEUP":      KeyPageUp,
	"PAGEDOWN":    KeyPageDown,
	"RIGHT":       KeyRight,
	"MENU":        KeyApplication,
	"TRANSPARENT": KeyTransparent,
	"NONE":        KeyNone,
	"_SOCD":       KeySOCDToggle,
	"_DYMC":       KeyMacroTrigger,
}

// nameToCode maps upper-case names to codes.
var nameToCode = func() map[string]Code {
	m := make(map[string]Code, len(canonicalNames)+len(aliases))
	for _, n := range canonicalNames {
		m[n.name] = n.code
	}
	for name, c := range aliases {
		m[name] = c
	}
	return m
}()

// CodeFromName returns the Code for a name (case-insensitive).
// The firmware "KC_" prefix is optional. Returns KeyNone and false if the
// name is not recognized.
func CodeFromName(name string) (Code, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "KC_")
	c, ok := nameToCode[name]
	return c, ok
}

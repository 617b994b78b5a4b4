package key

import "slices"

// hidToEvdev maps HID usage IDs to Linux input event codes.
var hidToEvdev = map[Code]uint16{
	KeyEscape:       1,
	Key1:            2,
	Key2:            3,
	Key3:            4,
	Key4:            5,
	Key5:            6,
	Key6:            7,
	Key7:            8,
	Key8:            9,
	Key9:            10,
	Key0:            11,
	KeyMinus:        12,
	KeyEqual:        13,
	KeyBackspace:    14,
	KeyTab:          15,
	KeyQ:            16,
	KeyW:            17,
	KeyE:            18,
	KeyR:            19,
	KeyT:            20,
	KeyY:            21,
	KeyU:            22,
	KeyI:            23,
	KeyO:            24,
	KeyP:            25,
	KeyLeftBracket:  26,
	KeyRightBracket: 27,
	KeyEnter:        28,
	KeyLeftCtrl:     29,
	KeyA:            30,
	KeyS:            31,
	KeyD:            32,
	KeyF:            33,
	KeyG:            34,
	KeyH:            35,
	KeyJ:            36,
	KeyK:            37,
	KeyL:            38,
	KeySemicolon:    39,
	KeyQuote:        40,
	KeyGrave:        41,
	KeyLeftShift:    42,
	KeyBackslash:    43,
	KeyZ:            44,
	KeyX:            45,
	KeyC:            46,
	KeyV:            47,
	KeyB:            48,
	KeyN:            49,
	KeyM:            50,
	KeyComma:        51,
	KeyDot:          52,
	KeySlash:        53,
	KeyRightShift:   54,
	KeyLeftAlt:      56,
	KeySpace:        57,
	KeyCapsLock:     58,
	KeyF1:           59,
	KeyF2:           60,
	KeyF3:           61,
	KeyF4:           62,
	KeyF5:           63,
	KeyF6:           64,
	KeyF7:           65,
	KeyF8:           66,
	KeyF9:           67,
	KeyF10:          68,
	KeyScrollLock:   70,
	KeyF11:          87,
	KeyF12:          88,
	KeyRightCtrl:    97,
	KeyPrintScreen:  99,
	KeyRightAlt:     100,
	KeyHome:         102,
	KeyUp:           103,
	KeyPageUp:       104,
	KeyLeft:         105,
	KeyRight:        106,
	KeyEnd:          107,
	KeyDown:         108,
	KeyPageDown:     109,
	KeyInsert:       110,
	KeyDelete:       111,
	KeyPause:        119,
	KeyLeftGUI:      125,
	KeyRightGUI:     126,
	KeyApplication:  127,
}

var evdevToHID = func() map[uint16]Code {
	m := make(map[uint16]Code, len(hidToEvdev))
	for c, ev := range hidToEvdev {
		m[ev] = c
	}
	return m
}()

// Evdev returns the Linux input event code for a basic keycode.
// Returns 0 and false if there is no mapping.
func (c Code) Evdev() (uint16, bool) {
	ev, ok := hidToEvdev[c]
	return ev, ok
}

// FromEvdev returns the basic keycode for a Linux input event code.
// Returns KeyNone and false if there is no mapping.
func FromEvdev(ev uint16) (Code, bool) {
	c, ok := evdevToHID[ev]
	return c, ok
}

// EvdevCodes returns every Linux key code with a keycode mapping, sorted.
func EvdevCodes() []uint16 {
	out := make([]uint16, 0, len(evdevToHID))
	for ev := range evdevToHID {
		out = append(out, ev)
	}
	slices.Sort(out)
	return out
}

package layout

import "github.com/dshills/beamspring/internal/input/key"

// Layer indices of the default keymap.
const (
	LayerBase = 0
	LayerExtn = 1
)

const ____ = key.KeyTransparent

// Default layers, in ANSI visual order.
//
//	┌───┐   ┌───┬───┬───┬───┐ ┌───┬───┬───┬───┐ ┌───┬───┬───┬───┐ ┌───┬───┬───┐
//	│Esc│   │F1 │F2 │F3 │F4 │ │F5 │F6 │F7 │F8 │ │F9 │F10│F11│F12│ │PSc│Scr│Pse│
//	└───┘   └───┴───┴───┴───┘ └───┴───┴───┴───┘ └───┴───┴───┴───┘ └───┴───┴───┘
//	┌───┬───┬───┬───┬───┬───┬───┬───┬───┬───┬───┬───┬───┬───────┐ ┌───┬───┬───┐
//	│ ` │ 1 │ 2 │ 3 │ 4 │ 5 │ 6 │ 7 │ 8 │ 9 │ 0 │ - │ = │ Backsp│ │Ins│Hom│PgU│
//	├───┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─────┤ ├───┼───┼───┤
//	│ Tab │ Q │ W │ E │ R │ T │ Y │ U │ I │ O │ P │ [ │ ] │  \  │ │Del│End│PgD│
//	├─────┴┬──┴┬──┴┬──┴┬──┴┬──┴┬──┴┬──┴┬──┴┬──┴┬──┴┬──┴┬──┴─────┤ └───┴───┴───┘
//	│ Caps │ A │ S │ D │ F │ G │ H │ J │ K │ L │ ; │ ' │  Enter │
//	├──────┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴─┬─┴────────┤     ┌───┐
//	│ Shift  │ Z │ X │ C │ V │ B │ N │ M │ , │ . │ / │    Shift │     │ ↑ │
//	├────┬───┴┬──┴─┬─┴───┴───┴───┴───┴───┴──┬┴───┼───┴┬────┬────┤ ┌───┼───┼───┐
//	│Ctrl│GUI │Alt │                        │ Alt│ Fn │Menu│Ctrl│ │ ← │ ↓ │ → │
//	└────┴────┴────┴────────────────────────┴────┴────┴────┴────┘ └───┴───┴───┘
var (
	DefaultBase = []key.Code{
		key.KeyEscape, key.KeyF1, key.KeyF2, key.KeyF3, key.KeyF4, key.KeyF5, key.KeyF6, key.KeyF7, key.KeyF8, key.KeyF9, key.KeyF10, key.KeyF11, key.KeyF12, key.KeyPrintScreen, key.KeyScrollLock, key.KeyPause,

		key.KeyGrave, key.Key1, key.Key2, key.Key3, key.Key4, key.Key5, key.Key6, key.Key7, key.Key8, key.Key9, key.Key0, key.KeyMinus, key.KeyEqual, key.KeyBackspace, key.KeyInsert, key.KeyHome, key.KeyPageUp,
		key.KeyTab, key.KeyQ, key.KeyW, key.KeyE, key.KeyR, key.KeyT, key.KeyY, key.KeyU, key.KeyI, key.KeyO, key.KeyP, key.KeyLeftBracket, key.KeyRightBracket, key.KeyBackslash, key.KeyDelete, key.KeyEnd, key.KeyPageDown,
		key.KeyCapsLock, key.KeyA, key.KeyS, key.KeyD, key.KeyF, key.KeyG, key.KeyH, key.KeyJ, key.KeyK, key.KeyL, key.KeySemicolon, key.KeyQuote, key.KeyEnter,
		key.KeyLeftShift, key.KeyZ, key.KeyX, key.KeyC, key.KeyV, key.KeyB, key.KeyN, key.KeyM, key.KeyComma, key.KeyDot, key.KeySlash, key.KeyRightShift, key.KeyUp,
		key.KeyLeftCtrl, key.KeyLeftGUI, key.KeyLeftAlt, key.KeySpace, key.KeyRightAlt, key.Momentary(LayerExtn), key.KeyApplication, key.KeyRightCtrl, key.KeyLeft, key.KeyDown, key.KeyRight,
	}

	DefaultExtn = []key.Code{
		____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____,

		____, key.KeyMacroTrigger, key.KeyMacroTrigger, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____,
		____, ____, ____, key.KeyClearEEPROM, key.KeyBootloader, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____,
		____, ____, key.KeySOCDToggle, ____, ____, ____, ____, ____, ____, key.KeyLock, ____, ____, ____,
		____, ____, ____, key.KeyMacroTrigger, ____, key.KeyReboot, key.KeyNKROToggle, key.KeyMacroStop, ____, ____, ____, ____, ____,
		____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____,
	}
)

// Default returns the keymap the board ships with.
func Default() *Keymap {
	km, err := New(ANSI, DefaultBase, DefaultExtn)
	if err != nil {
		panic(err)
	}
	return km
}

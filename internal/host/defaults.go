package host

import (
	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/input/macro"
)

// apply performs default handling for an event the input handler let
// through.
func (h *Host) apply(ev key.Event) {
	code := ev.Code

	switch {
	case code.IsBasic():
		if ev.Pressed {
			h.buf.AddKey(code)
		} else {
			h.buf.DelKey(code)
		}
		h.buf.SendReport()
		return

	case code.IsMomentary():
		n := code.Layer()
		if int(n) >= len(h.keymap.Layers) {
			h.logger.Warn().Uint8("layer", n).Msg("momentary layer out of range")
			return
		}
		if ev.Pressed {
			h.layers = h.layers.On(n)
		} else {
			h.layers = h.layers.Off(n)
		}
		h.logger.Debug().Uint8("layer", n).Bool("on", ev.Pressed).Msg("layer")
		return
	}

	// The remaining keycodes act on press only.
	if !ev.Pressed {
		return
	}

	switch code {
	case key.KeyMacroRecord1:
		h.engine.RecordStart(macro.Slot1)
	case key.KeyMacroRecord2:
		h.engine.RecordStart(macro.Slot2)
	case key.KeyMacroStop:
		h.engine.RecordStop(h.recorder.Recording())
	case key.KeyMacroPlay1:
		h.engine.Play(macro.Slot1)
	case key.KeyMacroPlay2:
		h.engine.Play(macro.Slot2)

	case key.KeyNKROToggle:
		h.buf.SetNKRO(!h.buf.NKRO())
		h.logger.Info().Bool("nkro", h.buf.NKRO()).Msg("report mode")

	case key.KeyReboot:
		h.Reboot()

	case key.KeyBootloader:
		h.logger.Info().Msg("bootloader requested, ignored")
	case key.KeyClearEEPROM:
		h.logger.Info().Msg("eeprom clear requested, nothing persisted")
	case key.KeyLock:
		h.logger.Info().Msg("key lock requested, ignored")

	case key.KeySOCDToggle, key.KeyMacroTrigger:
		// Handled by the input handler.

	default:
		h.logger.Debug().Stringer("code", code).Msg("unhandled keycode")
	}
}

package layout

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/dshills/beamspring/internal/input/key"
)

// Errors returned by layout operations.
var (
	// ErrBadLabel indicates a schematic label with no matrix cell.
	ErrBadLabel = errors.New("invalid switch label")

	// ErrArity indicates a layer with the wrong number of keycodes.
	ErrArity = errors.New("wrong number of keycodes for layout")

	// ErrNoLayers indicates a keymap without a base layer.
	ErrNoLayers = errors.New("keymap has no layers")
)

// MaxLayers is the number of layers a LayerState can address.
const MaxLayers = 32

// LayerState is a bitmask of active layers. The base layer is always active.
type LayerState uint32

// On returns the state with layer n active.
func (s LayerState) On(n uint8) LayerState { return s | 1<<n }

// Off returns the state with layer n inactive.
func (s LayerState) Off(n uint8) LayerState { return s &^ (1 << n) }

// IsOn returns true if layer n is active.
func (s LayerState) IsOn(n uint8) bool { return s&(1<<n) != 0 }

// Highest returns the highest active layer, 0 when none is.
func (s LayerState) Highest() uint8 {
	if s == 0 {
		return 0
	}
	return uint8(bits.Len32(uint32(s)) - 1)
}

// Keymap is a stack of layers over one physical layout.
type Keymap struct {
	Layout Layout
	Layers []Layer
}

// New builds a keymap from per-layer keycode lists in layout order.
func New(l Layout, layers ...[]key.Code) (*Keymap, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	if len(layers) > MaxLayers {
		return nil, fmt.Errorf("keymap has %d layers, max %d", len(layers), MaxLayers)
	}
	km := &Keymap{Layout: l, Layers: make([]Layer, 0, len(layers))}
	for i, codes := range layers {
		layer, err := Build(l, codes)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		km.Layers = append(km.Layers, layer)
	}
	return km, nil
}

// Resolve returns the keycode position p produces with the given layers
// active. Transparent entries fall through to the next active layer below;
// the base layer is always consulted last.
func (km *Keymap) Resolve(p key.Pos, state LayerState) key.Code {
	for n := len(km.Layers) - 1; n > 0; n-- {
		if !state.IsOn(uint8(n)) {
			continue
		}
		if c := km.Layers[n].At(p); c != key.KeyTransparent {
			return c
		}
	}
	return km.Base(p)
}

// Base returns the keycode p produces on the unmodified base layer,
// regardless of which layers are active.
func (km *Keymap) Base(p key.Pos) key.Code {
	c := km.Layers[0].At(p)
	if c == key.KeyTransparent {
		return key.KeyNone
	}
	return c
}

// Find returns every position whose keycode on layer n is code, in matrix
// order.
func (km *Keymap) Find(n int, code key.Code) []key.Pos {
	if n < 0 || n >= len(km.Layers) {
		return nil
	}
	var out []key.Pos
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if km.Layers[n][r][c] == code {
				out = append(out, key.Pos{Row: uint8(r), Col: uint8(c)})
			}
		}
	}
	return out
}

// Locate returns the base-layer position of a basic keycode. Used to map
// host keycodes (from evdev, or from script key names) back onto the matrix.
func (km *Keymap) Locate(code key.Code) (key.Pos, bool) {
	ps := km.Find(0, code)
	if len(ps) == 0 {
		return key.NoPos, false
	}
	return ps[0], true
}

// Visual returns layer n's keycodes in the layout's visual order.
func (km *Keymap) Visual(n int) []key.Code {
	if n < 0 || n >= len(km.Layers) {
		return nil
	}
	ps := km.Layout.Positions()
	out := make([]key.Code, len(ps))
	for i, p := range ps {
		if p.IsValid() {
			out[i] = km.Layers[n].At(p)
		}
	}
	return out
}

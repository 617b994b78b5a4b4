package layout

import (
	"fmt"

	"github.com/dshills/beamspring/internal/input/key"
)

// Matrix dimensions of the board.
const (
	Rows = 8
	Cols = 14
)

// senseRow maps a sense line number (1-8) to its matrix row.
var senseRow = [9]int{-1, 6, 4, 5, 7, 2, 0, 1, 3}

// driveCol maps a drive line number (1-16) to its matrix column.
// Drive lines 3 and 4 are not connected.
var driveCol = [17]int{-1, 0, 1, -1, -1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

// Label names a switch by its sense and drive lines, written k_<sense>_<drive>
// on the schematic.
type Label struct {
	Sense uint8
	Drive uint8
}

// Pos returns the matrix position of the switch.
func (l Label) Pos() (key.Pos, error) {
	if l.Sense < 1 || l.Sense > 8 || l.Drive < 1 || l.Drive > 16 {
		return key.NoPos, fmt.Errorf("%w: k_%d_%d", ErrBadLabel, l.Sense, l.Drive)
	}
	row, col := senseRow[l.Sense], driveCol[l.Drive]
	if row < 0 || col < 0 {
		return key.NoPos, fmt.Errorf("%w: k_%d_%d", ErrBadLabel, l.Sense, l.Drive)
	}
	return key.Pos{Row: uint8(row), Col: uint8(col)}, nil
}

// String returns the schematic name.
func (l Label) String() string {
	if l == noKey {
		return "KC_NO"
	}
	return fmt.Sprintf("k_%d_%d", l.Sense, l.Drive)
}

// noKey fills a layout slot that has no switch behind it.
var noKey = Label{}

func k(sense, drive uint8) Label { return Label{Sense: sense, Drive: drive} }

// Layout lists the switches of a physical arrangement in visual order, left
// to right and top to bottom.
type Layout struct {
	Name   string
	Labels []Label
}

// Len returns the number of keycodes a layer built for this layout takes.
func (l Layout) Len() int {
	return len(l.Labels)
}

// Positions returns the matrix position of every slot, in visual order.
// Slots without a switch get key.NoPos.
func (l Layout) Positions() []key.Pos {
	out := make([]key.Pos, len(l.Labels))
	for i, lb := range l.Labels {
		if lb == noKey {
			out[i] = key.NoPos
			continue
		}
		p, err := lb.Pos()
		if err != nil {
			out[i] = key.NoPos
			continue
		}
		out[i] = p
	}
	return out
}

// All covers every switch position the PCB supports. The active keymap does
// not use it.
var All = Layout{
	Name: "all",
	Labels: []Label{
		k(8, 1), k(8, 2), k(7, 2), k(8, 11), k(8, 16), k(8, 15), k(8, 14), k(8, 13), k(8, 12), k(8, 10), k(8, 9), k(8, 8), k(7, 8), k(8, 7), k(8, 6), k(8, 5),

		k(7, 1), k(6, 2), k(6, 11), k(7, 11), k(7, 16), k(6, 16), k(7, 15), k(7, 14), k(6, 13), k(7, 13), k(7, 12), k(6, 12), k(7, 10), k(7, 9), k(7, 7), k(7, 6), k(6, 6),
		k(5, 1), k(5, 2), k(4, 2), k(5, 11), k(5, 16), k(5, 15), k(6, 15), k(5, 14), k(6, 14), k(5, 13), k(5, 12), k(5, 10), k(6, 9), k(5, 8), k(5, 7), k(6, 7), k(5, 6),
		k(4, 1), k(3, 2), k(3, 11), k(4, 16), k(3, 16), k(4, 15), k(4, 14), k(3, 14), k(4, 13), k(4, 12), k(3, 12), k(4, 10), k(3, 8), k(4, 8), k(4, 7), k(4, 6),
		k(2, 1), k(2, 11), k(2, 16), k(3, 15), k(2, 15), k(2, 14), k(3, 13), k(2, 13), k(2, 12), k(3, 10), k(2, 10), k(2, 8), k(2, 7), k(3, 7), k(3, 6),
		k(1, 1), k(1, 2), k(1, 11), k(1, 15), k(1, 13), k(1, 10), k(1, 9), k(1, 8), k(1, 7), k(1, 6), k(2, 6),
	},
}

// ANSI is the tenkeyless ANSI arrangement used by the keymap.
var ANSI = Layout{
	Name: "tkl_ansi",
	Labels: []Label{
		k(8, 1), k(8, 2), k(7, 2), k(8, 11), k(8, 16), k(8, 15), k(8, 14), k(8, 13), k(8, 12), k(8, 10), k(8, 9), k(8, 8), k(7, 8), k(8, 7), k(8, 6), k(8, 5),

		k(7, 1), k(6, 2), k(6, 11), k(7, 11), k(7, 16), k(6, 16), k(7, 15), k(7, 14), k(6, 13), k(7, 13), k(7, 12), k(6, 12), k(7, 10), k(7, 9), k(7, 7), k(7, 6), k(6, 6),
		k(5, 1), k(5, 2), k(4, 2), k(5, 11), k(5, 16), k(5, 15), k(6, 15), k(5, 14), k(6, 14), k(5, 13), k(5, 12), k(5, 10), k(6, 9), k(5, 8), k(5, 7), k(6, 7), k(5, 6),
		k(4, 1), k(3, 2), k(3, 11), k(4, 16), k(3, 16), k(4, 15), k(4, 14), k(3, 14), k(4, 13), k(4, 12), k(3, 12), k(4, 10), k(3, 8),
		k(2, 1), k(2, 11), k(2, 16), k(3, 15), k(2, 15), k(2, 14), k(3, 13), k(2, 13), k(2, 12), k(3, 10), k(2, 10), k(2, 8), k(3, 7),
		k(1, 1), k(1, 2), k(1, 11), k(1, 15), k(1, 13), k(1, 10), k(1, 9), k(1, 8), k(1, 7), k(1, 6), k(2, 6),
	},
}

// Layouts lists the known layouts by name.
var Layouts = map[string]Layout{
	All.Name:  All,
	ANSI.Name: ANSI,
}

// Layer is one keycode table indexed by matrix position.
type Layer [Rows][Cols]key.Code

// At returns the keycode at p, or KeyNone for positions outside the matrix.
func (l *Layer) At(p key.Pos) key.Code {
	if int(p.Row) >= Rows || int(p.Col) >= Cols {
		return key.KeyNone
	}
	return l[p.Row][p.Col]
}

// Build places codes, given in the layout's visual order, into a matrix layer.
// Matrix cells the layout does not reach stay KeyNone.
func Build(l Layout, codes []key.Code) (Layer, error) {
	var layer Layer
	if len(codes) != len(l.Labels) {
		return layer, fmt.Errorf("%w: layout %s takes %d keys, got %d",
			ErrArity, l.Name, len(l.Labels), len(codes))
	}
	for i, p := range l.Positions() {
		if !p.IsValid() {
			continue
		}
		layer[p.Row][p.Col] = codes[i]
	}
	return layer, nil
}

// MustBuild is Build for static tables.
func MustBuild(l Layout, codes []key.Code) Layer {
	layer, err := Build(l, codes)
	if err != nil {
		panic(err)
	}
	return layer
}

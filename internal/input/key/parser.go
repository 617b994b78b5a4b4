package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// Parse parses a keycode specification.
//
// Supported formats:
//   - Names: "A", "bspc", "KC_ENT", "LSFT", "DM_PLY1", "SOCD"
//   - Momentary layers: "MO(1)"
//   - Raw values: "0x7E40", "30"
func Parse(spec string) (Code, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return KeyNone, ErrEmptySpec
	}

	if strings.HasPrefix(strings.ToUpper(spec), "MO(") {
		return parseMomentary(spec)
	}

	if c, ok := CodeFromName(spec); ok {
		return c, nil
	}

	// Raw numeric keycode. Single digits were already handled as names.
	if v, err := strconv.ParseUint(spec, 0, 16); err == nil {
		return Code(v), nil
	}

	return KeyNone, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, spec)
}

// parseMomentary parses "MO(n)".
func parseMomentary(spec string) (Code, error) {
	if !strings.HasSuffix(spec, ")") {
		return KeyNone, ErrUnmatchedBracket
	}
	inner := strings.TrimSpace(spec[3 : len(spec)-1])
	n, err := strconv.ParseUint(inner, 10, 8)
	if err != nil || n > 31 {
		return KeyNone, fmt.Errorf("%w: bad layer %q", ErrInvalidSpec, inner)
	}
	return Momentary(uint8(n)), nil
}

// ParsePos parses a matrix position written as "row,col".
func ParsePos(spec string) (Pos, error) {
	row, col, ok := strings.Cut(strings.TrimSpace(spec), ",")
	if !ok {
		return NoPos, fmt.Errorf("%w: position %q must be row,col", ErrInvalidSpec, spec)
	}
	r, err := strconv.ParseUint(strings.TrimSpace(row), 10, 8)
	if err != nil {
		return NoPos, fmt.Errorf("%w: row %q", ErrInvalidSpec, row)
	}
	c, err := strconv.ParseUint(strings.TrimSpace(col), 10, 8)
	if err != nil {
		return NoPos, fmt.Errorf("%w: column %q", ErrInvalidSpec, col)
	}
	return Pos{Row: uint8(r), Col: uint8(c)}, nil
}

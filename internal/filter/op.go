package filter

import (
	"fmt"
	"strings"

	"github.com/rm-hull/photo-editor/internal/pixel"
)

// Op identifies a filter. The set is closed: Apply handles every value and
// rejects anything else.
type Op int

const (
	Grayscale Op = iota
	Sepia
	Invert
	Enhance
	Brightness
	Noise
	Pixelate
	Blur
	Sharpen
	EdgeDetect
	Reset
)

var opNames = [...]string{
	Grayscale:  "grayscale",
	Sepia:      "sepia",
	Invert:     "invert",
	Enhance:    "enhance",
	Brightness: "brightness",
	Noise:      "noise",
	Pixelate:   "pixelate",
	Blur:       "blur",
	Sharpen:    "sharpen",
	EdgeDetect: "edge",
	Reset:      "reset",
}

// Ops lists every filter in declaration order.
func Ops() []Op {
	ops := make([]Op, len(opNames))
	for i := range opNames {
		ops[i] = Op(i)
	}
	return ops
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// ParseOp maps a filter name to its Op. "ai-enhance" and "greyscale" are
// accepted as aliases.
func ParseOp(name string) (Op, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "ai-enhance":
		return Enhance, nil
	case "greyscale":
		return Grayscale, nil
	}
	for i, n := range opNames {
		if n == name {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown filter %q", pixel.ErrPrecondition, name)
}

// MarshalText implements encoding.TextMarshaler.
func (op Op) MarshalText() ([]byte, error) {
	if op < 0 || int(op) >= len(opNames) {
		return nil, fmt.Errorf("%w: unknown filter %d", pixel.ErrPrecondition, int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Op) UnmarshalText(text []byte) error {
	parsed, err := ParseOp(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

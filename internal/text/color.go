package text

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"golang.org/x/image/colornames"
)

// ParseColor accepts "#rgb", "#rrggbb" or an SVG/CSS color name such as
// "black" or "tomato". The empty string is black.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{A: 255}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: unrecognised color %q", pixel.ErrPrecondition, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: unrecognised color %q", pixel.ErrPrecondition, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

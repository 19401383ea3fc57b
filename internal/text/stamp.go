// Package text bakes a single line of text into a pixel buffer.
package text

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is the font size in pixels used when Options.Size is zero.
const DefaultSize = 30

const maxSize = 1000

// Options control how a string is stamped.
type Options struct {
	// Family picks a Go font: "sans" (default), "bold", "italic" or "mono".
	// Common browser family names are mapped onto these.
	Family string `json:"family" yaml:"family"`
	// Size is the font size in pixels.
	Size float64 `json:"size" yaml:"size"`
	// Color is a hex triplet or color name.
	Color string `json:"color" yaml:"color"`
}

var families = map[string][]byte{
	"sans":   goregular.TTF,
	"bold":   gobold.TTF,
	"italic": goitalic.TTF,
	"mono":   gomono.TTF,
}

var aliases = map[string]string{
	"arial":           "sans",
	"helvetica":       "sans",
	"verdana":         "sans",
	"sans-serif":      "sans",
	"georgia":         "italic",
	"times new roman": "italic",
	"serif":           "italic",
	"impact":          "bold",
	"courier new":     "mono",
	"courier":         "mono",
	"monospace":       "mono",
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*opentype.Font{}
)

func loadFont(family string) (*opentype.Font, error) {
	family = strings.ToLower(strings.TrimSpace(family))
	if alias, ok := aliases[family]; ok {
		family = alias
	}
	ttf, ok := families[family]
	if !ok {
		family = "sans"
		ttf = families[family]
	}

	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[family]; ok {
		return f, nil
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", family, err)
	}
	parsed[family] = f
	return f, nil
}

// Stamp returns a copy of buf with s drawn horizontally centred and its
// baseline at half the image height.
func Stamp(buf *pixel.Buffer, s string, opts Options) (*pixel.Buffer, error) {
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 || size > maxSize {
		return nil, fmt.Errorf("%w: font size %v out of range", pixel.ErrPrecondition, size)
	}
	col, err := ParseColor(opts.Color)
	if err != nil {
		return nil, err
	}
	f, err := loadFont(opts.Family)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	out := buf.Clone()
	d := &font.Drawer{Dst: out.NRGBA(), Src: image.NewUniform(col), Face: face}
	advance := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.I(out.Width())/2 - advance/2,
		Y: fixed.I(out.Height() / 2),
	}
	d.DrawString(s)
	return out, nil
}

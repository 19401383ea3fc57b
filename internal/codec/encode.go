package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rm-hull/photo-editor/internal/pixel"
	"golang.org/x/image/draw"
)

// JPEGQuality is used for JPEG exports.
const JPEGQuality = 90

var gifBackground = image.NewUniform(color.White)

// Encode writes a single still image in the given format.
func Encode(w io.Writer, buf *pixel.Buffer, format Format) error {
	var enc imgio.Encoder
	switch format {
	case PNG:
		enc = imgio.PNGEncoder()
	case JPEG:
		enc = imgio.JPEGEncoder(JPEGQuality)
	case BMP:
		enc = imgio.BMPEncoder()
	case GIF:
		enc = func(w io.Writer, img image.Image) error {
			return gif.Encode(w, paletted(img), nil)
		}
	default:
		return fmt.Errorf("%w: %v is not a still format", pixel.ErrPrecondition, format)
	}

	if err := enc(w, buf.NRGBA()); err != nil {
		return fmt.Errorf("failed to encode %v: %w", format, err)
	}
	return nil
}

// paletted flattens img onto white and dithers it into the Plan 9 palette.
func paletted(img image.Image) *image.Paletted {
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, gifBackground, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	p := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(p, bounds, flat, bounds.Min)
	return p
}

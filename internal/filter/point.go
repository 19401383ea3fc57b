package filter

import (
	"fmt"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

// Source supplies uniformly distributed values in [0, 1). *rand.Rand from
// math/rand and math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

// Params carries the arguments of the parameterised filters. Fields not used
// by an Op are ignored.
type Params struct {
	// Delta is added to every color channel by Brightness.
	Delta int
	// Amplitude is the peak-to-peak range of the Noise offset.
	Amplitude float64
	// BlockSize is the tile side for Pixelate.
	BlockSize int
	// Rand drives Noise. It is required for that filter.
	Rand Source
	// Original is the load-time buffer restored by Reset.
	Original *pixel.Buffer
}

// DefaultParams mirrors the editor defaults: brightness +50, noise 50, 10px tiles.
func DefaultParams() Params {
	return Params{
		Delta:     50,
		Amplitude: 50,
		BlockSize: 10,
	}
}

// Apply runs op against buf and returns a new buffer. buf is never modified;
// on error the caller still holds the untouched input.
func Apply(buf *pixel.Buffer, op Op, params Params) (*pixel.Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", pixel.ErrPrecondition)
	}

	switch op {
	case Grayscale:
		return mapColor(buf, grayscale)
	case Sepia:
		return mapColor(buf, sepia)
	case Invert:
		return mapColor(buf, invert)
	case Enhance:
		return mapColor(buf, enhance)
	case Brightness:
		return mapColor(buf, brightness(params.Delta))
	case Noise:
		return noise(buf, params.Amplitude, params.Rand)
	case Pixelate:
		return pixelate(buf, params.BlockSize)
	case Blur:
		return Convolve(buf, BlurKernel())
	case Sharpen:
		return Convolve(buf, SharpenKernel())
	case EdgeDetect:
		return Convolve(buf, EdgeKernel())
	case Reset:
		if params.Original == nil {
			return nil, fmt.Errorf("%w: reset without a load-time buffer", pixel.ErrPrecondition)
		}
		return params.Original.Clone(), nil
	default:
		return nil, fmt.Errorf("%w: unknown filter %v", pixel.ErrPrecondition, op)
	}
}

func mapColor(buf *pixel.Buffer, fn func(color.RGBA) color.RGBA) (*pixel.Buffer, error) {
	return pixel.FromRGBA(adjust.Apply(buf.RGBA(), fn))
}

func grayscale(c color.RGBA) color.RGBA {
	gray := uint8(math.Round(float64(int(c.R)+int(c.G)+int(c.B)) / 3))
	return color.RGBA{R: gray, G: gray, B: gray, A: c.A}
}

func sepia(c color.RGBA) color.RGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.RGBA{
		R: clampRound(0.393*r + 0.769*g + 0.189*b),
		G: clampRound(0.349*r + 0.686*g + 0.168*b),
		B: clampRound(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

func invert(c color.RGBA) color.RGBA {
	return color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A}
}

func enhance(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: clampRound(1.1*float64(c.R) + 10),
		G: clampRound(1.1*float64(c.G) + 10),
		B: clampRound(1.1*float64(c.B) + 10),
		A: c.A,
	}
}

func brightness(delta int) func(color.RGBA) color.RGBA {
	var lookup [256]uint8
	for i := range lookup {
		lookup[i] = clampInt(i + delta)
	}
	return func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lookup[c.R], G: lookup[c.G], B: lookup[c.B], A: c.A}
	}
}

func clampInt(v int) uint8 {
	return uint8(min(255, max(0, v)))
}

// noise walks pixels in row-major order, drawing r, g then b offsets from rnd,
// so a given seed always produces the same image.
func noise(buf *pixel.Buffer, amplitude float64, rnd Source) (*pixel.Buffer, error) {
	if rnd == nil {
		return nil, fmt.Errorf("%w: noise needs a random source", pixel.ErrPrecondition)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("%w: negative noise amplitude %v", pixel.ErrPrecondition, amplitude)
	}

	out := buf.Clone()
	s := out.Samples()
	half := amplitude / 2
	for i := 0; i < len(s); i += 4 {
		for c := 0; c < 3; c++ {
			s[i+c] = clampRound(float64(s[i+c]) + rnd.Float64()*amplitude - half)
		}
	}
	return out, nil
}

// pixelate fills each blockSize x blockSize tile with its top-left pixel.
// Tiles on the right and bottom edges are truncated by the image bounds.
func pixelate(buf *pixel.Buffer, blockSize int) (*pixel.Buffer, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: block size %d must be >= 1", pixel.ErrPrecondition, blockSize)
	}

	w, h := buf.Width(), buf.Height()
	out := buf.Clone()
	src, dst := buf.Samples(), out.Samples()
	tileRows := (h + blockSize - 1) / blockSize

	// Tile rows are disjoint, so splitting them across goroutines cannot change the result.
	parallel.Line(tileRows, func(start, end int) {
		for ty := start; ty < end; ty++ {
			y0 := ty * blockSize
			y1 := min(y0+blockSize, h)
			for x0 := 0; x0 < w; x0 += blockSize {
				x1 := min(x0+blockSize, w)
				ref := src[buf.Offset(x0, y0) : buf.Offset(x0, y0)+4]
				for y := y0; y < y1; y++ {
					for x := x0; x < x1; x++ {
						copy(dst[out.Offset(x, y):], ref)
					}
				}
			}
		}
	})

	return out, nil
}

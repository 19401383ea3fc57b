package filter

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/math/f64"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

// Convolve applies k to every channel of buf, alpha included, and returns a
// new buffer of the same size. Samples outside the image are taken from the
// nearest edge. Each sum is clamped to [0,255] and rounded. buf is not modified.
func Convolve(buf *pixel.Buffer, k Kernel) (*pixel.Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", pixel.ErrPrecondition)
	}
	if k.m == nil {
		return nil, fmt.Errorf("%w: uninitialised kernel", pixel.ErrPrecondition)
	}

	w, h := buf.Width(), buf.Height()
	out, err := pixel.New(w, h)
	if err != nil {
		return nil, err
	}

	size := k.Size()
	radius := size / 2
	// Padded by the kernel radius, so window (x..x+size, y..y+size) in src is
	// centred on (x, y) of the original.
	src := clone.Pad(buf.RGBA(), radius, radius, clone.EdgeExtend)
	dst := out.Samples()

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				var r, g, b, a float64
				for ky := 0; ky < size; ky++ {
					row := (y + ky) * src.Stride
					for kx := 0; kx < size; kx++ {
						weight := k.m.At(kx, ky)
						if weight == 0 {
							continue
						}
						pos := row + (x+kx)*4
						r += float64(src.Pix[pos+0]) * weight
						g += float64(src.Pix[pos+1]) * weight
						b += float64(src.Pix[pos+2]) * weight
						a += float64(src.Pix[pos+3]) * weight
					}
				}

				pos := out.Offset(x, y)
				dst[pos+0] = clampRound(r)
				dst[pos+1] = clampRound(g)
				dst[pos+2] = clampRound(b)
				dst[pos+3] = clampRound(a)
			}
		}
	})

	return out, nil
}

func clampRound(v float64) uint8 {
	return uint8(math.Round(f64.Clamp(v, 0, 255)))
}

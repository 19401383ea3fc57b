package recipe

import (
	"fmt"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/photo-editor/internal/codec"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

// resizeStage scales the image with Catmull-Rom resampling.
type resizeStage struct {
	width, height int
}

func (s resizeStage) Process(buf *pixel.Buffer) (*pixel.Buffer, error) {
	return codec.Resample(buf, s.width, s.height)
}

func (s resizeStage) String() string {
	return fmt.Sprintf("resize(%dx%d)", s.width, s.height)
}

// gaussianStage applies a Gaussian blur. Higher sigma values blur more.
type gaussianStage struct {
	sigma float64
}

func (s gaussianStage) Process(buf *pixel.Buffer) (*pixel.Buffer, error) {
	return pixel.FromRGBA(blur.Gaussian(buf.RGBA(), s.sigma))
}

func (s gaussianStage) String() string {
	return fmt.Sprintf("gaussian(%g)", s.sigma)
}

// knockoutStage fades pixels close to a target color towards transparency.
// An exact match becomes fully transparent; one at the edge of the
// tolerance keeps its alpha.
type knockoutStage struct {
	target    color.NRGBA
	tolerance float64
}

func (s knockoutStage) Process(buf *pixel.Buffer) (*pixel.Buffer, error) {
	tR, tG, tB := float64(s.target.R), float64(s.target.G), float64(s.target.B)
	out := adjust.Apply(buf.RGBA(), func(c color.RGBA) color.RGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		dist := math.Sqrt((tR-r)*(tR-r) + (tG-g)*(tG-g) + (tB-b)*(tB-b))
		if dist < s.tolerance {
			c.A = uint8((dist / s.tolerance) * float64(c.A))
		}
		return c
	})
	return pixel.FromRGBA(out)
}

func (s knockoutStage) String() string {
	return fmt.Sprintf("knockout(%v, %g)", s.target, s.tolerance)
}

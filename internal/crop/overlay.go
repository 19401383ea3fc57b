package crop

import (
	"image"
	"image/color"
	"math"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"golang.org/x/image/draw"
)

const (
	outlineWidth = 2
	dashLength   = 6
	handleSize   = 8
)

var overlayColor = image.NewUniform(color.NRGBA{R: 255, A: 255})

// Overlay returns a copy of buf with r drawn as a dashed red outline and
// square handles on each corner. buf is left untouched.
func Overlay(buf *pixel.Buffer, r Rect) *pixel.Buffer {
	out := buf.Clone()
	dst := out.NRGBA()

	n := r.Normalize()
	x0, y0 := int(math.Round(n.X)), int(math.Round(n.Y))
	x1, y1 := int(math.Round(n.X+n.Width)), int(math.Round(n.Y+n.Height))
	half := outlineWidth / 2

	for x := x0; x < x1; x += 2 * dashLength {
		end := min(x+dashLength, x1)
		fill(dst, image.Rect(x, y0-half, end, y0+half))
		fill(dst, image.Rect(x, y1-half, end, y1+half))
	}
	for y := y0; y < y1; y += 2 * dashLength {
		end := min(y+dashLength, y1)
		fill(dst, image.Rect(x0-half, y, x0+half, end))
		fill(dst, image.Rect(x1-half, y, x1+half, end))
	}

	for _, h := range handleOrder {
		p := r.Corner(h)
		cx, cy := int(math.Round(p.X)), int(math.Round(p.Y))
		fill(dst, image.Rect(cx-handleSize/2, cy-handleSize/2, cx+handleSize/2, cy+handleSize/2))
	}
	return out
}

func fill(dst draw.Image, r image.Rectangle) {
	draw.Draw(dst, r, overlayColor, image.Point{}, draw.Src)
}

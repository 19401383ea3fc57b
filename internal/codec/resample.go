package codec

import (
	"github.com/rm-hull/photo-editor/internal/pixel"
	"golang.org/x/image/draw"
)

// Resample scales buf to width x height with a Catmull-Rom filter. A buffer
// that already has that size is returned as a copy.
func Resample(buf *pixel.Buffer, width, height int) (*pixel.Buffer, error) {
	if buf.Width() == width && buf.Height() == height {
		return buf.Clone(), nil
	}
	out, err := pixel.New(width, height)
	if err != nil {
		return nil, err
	}
	dst := out.NRGBA()
	draw.CatmullRom.Scale(dst, dst.Bounds(), buf.NRGBA(), buf.Bounds(), draw.Src, nil)
	return out, nil
}

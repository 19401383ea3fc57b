package pixel

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// RGBA returns an *image.RGBA that shares the buffer samples. The bytes are
// passed through untouched, which is what the bild routines operate on.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.samples,
		Stride: b.width * 4,
		Rect:   b.Bounds(),
	}
}

// NRGBA returns an *image.NRGBA that shares the buffer samples. Use it when
// compositing or encoding so straight alpha is honoured.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.samples,
		Stride: b.width * 4,
		Rect:   b.Bounds(),
	}
}

// FromImage converts any decoded image into a buffer of non-premultiplied
// samples with its origin moved to (0, 0).
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	b, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	if src, ok := img.(*image.NRGBA); ok {
		copyRows(b, src.Pix, src.Stride, src.PixOffset(bounds.Min.X, bounds.Min.Y))
		return b, nil
	}
	draw.Draw(b.NRGBA(), b.Bounds(), img, bounds.Min, draw.Src)
	return b, nil
}

// FromRGBA adopts the raw bytes of an *image.RGBA produced by a bild routine.
// No premultiplication is applied: the bytes are taken as they are.
func FromRGBA(img *image.RGBA) (*Buffer, error) {
	bounds := img.Bounds()
	b, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	copyRows(b, img.Pix, img.Stride, img.PixOffset(bounds.Min.X, bounds.Min.Y))
	return b, nil
}

func copyRows(dst *Buffer, pix []uint8, stride, start int) {
	rowLen := dst.width * 4
	for y := 0; y < dst.height; y++ {
		src := start + y*stride
		copy(dst.samples[y*rowLen:(y+1)*rowLen], pix[src:src+rowLen])
	}
}

// MustNew is New for sizes known to be valid, such as in tests and fixtures.
func MustNew(width, height int) *Buffer {
	b, err := New(width, height)
	if err != nil {
		panic(fmt.Sprintf("pixel: %v", err))
	}
	return b
}

// Package pixel provides the RGBA raster that every filter reads and writes.
package pixel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
)

// Buffer is a width x height grid of non-premultiplied RGBA samples, stored
// row-major with 4 bytes per pixel. The sample slice always holds exactly
// width*height*4 bytes; a different size means a new Buffer.
type Buffer struct {
	width   int
	height  int
	samples []uint8
}

// New returns a fully transparent buffer of the given size.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return &Buffer{
		width:   width,
		height:  height,
		samples: make([]uint8, width*height*4),
	}, nil
}

// FromSamples copies samples into a new buffer.
func FromSamples(width, height int, samples []uint8) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(samples) != len(b.samples) {
		return nil, fmt.Errorf("%w: got %d samples for %dx%d", ErrPrecondition, len(samples), width, height)
	}
	copy(b.samples, samples)
	return b, nil
}

// Width returns the number of columns.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Buffer) Height() int {
	return b.height
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Samples returns the backing sample slice. Callers that hold a buffer which
// may be shared (for example one returned from history) must Clone before writing.
func (b *Buffer) Samples() []uint8 {
	return b.samples
}

// Offset returns the byte offset of the red sample of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return 4 * (y*b.width + x)
}

// At returns the color at (x, y). Out of range coordinates yield transparent black.
func (b *Buffer) At(x, y int) color.NRGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.NRGBA{}
	}
	i := b.Offset(x, y)
	s := b.samples[i : i+4 : i+4]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// Set writes the color at (x, y). Out of range coordinates are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := b.Offset(x, y)
	s := b.samples[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.samples); i += 4 {
		b.samples[i+0] = c.R
		b.samples[i+1] = c.G
		b.samples[i+2] = c.B
		b.samples[i+3] = c.A
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	samples := make([]uint8, len(b.samples))
	copy(samples, b.samples)
	return &Buffer{width: b.width, height: b.height, samples: samples}
}

// Equal reports whether both buffers have the same size and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.width == o.width && b.height == o.height && bytes.Equal(b.samples, o.samples)
}

// SubImage copies the region r (intersected with the buffer bounds) into a
// new buffer whose origin is r.Min.
func (b *Buffer) SubImage(r image.Rectangle) (*Buffer, error) {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("%w: empty region %v", ErrInvalidDimension, r)
	}
	return FromRGBA(transform.Crop(b.RGBA(), r))
}

func (b *Buffer) String() string {
	return fmt.Sprintf("pixel.Buffer(%dx%d)", b.width, b.height)
}

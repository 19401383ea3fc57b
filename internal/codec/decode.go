// Package codec turns encoded images into pixel buffers and back.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rm-hull/photo-editor/internal/pixel"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds the decoded size of an image, guarding against
// decompression bombs.
const MaxPixels = 64 * 1024 * 1024

// Decode reads a PNG, JPEG, GIF, BMP or WebP image and returns it as a buffer
// together with the format name.
func Decode(r io.Reader) (*pixel.Buffer, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: %dx%d", pixel.ErrInvalidDimension, cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", pixel.ErrInvalidDimension, cfg.Width, cfg.Height, MaxPixels)
	}

	if format == "png" || format == "apng" {
		format = "png"
		if animatedPNG(data) {
			format = "apng"
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	buf, err := pixel.FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return buf, format, nil
}

// animatedPNG reports whether a PNG stream has an acTL chunk ahead of its
// first IDAT. The png and apng decoders both register the PNG signature.
func animatedPNG(data []byte) bool {
	const signature = 8
	for pos := signature; pos+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		switch string(data[pos+4 : pos+8]) {
		case "acTL":
			return true
		case "IDAT", "IEND":
			return false
		}
		if length < 0 || length > len(data) {
			return false
		}
		pos += length + 12
	}
	return false
}

// Open loads an image file from disk.
func Open(path string) (*pixel.Buffer, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return pixel.FromImage(img)
}

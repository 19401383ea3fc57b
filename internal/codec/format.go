package codec

import (
	"fmt"
	"strings"

	"github.com/rm-hull/photo-editor/internal/pixel"
)

// Format is an export format.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
	GIF
	AnimatedGIF
	APNG
)

var formats = []struct {
	name        string
	ext         string
	contentType string
	base        string
}{
	PNG:         {"png", ".png", "image/png", "edited-image"},
	JPEG:        {"jpeg", ".jpg", "image/jpeg", "edited-image"},
	BMP:         {"bmp", ".bmp", "image/bmp", "edited-image"},
	GIF:         {"gif", ".gif", "image/gif", "edited-image"},
	AnimatedGIF: {"animated-gif", ".gif", "image/gif", "animated"},
	APNG:        {"apng", ".png", "image/apng", "animated"},
}

// ParseFormat maps a name such as "png", "jpg" or "apng" to a Format.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch s {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "gif":
		return GIF, nil
	case "animated-gif", "gif-animated":
		return AnimatedGIF, nil
	case "apng":
		return APNG, nil
	}
	return 0, fmt.Errorf("%w: unknown export format %q", pixel.ErrPrecondition, s)
}

// FormatFromPath infers a still format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	for _, f := range []Format{JPEG, BMP, GIF} {
		if strings.HasSuffix(lower, formats[f].ext) || (f == JPEG && strings.HasSuffix(lower, ".jpeg")) {
			return f
		}
	}
	return PNG
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formats) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formats[f].name
}

// Animated reports whether the format replays the edit history.
func (f Format) Animated() bool {
	return f == AnimatedGIF || f == APNG
}

// ContentType returns the MIME type for HTTP responses.
func (f Format) ContentType() string {
	return formats[f].contentType
}

// Filename returns the suggested download name, e.g. "edited-image.png".
func (f Format) Filename() string {
	return formats[f].base + formats[f].ext
}

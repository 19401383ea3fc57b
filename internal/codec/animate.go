package codec

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"

	"github.com/kettek/apng"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

// DefaultFrameDelay matches the delay of the editor's GIF export.
const DefaultFrameDelay = 200 * time.Millisecond

// Animate writes frames as a looping animation. Frames whose size differs
// from the last frame are resampled to it, so the animation ends on the
// image as it currently stands.
func Animate(w io.Writer, frames []*pixel.Buffer, delay time.Duration, format Format) error {
	if len(frames) == 0 {
		return errors.New("no frames to animate")
	}
	if delay <= 0 {
		delay = DefaultFrameDelay
	}

	last := frames[len(frames)-1]
	images := make([]image.Image, len(frames))
	for i, f := range frames {
		scaled, err := Resample(f, last.Width(), last.Height())
		if err != nil {
			return fmt.Errorf("failed to resample frame %d: %w", i, err)
		}
		images[i] = scaled.NRGBA()
	}

	switch format {
	case APNG:
		return encodeAPNG(w, images, delay)
	case AnimatedGIF, GIF:
		return encodeGIF(w, images, delay)
	default:
		return fmt.Errorf("%w: %v is not an animated format", pixel.ErrPrecondition, format)
	}
}

func encodeAPNG(w io.Writer, images []image.Image, delay time.Duration) error {
	a := apng.APNG{
		Frames:    make([]apng.Frame, len(images)),
		LoopCount: 0,
	}
	for i, img := range images {
		a.Frames[i] = apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(delay.Milliseconds()),
			DelayDenominator: 1000,
		}
	}
	if err := apng.Encode(w, a); err != nil {
		return fmt.Errorf("failed to encode apng: %w", err)
	}
	return nil
}

func encodeGIF(w io.Writer, images []image.Image, delay time.Duration) error {
	anim := &gif.GIF{
		Image:     make([]*image.Paletted, len(images)),
		Delay:     make([]int, len(images)),
		LoopCount: 0,
	}
	centis := int(delay / (10 * time.Millisecond))
	for i, img := range images {
		anim.Image[i] = paletted(img)
		anim.Delay[i] = centis
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}

// Package api holds the JSON bodies of the editing HTTP API.
package api

import (
	"math/rand/v2"

	"github.com/rm-hull/photo-editor/internal/crop"
	"github.com/rm-hull/photo-editor/internal/editor"
	"github.com/rm-hull/photo-editor/internal/filter"
	"github.com/rm-hull/photo-editor/internal/text"
)

type LoadRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type Session struct {
	ID string `json:"id"`
	editor.Info
}

type ChangeResponse struct {
	Changed bool    `json:"changed"`
	Session Session `json:"session"`
}

// FilterRequest overrides the editor defaults for parameterised filters.
type FilterRequest struct {
	Delta     *int     `json:"delta,omitempty"`
	Amplitude *float64 `json:"amplitude,omitempty" binding:"omitempty,gte=0"`
	BlockSize *int     `json:"blockSize,omitempty" binding:"omitempty,gte=1"`
	Seed      *uint64  `json:"seed,omitempty"`
}

func (r FilterRequest) Params() filter.Params {
	p := filter.DefaultParams()
	if r.Delta != nil {
		p.Delta = *r.Delta
	}
	if r.Amplitude != nil {
		p.Amplitude = *r.Amplitude
	}
	if r.BlockSize != nil {
		p.BlockSize = *r.BlockSize
	}
	if r.Seed != nil {
		p.Rand = rand.New(rand.NewPCG(*r.Seed, *r.Seed))
	}
	return p
}

// Viewport is the size the client displays the image at, used to map
// pointer coordinates back onto image pixels.
type Viewport struct {
	Width  float64 `json:"width" binding:"gt=0"`
	Height float64 `json:"height" binding:"gt=0"`
}

type StartCropRequest struct {
	Viewport *Viewport `json:"viewport,omitempty"`
}

type PointerRequest struct {
	Kind string  `json:"kind" binding:"required,oneof=down move up hover"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type PointerResponse struct {
	Changed   bool       `json:"changed"`
	CropState string     `json:"cropState"`
	CropRect  *crop.Rect `json:"cropRect,omitempty"`
	Cursor    string     `json:"cursor"`
}

type TextRequest struct {
	Text string `json:"text"`
	text.Options
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Package crop implements the interactive crop rectangle: handle detection,
// drag and resize gestures, and normalization before the crop is applied.
package crop

import (
	"fmt"
	"image"
	"math"
)

// Point is a position in image pixel space unless noted otherwise.
type Point struct {
	X, Y float64
}

// Rect is a crop rectangle in image pixel space. While a handle is being
// dragged past the opposite edge Width or Height can be negative.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize flips a negative width or height so the rectangle covers the
// same area with non-negative extents.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Region normalizes r, rounds it to whole pixels and clamps it to a
// width x height image. The result may be empty.
func (r Rect) Region(width, height int) image.Rectangle {
	n := r.Normalize()
	region := image.Rect(
		int(math.Round(n.X)),
		int(math.Round(n.Y)),
		int(math.Round(n.X+n.Width)),
		int(math.Round(n.Y+n.Height)),
	)
	return region.Intersect(image.Rect(0, 0, width, height))
}

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p Point) bool {
	return p.X > r.X && p.X < r.X+r.Width && p.Y > r.Y && p.Y < r.Y+r.Height
}

// Corner returns the position of the corner addressed by h.
func (r Rect) Corner(h Handle) Point {
	switch h {
	case TopRight:
		return Point{r.X + r.Width, r.Y}
	case BottomLeft:
		return Point{r.X, r.Y + r.Height}
	case BottomRight:
		return Point{r.X + r.Width, r.Y + r.Height}
	default:
		return Point{r.X, r.Y}
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.Width, r.Height)
}

// Handle is one of the four corner grips of the crop rectangle.
type Handle int

const (
	NoHandle Handle = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

// handleOrder is also the priority when tolerances overlap on a tiny rectangle.
var handleOrder = [...]Handle{TopLeft, TopRight, BottomLeft, BottomRight}

func (h Handle) String() string {
	switch h {
	case TopLeft:
		return "tl"
	case TopRight:
		return "tr"
	case BottomLeft:
		return "bl"
	case BottomRight:
		return "br"
	default:
		return ""
	}
}

// Cursor returns the CSS cursor that suits dragging h.
func (h Handle) Cursor() string {
	switch h {
	case TopLeft, BottomRight:
		return "nwse-resize"
	case TopRight, BottomLeft:
		return "nesw-resize"
	default:
		return "crosshair"
	}
}

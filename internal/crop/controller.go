package crop

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/rm-hull/photo-editor/internal/pixel"
)

// HandleTolerance is how close, in image pixels, a pointer must be to a
// corner to grab it.
const HandleTolerance = 8.0

// ErrNotActive is returned by Commit when no crop rectangle is ready.
var ErrNotActive = errors.New("crop not active")

// State is the controller mode.
type State int

const (
	Idle State = iota
	Active
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Controller is the crop state machine. It is driven by discrete pointer
// events and is not safe for concurrent use.
type Controller struct {
	state  State
	handle Handle
	rect   Rect
	last   Point
	mapper CoordMapper
}

// NewController returns an idle controller. A nil mapper means pointer
// coordinates are already image coordinates.
func NewController(mapper CoordMapper) *Controller {
	c := &Controller{}
	c.SetMapper(mapper)
	return c
}

// SetMapper replaces the viewport to image coordinate mapping.
func (c *Controller) SetMapper(mapper CoordMapper) {
	if mapper == nil {
		mapper = Identity
	}
	c.mapper = mapper
}

func (c *Controller) State() State   { return c.state }
func (c *Controller) Rect() Rect     { return c.rect }
func (c *Controller) Handle() Handle { return c.handle }

// Cropping reports whether a crop rectangle is on screen.
func (c *Controller) Cropping() bool {
	return c.state != Idle
}

// Start shows a rectangle covering the middle quarter of a width x height
// image. Calling it again re-centres the rectangle.
func (c *Controller) Start(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", pixel.ErrInvalidDimension, width, height)
	}
	c.rect = Rect{
		X:      float64(width) / 4,
		Y:      float64(height) / 4,
		Width:  float64(width) / 2,
		Height: float64(height) / 2,
	}
	c.handle = NoHandle
	c.state = Active
	return nil
}

// SetRect places the rectangle directly, for callers that already know the
// region they want. It requires an active crop.
func (c *Controller) SetRect(r Rect) error {
	if c.state != Active {
		return ErrNotActive
	}
	c.rect = r
	return nil
}

// HandleAt returns the corner within tolerance of p (image coordinates),
// checking tl, tr, bl, br in that order.
func (c *Controller) HandleAt(p Point) Handle {
	for _, h := range handleOrder {
		corner := c.rect.Corner(h)
		if math.Abs(p.X-corner.X) < HandleTolerance && math.Abs(p.Y-corner.Y) < HandleTolerance {
			return h
		}
	}
	return NoHandle
}

// PointerDown starts a resize when a corner is hit, a drag when the
// interior is hit, and otherwise leaves the controller Active. It is
// ignored unless the controller is Active, so a second press during a
// gesture has no effect.
func (c *Controller) PointerDown(viewport Point) State {
	if c.state != Active {
		return c.state
	}
	p := c.mapper(viewport)
	if h := c.HandleAt(p); h != NoHandle {
		c.state = Resizing
		c.handle = h
		c.last = p
	} else if c.rect.Contains(p) {
		c.state = Dragging
		c.last = p
	}
	return c.state
}

// PointerMove translates or resizes the rectangle and reports whether it
// changed. The rectangle is not normalized here; a handle pulled past the
// opposite edge yields a negative extent until Commit.
func (c *Controller) PointerMove(viewport Point) bool {
	p := c.mapper(viewport)
	switch c.state {
	case Dragging:
		c.rect.X += p.X - c.last.X
		c.rect.Y += p.Y - c.last.Y
		c.last = p
		return true
	case Resizing:
		c.resize(p)
		c.last = p
		return true
	default:
		return false
	}
}

// resize moves the grabbed corner to p, keeping the opposite corner fixed.
func (c *Controller) resize(p Point) {
	r := &c.rect
	switch c.handle {
	case TopLeft:
		r.Width += r.X - p.X
		r.Height += r.Y - p.Y
		r.X, r.Y = p.X, p.Y
	case TopRight:
		r.Width = p.X - r.X
		r.Height += r.Y - p.Y
		r.Y = p.Y
	case BottomLeft:
		r.Width += r.X - p.X
		r.Height = p.Y - r.Y
		r.X = p.X
	case BottomRight:
		r.Width = p.X - r.X
		r.Height = p.Y - r.Y
	}
}

// PointerUp ends a drag or resize.
func (c *Controller) PointerUp() {
	if c.state == Dragging || c.state == Resizing {
		c.state = Active
	}
	c.handle = NoHandle
}

// Cursor returns the cursor hint for a pointer hovering at viewport.
func (c *Controller) Cursor(viewport Point) string {
	switch c.state {
	case Dragging:
		return "move"
	case Resizing:
		return c.handle.Cursor()
	case Active:
		return c.HandleAt(c.mapper(viewport)).Cursor()
	default:
		return "default"
	}
}

// Cancel drops the rectangle and returns to Idle.
func (c *Controller) Cancel() {
	c.state = Idle
	c.handle = NoHandle
	c.rect = Rect{}
}

// Commit returns the normalized pixel region clamped to a width x height
// image and returns to Idle. A region with no area wraps
// pixel.ErrDegenerateCrop and leaves the controller Active, as does calling
// it outside the Active state with ErrNotActive.
func (c *Controller) Commit(width, height int) (image.Rectangle, error) {
	if c.state != Active {
		return image.Rectangle{}, ErrNotActive
	}
	region := c.rect.Region(width, height)
	if region.Dx() <= 0 || region.Dy() <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %v", pixel.ErrDegenerateCrop, c.rect)
	}
	c.Cancel()
	return region, nil
}

package crop

import (
	"errors"
	"image"
	"testing"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func started(t *testing.T, w, h int) *Controller {
	t.Helper()
	c := NewController(nil)
	require.NoError(t, c.Start(w, h))
	return c
}

func TestStart(t *testing.T) {
	c := started(t, 100, 100)
	assert.Equal(t, Active, c.State())
	assert.Equal(t, Rect{X: 25, Y: 25, Width: 50, Height: 50}, c.Rect())

	c = started(t, 101, 7)
	assert.Equal(t, Rect{X: 25.25, Y: 1.75, Width: 50.5, Height: 3.5}, c.Rect())

	err := NewController(nil).Start(0, 10)
	assert.ErrorIs(t, err, pixel.ErrInvalidDimension)
}

func TestResizeBottomRight(t *testing.T) {
	c := started(t, 100, 100)
	assert.Equal(t, Resizing, c.PointerDown(Point{75, 75}))
	assert.Equal(t, BottomRight, c.Handle())

	assert.True(t, c.PointerMove(Point{90, 90}))
	assert.Equal(t, Rect{X: 25, Y: 25, Width: 65, Height: 65}, c.Rect())

	c.PointerUp()
	assert.Equal(t, Active, c.State())
	assert.Equal(t, NoHandle, c.Handle())
}

func TestResizeKeepsOppositeCorner(t *testing.T) {
	cases := []struct {
		handle   Handle
		grab     Point
		to       Point
		expected Rect
	}{
		{TopLeft, Point{25, 25}, Point{10, 20}, Rect{X: 10, Y: 20, Width: 65, Height: 55}},
		{TopRight, Point{75, 25}, Point{80, 30}, Rect{X: 25, Y: 30, Width: 55, Height: 45}},
		{BottomLeft, Point{25, 75}, Point{30, 95}, Rect{X: 30, Y: 25, Width: 45, Height: 70}},
		{BottomRight, Point{75, 75}, Point{60, 70}, Rect{X: 25, Y: 25, Width: 35, Height: 45}},
	}
	for _, tc := range cases {
		t.Run(tc.handle.String(), func(t *testing.T) {
			c := started(t, 100, 100)
			require.Equal(t, Resizing, c.PointerDown(tc.grab))
			require.Equal(t, tc.handle, c.Handle())
			c.PointerMove(tc.to)
			assert.Equal(t, tc.expected, c.Rect())
		})
	}
}

func TestResizePastOppositeEdgeGoesNegative(t *testing.T) {
	c := started(t, 100, 100)
	c.PointerDown(Point{75, 75})
	c.PointerMove(Point{10, 15})
	assert.Equal(t, Rect{X: 25, Y: 25, Width: -15, Height: -10}, c.Rect())
	c.PointerUp()

	assert.Equal(t, Rect{X: 10, Y: 15, Width: 15, Height: 10}, c.Rect().Normalize())
	region, err := c.Commit(100, 100)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 15, 25, 25), region)
	assert.Equal(t, Idle, c.State())
}

func TestDrag(t *testing.T) {
	c := started(t, 100, 100)
	assert.Equal(t, Dragging, c.PointerDown(Point{50, 50}))
	c.PointerMove(Point{55, 45})
	c.PointerMove(Point{60, 48})
	assert.Equal(t, Rect{X: 35, Y: 23, Width: 50, Height: 50}, c.Rect())

	c.PointerUp()
	assert.Equal(t, Active, c.State())
	assert.False(t, c.PointerMove(Point{0, 0}))
	assert.Equal(t, Rect{X: 35, Y: 23, Width: 50, Height: 50}, c.Rect())
}

func TestPointerDownOutsideStaysActive(t *testing.T) {
	c := started(t, 100, 100)
	assert.Equal(t, Active, c.PointerDown(Point{5, 5}))
	// The border itself is not interior.
	assert.Equal(t, Active, c.PointerDown(Point{50, 25}))
	assert.Equal(t, Active, c.PointerDown(Point{25, 50}))
}

func TestPointerDownIgnoredDuringGesture(t *testing.T) {
	c := started(t, 100, 100)
	require.Equal(t, Dragging, c.PointerDown(Point{50, 50}))
	assert.Equal(t, Dragging, c.PointerDown(Point{75, 75}))
	assert.Equal(t, NoHandle, c.Handle())

	c.PointerMove(Point{51, 50})
	assert.Equal(t, 26.0, c.Rect().X)
}

func TestPointerEventsIgnoredWhenIdle(t *testing.T) {
	c := NewController(nil)
	assert.Equal(t, Idle, c.PointerDown(Point{1, 1}))
	assert.False(t, c.PointerMove(Point{2, 2}))
	c.PointerUp()
	assert.Equal(t, Idle, c.State())
}

func TestHandlePriority(t *testing.T) {
	c := started(t, 100, 100)
	// On a 4x4 square the tolerance zones of all four corners overlap.
	require.NoError(t, c.SetRect(Rect{X: 40, Y: 40, Width: 4, Height: 4}))
	assert.Equal(t, TopLeft, c.HandleAt(Point{42, 42}))
	assert.Equal(t, TopRight, c.HandleAt(Point{50, 38}))
	assert.Equal(t, BottomLeft, c.HandleAt(Point{34, 50}))
	assert.Equal(t, BottomRight, c.HandleAt(Point{50, 50}))
	assert.Equal(t, NoHandle, c.HandleAt(Point{60, 60}))
}

func TestHandleToleranceIsExclusive(t *testing.T) {
	c := started(t, 100, 100)
	assert.Equal(t, TopLeft, c.HandleAt(Point{25 + 7.9, 25}))
	assert.Equal(t, NoHandle, c.HandleAt(Point{25 + 8, 25}))
}

func TestCommitDegenerate(t *testing.T) {
	c := started(t, 100, 100)
	require.NoError(t, c.SetRect(Rect{X: 30, Y: 30, Width: 0, Height: 20}))

	_, err := c.Commit(100, 100)
	assert.True(t, errors.Is(err, pixel.ErrDegenerateCrop))
	assert.Equal(t, Active, c.State())
	assert.Equal(t, Rect{X: 30, Y: 30, Width: 0, Height: 20}, c.Rect())

	// Entirely outside the image clamps to nothing.
	require.NoError(t, c.SetRect(Rect{X: 150, Y: 10, Width: 20, Height: 20}))
	_, err = c.Commit(100, 100)
	assert.ErrorIs(t, err, pixel.ErrDegenerateCrop)
}

func TestCommitClampsToImage(t *testing.T) {
	c := started(t, 100, 80)
	require.NoError(t, c.SetRect(Rect{X: -10, Y: 60.4, Width: 50, Height: 40}))
	region, err := c.Commit(100, 80)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 60, 40, 80), region)
}

func TestCommitClampsToCurrentBounds(t *testing.T) {
	c := started(t, 100, 100)
	require.NoError(t, c.SetRect(Rect{X: 60, Y: 60, Width: 30, Height: 30}))

	_, err := c.Commit(50, 50)
	assert.ErrorIs(t, err, pixel.ErrDegenerateCrop)

	require.NoError(t, c.SetRect(Rect{X: 0, Y: 0, Width: 200, Height: 200}))
	region, err := c.Commit(150, 120)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 150, 120), region)
}

func TestCommitRequiresActive(t *testing.T) {
	c := NewController(nil)
	_, err := c.Commit(100, 100)
	assert.ErrorIs(t, err, ErrNotActive)

	c = started(t, 100, 100)
	c.PointerDown(Point{50, 50})
	_, err = c.Commit(100, 100)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.Equal(t, Dragging, c.State())
}

func TestCancel(t *testing.T) {
	c := started(t, 100, 100)
	c.PointerDown(Point{75, 75})
	c.Cancel()
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Cropping())
	assert.Equal(t, Rect{}, c.Rect())
}

func TestViewportMapper(t *testing.T) {
	// Image is 200x200 but shown at 100x100.
	c := NewController(ViewportMapper(100, 100, 200, 200))
	require.NoError(t, c.Start(200, 200))
	assert.Equal(t, Rect{X: 50, Y: 50, Width: 100, Height: 100}, c.Rect())

	assert.Equal(t, Resizing, c.PointerDown(Point{75, 75}))
	assert.Equal(t, BottomRight, c.Handle())
	c.PointerMove(Point{80, 80})
	assert.Equal(t, Rect{X: 50, Y: 50, Width: 110, Height: 110}, c.Rect())

	assert.Equal(t, Point{3, 4}, ViewportMapper(0, 10, 5, 5)(Point{3, 4}))
}

func TestCursor(t *testing.T) {
	c := NewController(nil)
	assert.Equal(t, "default", c.Cursor(Point{}))

	require.NoError(t, c.Start(100, 100))
	assert.Equal(t, "nwse-resize", c.Cursor(Point{25, 25}))
	assert.Equal(t, "nesw-resize", c.Cursor(Point{75, 25}))
	assert.Equal(t, "crosshair", c.Cursor(Point{50, 50}))

	c.PointerDown(Point{50, 50})
	assert.Equal(t, "move", c.Cursor(Point{0, 0}))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "resizing", Resizing.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.Equal(t, "br", BottomRight.String())
}

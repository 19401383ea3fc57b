package filter

import (
	"image/color"
	"testing"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvolveIdentity(t *testing.T) {
	for _, size := range []int{3, 5, 7} {
		k, err := IdentityKernel(size)
		require.NoError(t, err)

		b := randomBuffer(t, 9, 4, int64(size))
		out, err := Convolve(b, k)
		require.NoError(t, err)
		assert.True(t, b.Equal(out), "size %d", size)
	}
}

func TestConvolveUniformIsStable(t *testing.T) {
	c := color.NRGBA{R: 90, G: 180, B: 45, A: 200}
	b := uniformBuffer(t, 5, 5, c)

	// Edge clamping means a flat image stays flat under a normalized kernel,
	// including at the borders.
	out, err := Convolve(b, BlurKernel())
	require.NoError(t, err)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, c, out.At(x, y))
		}
	}

	out, err = Convolve(b, SharpenKernel())
	require.NoError(t, err)
	assert.Equal(t, c, out.At(0, 0))
	assert.Equal(t, c, out.At(4, 4))
}

func TestConvolveEdgeClamp(t *testing.T) {
	// A single bright column at x=0 on a 3x1 strip.
	b := pixel.MustNew(3, 1)
	b.Set(0, 0, color.NRGBA{R: 160, A: 255})
	b.Set(1, 0, color.NRGBA{A: 255})
	b.Set(2, 0, color.NRGBA{A: 255})

	out, err := Convolve(b, BlurKernel())
	require.NoError(t, err)

	// Rows above and below clamp to row 0, so only column weights matter:
	// 4/16, 8/16, 4/16. At x=0 the left column clamps to x=0: 40 + 80 + 0.
	assert.Equal(t, uint8(120), out.At(0, 0).R)
	// x=1: (160*1 + 0*2 + 0*1)/4 = 40
	assert.Equal(t, uint8(40), out.At(1, 0).R)
	assert.Equal(t, uint8(0), out.At(2, 0).R)
	assert.Equal(t, uint8(255), out.At(1, 0).A)
}

func TestConvolveRoundsAndClamps(t *testing.T) {
	b := pixel.MustNew(3, 3)
	b.Fill(color.NRGBA{R: 10, G: 250, A: 255})
	b.Set(1, 1, color.NRGBA{R: 11, G: 0, B: 3, A: 255})

	out, err := Convolve(b, SharpenKernel())
	require.NoError(t, err)
	centre := out.At(1, 1)
	// 5*11 - 4*10 = 15
	assert.Equal(t, uint8(15), centre.R)
	// 5*0 - 4*250 clamps to 0
	assert.Equal(t, uint8(0), centre.G)
	// 5*3 - 0 = 15
	assert.Equal(t, uint8(15), centre.B)
	// neighbour (0,1): 5*250 - (250+250+0+250) = 500 clamps to 255
	assert.Equal(t, uint8(255), out.At(0, 1).G)

	blur, err := NewKernel(3, 0, 0, 0, 0, 0.5, 0.5, 0, 0, 0)
	require.NoError(t, err)
	half := pixel.MustNew(2, 1)
	half.Set(0, 0, color.NRGBA{R: 1})
	half.Set(1, 0, color.NRGBA{R: 2})
	out, err = Convolve(half, blur)
	require.NoError(t, err)
	// 0.5*1 + 0.5*2 = 1.5 rounds to 2
	assert.Equal(t, uint8(2), out.At(0, 0).R)
}

func TestKernelPreconditions(t *testing.T) {
	for _, tc := range []struct {
		name    string
		size    int
		weights int
	}{
		{"even size", 4, 16},
		{"too small", 1, 1},
		{"weight count", 3, 8},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewKernel(tc.size, make([]float64, tc.weights)...)
			assert.ErrorIs(t, err, pixel.ErrPrecondition)
		})
	}

	_, err := Convolve(pixel.MustNew(1, 1), Kernel{})
	assert.ErrorIs(t, err, pixel.ErrPrecondition)

	_, err = IdentityKernel(2)
	assert.ErrorIs(t, err, pixel.ErrPrecondition)
}

func TestPredefinedKernels(t *testing.T) {
	blur := BlurKernel()
	sum := 0.0
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			sum += blur.At(x, y)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Equal(t, 0.25, blur.At(1, 1))
	assert.Equal(t, 5.0, SharpenKernel().At(1, 1))
	assert.Equal(t, -1.0, SharpenKernel().At(1, 0))
	assert.Equal(t, 3, EdgeKernel().Size())
}

package filter

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBuffer(t *testing.T, w, h int, seed int64) *pixel.Buffer {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	b, err := pixel.New(w, h)
	require.NoError(t, err)
	for i := range b.Samples() {
		b.Samples()[i] = uint8(rnd.Intn(256))
	}
	return b
}

func uniformBuffer(t *testing.T, w, h int, c color.NRGBA) *pixel.Buffer {
	t.Helper()
	b, err := pixel.New(w, h)
	require.NoError(t, err)
	b.Fill(c)
	return b
}

func TestInvertIsSelfInverse(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		b := randomBuffer(t, 7, 5, seed)
		once, err := Apply(b, Invert, Params{})
		require.NoError(t, err)
		twice, err := Apply(once, Invert, Params{})
		require.NoError(t, err)
		assert.True(t, b.Equal(twice))
		assert.False(t, b.Equal(once))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	b := randomBuffer(t, 6, 6, 42)
	before := b.Clone()
	params := DefaultParams()
	params.Rand = rand.New(rand.NewSource(1))
	params.Original = before

	for _, op := range Ops() {
		t.Run(op.String(), func(t *testing.T) {
			out, err := Apply(b, op, params)
			require.NoError(t, err)
			assert.Equal(t, b.Bounds(), out.Bounds())
			assert.True(t, before.Equal(b), "input modified by %v", op)
		})
	}
}

func TestGrayscale(t *testing.T) {
	b := uniformBuffer(t, 2, 2, color.NRGBA{R: 10, G: 20, B: 31, A: 99})
	out, err := Apply(b, Grayscale, Params{})
	require.NoError(t, err)
	// (10+20+31)/3 = 20.33
	assert.Equal(t, color.NRGBA{R: 20, G: 20, B: 20, A: 99}, out.At(1, 1))

	b = uniformBuffer(t, 1, 1, color.NRGBA{R: 1, G: 1, B: 2, A: 255})
	out, err = Apply(b, Grayscale, Params{})
	require.NoError(t, err)
	// 4/3 = 1.33 rounds down, 5/3 would round up
	assert.Equal(t, uint8(1), out.At(0, 0).R)
}

func TestSepia(t *testing.T) {
	b := uniformBuffer(t, 1, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	out, err := Apply(b, Sepia, Params{})
	require.NoError(t, err)
	// r' = 135.1, g' = 120.3, b' = 93.7
	assert.Equal(t, color.NRGBA{R: 135, G: 120, B: 94, A: 255}, out.At(0, 0))

	b = uniformBuffer(t, 1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out, err = Apply(b, Sepia, Params{})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 239, A: 255}, out.At(0, 0))
}

func TestEnhance(t *testing.T) {
	b := uniformBuffer(t, 1, 1, color.NRGBA{R: 0, G: 100, B: 240, A: 7})
	out, err := Apply(b, Enhance, Params{})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 120, B: 255, A: 7}, out.At(0, 0))
}

func TestBrightnessClampIsLossy(t *testing.T) {
	up := Params{Delta: 50}
	down := Params{Delta: -50}

	t.Run("no clamping is reversible", func(t *testing.T) {
		b := uniformBuffer(t, 1, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
		out, err := Pipeline(b, Step{Brightness, up}, Step{Brightness, down})
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, out.At(0, 0))
	})

	t.Run("clamp at 255 loses information", func(t *testing.T) {
		b := uniformBuffer(t, 1, 1, color.NRGBA{R: 240, G: 240, B: 240, A: 255})
		brighter, err := Apply(b, Brightness, up)
		require.NoError(t, err)
		assert.Equal(t, uint8(255), brighter.At(0, 0).R)

		back, err := Apply(brighter, Brightness, down)
		require.NoError(t, err)
		assert.Equal(t, uint8(205), back.At(0, 0).R)
	})

	t.Run("alpha untouched", func(t *testing.T) {
		b := uniformBuffer(t, 1, 1, color.NRGBA{R: 10, A: 10})
		out, err := Apply(b, Brightness, Params{Delta: -100})
		require.NoError(t, err)
		assert.Equal(t, color.NRGBA{A: 10}, out.At(0, 0))
	})
}

func TestNoise(t *testing.T) {
	b := randomBuffer(t, 8, 8, 9)

	t.Run("same seed same output", func(t *testing.T) {
		p1 := Params{Amplitude: 50, Rand: rand.New(rand.NewSource(7))}
		p2 := Params{Amplitude: 50, Rand: rand.New(rand.NewSource(7))}
		out1, err := Apply(b, Noise, p1)
		require.NoError(t, err)
		out2, err := Apply(b, Noise, p2)
		require.NoError(t, err)
		assert.True(t, out1.Equal(out2))
	})

	t.Run("offsets stay within half amplitude", func(t *testing.T) {
		out, err := Apply(b, Noise, Params{Amplitude: 20, Rand: rand.New(rand.NewSource(3))})
		require.NoError(t, err)
		for i, v := range out.Samples() {
			diff := int(v) - int(b.Samples()[i])
			if i%4 == 3 {
				assert.Zero(t, diff, "alpha changed at %d", i)
				continue
			}
			assert.LessOrEqual(t, diff, 10)
			assert.GreaterOrEqual(t, diff, -10)
		}
	})

	t.Run("exact value for a fixed source", func(t *testing.T) {
		one := uniformBuffer(t, 1, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
		out, err := Apply(one, Noise, Params{Amplitude: 50, Rand: constSource(0.9)})
		require.NoError(t, err)
		// 100 + 0.9*50 - 25 = 120
		assert.Equal(t, color.NRGBA{R: 120, G: 120, B: 120, A: 255}, out.At(0, 0))
	})

	t.Run("requires a source", func(t *testing.T) {
		_, err := Apply(b, Noise, Params{Amplitude: 50})
		assert.ErrorIs(t, err, pixel.ErrPrecondition)
	})
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestPixelate(t *testing.T) {
	t.Run("one color per tile", func(t *testing.T) {
		b := randomBuffer(t, 20, 20, 11)
		out, err := Apply(b, Pixelate, Params{BlockSize: 10})
		require.NoError(t, err)

		distinct := map[color.NRGBA]struct{}{}
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				c := out.At(x, y)
				distinct[c] = struct{}{}
				assert.Equal(t, b.At(x/10*10, y/10*10), c, "pixel (%d,%d)", x, y)
			}
		}
		assert.Len(t, distinct, 4)
	})

	t.Run("edge tiles are truncated", func(t *testing.T) {
		b := randomBuffer(t, 13, 7, 12)
		out, err := Apply(b, Pixelate, Params{BlockSize: 5})
		require.NoError(t, err)
		assert.Equal(t, b.At(10, 5), out.At(12, 6))
		assert.Equal(t, b.At(10, 0), out.At(12, 4))
		assert.Equal(t, b.At(5, 5), out.At(9, 6))
	})

	t.Run("invalid block size", func(t *testing.T) {
		_, err := Apply(randomBuffer(t, 2, 2, 1), Pixelate, Params{BlockSize: 0})
		assert.ErrorIs(t, err, pixel.ErrPrecondition)
	})
}

func TestReset(t *testing.T) {
	original := randomBuffer(t, 3, 3, 5)
	edited := randomBuffer(t, 2, 2, 6)

	out, err := Apply(edited, Reset, Params{Original: original})
	require.NoError(t, err)
	assert.True(t, original.Equal(out))
	assert.NotSame(t, original, out)

	_, err = Apply(edited, Reset, Params{})
	assert.ErrorIs(t, err, pixel.ErrPrecondition)
}

func TestApplyUnknownOp(t *testing.T) {
	_, err := Apply(randomBuffer(t, 1, 1, 1), Op(99), Params{})
	assert.ErrorIs(t, err, pixel.ErrPrecondition)

	_, err = Apply(nil, Invert, Params{})
	assert.ErrorIs(t, err, pixel.ErrPrecondition)
}

func TestParseOp(t *testing.T) {
	for _, op := range Ops() {
		parsed, err := ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	op, err := ParseOp(" AI-Enhance ")
	require.NoError(t, err)
	assert.Equal(t, Enhance, op)

	_, err = ParseOp("posterize")
	assert.ErrorIs(t, err, pixel.ErrPrecondition)

	var decoded Op
	require.NoError(t, decoded.UnmarshalText([]byte("sharpen")))
	assert.Equal(t, Sharpen, decoded)
	assert.Equal(t, "Op(42)", Op(42).String())
}

func TestPipelineStopsOnError(t *testing.T) {
	b := randomBuffer(t, 4, 4, 2)
	out, err := Pipeline(b, Step{Op: Invert}, Step{Op: Pixelate, Params: Params{BlockSize: -1}}, Step{Op: Invert})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, pixel.ErrPrecondition)
	assert.Contains(t, err.Error(), "stage 1 (pixelate(-1))")
}

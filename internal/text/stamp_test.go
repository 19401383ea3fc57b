package text

import (
	"image/color"
	"testing"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func white(w, h int) *pixel.Buffer {
	b := pixel.MustNew(w, h)
	b.Fill(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return b
}

func inkBounds(b *pixel.Buffer) (minX, minY, maxX, maxY int, found bool) {
	minX, minY = b.Width(), b.Height()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.At(x, y).R < 128 {
				found = true
				minX, minY = min(minX, x), min(minY, y)
				maxX, maxY = max(maxX, x), max(maxY, y)
			}
		}
	}
	return
}

func TestStampCentresOnBaseline(t *testing.T) {
	buf := white(200, 100)
	out, err := Stamp(buf, "HH", Options{Color: "#000"})
	require.NoError(t, err)

	minX, minY, maxX, maxY, found := inkBounds(out)
	require.True(t, found)
	// Capital letters sit on the baseline at y=50 and rise above it.
	assert.LessOrEqual(t, maxY, 50)
	assert.Less(t, minY, 50)
	assert.Greater(t, minY, 20)
	// Horizontally centred to within a couple of pixels of side bearing.
	assert.InDelta(t, 100, float64(minX+maxX)/2, 3)

	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, buf.At(100, 45), "input untouched")
}

func TestStampFamiliesAndSizes(t *testing.T) {
	buf := white(120, 60)
	for _, family := range []string{"", "sans", "bold", "italic", "mono", "Courier New", "unknown"} {
		out, err := Stamp(buf, "Go", Options{Family: family, Size: 20, Color: "navy"})
		require.NoError(t, err, family)
		_, _, _, _, found := inkBounds(out)
		assert.True(t, found, family)
	}

	_, err := Stamp(buf, "x", Options{Size: -1})
	assert.ErrorIs(t, err, pixel.ErrPrecondition)
}

func TestStampBadColor(t *testing.T) {
	_, err := Stamp(white(10, 10), "x", Options{Color: "#12"})
	assert.ErrorIs(t, err, pixel.ErrPrecondition)
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"":        {A: 255},
		"#ff8000": {R: 255, G: 128, A: 255},
		"FF8000":  {R: 255, G: 128, A: 255},
		"#0f0":    {G: 255, A: 255},
		"Red":     {R: 255, A: 255},
		"tomato":  {R: 255, G: 99, B: 71, A: 255},
	}
	for in, expected := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got, in)
	}

	for _, bad := range []string{"#gggggg", "#12345", "notacolor"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, pixel.ErrPrecondition, bad)
	}
}

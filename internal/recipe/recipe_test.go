package recipe

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vintage = `
name: vintage
steps:
  - op: sepia
  - op: brightness
    delta: -20
  - op: noise
    amplitude: 30
    seed: 42
  - op: crop
    rect: {x: 5, y: 5, width: 10, height: 8}
  - op: text
    text: Hi
    color: "#ffcc00"
    size: 6
`

func uniform(w, h int, c color.NRGBA) *pixel.Buffer {
	buf := pixel.MustNew(w, h)
	buf.Fill(c)
	return buf
}

func TestParse(t *testing.T) {
	rec, err := Parse(strings.NewReader(vintage))
	require.NoError(t, err)

	assert.Equal(t, "vintage", rec.Name)
	require.Len(t, rec.Steps, 5)
	assert.Equal(t, -20, *rec.Steps[1].Delta)
	assert.Equal(t, uint64(42), *rec.Steps[2].Seed)
	assert.Equal(t, 10.0, rec.Steps[3].Rect.Width)
	assert.Equal(t, "#ffcc00", rec.Steps[4].Font.Color)
	assert.Equal(t, 6.0, rec.Steps[4].Font.Size)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no steps", "name: nothing\n"},
		{"unknown op", "steps:\n  - op: solarize\n"},
		{"unknown key", "steps:\n  - op: blur\n    radius: 3\n"},
		{"crop without rect", "steps:\n  - op: crop\n"},
		{"text without text", "steps:\n  - op: text\n"},
		{"bad color", "steps:\n  - op: text\n    text: x\n    color: nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, pixel.ErrPrecondition)
		})
	}
}

func TestApplyIsDeterministicWithSeed(t *testing.T) {
	rec, err := Parse(strings.NewReader(vintage))
	require.NoError(t, err)
	in := uniform(20, 20, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	a, err := rec.Apply(in)
	require.NoError(t, err)
	b, err := rec.Apply(in)
	require.NoError(t, err)

	assert.Equal(t, 10, a.Width())
	assert.Equal(t, 8, a.Height())
	assert.True(t, a.Equal(b))
	assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, in.At(0, 0), "input untouched")
}

func TestApplyDefaults(t *testing.T) {
	rec := &Recipe{Name: "bright", Steps: []Step{{Op: "brightness"}}}
	out, err := rec.Apply(uniform(2, 2, color.NRGBA{R: 10, A: 255}))
	require.NoError(t, err)
	assert.Equal(t, uint8(60), out.At(0, 0).R)
}

func TestApplyReset(t *testing.T) {
	rec := &Recipe{Name: "undo-all", Steps: []Step{{Op: "invert"}, {Op: "reset"}}}
	in := uniform(3, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	out, err := rec.Apply(in)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestDegenerateCropStepIsSkipped(t *testing.T) {
	rec, err := Parse(strings.NewReader("steps:\n  - op: crop\n    rect: {x: 1, y: 1, width: 0, height: 5}\n"))
	require.NoError(t, err)
	in := uniform(4, 4, color.NRGBA{A: 255})

	out, err := rec.Apply(in)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.NotSame(t, in, out)
}

func TestApplyReportsFailingStage(t *testing.T) {
	rec := &Recipe{Name: "bad", Steps: []Step{{Op: "pixelate", BlockSize: new(int)}}}
	_, err := rec.Apply(uniform(2, 2, color.NRGBA{}))
	require.ErrorIs(t, err, pixel.ErrPrecondition)
	assert.Contains(t, err.Error(), `recipe "bad": stage 0`)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vintage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(vintage), 0o644))

	rec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vintage", rec.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

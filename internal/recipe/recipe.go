// Package recipe reads named edit sequences from YAML so they can be
// replayed over many images.
package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rm-hull/photo-editor/internal/crop"
	"github.com/rm-hull/photo-editor/internal/filter"
	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/rm-hull/photo-editor/internal/text"
	"gopkg.in/yaml.v3"
)

const (
	opCrop     = "crop"
	opText     = "text"
	opResize   = "resize"
	opGaussian = "gaussian"
	opKnockout = "knockout"
)

// Recipe is an ordered list of edits.
//
//	name: vintage
//	steps:
//	  - op: sepia
//	  - op: brightness
//	    delta: -20
//	  - op: noise
//	    amplitude: 30
//	    seed: 42
//	  - op: crop
//	    rect: {x: 10, y: 10, width: 200, height: 150}
//	  - op: text
//	    text: Hello
//	    color: "#ffcc00"
//	  - op: resize
//	    width: 100
//	    height: 75
//	  - op: gaussian
//	    sigma: 1.5
//	  - op: knockout
//	    color: white
//	    tolerance: 50
type Recipe struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one edit. Only the fields its op uses are read; anything left out
// takes the editor default.
type Step struct {
	Op        string       `yaml:"op"`
	Delta     *int         `yaml:"delta,omitempty"`
	Amplitude *float64     `yaml:"amplitude,omitempty"`
	BlockSize *int         `yaml:"block_size,omitempty"`
	Seed      *uint64      `yaml:"seed,omitempty"`
	Rect      *crop.Rect   `yaml:"rect,omitempty"`
	Text      string       `yaml:"text,omitempty"`
	Font      text.Options `yaml:",inline"`
	Width     int          `yaml:"width,omitempty"`
	Height    int          `yaml:"height,omitempty"`
	Sigma     float64      `yaml:"sigma,omitempty"`
	Tolerance float64      `yaml:"tolerance,omitempty"`
}

// Parse decodes and validates a recipe. Unknown keys are rejected.
func Parse(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rec Recipe
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty recipe", pixel.ErrPrecondition)
		}
		return nil, fmt.Errorf("%w: parse recipe: %v", pixel.ErrPrecondition, err)
	}
	return &rec, rec.Validate()
}

// Load reads a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe %s: %w", path, err)
	}
	rec, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", path, err)
	}
	return rec, nil
}

// Validate checks every step names a known op with usable arguments.
func (r *Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: recipe %q has no steps", pixel.ErrPrecondition, r.Name)
	}
	for i, s := range r.Steps {
		switch s.Op {
		case opCrop:
			if s.Rect == nil {
				return fmt.Errorf("%w: step[%d]: crop needs a rect", pixel.ErrPrecondition, i)
			}
		case opText:
			if s.Text == "" {
				return fmt.Errorf("%w: step[%d]: text is required", pixel.ErrPrecondition, i)
			}
			if _, err := text.ParseColor(s.Font.Color); err != nil {
				return fmt.Errorf("step[%d]: %w", i, err)
			}
		case opResize:
			if s.Width <= 0 || s.Height <= 0 {
				return fmt.Errorf("%w: step[%d]: resize to %dx%d", pixel.ErrInvalidDimension, i, s.Width, s.Height)
			}
		case opGaussian:
			if s.Sigma <= 0 {
				return fmt.Errorf("%w: step[%d]: gaussian sigma must be > 0", pixel.ErrPrecondition, i)
			}
		case opKnockout:
			if s.Tolerance <= 0 {
				return fmt.Errorf("%w: step[%d]: knockout tolerance must be > 0", pixel.ErrPrecondition, i)
			}
			if _, err := text.ParseColor(s.Font.Color); err != nil {
				return fmt.Errorf("step[%d]: %w", i, err)
			}
		default:
			if _, err := filter.ParseOp(s.Op); err != nil {
				return fmt.Errorf("step[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// Stages turns the recipe into pipeline stages. original is what a reset
// step restores.
func (r *Recipe) Stages(original *pixel.Buffer) ([]filter.Stage, error) {
	stages := make([]filter.Stage, 0, len(r.Steps))
	for i, s := range r.Steps {
		switch s.Op {
		case opCrop:
			stages = append(stages, cropStage{rect: *s.Rect})
		case opText:
			stages = append(stages, textStage{text: s.Text, opts: s.Font})
		case opResize:
			stages = append(stages, resizeStage{width: s.Width, height: s.Height})
		case opGaussian:
			stages = append(stages, gaussianStage{sigma: s.Sigma})
		case opKnockout:
			target, err := text.ParseColor(s.Font.Color)
			if err != nil {
				return nil, fmt.Errorf("step[%d]: %w", i, err)
			}
			stages = append(stages, knockoutStage{target: target, tolerance: s.Tolerance})
		default:
			op, err := filter.ParseOp(s.Op)
			if err != nil {
				return nil, fmt.Errorf("step[%d]: %w", i, err)
			}
			stages = append(stages, filter.Step{Op: op, Params: s.params(original)})
		}
	}
	return stages, nil
}

// Apply runs the recipe over buf, which is left untouched.
func (r *Recipe) Apply(buf *pixel.Buffer) (*pixel.Buffer, error) {
	stages, err := r.Stages(buf)
	if err != nil {
		return nil, err
	}
	out, err := filter.Pipeline(buf, stages...)
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
	}
	if out == buf {
		return buf.Clone(), nil
	}
	return out, nil
}

func (s Step) params(original *pixel.Buffer) filter.Params {
	p := filter.DefaultParams()
	if s.Delta != nil {
		p.Delta = *s.Delta
	}
	if s.Amplitude != nil {
		p.Amplitude = *s.Amplitude
	}
	if s.BlockSize != nil {
		p.BlockSize = *s.BlockSize
	}
	seed := uint64(time.Now().UnixNano())
	if s.Seed != nil {
		seed = *s.Seed
	}
	p.Rand = rand.New(rand.NewPCG(seed, seed))
	p.Original = original
	return p
}

// cropStage keeps a region of the image. A region with no area leaves the
// image as it was, matching the interactive crop.
type cropStage struct {
	rect crop.Rect
}

func (c cropStage) Process(buf *pixel.Buffer) (*pixel.Buffer, error) {
	region := c.rect.Region(buf.Width(), buf.Height())
	if region.Dx() <= 0 || region.Dy() <= 0 {
		return buf, nil
	}
	return buf.SubImage(region)
}

func (c cropStage) String() string {
	return fmt.Sprintf("crop(%v)", c.rect)
}

type textStage struct {
	text string
	opts text.Options
}

func (t textStage) Process(buf *pixel.Buffer) (*pixel.Buffer, error) {
	return text.Stamp(buf, t.text, t.opts)
}

func (t textStage) String() string {
	return fmt.Sprintf("text(%q)", t.text)
}

package filter

import (
	"fmt"

	"github.com/rm-hull/photo-editor/internal/pixel"
)

// Stage is one step of a processing pipeline. Implementations return a new
// buffer and leave their input alone.
type Stage interface {
	Process(buf *pixel.Buffer) (*pixel.Buffer, error)
}

// Step binds an Op to its parameters so it can be used as a Stage.
type Step struct {
	Op     Op
	Params Params
}

// Process implements Stage.
func (s Step) Process(buf *pixel.Buffer) (*pixel.Buffer, error) {
	return Apply(buf, s.Op, s.Params)
}

func (s Step) String() string {
	switch s.Op {
	case Brightness:
		return fmt.Sprintf("%s(%+d)", s.Op, s.Params.Delta)
	case Noise:
		return fmt.Sprintf("%s(%g)", s.Op, s.Params.Amplitude)
	case Pixelate:
		return fmt.Sprintf("%s(%d)", s.Op, s.Params.BlockSize)
	default:
		return s.Op.String()
	}
}

// Pipeline feeds buf through every stage in order. If any stage fails the
// error names it and no partial result is returned. With no stages buf itself
// is returned.
func Pipeline(buf *pixel.Buffer, stages ...Stage) (*pixel.Buffer, error) {
	current := buf
	for i, stage := range stages {
		next, err := stage.Process(current)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%v): %w", i, stage, err)
		}
		current = next
	}
	return current, nil
}

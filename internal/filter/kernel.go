package filter

import (
	"fmt"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

// Kernel is a square convolution matrix with an odd side of at least 3.
// The zero value is not usable; build one with NewKernel.
type Kernel struct {
	m *convolution.Kernel
}

// NewKernel builds a size x size kernel from row-major weights.
func NewKernel(size int, weights ...float64) (Kernel, error) {
	if size < 3 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("%w: kernel size %d must be odd and >= 3", pixel.ErrPrecondition, size)
	}
	if len(weights) != size*size {
		return Kernel{}, fmt.Errorf("%w: kernel of size %d needs %d weights, got %d",
			pixel.ErrPrecondition, size, size*size, len(weights))
	}
	m := convolution.NewKernel(size, size)
	copy(m.Matrix, weights)
	return Kernel{m: m}, nil
}

func mustKernel(size int, weights ...float64) Kernel {
	k, err := NewKernel(size, weights...)
	if err != nil {
		panic(err)
	}
	return k
}

// Size returns the side length of the kernel.
func (k Kernel) Size() int {
	if k.m == nil {
		return 0
	}
	return k.m.Width
}

// At returns the weight in column kx, row ky.
func (k Kernel) At(kx, ky int) float64 {
	return k.m.At(kx, ky)
}

func (k Kernel) String() string {
	if k.m == nil {
		return "<nil kernel>"
	}
	return k.m.String()
}

// BlurKernel is the normalized 3x3 Gaussian-like kernel [1 2 1; 2 4 2; 1 2 1] / 16.
func BlurKernel() Kernel {
	return mustKernel(3,
		1.0/16, 2.0/16, 1.0/16,
		2.0/16, 4.0/16, 2.0/16,
		1.0/16, 2.0/16, 1.0/16,
	)
}

// SharpenKernel is [0 -1 0; -1 5 -1; 0 -1 0].
func SharpenKernel() Kernel {
	return mustKernel(3,
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	)
}

// EdgeKernel is the 8-neighbour Laplacian used for edge detection.
func EdgeKernel() Kernel {
	return mustKernel(3,
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	)
}

// IdentityKernel has 1 at the centre and 0 elsewhere.
func IdentityKernel(size int) (Kernel, error) {
	if size < 3 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("%w: kernel size %d must be odd and >= 3", pixel.ErrPrecondition, size)
	}
	weights := make([]float64, size*size)
	weights[(size*size)/2] = 1
	return NewKernel(size, weights...)
}

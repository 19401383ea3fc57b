package pixel

import "errors"

var (
	// ErrInvalidDimension is returned when a width or height is zero or negative.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrPrecondition is returned for malformed input such as a bad kernel
	// or a sample slice whose length does not match the dimensions.
	ErrPrecondition = errors.New("precondition violation")

	// ErrEmptyHistory marks an undo/redo that had nothing to move to.
	ErrEmptyHistory = errors.New("empty history")

	// ErrDegenerateCrop marks a crop rectangle with no area after normalization.
	ErrDegenerateCrop = errors.New("degenerate crop")
)

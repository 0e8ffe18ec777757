package grid

import "errors"

// Errors returned by New. MustNew panics with them instead.
var (
	ErrInvalidResolution = errors.New("grid: resolution must be positive")
	ErrOddResolution     = errors.New("grid: resolution must be an even number")
)

// Panic values for broken contracts. These signal caller or logic errors and
// are not meant to be recovered from in normal operation; they are errors so
// tests can match them with errors.Is.
var (
	ErrEmptySet   = errors.New("grid: cannot pick from an empty CellCoordSet")
	ErrSetCorrupt = errors.New("grid: CellCoordSet index out of sync with items")
	ErrWarpNaN    = errors.New("grid: cube to sphere warp produced NaN")
)

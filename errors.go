package course

import "errors"

// Validation failures are terminal: the conversion is a one-shot batch
// transform, the first error aborts it and no partial output is produced.
var (
	// ErrOrdering reports two power-bearing samples at the same instant, or a
	// sample placed before the workout start.
	ErrOrdering = errors.New("conflicting sample ordering")

	// ErrMissingInitialPower reports that no power is resolvable at time
	// zero, leaving the step function undefined for the leading interval.
	ErrMissingInitialPower = errors.New("no power defined at workout start")

	// ErrInvalidParameter reports a non-positive raster, acceleration or
	// power scale.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyWorkout reports a sample table that yields no steps at all.
	ErrEmptyWorkout = errors.New("workout is empty")
)

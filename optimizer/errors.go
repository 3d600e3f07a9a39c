package optimizer

import "errors"

// Sentinel errors for optimizer construction and driving.
var (
	// ErrNilProblem indicates a nil Problem was passed to a driver.
	ErrNilProblem = errors.New("optimizer: problem must be non-nil")

	// ErrNilInitialPoint indicates a nil starting iterate was passed to a driver.
	ErrNilInitialPoint = errors.New("optimizer: initial point must be non-nil")

	// ErrInvalidOptions indicates an RTR/RGD option was out of its valid range.
	ErrInvalidOptions = errors.New("optimizer: invalid options")
)

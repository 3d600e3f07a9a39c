package robust

import "errors"

// ErrInvalidBarc2 indicates a non-positive inlier-threshold was supplied to
// NewCost.
var ErrInvalidBarc2 = errors.New("robust: barc2 must be positive")

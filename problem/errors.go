package problem

import "errors"

// Sentinel errors for quadratic-subproblem construction and evaluation.
var (
	// ErrShapeMismatch indicates Q, G, or X_N do not agree on pose block size.
	ErrShapeMismatch = errors.New("problem: Q/G/neighbor shape mismatch")

	// ErrNilMatrix indicates a required cost matrix was not supplied.
	ErrNilMatrix = errors.New("problem: Q must be non-nil")
)

package align

import "errors"

// Sentinel errors for frame-alignment candidate construction and averaging.
var (
	// ErrNoCandidates indicates averaging was attempted with an empty pool.
	ErrNoCandidates = errors.New("align: no candidates supplied")

	// ErrDimensionMismatch indicates candidates of inconsistent dimension d.
	ErrDimensionMismatch = errors.New("align: candidate dimension mismatch")
)

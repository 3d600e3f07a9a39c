package pose

import "errors"

// Sentinel errors for pose construction and validation.
var (
	// ErrDimension indicates d is outside the supported {2,3} range.
	ErrDimension = errors.New("pose: dimension must be 2 or 3")

	// ErrRankTooSmall indicates r < d for a lifted pose or array.
	ErrRankTooSmall = errors.New("pose: rank r must be >= d")

	// ErrBadShape indicates a matrix argument has the wrong number of rows/columns.
	ErrBadShape = errors.New("pose: matrix has unexpected shape")

	// ErrIndexOutOfRange indicates a pose index is outside [0, n).
	ErrIndexOutOfRange = errors.New("pose: index out of range")

	// ErrNotOrthonormal indicates a rotation/frame failed its orthonormality check.
	ErrNotOrthonormal = errors.New("pose: columns are not orthonormal")

	// ErrBadDeterminant indicates a rotation's determinant is not +1.
	ErrBadDeterminant = errors.New("pose: determinant is not +1")
)

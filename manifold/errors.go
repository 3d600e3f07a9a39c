package manifold

import "errors"

// Sentinel errors for manifold operations.
var (
	// ErrShapeMismatch indicates two operands passed to a manifold op
	// (e.g. Retract(X, Eta)) have different (r,d,n).
	ErrShapeMismatch = errors.New("manifold: shape mismatch between operands")

	// ErrSVDFailed indicates gonum's SVD factorization did not converge.
	ErrSVDFailed = errors.New("manifold: SVD factorization failed")

	// ErrQRFailed indicates gonum's QR factorization did not converge.
	ErrQRFailed = errors.New("manifold: QR factorization failed")
)

package agent

import "errors"

// Sentinel errors for agent precondition violations. These are programmer
// errors: callers that violate state-machine or configuration invariants
// get an explicit error rather than silently-corrupted state.
var (
	ErrWrongState            = errors.New("agent: operation not valid in current state")
	ErrLiftingMatrixNotSet   = errors.New("agent: lifting matrix must be set before initialization")
	ErrLiftingMatrixImmutable = errors.New("agent: lifting matrix is immutable until reset")
	ErrDimensionMismatch     = errors.New("agent: dimension mismatch")
	ErrNoPoses               = errors.New("agent: no poses in graph")
	ErrUnknownNeighbor       = errors.New("agent: unknown neighbor robot id")
	ErrGlobalAnchorNotSet    = errors.New("agent: global anchor not set")
	ErrAccelerationExecutorConflict = errors.New("agent: acceleration and the background executor are mutually exclusive")
)

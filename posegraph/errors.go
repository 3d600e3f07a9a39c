package posegraph

import "errors"

// Sentinel errors for pose-graph construction and measurement updates.
var (
	// ErrDimensionMismatch indicates a measurement's rotation/translation
	// shape does not match the graph's (r,d).
	ErrDimensionMismatch = errors.New("posegraph: measurement dimension mismatch")

	// ErrUnknownPose indicates a measurement references a pose this graph
	// does not own and that was not declared as a neighbor pose.
	ErrUnknownPose = errors.New("posegraph: unknown pose referenced by measurement")

	// ErrNoPoses indicates an operation that requires n >= 1 own poses was
	// attempted on an empty graph.
	ErrNoPoses = errors.New("posegraph: graph has no poses")

	// ErrDegenerateGraph indicates data-matrix construction failed because
	// the graph has no measurements to build a quadratic cost from.
	ErrDegenerateGraph = errors.New("posegraph: degenerate graph, cannot assemble cost matrices")

	// ErrBadWeight indicates a weight update outside [0,1].
	ErrBadWeight = errors.New("posegraph: weight must be in [0,1]")

	// ErrFixedWeight indicates an attempt to reweight a fixed-weight (e.g.
	// odometry) edge.
	ErrFixedWeight = errors.New("posegraph: cannot reweight a fixed-weight edge")
)

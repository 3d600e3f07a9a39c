// Package robust implements graduated non-convexity (GNC) reweighting: a
// Cost with an evolving scale mu that maps per-edge squared residuals to
// weights in [0,1], and the fixed-threshold reclassification of edges into
// accepted/rejected/undecided.
//
// The package holds no reference to posegraph or agent state: callers
// compute each edge's squared residual externally (which requires the
// current iterate and neighbor snapshot) and pass the results to
// Cost.ReweightAll, which only needs the measurement's current
// fixed/known-inlier flags and writes back Weight/Status.
package robust

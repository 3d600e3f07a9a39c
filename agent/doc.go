// Package agent implements the per-robot state machine and iteration
// engine: the WAIT_FOR_DATA -> WAIT_FOR_INITIALIZATION -> INITIALIZED
// state machine, the Nesterov-accelerated block-coordinate-descent
// iterate loop with periodic restart, the three-lock concurrency
// discipline (poses -> measurements -> neighborPoses), and the
// background Poisson-interval optimization executor.
//
// Agent composes package posegraph (measurement storage and Q/G
// assembly), package problem (the local quadratic subproblem),
// package optimizer (RTR/RGD drivers), package robust (GNC reweighting),
// and package align (robust frame alignment) into a single externally
// facing type.
package agent

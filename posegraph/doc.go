// Package posegraph owns an agent's measurement store: the partitioned
// odometry / private-loop-closure / shared-loop-closure edge lists,
// derived public/neighbor pose-ID bookkeeping, and the data-matrix
// assembly (Q, G, and the chordal-initialization matrices).
//
// A PoseGraph is not itself safe for concurrent use — the owning agent
// (package agent) serializes all access under its "measurements" lock.
// This keeps the algorithmic types themselves simple and pushes
// concurrency discipline to one well-documented layer rather than
// re-deriving locks in every package.
package posegraph

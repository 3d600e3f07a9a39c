// Package align implements robust multi-robot frame alignment:
// per-neighbor candidate transforms derived from shared loop closures,
// robust single-rotation and single-translation averaging (two-stage
// strategy), one-stage robust single-pose averaging, and a shared
// inlier-acceptance rule based on a minimum inlier count.
package align

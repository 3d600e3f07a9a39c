// Package pose defines the rigid and lifted pose types shared across the
// dpgo solver: RigidPose (an element of SE(d)), LiftedPose (its rank-r
// Stiefel-relaxed counterpart), LiftedPoseArray (the column-concatenated
// container an agent iterates on), and PoseID (a global pose identifier).
//
// Types here are plain value containers. They validate their own algebraic
// invariants (orthonormality, determinant sign) on request via Validate,
// but never silently repair them — callers that need a nearby valid point
// go through package manifold.
package pose

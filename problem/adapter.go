package problem

import "github.com/adthoms/dpgo/pose"

// Adapter exposes a QuadraticProblem through the optimizer.Problem
// interface shape ({f, grad, hess_vec, retract, project_tangent}), so
// package optimizer never needs to import package problem or know how
// Q/G/X_N were assembled.
type Adapter struct {
	*QuadraticProblem
}

// Gradient returns the Riemannian gradient at x.
func (a Adapter) Gradient(x *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	return a.RiemannianGradient(x)
}

// HessianVectorProduct returns the Riemannian Hessian-vector product at x
// applied to the tangent vector v.
func (a Adapter) HessianVectorProduct(x, v *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	return a.RiemannianHessianVectorProduct(x, v)
}

// Retract delegates to the underlying product manifold's Stiefel
// QR-retraction.
func (a Adapter) Retract(x, eta *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	return a.M.Retract(x, eta)
}

// ProjectTangent delegates to the underlying product manifold's
// tangent-space projection.
func (a Adapter) ProjectTangent(x, z *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	return a.M.TangentProject(x, z)
}

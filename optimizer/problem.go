package optimizer

import "github.com/adthoms/dpgo/pose"

// Problem is the minimal capability set a subproblem solver needs: cost,
// Riemannian gradient, Riemannian Hessian-vector product, retraction, and
// tangent-space projection. RTR and RGD depend only on this interface,
// never on how f/grad/hess_vec were derived.
type Problem interface {
	Cost(x *pose.LiftedPoseArray) float64
	Gradient(x *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error)
	HessianVectorProduct(x, v *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error)
	Retract(x, eta *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error)
	ProjectTangent(x, z *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error)
}

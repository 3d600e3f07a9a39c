package problem

import (
	"github.com/adthoms/dpgo/manifold"
	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// QuadraticProblem is the local cost f(X) = tr(X Q Xᵀ) + 2·tr(X G X_Nᵀ),
// together with its Euclidean and Riemannian derivatives. Q is the
// (n(d+1) x n(d+1)) local quadratic cost matrix; G is the (n(d+1) x
// k(d+1)) neighbor-coupling matrix; XN is the current (r x k(d+1))
// snapshot of neighbor poses, column-ordered to match G.
type QuadraticProblem struct {
	Q  *mat.Dense
	G  *mat.Dense // may be nil if this agent has no shared loop closures
	XN *mat.Dense // may be nil iff G is nil

	M *manifold.ProductManifold
}

// NewQuadraticProblem validates shapes and returns a QuadraticProblem ready
// for Cost/Gradient/HessianVector evaluation.
func NewQuadraticProblem(q, g, xn *mat.Dense, m *manifold.ProductManifold) (*QuadraticProblem, error) {
	if q == nil {
		return nil, ErrNilMatrix
	}
	qr, qc := q.Dims()
	if qr != qc || qr != m.NumPoses*(m.DimD+1) {
		return nil, ErrShapeMismatch
	}
	if (g == nil) != (xn == nil) {
		return nil, ErrShapeMismatch
	}
	if g != nil {
		gr, gc := g.Dims()
		xnr, xnc := xn.Dims()
		if gr != qr || xnr != m.RankR || xnc != gc {
			return nil, ErrShapeMismatch
		}
	}
	return &QuadraticProblem{Q: q, G: g, XN: xn, M: m}, nil
}

// Cost evaluates f(X) = tr(X Q Xᵀ) + 2·tr(X G X_Nᵀ).
func (p *QuadraticProblem) Cost(x *pose.LiftedPoseArray) float64 {
	xm := x.Matrix()
	var xq mat.Dense
	xq.Mul(xm, p.Q)
	var xqxt mat.Dense
	xqxt.Mul(&xq, xm.T())
	cost := trace(&xqxt)
	if p.G != nil {
		var xg mat.Dense
		xg.Mul(xm, p.G)
		var xgxnt mat.Dense
		xgxnt.Mul(&xg, p.XN.T())
		cost += 2 * trace(&xgxnt)
	}
	return cost
}

// EuclideanGradient returns ∇f = 2(XQ + X_N·Gᵀ), shape (r x n(d+1)).
func (p *QuadraticProblem) EuclideanGradient(x *pose.LiftedPoseArray) *mat.Dense {
	xm := x.Matrix()
	var grad mat.Dense
	grad.Mul(xm, p.Q)
	if p.G != nil {
		var xng mat.Dense
		xng.Mul(p.XN, p.G.T())
		grad.Add(&grad, &xng)
	}
	grad.Scale(2, &grad)
	return &grad
}

// HessianVectorProduct returns H·v = 2·v·Q, the Hessian-vector product of
// the quadratic term (the neighbor-coupling term is linear in X, so it
// contributes nothing to the Hessian).
func (p *QuadraticProblem) HessianVectorProduct(v *mat.Dense) *mat.Dense {
	var hv mat.Dense
	hv.Mul(v, p.Q)
	hv.Scale(2, &hv)
	return &hv
}

// RiemannianGradient projects the Euclidean gradient onto the tangent space
// of the product manifold at x.
func (p *QuadraticProblem) RiemannianGradient(x *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	eg := p.EuclideanGradient(x)
	egArr, err := pose.LiftedPoseArrayFromDense(mat.DenseCopyOf(eg), p.M.RankR, p.M.DimD, p.M.NumPoses)
	if err != nil {
		return nil, err
	}
	return p.M.TangentProject(x, egArr)
}

// RiemannianHessianVectorProduct projects the Euclidean Hessian-vector
// product onto the tangent space at x; v must already be a tangent vector
// at x. This is the simplified (Weingarten-free) Riemannian Hessian
// approximation standard for retraction-based trust regions on Stiefel
// manifolds.
func (p *QuadraticProblem) RiemannianHessianVectorProduct(x, v *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	hv := p.HessianVectorProduct(v.Matrix())
	hvArr, err := pose.LiftedPoseArrayFromDense(mat.DenseCopyOf(hv), p.M.RankR, p.M.DimD, p.M.NumPoses)
	if err != nil {
		return nil, err
	}
	return p.M.TangentProject(x, hvArr)
}

func trace(m *mat.Dense) float64 {
	r, c := m.Dims()
	lim := r
	if c < lim {
		lim = c
	}
	var s float64
	for i := 0; i < lim; i++ {
		s += m.At(i, i)
	}
	return s
}

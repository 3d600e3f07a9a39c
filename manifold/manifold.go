package manifold

import (
	"math/rand"

	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// ProjectStiefel projects an arbitrary (r x d) matrix onto St(d,r) via a
// thin SVD M = U*S*Vᵀ -> U*Vᵀ. Panics if r < d, which is a precondition
// violation (programmer error), not a runtime condition.
func ProjectStiefel(m *mat.Dense) (*mat.Dense, error) {
	r, d := m.Dims()
	if r < d {
		panic("manifold: ProjectStiefel requires r >= d")
	}
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}
	u := svd.UTo(nil) // r x d
	v := svd.VTo(nil) // d x d
	out := mat.NewDense(r, d, nil)
	out.Mul(u, v.T())
	return out, nil
}

// ProjectToRotationGroup projects a (d x d) matrix onto SO(d): thin SVD
// then, if det(U)*det(V) < 0, negate the last column of U, yielding the
// SO(d) matrix closest to m in Frobenius norm.
func ProjectToRotationGroup(m *mat.Dense) (*mat.Dense, error) {
	d, dc := m.Dims()
	if d != dc {
		return nil, ErrShapeMismatch
	}
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, ErrSVDFailed
	}
	u := svd.UTo(nil)
	v := svd.VTo(nil)
	if mat.Det(u)*mat.Det(v) < 0 {
		for i := 0; i < d; i++ {
			u.Set(i, d-1, -u.At(i, d-1))
		}
	}
	out := mat.NewDense(d, d, nil)
	out.Mul(u, v.T())
	return out, nil
}

// retractBlock applies the Stiefel QR-retraction to a single (r x d)
// tangent step at y: qf(y + eta), with the sign of each R diagonal entry
// corrected so the chosen Q representative is the one with a
// positive-diagonal R factor (deterministic canonical retraction).
func retractBlock(y, eta *mat.Dense) (*mat.Dense, error) {
	r, d := y.Dims()
	sum := mat.NewDense(r, d, nil)
	sum.Add(y, eta)

	var qr mat.QR
	qr.Factorize(sum)
	q := qr.QTo(nil) // r x r
	rr := qr.RTo(nil) // r x d

	out := mat.NewDense(r, d, nil)
	for j := 0; j < d; j++ {
		sign := 1.0
		if rr.At(j, j) < 0 {
			sign = -1.0
		}
		for i := 0; i < r; i++ {
			out.Set(i, j, sign*q.At(i, j))
		}
	}
	return out, nil
}

// tangentProjectBlock projects z onto the tangent space of St(d,r) at y:
// P_y(z) = z - y*sym(yᵀz), sym(A) = (A+Aᵀ)/2.
func tangentProjectBlock(y, z *mat.Dense) *mat.Dense {
	_, d := y.Dims()
	var yz mat.Dense
	yz.Mul(y.T(), z)
	sym := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			sym.Set(i, j, 0.5*(yz.At(i, j)+yz.At(j, i)))
		}
	}
	var ySym mat.Dense
	ySym.Mul(y, sym)
	out := mat.DenseCopyOf(z)
	out.Sub(out, &ySym)
	return out
}

// Manifold is the minimal capability set an optimizer needs from a
// search space: {project, retract, tangent_project, random_in_manifold},
// implemented once for the product manifold (St(d,r) x R^r)^n rather
// than via a variable/vector/element class hierarchy.
type Manifold interface {
	Project(x *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error)
	Retract(x, eta *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error)
	TangentProject(x, z *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error)
	RandomInManifold(rng *rand.Rand) (*pose.LiftedPoseArray, error)
}

// ProductManifold is the concrete (St(d,r) x R^r)^n manifold for a fixed
// rank r, dimension d, and pose count n.
type ProductManifold struct {
	RankR, DimD, NumPoses int
}

// NewProductManifold constructs a ProductManifold, validating r >= d and
// d in {2,3}.
func NewProductManifold(r, d, n int) (*ProductManifold, error) {
	if d != 2 && d != 3 {
		return nil, pose.ErrDimension
	}
	if r < d {
		return nil, pose.ErrRankTooSmall
	}
	return &ProductManifold{RankR: r, DimD: d, NumPoses: n}, nil
}

// Project projects every pose block of x onto St(d,r) x R^r (translation
// columns are left untouched — they are already Euclidean).
func (m *ProductManifold) Project(x *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	if err := m.checkShape(x); err != nil {
		return nil, err
	}
	out, _ := pose.NewLiftedPoseArray(m.RankR, m.DimD, m.NumPoses)
	for i := 0; i < m.NumPoses; i++ {
		lp, err := x.Pose(i)
		if err != nil {
			return nil, err
		}
		yProj, err := ProjectStiefel(lp.Y)
		if err != nil {
			return nil, err
		}
		lp.Y = yProj
		if err := out.SetPose(i, lp); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Retract applies the Stiefel QR-retraction block-wise and ordinary
// vector addition on the translation columns.
func (m *ProductManifold) Retract(x, eta *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	if err := m.checkShape(x); err != nil {
		return nil, err
	}
	if err := m.checkShape(eta); err != nil {
		return nil, err
	}
	out, _ := pose.NewLiftedPoseArray(m.RankR, m.DimD, m.NumPoses)
	for i := 0; i < m.NumPoses; i++ {
		xi, err := x.Pose(i)
		if err != nil {
			return nil, err
		}
		ei, err := eta.Pose(i)
		if err != nil {
			return nil, err
		}
		yNew, err := retractBlock(xi.Y, ei.Y)
		if err != nil {
			return nil, err
		}
		pNew := make([]float64, m.RankR)
		for k := range pNew {
			pNew[k] = xi.P[k] + ei.P[k]
		}
		if err := out.SetPose(i, &pose.LiftedPose{R: m.RankR, D: m.DimD, Y: yNew, P: pNew}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// TangentProject projects z onto the tangent space of M at x.
func (m *ProductManifold) TangentProject(x, z *pose.LiftedPoseArray) (*pose.LiftedPoseArray, error) {
	if err := m.checkShape(x); err != nil {
		return nil, err
	}
	if err := m.checkShape(z); err != nil {
		return nil, err
	}
	out, _ := pose.NewLiftedPoseArray(m.RankR, m.DimD, m.NumPoses)
	for i := 0; i < m.NumPoses; i++ {
		xi, err := x.Pose(i)
		if err != nil {
			return nil, err
		}
		zi, err := z.Pose(i)
		if err != nil {
			return nil, err
		}
		yProj := tangentProjectBlock(xi.Y, zi.Y)
		if err := out.SetPose(i, &pose.LiftedPose{R: m.RankR, D: m.DimD, Y: yProj, P: zi.P}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RandomInManifold draws a random point on M using rng, seeded
// deterministically by the caller for reproducible tests.
func (m *ProductManifold) RandomInManifold(rng *rand.Rand) (*pose.LiftedPoseArray, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	out, _ := pose.NewLiftedPoseArray(m.RankR, m.DimD, m.NumPoses)
	for i := 0; i < m.NumPoses; i++ {
		raw := mat.NewDense(m.RankR, m.DimD, nil)
		for r := 0; r < m.RankR; r++ {
			for c := 0; c < m.DimD; c++ {
				raw.Set(r, c, rng.NormFloat64())
			}
		}
		y, err := ProjectStiefel(raw)
		if err != nil {
			return nil, err
		}
		p := make([]float64, m.RankR)
		for r := range p {
			p[r] = rng.NormFloat64()
		}
		if err := out.SetPose(i, &pose.LiftedPose{R: m.RankR, D: m.DimD, Y: y, P: p}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (m *ProductManifold) checkShape(x *pose.LiftedPoseArray) error {
	if x.R() != m.RankR || x.D() != m.DimD || x.N() != m.NumPoses {
		return ErrShapeMismatch
	}
	return nil
}

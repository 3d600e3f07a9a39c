package pose

import (
	"fmt"
	"math"

	"gonum.org/x/gonum/mat"
)

// OrthonormalityTolerance bounds ||YᵀY - I|| and |det(R)-1| checks across
// the package.
const OrthonormalityTolerance = 1e-5

// PoseID globally identifies a pose by the robot that owns it and the
// pose's index within that robot's trajectory.
type PoseID struct {
	RobotID int
	FrameID int
}

// String renders a PoseID as "robot:frame", used in error messages and logs.
func (id PoseID) String() string {
	return fmt.Sprintf("%d:%d", id.RobotID, id.FrameID)
}

// RigidPose is a (d x (d+1)) block [R | t] with R in SO(d) and t in R^d.
type RigidPose struct {
	D int
	R *mat.Dense // d x d
	T []float64  // length d
}

// NewRigidPose builds a RigidPose from a rotation and translation, copying
// both inputs so the caller's backing arrays may be reused.
func NewRigidPose(r *mat.Dense, t []float64) (*RigidPose, error) {
	d, dc := r.Dims()
	if d != dc || (d != 2 && d != 3) {
		return nil, ErrDimension
	}
	if len(t) != d {
		return nil, ErrBadShape
	}
	rc := mat.DenseCopyOf(r)
	tc := append([]float64(nil), t...)
	return &RigidPose{D: d, R: rc, T: tc}, nil
}

// IdentityRigidPose returns [I_d | 0].
func IdentityRigidPose(d int) (*RigidPose, error) {
	if d != 2 && d != 3 {
		return nil, ErrDimension
	}
	r := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		r.Set(i, i, 1)
	}
	return &RigidPose{D: d, R: r, T: make([]float64, d)}, nil
}

// Validate checks RᵀR = I and det(R) = +1 within OrthonormalityTolerance.
func (p *RigidPose) Validate() error {
	var rtr mat.Dense
	rtr.Mul(p.R.T(), p.R)
	if frobeniusDistToIdentity(&rtr) > OrthonormalityTolerance {
		return ErrNotOrthonormal
	}
	det := mat.Det(p.R)
	if diff := det - 1; diff > OrthonormalityTolerance || diff < -OrthonormalityTolerance {
		return ErrBadDeterminant
	}
	return nil
}

// Block returns the dense (d x (d+1)) [R | t] block.
func (p *RigidPose) Block() *mat.Dense {
	b := mat.NewDense(p.D, p.D+1, nil)
	for i := 0; i < p.D; i++ {
		for j := 0; j < p.D; j++ {
			b.Set(i, j, p.R.At(i, j))
		}
		b.Set(i, p.D, p.T[i])
	}
	return b
}

// Compose returns p * q (first apply q, then p): R = p.R*q.R,
// T = p.R*q.T + p.T.
func (p *RigidPose) Compose(q *RigidPose) (*RigidPose, error) {
	if p.D != q.D {
		return nil, ErrDimension
	}
	var r mat.Dense
	r.Mul(p.R, q.R)
	t := make([]float64, p.D)
	var rt mat.VecDense
	rt.MulVec(p.R, mat.NewVecDense(p.D, q.T))
	for i := 0; i < p.D; i++ {
		t[i] = rt.AtVec(i) + p.T[i]
	}
	return &RigidPose{D: p.D, R: mat.DenseCopyOf(&r), T: t}, nil
}

// Inverse returns p^-1: R^-1 = R^T, T^-1 = -R^T*T.
func (p *RigidPose) Inverse() *RigidPose {
	rt := mat.DenseCopyOf(p.R.T())
	t := make([]float64, p.D)
	var rinvt mat.VecDense
	rinvt.MulVec(rt, mat.NewVecDense(p.D, p.T))
	for i := 0; i < p.D; i++ {
		t[i] = -rinvt.AtVec(i)
	}
	return &RigidPose{D: p.D, R: rt, T: t}
}

// LiftedPose is a (r x (d+1)) block [Y | p] with Y in St(d,r) and p in R^r.
type LiftedPose struct {
	R int
	D int
	Y *mat.Dense // r x d
	P []float64  // length r
}

// Validate checks YᵀY = I_d within OrthonormalityTolerance.
func (lp *LiftedPose) Validate() error {
	var yty mat.Dense
	yty.Mul(lp.Y.T(), lp.Y)
	if frobeniusDistToIdentity(&yty) > OrthonormalityTolerance {
		return ErrNotOrthonormal
	}
	return nil
}

// frobeniusDistToIdentity returns ||M - I||_F for a square M.
func frobeniusDistToIdentity(m *mat.Dense) float64 {
	n, nc := m.Dims()
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < nc; j++ {
			v := m.At(i, j)
			if i == j {
				v -= 1
			}
			sum += v * v
		}
	}
	return math.Sqrt(sum)
}

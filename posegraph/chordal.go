package posegraph

import (
	"github.com/adthoms/dpgo/manifold"
	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// IntegrateOdometryChain initializes a trajectory by integrating the
// odometry chain from the identity. Only own-robot odometry edges are
// used; poses not reached by the chain (e.g. isolated frames before any
// odometry edge arrives) are left at identity.
func (g *PoseGraph) IntegrateOdometryChain() ([]*pose.RigidPose, error) {
	if g.numPoses == 0 {
		return nil, ErrNoPoses
	}
	d := g.DimD
	out := make([]*pose.RigidPose, g.numPoses)
	id, err := pose.IdentityRigidPose(d)
	if err != nil {
		return nil, err
	}
	out[0] = id
	for _, m := range g.odometry {
		if m.R1 != g.RobotID || m.R2 != g.RobotID {
			continue
		}
		prev := out[m.P1]
		if prev == nil {
			continue
		}
		var rNext mat.Dense
		rNext.Mul(prev.R, m.Rhat)
		tNext := make([]float64, d)
		var rt mat.VecDense
		rt.MulVec(prev.R, mat.NewVecDense(d, m.That))
		for i := 0; i < d; i++ {
			tNext[i] = prev.T[i] + rt.AtVec(i)
		}
		out[m.P2] = &pose.RigidPose{D: d, R: mat.DenseCopyOf(&rNext), T: tNext}
	}
	for i := range out {
		if out[i] == nil {
			out[i], _ = pose.IdentityRigidPose(d)
		}
	}
	return out, nil
}

// SynchronizeRotationsChordal solves the chordal-relaxed rotation
// synchronization problem: minimize sum_e w_e*kappa_e*||R_j - R_i*Rhat||_F^2
// over R_i relaxed to R^{dxd}, pinning R_0 = I_d, then projects each
// solution back onto SO(d).
func (g *PoseGraph) SynchronizeRotationsChordal() ([]*mat.Dense, error) {
	if g.numPoses == 0 {
		return nil, ErrNoPoses
	}
	d := g.DimD
	n := g.numPoses
	edges := append(append([]*RelativeSEMeasurement{}, g.odometry...), g.privateLoopClosures...)
	if len(edges) == 0 {
		return nil, ErrDegenerateGraph
	}

	qrot := mat.NewDense(n*d, n*d, nil)
	for _, m := range edges {
		if m.R1 != g.RobotID || m.R2 != g.RobotID {
			continue
		}
		w := m.Weight * m.Kappa
		if w == 0 {
			continue
		}
		i, j := m.P1, m.P2
		for k := 0; k < d; k++ {
			qrot.Set(i*d+k, i*d+k, qrot.At(i*d+k, i*d+k)+w)
			qrot.Set(j*d+k, j*d+k, qrot.At(j*d+k, j*d+k)+w)
		}
		for a := 0; a < d; a++ {
			for b := 0; b < d; b++ {
				v := w * m.Rhat.At(a, b)
				qrot.Set(i*d+a, j*d+b, qrot.At(i*d+a, j*d+b)-v)
				qrot.Set(j*d+b, i*d+a, qrot.At(j*d+b, i*d+a)-v)
			}
		}
	}

	free := n - 1
	afree := mat.NewDense(free*d, free*d, nil)
	for i := 0; i < free*d; i++ {
		for j := 0; j < free*d; j++ {
			afree.Set(i, j, qrot.At(d+i, d+j))
		}
	}
	rhs := mat.NewDense(free*d, d, nil)
	for i := 0; i < free*d; i++ {
		for k := 0; k < d; k++ {
			rhs.Set(i, k, -qrot.At(d+i, k))
		}
	}

	var xfree mat.Dense
	if err := xfree.Solve(afree, rhs); err != nil {
		return nil, err
	}

	rotations := make([]*mat.Dense, n)
	rotations[0], _ = func() (*mat.Dense, error) {
		idm := mat.NewDense(d, d, nil)
		for i := 0; i < d; i++ {
			idm.Set(i, i, 1)
		}
		return idm, nil
	}()
	for i := 1; i < n; i++ {
		block := mat.NewDense(d, d, nil)
		for a := 0; a < d; a++ {
			for b := 0; b < d; b++ {
				// xfree stores R_i^T stacked blocks; transpose back to R_i.
				block.Set(b, a, xfree.At((i-1)*d+a, b))
			}
		}
		proj, err := manifold.ProjectToRotationGroup(block)
		if err != nil {
			return nil, err
		}
		rotations[i] = proj
	}
	return rotations, nil
}

// RecoverTranslationsChordal solves for translations given already-solved
// rotations, minimizing sum_e w_e*tau_e*||p_j - p_i - R_i*that||^2 with
// p_0 pinned at the origin. This is the direct weighted Laplacian
// formulation, algebraically equivalent to a sparse pseudo-inverse
// recovery but solved directly since the graph per robot is small.
func (g *PoseGraph) RecoverTranslationsChordal(rotations []*mat.Dense) ([][]float64, error) {
	d := g.DimD
	n := g.numPoses
	if len(rotations) != n {
		return nil, ErrDimensionMismatch
	}
	edges := append(append([]*RelativeSEMeasurement{}, g.odometry...), g.privateLoopClosures...)

	lap := mat.NewDense(n, n, nil)
	rhs := mat.NewDense(n, d, nil)
	for _, m := range edges {
		if m.R1 != g.RobotID || m.R2 != g.RobotID {
			continue
		}
		w := m.Weight * m.Tau
		if w == 0 {
			continue
		}
		i, j := m.P1, m.P2
		lap.Set(i, i, lap.At(i, i)+w)
		lap.Set(j, j, lap.At(j, j)+w)
		lap.Set(i, j, lap.At(i, j)-w)
		lap.Set(j, i, lap.At(j, i)-w)

		var rt mat.VecDense
		rt.MulVec(rotations[i], mat.NewVecDense(d, m.That))
		for k := 0; k < d; k++ {
			rhs.Set(j, k, rhs.At(j, k)+w*rt.AtVec(k))
			rhs.Set(i, k, rhs.At(i, k)-w*rt.AtVec(k))
		}
	}

	free := n - 1
	afree := mat.NewDense(free, free, nil)
	for i := 0; i < free; i++ {
		for j := 0; j < free; j++ {
			afree.Set(i, j, lap.At(1+i, 1+j))
		}
	}
	bfree := mat.NewDense(free, d, nil)
	for i := 0; i < free; i++ {
		for k := 0; k < d; k++ {
			// p_0 is pinned at the origin, so its Laplacian coupling
			// contributes nothing to the reduced right-hand side.
			bfree.Set(i, k, rhs.At(1+i, k))
		}
	}

	var xfree mat.Dense
	if free > 0 {
		if err := xfree.Solve(afree, bfree); err != nil {
			return nil, err
		}
	}

	translations := make([][]float64, n)
	translations[0] = make([]float64, d)
	for i := 1; i < n; i++ {
		t := make([]float64, d)
		for k := 0; k < d; k++ {
			t[k] = xfree.At(i-1, k)
		}
		translations[i] = t
	}
	return translations, nil
}

// ChordalInitialize runs full chordal (L2-mode) bootstrap initialization:
// rotation synchronization followed by translation recovery, returning one
// RigidPose per own pose index.
func (g *PoseGraph) ChordalInitialize() ([]*pose.RigidPose, error) {
	rotations, err := g.SynchronizeRotationsChordal()
	if err != nil {
		return nil, err
	}
	translations, err := g.RecoverTranslationsChordal(rotations)
	if err != nil {
		return nil, err
	}
	out := make([]*pose.RigidPose, g.numPoses)
	for i := range out {
		out[i] = &pose.RigidPose{D: g.DimD, R: rotations[i], T: translations[i]}
	}
	return out, nil
}

package align

import (
	"math"

	"github.com/adthoms/dpgo/manifold"
	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
	"gonum.org/x/gonum/stat/distuv"
)

// DefaultPoseAveragingKappa and DefaultPoseAveragingTau are the empirical
// rotation/translation precisions used by one-stage robust single-pose
// averaging. They are empirical scales, not derived from measurement
// covariances; OneStagePoseAverage uses them as given.
const (
	DefaultPoseAveragingKappa = 1.82
	DefaultPoseAveragingTau   = 0.01
)

// angular2ChordalSO3 converts an angular distance (radians) to the
// corresponding chordal distance ‖R1-R2‖_F on SO(d), via 2√2·sin(θ/2).
func angular2ChordalSO3(thetaRad float64) float64 {
	return 2 * math.Sqrt2 * math.Sin(thetaRad/2)
}

// DefaultRotationInlierThresholdAngle is the two-stage strategy's default
// inlier angle in radians (~30°).
const DefaultRotationInlierThresholdAngle = 0.5

// chordalDistSquared returns ‖a-b‖_F² for two (d x d) matrices.
func chordalDistSquared(a, b *mat.Dense) float64 {
	r, c := a.Dims()
	var s float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := a.At(i, j) - b.At(i, j)
			s += d * d
		}
	}
	return s
}

// meanRotation returns the chordal L2 mean of a set of (d x d) matrices,
// projected back onto SO(d) (the rotation that minimizes sum ‖R-Ri‖_F²
// subject to R ∈ SO(d)).
func meanRotation(rs []*mat.Dense) (*mat.Dense, error) {
	d, _ := rs[0].Dims()
	sum := mat.NewDense(d, d, nil)
	for _, r := range rs {
		sum.Add(sum, r)
	}
	sum.Scale(1.0/float64(len(rs)), sum)
	return manifold.ProjectToRotationGroup(sum)
}

func meanTranslation(ts [][]float64) []float64 {
	d := len(ts[0])
	out := make([]float64, d)
	for _, t := range ts {
		for i := range out {
			out[i] += t[i]
		}
	}
	for i := range out {
		out[i] /= float64(len(ts))
	}
	return out
}

// Result is the outcome of a robust averaging pass: the averaged candidate
// pose, the indices (into the input slice) of the inlier candidates, and
// whether enough inliers were found to accept the alignment.
type Result struct {
	Pose     *pose.RigidPose
	Inliers  []int
	Accepted bool
}

// TwoStageAverage runs the two-stage robust averaging strategy: robust
// single-rotation averaging with inlier threshold angular2ChordalSO3
// (angleThresholdRad), then translation averaging over the rotation
// inliers as the mean. Accepted is false when fewer than minInliers
// candidates pass the rotation threshold.
func TwoStageAverage(candidates []*Candidate, angleThresholdRad float64, minInliers int) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, ErrNoCandidates
	}
	d := candidates[0].R.D
	rots := make([]*mat.Dense, len(candidates))
	for i, c := range candidates {
		if c.R.D != d {
			return Result{}, ErrDimensionMismatch
		}
		rots[i] = c.R.R
	}

	initial, err := meanRotation(rots)
	if err != nil {
		return Result{}, err
	}
	thresh2 := angular2ChordalSO3(angleThresholdRad)
	thresh2 *= thresh2

	var inliers []int
	for i, r := range rots {
		if chordalDistSquared(r, initial) <= thresh2 {
			inliers = append(inliers, i)
		}
	}
	if len(inliers) < minInliers {
		return Result{Inliers: inliers, Accepted: false}, nil
	}

	inlierRots := make([]*mat.Dense, len(inliers))
	inlierTrans := make([][]float64, len(inliers))
	for k, idx := range inliers {
		inlierRots[k] = rots[idx]
		inlierTrans[k] = candidates[idx].R.T
	}
	finalR, err := meanRotation(inlierRots)
	if err != nil {
		return Result{}, err
	}
	finalT := meanTranslation(inlierTrans)

	return Result{
		Pose:     &pose.RigidPose{D: d, R: finalR, T: finalT},
		Inliers:  inliers,
		Accepted: true,
	}, nil
}

// poseAveragingCbar returns cbar = quantile(chi2(3), 0.9), the one-stage
// strategy's combined-residual inlier threshold.
func poseAveragingCbar() float64 {
	chi2 := distuv.ChiSquared{K: 3}
	return chi2.Quantile(0.9)
}

// OneStagePoseAverage runs the one-stage robust averaging strategy: a
// single combined residual kappa*chordalDist(R)² + tau*‖Δt‖² per candidate,
// classified inlier/outlier against cbar = quantile(chi2(3), 0.9).
func OneStagePoseAverage(candidates []*Candidate, minInliers int) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, ErrNoCandidates
	}
	d := candidates[0].R.D
	rots := make([]*mat.Dense, len(candidates))
	trans := make([][]float64, len(candidates))
	for i, c := range candidates {
		if c.R.D != d {
			return Result{}, ErrDimensionMismatch
		}
		rots[i] = c.R.R
		trans[i] = c.R.T
	}

	initR, err := meanRotation(rots)
	if err != nil {
		return Result{}, err
	}
	initT := meanTranslation(trans)

	cbar := poseAveragingCbar()
	var inliers []int
	for i := range candidates {
		rRes := chordalDistSquared(rots[i], initR)
		var tRes float64
		for k, v := range trans[i] {
			diff := v - initT[k]
			tRes += diff * diff
		}
		combined := DefaultPoseAveragingKappa*rRes + DefaultPoseAveragingTau*tRes
		if combined <= cbar {
			inliers = append(inliers, i)
		}
	}
	if len(inliers) < minInliers {
		return Result{Inliers: inliers, Accepted: false}, nil
	}

	inlierRots := make([]*mat.Dense, len(inliers))
	inlierTrans := make([][]float64, len(inliers))
	for k, idx := range inliers {
		inlierRots[k] = rots[idx]
		inlierTrans[k] = trans[idx]
	}
	finalR, err := meanRotation(inlierRots)
	if err != nil {
		return Result{}, err
	}
	finalT := meanTranslation(inlierTrans)

	return Result{
		Pose:     &pose.RigidPose{D: d, R: finalR, T: finalT},
		Inliers:  inliers,
		Accepted: true,
	}, nil
}

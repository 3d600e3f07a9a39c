package align

import (
	"math"
	"testing"

	"github.com/adthoms/dpgo/pose"
	"github.com/stretchr/testify/require"
)

func candAt(theta float64, t []float64) *Candidate {
	r, err := pose.NewRigidPose(rot2(theta), t)
	if err != nil {
		panic(err)
	}
	return &Candidate{R: r}
}

func TestTwoStageAverageRejectsEmptyInput(t *testing.T) {
	_, err := TwoStageAverage(nil, DefaultRotationInlierThresholdAngle, 1)
	require.ErrorIs(t, err, ErrNoCandidates)
}

func TestTwoStageAverageAcceptsConsistentCandidates(t *testing.T) {
	cands := []*Candidate{
		candAt(0.0, []float64{0, 0}),
		candAt(0.01, []float64{0.1, 0}),
		candAt(-0.01, []float64{-0.1, 0}),
	}
	res, err := TwoStageAverage(cands, DefaultRotationInlierThresholdAngle, 2)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Len(t, res.Inliers, 3)
	require.NoError(t, res.Pose.Validate())
}

func TestTwoStageAverageRejectsOutlierRotation(t *testing.T) {
	cands := []*Candidate{
		candAt(0.0, []float64{0, 0}),
		candAt(0.01, []float64{0, 0}),
		candAt(math.Pi, []float64{0, 0}), // wildly inconsistent rotation
	}
	res, err := TwoStageAverage(cands, DefaultRotationInlierThresholdAngle, 2)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.NotContains(t, res.Inliers, 2)
}

func TestTwoStageAverageRejectsWhenBelowMinInliers(t *testing.T) {
	cands := []*Candidate{
		candAt(0.0, []float64{0, 0}),
		candAt(math.Pi, []float64{0, 0}),
	}
	res, err := TwoStageAverage(cands, DefaultRotationInlierThresholdAngle, 2)
	require.NoError(t, err)
	require.False(t, res.Accepted)
}

func TestTwoStageAverageRejectsDimensionMismatch(t *testing.T) {
	c3, err := pose.IdentityRigidPose(3)
	require.NoError(t, err)
	cands := []*Candidate{candAt(0, []float64{0, 0}), {R: c3}}
	_, err = TwoStageAverage(cands, DefaultRotationInlierThresholdAngle, 1)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestOneStagePoseAverageAcceptsConsistentCandidates(t *testing.T) {
	cands := []*Candidate{
		candAt(0.0, []float64{0, 0}),
		candAt(0.01, []float64{0.05, 0}),
		candAt(-0.01, []float64{-0.05, 0}),
	}
	res, err := OneStagePoseAverage(cands, 2)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.NoError(t, res.Pose.Validate())
}

func TestOneStagePoseAverageRejectsEmptyInput(t *testing.T) {
	_, err := OneStagePoseAverage(nil, 1)
	require.ErrorIs(t, err, ErrNoCandidates)
}

func TestAngular2ChordalSO3MatchesKnownValues(t *testing.T) {
	require.InDelta(t, 0, angular2ChordalSO3(0), 1e-9)
	require.InDelta(t, 2*math.Sqrt2, angular2ChordalSO3(math.Pi), 1e-9)
}

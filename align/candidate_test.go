package align

import (
	"math"
	"testing"

	"github.com/adthoms/dpgo/pose"
	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func rot2(theta float64) *mat.Dense {
	return mat.NewDense(2, 2, []float64{
		math.Cos(theta), -math.Sin(theta),
		math.Sin(theta), math.Cos(theta),
	})
}

func TestComputeCandidateIdentityMeasurementPassesThroughWorldJFrame(t *testing.T) {
	worldJFrame, err := pose.NewRigidPose(rot2(0.2), []float64{1, 1})
	require.NoError(t, err)
	identity, err := pose.IdentityRigidPose(2)
	require.NoError(t, err)

	cand, err := ComputeCandidate(worldJFrame, identity, identity)
	require.NoError(t, err)
	require.NoError(t, cand.R.Validate())

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(t, worldJFrame.R.At(i, j), cand.R.R.At(i, j), 1e-9)
		}
	}
	require.InDeltaSlice(t, worldJFrame.T, cand.R.T, 1e-9)
}

func TestComputeCandidateComposesTranslationsForIdentityRotations(t *testing.T) {
	identityR := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	worldJFrame, err := pose.NewRigidPose(identityR, []float64{3, 4})
	require.NoError(t, err)
	measured, err := pose.NewRigidPose(identityR, []float64{1, 0})
	require.NoError(t, err)
	localFrame, err := pose.NewRigidPose(identityR, []float64{0, 2})
	require.NoError(t, err)

	cand, err := ComputeCandidate(worldJFrame, measured, localFrame)
	require.NoError(t, err)
	// Identity rotations throughout: T = wj - measured.T - localFrame.T.
	require.InDeltaSlice(t, []float64{3 - 1 - 0, 4 - 0 - 2}, cand.R.T, 1e-9)
}

package align

import (
	"math/rand"
	"testing"

	"github.com/adthoms/dpgo/manifold"
	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func TestUnliftRotationRecoversGroundTruth(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	yLiftRaw := mat.NewDense(4, 2, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			yLiftRaw.Set(i, j, rng.NormFloat64())
		}
	}
	yLift, err := manifold.ProjectStiefel(yLiftRaw)
	require.NoError(t, err)

	truth := rot2(0.4)
	var y mat.Dense
	y.Mul(yLift, truth)

	recovered, err := UnliftRotation(yLift, &y)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(t, truth.At(i, j), recovered.At(i, j), 1e-6)
		}
	}
}

func TestUnliftTranslationIsLinear(t *testing.T) {
	yLift := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 0, 0})
	p := []float64{2, 3, 5}
	got := UnliftTranslation(yLift, p)
	require.InDeltaSlice(t, []float64{2, 3}, got, 1e-9)
}

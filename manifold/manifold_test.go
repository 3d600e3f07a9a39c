package manifold

import (
	"math/rand"
	"testing"

	"github.com/adthoms/dpgo/pose"
	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func TestProjectStiefelYieldsOrthonormalColumns(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := mat.NewDense(3, 2, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			m.Set(i, j, rng.NormFloat64())
		}
	}
	y, err := ProjectStiefel(m)
	require.NoError(t, err)

	var gram mat.Dense
	gram.Mul(y.T(), y)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			require.InDelta(t, want, gram.At(i, j), 1e-9)
		}
	}
}

func TestProjectToRotationGroupRejectsNonSquare(t *testing.T) {
	_, err := ProjectToRotationGroup(mat.NewDense(2, 3, nil))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestProjectToRotationGroupFixesReflection(t *testing.T) {
	reflect := mat.NewDense(2, 2, []float64{1, 0, 0, -1})
	r, err := ProjectToRotationGroup(reflect)
	require.NoError(t, err)
	require.InDelta(t, 1.0, mat.Det(r), 1e-9)
}

func TestProductManifoldRejectsBadRank(t *testing.T) {
	_, err := NewProductManifold(1, 2, 3)
	require.ErrorIs(t, err, pose.ErrRankTooSmall)

	_, err = NewProductManifold(3, 4, 3)
	require.ErrorIs(t, err, pose.ErrDimension)
}

func TestProductManifoldRandomInManifoldStaysOnManifold(t *testing.T) {
	pm, err := NewProductManifold(3, 2, 4)
	require.NoError(t, err)

	x, err := pm.RandomInManifold(rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	projected, err := pm.Project(x)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(x.Matrix(), projected.Matrix(), 1e-9))
}

func TestProductManifoldRetractShapeMismatch(t *testing.T) {
	pm, err := NewProductManifold(3, 2, 2)
	require.NoError(t, err)
	other, err := NewProductManifold(4, 2, 2)
	require.NoError(t, err)

	x, err := pm.RandomInManifold(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	eta, err := other.RandomInManifold(rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	_, err = pm.Retract(x, eta)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestProductManifoldTangentProjectOrthogonalToY(t *testing.T) {
	pm, err := NewProductManifold(3, 2, 1)
	require.NoError(t, err)
	x, err := pm.RandomInManifold(rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	z, err := pm.RandomInManifold(rand.New(rand.NewSource(6)))
	require.NoError(t, err)

	tp, err := pm.TangentProject(x, z)
	require.NoError(t, err)

	xi, err := x.Pose(0)
	require.NoError(t, err)
	ti, err := tp.Pose(0)
	require.NoError(t, err)

	var sym mat.Dense
	sym.Mul(xi.Y.T(), ti.Y)
	var symT mat.Dense
	symT.Add(&sym, sym.T())
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(t, 0.0, symT.At(i, j), 1e-7)
		}
	}
}

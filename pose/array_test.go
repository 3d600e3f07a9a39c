package pose

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func TestLiftedPoseArraySetPoseRoundTrip(t *testing.T) {
	arr, err := NewLiftedPoseArray(3, 2, 4)
	require.NoError(t, err)

	y := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 0, 0})
	lp := &LiftedPose{R: 3, D: 2, Y: y, P: []float64{1, 2, 3}}
	require.NoError(t, arr.SetPose(1, lp))

	got, err := arr.Pose(1)
	require.NoError(t, err)
	require.Equal(t, lp.P, got.P)
	require.True(t, mat.Equal(lp.Y, got.Y))

	other, err := arr.Pose(0)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, other.P)
}

func TestLiftedPoseArrayIndexOutOfRange(t *testing.T) {
	arr, err := NewLiftedPoseArray(2, 2, 2)
	require.NoError(t, err)
	_, err = arr.Pose(5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestLiftedPoseArrayCloneIsIndependent(t *testing.T) {
	arr, err := NewLiftedPoseArray(2, 2, 1)
	require.NoError(t, err)
	clone := arr.Clone()
	clone.Matrix().Set(0, 0, 42)
	require.NotEqual(t, 42.0, arr.Matrix().At(0, 0))
}

func TestLiftedPoseArrayFromDenseRejectsBadShape(t *testing.T) {
	m := mat.NewDense(2, 5, nil)
	_, err := LiftedPoseArrayFromDense(m, 2, 2, 2)
	require.ErrorIs(t, err, ErrBadShape)
}

func TestLiftedPoseArrayCopyFromRejectsShapeMismatch(t *testing.T) {
	a, err := NewLiftedPoseArray(2, 2, 2)
	require.NoError(t, err)
	b, err := NewLiftedPoseArray(3, 2, 2)
	require.NoError(t, err)
	require.ErrorIs(t, a.CopyFrom(b), ErrBadShape)
}

func TestLiftedPoseArrayCopyFromCopiesContent(t *testing.T) {
	a, err := NewLiftedPoseArray(2, 2, 1)
	require.NoError(t, err)
	b, err := NewLiftedPoseArray(2, 2, 1)
	require.NoError(t, err)
	require.NoError(t, b.SetPose(0, &LiftedPose{R: 2, D: 2, Y: mat.NewDense(2, 2, nil), P: []float64{9, 9}}))

	require.NoError(t, a.CopyFrom(b))
	got, err := a.Pose(0)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 9}, got.P)
}

func TestLiftedPoseArrayTranslations(t *testing.T) {
	arr, err := NewLiftedPoseArray(2, 2, 2)
	require.NoError(t, err)
	require.NoError(t, arr.SetPose(0, &LiftedPose{R: 2, D: 2, Y: mat.NewDense(2, 2, nil), P: []float64{1, 2}}))
	require.NoError(t, arr.SetPose(1, &LiftedPose{R: 2, D: 2, Y: mat.NewDense(2, 2, nil), P: []float64{3, 4}}))

	trans := arr.Translations()
	require.Len(t, trans, 2)
	require.Equal(t, []float64{1, 2}, trans[0])
	require.Equal(t, []float64{3, 4}, trans[1])
}

package agent

import (
	"testing"

	"github.com/adthoms/dpgo/pose"
	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func TestSetLiftingMatrixRejectsShapeMismatch(t *testing.T) {
	cfg := DefaultConfig(1, 3, 2, 2)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	require.ErrorIs(t, a.SetLiftingMatrix(mat.NewDense(2, 2, nil)), ErrDimensionMismatch)
}

func TestSetLiftingMatrixIsImmutableOnceSet(t *testing.T) {
	cfg := DefaultConfig(1, 2, 2, 2)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	require.NoError(t, a.SetLiftingMatrix(identity2()))
	require.ErrorIs(t, a.SetLiftingMatrix(identity2()), ErrLiftingMatrixImmutable)
}

func TestSetLiftingMatrixResettableAfterReset(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	require.NoError(t, a.AddMeasurement(odomEdge(0, 1, []float64{1, 0})))
	require.NoError(t, a.Initialize(nil))
	require.NoError(t, a.Reset())
	require.NoError(t, a.SetLiftingMatrix(identity2()))
}

func TestInitializeNonZeroRobotWithoutLiftingMatrixFails(t *testing.T) {
	cfg := DefaultConfig(1, 2, 2, 2)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	require.NoError(t, a.AddMeasurement(odomEdge(0, 1, []float64{1, 0})))
	require.ErrorIs(t, a.Initialize(nil), ErrLiftingMatrixNotSet)
}

func TestSetGlobalAnchorRejectsShapeMismatch(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	bad := &pose.LiftedPose{R: 3, D: 2, Y: mat.NewDense(3, 2, nil), P: []float64{0, 0, 0}}
	require.ErrorIs(t, a.SetGlobalAnchor(bad), ErrDimensionMismatch)
}

func TestSetGlobalAnchorAcceptsMatchingShape(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	anchor := &pose.LiftedPose{R: 2, D: 2, Y: identity2(), P: []float64{1, 1}}
	require.NoError(t, a.SetGlobalAnchor(anchor))
}

package posegraph

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func TestSetWeightRejectsFixedWeightEdge(t *testing.T) {
	m := &RelativeSEMeasurement{FixedWeight: true, Weight: 1}
	require.ErrorIs(t, m.SetWeight(0.5), ErrFixedWeight)
}

func TestSetWeightRejectsOutOfRange(t *testing.T) {
	m := &RelativeSEMeasurement{}
	require.ErrorIs(t, m.SetWeight(-0.1), ErrBadWeight)
	require.ErrorIs(t, m.SetWeight(1.1), ErrBadWeight)
}

func TestSetWeightAcceptsInRange(t *testing.T) {
	m := &RelativeSEMeasurement{}
	require.NoError(t, m.SetWeight(0.3))
	require.Equal(t, 0.3, m.Weight)
}

func TestIsOdometryRequiresSameRobotAndConsecutiveFrames(t *testing.T) {
	m := &RelativeSEMeasurement{R1: 0, R2: 0, P1: 1, P2: 2}
	require.True(t, m.IsOdometry())

	inter := &RelativeSEMeasurement{R1: 0, R2: 1, P1: 1, P2: 2}
	require.False(t, inter.IsOdometry())
	require.True(t, inter.IsInterRobot())

	skip := &RelativeSEMeasurement{R1: 0, R2: 0, P1: 1, P2: 3}
	require.False(t, skip.IsOdometry())
}

func TestPrecisionFromCovariance(t *testing.T) {
	sigmaR := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	sigmaT := mat.NewDense(3, 3, []float64{2, 0, 0, 0, 2, 0, 0, 0, 2})
	kappa, tau := PrecisionFromCovariance(3, sigmaR, sigmaT)
	require.InDelta(t, 0.5, kappa, 1e-12)
	require.InDelta(t, 0.5, tau, 1e-12)
}

func TestEndpointsReportRobotAndFrame(t *testing.T) {
	m := &RelativeSEMeasurement{R1: 2, P1: 5, R2: 3, P2: 6}
	require.Equal(t, "2:5", m.Endpoint1().String())
	require.Equal(t, "3:6", m.Endpoint2().String())
}

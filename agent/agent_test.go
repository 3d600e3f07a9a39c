package agent

import (
	"testing"

	"github.com/adthoms/dpgo/posegraph"
	"github.com/adthoms/dpgo/robust"
	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func identity2() *mat.Dense { return mat.NewDense(2, 2, []float64{1, 0, 0, 1}) }

func odomEdge(p1, p2 int, t []float64) *posegraph.RelativeSEMeasurement {
	return &posegraph.RelativeSEMeasurement{
		R1: 0, R2: 0, P1: p1, P2: p2,
		Rhat: identity2(), That: t,
		Kappa: 10, Tau: 10, Weight: 1, FixedWeight: true,
	}
}

func TestAgentLineGraphConvergesToOdometryChain(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	cfg.AccelerationEnabled = false
	a, err := NewAgent(cfg)
	require.NoError(t, err)

	require.NoError(t, a.AddMeasurement(odomEdge(0, 1, []float64{1, 0})))
	require.NoError(t, a.AddMeasurement(odomEdge(1, 2, []float64{0, 1})))

	require.NoError(t, a.Initialize(nil))
	require.Equal(t, Initialized, a.GetStatus().State)

	require.NoError(t, a.Iterate(true))

	traj, err := a.GetTrajectoryInLocalFrame()
	require.NoError(t, err)
	require.Len(t, traj, 3)
	require.InDeltaSlice(t, []float64{0, 0}, traj[0].T, 1e-6)
	require.InDeltaSlice(t, []float64{1, 0}, traj[1].T, 1e-6)
	require.InDeltaSlice(t, []float64{1, 1}, traj[2].T, 1e-6)
}

func TestAgentAddMeasurementRejectedOutsideWaitForData(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	require.NoError(t, a.AddMeasurement(odomEdge(0, 1, []float64{1, 0})))
	require.NoError(t, a.Initialize(nil))

	err = a.AddMeasurement(odomEdge(1, 2, []float64{0, 1}))
	require.ErrorIs(t, err, ErrWrongState)
}

func TestAgentResetReturnsToWaitForData(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	require.NoError(t, a.AddMeasurement(odomEdge(0, 1, []float64{1, 0})))
	require.NoError(t, a.Initialize(nil))
	require.Equal(t, Initialized, a.GetStatus().State)

	require.NoError(t, a.Reset())
	status := a.GetStatus()
	require.Equal(t, WaitForData, status.State)
	require.Equal(t, 1, status.InstanceNumber)
	require.Equal(t, 0, status.IterationNumber)

	// AddMeasurement is accepted again once back in WAIT_FOR_DATA; the
	// graph is retained across Reset, so this edge extends it.
	require.NoError(t, a.AddMeasurement(odomEdge(1, 2, []float64{0, 1})))
}

func TestAgentOutlierRejectedUnderGNC(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	cfg.AccelerationEnabled = false
	cfg.GNCCostType = robust.TLS
	cfg.GNCBarc2 = 1.0
	cfg.GNCEpsReject = 0.1
	cfg.GNCEpsAccept = 0.1
	cfg.RobustOptInnerIters = 1
	cfg.RobustOptWarmStart = true
	a, err := NewAgent(cfg)
	require.NoError(t, err)

	require.NoError(t, a.AddMeasurement(odomEdge(0, 1, []float64{1, 0})))
	require.NoError(t, a.AddMeasurement(odomEdge(1, 2, []float64{0, 1})))

	good := &posegraph.RelativeSEMeasurement{
		R1: 0, R2: 0, P1: 2, P2: 0,
		Rhat: identity2(), That: []float64{-1, -1},
		Kappa: 10, Tau: 10, Weight: 1,
	}
	bad := &posegraph.RelativeSEMeasurement{
		R1: 0, R2: 0, P1: 0, P2: 2,
		Rhat: identity2(), That: []float64{5, 5},
		Kappa: 10, Tau: 10, Weight: 1,
	}
	require.NoError(t, a.AddMeasurement(good))
	require.NoError(t, a.AddMeasurement(bad))

	require.NoError(t, a.Initialize(nil))

	for i := 0; i < 60; i++ {
		require.NoError(t, a.Iterate(true))
	}

	require.Equal(t, posegraph.StatusRejected, bad.Status)
	require.Less(t, bad.Weight, cfg.GNCEpsReject)
	require.Equal(t, posegraph.StatusAccepted, good.Status)
	require.Greater(t, good.Weight, 1-cfg.GNCEpsAccept)
}

package agent

import (
	"testing"

	"github.com/adthoms/dpgo/pose"
	"github.com/adthoms/dpgo/posegraph"
	"github.com/stretchr/testify/require"
)

func sharedLoopClosure() *posegraph.RelativeSEMeasurement {
	return &posegraph.RelativeSEMeasurement{
		R1: 0, R2: 1, P1: 0, P2: 0,
		Rhat: identity2(), That: []float64{2, 0},
		Kappa: 10, Tau: 10, Weight: 1,
	}
}

// TestAgentTwoRobotStarAlignment exercises the robot-0-anchored star
// topology: robot 0 initializes straight to INITIALIZED (it defines the
// team frame), robot 1 stays WAIT_FOR_INITIALIZATION until it receives
// robot 0's public pose and aligns via the shared loop closure.
func TestAgentTwoRobotStarAlignment(t *testing.T) {
	cfg0 := DefaultConfig(0, 2, 2, 2)
	r0, err := NewAgent(cfg0)
	require.NoError(t, err)
	require.NoError(t, r0.AddMeasurement(sharedLoopClosure()))
	originPoses := []*pose.RigidPose{mustIdentityPose(t)}
	require.NoError(t, r0.Initialize(originPoses))
	require.Equal(t, Initialized, r0.GetStatus().State)

	cfg1 := DefaultConfig(1, 2, 2, 2)
	r1, err := NewAgent(cfg1)
	require.NoError(t, err)
	require.NoError(t, r1.SetLiftingMatrix(identity2()))
	require.NoError(t, r1.AddMeasurement(sharedLoopClosure()))
	require.NoError(t, r1.Initialize([]*pose.RigidPose{mustIdentityPose(t)}))
	require.Equal(t, WaitForInitialization, r1.GetStatus().State)

	sharedDict, err := r0.GetSharedPoseDict()
	require.NoError(t, err)
	require.Len(t, sharedDict, 1)

	require.NoError(t, r1.UpdateNeighborPoses(0, sharedDict))
	require.Equal(t, Initialized, r1.GetStatus().State)

	traj, err := r1.GetTrajectoryInGlobalFrame()
	require.NoError(t, err)
	require.Len(t, traj, 1)
	require.InDeltaSlice(t, []float64{2, 0}, traj[0].T, 1e-6)
}

func mustIdentityPose(t *testing.T) *pose.RigidPose {
	t.Helper()
	p, err := pose.IdentityRigidPose(2)
	require.NoError(t, err)
	return p
}

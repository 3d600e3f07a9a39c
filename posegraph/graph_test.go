package posegraph

import (
	"testing"

	"github.com/adthoms/dpgo/pose"
	"github.com/stretchr/testify/require"
	"gonum.org/x/gonum/mat"
)

func identity2() *mat.Dense {
	return mat.NewDense(2, 2, []float64{1, 0, 0, 1})
}

func odometryEdge(p1, p2 int) *RelativeSEMeasurement {
	return &RelativeSEMeasurement{
		R1: 0, R2: 0, P1: p1, P2: p2,
		Rhat: identity2(), That: []float64{1, 0},
		Kappa: 10, Tau: 10, Weight: 1, FixedWeight: true,
	}
}

func sharedEdge(myP, theirRobot, theirP int) *RelativeSEMeasurement {
	return &RelativeSEMeasurement{
		R1: 0, R2: theirRobot, P1: myP, P2: theirP,
		Rhat: identity2(), That: []float64{0, 1},
		Kappa: 5, Tau: 5, Weight: 1,
	}
}

func TestAddMeasurementPartitionsByType(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)

	require.NoError(t, g.AddMeasurement(odometryEdge(0, 1)))
	require.Len(t, g.Odometry(), 1)

	priv := &RelativeSEMeasurement{R1: 0, R2: 0, P1: 0, P2: 2, Rhat: identity2(), That: []float64{1, 1}, Kappa: 1, Tau: 1, Weight: 1}
	require.NoError(t, g.AddMeasurement(priv))
	require.Len(t, g.PrivateLoopClosures(), 1)

	require.NoError(t, g.AddMeasurement(sharedEdge(1, 1, 0)))
	require.Len(t, g.SharedLoopClosures(), 1)

	require.Equal(t, 3, g.NumPoses())
}

func TestAddMeasurementRejectsDimensionMismatch(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)
	bad := &RelativeSEMeasurement{R1: 0, R2: 0, P1: 0, P2: 1, Rhat: mat.NewDense(3, 3, nil), That: []float64{0, 0, 0}, Kappa: 1, Tau: 1, Weight: 1}
	require.ErrorIs(t, g.AddMeasurement(bad), ErrDimensionMismatch)
}

func TestNeighborPoseIDsReflectSharedEdges(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)
	require.NoError(t, g.AddMeasurement(sharedEdge(0, 1, 4)))

	mine := g.MyPublicPoseIDs()
	require.Equal(t, []pose.PoseID{{RobotID: 0, FrameID: 0}}, mine)

	theirs := g.NeighborPublicPoseIDs()
	require.Equal(t, []pose.PoseID{{RobotID: 1, FrameID: 4}}, theirs)
}

func TestCacheInvalidatedOnAddMeasurement(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)
	require.NoError(t, g.AddMeasurement(odometryEdge(0, 1)))
	_, err = g.Q()
	require.NoError(t, err)
	require.True(t, g.CacheValid())

	require.NoError(t, g.AddMeasurement(odometryEdge(1, 2)))
	require.False(t, g.CacheValid())
}

func TestQOnEmptyGraphIsDegenerate(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)
	_, err = g.Q()
	require.ErrorIs(t, err, ErrDegenerateGraph)
}

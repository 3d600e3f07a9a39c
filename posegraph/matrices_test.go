package posegraph

import (
	"testing"

	"github.com/adthoms/dpgo/pose"
	"github.com/stretchr/testify/require"
)

func TestQGShapesWithNeighborColumns(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)
	require.NoError(t, g.AddMeasurement(odometryEdge(0, 1)))
	require.NoError(t, g.AddMeasurement(sharedEdge(1, 1, 7)))

	q, err := g.Q()
	require.NoError(t, err)
	r, c := q.Dims()
	require.Equal(t, 2*3, r) // numPoses=2, block=d+1=3
	require.Equal(t, 2*3, c)

	gm, err := g.G()
	require.NoError(t, err)
	gr, gc := gm.Dims()
	require.Equal(t, 2*3, gr)
	require.Equal(t, 1*3, gc) // one distinct neighbor

	idx, err := g.NeighborIndex()
	require.NoError(t, err)
	require.Equal(t, 0, idx[pose.PoseID{RobotID: 1, FrameID: 7}])
}

func TestQIgnoresZeroWeightEdges(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)
	e := odometryEdge(0, 1)
	e.FixedWeight = false
	e.Weight = 0
	require.NoError(t, g.AddMeasurement(e))
	require.NoError(t, g.AddMeasurement(odometryEdge(1, 2)))

	q, err := g.Q()
	require.NoError(t, err)
	// The zero-weight edge between poses 0 and 1 contributes nothing, so
	// pose 0's diagonal block stays at zero.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, 0.0, q.At(i, j))
		}
	}
}

func TestInvalidateCacheClearsNeighborIndex(t *testing.T) {
	g, err := NewPoseGraph(0, 2, 2)
	require.NoError(t, err)
	require.NoError(t, g.AddMeasurement(sharedEdge(0, 1, 2)))
	_, err = g.NeighborIndex()
	require.NoError(t, err)

	g.InvalidateCache()
	require.False(t, g.CacheValid())
	require.Nil(t, g.neighborIx)
	_, err = g.Q()
	require.NoError(t, err)
	require.True(t, g.CacheValid())
}

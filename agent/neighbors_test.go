package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSharedPoseDictEmptyBeforeInitialize(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)

	dict, err := a.GetSharedPoseDict()
	require.NoError(t, err)
	require.Empty(t, dict)
}

func TestGetAuxSharedPoseDictEmptyBeforeInitialize(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)

	dict, err := a.GetAuxSharedPoseDict()
	require.NoError(t, err)
	require.Empty(t, dict)
}

func TestUpdateNeighborPosesIgnoredOutsideWaitForInitialization(t *testing.T) {
	cfg := DefaultConfig(0, 2, 2, 1)
	a, err := NewAgent(cfg)
	require.NoError(t, err)
	require.NoError(t, a.AddMeasurement(odomEdge(0, 1, []float64{1, 0})))
	require.NoError(t, a.Initialize(nil))
	require.Equal(t, Initialized, a.GetStatus().State)

	require.NoError(t, a.UpdateNeighborPoses(1, nil))
	require.Equal(t, Initialized, a.GetStatus().State)
}

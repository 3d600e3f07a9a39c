package agent

import (
	"testing"

	"github.com/adthoms/dpgo/robust"
	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	require.Equal(t, "WAIT_FOR_DATA", WaitForData.String())
	require.Equal(t, "WAIT_FOR_INITIALIZATION", WaitForInitialization.String())
	require.Equal(t, "INITIALIZED", Initialized.String())
	require.Equal(t, "UNKNOWN", State(99).String())
}

func TestDefaultConfigPopulatesTunables(t *testing.T) {
	cfg := DefaultConfig(2, 4, 3, 5)
	require.Equal(t, 2, cfg.RobotID)
	require.Equal(t, 4, cfg.RankR)
	require.Equal(t, 3, cfg.DimD)
	require.Equal(t, 5, cfg.NumRobots)
	require.Equal(t, robust.L2, cfg.GNCCostType)
	require.True(t, cfg.AccelerationEnabled)
	require.Equal(t, DefaultExecutorRateHz, cfg.ExecutorRateHz)
}

func TestNewAgentRejectsBadRankOrDimension(t *testing.T) {
	cfg := DefaultConfig(0, 1, 2, 1) // r < d
	_, err := NewAgent(cfg)
	require.Error(t, err)

	cfg2 := DefaultConfig(0, 4, 4, 1) // d not in {2,3}
	_, err = NewAgent(cfg2)
	require.Error(t, err)
}

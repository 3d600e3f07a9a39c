package agent

import (
	"context"
	"sync"

	"github.com/adthoms/dpgo/manifold"
	"github.com/adthoms/dpgo/pose"
	"github.com/adthoms/dpgo/posegraph"
	"github.com/adthoms/dpgo/robust"
	"gonum.org/x/gonum/mat"
)

// Agent is the per-robot computational core: it owns a local pose graph,
// the current lifted trajectory iterate, and the neighbor state needed to
// align with other robots. Three RWMutexes guard disjoint state and are
// always acquired in the order poses -> measurements -> neighborPoses when
// more than one is needed, so no two goroutines can deadlock by taking
// them in opposite orders.
type Agent struct {
	config Config

	posesMu      sync.RWMutex
	x, y, v, xPrev, xInit *pose.LiftedPoseArray
	liftingMatrix *mat.Dense // r x d, set once by robot 0, immutable until reset
	globalAnchor  *pose.LiftedPose
	gamma, alpha  float64

	measurementsMu sync.RWMutex
	graph          *posegraph.PoseGraph
	gnc            *robust.Cost

	neighborMu          sync.RWMutex
	neighborPoseDict    map[pose.PoseID]*pose.LiftedPose
	neighborAuxPoseDict map[pose.PoseID]*pose.LiftedPose
	neighborStatus      map[int]Status

	stateMu               sync.RWMutex
	state                 State
	instanceNumber        int
	iterationNumber       int
	readyToTerminate      bool
	relativeChange        float64
	lastConvergedFraction float64

	manifold *manifold.ProductManifold

	executorMu     sync.Mutex
	executorCancel context.CancelFunc
	executorDone   chan struct{}
}

// NewAgent constructs an agent in WAIT_FOR_DATA with an empty pose graph.
func NewAgent(cfg Config) (*Agent, error) {
	if cfg.DimD != 2 && cfg.DimD != 3 {
		return nil, pose.ErrDimension
	}
	if cfg.RankR < cfg.DimD {
		return nil, pose.ErrRankTooSmall
	}
	graph, err := posegraph.NewPoseGraph(cfg.RobotID, cfg.RankR, cfg.DimD)
	if err != nil {
		return nil, err
	}
	gnc, err := robust.NewCost(cfg.GNCCostType, cfg.GNCBarc2, cfg.GNCEpsReject, cfg.GNCEpsAccept)
	if err != nil {
		return nil, err
	}
	return &Agent{
		config:              cfg,
		graph:               graph,
		gnc:                 gnc,
		neighborPoseDict:    make(map[pose.PoseID]*pose.LiftedPose),
		neighborAuxPoseDict: make(map[pose.PoseID]*pose.LiftedPose),
		neighborStatus:      make(map[int]Status),
		state:               WaitForData,
		lastConvergedFraction: 1,
	}, nil
}

// GetStatus returns the current wire status under the state lock.
func (a *Agent) GetStatus() Status {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return Status{
		AgentID: a.config.RobotID, State: a.state,
		InstanceNumber: a.instanceNumber, IterationNumber: a.iterationNumber,
		ReadyToTerminate: a.readyToTerminate, RelativeChange: a.relativeChange,
	}
}

// ShouldTerminate reports this agent's own readiness. The team-wide
// termination rule (every robot INITIALIZED & readyToTerminate, or
// iterationNumber exceeding the configured maximum) is evaluated by the
// orchestrator using GetStatus/SetNeighborStatus across the team, not by a
// single agent in isolation.
func (a *Agent) ShouldTerminate() bool {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	if a.iterationNumber > a.config.MaxNumIters {
		return true
	}
	return a.state == Initialized && a.readyToTerminate
}

// SetNeighborStatus records a peer's latest status, ignoring stale reports
// that carry an older instance number than one already recorded.
func (a *Agent) SetNeighborStatus(s Status) error {
	a.neighborMu.Lock()
	defer a.neighborMu.Unlock()
	if prev, ok := a.neighborStatus[s.AgentID]; ok && s.InstanceNumber < prev.InstanceNumber {
		return nil
	}
	a.neighborStatus[s.AgentID] = s
	return nil
}

func (a *Agent) logf(format string, args ...interface{}) {
	if a.config.Logger != nil {
		a.config.Logger.Printf(format, args...)
	}
}

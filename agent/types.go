package agent

import (
	"log"
	"math/rand"

	"github.com/adthoms/dpgo/pose"
	"github.com/adthoms/dpgo/robust"
	"gonum.org/x/gonum/mat"
)

// State is one of the three agent lifecycle states.
type State int

const (
	WaitForData State = iota
	WaitForInitialization
	Initialized
)

// String renders a State for logs and wire messages.
func (s State) String() string {
	switch s {
	case WaitForData:
		return "WAIT_FOR_DATA"
	case WaitForInitialization:
		return "WAIT_FOR_INITIALIZATION"
	case Initialized:
		return "INITIALIZED"
	default:
		return "UNKNOWN"
	}
}

// Status is the wire status message agents exchange with the orchestrator
// and with each other to track team-wide initialization and termination.
type Status struct {
	AgentID          int
	State            State
	InstanceNumber   int
	IterationNumber  int
	ReadyToTerminate bool
	RelativeChange   float64
}

// PublicPoseMessage is the wire pose message carrying one of this robot's
// public poses, as a dense (r x (d+1)) block.
type PublicPoseMessage struct {
	PoseID pose.PoseID
	Block  *mat.Dense
}

// Config collects every tunable governing an agent's local optimization,
// robust estimation, acceleration, and alignment behavior, following the
// same documented-struct-of-options convention used elsewhere in this
// module rather than functional options. A nil Logger (the default)
// disables logging entirely.
type Config struct {
	RobotID int
	RankR   int
	DimD    int
	NumRobots int // team size N, used by Nesterov acceleration

	RestartInterval              int     // iterations between Nesterov restarts
	RelChangeTol                 float64 // relativeChange termination threshold
	MaxNumIters                  int
	RobustOptInnerIters          int  // reweighting cadence
	RobustOptWarmStart           bool
	RobustOptMinConvergenceRatio float64

	AccelerationEnabled bool

	// ExecutorRateHz is the background executor's mean tick rate; only
	// meaningful when AccelerationEnabled is false. Defaults to
	// DefaultExecutorRateHz when zero.
	ExecutorRateHz float64
	// ExecutorRand seeds the executor's exponential inter-tick sampler;
	// nil uses a fixed-seed source, matching ProductManifold.RandomInManifold's
	// fallback convention.
	ExecutorRand *rand.Rand

	GNCCostType  robust.CostType
	GNCBarc2     float64
	GNCEpsReject float64
	GNCEpsAccept float64

	// AlignmentMinInliers is the minimum number of candidate alignments
	// that must survive outlier rejection before a proposed frame
	// transform is accepted.
	AlignmentMinInliers int
	// AlignmentUseOneStage selects one-stage robust pose averaging over
	// the two-stage (rotation-then-translation) strategy.
	AlignmentUseOneStage bool
	// AlignmentAngleRad is the two-stage rotation-inlier angle.
	AlignmentAngleRad float64

	Logger *log.Logger
}

// DefaultConfig returns a Config with documented defaults; callers
// override individual fields.
func DefaultConfig(robotID, r, d, numRobots int) Config {
	return Config{
		RobotID: robotID, RankR: r, DimD: d, NumRobots: numRobots,
		RestartInterval: 30, RelChangeTol: 1e-4, MaxNumIters: 1000,
		RobustOptInnerIters: 10, RobustOptWarmStart: true,
		RobustOptMinConvergenceRatio: 0.8,
		AccelerationEnabled:          true,
		ExecutorRateHz:               DefaultExecutorRateHz,
		GNCCostType:                  robust.L2,
		GNCBarc2:                     1.0,
		GNCEpsReject:                 0.1,
		GNCEpsAccept:                 0.1,
		AlignmentMinInliers:          1,
		AlignmentAngleRad:            0.5,
	}
}

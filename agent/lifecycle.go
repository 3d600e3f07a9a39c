package agent

import (
	"github.com/adthoms/dpgo/manifold"
	"github.com/adthoms/dpgo/pose"
	"github.com/adthoms/dpgo/posegraph"
	"github.com/adthoms/dpgo/robust"
	"gonum.org/x/gonum/mat"
)

// AddMeasurement appends a measurement to the pose graph; valid only in
// WAIT_FOR_DATA, before the trajectory has been initialized.
func (a *Agent) AddMeasurement(m *posegraph.RelativeSEMeasurement) error {
	a.stateMu.RLock()
	state := a.state
	a.stateMu.RUnlock()
	if state != WaitForData {
		return ErrWrongState
	}
	a.measurementsMu.Lock()
	defer a.measurementsMu.Unlock()
	return a.graph.AddMeasurement(m)
}

// SetMeasurements replaces the pose graph wholesale; valid only in
// WAIT_FOR_DATA, before the trajectory has been initialized.
func (a *Agent) SetMeasurements(odom, priv, shared []*posegraph.RelativeSEMeasurement) error {
	a.stateMu.RLock()
	state := a.state
	a.stateMu.RUnlock()
	if state != WaitForData {
		return ErrWrongState
	}
	a.measurementsMu.Lock()
	defer a.measurementsMu.Unlock()
	return a.graph.SetMeasurements(odom, priv, shared)
}

// SetLiftingMatrix sets the team's shared r x d Stiefel lifting matrix.
// Required before Initialize for every robot but ID 0, which may
// originate it. Immutable once set, until Reset.
func (a *Agent) SetLiftingMatrix(yLift *mat.Dense) error {
	r, d := yLift.Dims()
	if r != a.config.RankR || d != a.config.DimD {
		return ErrDimensionMismatch
	}
	a.posesMu.Lock()
	defer a.posesMu.Unlock()
	if a.liftingMatrix != nil {
		return ErrLiftingMatrixImmutable
	}
	a.liftingMatrix = mat.DenseCopyOf(yLift)
	return nil
}

// SetGlobalAnchor sets the team's common reference frame.
func (a *Agent) SetGlobalAnchor(anchor *pose.LiftedPose) error {
	if anchor.R != a.config.RankR || anchor.D != a.config.DimD {
		return ErrDimensionMismatch
	}
	a.posesMu.Lock()
	defer a.posesMu.Unlock()
	a.globalAnchor = anchor
	return nil
}

// defaultLiftingMatrix returns the canonical [I_d; 0] embedding of SO(d)
// into St(d,r), used only by robot 0 when no lifting matrix was supplied
// externally.
func defaultLiftingMatrix(r, d int) *mat.Dense {
	m := mat.NewDense(r, d, nil)
	for i := 0; i < d; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Initialize computes this robot's local initialization and transitions
// state. If tInit is nil, chordal initialization is used for the L2 cost
// and odometry-chain integration otherwise.
func (a *Agent) Initialize(tInit []*pose.RigidPose) error {
	a.stateMu.RLock()
	state := a.state
	a.stateMu.RUnlock()
	if state != WaitForData {
		return ErrWrongState
	}

	a.posesMu.Lock()
	defer a.posesMu.Unlock()

	if a.liftingMatrix == nil {
		if a.config.RobotID != 0 {
			return ErrLiftingMatrixNotSet
		}
		a.liftingMatrix = defaultLiftingMatrix(a.config.RankR, a.config.DimD)
	}

	a.measurementsMu.RLock()
	n := a.graph.NumPoses()
	var err error
	rigid := tInit
	if rigid == nil {
		if a.config.GNCCostType == robust.L2 {
			rigid, err = a.graph.ChordalInitialize()
		} else {
			rigid, err = a.graph.IntegrateOdometryChain()
		}
	}
	a.measurementsMu.RUnlock()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoPoses
	}

	x, err := liftTrajectory(rigid, a.liftingMatrix, a.config.RankR)
	if err != nil {
		return err
	}

	a.x = x
	a.xInit = x.Clone()
	a.xPrev = x.Clone()
	a.y = x.Clone()
	a.v = x.Clone()
	a.gamma = 0
	a.alpha = 0

	m, err := manifold.NewProductManifold(a.config.RankR, a.config.DimD, n)
	if err != nil {
		return err
	}
	a.manifold = m

	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if a.config.RobotID == 0 || a.config.NumRobots <= 1 {
		a.state = Initialized
	} else {
		a.state = WaitForInitialization
	}
	return nil
}

// liftTrajectory computes X <- YLift * T block-wise.
func liftTrajectory(rigid []*pose.RigidPose, yLift *mat.Dense, r int) (*pose.LiftedPoseArray, error) {
	n := len(rigid)
	d := yLift.RawMatrix().Cols
	out, err := pose.NewLiftedPoseArray(r, d, n)
	if err != nil {
		return nil, err
	}
	for i, rp := range rigid {
		var y mat.Dense
		y.Mul(yLift, rp.R)
		p := make([]float64, r)
		var pv mat.VecDense
		pv.MulVec(yLift, mat.NewVecDense(d, rp.T))
		for k := 0; k < r; k++ {
			p[k] = pv.AtVec(k)
		}
		lp := &pose.LiftedPose{R: r, D: d, Y: mat.DenseCopyOf(&y), P: p}
		if err := out.SetPose(i, lp); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Reset returns the agent to WAIT_FOR_DATA, bumping instanceNumber and
// zeroing iterationNumber, retaining the pose graph and lifting matrix but
// clearing every iterate and neighbor dictionary. Stops any running
// background executor first.
func (a *Agent) Reset() error {
	a.EndOptimizationLoop()

	a.posesMu.Lock()
	a.x, a.y, a.v, a.xPrev, a.xInit = nil, nil, nil, nil, nil
	a.globalAnchor = nil
	a.gamma, a.alpha = 0, 0
	a.posesMu.Unlock()

	a.measurementsMu.Lock()
	a.graph.InvalidateCache()
	gnc, err := robust.NewCost(a.config.GNCCostType, a.config.GNCBarc2, a.config.GNCEpsReject, a.config.GNCEpsAccept)
	if err == nil {
		a.gnc = gnc
	}
	a.lastConvergedFraction = 1
	a.measurementsMu.Unlock()

	a.neighborMu.Lock()
	a.neighborPoseDict = make(map[pose.PoseID]*pose.LiftedPose)
	a.neighborAuxPoseDict = make(map[pose.PoseID]*pose.LiftedPose)
	a.neighborStatus = make(map[int]Status)
	a.neighborMu.Unlock()

	a.stateMu.Lock()
	a.state = WaitForData
	a.instanceNumber++
	a.iterationNumber = 0
	a.readyToTerminate = false
	a.relativeChange = 0
	a.stateMu.Unlock()

	return nil
}

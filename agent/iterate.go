package agent

import (
	"math"

	"github.com/adthoms/dpgo/optimizer"
	"github.com/adthoms/dpgo/pose"
	"github.com/adthoms/dpgo/problem"
	"github.com/adthoms/dpgo/robust"
	"gonum.org/x/gonum/floats"
	"gonum.org/x/gonum/mat"
)

// Iterate runs one round of the iteration engine. doOpt selects whether
// this tick actually advances the optimizer or only advances momentum (a
// "dry" tick, used to keep acceleration state moving between ticks that
// do real work).
func (a *Agent) Iterate(doOpt bool) error {
	a.maybeReweight()

	a.stateMu.RLock()
	state := a.state
	a.stateMu.RUnlock()

	success := true
	if state == Initialized {
		var err error
		success, err = a.advance(doOpt)
		if err != nil {
			return err
		}
	}

	relChange := a.computeRelativeChange()
	a.stateMu.Lock()
	a.relativeChange = relChange
	a.readyToTerminate = success &&
		relChange <= a.config.RelChangeTol &&
		a.lastConvergedFraction >= a.config.RobustOptMinConvergenceRatio
	a.iterationNumber++
	a.stateMu.Unlock()
	return nil
}

// advance performs one accelerated or vanilla block update of this
// robot's own poses. Returns whether optimization succeeded; it is false
// when the local subproblem could not be built or solved, in which case X
// keeps its value from before the update (the acceleration state is still
// advanced).
func (a *Agent) advance(doOpt bool) (bool, error) {
	a.posesMu.Lock()
	defer a.posesMu.Unlock()

	a.xPrev = a.x.Clone()

	if !a.config.AccelerationEnabled {
		if !doOpt {
			return true, nil
		}
		xNew, ok, err := a.updateX(a.x)
		if err != nil {
			return false, err
		}
		if ok {
			a.x = xNew
		}
		return ok, nil
	}

	n := float64(a.config.NumRobots)
	if n < 1 {
		n = 1
	}
	gammaNext := (1 + math.Sqrt(1+4*n*n*a.gamma*a.gamma)) / (2 * n)
	alpha := 1 / (gammaNext * n)

	combined := weightedSum(1-alpha, a.x, alpha, a.v)
	yProj, err := a.manifold.Project(combined)
	if err != nil {
		return false, err
	}
	a.y = yProj

	var xNew *pose.LiftedPoseArray
	ok := true
	if doOpt {
		xNew, ok, err = a.updateX(a.y)
		if err != nil {
			return false, err
		}
		if !ok {
			xNew = a.x
		}
	} else {
		xNew = a.y
	}
	a.x = xNew

	vCombined := weightedSum(1, a.v, gammaNext, weightedSum(1, a.x, -1, a.y))
	vProj, err := a.manifold.Project(vCombined)
	if err != nil {
		return false, err
	}
	a.v = vProj
	a.gamma = gammaNext
	a.alpha = alpha

	if a.config.RestartInterval > 0 && a.iterationNumber > 0 && a.iterationNumber%a.config.RestartInterval == 0 {
		a.x = a.xPrev.Clone()
		xRestart, restartOK, err := a.updateX(a.x)
		if err != nil {
			return false, err
		}
		if restartOK {
			a.x = xRestart
		}
		ok = ok && restartOK
		a.v = a.x.Clone()
		a.y = a.x.Clone()
		a.gamma, a.alpha = 0, 0
	}

	return ok, nil
}

// updateX solves the local quadratic subproblem from x0 via RTR with the
// distributed preset: a single outer iteration per tick, which bounds the
// work done per round and still guarantees forward progress. Returns
// ok=false without error when the data matrices, the quadratic problem or
// the RTR solve fail, in which case the caller keeps its current iterate.
func (a *Agent) updateX(x0 *pose.LiftedPoseArray) (*pose.LiftedPoseArray, bool, error) {
	a.measurementsMu.RLock()
	q, err := a.graph.Q()
	var g, xn *mat.Dense
	if err == nil {
		g, _ = a.graph.G()
		if g != nil {
			xn, err = a.buildNeighborMatrixLocked()
		}
	}
	a.measurementsMu.RUnlock()
	if err != nil {
		a.logf("agent %d: data-matrix construction failed, skipping optimization: %v", a.config.RobotID, err)
		return x0, false, nil
	}

	qp, err := problem.NewQuadraticProblem(q, g, xn, a.manifold)
	if err != nil {
		a.logf("agent %d: quadratic problem construction failed: %v", a.config.RobotID, err)
		return x0, false, nil
	}
	adapter := problem.Adapter{QuadraticProblem: qp}
	xNew, _, err := optimizer.RTR(adapter, x0, optimizer.DistributedRTROptions())
	if err != nil {
		return x0, false, nil
	}
	return xNew, true, nil
}

// buildNeighborMatrixLocked assembles the (r x k(d+1)) neighbor snapshot
// matrix in the column order graph.NeighborIndex() expects. Caller must
// hold measurementsMu and posesMu is not required (neighborMu is taken
// internally).
func (a *Agent) buildNeighborMatrixLocked() (*mat.Dense, error) {
	idx, err := a.graph.NeighborIndex()
	if err != nil {
		return nil, err
	}
	r := a.config.RankR
	d := a.config.DimD
	k := len(idx)
	out := mat.NewDense(r, k*(d+1), nil)

	a.neighborMu.RLock()
	defer a.neighborMu.RUnlock()
	for id, col := range idx {
		lp, ok := a.neighborPoseDict[id]
		if !ok {
			continue // no snapshot yet for this neighbor; treated as unavailable this round
		}
		for row := 0; row < r; row++ {
			for c := 0; c < d; c++ {
				out.Set(row, col*(d+1)+c, lp.Y.At(row, c))
			}
			out.Set(row, col*(d+1)+d, lp.P[row])
		}
	}
	return out, nil
}

// maybeReweight runs the GNC reweighting pass every RobustOptInnerIters
// agent iterations, provided the configured cost is not plain L2 (which
// has no outlier weights to update).
func (a *Agent) maybeReweight() {
	a.stateMu.RLock()
	iter := a.iterationNumber
	a.stateMu.RUnlock()

	a.measurementsMu.RLock()
	costType := a.gnc.Type
	a.measurementsMu.RUnlock()
	if costType == robust.L2 {
		a.stateMu.Lock()
		a.lastConvergedFraction = 1
		a.stateMu.Unlock()
		return
	}
	if a.config.RobustOptInnerIters <= 0 || iter%a.config.RobustOptInnerIters != 0 || iter == 0 {
		return
	}

	// Snapshot poses/liftingMatrix before taking measurementsMu, preserving
	// the poses -> measurements -> neighborPoses lock order.
	a.posesMu.RLock()
	x := a.x
	liftingMatrix := a.liftingMatrix
	a.posesMu.RUnlock()

	a.measurementsMu.Lock()
	residuals := a.computeResidualsLocked(x, liftingMatrix)
	maxR2 := 0.0
	for _, r := range residuals {
		if r.ResidualSquared > maxR2 {
			maxR2 = r.ResidualSquared
		}
	}
	if a.gnc.Mu == math.Inf(1) {
		a.gnc.InitializeSchedule(maxR2)
	}
	frac := a.gnc.ReweightAll(residuals)
	a.gnc.Update()
	a.graph.InvalidateCache()
	a.measurementsMu.Unlock()

	a.stateMu.Lock()
	a.lastConvergedFraction = frac
	a.stateMu.Unlock()

	if !a.config.RobustOptWarmStart {
		a.posesMu.Lock()
		if a.xInit != nil {
			a.x = a.xInit.Clone()
			a.v = a.xInit.Clone()
			a.y = a.xInit.Clone()
			a.gamma, a.alpha = 0, 0
		}
		a.posesMu.Unlock()
	}
}

// computeResidualsLocked computes each measurement's squared chordal +
// translation residual under the current iterate. Caller must hold
// measurementsMu and supply a consistent (x, liftingMatrix) snapshot taken
// before measurementsMu was acquired, preserving the poses -> measurements
// -> neighborPoses lock order; neighborMu is acquired here.
func (a *Agent) computeResidualsLocked(x *pose.LiftedPoseArray, liftingMatrix *mat.Dense) []robust.EdgeResidual {
	if x == nil || liftingMatrix == nil {
		return nil
	}

	a.neighborMu.RLock()
	defer a.neighborMu.RUnlock()

	var out []robust.EdgeResidual
	for _, m := range a.graph.AllMeasurements() {
		if m.FixedWeight || m.KnownInlier {
			continue
		}
		var ownFrame int
		var otherRigid *pose.RigidPose
		available := true
		if m.R1 == a.config.RobotID && m.R2 == a.config.RobotID {
			ownFrame = m.P1
			lp, err := x.Pose(m.P2)
			if err != nil {
				available = false
			} else {
				otherRigid, _ = unliftToRigid(liftingMatrix, lp)
			}
		} else if m.R1 == a.config.RobotID {
			ownFrame = m.P1
			nlp, ok := a.neighborPoseDict[pose.PoseID{RobotID: m.R2, FrameID: m.P2}]
			if !ok {
				available = false
			} else {
				otherRigid, _ = unliftToRigid(liftingMatrix, nlp)
			}
		} else {
			ownFrame = m.P2
			nlp, ok := a.neighborPoseDict[pose.PoseID{RobotID: m.R1, FrameID: m.P1}]
			if !ok {
				available = false
			} else {
				otherRigid, _ = unliftToRigid(liftingMatrix, nlp)
			}
		}
		if !available || otherRigid == nil {
			out = append(out, robust.EdgeResidual{Measurement: m, Available: false})
			continue
		}
		ownLP, err := x.Pose(ownFrame)
		if err != nil {
			out = append(out, robust.EdgeResidual{Measurement: m, Available: false})
			continue
		}
		ownRigid, err := unliftToRigid(liftingMatrix, ownLP)
		if err != nil {
			out = append(out, robust.EdgeResidual{Measurement: m, Available: false})
			continue
		}

		var predicted *pose.RigidPose
		var measured *pose.RigidPose
		if m.R1 == a.config.RobotID {
			predicted, _ = ownRigid.Inverse().Compose(otherRigid)
			measured, _ = pose.NewRigidPose(m.Rhat, m.That)
		} else {
			predicted, _ = otherRigid.Inverse().Compose(ownRigid)
			measured, _ = pose.NewRigidPose(m.Rhat, m.That)
		}
		res2 := chordalAndTranslationResidual(predicted, measured)
		out = append(out, robust.EdgeResidual{Measurement: m, ResidualSquared: res2, Available: true})
	}
	return out
}

func chordalAndTranslationResidual(predicted, measured *pose.RigidPose) float64 {
	d := predicted.D
	var rDiff float64
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			diff := predicted.R.At(i, j) - measured.R.At(i, j)
			rDiff += diff * diff
		}
	}
	var tDiff float64
	for i := 0; i < d; i++ {
		diff := predicted.T[i] - measured.T[i]
		tDiff += diff * diff
	}
	return rDiff + tDiff
}

// computeRelativeChange returns mean‖t_i - t_i_prev‖ over all own poses,
// using gonum/floats for the per-pose norm. This is the convergence
// signal Iterate compares against RelChangeTol.
func (a *Agent) computeRelativeChange() float64 {
	a.posesMu.RLock()
	defer a.posesMu.RUnlock()
	if a.x == nil || a.xPrev == nil {
		return 0
	}
	cur := a.x.Translations()
	prev := a.xPrev.Translations()
	if len(cur) != len(prev) || len(cur) == 0 {
		return 0
	}
	var sum float64
	for i := range cur {
		diff := make([]float64, len(cur[i]))
		floats.SubTo(diff, cur[i], prev[i])
		sum += floats.Norm(diff, 2)
	}
	return sum / float64(len(cur))
}

// weightedSum returns alpha*a + beta*b element-wise over the backing
// matrices; shapes must match.
func weightedSum(alpha float64, a *pose.LiftedPoseArray, beta float64, b *pose.LiftedPoseArray) *pose.LiftedPoseArray {
	am, bm := a.Matrix(), b.Matrix()
	r, c := am.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, alpha*am.At(i, j)+beta*bm.At(i, j))
		}
	}
	arr, _ := pose.LiftedPoseArrayFromDense(out, a.R(), a.D(), a.N())
	return arr
}

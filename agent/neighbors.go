package agent

import (
	"github.com/adthoms/dpgo/align"
	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// UpdateNeighborPoses merges a neighbor's public-pose snapshot and, if this
// agent is WAIT_FOR_INITIALIZATION, attempts robust frame alignment.
func (a *Agent) UpdateNeighborPoses(neighborID int, dict map[pose.PoseID]*pose.LiftedPose) error {
	a.neighborMu.Lock()
	for id, lp := range dict {
		if id.RobotID != neighborID {
			continue
		}
		a.neighborPoseDict[id] = lp
	}
	a.neighborMu.Unlock()

	a.stateMu.RLock()
	state := a.state
	a.stateMu.RUnlock()
	if state != WaitForInitialization {
		return nil
	}
	return a.tryRobustAlignment()
}

// UpdateAuxNeighborPoses merges a neighbor's auxiliary (Nesterov Y)
// snapshot; never triggers alignment. The auxiliary snapshot is stored
// only: initialization and the iterate loop read the primary snapshot.
func (a *Agent) UpdateAuxNeighborPoses(neighborID int, dict map[pose.PoseID]*pose.LiftedPose) error {
	a.neighborMu.Lock()
	defer a.neighborMu.Unlock()
	for id, lp := range dict {
		if id.RobotID != neighborID {
			continue
		}
		a.neighborAuxPoseDict[id] = lp
	}
	return nil
}

// tryRobustAlignment computes one candidate transform per shared loop
// closure whose neighbor pose is available, runs the configured robust
// averaging strategy, and on acceptance rewrites every internal iterate
// into the team frame and transitions to INITIALIZED.
func (a *Agent) tryRobustAlignment() error {
	a.posesMu.Lock()
	defer a.posesMu.Unlock()
	a.measurementsMu.RLock()
	shared := a.graph.SharedLoopClosures()
	a.measurementsMu.RUnlock()

	if a.x == nil || a.liftingMatrix == nil {
		return nil
	}

	a.neighborMu.RLock()
	var candidates []*align.Candidate
	for _, m := range shared {
		var ownFrame, neighborID, neighborFrame int
		ownIsSource := m.R1 == a.config.RobotID
		if ownIsSource {
			ownFrame, neighborID, neighborFrame = m.P1, m.R2, m.P2
		} else {
			ownFrame, neighborID, neighborFrame = m.P2, m.R1, m.P1
		}
		neighborLP, ok := a.neighborPoseDict[pose.PoseID{RobotID: neighborID, FrameID: neighborFrame}]
		if !ok {
			continue
		}
		ownLP, err := a.x.Pose(ownFrame)
		if err != nil {
			continue
		}
		localFrame, err := unliftToRigid(a.liftingMatrix, ownLP)
		if err != nil {
			continue
		}
		worldJFrame, err := unliftToRigid(a.liftingMatrix, neighborLP)
		if err != nil {
			continue
		}
		measured, err := pose.NewRigidPose(m.Rhat, m.That)
		if err != nil {
			continue
		}
		// dR is the local->neighbor transform; measured already is that
		// direction when this robot is the edge's source, and its inverse
		// otherwise.
		dR := measured
		if !ownIsSource {
			dR = measured.Inverse()
		}
		cand, err := align.ComputeCandidate(worldJFrame, dR, localFrame)
		if err != nil {
			continue
		}
		candidates = append(candidates, cand)
	}
	a.neighborMu.RUnlock()

	if len(candidates) == 0 {
		return nil
	}

	var result align.Result
	var err error
	if a.config.AlignmentUseOneStage {
		result, err = align.OneStagePoseAverage(candidates, a.config.AlignmentMinInliers)
	} else {
		result, err = align.TwoStageAverage(candidates, a.config.AlignmentAngleRad, a.config.AlignmentMinInliers)
	}
	if err != nil || !result.Accepted {
		return err
	}

	transform := result.Pose
	for _, arr := range []*pose.LiftedPoseArray{a.x, a.xInit, a.xPrev, a.y, a.v} {
		if arr == nil {
			continue
		}
		if err := applyRigidTransform(arr, a.liftingMatrix, transform); err != nil {
			return err
		}
	}

	a.stateMu.Lock()
	a.state = Initialized
	a.stateMu.Unlock()
	return nil
}

// unliftToRigid recovers a RigidPose from a lifted pose via the team
// lifting matrix.
func unliftToRigid(yLift *mat.Dense, lp *pose.LiftedPose) (*pose.RigidPose, error) {
	r, err := align.UnliftRotation(yLift, lp.Y)
	if err != nil {
		return nil, err
	}
	t := align.UnliftTranslation(yLift, lp.P)
	return &pose.RigidPose{D: lp.D, R: r, T: t}, nil
}

// applyRigidTransform left-composes transform onto every own pose in arr
// (after unlifting through yLift and relifting), bringing the trajectory
// from its local frame into the team's global frame.
func applyRigidTransform(arr *pose.LiftedPoseArray, yLift *mat.Dense, transform *pose.RigidPose) error {
	for i := 0; i < arr.N(); i++ {
		lp, err := arr.Pose(i)
		if err != nil {
			return err
		}
		rigid, err := unliftToRigid(yLift, lp)
		if err != nil {
			return err
		}
		composed, err := transform.Compose(rigid)
		if err != nil {
			return err
		}
		var y mat.Dense
		y.Mul(yLift, composed.R)
		r := arr.R()
		p := make([]float64, r)
		var pv mat.VecDense
		pv.MulVec(yLift, mat.NewVecDense(arr.D(), composed.T))
		for k := 0; k < r; k++ {
			p[k] = pv.AtVec(k)
		}
		newLP := &pose.LiftedPose{R: r, D: arr.D(), Y: mat.DenseCopyOf(&y), P: p}
		if err := arr.SetPose(i, newLP); err != nil {
			return err
		}
	}
	return nil
}

// GetSharedPoseDict returns this robot's own public poses, lifted, keyed by
// PoseID.
func (a *Agent) GetSharedPoseDict() (map[pose.PoseID]*pose.LiftedPose, error) {
	a.posesMu.RLock()
	defer a.posesMu.RUnlock()
	a.measurementsMu.RLock()
	defer a.measurementsMu.RUnlock()
	out := make(map[pose.PoseID]*pose.LiftedPose)
	if a.x == nil {
		return out, nil
	}
	for _, id := range a.graph.MyPublicPoseIDs() {
		lp, err := a.x.Pose(id.FrameID)
		if err != nil {
			continue
		}
		out[id] = lp
	}
	return out, nil
}

// GetAuxSharedPoseDict returns this robot's own public auxiliary (Nesterov
// Y) poses, keyed by PoseID.
func (a *Agent) GetAuxSharedPoseDict() (map[pose.PoseID]*pose.LiftedPose, error) {
	a.posesMu.RLock()
	defer a.posesMu.RUnlock()
	a.measurementsMu.RLock()
	defer a.measurementsMu.RUnlock()
	out := make(map[pose.PoseID]*pose.LiftedPose)
	if a.y == nil {
		return out, nil
	}
	for _, id := range a.graph.MyPublicPoseIDs() {
		lp, err := a.y.Pose(id.FrameID)
		if err != nil {
			continue
		}
		out[id] = lp
	}
	return out, nil
}

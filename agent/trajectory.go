package agent

import (
	"math"

	"github.com/adthoms/dpgo/pose"
)

// trajectoryRoundingScale rounds reported SE(d) output to 1e-9 precision,
// scrubbing Stiefel/retraction numerical noise from displayed poses.
const trajectoryRoundingScale = 1e9

func roundTo(v float64) float64 {
	return math.Round(v*trajectoryRoundingScale) / trajectoryRoundingScale
}

func roundRigidPose(p *pose.RigidPose) *pose.RigidPose {
	d := p.D
	r := p.R
	t := make([]float64, d)
	for i := 0; i < d; i++ {
		t[i] = roundTo(p.T[i])
		for j := 0; j < d; j++ {
			r.Set(i, j, roundTo(r.At(i, j)))
		}
	}
	return &pose.RigidPose{D: d, R: r, T: t}
}

func (a *Agent) unliftAll() ([]*pose.RigidPose, error) {
	if a.x == nil || a.liftingMatrix == nil {
		return nil, ErrNoPoses
	}
	n := a.x.N()
	out := make([]*pose.RigidPose, n)
	for i := 0; i < n; i++ {
		lp, err := a.x.Pose(i)
		if err != nil {
			return nil, err
		}
		rp, err := unliftToRigid(a.liftingMatrix, lp)
		if err != nil {
			return nil, err
		}
		out[i] = rp
	}
	return out, nil
}

// GetTrajectoryInLocalFrame returns this robot's current trajectory
// unlifted to SE(d), pinned at the origin: the first pose's translation
// is zeroed by left-composing the inverse of pose 0 onto every pose.
func (a *Agent) GetTrajectoryInLocalFrame() ([]*pose.RigidPose, error) {
	a.posesMu.RLock()
	defer a.posesMu.RUnlock()

	rigid, err := a.unliftAll()
	if err != nil {
		return nil, err
	}
	if len(rigid) == 0 {
		return rigid, nil
	}
	origin := rigid[0].Inverse()
	out := make([]*pose.RigidPose, len(rigid))
	for i, rp := range rigid {
		composed, err := origin.Compose(rp)
		if err != nil {
			return nil, err
		}
		out[i] = roundRigidPose(composed)
	}
	return out, nil
}

// GetTrajectoryInGlobalFrame returns this robot's current trajectory
// unlifted to SE(d) and expressed in the team's global frame: each pose
// is left-composed with the global anchor, if one was set via
// SetGlobalAnchor, and passed through unmodified otherwise.
func (a *Agent) GetTrajectoryInGlobalFrame() ([]*pose.RigidPose, error) {
	a.posesMu.RLock()
	defer a.posesMu.RUnlock()

	rigid, err := a.unliftAll()
	if err != nil {
		return nil, err
	}

	var anchor *pose.RigidPose
	if a.globalAnchor != nil {
		anchor, err = unliftToRigid(a.liftingMatrix, a.globalAnchor)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*pose.RigidPose, len(rigid))
	for i, rp := range rigid {
		p := rp
		if anchor != nil {
			p, err = anchor.Compose(rp)
			if err != nil {
				return nil, err
			}
		}
		out[i] = roundRigidPose(p)
	}
	return out, nil
}

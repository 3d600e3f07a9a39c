package align

import (
	"github.com/adthoms/dpgo/pose"
)

// Candidate is one neighbor-vote estimate of this robot's pose in the
// team's global frame, derived from a single shared loop closure.
type Candidate struct {
	R *pose.RigidPose
}

// ComputeCandidate evaluates
// T_world_robot = T_world_j_frame · (T_dR)⁻¹ · T_local_frame⁻¹
// where worldJFrame is the neighbor's public pose unlifted into the team
// frame, measured is the shared loop closure's measured relative
// transform (T_dR), and localFrame is this robot's own public pose
// referenced by that closure.
func ComputeCandidate(worldJFrame, measured, localFrame *pose.RigidPose) (*Candidate, error) {
	step, err := worldJFrame.Compose(measured.Inverse())
	if err != nil {
		return nil, err
	}
	full, err := step.Compose(localFrame.Inverse())
	if err != nil {
		return nil, err
	}
	return &Candidate{R: full}, nil
}

package posegraph

import (
	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// EdgeStatus records a loop closure's GNC classification.
type EdgeStatus int

const (
	// StatusUndecided is the initial classification for every edge.
	StatusUndecided EdgeStatus = iota
	// StatusAccepted marks an edge whose weight crossed above 1-epsAccept.
	StatusAccepted
	// StatusRejected marks an edge whose weight crossed below epsReject.
	StatusRejected
)

// RelativeSEMeasurement is a relative SE(d) measurement between two poses,
// possibly on different robots.
type RelativeSEMeasurement struct {
	R1, R2 int // robot IDs
	P1, P2 int // frame IDs within each robot

	Rhat *mat.Dense // d x d, measured relative rotation
	That []float64  // length d, measured relative translation

	Kappa float64 // rotational precision
	Tau   float64 // translational precision

	Weight      float64 // current GNC weight, in [0,1]
	FixedWeight bool    // pins Weight (e.g. odometry)
	KnownInlier bool    // disables reweighting entirely

	Status EdgeStatus
}

// Endpoint1 returns the measurement's source PoseID.
func (m *RelativeSEMeasurement) Endpoint1() pose.PoseID { return pose.PoseID{RobotID: m.R1, FrameID: m.P1} }

// Endpoint2 returns the measurement's target PoseID.
func (m *RelativeSEMeasurement) Endpoint2() pose.PoseID { return pose.PoseID{RobotID: m.R2, FrameID: m.P2} }

// IsInterRobot reports whether the two endpoints belong to different robots.
func (m *RelativeSEMeasurement) IsInterRobot() bool { return m.R1 != m.R2 }

// IsOdometry reports whether this is a consecutive same-robot edge
// (P2 == P1+1), the convention used to auto-fix odometry weights.
func (m *RelativeSEMeasurement) IsOdometry() bool {
	return m.R1 == m.R2 && m.P2 == m.P1+1
}

// PrecisionFromCovariance derives (kappa, tau) from rotation and
// translation covariance matrices:
// kappa = d/(2*tr(Sigma_R)), tau = d/tr(Sigma_t).
func PrecisionFromCovariance(d int, sigmaR, sigmaT *mat.Dense) (kappa, tau float64) {
	kappa = float64(d) / (2 * trace(sigmaR))
	tau = float64(d) / trace(sigmaT)
	return kappa, tau
}

func trace(m *mat.Dense) float64 {
	n, nc := m.Dims()
	lim := n
	if nc < lim {
		lim = nc
	}
	var s float64
	for i := 0; i < lim; i++ {
		s += m.At(i, i)
	}
	return s
}

// SetWeight updates the measurement's weight, rejecting fixed-weight edges
// and out-of-range values.
func (m *RelativeSEMeasurement) SetWeight(w float64) error {
	if m.FixedWeight {
		return ErrFixedWeight
	}
	if w < 0 || w > 1 {
		return ErrBadWeight
	}
	m.Weight = w
	return nil
}

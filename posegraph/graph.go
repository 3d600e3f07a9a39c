package posegraph

import (
	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// PoseGraph owns one robot's measurements, partitioned into odometry,
// private loop closures, and shared (inter-robot) loop closures, plus the
// derived public/neighbor pose-ID sets and cached cost matrices.
type PoseGraph struct {
	RobotID int
	RankR   int
	DimD    int

	odometry            []*RelativeSEMeasurement
	privateLoopClosures []*RelativeSEMeasurement
	sharedLoopClosures  []*RelativeSEMeasurement

	numPoses int

	cacheValid bool
	cachedQ    *mat.Dense
	cachedG    *mat.Dense
	neighborIx map[pose.PoseID]int // neighbor PoseID -> column index used by cachedG
}

// NewPoseGraph constructs an empty graph for robotID at lifted rank r and
// ambient dimension d.
func NewPoseGraph(robotID, r, d int) (*PoseGraph, error) {
	if d != 2 && d != 3 {
		return nil, pose.ErrDimension
	}
	if r < d {
		return nil, pose.ErrRankTooSmall
	}
	return &PoseGraph{RobotID: robotID, RankR: r, DimD: d}, nil
}

// NumPoses returns the number of own poses referenced so far (the highest
// own-robot frame ID seen, plus one).
func (g *PoseGraph) NumPoses() int { return g.numPoses }

// Odometry, PrivateLoopClosures, and SharedLoopClosures return read-only
// views of the three measurement partitions.
func (g *PoseGraph) Odometry() []*RelativeSEMeasurement            { return g.odometry }
func (g *PoseGraph) PrivateLoopClosures() []*RelativeSEMeasurement { return g.privateLoopClosures }
func (g *PoseGraph) SharedLoopClosures() []*RelativeSEMeasurement  { return g.sharedLoopClosures }

// AllMeasurements returns all measurements across the three partitions, in
// odometry, private, shared order.
func (g *PoseGraph) AllMeasurements() []*RelativeSEMeasurement {
	out := make([]*RelativeSEMeasurement, 0, len(g.odometry)+len(g.privateLoopClosures)+len(g.sharedLoopClosures))
	out = append(out, g.odometry...)
	out = append(out, g.privateLoopClosures...)
	out = append(out, g.sharedLoopClosures...)
	return out
}

// AddMeasurement appends m to the appropriate partition (odometry, private
// loop closure, or shared loop closure), updates numPoses, and invalidates
// the cached Q/G matrices. State-machine preconditions (only callable in
// WAIT_FOR_DATA) are enforced by package agent, not here.
func (g *PoseGraph) AddMeasurement(m *RelativeSEMeasurement) error {
	d1, _ := m.Rhat.Dims()
	if d1 != g.DimD || len(m.That) != g.DimD {
		return ErrDimensionMismatch
	}
	switch {
	case !m.IsInterRobot() && m.IsOdometry():
		g.odometry = append(g.odometry, m)
	case !m.IsInterRobot():
		g.privateLoopClosures = append(g.privateLoopClosures, m)
	default:
		g.sharedLoopClosures = append(g.sharedLoopClosures, m)
	}
	if m.R1 == g.RobotID && m.P1+1 > g.numPoses {
		g.numPoses = m.P1 + 1
	}
	if m.R2 == g.RobotID && m.P2+1 > g.numPoses {
		g.numPoses = m.P2 + 1
	}
	g.cacheValid = false
	return nil
}

// SetMeasurements replaces all three partitions wholesale, recomputing
// numPoses and invalidating the cache.
func (g *PoseGraph) SetMeasurements(odom, priv, shared []*RelativeSEMeasurement) error {
	g.odometry = nil
	g.privateLoopClosures = nil
	g.sharedLoopClosures = nil
	g.numPoses = 0
	all := make([]*RelativeSEMeasurement, 0, len(odom)+len(priv)+len(shared))
	all = append(all, odom...)
	all = append(all, priv...)
	all = append(all, shared...)
	for _, m := range all {
		if err := g.AddMeasurement(m); err != nil {
			return err
		}
	}
	return nil
}

// MyPublicPoseIDs returns this robot's own poses referenced by at least one
// shared loop closure.
func (g *PoseGraph) MyPublicPoseIDs() []pose.PoseID {
	seen := make(map[pose.PoseID]bool)
	var out []pose.PoseID
	for _, m := range g.sharedLoopClosures {
		var mine pose.PoseID
		if m.R1 == g.RobotID {
			mine = m.Endpoint1()
		} else {
			mine = m.Endpoint2()
		}
		if !seen[mine] {
			seen[mine] = true
			out = append(out, mine)
		}
	}
	return out
}

// NeighborPublicPoseIDs returns the poses on other robots referenced by
// this robot's shared loop closures.
func (g *PoseGraph) NeighborPublicPoseIDs() []pose.PoseID {
	seen := make(map[pose.PoseID]bool)
	var out []pose.PoseID
	for _, m := range g.sharedLoopClosures {
		var theirs pose.PoseID
		if m.R1 == g.RobotID {
			theirs = m.Endpoint2()
		} else {
			theirs = m.Endpoint1()
		}
		if !seen[theirs] {
			seen[theirs] = true
			out = append(out, theirs)
		}
	}
	return out
}

// InvalidateCache clears the cached Q/G matrices; called by the owning
// agent whenever a measurement weight changes.
func (g *PoseGraph) InvalidateCache() {
	g.cacheValid = false
	g.cachedQ = nil
	g.cachedG = nil
	g.neighborIx = nil
}

// CacheValid reports whether cachedQ/cachedG are up to date.
func (g *PoseGraph) CacheValid() bool { return g.cacheValid }

package g2o

import (
	"log"

	"github.com/adthoms/dpgo/posegraph"
)

// Options configures Load. Use with Load(r, opts...).
type Options struct {
	// RobotID is assigned to both endpoints of every edge (g2o files
	// describe a single robot's trajectory).
	RobotID int
	// Logger receives a warning line for each rejected FIX directive.
	// nil disables logging.
	Logger *log.Logger
}

// Option configures optional behavior of Load.
type Option func(*Options)

// DefaultOptions returns Options with RobotID 0 and logging disabled.
func DefaultOptions() Options {
	return Options{RobotID: 0}
}

// WithRobotID returns an Option that assigns id to every loaded edge.
func WithRobotID(id int) Option {
	return func(o *Options) { o.RobotID = id }
}

// WithLogger returns an Option that installs l to receive FIX-rejection
// warnings during Load.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Result is the outcome of loading a g2o file: the pose count after
// reindexing, and every EDGE_SE2/EDGE_SE3:QUAT edge as a
// RelativeSEMeasurement with consecutive, 0-based pose IDs.
type Result struct {
	NumPoses     int
	Measurements []*posegraph.RelativeSEMeasurement
}

// Package g2o loads pose-graph measurements from the g2o text format
// (2D EDGE_SE2 and 3D EDGE_SE3:QUAT edges), reindexing pose IDs to a
// consecutive 0-based range when the input does not already start at 0.
package g2o

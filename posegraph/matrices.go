package posegraph

import (
	"sort"

	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// Q returns the cached (n(d+1) x n(d+1)) local quadratic cost matrix,
// rebuilding it from the current measurement weights if the cache was
// invalidated. Returns ErrDegenerateGraph if the graph has no poses or no
// measurements to build a cost from.
func (g *PoseGraph) Q() (*mat.Dense, error) {
	if err := g.ensureCache(); err != nil {
		return nil, err
	}
	return g.cachedQ, nil
}

// G returns the cached (n(d+1) x k(d+1)) neighbor-coupling matrix, where k
// is the number of distinct neighbor poses referenced by shared loop
// closures. Column blocks follow the order of NeighborIndex.
func (g *PoseGraph) G() (*mat.Dense, error) {
	if err := g.ensureCache(); err != nil {
		return nil, err
	}
	return g.cachedG, nil
}

// NeighborIndex returns the column-block order G's neighbor columns follow:
// NeighborIndex[id] is the block index (0-based) of neighbor pose id.
func (g *PoseGraph) NeighborIndex() (map[pose.PoseID]int, error) {
	if err := g.ensureCache(); err != nil {
		return nil, err
	}
	return g.neighborIx, nil
}

func (g *PoseGraph) ensureCache() error {
	if g.cacheValid {
		return nil
	}
	if g.numPoses == 0 || (len(g.odometry)+len(g.privateLoopClosures)+len(g.sharedLoopClosures) == 0) {
		return ErrDegenerateGraph
	}

	d := g.DimD
	n := g.numPoses
	block := d + 1

	neighbors := g.NeighborPublicPoseIDs()
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].RobotID != neighbors[b].RobotID {
			return neighbors[a].RobotID < neighbors[b].RobotID
		}
		return neighbors[a].FrameID < neighbors[b].FrameID
	})
	neighborIx := make(map[pose.PoseID]int, len(neighbors))
	for i, id := range neighbors {
		neighborIx[id] = i
	}
	k := len(neighbors)

	q := mat.NewDense(n*block, n*block, nil)
	var gMat *mat.Dense
	if k > 0 {
		gMat = mat.NewDense(n*block, k*block, nil)
	}

	for _, m := range g.AllMeasurements() {
		w := m.Weight
		if w == 0 {
			continue
		}
		wk := w * m.Kappa
		wt := w * m.Tau

		srcOwn := m.R1 == g.RobotID
		dstOwn := m.R2 == g.RobotID

		diagSource, diagTarget, offST := edgeBlocks(m.Rhat, m.That, wk, wt, d)

		switch {
		case srcOwn && dstOwn:
			i := m.P1
			j := m.P2
			addBlock(q, i*block, i*block, diagSource)
			addBlock(q, j*block, j*block, diagTarget)
			addBlock(q, i*block, j*block, offST)
			addBlockTransposed(q, j*block, i*block, offST)
		case srcOwn && !dstOwn:
			i := m.P1
			addBlock(q, i*block, i*block, diagSource)
			if gMat != nil {
				jn := neighborIx[m.Endpoint2()]
				addBlock(gMat, i*block, jn*block, offST)
			}
		case !srcOwn && dstOwn:
			j := m.P2
			addBlock(q, j*block, j*block, diagTarget)
			if gMat != nil {
				in := neighborIx[m.Endpoint1()]
				addBlockTransposed(gMat, j*block, in*block, offST)
			}
		default:
			// Neither endpoint is ours: not possible for a graph this
			// agent owns, but ignored defensively rather than panicking
			// on what would be malformed input data.
		}
	}

	g.cachedQ = q
	g.cachedG = gMat
	g.neighborIx = neighborIx
	g.cacheValid = true
	return nil
}

// edgeBlocks computes the three (d+1 x d+1) per-edge contribution blocks
// described in DESIGN.md: the source pose's diagonal contribution, the
// target pose's diagonal contribution, and the source->target
// off-diagonal block, derived from the edge residual
// kappa*||Y_j - Y_i*Rhat||^2 + tau*||p_j - p_i - Y_i*that||^2.
func edgeBlocks(rhat *mat.Dense, that []float64, wk, wt float64, d int) (diagSource, diagTarget, offST *mat.Dense) {
	diagSource = mat.NewDense(d+1, d+1, nil)
	diagTarget = mat.NewDense(d+1, d+1, nil)
	offST = mat.NewDense(d+1, d+1, nil)

	for i := 0; i < d; i++ {
		diagSource.Set(i, i, wk)
		diagTarget.Set(i, i, wk)
	}
	diagSource.Set(d, d, wt)
	diagTarget.Set(d, d, wt)
	for k := 0; k < d; k++ {
		diagSource.Set(k, d, wt*that[k])
		diagSource.Set(d, k, wt*that[k])
	}

	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			offST.Set(i, j, -wk*rhat.At(i, j))
		}
	}
	for k := 0; k < d; k++ {
		offST.Set(k, d, -wt*that[k])
	}
	offST.Set(d, d, -wt)

	return diagSource, diagTarget, offST
}

// addBlock adds src into dst at the given row/col offset.
func addBlock(dst *mat.Dense, rowOff, colOff int, src *mat.Dense) {
	r, c := src.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(rowOff+i, colOff+j, dst.At(rowOff+i, colOff+j)+src.At(i, j))
		}
	}
}

// addBlockTransposed adds src^T into dst at the given row/col offset.
func addBlockTransposed(dst *mat.Dense, rowOff, colOff int, src *mat.Dense) {
	r, c := src.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(rowOff+j, colOff+i, dst.At(rowOff+j, colOff+i)+src.At(i, j))
		}
	}
}

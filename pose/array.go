package pose

import "gonum.org/x/gonum/mat"

// LiftedPoseArray is the column-concatenation of n LiftedPoses: an
// (r x n(d+1)) matrix. It backs an agent's iterate X, auxiliary Y,
// momentum V, and previous XPrev.
type LiftedPoseArray struct {
	r, d, n int
	data    *mat.Dense // r x n*(d+1)
}

// NewLiftedPoseArray allocates a zero-valued array of shape (r, d, n).
func NewLiftedPoseArray(r, d, n int) (*LiftedPoseArray, error) {
	if d != 2 && d != 3 {
		return nil, ErrDimension
	}
	if r < d {
		return nil, ErrRankTooSmall
	}
	if n < 0 {
		return nil, ErrIndexOutOfRange
	}
	return &LiftedPoseArray{r: r, d: d, n: n, data: mat.NewDense(r, n*(d+1), nil)}, nil
}

// LiftedPoseArrayFromDense wraps an existing (r x n(d+1)) matrix without
// copying; callers that need isolation should Clone the result.
func LiftedPoseArrayFromDense(m *mat.Dense, r, d, n int) (*LiftedPoseArray, error) {
	rr, cc := m.Dims()
	if rr != r || cc != n*(d+1) {
		return nil, ErrBadShape
	}
	return &LiftedPoseArray{r: r, d: d, n: n, data: m}, nil
}

// R returns the lifted rank.
func (a *LiftedPoseArray) R() int { return a.r }

// D returns the ambient SE(d) dimension.
func (a *LiftedPoseArray) D() int { return a.d }

// N returns the number of poses.
func (a *LiftedPoseArray) N() int { return a.n }

// Matrix exposes the backing (r x n(d+1)) dense matrix. Mutating the
// result mutates the array; use Clone first to isolate.
func (a *LiftedPoseArray) Matrix() *mat.Dense { return a.data }

// blockCols returns the [start, end) column range of pose i's block.
func (a *LiftedPoseArray) blockCols(i int) (int, int) {
	start := i * (a.d + 1)
	return start, start + a.d + 1
}

// Pose returns a copy of the i-th LiftedPose.
func (a *LiftedPoseArray) Pose(i int) (*LiftedPose, error) {
	if i < 0 || i >= a.n {
		return nil, ErrIndexOutOfRange
	}
	start, end := a.blockCols(i)
	y := mat.NewDense(a.r, a.d, nil)
	p := make([]float64, a.r)
	for row := 0; row < a.r; row++ {
		for col := start; col < end-1; col++ {
			y.Set(row, col-start, a.data.At(row, col))
		}
		p[row] = a.data.At(row, end-1)
	}
	return &LiftedPose{R: a.r, D: a.d, Y: y, P: p}, nil
}

// SetPose overwrites the i-th block with lp, which must have matching
// (r,d) dimensions.
func (a *LiftedPoseArray) SetPose(i int, lp *LiftedPose) error {
	if i < 0 || i >= a.n {
		return ErrIndexOutOfRange
	}
	if lp.R != a.r || lp.D != a.d {
		return ErrBadShape
	}
	start, end := a.blockCols(i)
	for row := 0; row < a.r; row++ {
		for col := start; col < end-1; col++ {
			a.data.Set(row, col, lp.Y.At(row, col-start))
		}
		a.data.Set(row, end-1, lp.P[row])
	}
	return nil
}

// Clone returns a deep copy.
func (a *LiftedPoseArray) Clone() *LiftedPoseArray {
	cp := mat.NewDense(a.r, a.n*(a.d+1), nil)
	cp.Copy(a.data)
	return &LiftedPoseArray{r: a.r, d: a.d, n: a.n, data: cp}
}

// CopyFrom overwrites a's contents with src's; shapes must match.
func (a *LiftedPoseArray) CopyFrom(src *LiftedPoseArray) error {
	if src.r != a.r || src.d != a.d || src.n != a.n {
		return ErrBadShape
	}
	a.data.Copy(src.data)
	return nil
}

// Translations returns the n translation vectors (each length r) in pose order.
func (a *LiftedPoseArray) Translations() [][]float64 {
	out := make([][]float64, a.n)
	for i := 0; i < a.n; i++ {
		_, end := a.blockCols(i)
		t := make([]float64, a.r)
		for row := 0; row < a.r; row++ {
			t[row] = a.data.At(row, end-1)
		}
		out[i] = t
	}
	return out
}

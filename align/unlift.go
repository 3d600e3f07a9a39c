package align

import (
	"github.com/adthoms/dpgo/manifold"
	"gonum.org/x/gonum/mat"
)

// UnliftRotation recovers an approximate (d x d) rotation from a lifted
// (r x d) Stiefel block y, given the team's shared lifting matrix yLift
// (r x d), via R = chordalProject(yLiftᵀ·y). This is how neighbor poses
// are brought down from rank r to rank d for alignment.
func UnliftRotation(yLift, y *mat.Dense) (*mat.Dense, error) {
	var raw mat.Dense
	raw.Mul(yLift.T(), y)
	return manifold.ProjectToRotationGroup(&raw)
}

// UnliftTranslation recovers a length-d translation from a lifted
// length-r translation p, via t = yLiftᵀ·p.
func UnliftTranslation(yLift *mat.Dense, p []float64) []float64 {
	r, d := yLift.Dims()
	t := make([]float64, d)
	for j := 0; j < d; j++ {
		var s float64
		for i := 0; i < r; i++ {
			s += yLift.At(i, j) * p[i]
		}
		t[j] = s
	}
	return t
}

package optimizer

import (
	"math"

	"github.com/adthoms/dpgo/pose"
	"gonum.org/x/gonum/mat"
)

// innerProduct returns the Frobenius inner product <a,b> of two tangent
// vectors of identical shape.
func innerProduct(a, b *pose.LiftedPoseArray) float64 {
	am, bm := a.Matrix(), b.Matrix()
	r, c := am.Dims()
	var s float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			s += am.At(i, j) * bm.At(i, j)
		}
	}
	return s
}

// tangentNorm returns the Frobenius norm of a tangent vector.
func tangentNorm(a *pose.LiftedPoseArray) float64 {
	return math.Sqrt(innerProduct(a, a))
}

// scaleAdd returns alpha*a + beta*b, both of which must share a's shape.
func scaleAdd(alpha float64, a *pose.LiftedPoseArray, beta float64, b *pose.LiftedPoseArray) *pose.LiftedPoseArray {
	am, bm := a.Matrix(), b.Matrix()
	r, c := am.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, alpha*am.At(i, j)+beta*bm.At(i, j))
		}
	}
	arr, _ := pose.LiftedPoseArrayFromDense(out, a.R(), a.D(), a.N())
	return arr
}

// zeroLike returns a zero tangent vector with the same shape as a.
func zeroLike(a *pose.LiftedPoseArray) *pose.LiftedPoseArray {
	out := mat.NewDense(a.R(), a.N()*(a.D()+1), nil)
	arr, _ := pose.LiftedPoseArrayFromDense(out, a.R(), a.D(), a.N())
	return arr
}

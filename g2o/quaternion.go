package g2o

import (
	"math"

	"gonum.org/x/gonum/mat"
)

// quaternionToRotation converts (qx,qy,qz,qw) to a 3x3 rotation matrix,
// normalizing first since g2o files carry limited-precision quaternions.
func quaternionToRotation(qx, qy, qz, qw float64) *mat.Dense {
	n := math.Sqrt(qx*qx + qy*qy + qz*qz + qw*qw)
	if n == 0 {
		n = 1
	}
	x, y, z, w := qx/n, qy/n, qz/n, qw/n

	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
}

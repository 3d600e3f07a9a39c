package optimizer

import "github.com/adthoms/dpgo/pose"

// RGDOptions configures the Riemannian gradient descent driver.
type RGDOptions struct {
	MaxIters     int
	GradTol      float64
	StepSize     float64 // used when Backtrack is false
	Backtrack    bool
	InitialStep  float64 // used when Backtrack is true
	ShrinkFactor float64 // backtracking step shrink factor, e.g. 0.5
	SufficientDecrease float64 // Armijo constant, e.g. 1e-4
}

// DefaultRGDOptions returns a conservative fixed-step configuration.
func DefaultRGDOptions() RGDOptions {
	return RGDOptions{MaxIters: 200, GradTol: 1e-6, StepSize: 0.01}
}

// DefaultBacktrackingRGDOptions returns a backtracking-line-search
// configuration.
func DefaultBacktrackingRGDOptions() RGDOptions {
	return RGDOptions{
		MaxIters: 200, GradTol: 1e-6, Backtrack: true,
		InitialStep: 1.0, ShrinkFactor: 0.5, SufficientDecrease: 1e-4,
	}
}

// RGDResult summarizes a completed RGD run.
type RGDResult struct {
	Converged     bool
	Iterations    int
	FinalCost     float64
	FinalGradNorm float64
}

// RGD runs Riemannian gradient descent from x0 with either a fixed step or
// Armijo backtracking line search.
func RGD(p Problem, x0 *pose.LiftedPoseArray, opts RGDOptions) (*pose.LiftedPoseArray, RGDResult, error) {
	if p == nil {
		return nil, RGDResult{}, ErrNilProblem
	}
	if x0 == nil {
		return nil, RGDResult{}, ErrNilInitialPoint
	}

	x := x0
	var result RGDResult

	for it := 0; it < opts.MaxIters; it++ {
		result.Iterations = it + 1
		grad, err := p.Gradient(x)
		if err != nil {
			return x, result, err
		}
		gradNorm := tangentNorm(grad)
		result.FinalGradNorm = gradNorm
		result.FinalCost = p.Cost(x)
		if gradNorm <= opts.GradTol {
			result.Converged = true
			break
		}

		descent := scaleAdd(-1, grad, 0, grad)

		if !opts.Backtrack {
			xNew, err := p.Retract(x, scaleAdd(opts.StepSize, descent, 0, descent))
			if err != nil {
				return x, result, err
			}
			x = xNew
			continue
		}

		step := opts.InitialStep
		fx := p.Cost(x)
		for i := 0; i < 30; i++ {
			xNew, err := p.Retract(x, scaleAdd(step, descent, 0, descent))
			if err != nil {
				return x, result, err
			}
			if p.Cost(xNew) <= fx-opts.SufficientDecrease*step*gradNorm*gradNorm {
				x = xNew
				break
			}
			step *= opts.ShrinkFactor
		}
	}

	result.FinalCost = p.Cost(x)
	return x, result, nil
}

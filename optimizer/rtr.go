package optimizer

import (
	"math"

	"github.com/adthoms/dpgo/pose"
)

// RTROptions configures the Riemannian trust-region driver.
type RTROptions struct {
	InitialRadius float64 // rho0
	MaxRadius     float64
	MaxOuterIters int
	MaxInnerIters int // k_in, truncated-CG iteration cap
	GradTol       float64 // tau_g, gradient-norm termination threshold
	Eta1, Eta2    float64 // acceptance ratio thresholds (shrink/grow)
	Shrink, Grow  float64 // radius shrink/grow factors
}

// DistributedRTROptions returns the preset tuned for the main distributed
// iteration loop: rho0=100, k_in=10, tau_g=1e-2.
func DistributedRTROptions() RTROptions {
	return RTROptions{
		InitialRadius: 100, MaxRadius: 1e4,
		MaxOuterIters: 1, MaxInnerIters: 10, GradTol: 1e-2,
		Eta1: 0.1, Eta2: 0.75, Shrink: 0.25, Grow: 2.0,
	}
}

// LocalRTROptions returns the preset for a local solve run toward
// convergence: rho0=10, k_in=50, tau_g=1e-1.
func LocalRTROptions() RTROptions {
	return RTROptions{
		InitialRadius: 10, MaxRadius: 1e3,
		MaxOuterIters: 100, MaxInnerIters: 50, GradTol: 1e-1,
		Eta1: 0.1, Eta2: 0.75, Shrink: 0.25, Grow: 2.0,
	}
}

// RTRResult summarizes a completed (or truncated) RTR run.
type RTRResult struct {
	Converged     bool
	OuterIters    int
	FinalCost     float64
	FinalGradNorm float64
}

// RTR runs the Riemannian trust-region driver from x0, returning the best
// iterate found. The main distributed loop calls this with
// DistributedRTROptions and MaxOuterIters=1 to guarantee forward progress
// each tick; LocalRTROptions is the preset for a local solve run toward
// convergence (chordal initialization in package posegraph is a direct
// linear solve and does not call RTR). Never returns an error for non-convergence
// within the inner/outer budget: the optimizer accepts the best iterate
// found rather than failing.
func RTR(p Problem, x0 *pose.LiftedPoseArray, opts RTROptions) (*pose.LiftedPoseArray, RTRResult, error) {
	if p == nil {
		return nil, RTRResult{}, ErrNilProblem
	}
	if x0 == nil {
		return nil, RTRResult{}, ErrNilInitialPoint
	}
	if opts.MaxOuterIters <= 0 || opts.MaxInnerIters <= 0 || opts.InitialRadius <= 0 {
		return nil, RTRResult{}, ErrInvalidOptions
	}

	x := x0
	radius := opts.InitialRadius
	var result RTRResult

	for outer := 0; outer < opts.MaxOuterIters; outer++ {
		result.OuterIters = outer + 1

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

		eta, onBoundary := truncatedCG(p, x, grad, radius, opts.MaxInnerIters)

		xNew, err := p.Retract(x, eta)
		if err != nil {
			return x, result, err
		}

		hEta, err := p.HessianVectorProduct(x, eta)
		if err != nil {
			return x, result, err
		}
		modelReduction := -(innerProduct(grad, eta) + 0.5*innerProduct(eta, hEta))
		actualReduction := p.Cost(x) - p.Cost(xNew)

		var rho float64
		if modelReduction > 0 {
			rho = actualReduction / modelReduction
		} else {
			rho = -1
		}

		if rho < opts.Eta1 {
			radius *= opts.Shrink
		} else if rho > opts.Eta2 && onBoundary {
			radius = math.Min(radius*opts.Grow, opts.MaxRadius)
		}

		if rho > 0 {
			x = xNew
		}
	}

	result.FinalCost = p.Cost(x)
	return x, result, nil
}

// truncatedCG implements the Steihaug-Toint truncated conjugate-gradient
// solver for the trust-region subproblem min_eta <g,eta> + 1/2<eta,H eta>
// s.t. ||eta|| <= radius, starting from eta=0. Returns the step and
// whether it terminated on the trust-region boundary.
func truncatedCG(p Problem, x, grad *pose.LiftedPoseArray, radius float64, maxIters int) (*pose.LiftedPoseArray, bool) {
	eta := zeroLike(grad)
	r := grad
	d := scaleAdd(-1, r, 0, r)
	r0Norm := tangentNorm(r)
	if r0Norm == 0 {
		return eta, false
	}

	for j := 0; j < maxIters; j++ {
		hd, err := p.HessianVectorProduct(x, d)
		if err != nil {
			return eta, false
		}
		dHd := innerProduct(d, hd)
		rr := innerProduct(r, r)

		if dHd <= 0 {
			tau := boundaryStep(eta, d, radius)
			return scaleAdd(1, eta, tau, d), true
		}

		alpha := rr / dHd
		etaNew := scaleAdd(1, eta, alpha, d)
		if tangentNorm(etaNew) >= radius {
			tau := boundaryStep(eta, d, radius)
			return scaleAdd(1, eta, tau, d), true
		}

		rNew := scaleAdd(1, r, alpha, hd)
		if tangentNorm(rNew) <= 1e-10*r0Norm {
			return etaNew, false
		}

		beta := innerProduct(rNew, rNew) / rr
		d = scaleAdd(-1, rNew, beta, d)
		eta = etaNew
		r = rNew
	}
	return eta, false
}

// boundaryStep solves ||eta + tau*d|| = radius for the positive root tau.
func boundaryStep(eta, d *pose.LiftedPoseArray, radius float64) float64 {
	dd := innerProduct(d, d)
	ee := innerProduct(eta, eta)
	ed := innerProduct(eta, d)
	if dd == 0 {
		return 0
	}
	disc := ed*ed + dd*(radius*radius-ee)
	if disc < 0 {
		disc = 0
	}
	return (-ed + math.Sqrt(disc)) / dd
}

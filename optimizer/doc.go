// Package optimizer implements two Riemannian solvers for the local
// quadratic subproblem: RTR (Riemannian trust region, with a
// Steihaug-Toint truncated conjugate-gradient subproblem solver) and RGD
// (Riemannian gradient descent, backtracking or fixed step).
//
// Both drivers are written against the optimizer.Problem interface
// ({f, grad, hess_vec, retract, project_tangent}) so they depend only on
// package pose's LiftedPoseArray, never on package problem directly;
// package problem supplies the adapter (problem.Adapter) that wraps a
// problem.QuadraticProblem as an optimizer.Problem, and package agent uses it.
package optimizer

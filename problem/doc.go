// Package problem implements the local Riemannian quadratic subproblem each
// agent solves every iteration: given the agent's own cost matrices Q, G and
// the current snapshot of neighbor poses X_N, it exposes the cost, Euclidean
// gradient, Hessian-vector product, and their Riemannian counterparts
// (projected onto the tangent space of the product manifold at X).
//
// QuadraticProblem holds no mutable state beyond the (Q, G, X_N) triple it
// was built from; callers rebuild it whenever the pose graph's cached
// matrices or neighbor snapshot change.
package problem

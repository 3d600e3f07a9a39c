// Package manifold implements the product manifold M = (St(d,r) x R^r)^n
// that lifted pose arrays live on: projection onto M, the Stiefel
// QR-retraction, tangent-space projection, and deterministic random
// sampling.
//
// The manifold is exposed both as exported free functions operating on
// single blocks (ProjectStiefel, ProjectToRotationGroup; block retraction
// and tangent projection stay unexported) and as the Manifold interface, which
// is the capability set {project, retract, tangent_project,
// random_in_manifold} — a single concrete implementation, ProductManifold,
// rather than a variable/vector/element class tower.
package manifold

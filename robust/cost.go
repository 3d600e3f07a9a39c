package robust

import (
	"math"

	"github.com/adthoms/dpgo/posegraph"
)

// CostType selects one of the five robust kernels (L2, TLS, Huber, Tukey, GM).
type CostType int

const (
	L2 CostType = iota
	TLS
	Huber
	Tukey
	GM
)

// Cost holds the GNC-evolving scale mu for one of L2/TLS/Huber/Tukey/GM,
// plus the fixed accept/reject weight thresholds used to reclassify edges.
// Barc2 is the squared chordal/translation inlier threshold at mu's
// converged value (mu == 1 for TLS; the Huber/Tukey/GM bandwidth floor for
// the others).
type Cost struct {
	Type CostType
	Barc2 float64

	Mu             float64
	MuUpdateFactor float64

	EpsReject float64
	EpsAccept float64
}

// DefaultMuUpdateFactor is the geometric GNC schedule step, following
// Yang et al.'s GNC-TLS/GM convention.
const DefaultMuUpdateFactor = 1.4

// NewCost constructs a Cost with L2's trivial (always-inlier) schedule, or
// one of the robust kernels seeded at its initial (most-convex) scale.
func NewCost(t CostType, barc2 float64, epsReject, epsAccept float64) (*Cost, error) {
	if barc2 <= 0 {
		return nil, ErrInvalidBarc2
	}
	c := &Cost{
		Type: t, Barc2: barc2,
		MuUpdateFactor: DefaultMuUpdateFactor,
		EpsReject:      epsReject, EpsAccept: epsAccept,
	}
	c.Mu = math.Inf(1) // most convex starting point; InitializeSchedule refines it
	return c, nil
}

// InitializeSchedule sets the GNC starting scale from the largest observed
// squared residual (the standard GNC-TLS/GM initialization: start convex
// enough that every edge begins as an inlier, then anneal toward the true
// non-convex cost). No-op for L2.
func (c *Cost) InitializeSchedule(maxResidualSquared float64) {
	if c.Type == L2 || maxResidualSquared <= 0 {
		return
	}
	switch c.Type {
	case TLS:
		c.Mu = math.Max(1.0, 2*maxResidualSquared/c.Barc2-1)
	case GM:
		c.Mu = math.Max(c.Barc2, 2*maxResidualSquared)
	default: // Huber, Tukey: scale starts as the largest residual magnitude
		c.Mu = math.Max(math.Sqrt(c.Barc2), math.Sqrt(maxResidualSquared))
	}
}

// Update advances mu by one GNC step, annealing toward the non-convex
// limit. No-op for L2.
func (c *Cost) Update() {
	switch c.Type {
	case L2:
		return
	case TLS:
		c.Mu = math.Max(1.0, c.Mu/c.MuUpdateFactor)
	case GM:
		c.Mu = math.Max(c.Barc2, c.Mu/c.MuUpdateFactor)
	default:
		c.Mu = math.Max(math.Sqrt(c.Barc2), c.Mu/c.MuUpdateFactor)
	}
}

// Converged reports whether mu has reached its non-convex limit.
func (c *Cost) Converged() bool {
	switch c.Type {
	case L2:
		return true
	case TLS:
		return c.Mu <= 1.0+1e-9
	case GM:
		return c.Mu <= c.Barc2+1e-9
	default:
		return c.Mu <= math.Sqrt(c.Barc2)+1e-9
	}
}

// Weight maps a squared residual to w in [0,1] under the current scale.
func (c *Cost) Weight(residualSquared float64) float64 {
	r2 := math.Max(0, residualSquared)
	var w float64
	switch c.Type {
	case L2:
		w = 1
	case TLS:
		// The TLS surrogate is parameterized by m = 1/Mu, so a large Mu is
		// the convex end of the schedule and Mu -> 1 approaches plain TLS.
		m := 1 / c.Mu
		lo := (m / (m + 1)) * c.Barc2
		hi := ((m + 1) / m) * c.Barc2
		switch {
		case r2 <= lo:
			w = 1
		case r2 >= hi:
			w = 0
		default:
			w = math.Sqrt(c.Barc2*m*(m+1)/r2) - m
		}
	case Huber:
		r := math.Sqrt(r2)
		if r <= c.Mu {
			w = 1
		} else {
			w = c.Mu / r
		}
	case Tukey:
		r := math.Sqrt(r2)
		if r >= c.Mu {
			w = 0
		} else {
			t := 1 - (r*r)/(c.Mu*c.Mu)
			w = t * t
		}
	case GM:
		w = (c.Mu / (c.Mu + r2)) * (c.Mu / (c.Mu + r2))
	}
	return math.Min(1, math.Max(0, w))
}

// EdgeResidual is one measurement's current squared residual, computed by
// the caller from the iterate and neighbor snapshot. Available is false
// when a neighbor pose was missing this round, in which case that edge's
// weight update is skipped rather than computed from a stale snapshot.
type EdgeResidual struct {
	Measurement     *posegraph.RelativeSEMeasurement
	ResidualSquared float64
	Available       bool
}

// ReweightAll applies Weight/classification to every available, reweightable
// edge in residuals, and returns the fraction of reweightable edges that
// are currently accepted, a converged-fraction figure callers can use as a
// termination criterion.
func (c *Cost) ReweightAll(residuals []EdgeResidual) float64 {
	var total, accepted int
	for _, er := range residuals {
		m := er.Measurement
		if m.FixedWeight || m.KnownInlier || !er.Available {
			continue
		}
		total++
		w := c.Weight(er.ResidualSquared)
		m.Weight = w
		switch {
		case w < c.EpsReject:
			m.Status = posegraph.StatusRejected
		case w > 1-c.EpsAccept:
			m.Status = posegraph.StatusAccepted
			accepted++
		default:
			m.Status = posegraph.StatusUndecided
		}
	}
	if total == 0 {
		return 1
	}
	return float64(accepted) / float64(total)
}

package g2o

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/adthoms/dpgo/posegraph"
	"gonum.org/x/gonum/mat"
)

type rawEdge struct {
	id1, id2 int
	rhat     *mat.Dense
	that     []float64
	kappa    float64
	tau      float64
}

// Load reads a g2o text-format stream and returns every EDGE_SE2/
// EDGE_SE3:QUAT measurement, with pose IDs reindexed to a consecutive
// 0-based range if the input's range does not already start at 0.
// VERTEX_* lines are informational and skipped. A FIX directive is
// rejected with a warning to opts.Logger and otherwise ignored. Any other
// leading token is fatal.
func Load(r io.Reader, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ids := make(map[int]struct{})
	var edges []rawEdge

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "VERTEX_SE2", "VERTEX_SE3:QUAT":
			if len(fields) < 2 {
				return nil, fmt.Errorf("g2o: line %d: %w", lineNum, ErrMalformedLine)
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("g2o: line %d: %w", lineNum, ErrMalformedLine)
			}
			ids[id] = struct{}{}

		case "EDGE_SE2":
			e, err := parseEdgeSE2(fields, lineNum)
			if err != nil {
				return nil, err
			}
			ids[e.id1] = struct{}{}
			ids[e.id2] = struct{}{}
			edges = append(edges, *e)

		case "EDGE_SE3:QUAT":
			e, err := parseEdgeSE3Quat(fields, lineNum)
			if err != nil {
				return nil, err
			}
			ids[e.id1] = struct{}{}
			ids[e.id2] = struct{}{}
			edges = append(edges, *e)

		case "FIX":
			if o.Logger != nil {
				o.Logger.Printf("g2o: line %d: FIX directive rejected, pose left free", lineNum)
			}

		default:
			return nil, fmt.Errorf("g2o: line %d: %w: %q", lineNum, ErrUnknownToken, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("g2o: scanning input: %w", err)
	}

	remap := reindex(ids)

	measurements := make([]*posegraph.RelativeSEMeasurement, 0, len(edges))
	for _, e := range edges {
		m := &posegraph.RelativeSEMeasurement{
			R1: o.RobotID, R2: o.RobotID,
			P1: remap[e.id1], P2: remap[e.id2],
			Rhat: e.rhat, That: e.that,
			Kappa: e.kappa, Tau: e.tau,
			Weight: 1,
		}
		if m.IsOdometry() {
			m.FixedWeight = true
		}
		measurements = append(measurements, m)
	}

	return &Result{NumPoses: len(ids), Measurements: measurements}, nil
}

// reindex assigns each distinct pose ID a consecutive 0-based index, in
// ascending order of the original ID. This lets sparse or non-zero-based
// g2o files (common when a file was extracted from a larger dataset) load
// directly without renumbering by hand.
func reindex(ids map[int]struct{}) map[int]int {
	sorted := make([]int, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Ints(sorted)
	remap := make(map[int]int, len(sorted))
	for i, id := range sorted {
		remap[id] = i
	}
	return remap
}

// parseEdgeSE2 parses "EDGE_SE2 id1 id2 dx dy dtheta i11 i12 i13 i22 i23 i33".
func parseEdgeSE2(fields []string, lineNum int) (*rawEdge, error) {
	if len(fields) != 12 {
		return nil, fmt.Errorf("g2o: line %d: %w", lineNum, ErrMalformedLine)
	}
	nums, err := parseFloats(fields[3:], lineNum)
	if err != nil {
		return nil, err
	}
	id1, id2, err := parseEndpoints(fields[1], fields[2], lineNum)
	if err != nil {
		return nil, err
	}
	dx, dy, dtheta := nums[0], nums[1], nums[2]

	infoFull := symmetricFromUpper(3, nums[3:9])
	var cov mat.Dense
	if err := cov.Inverse(infoFull); err != nil {
		return nil, fmt.Errorf("g2o: line %d: information matrix not invertible: %w", lineNum, err)
	}
	sigmaT := mat.DenseCopyOf(cov.Slice(0, 2, 0, 2))
	sigmaR := mat.NewDense(1, 1, []float64{cov.At(2, 2)})
	kappa, tau := posegraph.PrecisionFromCovariance(2, sigmaR, sigmaT)

	rhat := mat.NewDense(2, 2, []float64{
		math.Cos(dtheta), -math.Sin(dtheta),
		math.Sin(dtheta), math.Cos(dtheta),
	})
	return &rawEdge{id1: id1, id2: id2, rhat: rhat, that: []float64{dx, dy}, kappa: kappa, tau: tau}, nil
}

// parseEdgeSE3Quat parses "EDGE_SE3:QUAT id1 id2 dx dy dz qx qy qz qw" plus
// the 21 upper-triangular entries of a 6x6 information matrix ordered
// (x,y,z,qx,qy,qz).
func parseEdgeSE3Quat(fields []string, lineNum int) (*rawEdge, error) {
	if len(fields) != 31 {
		return nil, fmt.Errorf("g2o: line %d: %w", lineNum, ErrMalformedLine)
	}
	nums, err := parseFloats(fields[3:], lineNum)
	if err != nil {
		return nil, err
	}
	id1, id2, err := parseEndpoints(fields[1], fields[2], lineNum)
	if err != nil {
		return nil, err
	}
	dx, dy, dz := nums[0], nums[1], nums[2]
	qx, qy, qz, qw := nums[3], nums[4], nums[5], nums[6]

	infoFull := symmetricFromUpper(6, nums[7:28])
	var cov mat.Dense
	if err := cov.Inverse(infoFull); err != nil {
		return nil, fmt.Errorf("g2o: line %d: information matrix not invertible: %w", lineNum, err)
	}
	sigmaT := mat.DenseCopyOf(cov.Slice(0, 3, 0, 3))
	sigmaR := mat.DenseCopyOf(cov.Slice(3, 6, 3, 6))
	kappa, tau := posegraph.PrecisionFromCovariance(3, sigmaR, sigmaT)

	rhat := quaternionToRotation(qx, qy, qz, qw)
	return &rawEdge{id1: id1, id2: id2, rhat: rhat, that: []float64{dx, dy, dz}, kappa: kappa, tau: tau}, nil
}

func parseEndpoints(a, b string, lineNum int) (int, int, error) {
	id1, err1 := strconv.Atoi(a)
	id2, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("g2o: line %d: %w", lineNum, ErrMalformedLine)
	}
	return id1, id2, nil
}

func parseFloats(fields []string, lineNum int) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("g2o: line %d: %w", lineNum, ErrMalformedLine)
		}
		out[i] = v
	}
	return out, nil
}

// symmetricFromUpper builds an n x n symmetric matrix from its row-major
// upper-triangular entries (g2o's information-matrix encoding).
func symmetricFromUpper(n int, upper []float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			m.Set(i, j, upper[idx])
			m.Set(j, i, upper[idx])
			idx++
		}
	}
	return m
}

// Package rbf implements scattered data interpolation with radial basis
// functions.
//
// A Model is fitted to N support points in D dimensions, each with a scalar
// value, by solving the dense N x N kernel (Gram) system in the least
// squares sense through a singular value decomposition. Rank deficient or
// poorly conditioned systems still produce a model, together with a
// *FitWarning describing the quality of the fit.
//
// In normalized mode the right hand side of row i is values[i] multiplied by
// the sum of row i of the Gram matrix, and evaluation additionally divides by
// the sum of the kernel values at the query point. The two normalizations are
// applied together, so that with an exact solve the model reproduces values[i]
// at support point i.
package rbf

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var _ = fmt.Print

var (
	ErrLengthMismatch = errors.New("number of points and values differ")
	ErrEmpty          = errors.New("no support points")
	ErrDimension      = errors.New("support points must all have the same non-zero dimension")
	ErrNoKernel       = errors.New("no kernel specified")
	ErrFactorization  = errors.New("failed to factorize the kernel matrix")
)

const (
	// Machine epsilon of float32, the default rank tolerance is N times this.
	rankEpsilon              = 1.1920929e-7
	DefaultResidualTolerance = 1e-4
)

// FitWarning describes a fit whose kernel matrix was rank deficient or whose
// relative residual exceeded the tolerance. The model is still usable.
type FitWarning struct {
	N, Rank             int
	Residual, Tolerance float64
}

func (w *FitWarning) Error() string {
	return fmt.Sprintf("poor RBF fit of %d points: rank %d, relative residual %.3g (tolerance %.3g)", w.N, w.Rank, w.Residual, w.Tolerance)
}

type options struct {
	rank_tolerance     float64
	residual_tolerance float64
	logger             *slog.Logger
}

type Option func(*options)

// WithRankTolerance sets the singular value cutoff, relative to the largest
// singular value, below which singular values are treated as zero. The
// default is N * 1.1920929e-7.
func WithRankTolerance(tol float64) Option {
	return func(o *options) { o.rank_tolerance = tol }
}

// WithResidualTolerance sets the relative residual above which a fit is
// reported as poor. Defaults to DefaultResidualTolerance.
func WithResidualTolerance(tol float64) Option {
	return func(o *options) { o.residual_tolerance = tol }
}

// WithLogger sets the logger used to report fit statistics and warnings.
// By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

type Model struct {
	points    *mat.Dense
	values    []float64
	kernel    Kernel
	normalize bool
	weights   *mat.VecDense
	rank      int
	residual  float64
	warning   *FitWarning
}

// New fits a model to the specified support points and values. points and
// values are copied.
func New(points [][]float64, values []float64, k Kernel, normalize bool, opts ...Option) (*Model, error) {
	if len(points) != len(values) {
		return nil, fmt.Errorf("%w: %d points and %d values", ErrLengthMismatch, len(points), len(values))
	}
	n := len(points)
	if n == 0 {
		return nil, ErrEmpty
	}
	if k == nil {
		return nil, ErrNoKernel
	}
	d := len(points[0])
	if d == 0 {
		return nil, ErrDimension
	}
	o := options{rank_tolerance: float64(n) * rankEpsilon, residual_tolerance: DefaultResidualTolerance}
	for _, f := range opts {
		f(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	m := Model{points: mat.NewDense(n, d, nil), values: make([]float64, n), kernel: k, normalize: normalize}
	for i, p := range points {
		if len(p) != d {
			return nil, fmt.Errorf("%w: point %d has dimension %d, expected %d", ErrDimension, i, len(p), d)
		}
		m.points.SetRow(i, p)
	}
	copy(m.values, values)

	g := mat.NewDense(n, n, nil)
	for i := range n {
		pi := m.points.RawRowView(i)
		for j := i; j < n; j++ {
			v := k.Eval(floats.Distance(pi, m.points.RawRowView(j), 2))
			g.Set(i, j, v)
			g.Set(j, i, v)
		}
	}
	rhs := mat.NewVecDense(n, nil)
	for i, v := range m.values {
		if normalize {
			v *= floats.Sum(g.RawRowView(i))
		}
		rhs.SetVec(i, v)
	}

	var svd mat.SVD
	if !svd.Factorize(g, mat.SVDThin) {
		return nil, fmt.Errorf("%w of %d points with kernel %s", ErrFactorization, n, k)
	}
	m.rank = svd.Rank(o.rank_tolerance)
	m.weights = mat.NewVecDense(n, nil)
	if m.rank > 0 {
		svd.SolveVecTo(m.weights, rhs, m.rank)
	}

	var r mat.VecDense
	r.MulVec(g, m.weights)
	r.SubVec(&r, rhs)
	if rn := mat.Norm(rhs, 2); rn > 0 {
		m.residual = mat.Norm(&r, 2) / rn
	}
	if math.IsNaN(m.residual) {
		return nil, fmt.Errorf("%w of %d points with kernel %s: non-finite solution", ErrFactorization, n, k)
	}
	o.logger.Debug("fitted RBF model", "points", n, "dim", d, "kernel", k.String(), "normalized", normalize, "rank", m.rank, "residual", m.residual)
	if m.rank < n || m.residual > o.residual_tolerance {
		m.warning = &FitWarning{N: n, Rank: m.rank, Residual: m.residual, Tolerance: o.residual_tolerance}
		o.logger.Warn(m.warning.Error(), "points", n, "rank", m.rank, "residual", m.residual)
	}
	return &m, nil
}

// Evaluate interpolates the model at q, which must have the dimension of the
// support points. In normalized mode it returns zero when the kernel
// values at q all underflow to zero.
func (m *Model) Evaluate(q []float64) float64 {
	n, d := m.points.Dims()
	if len(q) != d {
		panic(fmt.Sprintf("query of dimension %d for a model of dimension %d", len(q), d))
	}
	var sum, wsum float64
	for i := range n {
		v := m.kernel.Eval(floats.Distance(q, m.points.RawRowView(i), 2))
		wsum += m.weights.AtVec(i) * v
		sum += v
	}
	if m.normalize {
		if sum == 0 {
			return 0
		}
		return wsum / sum
	}
	return wsum
}

// Len returns the number of support points.
func (m *Model) Len() int {
	r, _ := m.points.Dims()
	return r
}

// Dim returns the dimension of the support points.
func (m *Model) Dim() int {
	_, c := m.points.Dims()
	return c
}

func (m *Model) Kernel() Kernel   { return m.kernel }
func (m *Model) Normalized() bool { return m.normalize }
func (m *Model) Rank() int        { return m.rank }

// Residual returns the relative residual |Gw - rhs| / |rhs| of the solve.
func (m *Model) Residual() float64 { return m.residual }

// Warning returns nil for a good fit.
func (m *Model) Warning() *FitWarning { return m.warning }

// Weights returns a copy of the solved weights.
func (m *Model) Weights() []float64 {
	ans := make([]float64, m.weights.Len())
	for i := range ans {
		ans[i] = m.weights.AtVec(i)
	}
	return ans
}

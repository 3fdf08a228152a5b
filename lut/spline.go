package lut

import (
	"fmt"
)

var _ = fmt.Print

type Float interface {
	~float32 | ~float64
}

// Spline is a natural cubic spline through the knots (i, f[i]), i = 0..n,
// stored as four coefficients per interval.
type Spline[T Float] struct {
	coeffs []T
	n      int
}

// BuildSpline computes the spline coefficients for the knot values f. f must
// have at least three elements.
func BuildSpline[T Float](f []T) *Spline[T] {
	n := len(f) - 1
	if n < 2 {
		panic(fmt.Sprintf("a spline needs at least 3 knots, got: %d", len(f)))
	}
	tab := make([]T, n*4)
	// forward sweep of the tridiagonal solve, tab[i*4] holds the eliminated
	// sub-diagonal factor and tab[i*4+1] the modified right hand side
	for i := 1; i < n-1; i++ {
		t := 3 * (f[i+1] - 2*f[i] + f[i-1])
		l := 1 / (4 - tab[(i-1)*4])
		tab[i*4], tab[i*4+1] = l, (t-tab[(i-1)*4+1])*l
	}
	var cn T
	for i := n - 1; i >= 0; i-- {
		c := tab[i*4+1] - tab[i*4]*cn
		b := f[i+1] - f[i] - (cn+c*2)*(1./3)
		d := (cn - c) * (1. / 3)
		tab[i*4], tab[i*4+1], tab[i*4+2], tab[i*4+3] = f[i], b, c, d
		cn = c
	}
	return &Spline[T]{coeffs: tab, n: n}
}

// Eval interpolates at x, 0 <= x <= n. Values outside that range are
// extrapolated from the first or last cubic.
func (s *Spline[T]) Eval(x T) T {
	ix := min(max(int(x), 0), s.n-1)
	x -= T(ix)
	c := s.coeffs[ix*4 : ix*4+4 : ix*4+4]
	return ((c[3]*x+c[2])*x+c[1])*x + c[0]
}

// Len returns the number of intervals, which is one less than the number of knots.
func (s *Spline[T]) Len() int { return s.n }

// Knot returns the knot value at i, 0 <= i < Len().
func (s *Spline[T]) Knot(i int) T { return s.coeffs[i*4] }

func (s *Spline[T]) String() string {
	return fmt.Sprintf("Spline{%d knots}", s.n+1)
}

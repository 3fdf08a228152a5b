package rbf

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func TestKernels(t *testing.T) {
	s := Shepard{P: 2}
	assert.InDelta(t, 0.25, s.Eval(2), 1e-15)
	assert.Equal(t, math.Pow(ShepardMinRadius, -2), s.Eval(0))
	assert.False(t, math.IsInf(s.Eval(0), 0))

	n := NormalizedShepard{P: 1}
	assert.Equal(t, 1., n.Eval(0))
	assert.InDelta(t, 0.5, n.Eval(1), 1e-15)

	for _, tc := range []struct {
		name     string
		power    float64
		expected Kernel
	}{
		{"shepard", 0, Shepard{P: DefaultShepardPower}},
		{"Shepard", 3, Shepard{P: 3}},
		{"normshepard", -1, NormalizedShepard{P: DefaultNormalizedShepardPower}},
		{"normalized-shepard", 2.5, NormalizedShepard{P: 2.5}},
	} {
		k, err := ParseKernel(tc.name, tc.power)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, k, tc.name)
	}
	_, err := ParseKernel("gaussian", 1)
	assert.Error(t, err)
}

func TestTwoPointMidpoint(t *testing.T) {
	m, err := New([][]float64{{0}, {1}}, []float64{10, 20}, NormalizedShepard{P: 1}, true)
	require.NoError(t, err)
	assert.Nil(t, m.Warning())
	assert.Equal(t, 2, m.Rank())
	assert.InDelta(t, 15, m.Evaluate([]float64{0.5}), 1e-9)
	assert.InDelta(t, 10, m.Evaluate([]float64{0}), 1e-9)
	assert.InDelta(t, 20, m.Evaluate([]float64{1}), 1e-9)
	assert.InDeltaSlice(t, []float64{0, 30}, m.Weights(), 1e-9)

	m, err = New([][]float64{{0, 0}, {1, 1}}, []float64{10, 20}, NormalizedShepard{P: 2}, true)
	require.NoError(t, err)
	assert.Nil(t, m.Warning())
	assert.InDelta(t, 15, m.Evaluate([]float64{0.5, 0.5}), 1e-9)
	assert.InDelta(t, 10, m.Evaluate([]float64{0, 0}), 1e-9)
	assert.InDelta(t, 20, m.Evaluate([]float64{1, 1}), 1e-9)
}

func TestInterpolatesSupportPoints(t *testing.T) {
	points := [][]float64{{0, 0}, {3, 0}, {0, 3}, {3, 3}, {1.5, 5}}
	values := []float64{1, -2, 3.5, 4, 0}
	for _, k := range []Kernel{Shepard{P: DefaultShepardPower}, NormalizedShepard{P: DefaultNormalizedShepardPower}} {
		for _, normalize := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/normalize=%v", k, normalize), func(t *testing.T) {
				m, err := New(points, values, k, normalize)
				require.NoError(t, err)
				require.Nil(t, m.Warning())
				assert.Equal(t, len(points), m.Len())
				assert.Equal(t, 2, m.Dim())
				assert.Equal(t, normalize, m.Normalized())
				assert.Equal(t, k, m.Kernel())
				assert.Less(t, m.Residual(), 1e-9)
				for i, p := range points {
					assert.InDelta(t, values[i], m.Evaluate(p), 1e-6, "point %v", p)
				}
				v := m.Evaluate([]float64{1, 1})
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			})
		}
	}
}

func TestInputsAreCopied(t *testing.T) {
	points := [][]float64{{0}, {2}}
	values := []float64{1, 3}
	m, err := New(points, values, NormalizedShepard{P: 2}, true)
	require.NoError(t, err)
	before := m.Evaluate([]float64{1})
	points[0][0], values[0] = 100, 100
	assert.Equal(t, before, m.Evaluate([]float64{1}))
	w := m.Weights()
	w[0] = 1e9
	assert.NotEqual(t, w, m.Weights())
}

func TestDuplicatePointsWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, err := New([][]float64{{0}, {0}, {1}}, []float64{1, 2, 3}, NormalizedShepard{P: 2}, false, WithLogger(logger))
	require.NoError(t, err)
	w := m.Warning()
	require.NotNil(t, w)
	assert.Equal(t, 3, w.N)
	assert.Equal(t, 2, w.Rank)
	assert.Equal(t, 2, m.Rank())
	assert.Greater(t, w.Residual, w.Tolerance)
	var fw *FitWarning
	assert.True(t, errors.As(error(w), &fw))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "poor RBF fit")
	assert.Contains(t, buf.String(), "fitted RBF model")
	// the least squares solution splits the difference
	assert.InDelta(t, 1.5, m.Evaluate([]float64{0}), 1e-6)
	assert.InDelta(t, 3, m.Evaluate([]float64{1}), 1e-6)
}

func TestTolerances(t *testing.T) {
	points := [][]float64{{0}, {1}, {2}}
	values := []float64{1, 2, 4}
	m, err := New(points, values, NormalizedShepard{P: 2}, false, WithRankTolerance(0.99))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Rank())
	require.NotNil(t, m.Warning())

	m, err = New(points, values, NormalizedShepard{P: 2}, false, WithResidualTolerance(-1))
	require.NoError(t, err)
	require.NotNil(t, m.Warning())
	assert.Equal(t, 3, m.Warning().Rank)
}

func TestValidation(t *testing.T) {
	k := Shepard{P: 2}
	_, err := New([][]float64{{0}}, []float64{1, 2}, k, false)
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = New(nil, nil, k, false)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = New([][]float64{{0, 1}, {1}}, []float64{1, 2}, k, false)
	assert.ErrorIs(t, err, ErrDimension)
	_, err = New([][]float64{{}}, []float64{1}, k, false)
	assert.ErrorIs(t, err, ErrDimension)
	_, err = New([][]float64{{0}}, []float64{1}, nil, false)
	assert.ErrorIs(t, err, ErrNoKernel)

	m, err := New([][]float64{{0, 0}}, []float64{1}, k, false)
	require.NoError(t, err)
	assert.Panics(t, func() { m.Evaluate([]float64{1}) })
}

func TestCoincidentQueryIsFinite(t *testing.T) {
	m, err := New([][]float64{{0, 0, 0}, {1, 1, 1}}, []float64{5, 7}, Shepard{P: 2}, true)
	require.NoError(t, err)
	v := m.Evaluate([]float64{0, 0, 0})
	assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
	assert.InDelta(t, 5, v, 1e-6)
}

func TestZeroKernelSum(t *testing.T) {
	m, err := New([][]float64{{0}, {1}}, []float64{1, 2}, NormalizedShepard{P: 400}, true)
	require.NoError(t, err)
	assert.Equal(t, 0., m.Evaluate([]float64{1e3}))
}

func TestZeroValues(t *testing.T) {
	m, err := New([][]float64{{0}, {1}}, []float64{0, 0}, Shepard{P: 2}, false)
	require.NoError(t, err)
	assert.Nil(t, m.Warning())
	assert.Equal(t, 0., m.Residual())
	assert.Equal(t, 0., m.Evaluate([]float64{0.3}))
}

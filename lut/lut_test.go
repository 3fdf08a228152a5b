package lut

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplineReproducesKnots(t *testing.T) {
	f := make([]float64, 65)
	for i := range f {
		x := float64(i) / 16
		f[i] = math.Sin(x) + x*x
	}
	s := BuildSpline(f)
	require.Equal(t, 64, s.Len())
	for i, v := range f {
		assert.InDelta(t, v, s.Eval(float64(i)), 1e-12, "knot %d", i)
		if i < s.Len() {
			assert.Equal(t, v, s.Knot(i))
		}
	}
}

func TestSplineContinuousAcrossKnots(t *testing.T) {
	tables := Build()
	for _, s := range []*Spline[float32]{tables.SRGBDecode, tables.SRGBEncode} {
		for i := 1; i < s.Len(); i++ {
			// value of the cubic on interval i-1 at its right end
			left := s.coeffs[(i-1)*4 : i*4]
			lv := left[0] + left[1] + left[2] + left[3]
			assert.InDelta(t, s.Knot(i), lv, 2e-6, "knot %d of %s", i, s)
		}
	}
}

func TestSplineFollowsCurve(t *testing.T) {
	tables := Build()
	for i := range 2001 {
		x := float64(i) / 2000
		assert.InDelta(t, SRGBToLinear(x), tables.SRGBDecode.Eval(float32(x)*GammaScale), 2e-5, "decode x=%v", x)
		// the encode curve has a jump in its second derivative near 0.0031
		tol := 2e-5
		if x < 0.01 {
			tol = 5e-4
		}
		assert.InDelta(t, LinearToSRGB(x), tables.SRGBEncode.Eval(float32(x)*GammaScale), tol, "encode x=%v", x)
	}
}

func TestSplineClampsIndex(t *testing.T) {
	s := BuildSpline([]float32{0, 1, 2, 3})
	// the spline of a straight line is that line, also when extrapolating
	assert.InDelta(t, -1, s.Eval(-1), 1e-6)
	assert.InDelta(t, 4, s.Eval(4), 1e-6)
	assert.InDelta(t, 1.5, s.Eval(1.5), 1e-6)
}

func TestFixedPointTables(t *testing.T) {
	tables := Build()
	assert.Equal(t, uint16(0), tables.SRGBDecode8[0])
	assert.Equal(t, uint16(Linear8One), tables.SRGBDecode8[255])
	assert.Equal(t, uint16(Linear8One), tables.LinearDecode8[255])
	assert.Equal(t, uint16(8), tables.LinearDecode8[1])
	// f(0) = 16/116 and f(1) = 1 in units of 1/2^15
	assert.Equal(t, uint16(4520), tables.Cbrt8[0])
	assert.Equal(t, uint16(1<<LabShift2), tables.Cbrt8[Linear8One])
	for i := 1; i < CbrtTabSize8; i++ {
		require.GreaterOrEqual(t, tables.Cbrt8[i], tables.Cbrt8[i-1], "Cbrt8 not monotonic at %d", i)
	}
	require.Len(t, tables.SRGBEncode8, EncodeTabSize8)
	assert.Equal(t, uint8(0), tables.SRGBEncode8[0])
	assert.Equal(t, uint8(255), tables.SRGBEncode8[1<<LabShift2])
	assert.Equal(t, uint8(128), tables.LinearEncode8[1<<(LabShift2-1)])
	for v := range 256 {
		// decoding then encoding an 8-bit value is off by at most one level
		lin := int(tables.SRGBDecode8[v]) << LabShift2 / Linear8One
		assert.InDelta(t, v, int(tables.SRGBEncode8[lin]), 1, "v=%d", v)
	}
}

func TestDefaultIsSharedAndSafe(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*Tables, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Default()
		}()
	}
	wg.Wait()
	for _, r := range results {
		require.Same(t, results[0], r)
	}
}

func TestLabF(t *testing.T) {
	assert.InDelta(t, LabOffset, LabF(0), 1e-7)
	assert.InDelta(t, 1, LabF(1), 3e-7)
	// the two branches meet at the threshold
	lin := LabThreshold*LabSlope + LabOffset
	assert.InDelta(t, lin, LabF(LabThreshold), 1e-4)
	// the cube root branch tracks math.Cbrt over the [0, 1.5) range of XYZ values
	for i := range 1500 {
		x := float32(i) / 1000
		if x <= LabThreshold {
			continue
		}
		e := math.Cbrt(float64(x))
		require.InEpsilon(t, e, float64(LabF(x)), 1e-6, "x: %v", x)
	}
}

// Package lut builds the read-only lookup tables used by the colour
// converters: spline fits of the sRGB transfer functions in float precision
// and their 8-bit fixed-point counterparts, together with a fixed-point
// table of the CIELAB cube-root nonlinearity.
//
// The tables are built once, either eagerly with [Build] or lazily and safely
// from any goroutine with [Default], and are never modified afterwards.
package lut

import (
	"math"
	"sync"

	"github.com/kovidgoyal/labtransfer/numeric"
)

const (
	// Number of intervals of the float gamma splines, which cover [0, 1].
	GammaTabSize = 1024
	GammaScale   = float32(GammaTabSize)

	// Fractional bits of the fixed-point colour matrices.
	LabShift = 12
	// Extra bits of precision carried by 8-bit linear RGB values.
	GammaShift = 3
	// Fractional bits of the fixed-point cube-root values.
	LabShift2 = LabShift + GammaShift

	// Size of the fixed-point cube-root table, indexed by linear values in
	// units of 1/(255 << GammaShift) over [0, 1.5).
	CbrtTabSize8 = 256 * 3 / 2 * (1 << GammaShift)
	// Size of the fixed-point encode tables, indexed by linear values in
	// units of 1/(1 << LabShift2) over [0, 1].
	EncodeTabSize8 = 1<<LabShift2 + 1

	// One in the linear units used by the 8-bit decode tables.
	Linear8One = 255 << GammaShift
)

// CIELAB constants shared by the tables and the converters.
const (
	LabThreshold = 0.008856
	LabSlope     = 7.787
	LabOffset    = 16.0 / 116.0
	LabKappa     = 903.3
)

type Tables struct {
	// sRGB encoded value to linear light, and the reverse, as splines over
	// [0, GammaTabSize]. Evaluate at x*GammaScale.
	SRGBDecode, SRGBEncode *Spline[float32]

	// 8-bit encoded value to linear value in units of 1/Linear8One.
	SRGBDecode8, LinearDecode8 [256]uint16

	// Linear value in units of 1/Linear8One to f(t) in units of 1/(1 << LabShift2).
	Cbrt8 [CbrtTabSize8]uint16

	// Linear value in units of 1/(1 << LabShift2) to 8-bit encoded value.
	SRGBEncode8, LinearEncode8 []uint8
}

// LabF is the CIELAB companding function, linear near zero and a cube root
// elsewhere.
func LabF(t float32) float32 {
	if t < LabThreshold {
		return t*LabSlope + LabOffset
	}
	return numeric.Cbrt(t)
}

func SRGBToLinear(x float64) float64 {
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

func LinearToSRGB(x float64) float64 {
	if x <= 0.0031308 {
		return x * 12.92
	}
	return 1.055*math.Pow(x, 1./2.4) - 0.055
}

// Build computes a fresh set of tables.
func Build() *Tables {
	ans := Tables{}
	var g, ig [GammaTabSize + 1]float32
	for i := range GammaTabSize + 1 {
		x := float64(float32(i) / GammaScale)
		g[i] = float32(SRGBToLinear(x))
		ig[i] = float32(LinearToSRGB(x))
	}
	ans.SRGBDecode = BuildSpline(g[:])
	ans.SRGBEncode = BuildSpline(ig[:])

	for i := range 256 {
		x := float64(i) / 255
		ans.SRGBDecode8[i] = numeric.RoundUint16(float32(Linear8One * SRGBToLinear(x)))
		ans.LinearDecode8[i] = uint16(i << GammaShift)
	}

	for i := range CbrtTabSize8 {
		x := float32(i) / Linear8One
		ans.Cbrt8[i] = numeric.RoundUint16((1 << LabShift2) * LabF(x))
	}

	ans.SRGBEncode8 = make([]uint8, EncodeTabSize8)
	ans.LinearEncode8 = make([]uint8, EncodeTabSize8)
	for i := range EncodeTabSize8 {
		x := float64(i) / (1 << LabShift2)
		ans.SRGBEncode8[i] = numeric.RoundUint8(float32(255 * LinearToSRGB(x)))
		ans.LinearEncode8[i] = numeric.RoundUint8(float32(255 * x))
	}
	return &ans
}

// Default returns the process wide tables, building them on first use.
var Default = sync.OnceValue(Build)

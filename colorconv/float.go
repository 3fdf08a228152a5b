package colorconv

import (
	"github.com/kovidgoyal/labtransfer/lut"
	"github.com/kovidgoyal/labtransfer/numeric"
)

// FloatConverter converts float32 samples. RGB samples are nominally in
// [0,1]; out of range input is clipped.
type FloatConverter struct {
	mode    Mode
	layout  Layout
	tables  *lut.Tables
	coeffs  [9]float32
	convert func(c *FloatConverter, src, dst []float32, n int)
}

// NewFloat creates a float32 converter. The tables are shared, not copied.
func NewFloat(tables *lut.Tables, mode Mode, layout Layout) *FloatConverter {
	ans := FloatConverter{mode: mode, layout: layout, tables: tables}
	var c [9]float64
	if mode.ToLab() {
		c = forwardCoeffs(SRGBToXYZ, WhiteD65, layout.BlueIndex(), 1)
		check_forward_coeffs(c, 1.5)
		ans.convert = (*FloatConverter).rgb_to_lab
	} else {
		c = inverseCoeffs(XYZToSRGB, WhiteD65, layout.BlueIndex(), 1)
		ans.convert = (*FloatConverter).lab_to_rgb
	}
	for i, x := range c {
		ans.coeffs[i] = float32(x)
	}
	return &ans
}

func (c *FloatConverter) Mode() Mode     { return c.mode }
func (c *FloatConverter) Layout() Layout { return c.layout }

func (c *FloatConverter) Convert(src, dst []float32, n int) {
	if n > 0 {
		c.convert(c, src, dst, n)
	}
}

func lab_f(t float32) float32 {
	if t > lut.LabThreshold {
		return numeric.Cbrt(t)
	}
	return lut.LabSlope*t + lut.LabOffset
}

func (c *FloatConverter) rgb_to_lab(src, dst []float32, n int) {
	scn := c.layout.Channels()
	src, dst = src[:n*scn], dst[:n*3]
	var gamma *lut.Spline[float32]
	if c.mode.Gamma() {
		gamma = c.tables.SRGBDecode
	}
	C0, C1, C2 := c.coeffs[0], c.coeffs[1], c.coeffs[2]
	C3, C4, C5 := c.coeffs[3], c.coeffs[4], c.coeffs[5]
	C6, C7, C8 := c.coeffs[6], c.coeffs[7], c.coeffs[8]

	for range n {
		R, G, B := numeric.Clip01(src[0]), numeric.Clip01(src[1]), numeric.Clip01(src[2])
		if gamma != nil {
			R = gamma.Eval(R * lut.GammaScale)
			G = gamma.Eval(G * lut.GammaScale)
			B = gamma.Eval(B * lut.GammaScale)
		}
		X := R*C0 + G*C1 + B*C2
		Y := R*C3 + G*C4 + B*C5
		Z := R*C6 + G*C7 + B*C8

		FX, FY, FZ := lab_f(X), lab_f(Y), lab_f(Z)
		d := dst[0:3:3]
		if Y > lut.LabThreshold {
			d[0] = 116*FY - 16
		} else {
			d[0] = lut.LabKappa * Y
		}
		d[1] = 500 * (FX - FY)
		d[2] = 200 * (FY - FZ)
		src, dst = src[scn:], dst[3:]
	}
}

func (c *FloatConverter) lab_to_rgb(src, dst []float32, n int) {
	dcn := c.layout.Channels()
	src, dst = src[:n*3], dst[:n*dcn]
	var gamma *lut.Spline[float32]
	if c.mode.Gamma() {
		gamma = c.tables.SRGBEncode
	}
	C0, C1, C2 := c.coeffs[0], c.coeffs[1], c.coeffs[2]
	C3, C4, C5 := c.coeffs[3], c.coeffs[4], c.coeffs[5]
	C6, C7, C8 := c.coeffs[6], c.coeffs[7], c.coeffs[8]
	const lThresh = float32(lut.LabThreshold * lut.LabKappa)
	const fThresh = float32(lut.LabSlope*lut.LabThreshold + lut.LabOffset)
	finv := func(f float32) float32 {
		if f <= fThresh {
			return (f - lut.LabOffset) / lut.LabSlope
		}
		return f * f * f
	}

	for range n {
		li, ai, bi := src[0], src[1], src[2]
		var y, fy float32
		if li <= lThresh {
			y = li / lut.LabKappa
			fy = lut.LabSlope*y + lut.LabOffset
		} else {
			fy = (li + 16) / 116
			y = fy * fy * fy
		}
		x, z := finv(ai/500+fy), finv(fy-bi/200)

		ro := numeric.Clip01(C0*x + C1*y + C2*z)
		gO := numeric.Clip01(C3*x + C4*y + C5*z)
		bo := numeric.Clip01(C6*x + C7*y + C8*z)
		if gamma != nil {
			ro = gamma.Eval(ro * lut.GammaScale)
			gO = gamma.Eval(gO * lut.GammaScale)
			bo = gamma.Eval(bo * lut.GammaScale)
		}
		d := dst[0:dcn:dcn]
		d[0], d[1], d[2] = ro, gO, bo
		if dcn == 4 {
			d[3] = 1
		}
		src, dst = src[3:], dst[dcn:]
	}
}

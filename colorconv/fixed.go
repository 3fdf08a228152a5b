package colorconv

import (
	"math"

	"github.com/kovidgoyal/labtransfer/lut"
	"github.com/kovidgoyal/labtransfer/numeric"
)

// FixedConverter converts 8-bit samples using integer arithmetic and the
// fixed-point lookup tables.
type FixedConverter struct {
	mode    Mode
	layout  Layout
	tables  *lut.Tables
	coeffs  [9]int64
	convert func(c *FixedConverter, src, dst []uint8, n int)
}

// NewFixed creates an 8-bit converter. The tables are shared, not copied.
func NewFixed(tables *lut.Tables, mode Mode, layout Layout) *FixedConverter {
	ans := FixedConverter{mode: mode, layout: layout, tables: tables}
	var c [9]float64
	if mode.ToLab() {
		c = forwardCoeffs(SRGBToXYZ, WhiteD65, layout.BlueIndex(), 1<<lut.LabShift)
		check_forward_coeffs(c, 2<<lut.LabShift)
		ans.convert = (*FixedConverter).rgb_to_lab
	} else {
		c = inverseCoeffs(XYZToSRGB, WhiteD65, layout.BlueIndex(), 1<<lut.LabShift2)
		ans.convert = (*FixedConverter).lab_to_rgb
	}
	for i, x := range c {
		ans.coeffs[i] = int64(math.Round(x))
	}
	return &ans
}

func (c *FixedConverter) Mode() Mode     { return c.mode }
func (c *FixedConverter) Layout() Layout { return c.layout }

func (c *FixedConverter) Convert(src, dst []uint8, n int) {
	if n > 0 {
		c.convert(c, src, dst, n)
	}
}

func (c *FixedConverter) rgb_to_lab(src, dst []uint8, n int) {
	const lScale = (116*255 + 50) / 100
	const lShift = -((16*255*(1<<lut.LabShift2) + 50) / 100)
	scn := c.layout.Channels()
	src, dst = src[:n*scn], dst[:n*3]
	tab := &c.tables.LinearDecode8
	if c.mode.Gamma() {
		tab = &c.tables.SRGBDecode8
	}
	cbrt := &c.tables.Cbrt8
	f := func(v int) int {
		return int(cbrt[min(max(numeric.Descale(v, lut.LabShift), 0), lut.CbrtTabSize8-1)])
	}
	C0, C1, C2 := int(c.coeffs[0]), int(c.coeffs[1]), int(c.coeffs[2])
	C3, C4, C5 := int(c.coeffs[3]), int(c.coeffs[4]), int(c.coeffs[5])
	C6, C7, C8 := int(c.coeffs[6]), int(c.coeffs[7]), int(c.coeffs[8])

	for range n {
		R, G, B := int(tab[src[0]]), int(tab[src[1]]), int(tab[src[2]])
		fX := f(R*C0 + G*C1 + B*C2)
		fY := f(R*C3 + G*C4 + B*C5)
		fZ := f(R*C6 + G*C7 + B*C8)

		L := numeric.Descale(lScale*fY+lShift, lut.LabShift2)
		a := numeric.Descale(500*(fX-fY)+128*(1<<lut.LabShift2), lut.LabShift2)
		b := numeric.Descale(200*(fY-fZ)+128*(1<<lut.LabShift2), lut.LabShift2)

		d := dst[0:3:3]
		d[0], d[1], d[2] = numeric.SaturateUint8(L), numeric.SaturateUint8(a), numeric.SaturateUint8(b)
		src, dst = src[scn:], dst[3:]
	}
}

func (c *FixedConverter) lab_to_rgb(src, dst []uint8, n int) {
	const one = 1 << lut.LabShift2
	// f(t) at the linear/cubic boundary and at zero, in units of 1/one
	fThresh := int64(math.Round((lut.LabSlope*lut.LabThreshold + lut.LabOffset) * one))
	fOffset := int64(math.Round(lut.LabOffset * one))
	finv := func(f int64) int64 {
		if f > fThresh {
			return numeric.Descale64(f*f*f, 2*lut.LabShift2)
		}
		return numeric.DivRound((f-fOffset)*1000, int64(lut.LabSlope*1000))
	}
	dcn := c.layout.Channels()
	src, dst = src[:n*3], dst[:n*dcn]
	tab := c.tables.LinearEncode8
	if c.mode.Gamma() {
		tab = c.tables.SRGBEncode8
	}
	channel := func(v int64) uint8 {
		return tab[min(max(numeric.Descale64(v, lut.LabShift2), 0), one)]
	}
	C0, C1, C2 := c.coeffs[0], c.coeffs[1], c.coeffs[2]
	C3, C4, C5 := c.coeffs[3], c.coeffs[4], c.coeffs[5]
	C6, C7, C8 := c.coeffs[6], c.coeffs[7], c.coeffs[8]

	for range n {
		L8, a8, b8 := int64(src[0]), int64(src[1])-128, int64(src[2])-128
		// f(Y) = (L + 16) / 116 where L = L8 * 100 / 255
		fy := numeric.DivRound((L8*100+16*255)*one, 255*116)
		fx := fy + numeric.DivRound(a8*one, 500)
		fz := fy - numeric.DivRound(b8*one, 200)
		x, y, z := finv(fx), finv(fy), finv(fz)

		d := dst[0:dcn:dcn]
		d[0] = channel(C0*x + C1*y + C2*z)
		d[1] = channel(C3*x + C4*y + C5*z)
		d[2] = channel(C6*x + C7*y + C8*z)
		if dcn == 4 {
			d[3] = 255
		}
		src, dst = src[3:], dst[dcn:]
	}
}

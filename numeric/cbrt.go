package numeric

import (
	"math"
)

// Cbrt returns an approximation of the real cube root of x. The exponent is
// reduced modulo 3 so that the remaining mantissa lies in [0.125, 1), where a
// quartic over quartic rational polynomial has relative error below 2^-24.
// The result is then scaled by 2^(e/3) and the sign restored, so Cbrt is odd
// and Cbrt(0) == 0.
func Cbrt(x float32) float32 {
	bits := math.Float32bits(x)
	ix := int32(bits & 0x7fffffff)
	sign := bits & 0x80000000

	ex := (ix >> 23) - 127
	shx := ex % 3
	if shx >= 0 {
		shx -= 3
	}
	ex = (ex - shx) / 3 // exponent of the cube root

	fr := float64(math.Float32frombits(uint32((ix & (1<<23 - 1)) | ((shx + 127) << 23))))
	// 0.125 <= fr < 1.0
	fr = ((((45.2548339756803022511987494*fr+
		192.2798368355061050458134625)*fr+
		119.1654824285581628956914143)*fr+
		13.43250139086239872172837314)*fr +
		0.1636161226585754240958355063) /
		((((14.80884093219134573786480845*fr+
			151.9714051044435648658557668)*fr+
			168.5254414101568283957668343)*fr+
			33.9905941350215598754191872)*fr +
			1.0)

	if bits<<1 == 0 {
		// +0 and -0
		return x
	}
	r := uint32(int32(math.Float32bits(float32(fr))) + ex<<23)
	return math.Float32frombits(r + sign)
}

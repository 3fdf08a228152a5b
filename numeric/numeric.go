// Package numeric holds the small scalar helpers shared by the lookup tables
// and the colour converters: a fast cube root, fixed-point descaling and
// saturating casts.
package numeric

import (
	"fmt"
	"math"
)

var _ = fmt.Print

// Descale divides x by 2^n rounding half up, using an arithmetic shift so
// negative values round the same way as positive ones.
func Descale(x, n int) int {
	return (x + (1 << (n - 1))) >> n
}

// Descale64 is Descale for int64 intermediates.
func Descale64(x int64, n uint) int64 {
	return (x + (1 << (n - 1))) >> n
}

// DivRound divides n by d (d > 0) rounding half away from zero.
func DivRound(n, d int64) int64 {
	if n < 0 {
		return -((-n + d/2) / d)
	}
	return (n + d/2) / d
}

func Clip01(x float32) float32 {
	return max(0, min(x, 1))
}

func SaturateUint8(v int) uint8 {
	if uint(v) <= math.MaxUint8 {
		return uint8(v)
	}
	if v > 0 {
		return math.MaxUint8
	}
	return 0
}

func SaturateUint16(v int) uint16 {
	if uint(v) <= math.MaxUint16 {
		return uint16(v)
	}
	if v > 0 {
		return math.MaxUint16
	}
	return 0
}

// RoundUint8 rounds v to the nearest integer (halves away from zero) and
// saturates it into [0, 255].
func RoundUint8(v float32) uint8 {
	return SaturateUint8(int(math.Round(float64(v))))
}

// RoundUint16 rounds v to the nearest integer (halves away from zero) and
// saturates it into [0, 65535].
func RoundUint16(v float32) uint16 {
	return SaturateUint16(int(math.Round(float64(v))))
}

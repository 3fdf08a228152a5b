// Package colorconv converts interleaved pixel buffers between device RGB
// (sRGB or linear, D65) and CIELAB.
//
// A converter is one of a small closed set of variants: direction (RGB to Lab
// or Lab to RGB) times precision (float32 samples in [0,1] or 8-bit samples)
// times channel layout (RGB, RGBA, BGR, BGRA). The variant is fixed when the
// converter is created, which also folds the white point and the channel
// order into its 3x3 coefficient matrix. Converters are immutable and may be
// used from multiple goroutines on independent buffers.
//
// Lab is always written and read as 3 interleaved channels. In float
// precision L is in [0,100] and a, b are unbounded. In 8-bit precision L is
// scaled to [0,255] and a, b are offset by 128.
package colorconv

import (
	"fmt"
	"strings"

	"github.com/kovidgoyal/labtransfer/numeric"
)

var _ = fmt.Print

type Vec3 [3]float64
type Mat3 [3][3]float64

// Linear sRGB to CIE XYZ and back, D65.
var (
	SRGBToXYZ = Mat3{
		{0.412453, 0.357580, 0.180423},
		{0.212671, 0.715160, 0.072169},
		{0.019334, 0.119193, 0.950227},
	}
	XYZToSRGB = Mat3{
		{3.240479, -1.53715, -0.498535},
		{-0.969256, 1.875991, 0.041556},
		{0.055648, -0.204043, 1.057311},
	}
	WhiteD65 = Vec3{0.950456, 1.0, 1.088754}
)

type Mode int

const (
	SRGBToLab Mode = iota
	LinearRGBToLab
	LabToSRGB
	LabToLinearRGB
)

var modeNames = map[Mode]string{
	SRGBToLab:      "srgb-to-lab",
	LinearRGBToLab: "linear-to-lab",
	LabToSRGB:      "lab-to-srgb",
	LabToLinearRGB: "lab-to-linear",
}

func (m Mode) String() string { return modeNames[m] }

// ToLab reports whether the mode converts RGB into Lab.
func (m Mode) ToLab() bool { return m == SRGBToLab || m == LinearRGBToLab }

// Gamma reports whether the RGB side of the mode is sRGB encoded rather than linear.
func (m Mode) Gamma() bool { return m == SRGBToLab || m == LabToSRGB }

// Inverse returns the mode converting in the opposite direction.
func (m Mode) Inverse() Mode {
	switch m {
	case SRGBToLab:
		return LabToSRGB
	case LinearRGBToLab:
		return LabToLinearRGB
	case LabToSRGB:
		return SRGBToLab
	default:
		return LinearRGBToLab
	}
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == strings.ToLower(s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown conversion mode: %q", s)
}

type Layout int

const (
	RGB Layout = iota
	RGBA
	BGR
	BGRA
)

var layoutNames = map[Layout]string{RGB: "RGB", RGBA: "RGBA", BGR: "BGR", BGRA: "BGRA"}

func (l Layout) String() string { return layoutNames[l] }

// Channels returns the number of interleaved samples per pixel.
func (l Layout) Channels() int {
	if l == RGBA || l == BGRA {
		return 4
	}
	return 3
}

// BlueIndex returns the position of the blue sample within a pixel.
func (l Layout) BlueIndex() int {
	if l == BGR || l == BGRA {
		return 0
	}
	return 2
}

func ParseLayout(s string) (Layout, error) {
	for l, name := range layoutNames {
		if strings.EqualFold(name, s) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown channel layout: %q", s)
}

// Converter is implemented by FloatConverter (T = float32) and
// FixedConverter (T = uint8).
type Converter[T float32 | uint8] interface {
	// Convert transforms n pixels from src into dst. dst must be allocated
	// by the caller. Lab buffers hold 3 samples per pixel, RGB buffers
	// Layout().Channels() samples per pixel.
	Convert(src, dst []T, n int)
	Mode() Mode
	Layout() Layout
}

var _ Converter[float32] = (*FloatConverter)(nil)
var _ Converter[uint8] = (*FixedConverter)(nil)

// forwardCoeffs returns the RGB to XYZ matrix divided by the white point and
// multiplied by scale, with its columns permuted to match the channel order.
func forwardCoeffs(m Mat3, white Vec3, blue int, scale float64) (ans [9]float64) {
	for i := range 3 {
		s := scale / white[i]
		j := i * 3
		ans[j+(blue^2)] = m[i][0] * s
		ans[j+1] = m[i][1] * s
		ans[j+blue] = m[i][2] * s
	}
	return
}

// inverseCoeffs returns the XYZ to RGB matrix multiplied by the white point
// and by scale, with its rows permuted to match the channel order.
func inverseCoeffs(m Mat3, white Vec3, blue int, scale float64) (ans [9]float64) {
	for i := range 3 {
		ans[i+(blue^2)*3] = m[0][i] * white[i] * scale
		ans[i+3] = m[1][i] * white[i] * scale
		ans[i+blue*3] = m[2][i] * white[i] * scale
	}
	return
}

func check_forward_coeffs(c [9]float64, limit float64) {
	for i := range 3 {
		row := c[i*3 : i*3+3]
		if row[0] < 0 || row[1] < 0 || row[2] < 0 || row[0]+row[1]+row[2] >= limit {
			panic(fmt.Sprintf("RGB to XYZ coefficients out of range in row %d: %v", i, row))
		}
	}
}

// RGB255ToRGB01 converts 8-bit samples to float samples in [0,1]. dst must
// be at least as long as src.
func RGB255ToRGB01(src []uint8, dst []float32) {
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = float32(v) / 255
	}
}

// RGB01ToRGB255 converts float samples in [0,1] to 8-bit samples, rounding
// to nearest and saturating out of range values. dst must be at least as
// long as src.
func RGB01ToRGB255(src []float32, dst []uint8) {
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = numeric.RoundUint8(v * 255)
	}
}

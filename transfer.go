package labtransfer

import (
	"fmt"
	"image"
	"runtime"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/labtransfer/colorconv"
	"github.com/kovidgoyal/labtransfer/lut"
	"github.com/kovidgoyal/labtransfer/numeric"
	"github.com/kovidgoyal/labtransfer/rbf"
)

var _ = fmt.Print

// ColorPair is a colour as observed in the source and the colour it should
// be mapped to.
type ColorPair struct {
	Source, Target NRGBColor
}

// PairsFromTriples converts the output of correspondence.ReadColorPairs.
func PairsFromTriples(t [][2][3]uint8) []ColorPair {
	ans := make([]ColorPair, len(t))
	for i, p := range t {
		ans[i] = ColorPair{NRGBColor{p[0][0], p[0][1], p[0][2]}, NRGBColor{p[1][0], p[1][1], p[1][2]}}
	}
	return ans
}

type transferConfig struct {
	kernel         rbf.Kernel
	normalize      bool
	gamma          bool
	workers        int
	rank_tolerance float64
}

var defaultTransferConfig = transferConfig{
	kernel:    rbf.NormalizedShepard{P: rbf.DefaultNormalizedShepardPower},
	normalize: true,
	gamma:     true,
}

// TransferOption sets an optional parameter for NewTransfer.
type TransferOption func(*transferConfig)

// Kernel sets the radial kernel. Defaults to rbf.NormalizedShepard with the
// default power.
func Kernel(k rbf.Kernel) TransferOption {
	return func(c *transferConfig) { c.kernel = k }
}

// Normalize enables or disables normalized interpolation. Enabled by default.
func Normalize(enabled bool) TransferOption {
	return func(c *transferConfig) { c.normalize = enabled }
}

// Gamma selects whether pixel values are sRGB encoded (the default) or
// linear.
func Gamma(srgb bool) TransferOption {
	return func(c *transferConfig) { c.gamma = srgb }
}

// Workers sets the number of goroutines Apply uses. Zero or less means
// GOMAXPROCS.
func Workers(n int) TransferOption {
	return func(c *transferConfig) { c.workers = n }
}

// RankTolerance sets the rank tolerance of the fitted models, see
// rbf.WithRankTolerance.
func RankTolerance(tol float64) TransferOption {
	return func(c *transferConfig) { c.rank_tolerance = tol }
}

// Transfer maps colours through three RBF models fitted in Lab space, one
// per channel. It is immutable and safe for concurrent use.
type Transfer struct {
	models  [3]*rbf.Model
	tables  *lut.Tables
	cfg     transferConfig
	to_lab  colorconv.Mode
	to_rgb  colorconv.Mode
	n_pairs int
}

// NewTransfer fits a colour transfer to the specified pairs.
func NewTransfer(pairs []ColorPair, opts ...TransferOption) (*Transfer, error) {
	cfg := defaultTransferConfig
	for _, option := range opts {
		option(&cfg)
	}
	ans := Transfer{cfg: cfg, tables: lut.Default(), to_lab: colorconv.SRGBToLab, n_pairs: len(pairs)}
	if !cfg.gamma {
		ans.to_lab = colorconv.LinearRGBToLab
	}
	ans.to_rgb = ans.to_lab.Inverse()

	rgb := make([]uint8, 0, len(pairs)*6)
	for _, p := range pairs {
		rgb = append(rgb, p.Source.R, p.Source.G, p.Source.B, p.Target.R, p.Target.G, p.Target.B)
	}
	frgb := make([]float32, len(rgb))
	lab := make([]float32, len(rgb))
	colorconv.RGB255ToRGB01(rgb, frgb)
	colorconv.NewFloat(ans.tables, ans.to_lab, colorconv.RGB).Convert(frgb, lab, len(pairs)*2)

	support := make([][]float64, len(pairs))
	var values [3][]float64
	for c := range values {
		values[c] = make([]float64, len(pairs))
	}
	for i := range pairs {
		src, dst := lab[i*6:i*6+3], lab[i*6+3:i*6+6]
		support[i] = []float64{float64(src[0]), float64(src[1]), float64(src[2])}
		for c := range 3 {
			values[c][i] = float64(dst[c] - src[c])
		}
	}
	model_opts := []rbf.Option{rbf.WithLogger(Logger())}
	if cfg.rank_tolerance > 0 {
		model_opts = append(model_opts, rbf.WithRankTolerance(cfg.rank_tolerance))
	}
	for c := range 3 {
		m, err := rbf.New(support, values[c], cfg.kernel, cfg.normalize, model_opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to fit the model for Lab channel %d: %w", c, err)
		}
		ans.models[c] = m
	}
	Logger().Info("created colour transfer", "pairs", len(pairs), "kernel", cfg.kernel.String(), "normalized", cfg.normalize, "srgb", cfg.gamma)
	return &ans, nil
}

// Len returns the number of colour pairs the transfer was fitted to.
func (t *Transfer) Len() int { return t.n_pairs }

// Model returns the model for the L (0), a (1) or b (2) channel.
func (t *Transfer) Model(channel int) *rbf.Model { return t.models[channel] }

// Warnings returns the fit warnings of the three models, if any.
func (t *Transfer) Warnings() (ans []*rbf.FitWarning) {
	for _, m := range t.models {
		if w := m.Warning(); w != nil {
			ans = append(ans, w)
		}
	}
	return
}

// MapLab returns lab plus the interpolated per channel differences.
func (t *Transfer) MapLab(lab [3]float32) [3]float32 {
	q := []float64{float64(lab[0]), float64(lab[1]), float64(lab[2])}
	return t.map_lab(lab, q)
}

func (t *Transfer) map_lab(lab [3]float32, q []float64) [3]float32 {
	for c, m := range t.models {
		lab[c] += float32(m.Evaluate(q))
	}
	return lab
}

// row_mapper holds the scratch buffers of one worker.
type row_mapper struct {
	t        *Transfer
	to_lab   *colorconv.FloatConverter
	to_rgb   *colorconv.FloatConverter
	rgb, lab []float32
	q        []float64
}

func (t *Transfer) new_row_mapper(layout colorconv.Layout, width int) *row_mapper {
	return &row_mapper{
		t:      t,
		to_lab: colorconv.NewFloat(t.tables, t.to_lab, layout),
		to_rgb: colorconv.NewFloat(t.tables, t.to_rgb, layout),
		rgb:    make([]float32, width*layout.Channels()),
		lab:    make([]float32, width*3),
		q:      make([]float64, 3),
	}
}

// remap maps the pixels in row in place, leaving alpha untouched.
func (r *row_mapper) remap(row []uint8) {
	cn := r.to_lab.Layout().Channels()
	n := len(row) / cn
	rgb, lab := r.rgb[:n*cn], r.lab[:n*3]
	colorconv.RGB255ToRGB01(row, rgb)
	r.to_lab.Convert(rgb, lab, n)
	for i := range n {
		l := lab[i*3 : i*3+3 : i*3+3]
		r.q[0], r.q[1], r.q[2] = float64(l[0]), float64(l[1]), float64(l[2])
		m := r.t.map_lab([3]float32{l[0], l[1], l[2]}, r.q)
		l[0], l[1], l[2] = m[0], m[1], m[2]
	}
	r.to_rgb.Convert(lab, rgb, n)
	if cn == 3 {
		colorconv.RGB01ToRGB255(rgb, row)
		return
	}
	for i := range n {
		colorconv.RGB01ToRGB255(rgb[i*cn:i*cn+3], row[i*cn:i*cn+3])
	}
}

// premultiply8 and unpremultiply8 both round to nearest, so that
// premultiply8(unpremultiply8(r, a), a) == r for every r <= a.
func premultiply8(r, a uint8) uint8 {
	return uint8((uint32(r)*uint32(a) + 0x7f) / 0xff)
}

func unpremultiply8(r, a uint8) uint8 {
	return numeric.SaturateUint8((int(r)*0xff + int(a)/2) / int(a))
}

// Apply remaps the colours of img. *Pixels, *image.NRGBA and *image.RGBA
// images are modified in place and returned, alpha is preserved. Other
// images are first copied into a new *Pixels image which is then returned.
func (t *Transfer) Apply(img image.Image) (ans image.Image, err error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	ans = img
	if width == 0 || height == 0 {
		return
	}
	var layout colorconv.Layout
	var rows func(y int) []uint8
	var f func(start, limit int)
	switch i := img.(type) {
	case *Pixels:
		layout, rows = i.Layout, func(y int) []uint8 { return i.Pix[i.Stride*y : i.Stride*y+width*i.Layout.Channels()] }
	case *image.NRGBA:
		layout, rows = colorconv.RGBA, func(y int) []uint8 { return i.Pix[i.Stride*y : i.Stride*y+width*4] }
	case *image.RGBA:
		f = func(start, limit int) {
			r := t.new_row_mapper(colorconv.RGBA, width)
			scratch := make([]uint8, width*4)
			for y := start; y < limit; y++ {
				row := i.Pix[i.Stride*y : i.Stride*y+width*4]
				for x := range width {
					s, d := row[x*4:x*4+4:x*4+4], scratch[x*4:x*4+4:x*4+4]
					if a := s[3]; a != 0 {
						d[0], d[1], d[2], d[3] = unpremultiply8(s[0], a), unpremultiply8(s[1], a), unpremultiply8(s[2], a), a
					} else {
						d[0], d[1], d[2], d[3] = 0, 0, 0, 0
					}
				}
				r.remap(scratch)
				for x := range width {
					s, d := scratch[x*4:x*4+4:x*4+4], row[x*4:x*4+4:x*4+4]
					if a := d[3]; a != 0 {
						d[0], d[1], d[2] = premultiply8(s[0], a), premultiply8(s[1], a), premultiply8(s[2], a)
					}
				}
			}
		}
	default:
		layout = colorconv.RGBA
		if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
			layout = colorconv.RGB
		}
		p := ToPixels(img, layout)
		ans = p
		rows = func(y int) []uint8 { return p.Pix[p.Stride*y : p.Stride*y+width*layout.Channels()] }
	}
	if f == nil {
		f = func(start, limit int) {
			r := t.new_row_mapper(layout, width)
			for y := start; y < limit; y++ {
				r.remap(rows(y))
			}
		}
	}
	workers := t.cfg.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if err = parallel.Run_in_parallel_over_range(workers, f, 0, height); err != nil {
		return nil, err
	}
	Logger().Info("remapped image colours", "width", width, "height", height, "workers", workers)
	return
}

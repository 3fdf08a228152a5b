package labtransfer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/kovidgoyal/labtransfer/colorconv"
)

var _ = fmt.Print

type NRGBColor struct {
	R, G, B uint8
}

// Hex returns the colour as #RRGGBB.
func (c NRGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c NRGBColor) String() string {
	return fmt.Sprintf("NRGBColor{%02X %02X %02X}", c.R, c.G, c.B)
}

func (c NRGBColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 65535 // (255 << 8 | 255)
	return
}

func nrgbModel(c color.Color) color.Color {
	if _, ok := c.(NRGBColor); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return NRGBColor{n.R, n.G, n.B}
}

var NRGBModel color.Model = color.ModelFunc(nrgbModel)

// Pixels is an in-memory 8-bit image whose samples are interleaved in one of
// the channel layouts understood by the colour converters. Alpha, when
// present, is not premultiplied.
type Pixels struct {
	// Pix holds the image's samples. The pixel at (x, y) starts at
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*Layout.Channels()].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect   image.Rectangle
	Layout colorconv.Layout
}

var _ draw.Image = (*Pixels)(nil)

func (p *Pixels) ColorModel() color.Model { return color.NRGBAModel }

func (p *Pixels) Bounds() image.Rectangle { return p.Rect }

func (p *Pixels) At(x, y int) color.Color {
	return p.NRGBAAt(x, y)
}

func (p *Pixels) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.NRGBA{}
	}
	i := p.PixOffset(x, y)
	cn := p.Layout.Channels()
	s := p.Pix[i : i+cn : i+cn]
	ans := color.NRGBA{s[0], s[1], s[2], 255}
	if p.Layout.BlueIndex() == 0 {
		ans.R, ans.B = ans.B, ans.R
	}
	if cn == 4 {
		ans.A = s[3]
	}
	return ans
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *Pixels) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*p.Layout.Channels()
}

func (p *Pixels) Set(x, y int, c color.Color) {
	p.SetNRGBA(x, y, color.NRGBAModel.Convert(c).(color.NRGBA))
}

func (p *Pixels) SetNRGBA(x, y int, c color.NRGBA) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	cn := p.Layout.Channels()
	s := p.Pix[i : i+cn : i+cn]
	s[0], s[1], s[2] = c.R, c.G, c.B
	if p.Layout.BlueIndex() == 0 {
		s[0], s[2] = c.B, c.R
	}
	if cn == 4 {
		s[3] = c.A
	}
}

// Row returns the samples of row y, which must be inside the image.
func (p *Pixels) Row(y int) []uint8 {
	i := p.PixOffset(p.Rect.Min.X, y)
	return p.Pix[i : i+p.Rect.Dx()*p.Layout.Channels()]
}

// SubImage returns an image representing the portion of the image p visible
// through r. The returned value shares pixels with the original image.
func (p *Pixels) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	// If r1 and r2 are Rectangles, r1.Intersect(r2) is not guaranteed to be inside
	// either r1 or r2 if the intersection is empty. Without explicitly checking for
	// this, the Pix[i:] expression below can panic.
	if r.Empty() {
		return &Pixels{Layout: p.Layout}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &Pixels{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
		Layout: p.Layout,
	}
}

// Opaque scans the entire image and reports whether it is fully opaque.
func (p *Pixels) Opaque() bool {
	if p.Layout.Channels() == 3 || p.Rect.Empty() {
		return true
	}
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		row := p.Row(y)
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return false
			}
		}
	}
	return true
}

func NewPixels(r image.Rectangle, layout colorconv.Layout) *Pixels {
	cn := layout.Channels()
	return &Pixels{
		Pix:    make([]uint8, cn*r.Dx()*r.Dy()),
		Stride: cn * r.Dx(),
		Rect:   r,
		Layout: layout,
	}
}

// NewPixelsFromBytes wraps contiguous pixel data without copying it.
func NewPixelsFromBytes(p []byte, layout colorconv.Layout, width, height int) (*Pixels, error) {
	bpp := layout.Channels()
	if expected := bpp * width * height; expected != len(p) {
		return nil, fmt.Errorf("the image width and height dont match the size of the specified pixel data: width=%d height=%d sz=%d != %d", width, height, len(p), expected)
	}
	return &Pixels{
		Pix:    p,
		Stride: bpp * width,
		Rect:   image.Rect(0, 0, width, height),
		Layout: layout,
	}, nil
}

// ToPixels copies img into a new Pixels image with the specified layout.
// Colours are un-premultiplied and, for 3 channel layouts, alpha is dropped.
func ToPixels(img image.Image, layout colorconv.Layout) *Pixels {
	b := img.Bounds()
	ans := NewPixels(b, layout)
	switch src := img.(type) {
	case *image.NRGBA:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				ans.SetNRGBA(x, y, src.NRGBAAt(x, y))
			}
		}
	case *Pixels:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				ans.SetNRGBA(x, y, src.NRGBAAt(x, y))
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				ans.Set(x, y, img.At(x, y))
			}
		}
	}
	return ans
}

package labtransfer

import (
	"image"

	"github.com/kovidgoyal/go-parallel"
	"github.com/kovidgoyal/labtransfer/colorconv"
)

// orientation is an EXIF flag that specifies the transformation
// that should be applied to image to display it correctly.
type orientation int

const (
	orientationUnspecified = 0
	orientationNormal      = 1
	orientationFlipH       = 2
	orientationRotate180   = 3
	orientationFlipV       = 4
	orientationTranspose   = 5
	orientationRotate270   = 6
	orientationTransverse  = 7
	orientationRotate90    = 8
)

// source_point returns the pixel of a w x h source image that lands at
// (x, y) in the output after applying o.
func source_point(o orientation, x, y, w, h int) (int, int) {
	switch o {
	case orientationFlipH:
		return w - 1 - x, y
	case orientationRotate180:
		return w - 1 - x, h - 1 - y
	case orientationFlipV:
		return x, h - 1 - y
	case orientationTranspose:
		return y, x
	case orientationRotate270:
		return y, h - 1 - x
	case orientationTransverse:
		return w - 1 - y, h - 1 - x
	case orientationRotate90:
		return w - 1 - y, x
	}
	return x, y
}

// fixOrientation returns a new image with the transform corresponding to
// the given orientation flag applied to img.
func fixOrientation(img image.Image, o orientation) (image.Image, error) {
	if o == orientationUnspecified || o == orientationNormal {
		return img, nil
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if o >= orientationTranspose {
		dw, dh = h, w
	}
	layout := colorconv.RGBA
	if op, ok := img.(interface{ Opaque() bool }); ok && op.Opaque() {
		layout = colorconv.RGB
	}
	src := ToPixels(img, layout)
	dst := NewPixels(image.Rect(0, 0, dw, dh), layout)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			for x := range dw {
				sx, sy := source_point(o, x, y, w, h)
				dst.SetNRGBA(x, y, src.NRGBAAt(b.Min.X+sx, b.Min.Y+sy))
			}
		}
	}
	if err := parallel.Run_in_parallel_over_range(0, f, 0, dh); err != nil {
		return nil, err
	}
	return dst, nil
}

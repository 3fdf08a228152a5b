/*
Package labtransfer maps the colours of an image through a smooth colour
correction field learned from a handful of sampled colour pairs.

Each pair holds a colour as it appears in the source and the colour it should
become. Both are converted to CIELAB, and one radial basis function model per
Lab channel is fitted to the per-channel differences, using the source
colours as support points. Transfer.Apply then converts every pixel of an
image to Lab, adds the three interpolated differences and converts back.

The colour conversions live in the colorconv package, the interpolation in
the rbf package and the text formats used to store colour pairs in the
correspondence package.
*/
package labtransfer

import "fmt"

type VersionInfo struct {
	Major, Minor, Patch uint
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

var Version = VersionInfo{0, 3, 0}

package filter

import (
	"bytes"
	"fmt"
)

// ColorSpace identifies how the components of a pixel are interpreted.
type ColorSpace int

const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceGrayscale
	ColorSpaceRGB
	ColorSpaceCMYK
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceGrayscale:
		return "Grayscale"
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceCMYK:
		return "CMYK"
	default:
		return "Unknown"
	}
}

// Raster is a decoded image held as rows of component-interleaved samples.
// Every row is Width*Components bytes long.
type Raster struct {
	Width      int
	Height     int
	Components int
	ColorSpace ColorSpace
	Rows       [][]byte
}

// NewRaster allocates a zeroed raster of the given geometry.
func NewRaster(width, height, components int, cs ColorSpace) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions %dx%d", width, height)
	}
	if components <= 0 {
		return nil, fmt.Errorf("invalid component count %d", components)
	}
	stride := width * components
	// one backing array keeps rows contiguous, like a decoder scanline buffer
	buf := make([]byte, stride*height)
	rows := make([][]byte, height)
	for y := range rows {
		rows[y] = buf[y*stride : (y+1)*stride : (y+1)*stride]
	}
	return &Raster{Width: width, Height: height, Components: components, ColorSpace: cs, Rows: rows}, nil
}

// Stride returns the number of samples in one row.
func (r *Raster) Stride() int {
	return r.Width * r.Components
}

// Validate checks the row invariants.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("raster is nil")
	}
	if r.Width <= 0 || r.Height <= 0 || r.Components <= 0 {
		return fmt.Errorf("invalid raster geometry %dx%dx%d", r.Width, r.Height, r.Components)
	}
	if len(r.Rows) != r.Height {
		return fmt.Errorf("raster has %d rows, want %d", len(r.Rows), r.Height)
	}
	stride := r.Stride()
	for y, row := range r.Rows {
		if len(row) != stride {
			return fmt.Errorf("row %d has %d samples, want %d", y, len(row), stride)
		}
	}
	return nil
}

// Pixel returns the samples of the pixel at (x, y). The slice aliases the raster.
func (r *Raster) Pixel(x, y int) []byte {
	i := x * r.Components
	return r.Rows[y][i : i+r.Components : i+r.Components]
}

// Clone returns a deep copy of r.
func (r *Raster) Clone() *Raster {
	if r == nil {
		return nil
	}
	out := &Raster{Width: r.Width, Height: r.Height, Components: r.Components, ColorSpace: r.ColorSpace}
	out.Rows = make([][]byte, len(r.Rows))
	for y, row := range r.Rows {
		out.Rows[y] = append([]byte(nil), row...)
	}
	return out
}

// Equal reports whether a and b have the same geometry, color space and samples.
func Equal(a, b *Raster) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Width != b.Width || a.Height != b.Height || a.Components != b.Components || a.ColorSpace != b.ColorSpace {
		return false
	}
	if len(a.Rows) != len(b.Rows) {
		return false
	}
	for y := range a.Rows {
		if !bytes.Equal(a.Rows[y], b.Rows[y]) {
			return false
		}
	}
	return true
}

// release drops the storage of a raster that has been replaced.
func (r *Raster) release() {
	r.Rows = nil
	r.Width = 0
	r.Height = 0
}

package filter

import "fmt"

// FlipRaster mirrors r in place. Vertical swaps pixel x with width-1-x in
// every row; Horizontal swaps row y with height-1-y. Other axes, and a nil
// or malformed raster, are a no-op.
func FlipRaster(r *Raster, axis Axis) {
	if r.Validate() != nil {
		return
	}
	switch axis {
	case Vertical:
		c := r.Components
		for _, row := range r.Rows {
			for x := 0; x < r.Width/2; x++ {
				a := row[x*c : x*c+c]
				e := r.Width - 1 - x
				b := row[e*c : e*c+c]
				swapPixel(a, b)
			}
		}
	case Horizontal:
		// swapping whole rows moves every pixel without touching samples
		for y := 0; y < r.Height/2; y++ {
			r.Rows[y], r.Rows[r.Height-1-y] = r.Rows[r.Height-1-y], r.Rows[y]
		}
	}
}

func swapPixel(a, b []byte) {
	for k := range a {
		a[k], b[k] = b[k], a[k]
	}
}

// RotateRaster turns r by 90 degrees into a newly allocated raster of swapped
// dimensions. Right is clockwise: (x, y) -> (newW-1-y, x). Left is
// counter-clockwise: (x, y) -> (y, newH-1-x). r is released once the new
// raster is fully populated. An unknown direction or a malformed raster
// leaves r untouched.
func RotateRaster(r *Raster, dir Direction) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if dir != Left && dir != Right {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDirection, dir)
	}
	w := r.Width
	h := r.Height
	c := r.Components
	out, err := NewRaster(h, w, c, r.ColorSpace)
	if err != nil {
		return nil, err
	}
	newW := out.Width
	newH := out.Height
	for y := 0; y < h; y++ {
		src := r.Rows[y]
		for x := 0; x < w; x++ {
			var dx, dy int
			if dir == Right {
				dx, dy = newW-1-y, x
			} else {
				dx, dy = y, newH-1-x
			}
			copy(out.Rows[dy][dx*c:dx*c+c], src[x*c:x*c+c])
		}
	}
	r.release()
	return out, nil
}

package filter

import (
	"errors"
	"fmt"
)

// Filter names a transform. Values outside the registered set are kept
// verbatim so errors can name them.
type Filter string

const (
	Negate     Filter = "negate"
	Brightness Filter = "brightness"
	Contrast   Filter = "contrast"
	Flip       Filter = "flip"
	Rotate     Filter = "rotate"
)

// Axis selects the mirror line of Flip.
type Axis string

const (
	// Horizontal swaps rows top to bottom.
	Horizontal Axis = "x"
	// Vertical swaps columns left to right.
	Vertical Axis = "y"
)

// Direction selects the turn of Rotate.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

var (
	ErrUnsupportedColorSpace = errors.New("unsupported color space")
	ErrUnknownFilter         = errors.New("unknown filter")
	ErrUnknownDirection      = errors.New("unknown direction")
	ErrUnknownAxis           = errors.New("unknown axis")
)

// Request selects a filter and carries its parameters.
type Request struct {
	Filter     Filter
	Percent    float64 // brightness
	Multiplier float64 // contrast
	Axis       Axis
	Direction  Direction
}

// DefaultRequest returns a request for f with the command line defaults.
func DefaultRequest(f Filter) Request {
	return Request{Filter: f, Percent: 0, Multiplier: 1, Axis: Vertical, Direction: Right}
}

// Apply runs req against r and returns the raster the caller owns afterwards.
// Negate, Brightness, Contrast and Flip mutate r and return it. Rotate returns
// a new raster and releases r, which must not be used again. On error r is
// returned unmodified.
func Apply(r *Raster, req Request) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return r, err
	}
	if r.ColorSpace != ColorSpaceRGB {
		return r, fmt.Errorf("%w: %s", ErrUnsupportedColorSpace, r.ColorSpace)
	}
	switch req.Filter {
	case Negate:
		NegateRaster(r)
		return r, nil
	case Brightness:
		BrightnessRaster(r, req.Percent)
		return r, nil
	case Contrast:
		ContrastRaster(r, req.Multiplier)
		return r, nil
	case Flip:
		FlipRaster(r, req.Axis)
		return r, nil
	case Rotate:
		out, err := RotateRaster(r, req.Direction)
		if err != nil {
			return r, err
		}
		return out, nil
	default:
		return r, fmt.Errorf("%w: %s", ErrUnknownFilter, req.Filter)
	}
}

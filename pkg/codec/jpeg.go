// Package codec converts between JPEG files and filter.Raster values.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/Fepozopo/point/pkg/filter"
)

// DefaultQuality is the JPEG quality used when writing output.
const DefaultQuality = 75

var (
	ErrInvalidRaster     = errors.New("invalid raster")
	ErrUnsupportedLayout = errors.New("unsupported raster layout")
)

// Decode reads a JPEG stream into a raster. Color JPEGs are converted to
// interleaved RGB; grayscale and CMYK images keep their own layout so the
// caller can see they are not RGB.
func Decode(r io.Reader) (*filter.Raster, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return FromImage(img)
}

// FromImage copies img into a new raster.
func FromImage(img image.Image) (*filter.Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		out, err := filter.NewRaster(b.Dx(), b.Dy(), 1, filter.ColorSpaceGrayscale)
		if err != nil {
			return nil, err
		}
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Rows[y], src.Pix[i:i+b.Dx()])
		}
		return out, nil
	case *image.CMYK:
		out, err := filter.NewRaster(b.Dx(), b.Dy(), 4, filter.ColorSpaceCMYK)
		if err != nil {
			return nil, err
		}
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Rows[y], src.Pix[i:i+4*b.Dx()])
		}
		return out, nil
	}

	// everything else (YCbCr from color JPEGs) is rendered to RGBA first
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	out, err := filter.NewRaster(b.Dx(), b.Dy(), 3, filter.ColorSpaceRGB)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		row := out.Rows[y]
		for x := 0; x < b.Dx(); x++ {
			i := rgba.PixOffset(x, y)
			row[x*3+0] = rgba.Pix[i+0]
			row[x*3+1] = rgba.Pix[i+1]
			row[x*3+2] = rgba.Pix[i+2]
		}
	}
	return out, nil
}

// ToImage wraps the raster samples in an image.Image matching its color space.
// Encode converts a CMYK image to YCbCr; see OutputColorSpace.
func ToImage(r *filter.Raster) (image.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRaster, err)
	}
	rect := image.Rect(0, 0, r.Width, r.Height)
	switch {
	case r.ColorSpace == filter.ColorSpaceRGB && r.Components == 3:
		img := image.NewRGBA(rect)
		for y, row := range r.Rows {
			for x := 0; x < r.Width; x++ {
				i := img.PixOffset(x, y)
				img.Pix[i+0] = row[x*3+0]
				img.Pix[i+1] = row[x*3+1]
				img.Pix[i+2] = row[x*3+2]
				img.Pix[i+3] = 0xff
			}
		}
		return img, nil
	case r.ColorSpace == filter.ColorSpaceGrayscale && r.Components == 1:
		img := image.NewGray(rect)
		for y, row := range r.Rows {
			copy(img.Pix[img.PixOffset(0, y):], row)
		}
		return img, nil
	case r.ColorSpace == filter.ColorSpaceCMYK && r.Components == 4:
		img := image.NewCMYK(rect)
		for y, row := range r.Rows {
			copy(img.Pix[img.PixOffset(0, y):], row)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %s with %d components", ErrUnsupportedLayout, r.ColorSpace, r.Components)
	}
}

// Encode writes r as a JPEG of the given quality (1..100).
func Encode(w io.Writer, r *filter.Raster, quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("jpeg quality %d out of range 1-100", quality)
	}
	img, err := ToImage(r)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (*filter.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input jpeg file: %w", err)
	}
	defer f.Close()
	r, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// EncodeFile creates (or truncates) path and writes r to it. The raster and
// quality are checked before the file is created; if encoding fails after
// that the partial file is removed.
func EncodeFile(r *filter.Raster, path string, quality int) error {
	img, err := ToImage(r)
	if err != nil {
		return err
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("jpeg quality %d out of range 1-100", quality)
	}
	return writeFile(path, func(w io.Writer) error {
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode jpeg %s: %w", path, err)
		}
		return nil
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening output jpeg file: %w", err)
	}
	bw := bufio.NewWriter(f)
	err = write(bw)
	if err == nil {
		if ferr := bw.Flush(); ferr != nil {
			err = fmt.Errorf("writing %s: %w", path, ferr)
		}
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", path, cerr)
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// OutputColorSpace reports the color space a raster of color space cs has
// once written and decoded again. image/jpeg has no CMYK writer, so CMYK
// rasters come back as RGB.
func OutputColorSpace(cs filter.ColorSpace) filter.ColorSpace {
	if cs == filter.ColorSpaceCMYK {
		return filter.ColorSpaceRGB
	}
	return cs
}

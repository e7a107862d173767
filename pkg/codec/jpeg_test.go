package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fepozopo/point/pkg/filter"
)

func makeSolidRaster(t *testing.T, w, h int, c [3]byte) *filter.Raster {
	t.Helper()
	r, err := filter.NewRaster(w, h, 3, filter.ColorSpaceRGB)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(r.Pixel(x, y), c[:])
		}
	}
	return r
}

func near(a, b byte, tol int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestEncodeDecodeRGB(t *testing.T) {
	src := makeSolidRaster(t, 24, 16, [3]byte{200, 40, 90})
	var buf bytes.Buffer
	if err := Encode(&buf, src, DefaultQuality); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if b := buf.Bytes(); len(b) < 2 || b[0] != 0xFF || b[1] != 0xD8 {
		t.Fatalf("output does not start with JPEG SOI")
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Width != 24 || out.Height != 16 || out.Components != 3 || out.ColorSpace != filter.ColorSpaceRGB {
		t.Fatalf("decoded %dx%dx%d %s; want 24x16x3 RGB", out.Width, out.Height, out.Components, out.ColorSpace)
	}
	p := out.Pixel(12, 8)
	if !near(p[0], 200, 6) || !near(p[1], 40, 6) || !near(p[2], 90, 6) {
		t.Fatalf("center pixel = %v; want about [200 40 90]", p)
	}
}

func TestEncodeDecodeGrayscaleKeepsLayout(t *testing.T) {
	src, err := filter.NewRaster(8, 5, 1, filter.ColorSpaceGrayscale)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	for _, row := range src.Rows {
		for i := range row {
			row[i] = 130
		}
	}
	var buf bytes.Buffer
	if err := Encode(&buf, src, DefaultQuality); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ColorSpace != filter.ColorSpaceGrayscale || out.Components != 1 {
		t.Fatalf("decoded %s/%d; want Grayscale/1", out.ColorSpace, out.Components)
	}
	if out.Width != 8 || out.Height != 5 {
		t.Fatalf("decoded size %dx%d; want 8x5", out.Width, out.Height)
	}
	if !near(out.Rows[2][3], 130, 2) {
		t.Fatalf("gray sample = %d; want about 130", out.Rows[2][3])
	}
}

func TestFromImageNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 5, 5))
	img.Set(2, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.Set(4, 4, color.NRGBA{R: 7, G: 8, B: 9, A: 255})
	r, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if r.Width != 3 || r.Height != 2 || r.ColorSpace != filter.ColorSpaceRGB {
		t.Fatalf("got %dx%d %s; want 3x2 RGB", r.Width, r.Height, r.ColorSpace)
	}
	if p := r.Pixel(0, 0); p[0] != 1 || p[1] != 2 || p[2] != 3 {
		t.Fatalf("pixel (0,0) = %v; want [1 2 3]", p)
	}
	if p := r.Pixel(2, 1); p[0] != 7 || p[1] != 8 || p[2] != 9 {
		t.Fatalf("pixel (2,1) = %v; want [7 8 9]", p)
	}
}

func TestFromImageCMYKRoundTrip(t *testing.T) {
	img := image.NewCMYK(image.Rect(0, 0, 2, 2))
	img.SetCMYK(1, 1, color.CMYK{C: 10, M: 20, Y: 30, K: 40})
	r, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if r.ColorSpace != filter.ColorSpaceCMYK || r.Components != 4 {
		t.Fatalf("got %s/%d; want CMYK/4", r.ColorSpace, r.Components)
	}
	back, err := ToImage(r)
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	c, ok := back.(*image.CMYK)
	if !ok {
		t.Fatalf("ToImage returned %T; want *image.CMYK", back)
	}
	if got := c.CMYKAt(1, 1); got != (color.CMYK{C: 10, M: 20, Y: 30, K: 40}) {
		t.Fatalf("CMYKAt(1,1) = %v", got)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	src := makeSolidRaster(t, 2, 2, [3]byte{1, 2, 3})
	var buf bytes.Buffer
	for _, q := range []int{0, -5, 101} {
		if err := Encode(&buf, src, q); err == nil {
			t.Fatalf("Encode(quality=%d) expected error", q)
		}
	}

	odd := src.Clone()
	odd.ColorSpace = filter.ColorSpaceUnknown
	if err := Encode(&buf, odd, DefaultQuality); !errors.Is(err, ErrUnsupportedLayout) {
		t.Fatalf("Encode(unknown color space) error = %v; want ErrUnsupportedLayout", err)
	}

	broken := src.Clone()
	broken.Rows = broken.Rows[:1]
	if err := Encode(&buf, broken, DefaultQuality); !errors.Is(err, ErrInvalidRaster) {
		t.Fatalf("Encode(broken) error = %v; want ErrInvalidRaster", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("definitely not a jpeg"))); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jpg")
	src := makeSolidRaster(t, 10, 7, [3]byte{20, 220, 120})
	if err := EncodeFile(src, path, DefaultQuality); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	out, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if out.Width != 10 || out.Height != 7 {
		t.Fatalf("decoded size %dx%d; want 10x7", out.Width, out.Height)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "missing.jpg"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("DecodeFile(missing) error = %v; want os.ErrNotExist", err)
	}
}

func TestEncodeFileLeavesNoFileOnBadRaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	bad := &filter.Raster{Width: 2, Height: 2, Components: 3, ColorSpace: filter.ColorSpaceRGB}
	if err := EncodeFile(bad, path, DefaultQuality); err == nil {
		t.Fatalf("expected error for raster without rows")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("output file should not exist, stat err = %v", err)
	}
}

func TestEncodeFileUnwritable(t *testing.T) {
	src := makeSolidRaster(t, 2, 2, [3]byte{1, 2, 3})
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.jpg")
	if err := EncodeFile(src, path, DefaultQuality); err == nil {
		t.Fatalf("expected error writing into a missing directory")
	}
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.jpg")
	boom := errors.New("encoder failed")
	err := writeFile(path, func(w io.Writer) error {
		if _, err := w.Write([]byte{0xff, 0xd8}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("writeFile error = %v; want %v", err, boom)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial file should be removed, stat err = %v", err)
	}
}

func TestCMYKIsWrittenAsRGB(t *testing.T) {
	src, err := filter.NewRaster(4, 4, 4, filter.ColorSpaceCMYK)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			copy(src.Pixel(x, y), []byte{10, 20, 30, 40})
		}
	}
	path := filepath.Join(t.TempDir(), "cmyk.jpg")
	if err := EncodeFile(src, path, DefaultQuality); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	back, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if want := OutputColorSpace(filter.ColorSpaceCMYK); back.ColorSpace != want || back.Components != 3 {
		t.Fatalf("read back %s/%d; want %s/3", back.ColorSpace, back.Components, want)
	}
	for _, cs := range []filter.ColorSpace{filter.ColorSpaceGrayscale, filter.ColorSpaceRGB} {
		if got := OutputColorSpace(cs); got != cs {
			t.Fatalf("OutputColorSpace(%s) = %s", cs, got)
		}
	}
}

package imaging

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ToNRGBA returns a straight-alpha copy of img with its origin at (0, 0),
// the layout the PNG and ICO encoders write without further conversion.
// Pixel values are not resampled.
func ToNRGBA(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("convert: nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("convert: empty image")
	}
	if err := checkBuffer(img); err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst, nil
}

// checkBuffer rejects in-memory rasters whose pixel slice cannot hold their
// bounds.
func checkBuffer(img image.Image) error {
	var pix, stride int
	switch m := img.(type) {
	case *image.RGBA:
		pix, stride = len(m.Pix), m.Stride
	case *image.NRGBA:
		pix, stride = len(m.Pix), m.Stride
	default:
		return nil
	}
	b := img.Bounds()
	if stride < b.Dx()*4 || pix < (b.Dy()-1)*stride+b.Dx()*4 {
		return errors.Errorf("convert: malformed raster, %d bytes for %dx%d", pix, b.Dx(), b.Dy())
	}
	return nil
}

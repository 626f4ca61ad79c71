package imaging

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Kernel names a resampling filter.
type Kernel string

const (
	KernelBilinear   Kernel = "bilinear"
	KernelCatmullRom Kernel = "catmullrom"
	KernelNearest    Kernel = "nearest"
	KernelApprox     Kernel = "approx"
	KernelLanczos    Kernel = "lanczos"
	KernelMitchell   Kernel = "mitchell"
)

// DefaultKernel matches the linear interpolation most resize routines use
// when none is requested.
const DefaultKernel = KernelBilinear

// Kernels lists every supported kernel.
var Kernels = []Kernel{KernelBilinear, KernelCatmullRom, KernelNearest, KernelApprox, KernelLanczos, KernelMitchell}

var scalers = map[Kernel]draw.Scaler{
	KernelBilinear:   draw.BiLinear,
	KernelCatmullRom: draw.CatmullRom,
	KernelNearest:    draw.NearestNeighbor,
	KernelApprox:     draw.ApproxBiLinear,
}

var interpolations = map[Kernel]resize.InterpolationFunction{
	KernelLanczos:  resize.Lanczos3,
	KernelMitchell: resize.MitchellNetravali,
}

// Resize scales src to exactly width x height. The result is a new raster;
// src is not modified.
func Resize(src image.Image, width, height int, k Kernel) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, errors.New("resize: empty source image")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("resize: invalid target size %dx%d", width, height)
	}
	if k == "" {
		k = DefaultKernel
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if s, ok := scalers[k]; ok {
		s.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
		return dst, nil
	}
	if fn, ok := interpolations[k]; ok {
		scaled := resize.Resize(uint(width), uint(height), src, fn)
		draw.Draw(dst, dst.Rect, scaled, scaled.Bounds().Min, draw.Src)
		return dst, nil
	}
	return nil, errors.Errorf("resize: unknown kernel %q", k)
}

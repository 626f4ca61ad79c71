package ico

import (
	"encoding/binary"
	"image"

	"github.com/pkg/errors"
)

const (
	dibHeaderSize = 40
	biRGB         = 0
)

type dibHeader struct {
	size          int
	width, height int
	topDown       bool
	bitCount      int
	colorsUsed    int
}

// parseDIBHeader reads a BITMAPINFOHEADER. The stored height covers both the
// color bitmap and the AND mask, so it is halved.
func parseDIBHeader(b []byte) (dibHeader, error) {
	if len(b) < dibHeaderSize {
		return dibHeader{}, ErrFormat
	}
	h := dibHeader{
		size:       int(binary.LittleEndian.Uint32(b[0:4])),
		width:      int(int32(binary.LittleEndian.Uint32(b[4:8]))),
		bitCount:   int(binary.LittleEndian.Uint16(b[14:16])),
		colorsUsed: int(binary.LittleEndian.Uint32(b[32:36])),
	}
	height := int(int32(binary.LittleEndian.Uint32(b[8:12])))
	if height < 0 {
		h.topDown = true
		height = -height
	}
	h.height = height / 2

	if h.size < dibHeaderSize || h.size > len(b) || h.width <= 0 || h.height <= 0 {
		return dibHeader{}, ErrFormat
	}
	if compression := binary.LittleEndian.Uint32(b[16:20]); compression != biRGB {
		return dibHeader{}, errors.Wrapf(ErrUnsupported, "compression %d", compression)
	}
	if h.bitCount != 24 && h.bitCount != 32 {
		return dibHeader{}, errors.Wrapf(ErrUnsupported, "%d bits per pixel", h.bitCount)
	}
	return h, nil
}

func decodeDIB(b []byte) (image.Image, error) {
	h, err := parseDIBHeader(b)
	if err != nil {
		return nil, err
	}

	bpp := h.bitCount / 8
	xorStride := (h.width*h.bitCount + 31) / 32 * 4
	andStride := (h.width + 31) / 32 * 4
	xorStart := h.size + h.colorsUsed*4
	andStart := xorStart + xorStride*h.height
	if andStart > len(b) {
		return nil, errors.Wrap(ErrFormat, "truncated bitmap")
	}
	hasMask := andStart+andStride*h.height <= len(b)

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	opaque := true
	for y := 0; y < h.height; y++ {
		src := b[xorStart+y*xorStride:]
		dst := img.Pix[h.row(y)*img.Stride:]
		for x := 0; x < h.width; x++ {
			copy(dst[x*4:x*4+3], src[x*bpp:x*bpp+3])
			if bpp == 4 {
				dst[x*4+3] = src[x*4+3]
				if src[x*4+3] != 0 {
					opaque = false
				}
			} else {
				dst[x*4+3] = 0xff
			}
		}
		swapRB(dst[:h.width*4])
	}

	// 24-bit entries, and 32-bit entries without any alpha, take their
	// transparency from the AND mask.
	if h.bitCount == 24 || opaque {
		for y := 0; y < h.height; y++ {
			dst := img.Pix[h.row(y)*img.Stride:]
			for x := 0; x < h.width; x++ {
				transparent := false
				if hasMask {
					mask := b[andStart+y*andStride+x/8]
					transparent = mask&(0x80>>uint(x%8)) != 0
				}
				if transparent {
					dst[x*4+3] = 0
				} else {
					dst[x*4+3] = 0xff
				}
			}
		}
	}
	return img, nil
}

// row maps a stored scanline to its image row; DIBs are bottom-up unless
// the height is negative.
func (h dibHeader) row(y int) int {
	if h.topDown {
		return y
	}
	return h.height - 1 - y
}

// swapRB reorders 4-byte BGRA pixels to RGBA in place.
func swapRB(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

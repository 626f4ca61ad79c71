// Package imaging loads source rasters and produces resized, encoder-ready
// copies of them.
package imaging

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	_ "iresa/ico"
)

// ErrDecode marks a source file that none of the registered decoders accept.
var ErrDecode = errors.New("unsupported or corrupt image")

// ColorChunks are PNG chunks carrying color management data that the Go
// decoder reads past without applying.
var ColorChunks = []string{"iCCP", "sRGB", "gAMA", "cHRM"}

// DefaultQuietChunks matches the benign embedded-profile notice most
// icon sources trigger.
var DefaultQuietChunks = []string{"iCCP"}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

type LoadOptions struct {
	// QuietChunks lists PNG chunk types whose warnings are only logged at
	// debug level.
	QuietChunks []string
	Logger      zerolog.Logger
}

// Source is a decoded input image.
type Source struct {
	Path     string
	Format   string
	Image    image.Image
	Warnings []string
}

// Load reads and decodes the image at path.
func Load(path string, opts LoadOptions) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", path, err)
	}

	src := &Source{Path: path, Format: format, Image: img}
	if format == "png" {
		for _, chunk := range colorChunks(data) {
			msg := fmt.Sprintf("%s chunk ignored by decoder", chunk)
			if slices.Contains(opts.QuietChunks, chunk) {
				opts.Logger.Debug().Str("path", path).Str("chunk", chunk).Msg(msg)
				continue
			}
			opts.Logger.Warn().Str("path", path).Str("chunk", chunk).Msg(msg)
			src.Warnings = append(src.Warnings, msg)
		}
	}

	b := img.Bounds()
	opts.Logger.Debug().
		Str("path", path).
		Str("format", format).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Msg("source loaded")
	return src, nil
}

// colorChunks walks a PNG chunk list up to IDAT and returns the color
// management chunks found, in file order.
func colorChunks(data []byte) []string {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	var found []string
	for p := len(pngSignature); p+8 <= len(data); {
		length := uint64(binary.BigEndian.Uint32(data[p : p+4]))
		typ := string(data[p+4 : p+8])
		if typ == "IDAT" || typ == "IEND" {
			break
		}
		// Stop at a chunk that claims more bytes than are left.
		rest := len(data) - p - 12
		if rest < 0 || length > uint64(rest) {
			break
		}
		if slices.Contains(ColorChunks, typ) {
			found = append(found, typ)
		}
		p += 12 + int(length)
	}
	return found
}

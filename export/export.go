// Package export writes rasters to disk as PNG or ICO files.
package export

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"iresa/ico"
	"iresa/utils"
)

// Format is an output container.
type Format string

const (
	FormatICO Format = "ico"
	FormatPNG Format = "png"
)

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

func (f Format) encoder() (func(io.Writer, image.Image) error, error) {
	switch f {
	case FormatICO:
		return func(w io.Writer, img image.Image) error { return ico.Encode(w, img) }, nil
	case FormatPNG:
		return png.Encode, nil
	default:
		return nil, errors.Errorf("unsupported format %q", string(f))
	}
}

// Write encodes img as f and stores it at dir/filename, creating dir if
// needed and replacing any existing file. It returns the written path.
// Nothing is written when encoding fails.
func Write(img image.Image, dir, filename string, f Format) (string, error) {
	encode, err := f.encoder()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		return "", errors.Wrapf(err, "encode %s", filename)
	}

	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}

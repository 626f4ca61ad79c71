// Package ico reads and writes Windows icon containers.
//
// Written icons always carry PNG-compressed entries. Reading accepts both
// PNG entries and the older BMP (DIB) entries at 24 and 32 bits per pixel.
// Importing the package registers the "ico" format with image.Decode.
package ico

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
)

const (
	headerSize = 6
	entrySize  = 16
	iconType   = 1
	maxEntries = math.MaxUint16
)

var (
	// ErrFormat is returned for data that is not a well formed icon container.
	ErrFormat = errors.New("ico: invalid format")
	// ErrUnsupported is returned for entries this package cannot decode.
	ErrUnsupported = errors.New("ico: unsupported entry")
	// ErrNoImages is returned by Encode when called without images.
	ErrNoImages = errors.New("ico: no images to encode")
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func init() {
	image.RegisterFormat("ico", "\x00\x00\x01\x00", Decode, DecodeConfig)
}

type entry struct {
	width, height byte
	size, offset  uint32
}

func (e entry) payload(data []byte) []byte {
	return data[e.offset : e.offset+e.size]
}

// Encode writes imgs as one icon container, one directory entry per image.
func Encode(w io.Writer, imgs ...image.Image) error {
	if len(imgs) == 0 {
		return ErrNoImages
	}
	if len(imgs) > maxEntries {
		return errors.Errorf("ico: %d images exceeds the limit of %d", len(imgs), maxEntries)
	}

	blobs := make([][]byte, len(imgs))
	for i, img := range imgs {
		if img == nil || img.Bounds().Empty() {
			return errors.Errorf("ico: image %d is empty", i)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return errors.Wrapf(err, "ico: encode image %d", i)
		}
		blobs[i] = buf.Bytes()
	}

	dir := make([]byte, headerSize+len(imgs)*entrySize)
	binary.LittleEndian.PutUint16(dir[0:2], 0)
	binary.LittleEndian.PutUint16(dir[2:4], iconType)
	binary.LittleEndian.PutUint16(dir[4:6], uint16(len(imgs)))

	offset := uint32(len(dir))
	for i, img := range imgs {
		b := img.Bounds()
		e := dir[headerSize+i*entrySize : headerSize+(i+1)*entrySize]
		e[0] = dimByte(b.Dx())
		e[1] = dimByte(b.Dy())
		e[2] = 0                                  // palette
		e[3] = 0                                  // reserved
		binary.LittleEndian.PutUint16(e[4:6], 1)  // color planes
		binary.LittleEndian.PutUint16(e[6:8], 32) // bits per pixel
		binary.LittleEndian.PutUint32(e[8:12], uint32(len(blobs[i])))
		binary.LittleEndian.PutUint32(e[12:16], offset)
		offset += uint32(len(blobs[i]))
	}

	if _, err := w.Write(dir); err != nil {
		return errors.Wrap(err, "ico: write directory")
	}
	for i, blob := range blobs {
		if _, err := w.Write(blob); err != nil {
			return errors.Wrapf(err, "ico: write image %d", i)
		}
	}
	return nil
}

// dimByte stores a dimension in a directory entry. 0 stands for 256 and is
// also used for anything larger; the payload keeps the real size.
func dimByte(v int) byte {
	if v >= 256 {
		return 0
	}
	return byte(v)
}

// Decode returns the largest image in the container.
func Decode(r io.Reader) (image.Image, error) {
	data, entries, err := read(r)
	if err != nil {
		return nil, err
	}
	i, err := largest(data, entries)
	if err != nil {
		return nil, err
	}
	return decodeEntry(entries[i].payload(data))
}

// DecodeAll returns every image in the container in directory order.
func DecodeAll(r io.Reader) ([]image.Image, error) {
	data, entries, err := read(r)
	if err != nil {
		return nil, err
	}
	imgs := make([]image.Image, 0, len(entries))
	for i, e := range entries {
		img, err := decodeEntry(e.payload(data))
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

// DecodeConfig returns the dimensions of the largest image in the container.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, entries, err := read(r)
	if err != nil {
		return image.Config{}, err
	}
	i, err := largest(data, entries)
	if err != nil {
		return image.Config{}, err
	}
	return entryConfig(entries[i].payload(data))
}

func read(r io.Reader) ([]byte, []entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ico: read")
	}
	if len(data) < headerSize ||
		binary.LittleEndian.Uint16(data[0:2]) != 0 ||
		binary.LittleEndian.Uint16(data[2:4]) != iconType {
		return nil, nil, ErrFormat
	}
	n := int(binary.LittleEndian.Uint16(data[4:6]))
	if n == 0 || len(data) < headerSize+n*entrySize {
		return nil, nil, ErrFormat
	}

	entries := make([]entry, n)
	for i := range entries {
		raw := data[headerSize+i*entrySize : headerSize+(i+1)*entrySize]
		e := entry{
			width:  raw[0],
			height: raw[1],
			size:   binary.LittleEndian.Uint32(raw[8:12]),
			offset: binary.LittleEndian.Uint32(raw[12:16]),
		}
		if uint64(e.offset)+uint64(e.size) > uint64(len(data)) {
			return nil, nil, errors.Wrapf(ErrFormat, "entry %d out of range", i)
		}
		entries[i] = e
	}
	return data, entries, nil
}

// largest returns the index of the biggest entry this package can decode.
// Entries in unsupported encodings are skipped.
func largest(data []byte, entries []entry) (int, error) {
	best, bestArea := -1, -1
	var skipped error
	for i, e := range entries {
		cfg, err := entryConfig(e.payload(data))
		if errors.Is(err, ErrUnsupported) {
			skipped = errors.Wrapf(err, "entry %d", i)
			continue
		}
		if err != nil {
			return 0, errors.Wrapf(err, "entry %d", i)
		}
		if area := cfg.Width * cfg.Height; area > bestArea {
			best, bestArea = i, area
		}
	}
	if best < 0 {
		return 0, skipped
	}
	return best, nil
}

func entryConfig(payload []byte) (image.Config, error) {
	if bytes.HasPrefix(payload, pngSignature) {
		return png.DecodeConfig(bytes.NewReader(payload))
	}
	h, err := parseDIBHeader(payload)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{Width: h.width, Height: h.height}, nil
}

func decodeEntry(payload []byte) (image.Image, error) {
	if bytes.HasPrefix(payload, pngSignature) {
		return png.Decode(bytes.NewReader(payload))
	}
	return decodeDIB(payload)
}

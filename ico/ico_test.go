package ico

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(size int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// container wraps raw entry payloads in an icon directory.
func container(payloads ...[]byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, []uint16{0, iconType, uint16(len(payloads))})
	offset := uint32(headerSize + len(payloads)*entrySize)
	for _, p := range payloads {
		buf.Write([]byte{0, 0, 0, 0})
		_ = binary.Write(&buf, binary.LittleEndian, []uint16{1, 32})
		_ = binary.Write(&buf, binary.LittleEndian, []uint32{uint32(len(p)), offset})
		offset += uint32(len(p))
	}
	for _, p := range payloads {
		buf.Write(p)
	}
	return buf.Bytes()
}

// dib builds a BITMAPINFOHEADER followed by bottom-up pixel rows and mask.
func dib(width, height, bitCount int, rows [][]byte, mask []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dibHeaderSize))
	_ = binary.Write(&buf, binary.LittleEndian, int32(width))
	_ = binary.Write(&buf, binary.LittleEndian, int32(height*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitCount))
	buf.Write(make([]byte, 24))
	for _, r := range rows {
		buf.Write(r)
	}
	buf.Write(mask)
	return buf.Bytes()
}

func TestEncodeDecodeAll(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, solid(16, red), solid(310, red)))

	data := buf.Bytes()
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(data[4:6]))
	assert.Equal(t, byte(16), data[headerSize])
	assert.Equal(t, byte(0), data[headerSize+entrySize], "dimensions of 256 and up are stored as 0")

	imgs, err := DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, image.Rect(0, 0, 16, 16), imgs[0].Bounds())
	assert.Equal(t, image.Rect(0, 0, 310, 310), imgs[1].Bounds())

	r, g, b, a := imgs[0].At(3, 3).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0, 0xffff}, []uint32{r, g, b, a})
}

func TestDecodePicksLargest(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, solid(48, color.NRGBA{A: 255}), solid(256, color.NRGBA{A: 255}), solid(32, color.NRGBA{A: 255})))

	cfg, err := DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 256, cfg.Height)

	img, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestRegisteredWithImageDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, solid(24, color.NRGBA{G: 255, A: 255})))

	img, format, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "ico", format)
	assert.Equal(t, 24, img.Bounds().Dx())
}

func TestDecodeDIB32(t *testing.T) {
	// Bottom row first: blue opaque, then half transparent green.
	rows := [][]byte{
		{0xff, 0x00, 0x00, 0xff, 0x00, 0xff, 0x00, 0x80},
		{0x00, 0x00, 0xff, 0xff, 0x10, 0x20, 0x30, 0xff},
	}
	mask := make([]byte, 2*4)
	img, err := Decode(bytes.NewReader(container(dib(2, 2, 32, rows, mask))))
	require.NoError(t, err)

	n, ok := img.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, n.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0x30, G: 0x20, B: 0x10, A: 0xff}, n.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, n.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0x80}, n.NRGBAAt(1, 1))
}

func TestDecodeDIB24WithMask(t *testing.T) {
	// Rows are padded to 4 bytes; the mask marks the second pixel transparent.
	rows := [][]byte{{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x00, 0x00}}
	mask := []byte{0x40, 0x00, 0x00, 0x00}
	img, err := Decode(bytes.NewReader(container(dib(2, 1, 24, rows, mask))))
	require.NoError(t, err)

	n := img.(*image.NRGBA)
	assert.Equal(t, color.NRGBA{R: 0x03, G: 0x02, B: 0x01, A: 0xff}, n.NRGBAAt(0, 0))
	assert.Equal(t, uint8(0), n.NRGBAAt(1, 0).A)
}

func TestDecodeSkipsUnsupportedEntries(t *testing.T) {
	var pngEntry bytes.Buffer
	require.NoError(t, png.Encode(&pngEntry, solid(32, color.NRGBA{B: 255, A: 255})))
	paletted := dib(16, 16, 4, [][]byte{make([]byte, 16*8)}, nil)
	data := container(paletted, pngEntry.Bytes())

	img, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	cfg, err := DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Width)

	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ico", format)
	assert.Equal(t, 32, img.Bounds().Dy())

	_, err = DecodeAll(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestErrors(t *testing.T) {
	t.Run("encode without images", func(t *testing.T) {
		assert.ErrorIs(t, Encode(&bytes.Buffer{}), ErrNoImages)
	})

	t.Run("encode empty image", func(t *testing.T) {
		assert.Error(t, Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 0, 0))))
	})

	t.Run("not an icon", func(t *testing.T) {
		_, err := Decode(bytes.NewReader([]byte("hello world")))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("entry out of range", func(t *testing.T) {
		data := container([]byte{1, 2, 3, 4})
		_, err := Decode(bytes.NewReader(data[:len(data)-2]))
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("unsupported bit depth", func(t *testing.T) {
		_, err := Decode(bytes.NewReader(container(dib(1, 1, 8, [][]byte{{0, 0, 0, 0}}, nil))))
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

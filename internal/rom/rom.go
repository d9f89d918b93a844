// Package rom holds the raw cartridge image and validates that it is the
// expected cartridge.
package rom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/kartrom/internal/codec"
	"github.com/retroenv/kartrom/internal/region"
)

const (
	// HeaderSize is the size of the optional copier header.
	HeaderSize = 0x200
	// UnitSize is the size that image bodies are a multiple of.
	UnitSize = 0x40000

	// MinSize and MaxSize bound the size of the image body.
	MinSize = 0x40000
	MaxSize = 0x800000

	titleOffset    = 0x7FC0
	titleLength    = 21
	cartTypeOffset = 0x7FD6
	ramSizeOffset  = 0x7FD8

	cartType = 0x05 // ROM, RAM, battery and DSP coprocessor
	ramSize  = 0x01 // 2KiB
)

// Validation errors.
var (
	ErrHeaderSize = errors.New("invalid copier header size")
	ErrImageSize  = errors.New("invalid image size")
	ErrSignature  = errors.New("image is not the expected cartridge")
	ErrBounds     = errors.New("offset outside of image")
)

// Image is a loaded cartridge image.
type Image struct {
	header []byte
	data   []byte
	region region.Region
}

// New validates the raw file content and returns the image. The buffer is
// copied.
func New(buf []byte) (*Image, error) {
	headerSize := len(buf) % UnitSize
	if headerSize != 0 && headerSize != HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderSize, headerSize)
	}

	body := buf[headerSize:]
	if len(body) < MinSize || len(body) > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageSize, len(body))
	}

	if body[cartTypeOffset] != cartType || body[ramSizeOffset] != ramSize {
		return nil, fmt.Errorf("%w: cartridge type 0x%02X, RAM size 0x%02X",
			ErrSignature, body[cartTypeOffset], body[ramSizeOffset])
	}

	r, err := region.FromByte(body[region.HeaderOffset])
	if err != nil {
		return nil, fmt.Errorf("detecting region: %w", err)
	}

	img := &Image{
		header: make([]byte, headerSize),
		data:   make([]byte, len(body)),
		region: r,
	}
	copy(img.header, buf[:headerSize])
	copy(img.data, body)
	return img, nil
}

// Load reads and validates an image.
func Load(reader io.Reader) (*Image, error) {
	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return New(buf)
}

// Data returns the image body without the copier header. The returned slice
// is owned by the image.
func (img *Image) Data() []byte {
	return img.data
}

// Header returns the copier header, it is empty if the file had none.
func (img *Image) Header() []byte {
	return img.header
}

// Region returns the region of the image.
func (img *Image) Region() region.Region {
	return img.region
}

// Title returns the game title of the internal header.
func (img *Image) Title() string {
	title := string(img.data[titleOffset : titleOffset+titleLength])
	return strings.TrimRight(title, " \x00")
}

// Bytes returns the file content of the image including the copier header.
func (img *Image) Bytes() []byte {
	buf := make([]byte, 0, len(img.header)+len(img.data))
	buf = append(buf, img.header...)
	return append(buf, img.data...)
}

// Replace swaps the image body, used after a save assembled a new image.
func (img *Image) Replace(data []byte) {
	img.data = data
}

// Decompress decodes the compressed data at offset.
func (img *Image) Decompress(offset int, twice bool) ([]byte, error) {
	if err := img.check(offset, 1); err != nil {
		return nil, err
	}
	data, err := codec.Decompress(img.data, offset, twice)
	if err != nil {
		return nil, fmt.Errorf("decompressing data at 0x%X: %w", offset, err)
	}
	return data, nil
}

// CompressedLength returns the size of the compressed data at offset.
func (img *Image) CompressedLength(offset int, twice bool) (int, error) {
	if err := img.check(offset, 1); err != nil {
		return 0, err
	}
	length, err := codec.CompressedLength(img.data, offset, twice)
	if err != nil {
		return 0, fmt.Errorf("reading compressed length at 0x%X: %w", offset, err)
	}
	return length, nil
}

// Chunk returns a copy of the compressed data at offset.
func (img *Image) Chunk(offset int, twice bool) ([]byte, error) {
	if err := img.check(offset, 1); err != nil {
		return nil, err
	}
	chunk, err := codec.Chunk(img.data, offset, twice)
	if err != nil {
		return nil, fmt.Errorf("reading compressed chunk at 0x%X: %w", offset, err)
	}
	return chunk, nil
}

// Read returns a copy of length bytes at offset.
func (img *Image) Read(offset, length int) ([]byte, error) {
	if err := img.check(offset, length); err != nil {
		return nil, err
	}
	data := make([]byte, length)
	copy(data, img.data[offset:])
	return data, nil
}

// InsertData writes data at the absolute offset.
func (img *Image) InsertData(offset int, data []byte) error {
	if err := img.check(offset, len(data)); err != nil {
		return err
	}
	copy(img.data[offset:], data)
	return nil
}

func (img *Image) check(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(img.data) {
		return fmt.Errorf("%w: 0x%X+%d, image size 0x%X", ErrBounds, offset, length, len(img.data))
	}
	return nil
}

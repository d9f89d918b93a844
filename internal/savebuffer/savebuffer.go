// Package savebuffer implements the append only relocation area that the
// save process writes relocated data into.
package savebuffer

import (
	"errors"
	"fmt"

	"github.com/retroenv/kartrom/internal/bank"
)

// Errors of the save buffer.
var (
	ErrCapacity = errors.New("relocation area exceeds the addressable window")
	ErrLayout   = errors.New("relocation area layout mismatch")
)

// Buffer accumulates data that is mapped into the image starting at a fixed
// base offset.
type Buffer struct {
	base  int
	limit int
	data  []byte

	// relocated maps original offsets of chunks to their new offset.
	relocated map[int]int
}

// New returns a buffer mapped at base. Data may not grow beyond limit.
func New(base, limit int) *Buffer {
	return &Buffer{
		base:      base,
		limit:     limit,
		data:      make([]byte, 0, 0x10000),
		relocated: map[int]int{},
	}
}

// Base returns the offset that the buffer is mapped at.
func (b *Buffer) Base() int {
	return b.base
}

// Index returns the offset that the next added byte will be written to.
func (b *Buffer) Index() int {
	return b.base + len(b.data)
}

// Len returns the number of added bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the added bytes. The slice is owned by the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Add appends data and returns the offset it was written at.
func (b *Buffer) Add(data []byte) (int, error) {
	offset := b.Index()
	if offset+len(data) > b.limit {
		return 0, fmt.Errorf("%w: 0x%X bytes at 0x%X, limit 0x%X", ErrCapacity, len(data), offset, b.limit)
	}
	b.data = append(b.data, data...)
	return offset, nil
}

// AddCompressed appends data and writes a pointer to it into image at
// pointerField.
func (b *Buffer) AddCompressed(image []byte, data []byte, pointerField int) (int, error) {
	if pointerField < 0 || pointerField+bank.PointerSize > len(image) {
		return 0, fmt.Errorf("%w: pointer field 0x%X outside of image", ErrLayout, pointerField)
	}
	offset, err := b.Add(data)
	if err != nil {
		return 0, err
	}
	bank.Write(image, pointerField, offset)
	return offset, nil
}

// Expect verifies that the next added byte will be written to offset. Binary
// patches contain hardcoded addresses of the data following them.
func (b *Buffer) Expect(offset int) error {
	if index := b.Index(); index != offset {
		return fmt.Errorf("%w: next data at 0x%X, expected 0x%X", ErrLayout, index, offset)
	}
	return nil
}

// Includes returns whether an offset of the original image lies within the
// range superseded by the added data.
func (b *Buffer) Includes(offset int) bool {
	return offset >= b.base && offset < b.Index()
}

// Relocate records that the chunk found at original was written to offset.
func (b *Buffer) Relocate(original, offset int) {
	b.relocated[original] = offset
}

// Relocated returns the new offset of a chunk that was already written in
// this save.
func (b *Buffer) Relocated(original int) (int, bool) {
	offset, ok := b.relocated[original]
	return offset, ok
}

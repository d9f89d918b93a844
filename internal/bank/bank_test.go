package bank

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestToOffset(t *testing.T) {
	tests := []struct {
		name     string
		pointer  [3]byte
		expected int
	}{
		{"first bank upper half", [3]byte{0x00, 0x80, 0x00}, 0x0000},
		{"first bank lower half", [3]byte{0x34, 0x12, 0x00}, 0x1234},
		{"fast mirror", [3]byte{0x34, 0x92, 0x80}, 0x1234},
		{"bank 3", [3]byte{0xFF, 0xFF, 0x03}, 0x1FFFF},
		{"relocation area", [3]byte{0x00, 0x80, 0x90}, 0x80000},
		{"last mirrored bank", [3]byte{0x00, 0x80, 0xFF}, 0x3F8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToOffset(tt.pointer[0], tt.pointer[1], tt.pointer[2]))
		})
	}
}

func TestFromOffset(t *testing.T) {
	assert.Equal(t, [3]byte{0x00, 0x80, 0x90}, FromOffset(0x80000))
	assert.Equal(t, [3]byte{0x2D, 0x80, 0x90}, FromOffset(0x8002D))
	assert.Equal(t, [3]byte{0x00, 0x81, 0x90}, FromOffset(0x80100))
	assert.Equal(t, [3]byte{0x34, 0x92, 0x80}, FromOffset(0x1234))
}

func TestRoundTrip(t *testing.T) {
	for offset := 0; offset < Limit; offset += 0x1F3 {
		ptr := FromOffset(offset)
		assert.Equal(t, offset, ToOffset(ptr[0], ptr[1], ptr[2]))
	}
	ptr := FromOffset(Limit - 1)
	assert.Equal(t, Limit-1, ToOffset(ptr[0], ptr[1], ptr[2]))
}

func TestReadWrite(t *testing.T) {
	buf := make([]byte, 8)
	Write(buf, 2, 0x1C4E0)
	assert.Equal(t, []byte{0x00, 0x00, 0xE0, 0xC4, 0x83, 0x00, 0x00, 0x00}, buf)
	assert.Equal(t, 0x1C4E0, Read(buf, 2))
}

package checksum

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func filledImage(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + i>>8)
	}
	return data
}

func TestComputeExactClass(t *testing.T) {
	data := filledImage(0x40000)

	expected := 0
	for i, b := range data {
		switch i {
		case ComplementOffset, ComplementOffset + 1:
			expected += 0xFF
		case ChecksumOffset, ChecksumOffset + 1:
		default:
			expected += int(b)
		}
	}

	assert.Equal(t, uint16(expected), Compute(data))
}

func TestComputeExtrapolatesTail(t *testing.T) {
	data := filledImage(0x40004)
	copy(data[0x40000:], []byte{0x01, 0x02, 0x03, 0x04})

	head := int(Compute(data[:0x40000]))
	tailSum := 0x01 + 0x02 + 0x03 + 0x04
	multiplier := (0x80000 - 0x40000) / 4

	assert.Equal(t, uint16(head+tailSum*multiplier), Compute(data))
}

func TestComputeIgnoresStoredFields(t *testing.T) {
	data := filledImage(0x80000)
	first := Compute(data)

	data[ComplementOffset] = 0x12
	data[ComplementOffset+1] = 0x34
	data[ChecksumOffset] = 0x56
	data[ChecksumOffset+1] = 0x78
	assert.Equal(t, first, Compute(data))
	assert.Equal(t, first, Compute(data))
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"256KiB", 0x40000},
		{"768KiB", 0xC0000},
		{"1MiB", 0x100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := filledImage(tt.size)
			assert.False(t, Valid(data))

			total := Update(data)
			assert.True(t, Valid(data))
			assert.Equal(t, byte(total), data[ChecksumOffset])
			assert.Equal(t, byte(total>>8), data[ChecksumOffset+1])
			assert.Equal(t, 0xFF-byte(total), data[ComplementOffset])
			assert.Equal(t, 0xFF-byte(total>>8), data[ComplementOffset+1])

			assert.Equal(t, total, Update(data))
		})
	}
}

func TestComputeMultiplier(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		boundary   int
		multiplier int
	}{
		{"320KiB", 0x50000, 0x40000, 4},
		{"768KiB", 0xC0000, 0x80000, 2},
		{"1.5MiB", 0x180000, 0x100000, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := filledImage(tt.size)

			tailSum := 0
			for _, b := range data[tt.boundary:] {
				tailSum += int(b)
			}
			head := int(Compute(data[:tt.boundary]))

			assert.Equal(t, uint16(head+tailSum*tt.multiplier), Compute(data))
		})
	}
}

// Package checksum computes and writes the checksum of the internal header
// that the boot validation of the console expects.
package checksum

const (
	// ComplementOffset is the offset of the 16 bit checksum complement.
	ComplementOffset = 0x7FDC
	// ChecksumOffset is the offset of the 16 bit checksum.
	ChecksumOffset = 0x7FDE
)

// sizeClasses are the image sizes that the checksum is defined for.
var sizeClasses = []int{
	0x40000,
	0x80000,
	0x100000,
	0x200000,
	0x400000,
	0x800000,
}

// Compute returns the checksum of the image. The checksum fields are
// handled as if they contained the reset values FF FF 00 00. Images larger
// than a size class but smaller than the next one are summed as if their
// tail was repeated to fill the class.
func Compute(data []byte) uint16 {
	size := len(data)
	if size == 0 {
		return 0
	}

	classIndex := len(sizeClasses) - 1
	for i, class := range sizeClasses {
		if class >= size {
			classIndex = i
			break
		}
	}
	class := sizeClasses[classIndex]

	if class <= size || classIndex == 0 {
		return uint16(sum(data, 0, size))
	}

	boundary := sizeClasses[classIndex-1]
	tail := size - boundary
	multiplier := (class - boundary) / tail

	total := sum(data, 0, boundary) + sum(data, boundary, size)*multiplier
	return uint16(total)
}

// sum adds the bytes of data[start:end], substituting the reset values for
// the checksum fields.
func sum(data []byte, start, end int) int {
	total := 0
	for i := start; i < end; i++ {
		total += int(fieldByte(data, i))
	}
	return total
}

func fieldByte(data []byte, i int) byte {
	switch i {
	case ComplementOffset, ComplementOffset + 1:
		return 0xFF
	case ChecksumOffset, ChecksumOffset + 1:
		return 0x00
	default:
		return data[i]
	}
}

// Update computes the checksum of the image and writes it with its
// complement into the internal header.
func Update(data []byte) uint16 {
	if len(data) < ChecksumOffset+2 {
		return 0
	}

	data[ComplementOffset] = 0xFF
	data[ComplementOffset+1] = 0xFF
	data[ChecksumOffset] = 0x00
	data[ChecksumOffset+1] = 0x00

	total := Compute(data)
	low := byte(total)
	high := byte(total >> 8)

	data[ComplementOffset] = 0xFF - low
	data[ComplementOffset+1] = 0xFF - high
	data[ChecksumOffset] = low
	data[ChecksumOffset+1] = high
	return total
}

// Valid returns whether the checksum and complement stored in the header
// match the image.
func Valid(data []byte) bool {
	if len(data) < ChecksumOffset+2 {
		return false
	}
	total := Compute(data)
	stored := uint16(data[ChecksumOffset]) | uint16(data[ChecksumOffset+1])<<8
	complement := uint16(data[ComplementOffset]) | uint16(data[ComplementOffset+1])<<8
	return stored == total && complement == ^total
}

// Package bank translates between 3 byte bus pointers of the cartridge and
// flat offsets into the image.
package bank

const (
	// Size is the size of the ROM area mapped by one bank.
	Size = 0x8000

	// Limit is the first flat offset that can not be addressed by a pointer.
	Limit = 0x400000

	fastROM       = 0x80
	mirrorAdjust  = fastROM * Size
	upperHalfBase = 0x8000

	// PointerSize is the size of an encoded pointer.
	PointerSize = 3
)

// ToOffset converts a pointer of low, high and bank byte to a flat offset.
// Both halves of a bank resolve to the same ROM area, banks of the FastROM
// mirror resolve to the same offset as their slow counterpart.
func ToOffset(low, high, bnk byte) int {
	address := int(high)<<8 | int(low)
	offset := int(bnk)*Size + address&(Size-1)
	if bnk >= fastROM {
		offset -= mirrorAdjust
	}
	return offset
}

// Read converts the pointer stored at the given index of buf.
func Read(buf []byte, index int) int {
	return ToOffset(buf[index], buf[index+1], buf[index+2])
}

// FromOffset converts a flat offset to a pointer in the FastROM mirror.
func FromOffset(offset int) [PointerSize]byte {
	bnk := offset/Size | fastROM
	address := offset%Size | upperHalfBase
	return [PointerSize]byte{byte(address), byte(address >> 8), byte(bnk)}
}

// Write stores the pointer for offset at the given index of buf.
func Write(buf []byte, index, offset int) {
	ptr := FromOffset(offset)
	copy(buf[index:index+PointerSize], ptr[:])
}

// Long returns the pointer bytes for offset, used to build binary patches.
func Long(offset int) []byte {
	ptr := FromOffset(offset)
	return ptr[:]
}

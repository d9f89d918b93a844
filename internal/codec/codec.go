// Package codec implements the LZ style compression format used for graphics,
// palettes and map data of the cartridge.
package codec

import (
	"errors"
	"fmt"
)

// command identifiers, stored in bits 7..5 of a tag byte.
const (
	directCopy = iota
	byteFill
	wordFill
	increasingFill
	absoluteCopy
	invertedCopy
	relativeCopy
	longForm
)

const (
	terminator = 0xFF

	maxShortLength = 32
	maxLongLength  = 1024
	maxAddress     = 0xFFFF
	maxDistance    = 256
)

// Errors returned when decoding a malformed stream.
var (
	ErrTruncated     = errors.New("compressed stream is truncated")
	ErrInvalidTag    = errors.New("invalid command tag")
	ErrBackReference = errors.New("back reference outside of decoded data")
)

// command is one decoded instruction header.
type command struct {
	kind   int
	length int
	// operand is the offset of the first operand byte.
	operand int
}

// operandSize returns the number of operand bytes that follow the tag of the command.
func (c command) operandSize() int {
	switch c.kind {
	case directCopy:
		return c.length
	case byteFill, increasingFill, relativeCopy:
		return 1
	default:
		return 2
	}
}

// readCommand parses the tag at offset. It returns the command and false
// if the terminator was reached.
func readCommand(buf []byte, offset int) (command, bool, error) {
	if offset >= len(buf) {
		return command{}, false, fmt.Errorf("%w: tag at offset 0x%X", ErrTruncated, offset)
	}

	tag := buf[offset]
	if tag == terminator {
		return command{operand: offset + 1}, false, nil
	}

	cmd := command{
		kind: int(tag >> 5),
	}

	if cmd.kind != longForm {
		cmd.length = int(tag&0x1F) + 1
		cmd.operand = offset + 1
	} else {
		if offset+1 >= len(buf) {
			return command{}, false, fmt.Errorf("%w: long tag at offset 0x%X", ErrTruncated, offset)
		}
		cmd.kind = int(tag>>2) & 0x07
		if cmd.kind == longForm {
			return command{}, false, fmt.Errorf("%w: 0x%02X at offset 0x%X", ErrInvalidTag, tag, offset)
		}
		cmd.length = (int(tag&0x03)<<8 | int(buf[offset+1])) + 1
		cmd.operand = offset + 2
	}

	if cmd.operand+cmd.operandSize() > len(buf) {
		return command{}, false, fmt.Errorf("%w: operands of tag at offset 0x%X", ErrTruncated, offset)
	}
	return cmd, true, nil
}

// Decompress decodes the stream starting at offset. If twice is set, a
// second stream directly follows the first one and both outputs are
// concatenated.
func Decompress(buf []byte, offset int, twice bool) ([]byte, error) {
	data, end, err := decompress(buf, offset)
	if err != nil {
		return nil, err
	}
	if !twice {
		return data, nil
	}

	second, _, err := decompress(buf, end)
	if err != nil {
		return nil, fmt.Errorf("second stream: %w", err)
	}
	return append(data, second...), nil
}

// decompress decodes one stream and returns the offset following its terminator.
func decompress(buf []byte, offset int) ([]byte, int, error) {
	out := []byte{}

	for {
		cmd, ok, err := readCommand(buf, offset)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return out, cmd.operand, nil
		}

		op := cmd.operand
		switch cmd.kind {
		case directCopy:
			out = append(out, buf[op:op+cmd.length]...)

		case byteFill:
			for i := 0; i < cmd.length; i++ {
				out = append(out, buf[op])
			}

		case wordFill:
			for i := 0; i < cmd.length; i++ {
				out = append(out, buf[op+(i&1)])
			}

		case increasingFill:
			b := buf[op]
			for i := 0; i < cmd.length; i++ {
				out = append(out, b)
				b++
			}

		case absoluteCopy, invertedCopy:
			address := int(buf[op]) | int(buf[op+1])<<8
			var mask byte
			if cmd.kind == invertedCopy {
				mask = 0xFF
			}
			for i := 0; i < cmd.length; i++ {
				src := (address + i) & maxAddress
				if src >= len(out) {
					return nil, 0, fmt.Errorf("%w: address 0x%04X at offset 0x%X", ErrBackReference, src, offset)
				}
				out = append(out, out[src]^mask)
			}

		case relativeCopy:
			src := len(out) - (int(buf[op]) + 1)
			if src < 0 {
				return nil, 0, fmt.Errorf("%w: distance %d at offset 0x%X", ErrBackReference, int(buf[op])+1, offset)
			}
			for i := 0; i < cmd.length; i++ {
				out = append(out, out[src+i])
			}
		}

		offset = op + cmd.operandSize()
	}
}

// CompressedLength returns the number of bytes of the compressed data starting
// at offset, including the terminators. No output is produced.
func CompressedLength(buf []byte, offset int, twice bool) (int, error) {
	end, err := streamEnd(buf, offset)
	if err != nil {
		return 0, err
	}
	if twice {
		end, err = streamEnd(buf, end)
		if err != nil {
			return 0, fmt.Errorf("second stream: %w", err)
		}
	}
	return end - offset, nil
}

func streamEnd(buf []byte, offset int) (int, error) {
	for {
		cmd, ok, err := readCommand(buf, offset)
		if err != nil {
			return 0, err
		}
		if !ok {
			return cmd.operand, nil
		}
		offset = cmd.operand + cmd.operandSize()
	}
}

// Chunk returns a copy of the compressed data starting at offset without
// decoding it.
func Chunk(buf []byte, offset int, twice bool) ([]byte, error) {
	length, err := CompressedLength(buf, offset, twice)
	if err != nil {
		return nil, err
	}
	chunk := make([]byte, length)
	copy(chunk, buf[offset:])
	return chunk, nil
}

package codec

import "math"

// maxChain limits the number of earlier positions checked per input position.
const maxChain = 128

// Options controls the encoder.
type Options struct {
	// Split encodes the input as two consecutive streams, the first one
	// holding the first half of the data. Streams encoded this way have to be
	// decoded with twice set.
	Split bool
	// Inverted allows the encoder to emit inverted absolute copies.
	Inverted bool
}

// DefaultOptions returns the options used for single stream assets.
func DefaultOptions() Options {
	return Options{
		Inverted: true,
	}
}

// choice is the command picked by the parser for an input position.
type choice struct {
	kind    int
	length  int
	operand int // fill value, address or distance depending on kind
}

type encoder struct {
	data    []byte
	options Options

	cost    []int
	choices []choice

	prev    []int // previous position with the same two byte key, -1 if none
	invHead []int // latest earlier position matching the inverted key, -1 if none
}

// Compress encodes data so that Decompress returns it unchanged.
func Compress(data []byte, options Options) []byte {
	if !options.Split {
		return compress(data, options)
	}

	half := len(data) / 2
	out := compress(data[:half], options)
	return append(out, compress(data[half:], options)...)
}

func compress(data []byte, options Options) []byte {
	enc := &encoder{
		data:    data,
		options: options,
	}
	enc.buildChains()
	enc.parse()
	return enc.emit()
}

// buildChains links every position to the previous position that starts
// with the same two bytes.
func (e *encoder) buildChains() {
	n := len(e.data)
	e.prev = make([]int, n)
	e.invHead = make([]int, n)

	last := make([]int, 0x10000)
	for i := range last {
		last[i] = -1
	}

	for i := 0; i < n; i++ {
		e.prev[i] = -1
		e.invHead[i] = -1
		if i+1 >= n {
			continue
		}

		key := int(e.data[i])<<8 | int(e.data[i+1])
		e.invHead[i] = last[key^0xFFFF]
		e.prev[i] = last[key]
		last[key] = i
	}
}

// parse computes the cheapest encoding of every suffix of the input, walking
// backwards so that the cost of the remainder is known for every candidate.
func (e *encoder) parse() {
	n := len(e.data)
	e.cost = make([]int, n+1)
	e.choices = make([]choice, n)

	for i := n - 1; i >= 0; i-- {
		e.cost[i] = math.MaxInt
		e.considerLiterals(i)
		e.considerFills(i)
		e.considerCopies(i)
	}
}

func (e *encoder) consider(i int, c choice, operandCost int) {
	total := headerSize(c.length) + operandCost + e.cost[i+c.length]
	if total < e.cost[i] {
		e.cost[i] = total
		e.choices[i] = c
	}
}

// considerRun tries all lengths of a run that would use the short form and
// the maximum length of the run.
func (e *encoder) considerRun(i int, c choice, maxLength, operandCost int) {
	if maxLength <= 0 {
		return
	}
	limit := min(maxLength, maxShortLength)
	for length := 1; length <= limit; length++ {
		c.length = length
		e.consider(i, c, operandCost)
	}
	if maxLength > maxShortLength {
		c.length = maxLength
		e.consider(i, c, operandCost)
	}
}

func (e *encoder) considerLiterals(i int) {
	limit := min(len(e.data)-i, maxLongLength)
	for length := 1; length <= limit; length++ {
		e.consider(i, choice{kind: directCopy, length: length}, length)
	}
}

func (e *encoder) considerFills(i int) {
	data := e.data
	limit := min(len(data)-i, maxLongLength)

	length := 1
	for length < limit && data[i+length] == data[i] {
		length++
	}
	e.considerRun(i, choice{kind: byteFill, operand: int(data[i])}, length, 1)

	b := data[i]
	length = 1
	for length < limit && data[i+length] == b+byte(length) {
		length++
	}
	e.considerRun(i, choice{kind: increasingFill, operand: int(data[i])}, length, 1)

	if limit < 2 {
		return
	}
	length = 2
	for length < limit && data[i+length] == data[i+(length&1)] {
		length++
	}
	operand := int(data[i]) | int(data[i+1])<<8
	e.considerRun(i, choice{kind: wordFill, operand: operand}, length, 2)
}

func (e *encoder) considerCopies(i int) {
	bestAbsolute, bestAbsoluteLength := -1, 0
	bestRelative, bestRelativeLength := -1, 0

	checked := 0
	for p := e.prev[i]; p >= 0 && checked < maxChain; p = e.prev[p] {
		checked++
		length := e.matchLength(p, i, 0)

		if i-p <= maxDistance && length > bestRelativeLength {
			bestRelative, bestRelativeLength = p, length
		}
		if p <= maxAddress {
			length = min(length, maxAddress+1-p)
			if length > bestAbsoluteLength {
				bestAbsolute, bestAbsoluteLength = p, length
			}
		}
		if bestAbsoluteLength == maxLongLength || i+bestAbsoluteLength == len(e.data) {
			break
		}
	}

	if bestRelative >= 0 {
		e.considerRun(i, choice{kind: relativeCopy, operand: i - bestRelative - 1}, bestRelativeLength, 1)
	}
	if bestAbsolute >= 0 {
		e.considerRun(i, choice{kind: absoluteCopy, operand: bestAbsolute}, bestAbsoluteLength, 2)
	}

	if !e.options.Inverted {
		return
	}

	bestInverted, bestInvertedLength := -1, 0
	checked = 0
	for p := e.invHead[i]; p >= 0 && checked < maxChain; p = e.prev[p] {
		checked++
		if p > maxAddress {
			continue
		}
		length := min(e.matchLength(p, i, 0xFF), maxAddress+1-p)
		if length > bestInvertedLength {
			bestInverted, bestInvertedLength = p, length
		}
		if length == maxLongLength || i+length == len(e.data) {
			break
		}
	}
	if bestInverted >= 0 {
		e.considerRun(i, choice{kind: invertedCopy, operand: bestInverted}, bestInvertedLength, 2)
	}
}

// matchLength returns how many bytes starting at i can be reproduced by
// copying from p byte by byte, with every source byte xored by mask. The
// source may run into the bytes being produced.
func (e *encoder) matchLength(p, i int, mask byte) int {
	limit := min(len(e.data)-i, maxLongLength)
	length := 0
	for length < limit && e.data[p+length]^mask == e.data[i+length] {
		length++
	}
	return length
}

func (e *encoder) emit() []byte {
	out := make([]byte, 0, e.cost[0]+1)

	for i := 0; i < len(e.data); {
		c := e.choices[i]
		out = appendHeader(out, c.kind, c.length)

		switch c.kind {
		case directCopy:
			out = append(out, e.data[i:i+c.length]...)
		case byteFill, increasingFill, relativeCopy:
			out = append(out, byte(c.operand))
		default:
			out = append(out, byte(c.operand), byte(c.operand>>8))
		}
		i += c.length
	}

	return append(out, terminator)
}

func appendHeader(out []byte, kind, length int) []byte {
	if length <= maxShortLength {
		return append(out, byte(kind<<5|(length-1)))
	}
	length--
	return append(out, byte(longForm<<5|kind<<2|length>>8), byte(length))
}

func headerSize(length int) int {
	if length <= maxShortLength {
		return 1
	}
	return 2
}

// Package bitio provides the VP8 boolean (arithmetic) coding primitives.
//
// It holds two interchangeable decoders and the matching encoder:
//
//   - SimpleReader decodes one bit of the value window at a time, exactly as
//     described in RFC 6386 section 7. It is the reference every other
//     backend is measured against.
//   - BoolReader is a translation of libwebp's VP8GetBit with a 56-bit
//     look-ahead cache and table-driven normalisation.
//   - BoolWriter is a translation of libwebp's VP8BitWriter. It is used to
//     build streams with a known symbol sequence.
//
// Reads never fail. Past the end of the input, both decoders shift in zero
// bits indefinitely.
package bitio

import "errors"

// ErrNotEnoughInitData is returned when a decoder is given fewer than the
// two bytes needed to seed its value register.
var ErrNotEnoughInitData = errors.New("vp8bool: not enough init data")

// ErrBitStream reports structurally invalid coding tables or symbols.
// The decoding primitives themselves never return it.
var ErrBitStream = errors.New("vp8bool: invalid bitstream")

// minInitBytes is the number of bytes loaded into the value register by
// the reference decoder before the first read.
const minInitBytes = 2

// SimpleReader is the reference VP8 boolean decoder.
//
// value holds a 16-bit window whose top byte is compared against the
// scaled split. Every time range drops below 128 both are doubled, and
// once eight bits have been shifted out the next input byte is ORed in.
type SimpleReader struct {
	buf      []byte // input, owned by the reader
	pos      int    // index of the next byte to load
	range_   uint32 // current range, kept in [128, 255]
	value    uint32 // current value window
	bitCount uint8  // bits shifted since the last refill, in [0, 8)
}

// NewSimpleReader returns a SimpleReader seeded from data. The reader
// takes ownership of data.
func NewSimpleReader(data []byte) (*SimpleReader, error) {
	r := &SimpleReader{}
	if err := r.Reset(data); err != nil {
		return nil, err
	}
	return r, nil
}

// Reset re-initialises the reader over data. On error the reader is left
// unchanged.
func (r *SimpleReader) Reset(data []byte) error {
	if len(data) < minInitBytes {
		return ErrNotEnoughInitData
	}
	r.buf = data
	r.value = uint32(data[0])<<8 | uint32(data[1])
	r.pos = minInitBytes
	r.range_ = 255
	r.bitCount = 0
	return nil
}

// ReadBool decodes one boolean whose probability of being false is
// prob/256.
func (r *SimpleReader) ReadBool(prob uint8) bool {
	split := splitAt(r.range_, prob)
	bigSplit := split << 8

	var bit bool
	if r.value >= bigSplit {
		r.range_ -= split
		r.value -= bigSplit
		bit = true
	} else {
		r.range_ = split
	}

	for r.range_ < 128 {
		r.value <<= 1
		r.range_ <<= 1
		r.bitCount++
		if r.bitCount == 8 {
			r.bitCount = 0
			// Past the end the low byte stays zero (RFC 6386, p. 135).
			if r.pos < len(r.buf) {
				r.value |= uint32(r.buf[r.pos])
				r.pos++
			}
		}
	}
	return bit
}

// splitAt returns the partition point of range for prob. For range in
// [128, 255] it lies in [1, range-1].
func splitAt(range_ uint32, prob uint8) uint32 {
	return 1 + (((range_ - 1) * uint32(prob)) >> 8)
}

// ReadLiteral reads an n-bit unsigned value, MSB first, each bit with
// probability 128.
func (r *SimpleReader) ReadLiteral(n uint8) uint8 {
	var v uint8
	for i := uint8(0); i < n; i++ {
		v <<= 1
		if r.ReadBool(0x80) {
			v |= 1
		}
	}
	return v
}

// ReadFlag reads a single uniform bit.
func (r *SimpleReader) ReadFlag() bool {
	return r.ReadLiteral(1) != 0
}

// ReadMagnitudeAndSign reads an n-bit magnitude followed by a sign flag.
func (r *SimpleReader) ReadMagnitudeAndSign(n uint8) int32 {
	magnitude := int32(r.ReadLiteral(n))
	if r.ReadFlag() {
		return -magnitude
	}
	return magnitude
}

// ReadWithTree walks tree from start. At each pair the branch is chosen by
// a bool read with probs[index>>1]. Non-positive entries are leaves and
// the negated entry is returned.
func (r *SimpleReader) ReadWithTree(tree []int8, probs []uint8, start int) int8 {
	i := start
	for {
		next := i
		if r.ReadBool(probs[i>>1]) {
			next++
		}
		i = int(tree[next])
		if i <= 0 {
			return int8(-i)
		}
	}
}

// Exhausted reports whether every input byte has been loaded into the
// value window. Reads remain valid afterwards.
func (r *SimpleReader) Exhausted() bool {
	return r.pos >= len(r.buf)
}

package bitio

import "encoding/binary"

// boolBITS is the number of cached look-ahead bits kept in the value register.
// On 64-bit Go this is always 56 (7 bytes at a time).
const boolBITS = 56

// BoolReader is the cached VP8 boolean decoder.
//
// Instead of refilling one byte every eight shifts, the 64-bit value
// register holds up to 56 look-ahead bits and bits tracks where the active
// 8-bit window starts. Normalisation moves that window rather than the
// register, so a bulk load is amortised over many decoded symbols.
//
// It decodes exactly the same symbols as SimpleReader for every stream an
// encoder can produce, that is every input whose first byte is not 0xFF.
type BoolReader struct {
	value  uint64 // current value register (bits+8 bits active)
	range_ uint32 // current range minus 1, kept in [127, 254]
	bits   int    // number of valid look-ahead bits below the window
	buf    []byte // input byte buffer
	pos    int    // current read position in buf
	eof    bool   // true once zero bits have been shifted in
}

// NewBoolReader creates a BoolReader over data and loads the initial bits
// into the value register.
func NewBoolReader(data []byte) (*BoolReader, error) {
	br := &BoolReader{}
	if err := br.Reset(data); err != nil {
		return nil, err
	}
	return br, nil
}

// Reset re-initialises the reader over data. On error the reader is left
// unchanged.
func (br *BoolReader) Reset(data []byte) error {
	if len(data) < minInitBytes {
		return ErrNotEnoughInitData
	}
	br.range_ = 255 - 1
	br.value = 0
	br.bits = -8 // forces an immediate load of the first bytes
	br.buf = data
	br.pos = 0
	br.eof = false
	br.loadNewBytes()
	return nil
}

// loadNewBytes reads up to 7 bytes (56 bits) from the input buffer into the
// value register. When fewer than 8 bytes remain the slow path
// loadFinalBytes is used instead.
func (br *BoolReader) loadNewBytes() {
	if br.pos+8 <= len(br.buf) {
		// Read 8 bytes big-endian and keep the top 56 bits.
		in := binary.BigEndian.Uint64(br.buf[br.pos:])
		in >>= 64 - boolBITS
		br.value = in | (br.value << boolBITS)
		br.pos += boolBITS >> 3
		br.bits += boolBITS
	} else {
		br.loadFinalBytes()
	}
}

// loadFinalBytes reads one byte at a time near the end of the input. Once
// the input is gone it keeps shifting in zero bytes, so reads past the end
// behave like SimpleReader's zero fill.
func (br *BoolReader) loadFinalBytes() {
	br.value <<= 8
	br.bits += 8
	if br.pos < len(br.buf) {
		br.value |= uint64(br.buf[br.pos])
		br.pos++
	} else {
		br.eof = true
	}
}

// ReadBool decodes a single boolean whose probability of being false is
// prob/256.
//
// This is VP8GetBitAlt from libwebp: comparing against split instead of
// split<<8 is the same test as SimpleReader's value >= bigSplit, because
// range_ is stored minus one.
func (br *BoolReader) ReadBool(prob uint8) bool {
	range_ := br.range_
	if br.bits < 0 {
		br.loadNewBytes()
	}

	pos := uint(br.bits)
	split := (range_ * uint32(prob)) >> 8
	value := uint32(br.value >> pos)

	var bit bool
	if value > split {
		range_ -= split + 1
		br.value -= uint64(split+1) << pos
		bit = true
	} else {
		range_ = split
	}

	if range_ <= 0x7e {
		br.bits -= int(kVP8Log2Range[range_])
		range_ = uint32(kVP8NewRange[range_])
	}

	br.range_ = range_
	return bit
}

// ReadLiteral reads n bits MSB-first, each decoded with uniform
// probability (prob = 0x80).
func (br *BoolReader) ReadLiteral(n uint8) uint8 {
	var v uint8
	for i := uint8(0); i < n; i++ {
		v <<= 1
		if br.ReadBool(0x80) {
			v |= 1
		}
	}
	return v
}

// ReadFlag reads a single uniform bit.
func (br *BoolReader) ReadFlag() bool {
	return br.ReadLiteral(1) != 0
}

// ReadMagnitudeAndSign reads an n-bit unsigned value followed by a sign
// bit. If the sign bit is set, the value is negated.
func (br *BoolReader) ReadMagnitudeAndSign(n uint8) int32 {
	value := int32(br.ReadLiteral(n))
	if br.ReadFlag() {
		return -value
	}
	return value
}

// ReadWithTree walks tree from start, taking probs[i>>1] for the pair at
// position i, until it reaches a non-positive entry.
func (br *BoolReader) ReadWithTree(tree []int8, probs []uint8, start int) int8 {
	i := start
	for {
		next := i
		if br.ReadBool(probs[i>>1]) {
			next++
		}
		i = int(tree[next])
		if i <= 0 {
			return int8(-i)
		}
	}
}

// EOF reports whether the reader has run past the end of the input buffer
// and started shifting in zero bits.
func (br *BoolReader) EOF() bool {
	return br.eof
}

// kVP8Log2Range maps range values [0..127] to the number of left-shifts
// needed for normalisation: 7 - floor(log2(range + 1)).
var kVP8Log2Range = [128]uint8{
	7, 6, 6, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4, 4, 4, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0,
}

// kVP8NewRange maps range values [0..127] to the normalised range after
// shifting: ((range + 1) << kVP8Log2Range[range]) - 1.
var kVP8NewRange = [128]uint8{
	127, 127, 191, 127, 159, 191, 223, 127, 143, 159, 175, 191, 207, 223, 239,
	127, 135, 143, 151, 159, 167, 175, 183, 191, 199, 207, 215, 223, 231, 239,
	247, 127, 131, 135, 139, 143, 147, 151, 155, 159, 163, 167, 171, 175, 179,
	183, 187, 191, 195, 199, 203, 207, 211, 215, 219, 223, 227, 231, 235, 239,
	243, 247, 251, 127, 129, 131, 133, 135, 137, 139, 141, 143, 145, 147, 149,
	151, 153, 155, 157, 159, 161, 163, 165, 167, 169, 171, 173, 175, 177, 179,
	181, 183, 185, 187, 189, 191, 193, 195, 197, 199, 201, 203, 205, 207, 209,
	211, 213, 215, 217, 219, 221, 223, 225, 227, 229, 231, 233, 235, 237, 239,
	241, 243, 245, 247, 249, 251, 253, 127,
}

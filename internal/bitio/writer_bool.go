package bitio

import "fmt"

// BoolWriter implements the VP8 boolean (arithmetic) encoder.
//
// It is the encoding counterpart of SimpleReader and BoolReader: every
// Put method mirrors the Read method of the same name, so a stream written
// with a sequence of Put calls decodes back with the matching Read calls.
//
// The implementation is a direct translation of VP8BitWriter from
// libwebp/bit_writer_utils.c.
type BoolWriter struct {
	range_ int32 // current range minus 1, kept in [127, 254]
	value  int32 // current fractional value
	run    int   // count of pending 0xff bytes (carry propagation)
	nbBits int   // number of pending bits; when > 0, flush emits a byte
	buf    []byte
}

// NewBoolWriter creates a BoolWriter with an initial buffer sized for
// expectedSize bytes.
func NewBoolWriter(expectedSize int) *BoolWriter {
	bw := &BoolWriter{}
	bw.Reset(expectedSize)
	return bw
}

// Reset resets the BoolWriter state for reuse, keeping the existing buffer
// if it has sufficient capacity.
func (bw *BoolWriter) Reset(expectedSize int) {
	if expectedSize < 64 {
		expectedSize = 64
	}
	if cap(bw.buf) >= expectedSize {
		bw.buf = bw.buf[:0]
	} else {
		bw.buf = make([]byte, 0, expectedSize)
	}
	bw.range_ = 255 - 1
	bw.value = 0
	bw.run = 0
	bw.nbBits = -8
}

// PutBit encodes a single boolean whose probability of being false is
// prob/256.
func (bw *BoolWriter) PutBit(bit bool, prob uint8) {
	split := (bw.range_ * int32(prob)) >> 8
	if bit {
		bw.value += split + 1
		bw.range_ -= split + 1
	} else {
		bw.range_ = split
	}
	if bw.range_ < 127 {
		shift := kVP8Log2Range[bw.range_]
		bw.range_ = int32(kVP8NewRange[bw.range_])
		bw.value <<= uint(shift)
		bw.nbBits += int(shift)
		if bw.nbBits > 0 {
			bw.flush()
		}
	}
}

// PutLiteral encodes the low n bits of v, MSB first, each with uniform
// probability.
func (bw *BoolWriter) PutLiteral(v uint8, n uint8) {
	for i := int(n) - 1; i >= 0; i-- {
		bw.PutBit(v>>uint(i)&1 != 0, 0x80)
	}
}

// PutFlag encodes a single uniform bit.
func (bw *BoolWriter) PutFlag(flag bool) {
	bw.PutBit(flag, 0x80)
}

// PutMagnitudeAndSign encodes |v| in n bits followed by a sign flag that
// is set for negative v.
func (bw *BoolWriter) PutMagnitudeAndSign(v int32, n uint8) {
	if v < 0 {
		bw.PutLiteral(uint8(-v), n)
		bw.PutFlag(true)
		return
	}
	bw.PutLiteral(uint8(v), n)
	bw.PutFlag(false)
}

// PutTree encodes symbol as the path from start to the leaf holding it, so
// that ReadWithTree(tree, probs, start) returns symbol. It fails with
// ErrBitStream if no leaf reachable from start holds symbol or the tree is
// malformed along the way.
func (bw *BoolWriter) PutTree(tree []int8, probs []uint8, start int, symbol int8) error {
	path, ok, err := treePath(tree, start, symbol, nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: symbol %d not in tree", ErrBitStream, symbol)
	}
	for _, step := range path {
		if step.pos>>1 >= len(probs) {
			return fmt.Errorf("%w: no probability for pair %d", ErrBitStream, step.pos)
		}
	}
	for _, step := range path {
		bw.PutBit(step.bit, probs[step.pos>>1])
	}
	return nil
}

// treeStep is one decision on the way to a leaf: the pair position and the
// branch taken.
type treeStep struct {
	pos int
	bit bool
}

// treePath searches the subtree rooted at pair position i for symbol,
// appending the decisions that lead to it.
func treePath(tree []int8, i int, symbol int8, path []treeStep) ([]treeStep, bool, error) {
	if i < 0 || i+1 >= len(tree) {
		return nil, false, fmt.Errorf("%w: tree index %d out of range", ErrBitStream, i)
	}
	for b := 0; b < 2; b++ {
		step := treeStep{pos: i, bit: b == 1}
		e := int(tree[i+b])
		if e <= 0 {
			if int8(-e) == symbol {
				return append(path, step), true, nil
			}
			continue
		}
		if e <= i {
			return nil, false, fmt.Errorf("%w: tree entry at %d points back to %d", ErrBitStream, i+b, e)
		}
		sub, ok, err := treePath(tree, e, symbol, append(path, step))
		if err != nil || ok {
			return sub, ok, err
		}
	}
	return path, false, nil
}

// flush emits one byte from the value register, handling carry propagation
// through any pending 0xff bytes.
func (bw *BoolWriter) flush() {
	s := 8 + bw.nbBits
	bits := bw.value >> uint(s)
	bw.value -= bits << uint(s)
	bw.nbBits -= 8
	if bits&0xff != 0xff {
		if bits&0x100 != 0 {
			// Carry: increment the last written byte.
			if len(bw.buf) > 0 {
				bw.buf[len(bw.buf)-1]++
			}
		}
		if bw.run > 0 {
			val := byte(0xff)
			if bits&0x100 != 0 {
				val = 0x00
			}
			for ; bw.run > 0; bw.run-- {
				bw.buf = append(bw.buf, val)
			}
		}
		bw.buf = append(bw.buf, byte(bits&0xff))
	} else {
		bw.run++ // delay writing 0xff bytes, pending eventual carry
	}
}

// Finish finalises the bitstream by flushing all remaining bits and
// returns the encoded byte slice.
func (bw *BoolWriter) Finish() []byte {
	for n := 9 - bw.nbBits; n > 0; n-- {
		bw.PutBit(false, 0x80)
	}
	bw.nbBits = 0
	bw.flush()
	return bw.buf
}

// Bytes returns the encoded bytes written so far (without finalising).
func (bw *BoolWriter) Bytes() []byte {
	return bw.buf
}

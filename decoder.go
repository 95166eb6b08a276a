package vp8bool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deepteams/vp8bool/internal/bitio"
)

// Errors returned by the decoder.
var (
	// ErrNotEnoughInitData is returned when fewer than two bytes are
	// supplied to initialise a decoder.
	ErrNotEnoughInitData = bitio.ErrNotEnoughInitData

	// ErrBitStream reports a structurally invalid tree or probability
	// table. Read operations never return it.
	ErrBitStream = bitio.ErrBitStream

	ErrUnknownBackend = errors.New("vp8bool: unknown backend")
)

// Decoder is a VP8 boolean decoder positioned over one entropy-coded
// partition.
//
// All read operations are infallible: once the input is exhausted they
// keep decoding as if the stream continued with zero bytes. A Decoder is
// not safe for concurrent use.
type Decoder interface {
	// ReadBool decodes one boolean whose probability of being false is
	// prob/256.
	ReadBool(prob uint8) bool

	// ReadLiteral decodes an n-bit unsigned value (n <= 8), MSB first,
	// each bit with probability 128.
	ReadLiteral(n uint8) uint8

	// ReadFlag is ReadLiteral(1) != 0.
	ReadFlag() bool

	// ReadMagnitudeAndSign decodes an n-bit magnitude followed by a sign
	// flag and returns the signed value.
	ReadMagnitudeAndSign(n uint8) int32

	// ReadWithTree decodes a tree-coded symbol. See Tree for the layout
	// of tree and probs; start is 0 for the root.
	ReadWithTree(tree []int8, probs []uint8, start int) int8

	// Reset re-initialises the decoder over a new buffer. On error the
	// decoder keeps its previous state.
	Reset(data []byte) error
}

var (
	_ Decoder = (*bitio.SimpleReader)(nil)
	_ Decoder = (*bitio.BoolReader)(nil)
)

// Backend selects a Decoder implementation. All backends decode the same
// symbols from the same well-formed input.
type Backend int

const (
	// Simple is the reference decoder from RFC 6386: a 16-bit value
	// window renormalised one bit at a time.
	Simple Backend = iota

	// Cached is the libwebp decoder: a 64-bit value register loaded seven
	// bytes at a time with table-driven renormalisation.
	Cached
)

var backendNames = [...]string{
	Simple: "simple",
	Cached: "cached",
}

// String returns the backend name accepted by ParseBackend.
func (b Backend) String() string {
	if b < 0 || int(b) >= len(backendNames) {
		return fmt.Sprintf("Backend(%d)", int(b))
	}
	return backendNames[b]
}

// Backends returns every available backend.
func Backends() []Backend {
	return []Backend{Simple, Cached}
}

// ParseBackend returns the backend with the given name, ignoring case.
func ParseBackend(name string) (Backend, error) {
	for i, n := range backendNames {
		if strings.EqualFold(n, name) {
			return Backend(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// NewDecoder initialises a decoder of the given backend over data. The
// decoder takes ownership of data, which must hold at least two bytes.
func NewDecoder(b Backend, data []byte) (Decoder, error) {
	switch b {
	case Simple:
		r, err := bitio.NewSimpleReader(data)
		if err != nil {
			return nil, err
		}
		return r, nil
	case Cached:
		r, err := bitio.NewBoolReader(data)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, b)
	}
}

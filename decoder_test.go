package vp8bool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepteams/vp8bool/internal/bitio"
)

func TestNewDecoder_NotEnoughInitData(t *testing.T) {
	for _, b := range Backends() {
		for _, data := range [][]byte{nil, {0x80}} {
			d, err := NewDecoder(b, data)
			require.ErrorIs(t, err, ErrNotEnoughInitData, b.String())
			require.Nil(t, d, b.String())
		}
	}
}

func TestNewDecoder_UnknownBackend(t *testing.T) {
	d, err := NewDecoder(Backend(7), []byte{0, 0})
	require.ErrorIs(t, err, ErrUnknownBackend)
	require.Nil(t, d)
}

func TestParseBackend(t *testing.T) {
	r := require.New(t)

	for _, b := range Backends() {
		got, err := ParseBackend(b.String())
		r.NoError(err)
		r.Equal(b, got)
	}

	got, err := ParseBackend("CACHED")
	r.NoError(err)
	r.Equal(Cached, got)

	_, err = ParseBackend("libvpx")
	r.ErrorIs(err, ErrUnknownBackend)
	r.Equal("Backend(-1)", Backend(-1).String())
}

func TestDecoder_Fixtures(t *testing.T) {
	for _, b := range Backends() {
		t.Run(b.String(), func(t *testing.T) {
			r := require.New(t)

			d, err := NewDecoder(b, []byte{0x00, 0x00})
			r.NoError(err)
			r.False(d.ReadBool(128))

			d, err = NewDecoder(b, []byte{0xFF, 0xFF, 0xFF})
			r.NoError(err)
			r.True(d.ReadBool(128))
		})
	}
}

func TestDecoder_ReadLiteralZero(t *testing.T) {
	data := []byte{0x6B, 0x21, 0xF0, 0x0D}
	for _, b := range Backends() {
		d, err := NewDecoder(b, data)
		require.NoError(t, err)
		ref, err := NewDecoder(b, data)
		require.NoError(t, err)

		require.Equal(t, uint8(0), d.ReadLiteral(0))
		// No decision was consumed, so both decoders stay in step.
		for i := 0; i < 32; i++ {
			require.Equal(t, ref.ReadBool(uint8(i*8)), d.ReadBool(uint8(i*8)))
		}
	}
}

func TestDecoder_EndOfStreamDeterministic(t *testing.T) {
	for _, b := range Backends() {
		first, err := NewDecoder(b, []byte{0x3C, 0x91})
		require.NoError(t, err)
		second, err := NewDecoder(b, []byte{0x3C, 0x91})
		require.NoError(t, err)

		for i := 0; i < 5000; i++ {
			p := uint8(i * 37)
			require.Equal(t, first.ReadBool(p), second.ReadBool(p), "%v read %d", b, i)
		}
	}
}

func TestDecoder_Reset(t *testing.T) {
	data := []byte{0x12, 0x9A, 0x77, 0x05, 0xC0}
	for _, b := range Backends() {
		r := require.New(t)

		d, err := NewDecoder(b, data)
		r.NoError(err)
		want := make([]uint8, 5)
		for i := range want {
			want[i] = d.ReadLiteral(8)
		}

		r.ErrorIs(d.Reset([]byte{1}), ErrNotEnoughInitData)
		r.NoError(d.Reset(data))
		for i := range want {
			r.Equal(want[i], d.ReadLiteral(8), "%v literal %d", b, i)
		}
	}
}

func TestDecoder_MagnitudeAndSign(t *testing.T) {
	for _, sign := range []bool{false, true} {
		bw := bitio.NewBoolWriter(0)
		bw.PutLiteral(0x5C, 7)
		bw.PutFlag(sign)
		data := bw.Finish()

		for _, b := range Backends() {
			signed, err := NewDecoder(b, data)
			require.NoError(t, err)
			plain, err := NewDecoder(b, data)
			require.NoError(t, err)

			v := signed.ReadMagnitudeAndSign(7)
			require.Equal(t, int32(plain.ReadLiteral(7)), max(v, -v))
			require.Equal(t, sign, v < 0)
		}
	}
}

// script is a reproducible sequence of mixed read operations.
type script struct {
	ops []op
}

type op struct {
	kind  int // 0 bool, 1 literal, 2 magnitude, 3 tree
	arg   uint8
	start int
}

func newScript(seed int64, n int) script {
	rng := rand.New(rand.NewSource(seed))
	s := script{ops: make([]op, n)}
	for i := range s.ops {
		o := op{kind: rng.Intn(4), arg: uint8(rng.Intn(256))}
		switch o.kind {
		case 1, 2:
			o.arg %= 9
		case 3:
			o.start = 2 * rng.Intn(2)
		}
		s.ops[i] = o
	}
	return s
}

// run decodes the script and returns every result widened to int32.
func (s script) run(d Decoder) []int32 {
	out := make([]int32, len(s.ops))
	for i, o := range s.ops {
		switch o.kind {
		case 0:
			if d.ReadBool(o.arg) {
				out[i] = 1
			}
		case 1:
			out[i] = int32(d.ReadLiteral(o.arg))
		case 2:
			out[i] = d.ReadMagnitudeAndSign(o.arg)
		case 3:
			out[i] = int32(d.ReadWithTree(CoeffTree, defaultCoeffProbs, o.start))
		}
	}
	return out
}

// defaultCoeffProbs is one context of the VP8 default token probabilities.
var defaultCoeffProbs = []uint8{253, 136, 254, 255, 228, 219, 128, 128, 128, 128, 128}

func TestBackends_AgreeOnEncodedStreams(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for trial := 0; trial < 50; trial++ {
		bw := bitio.NewBoolWriter(0)
		for i := 0; i < 400; i++ {
			bw.PutBit(rng.Intn(3) == 0, uint8(rng.Intn(256)))
		}
		data := bw.Finish()
		s := newScript(int64(trial), 600)

		var want []int32
		for _, b := range Backends() {
			d, err := NewDecoder(b, data)
			require.NoError(t, err)
			got := s.run(d)
			if want == nil {
				want = got
				continue
			}
			require.Equal(t, want, got, "trial %d backend %v", trial, b)
		}
	}
}

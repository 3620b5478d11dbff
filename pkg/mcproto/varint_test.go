package mcproto

import (
	"bufio"
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, 2, 127, 128, 255, 300, math.MaxInt16, math.MaxInt32, -1, math.MinInt32}
	for _, v := range values {
		buf := new(bytes.Buffer)
		require.NoError(t, WriteVarInt(buf, v))
		assert.LessOrEqual(t, buf.Len(), 5)
		assert.GreaterOrEqual(t, buf.Len(), 1)

		got, err := ReadVarInt(bufio.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarIntRoundTripUnsignedRange(t *testing.T) {
	// Spans [0, 2^32) interpreted as unsigned, per the protocol's unsigned semantics.
	for _, u := range []uint32{0, 1, 1 << 7, 1 << 14, 1 << 21, 1 << 28, math.MaxUint32} {
		v := int32(u)
		buf := new(bytes.Buffer)
		require.NoError(t, WriteVarInt(buf, v))
		got, err := ReadVarInt(bufio.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, u, uint32(got))
	}
}

func TestReadVarIntTooLong(t *testing.T) {
	// Six bytes all with the continuation bit set.
	raw := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	_, err := ReadVarInt(bufio.NewReader(bytes.NewReader(raw)))
	require.ErrorIs(t, err, ErrMalformedFrame)
}

func TestReadVarIntPeerClosedAtStart(t *testing.T) {
	_, err := ReadVarInt(bufio.NewReader(bytes.NewReader(nil)))
	require.ErrorIs(t, err, ErrPeerClosed)
}

func TestReadVarIntMalformedMidSequence(t *testing.T) {
	// Continuation bit set, then nothing more.
	_, err := ReadVarInt(bufio.NewReader(bytes.NewReader([]byte{0x80})))
	require.ErrorIs(t, err, ErrMalformedFrame)
}

func TestVarIntSize(t *testing.T) {
	buf := new(bytes.Buffer)
	for _, v := range []int32{0, 127, 128, 1 << 20, math.MaxInt32} {
		buf.Reset()
		require.NoError(t, WriteVarInt(buf, v))
		assert.Equal(t, buf.Len(), VarIntSize(v))
	}
}

package mcproto

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	cases := []struct {
		id      int32
		payload []byte
	}{
		{0x00, []byte{}},
		{0x00, []byte("hello")},
		{0x01, []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{0xFFFF, bytes.Repeat([]byte{0xAB}, 4096)},
	}
	for _, c := range cases {
		buf := new(bytes.Buffer)
		require.NoError(t, WriteFrame(buf, c.id, c.payload))

		got, err := ReadFrame(bufio.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, c.id, got.PacketID)
		assert.Equal(t, c.payload, got.Payload)
	}
}

func TestReadFramePeerClosedMidBody(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, WriteVarInt(buf, 10)) // declare 10 bytes of body
	buf.Write([]byte{0x00, 0x01, 0x02})       // supply only 3, then EOF

	_, err := ReadFrame(bufio.NewReader(buf))
	require.ErrorIs(t, err, ErrPeerClosed)
}

func TestReadFrameMalformedHandshakeOneByte(t *testing.T) {
	// S6: client sends one byte then closes -- not even a complete length VarInt byte sequence
	// followed by body; here length VarInt itself is fine (a single non-continuation byte) but
	// there is no body to back it, so the short body case degrades to PeerClosed, matching
	// "close the connection without emitting any packet" at the handler level.
	buf := bytes.NewBuffer([]byte{0x05})
	_, err := ReadFrame(bufio.NewReader(buf))
	require.Error(t, err)
}

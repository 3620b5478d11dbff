package mcproto

import (
	"errors"
	"fmt"
	"io"
)

// maxVarIntBytes is the maximum number of bytes a 32-bit VarInt can occupy.
const maxVarIntBytes = 5

// ReadVarInt reads a little-endian, 7-bits-per-byte VarInt from r.
//
// An EOF before any byte has been read is reported as ErrPeerClosed — the
// peer simply closed the connection between frames. Any other failure,
// including a sixth continuation byte, is ErrMalformedFrame.
func ReadVarInt(r io.ByteReader) (int32, error) {
	var result int32
	var numRead uint

	for {
		b, err := r.ReadByte()
		if err != nil {
			if numRead == 0 && errors.Is(err, io.EOF) {
				return 0, ErrPeerClosed
			}
			return 0, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}

		result |= int32(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > maxVarIntBytes {
			return 0, fmt.Errorf("%w: varint longer than %d bytes", ErrMalformedFrame, maxVarIntBytes)
		}

		if b&0x80 == 0 {
			return result, nil
		}
	}
}

// WriteVarInt writes v to w using the VarInt encoding. It always emits
// between 1 and 5 bytes.
func WriteVarInt(w io.Writer, v int32) error {
	buf := AppendVarInt(nil, v)
	_, err := w.Write(buf)
	return err
}

// AppendVarInt appends the VarInt encoding of v to dst and returns the
// extended slice, in the style of strconv.AppendInt.
func AppendVarInt(dst []byte, v int32) []byte {
	u := uint32(v)
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if u == 0 {
			return dst
		}
	}
}

// VarIntSize returns the number of bytes WriteVarInt would emit for v.
func VarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u >>= 7; u != 0; u >>= 7 {
		n++
	}
	return n
}

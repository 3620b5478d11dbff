// Package mcproto implements the wire primitives of the Minecraft Java
// Edition protocol: VarInt, length-prefixed strings, and the packet frame
// used by every protocol state. It has no notion of handshake/status/login
// phases; that belongs to the caller.
package mcproto

import "errors"

// ErrMalformedFrame indicates the peer sent bytes that do not form a valid
// VarInt, string, or frame. The connection that produced it cannot be
// trusted and must be closed without a reply.
var ErrMalformedFrame = errors.New("mcproto: malformed frame")

// ErrPeerClosed indicates the remote end closed the connection, either
// between frames or before a declared frame body was complete. This is an
// expected condition, not a protocol error.
var ErrPeerClosed = errors.New("mcproto: peer closed connection")

package proxy

import (
	"bytes"

	"go.wakeproxy.dev/wakeproxy/pkg/mcproto"
)

// handshake is the parsed Handshake packet. Payload retains the exact
// bytes the client sent so it can be replayed verbatim to the backend,
// per spec §3's Handshake invariant.
type handshake struct {
	ProtocolVersion int32
	Address         string
	Port            uint16
	NextState       int32
	Payload         []byte
}

const (
	nextStateStatus int32 = 1
	nextStateLogin  int32 = 2
)

func parseHandshake(payload []byte) (*handshake, error) {
	r := bytes.NewReader(payload)

	protocolVersion, err := mcproto.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	address, err := mcproto.ReadString(r)
	if err != nil {
		return nil, err
	}
	port, err := mcproto.ReadUnsignedShort(r)
	if err != nil {
		return nil, err
	}
	nextState, err := mcproto.ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	return &handshake{
		ProtocolVersion: protocolVersion,
		Address:         address,
		Port:            port,
		NextState:       nextState,
		Payload:         payload,
	}, nil
}

// loginStart is the parsed Login Start packet. Payload retains the full
// original payload (name plus any trailing UUID/extension bytes) for
// verbatim replay, per spec §3's LoginStart invariant.
type loginStart struct {
	Name    string
	Payload []byte
}

func parseLoginStart(payload []byte) (*loginStart, error) {
	r := bytes.NewReader(payload)
	name, err := mcproto.ReadString(r)
	if err != nil {
		return nil, err
	}
	return &loginStart{Name: name, Payload: payload}, nil
}

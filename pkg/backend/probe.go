// Package backend implements the Backend Probe: side-channel checks of
// whether the real Minecraft server is reachable, and if so, what its
// authoritative status looks like.
package backend

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go.wakeproxy.dev/wakeproxy/pkg/config"
	"go.wakeproxy.dev/wakeproxy/pkg/mcproto"
)

// probeProtocolVersion is the fixed protocol version the probe advertises
// to the backend in its own handshake; it is unrelated to whatever version
// the real client advertised to us, per spec §4.2.
const probeProtocolVersion int32 = 767

const dialTimeout = 2 * time.Second

// Probe checks the backend's reachability and status. All of its sockets
// are side channels, never the real player connection, and it never shares
// sockets with the real connection.
type Probe struct {
	endpoint config.Endpoint

	// group collapses concurrent probes (e.g. several simultaneous
	// server-list pings) into a single dial, instead of hammering the
	// backend once per client.
	group singleflight.Group
}

// New returns a Probe targeting endpoint.
func New(endpoint config.Endpoint) *Probe {
	return &Probe{endpoint: endpoint}
}

// IsOnline reports whether the backend currently accepts TCP connections.
func (p *Probe) IsOnline() bool {
	v, _, _ := p.group.Do("online", func() (interface{}, error) {
		conn, err := net.DialTimeout("tcp", p.endpoint.String(), dialTimeout)
		if err != nil {
			return false, nil
		}
		_ = conn.Close()
		return true, nil
	})
	return v.(bool)
}

// FetchStatus queries the backend's own status response. It returns nil if
// anything about the probe fails; errors never propagate to the caller,
// per spec §7's BackendStatusFetchFailed handling.
func (p *Probe) FetchStatus() *StatusView {
	v, _, _ := p.group.Do("status", func() (interface{}, error) {
		view, err := p.fetchStatus()
		if err != nil {
			zap.L().Debug("backend: status fetch failed", zap.Error(err))
			return (*StatusView)(nil), nil
		}
		return view, nil
	})
	return v.(*StatusView)
}

func (p *Probe) fetchStatus() (*StatusView, error) {
	conn, err := net.DialTimeout("tcp", p.endpoint.String(), dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("backend: dial: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(dialTimeout))

	handshake := new(bytes.Buffer)
	_ = mcproto.WriteVarInt(handshake, probeProtocolVersion)
	_ = mcproto.WriteString(handshake, p.endpoint.Host)
	_ = mcproto.WriteUnsignedShort(handshake, p.endpoint.Port)
	_ = mcproto.WriteVarInt(handshake, 1) // next_state = status

	if err := mcproto.WriteFrame(conn, 0x00, handshake.Bytes()); err != nil {
		return nil, fmt.Errorf("backend: writing handshake: %w", err)
	}
	if err := mcproto.WriteFrame(conn, 0x00, nil); err != nil {
		return nil, fmt.Errorf("backend: writing status request: %w", err)
	}

	frame, err := mcproto.ReadFrame(bufio.NewReader(conn))
	if err != nil {
		return nil, fmt.Errorf("backend: reading status response: %w", err)
	}
	if frame.PacketID != 0x00 {
		return nil, fmt.Errorf("backend: unexpected packet id %d in status response", frame.PacketID)
	}

	jsonStr, err := mcproto.ReadString(bytes.NewReader(frame.Payload))
	if err != nil {
		return nil, fmt.Errorf("backend: decoding status payload: %w", err)
	}

	var view StatusView
	if err := json.Unmarshal([]byte(jsonStr), &view); err != nil {
		return nil, fmt.Errorf("backend: unmarshalling status json: %w", err)
	}
	return &view, nil
}

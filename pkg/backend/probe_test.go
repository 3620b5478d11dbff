package backend

import (
	"bufio"
	"bytes"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.wakeproxy.dev/wakeproxy/pkg/config"
	"go.wakeproxy.dev/wakeproxy/pkg/mcproto"
)

func testEndpoint(t *testing.T, ln net.Listener) config.Endpoint {
	t.Helper()
	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return config.Endpoint{Host: host, Port: uint16(port)}
}

func TestIsOnlineTrueWhenListening(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	p := New(testEndpoint(t, ln))
	assert.True(t, p.IsOnline())
}

func TestIsOnlineFalseWhenUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := testEndpoint(t, ln)
	ln.Close() // nobody is listening anymore

	p := New(addr)
	assert.False(t, p.IsOnline())
}

func TestFetchStatusParsesValidResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go serveOneStatus(t, ln, `{"version":{"name":"1.21.4","protocol":767},"players":{"max":20,"online":3},"description":{"text":"hi"}}`)

	p := New(testEndpoint(t, ln))
	view := p.FetchStatus()
	require.NotNil(t, view)
	assert.Equal(t, 3, view.Players.Online)
	assert.Equal(t, 20, view.Players.Max)
}

func TestFetchStatusNilOnUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := testEndpoint(t, ln)
	ln.Close()

	p := New(addr)
	assert.Nil(t, p.FetchStatus())
}

// serveOneStatus accepts a single connection, reads the handshake and
// status-request frames, and replies with a canned status JSON string.
func serveOneStatus(t *testing.T, ln net.Listener, statusJSON string) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	if _, err := mcproto.ReadFrame(r); err != nil { // handshake
		return
	}
	if _, err := mcproto.ReadFrame(r); err != nil { // status request
		return
	}

	payload := new(bytes.Buffer)
	_ = mcproto.WriteString(payload, statusJSON)
	_ = mcproto.WriteFrame(conn, 0x00, payload.Bytes())
}

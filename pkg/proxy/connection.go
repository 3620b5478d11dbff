package proxy

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go.wakeproxy.dev/wakeproxy/pkg/backend"
	"go.wakeproxy.dev/wakeproxy/pkg/mcproto"
)

// disconnectDelay lets the client render a Disconnect message before the
// TCP reset that follows conn.Close(), per spec §4.5 steps 3 and 4.
const disconnectDelay = 100 * time.Millisecond

// backendDialTimeout bounds the tunneling backend connection, distinct
// from the shorter timeout the Backend Probe uses for its side channel.
const backendDialTimeout = 10 * time.Second

// connHandler is the per-connection state machine: handshake -> status or
// login branch -> impersonated response, disconnect, wake+inform, or
// tunnel handoff. One instance owns exactly one inbound client socket and
// is solely responsible for closing it.
type connHandler struct {
	proxy *Proxy
	conn  net.Conn
	log   *zap.Logger
}

// handle runs one connection to completion, always closing conn on
// return.
func (p *Proxy) handle(conn net.Conn) {
	defer conn.Close()

	id := uuid.New()
	log := zap.L().With(
		zap.String("conn", id.String()),
		zap.Stringer("remote", conn.RemoteAddr()),
	)

	h := &connHandler{proxy: p, conn: conn, log: log}
	h.run()
}

func (h *connHandler) run() {
	r := bufio.NewReader(h.conn)

	frame, err := mcproto.ReadFrame(r)
	if err != nil {
		h.logFrameErr("handshake", err)
		return
	}
	if frame.PacketID != 0x00 {
		h.log.Debug("closing: expected handshake packet 0x00", zap.Int32("packetId", frame.PacketID))
		return
	}

	hs, err := parseHandshake(frame.Payload)
	if err != nil {
		h.log.Debug("closing: malformed handshake", zap.Error(err))
		return
	}

	switch hs.NextState {
	case nextStateStatus:
		h.handleStatus(r, hs)
	case nextStateLogin:
		h.handleLogin(r, hs)
	default:
		h.log.Debug("closing: unknown next_state", zap.Int32("nextState", hs.NextState))
	}
}

func (h *connHandler) logFrameErr(phase string, err error) {
	if errors.Is(err, mcproto.ErrPeerClosed) {
		h.log.Debug("peer closed during " + phase)
		return
	}
	h.log.Debug("closing: malformed frame during "+phase, zap.Error(err))
}

// handleStatus implements spec §4.5's Status phase.
func (h *connHandler) handleStatus(r *bufio.Reader, hs *handshake) {
	frame, err := mcproto.ReadFrame(r)
	if err != nil {
		h.logFrameErr("status request", err)
		return
	}
	if frame.PacketID != 0x00 || len(frame.Payload) != 0 {
		h.log.Debug("closing: expected empty Status Request")
		return
	}

	view := h.proxy.buildStatusView(hs)
	data, err := json.Marshal(view)
	if err != nil {
		h.log.Error("failed to marshal status view", zap.Error(err))
		return
	}

	buf := new(bytes.Buffer)
	if err := mcproto.WriteString(buf, string(data)); err != nil {
		return
	}
	if err := mcproto.WriteFrame(h.conn, 0x00, buf.Bytes()); err != nil {
		h.log.Debug("failed to write status response", zap.Error(err))
		return
	}

	pingFrame, err := mcproto.ReadFrame(r)
	if err != nil {
		return // timeout, EOF, or malformed: end the phase either way.
	}
	if pingFrame.PacketID != 0x01 {
		return
	}
	_ = mcproto.WriteFrame(h.conn, 0x01, pingFrame.Payload)
}

// handleLogin implements spec §4.5's Login phase.
func (h *connHandler) handleLogin(r *bufio.Reader, hs *handshake) {
	frame, err := mcproto.ReadFrame(r)
	if err != nil {
		h.logFrameErr("login start", err)
		return
	}
	if frame.PacketID != 0x00 {
		h.log.Debug("closing: expected Login Start packet 0x00", zap.Int32("packetId", frame.PacketID))
		return
	}

	ls, err := parseLoginStart(frame.Payload)
	if err != nil {
		h.log.Debug("closing: malformed Login Start", zap.Error(err))
		return
	}
	log := h.log.With(zap.String("player", ls.Name))

	if !h.proxy.whitelist.Allowed(ls.Name) {
		log.Info("login rejected: not whitelisted")
		h.sendDisconnect(h.proxy.cfg.NotWhitelistedMessage)
		return
	}

	if h.proxy.probe.IsOnline() {
		if err := h.tunnelToBackend(r, hs, ls); err != nil {
			// Race: probe said online, but the connect attempt failed.
			// Per spec §4.5/§9, we close rather than fall through to waking.
			log.Info("login aborted: backend became unreachable after probe", zap.Error(err))
		}
		return
	}

	h.proxy.wake.Request(ls.Name)
	log.Info("login: backend offline, wake requested")
	h.sendDisconnect(h.proxy.cfg.WakingMessage)
}

func (h *connHandler) sendDisconnect(message string) {
	reason, err := json.Marshal(backend.DescriptionText(message))
	if err != nil {
		return
	}

	buf := new(bytes.Buffer)
	if err := mcproto.WriteString(buf, string(reason)); err != nil {
		return
	}
	if err := mcproto.WriteFrame(h.conn, 0x00, buf.Bytes()); err != nil {
		return
	}
	time.Sleep(disconnectDelay)
}

func (h *connHandler) tunnelToBackend(clientBuf *bufio.Reader, hs *handshake, ls *loginStart) error {
	backendConn, err := net.DialTimeout("tcp", h.proxy.cfg.Backend.String(), backendDialTimeout)
	if err != nil {
		return err
	}

	if err := mcproto.WriteFrame(backendConn, 0x00, hs.Payload); err != nil {
		backendConn.Close()
		return err
	}
	if err := mcproto.WriteFrame(backendConn, 0x00, ls.Payload); err != nil {
		backendConn.Close()
		return err
	}

	h.log.Info("login accepted: tunneling to backend", zap.String("player", ls.Name))
	runTunnel(h.conn, clientBuf, backendConn)
	return nil
}

// Package health serves a minimal liveness/status endpoint for external
// monitoring, a new component SPEC_FULL.md adds beyond the wire protocol
// itself.
package health

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"go.wakeproxy.dev/wakeproxy/pkg/backend"
	"go.wakeproxy.dev/wakeproxy/pkg/wake"
)

// Status reports the two pieces of state an operator dashboard cares
// about: whether the backend currently answers, and whether a wake is in
// its cooldown window.
type Status struct {
	BackendOnline bool `json:"backendOnline"`
	Waking        bool `json:"waking"`
}

// Server serves GET /healthz over plain HTTP using fasthttp, mirroring the
// teacher stack's choice of fasthttp for its own lightweight HTTP surface.
type Server struct {
	probe *backend.Probe
	trig  *wake.Trigger
}

// New returns a Server reporting on probe and trig.
func New(probe *backend.Probe, trig *wake.Trigger) *Server {
	return &Server{probe: probe, trig: trig}
}

// ListenAndServe blocks serving addr until it returns an error.
func (s *Server) ListenAndServe(addr string) error {
	zap.L().Info("health endpoint listening", zap.String("addr", addr))
	return fasthttp.ListenAndServe(addr, s.handle)
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	if string(ctx.Path()) != "/healthz" {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	status := Status{
		BackendOnline: s.probe.IsOnline(),
		Waking:        s.trig.Waking(),
	}
	body, err := json.Marshal(status)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

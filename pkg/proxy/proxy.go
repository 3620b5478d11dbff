// Package proxy implements the Connection Handler and its owning Proxy:
// the listener loop that accepts client sockets, impersonates or forwards
// Server List Ping, and gates/tunnels Login per spec §4.
package proxy

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"

	"go.minekube.com/common/minecraft/color"
	"go.minekube.com/common/minecraft/component"
	"go.minekube.com/common/minecraft/component/codec"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.wakeproxy.dev/wakeproxy/pkg/assets"
	"go.wakeproxy.dev/wakeproxy/pkg/backend"
	"go.wakeproxy.dev/wakeproxy/pkg/config"
	"go.wakeproxy.dev/wakeproxy/pkg/wake"
	"go.wakeproxy.dev/wakeproxy/pkg/whitelist"
)

// Proxy owns the listening socket and the long-lived collaborators every
// accepted connection is handled against.
type Proxy struct {
	cfg config.Config

	whitelist *whitelist.Gate
	wake      *wake.Trigger
	probe     *backend.Probe
	icon      *assets.Icon

	closeOnce sync.Once
	closed    chan struct{}
	ln        net.Listener

	// conns tracks in-flight handle goroutines so Run can drain them
	// before returning, per spec §4.7/§5's "in-flight handlers are
	// allowed to complete" on shutdown.
	conns sync.WaitGroup
}

// New constructs a Proxy from cfg. waker supplies the mechanism Request
// ultimately invokes (e.g. wake.DefaultMagicPacketFunc); tests may pass a
// stub.
func New(cfg config.Config, waker wake.Func) *Proxy {
	return &Proxy{
		cfg:       cfg,
		whitelist: whitelist.New(cfg.WhitelistPath),
		wake:      wake.New(cfg.BackendWakeID, waker),
		probe:     backend.New(cfg.Backend),
		icon:      assets.Load(cfg.IconPath),
		closed:    make(chan struct{}),
	}
}

// Run listens on cfg.Listen and serves connections until ctx is canceled
// or Shutdown is called. It returns the first fatal error, if any.
func (p *Proxy) Run(ctx context.Context) error {
	ln, err := listen(p.cfg.Listen.String())
	if err != nil {
		return err
	}
	p.ln = ln

	zap.L().Info("listening for Minecraft connections",
		zap.String("addr", p.cfg.Listen.String()),
		zap.String("backend", p.cfg.Backend.String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.acceptLoop(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-p.closed:
		}
		return p.closeListener()
	})

	err = g.Wait()

	zap.L().Info("listener stopped, waiting for in-flight connections to finish")
	p.conns.Wait()

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

func (p *Proxy) acceptLoop(ctx context.Context) error {
	for {
		conn, err := p.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			zap.L().Warn("accept failed", zap.Error(err))
			continue
		}
		p.conns.Add(1)
		go func() {
			defer p.conns.Done()
			p.handle(conn)
		}()
	}
}

func (p *Proxy) closeListener() error {
	if p.ln == nil {
		return nil
	}
	return p.ln.Close()
}

// Shutdown closes the listener and logs reason as the operator-facing
// notice, mirroring the graceful-shutdown message the teacher proxy sends
// its connected players.
func (p *Proxy) Shutdown(reason component.Component) {
	p.closeOnce.Do(func() {
		close(p.closed)

		b := new(strings.Builder)
		if (&codec.Plain{}).Marshal(b, reason) == nil {
			zap.L().Info("shutting down", zap.String("reason", b.String()))
		} else {
			zap.L().Info("shutting down")
		}

		if err := p.closeListener(); err != nil && !errors.Is(err, net.ErrClosed) {
			zap.L().Warn("error closing listener", zap.Error(err))
		}
	})
}

// DefaultShutdownReason is the notice cmd/wakeproxy sends on SIGINT/SIGTERM.
func DefaultShutdownReason() component.Component {
	return &component.Text{
		Content: "Wake proxy is shutting down...\nPlease reconnect in a moment!",
		S:       component.Style{Color: color.Red},
	}
}

// Probe exposes the backend probe for collaborators outside the package,
// such as the health endpoint.
func (p *Proxy) Probe() *backend.Probe { return p.probe }

// WakeTrigger exposes the wake trigger for collaborators outside the
// package, such as the health endpoint.
func (p *Proxy) WakeTrigger() *wake.Trigger { return p.wake }

package main

import (
	"github.com/nabbar/gowsgi/config"
	"github.com/nabbar/gowsgi/listener"
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/protocol/fastcgi"
	"github.com/nabbar/gowsgi/protocol/http1"
	"github.com/nabbar/gowsgi/protocol/http2"
)

// boundListener pairs one bound listener.Listener with the
// protocol.Protocol new connections accepted on it start life as. An
// accepted stream begins on HTTP/1.1, HTTP/2 (--http2-socket) or FastCGI;
// WebSocket, and HTTP/2 on an HTTP/1.1 socket, are reached only via
// in-place upgrade (socket.Socket.applyUpgrade).
type boundListener struct {
	ln    listener.Listener
	proto protocol.Protocol
}

// bindAll binds one listener.Listener per configured socket entry across
// every socket flag group, pairing each with its protocol front-end.
// cfg.ReusePort lets several worker processes each bind the same address
// independently (listener.Config.ReusePort / spec.md §4.2). On error,
// every listener already bound by this call is closed.
func bindAll(cfg *config.Config, dateFn func() string) ([]boundListener, error) {
	var out []boundListener

	bind := func(raw []string, build func(spec config.SocketSpec) (protocol.Protocol, error)) error {
		specs, err := config.ParseAll(raw)
		if err != nil {
			return err
		}
		for _, spec := range specs {
			lc, err := config.ListenerConfig(cfg, spec)
			if err != nil {
				return err
			}
			ln, err := listener.New(lc)
			if err != nil {
				return err
			}
			proto, err := build(spec)
			if err != nil {
				_ = ln.Close()
				return err
			}
			out = append(out, boundListener{ln: ln, proto: proto})
		}
		return nil
	}

	if err := bind(cfg.HTTPSockets, func(config.SocketSpec) (protocol.Protocol, error) {
		return &http1.Protocol1{
			Cfg: http1.Config{
				PostBuffering: cfg.PostBuffering,
				UpgradeH2C:    cfg.UpgradeH2C,
			},
			DateFn: dateFn,
		}, nil
	}); err != nil {
		closeAll(out)
		return nil, err
	}

	if err := bind(cfg.HTTPSSockets, func(config.SocketSpec) (protocol.Protocol, error) {
		return &http1.Protocol1{
			Cfg: http1.Config{
				PostBuffering: cfg.PostBuffering,
				UpgradeH2C:    cfg.UpgradeH2C,
			},
			DateFn: dateFn,
		}, nil
	}); err != nil {
		closeAll(out)
		return nil, err
	}

	if err := bind(cfg.HTTP2Sockets, func(config.SocketSpec) (protocol.Protocol, error) {
		return &http2.Protocol2{
			Cfg: http2.Config{
				BufferSize: cfg.BufferSize,
				UpgradeH2C: true,
			},
		}, nil
	}); err != nil {
		closeAll(out)
		return nil, err
	}

	if err := bind(cfg.FastCGISockets, func(config.SocketSpec) (protocol.Protocol, error) {
		return &fastcgi.Protocol1{Cfg: fastcgi.Config{BufferSize: cfg.BufferSize}}, nil
	}); err != nil {
		closeAll(out)
		return nil, err
	}

	return out, nil
}

func closeAll(lns []boundListener) {
	for _, bl := range lns {
		_ = bl.ln.Close()
	}
}

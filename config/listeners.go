package config

import (
	"strings"

	"github.com/nabbar/gowsgi/listener"
)

// ListenerConfig turns one parsed SocketSpec plus the shared socket
// options from cfg into a listener.Config, loading the TLS cert/key
// pair when the spec carries one. cfg.HTTPSH2 selects whether ALPN h2
// negotiation is offered, on every socket that carries a cert/key pair.
func ListenerConfig(cfg *Config, spec SocketSpec) (listener.Config, error) {
	lc := listener.Config{
		Address:     spec.Address,
		Backlog:     cfg.Listen,
		TCPNoDelay:  cfg.TCPNoDelay,
		SoKeepAlive: cfg.SoKeepAlive,
		SoSndBuf:    cfg.SocketSndBuf,
		SoRcvBuf:    cfg.SocketRcvBuf,
		ReusePort:   cfg.ReusePort,
		ChownUID:    -1,
		ChownGID:    -1,
	}

	if strings.HasPrefix(spec.Address, "/") {
		lc.Network = listener.NetworkUnix
		uid, gid, err := ParseChownSpec(cfg.ChownSocket)
		if err != nil {
			return listener.Config{}, err
		}
		lc.ChownUID, lc.ChownGID = uid, gid
	} else {
		lc.Network = listener.NetworkTCP
	}

	if spec.Cert != "" {
		tc, err := LoadTLS(spec.Cert, spec.Key, cfg.HTTPSH2)
		if err != nil {
			return listener.Config{}, err
		}
		lc.TLSConfig = tc
	}

	return lc, nil
}

// ParseAll parses every entry of raw (one of cfg's *Sockets slices)
// into SocketSpecs, stopping at the first malformed entry.
func ParseAll(raw []string) ([]SocketSpec, error) {
	specs := make([]SocketSpec, 0, len(raw))
	for _, r := range raw {
		s, err := ParseSocketSpec(r)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

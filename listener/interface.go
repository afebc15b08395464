// Package listener implements spec.md §4.2: binding a listening socket
// (backlog, SO_REUSEADDR and, when asked, SO_REUSEPORT set at creation),
// applying the configured TCP_NODELAY, SO_KEEPALIVE and buffer-size
// options to each accepted connection, and handing accepted connections off as
// transport.Stream values — either to a single in-process engine or,
// in balanced mode, round-robined across several.
//
// Binding happens with raw golang.org/x/sys/unix syscalls rather than
// Go's net package, mirroring the transport package's own raw-fd
// construction: a Listener's whole purpose is to produce fds that
// transport.NewTCP/NewTLS/NewUnix can wrap, and TLS wrapping already
// does its own os.NewFile/net.FileConn bridging at that boundary.
package listener

import (
	"crypto/tls"
	"net"

	"github.com/nabbar/gowsgi/transport"
)

// Network selects which address family and wire kind a Listener binds.
type Network int

const (
	NetworkTCP Network = iota
	NetworkUnix
)

// Config carries every socket-level knob spec.md §6's CLI flags expose
// for a single listening socket. TLSConfig is nil for plain TCP/Unix
// sockets; when set, every accepted connection is wrapped with
// transport.NewTLS instead of transport.NewTCP.
type Config struct {
	Network Network
	Address string // "host:port" for NetworkTCP, a filesystem path for NetworkUnix

	TLSConfig *tls.Config

	Backlog     int
	TCPNoDelay  bool
	SoKeepAlive bool
	SoSndBuf    int
	SoRcvBuf    int

	// ReusePort binds with SO_REUSEPORT (Linux only) so that several
	// independent Listener values, one per worker, can each accept
	// their own share of connections straight from the kernel instead
	// of funneling through a single balanced accept loop.
	ReusePort bool

	// ChownUID/ChownGID re-own a NetworkUnix socket file after bind,
	// -1 meaning "leave as created". Ignored for NetworkTCP.
	ChownUID int
	ChownGID int
}

// Listener is a single bound, listening socket. Accept blocks until a
// connection arrives (or the Listener is closed) and returns it already
// wrapped as the matching transport.Stream kind.
type Listener interface {
	// Accept blocks for the next incoming connection.
	Accept() (transport.Stream, error)

	// Addr is the bound local address, useful when Address was given
	// with an ephemeral port ("127.0.0.1:0").
	Addr() net.Addr

	// FD is the raw listening socket descriptor, exposed so a forking
	// master can pass it down to workers across a fork(2) boundary.
	FD() int

	Close() error
}

// New binds and starts listening per cfg. The socket is already
// listening when New returns; Accept only waits for connections.
func New(cfg Config) (Listener, error) {
	return newListener(cfg)
}

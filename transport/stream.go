// Package transport is the I/O-primitive layer: a capability set every
// connection rides on top of, independent of the protocol demultiplexed
// onto it. One implementation per kind of listening socket (TCP,
// TCP+TLS, UNIX-domain).
package transport

import (
	"net"
	"time"
)

// Kind identifies which concrete Stream implementation backs a connection.
type Kind int

const (
	KindTCP Kind = iota
	KindTLS
	KindUnix
)

// Stream is the capability set every transport exposes: non-blocking
// read/write, a raw fd for the engine's poller to arm, peer/local
// address, and the handful of socket options the listener applies at
// accept time. TLS negotiation is an explicit state queried through
// IsTLSNegotiated rather than a separate type in the hierarchy.
type Stream interface {
	// Read/Write behave like net.Conn; the underlying fd is always in
	// non-blocking mode, so callers must treat ErrWouldBlock (the TCP and
	// UNIX streams' mapping of EAGAIN, a net.Error with Timeout()==true)
	// as "try again once the engine reports readable/writable".
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error

	// FD returns the raw file descriptor for epoll registration.
	FD() int

	Kind() Kind
	PeerAddr() net.Addr
	LocalAddr() net.Addr

	// IsTLSNegotiated reports whether the TLS handshake (if any) has
	// completed. Always false for KindTCP/KindUnix.
	IsTLSNegotiated() bool

	// SetOption applies a listener-configured socket option; see
	// Option below. Unsupported options on a given Kind are no-ops.
	SetOption(opt Option, value int) error

	// SetDeadline mirrors net.Conn.SetDeadline. The engine does not call
	// it (idle connections are closed by its tick-based sweep); the TCP and
	// UNIX streams ignore it and the TLS stream passes it to its tls.Conn.
	SetDeadline(t time.Time) error
}

// Option enumerates the socket options the Listener can apply at
// creation time per spec.md §4.2/§6.
type Option int

const (
	OptTCPNoDelay Option = iota
	OptSoKeepAlive
	OptSoSndBuf
	OptSoRcvBuf
)

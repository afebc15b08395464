package transport

import (
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// unixStream wraps a raw, non-blocking accepted UNIX-domain socket. The
// same non-blocking-only-read-when-ready contract as tcpStream applies.
type unixStream struct {
	fd    int
	local net.Addr
	peer  net.Addr
}

// NewUnix wraps an already-accepted, non-blocking local-socket fd.
func NewUnix(fd int, local, peer net.Addr) Stream {
	return &unixStream{fd: fd, local: local, peer: peer}
}

func (s *unixStream) Read(b []byte) (int, error) {
	n, err := unix.Read(s.fd, b)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

func (s *unixStream) Write(b []byte) (int, error) {
	n, err := unix.Write(s.fd, b)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

func (s *unixStream) Close() error          { return unix.Close(s.fd) }
func (s *unixStream) FD() int               { return s.fd }
func (s *unixStream) Kind() Kind            { return KindUnix }
func (s *unixStream) PeerAddr() net.Addr    { return s.peer }
func (s *unixStream) LocalAddr() net.Addr   { return s.local }
func (s *unixStream) IsTLSNegotiated() bool { return false }

// SetOption is a no-op for local sockets: none of TCP_NODELAY,
// SO_KEEPALIVE, SO_SNDBUF, SO_RCVBUF apply meaningfully to AF_UNIX.
func (s *unixStream) SetOption(_ Option, _ int) error { return nil }

func (s *unixStream) SetDeadline(_ time.Time) error { return nil }

package transport

import (
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// tcpStream wraps a raw, non-blocking accepted socket. Read/Write are
// only ever called by the owning Engine after epoll has reported the fd
// readable/writable, so in practice they never block despite the fd
// being O_NONBLOCK.
type tcpStream struct {
	fd         int
	local      net.Addr
	peer       net.Addr
	noDelaySet bool
}

// NewTCP wraps an already-accepted, non-blocking fd as a Stream.
func NewTCP(fd int, local, peer net.Addr) Stream {
	return &tcpStream{fd: fd, local: local, peer: peer}
}

func (s *tcpStream) Read(b []byte) (int, error) {
	n, err := unix.Read(s.fd, b)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

func (s *tcpStream) Write(b []byte) (int, error) {
	n, err := unix.Write(s.fd, b)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

func (s *tcpStream) Close() error          { return unix.Close(s.fd) }
func (s *tcpStream) FD() int               { return s.fd }
func (s *tcpStream) Kind() Kind            { return KindTCP }
func (s *tcpStream) PeerAddr() net.Addr    { return s.peer }
func (s *tcpStream) LocalAddr() net.Addr   { return s.local }
func (s *tcpStream) IsTLSNegotiated() bool { return false }

func (s *tcpStream) SetOption(opt Option, value int) error {
	switch opt {
	case OptTCPNoDelay:
		s.noDelaySet = value != 0
		return unix.SetsockoptInt(s.fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, value)
	case OptSoKeepAlive:
		return unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, value)
	case OptSoSndBuf:
		return unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_SNDBUF, value)
	case OptSoRcvBuf:
		return unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_RCVBUF, value)
	}
	return nil
}

func (s *tcpStream) SetDeadline(_ time.Time) error {
	// Deadlines are a blocking-I/O concept; this transport is driven
	// entirely by the engine's readiness events and timer wheel instead.
	return nil
}

// mapErrno normalizes EAGAIN/EWOULDBLOCK into a single sentinel the
// engine checks for "no data right now, rearm and wait".
func mapErrno(err error) error {
	if err == unix.EAGAIN {
		return ErrWouldBlock
	}
	return err
}

// ErrWouldBlock is returned by Read/Write when the non-blocking fd has
// no data/buffer space available; the engine rearms interest and retries
// on the next readiness event rather than treating it as a hard error.
var ErrWouldBlock = &wouldBlockError{}

type wouldBlockError struct{}

func (*wouldBlockError) Error() string   { return "transport: operation would block" }
func (*wouldBlockError) Timeout() bool   { return true }
func (*wouldBlockError) Temporary() bool { return true }

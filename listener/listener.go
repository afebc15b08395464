package listener

import (
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/nabbar/gowsgi/transport"
)

type listener struct {
	cfg  Config
	fd   int
	addr net.Addr
	tls  bool
}

func newListener(cfg Config) (Listener, error) {
	switch cfg.Network {
	case NetworkUnix:
		return newUnixListener(cfg)
	default:
		return newTCPListener(cfg)
	}
}

func newTCPListener(cfg Config) (Listener, error) {
	ra, err := net.ResolveTCPAddr("tcp", cfg.Address)
	if err != nil {
		return nil, ErrorBindFailed.Error(err)
	}

	domain := unix.AF_INET
	if ra.IP == nil || ra.IP.To4() == nil {
		domain = unix.AF_INET6
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, ErrorBindFailed.Error(err)
	}

	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, ErrorBindFailed.Error(err)
	}

	if cfg.ReusePort {
		if err = setReusePort(fd); err != nil {
			_ = unix.Close(fd)
			return nil, err
		}
	}

	sa, err := tcpSockaddr(domain, ra)
	if err != nil {
		_ = unix.Close(fd)
		return nil, ErrorBindFailed.Error(err)
	}

	if err = unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, ErrorBindFailed.Error(err)
	}

	backlog := cfg.Backlog
	if backlog <= 0 {
		backlog = unix.SOMAXCONN
	}
	if err = unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, ErrorListenFailed.Error(err)
	}

	addr, err := boundTCPAddr(fd)
	if err != nil {
		_ = unix.Close(fd)
		return nil, ErrorBindFailed.Error(err)
	}

	return &listener{cfg: cfg, fd: fd, addr: addr, tls: cfg.TLSConfig != nil}, nil
}

func newUnixListener(cfg Config) (Listener, error) {
	_ = os.Remove(cfg.Address)

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, ErrorBindFailed.Error(err)
	}

	sa := &unix.SockaddrUnix{Name: cfg.Address}
	if err = unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, ErrorBindFailed.Error(err)
	}

	if cfg.ChownUID >= 0 || cfg.ChownGID >= 0 {
		uid, gid := cfg.ChownUID, cfg.ChownGID
		if uid < 0 {
			uid = os.Getuid()
		}
		if gid < 0 {
			gid = os.Getgid()
		}
		if err = os.Chown(cfg.Address, uid, gid); err != nil {
			_ = unix.Close(fd)
			return nil, ErrorChownFailed.Error(err)
		}
	}

	backlog := cfg.Backlog
	if backlog <= 0 {
		backlog = unix.SOMAXCONN
	}
	if err = unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, ErrorListenFailed.Error(err)
	}

	return &listener{cfg: cfg, fd: fd, addr: &net.UnixAddr{Name: cfg.Address, Net: "unix"}, tls: false}, nil
}

func (l *listener) Accept() (transport.Stream, error) {
	nfd, sa, err := unix.Accept4(l.fd, unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK)
	if err != nil {
		return nil, ErrorAcceptFailed.Error(err)
	}

	var stream transport.Stream
	switch l.cfg.Network {
	case NetworkUnix:
		stream = transport.NewUnix(nfd, l.addr, &net.UnixAddr{Net: "unix"})
	default:
		peer := sockaddrToTCPAddr(sa)
		if l.tls {
			stream, err = transport.NewTLS(nfd, l.cfg.TLSConfig)
			if err != nil {
				_ = unix.Close(nfd)
				return nil, err
			}
		} else {
			stream = transport.NewTCP(nfd, l.addr, peer)
		}
	}

	applyOptions(stream, l.cfg)
	return stream, nil
}

func applyOptions(s transport.Stream, cfg Config) {
	if cfg.Network != NetworkTCP {
		return
	}
	if cfg.TCPNoDelay {
		_ = s.SetOption(transport.OptTCPNoDelay, 1)
	}
	if cfg.SoKeepAlive {
		_ = s.SetOption(transport.OptSoKeepAlive, 1)
	}
	if cfg.SoSndBuf > 0 {
		_ = s.SetOption(transport.OptSoSndBuf, cfg.SoSndBuf)
	}
	if cfg.SoRcvBuf > 0 {
		_ = s.SetOption(transport.OptSoRcvBuf, cfg.SoRcvBuf)
	}
}

func (l *listener) Addr() net.Addr { return l.addr }
func (l *listener) FD() int        { return l.fd }
func (l *listener) Close() error {
	err := unix.Close(l.fd)
	if l.cfg.Network == NetworkUnix {
		_ = os.Remove(l.cfg.Address)
	}
	return err
}

func tcpSockaddr(domain int, a *net.TCPAddr) (unix.Sockaddr, error) {
	if domain == unix.AF_INET6 {
		sa := &unix.SockaddrInet6{Port: a.Port}
		if a.IP != nil {
			copy(sa.Addr[:], a.IP.To16())
		}
		return sa, nil
	}
	sa := &unix.SockaddrInet4{Port: a.Port}
	if a.IP != nil {
		copy(sa.Addr[:], a.IP.To4())
	}
	return sa, nil
}

func sockaddrToTCPAddr(sa unix.Sockaddr) *net.TCPAddr {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(s.Addr[:]), Port: s.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(s.Addr[:]), Port: s.Port}
	}
	return &net.TCPAddr{}
}

func boundTCPAddr(fd int) (*net.TCPAddr, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return nil, err
	}
	return sockaddrToTCPAddr(sa), nil
}

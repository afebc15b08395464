//go:build !linux

package engine

import (
	"time"

	"golang.org/x/sys/unix"
)

// pollPoller is the portable, non-epoll reactor backend used on anything
// other than Linux: a poll(2) wrapper via golang.org/x/sys/unix, rebuilt
// on every Wait from the currently-registered interest set. It exists so
// this module builds and runs on a developer's macOS/BSD workstation;
// the spec's performance properties (edge-triggered, O(ready) wakeups)
// are an epoll-specific guarantee that poll(2) cannot give, so this
// backend is never the one a production deployment should run under
// load - it is a development convenience only.
type pollPoller struct {
	interest map[int]*unix.PollFd
	order    []int
}

func newPoller() (poller, error) {
	return &pollPoller{interest: make(map[int]*unix.PollFd)}, nil
}

func (p *pollPoller) Add(fd int, readable, writable bool) error {
	if _, ok := p.interest[fd]; !ok {
		p.order = append(p.order, fd)
	}
	p.interest[fd] = &unix.PollFd{Fd: int32(fd), Events: eventsFor(readable, writable)}
	return nil
}

func (p *pollPoller) Modify(fd int, readable, writable bool) error {
	return p.Add(fd, readable, writable)
}

func (p *pollPoller) Remove(fd int) error {
	delete(p.interest, fd)
	for i, f := range p.order {
		if f == fd {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

func eventsFor(readable, writable bool) int16 {
	var ev int16
	if readable {
		ev |= unix.POLLIN
	}
	if writable {
		ev |= unix.POLLOUT
	}
	return ev
}

func (p *pollPoller) Wait(dst []readyEvent, timeout time.Duration) ([]readyEvent, error) {
	out := dst[:0]
	if len(p.order) == 0 {
		if timeout > 0 {
			time.Sleep(timeout)
		}
		return out, nil
	}

	fds := make([]unix.PollFd, len(p.order))
	for i, fd := range p.order {
		fds[i] = *p.interest[fd]
	}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return out, nil
		}
		return out, err
	}
	if n == 0 {
		return out, nil
	}

	for _, f := range fds {
		if f.Revents == 0 {
			continue
		}
		out = append(out, readyEvent{
			fd:       int(f.Fd),
			readable: f.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0,
			writable: f.Revents&(unix.POLLOUT|unix.POLLERR) != 0,
		})
	}
	return out, nil
}

func (p *pollPoller) Close() error {
	return nil
}

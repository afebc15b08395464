package engine

import "time"

// readyEvent reports which interests fired for one watched file
// descriptor after a Wait call returns.
type readyEvent struct {
	fd       int
	readable bool
	writable bool
}

// poller is the reactor backend Engine drives; poller_linux.go (epoll)
// and poller_other.go (portable fallback) each implement it.
type poller interface {
	// Add registers fd for the given interests.
	Add(fd int, readable, writable bool) error
	// Modify changes the interests already registered for fd.
	Modify(fd int, readable, writable bool) error
	// Remove drops fd from the interest set.
	Remove(fd int) error
	// Wait blocks up to timeout (or indefinitely if timeout < 0) and
	// appends every fd that became ready to dst, returning the result.
	Wait(dst []readyEvent, timeout time.Duration) ([]readyEvent, error)
	// Close releases the backend's own resources (epoll fd, etc).
	Close() error
}

//go:build linux

package listener

import "golang.org/x/sys/unix"

// setReusePort sets SO_REUSEPORT, letting several worker processes each
// bind their own listening socket on the same address/port and have the
// kernel load-balance accepted connections between them (spec.md §4.2's
// SO_REUSEPORT mode, as an alternative to a single balanced accept loop).
func setReusePort(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		return ErrorBindFailed.Error(err)
	}
	return nil
}

//go:build !linux

package listener

// setReusePort is unavailable outside Linux: it returns
// ErrorReusePortUnsupported, so New fails when ReusePort is set. Balanced
// mode (see balancer.go) is the alternative on these platforms.
func setReusePort(_ int) error {
	return ErrorReusePortUnsupported.Error()
}

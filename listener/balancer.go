package listener

import (
	"sync/atomic"

	"github.com/nabbar/gowsgi/transport"
)

// AssignFunc hands one accepted connection to a worker (typically an
// engine.Engine's Post+Register, called from outside this package so
// listener stays independent of the engine package).
type AssignFunc func(transport.Stream)

// Balancer implements spec.md §4.2's balanced mode: a single process
// accepts every connection and distributes them round-robin across a
// fixed set of workers, each identified by an AssignFunc. This is the
// alternative to SO_REUSEPORT mode, used on platforms or configurations
// where kernel-level distribution isn't available or isn't wanted.
type Balancer struct {
	targets []AssignFunc
	next    uint64
}

// NewBalancer builds a Balancer that round-robins across targets, in
// the order given.
func NewBalancer(targets ...AssignFunc) *Balancer {
	return &Balancer{targets: targets}
}

// Dispatch hands s to the next target in rotation. Safe for concurrent
// use by multiple Listener accept loops feeding the same Balancer.
func (b *Balancer) Dispatch(s transport.Stream) {
	if len(b.targets) == 0 {
		_ = s.Close()
		return
	}
	i := atomic.AddUint64(&b.next, 1) - 1
	b.targets[i%uint64(len(b.targets))](s)
}

// Run accepts connections from l until it returns an error (typically
// because l was closed), dispatching each one to b. Intended to run in
// its own goroutine, one per bound Listener, feeding a shared Balancer
// in balanced mode.
func (b *Balancer) Run(l Listener) error {
	for {
		s, err := l.Accept()
		if err != nil {
			return err
		}
		b.Dispatch(s)
	}
}

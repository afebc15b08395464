// Package engine implements spec.md §4.1's event loop: one reactor per
// worker thread multiplexing file descriptor readiness, timers, and a
// cross-thread wake signal onto a single goroutine. Handlers registered
// with Watch/AfterFunc/Every run to completion on that goroutine and must
// never block, mirroring the teacher's single-threaded dispatcher idiom.
package engine

import (
	"time"

	"github.com/nabbar/gowsgi/logger"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/socket"
)

// Callback is invoked on the Engine's loop goroutine when a Watch'd file
// descriptor becomes ready for the interests it was armed with.
type Callback func(fd int, readable, writable bool)

// Config carries the parameters New needs to build an Engine.
type Config struct {
	// IdleTimeout closes a registered Socket that has had no in-flight
	// request and no Process call since the previous sweep. Zero uses
	// the spec's documented default of 4 seconds.
	IdleTimeout time.Duration
	Log         logger.FuncLog
}

// Engine is the per-worker-thread reactor. A process that runs several
// worker threads (spec.md §5) owns one independent Engine per thread;
// engines share no mutable state.
type Engine interface {
	// Watch arms fd for readable/writable interest; cb fires on the loop
	// goroutine whenever the armed interest is observed. Calling Watch
	// again for an already-armed fd replaces its interest set and
	// callback.
	Watch(fd int, readable, writable bool, cb Callback) error
	// Unwatch removes fd from the interest set. Safe to call from the
	// loop goroutine only (see Post for cross-thread removal).
	Unwatch(fd int) error

	// AfterFunc schedules fn to run once after d, classified per class.
	AfterFunc(d time.Duration, class Class, fn TimerFunc) *Timer
	// Every schedules fn to run repeatedly every d, classified per class.
	Every(d time.Duration, class Class, fn TimerFunc) *Timer

	// Register adopts an already-accepted Socket: its Stream's fd is
	// Watch'd for readable events, which drive Socket.Process with
	// handler. The returned id is stable for the Socket's lifetime and
	// keys the Engine's connection registry (a libctx.Registry[uint64]
	// slot-map, not a raw pointer, per the ownership design this Engine
	// implements). Register must be called from the loop goroutine;
	// use Post to hand off an accept from another thread.
	Register(sock *socket.Socket, handler request.Handler) (id uint64, err error)
	// Unregister tears down a connection previously returned by
	// Register: it stops watching its fd, closes it, and drops it from
	// the registry.
	Unregister(id uint64)

	// Post queues fn to run on the loop goroutine and wakes the loop so
	// it runs promptly; this is the only safe way for another thread
	// (e.g. a Listener's accept goroutine) to touch an Engine.
	Post(fn func())
	// Wake interrupts a blocked Wait so posted work and newly-due
	// timers are observed without waiting out the current timeout.
	// Safe to call from any goroutine.
	Wake() error
	// Stop asks Run to return once its current iteration completes.
	// Safe to call from any goroutine.
	Stop()

	// Run drives the loop until Stop is called or an unrecoverable
	// poller error occurs. It blocks the calling goroutine; callers
	// typically run it via `go engine.Run()` on a dedicated goroutine
	// per worker thread.
	Run() error

	// Date returns the cached "Mon, 02 Jan 2006 15:04:05 GMT" Date
	// header value, refreshed at most once per second (spec.md §4.1).
	// Valid only when called from the loop goroutine.
	Date() string
}

// New builds an Engine. The returned Engine does not start running until
// Run is called.
func New(cfg Config) (Engine, error) {
	return newEngine(cfg)
}

package engine

import (
	"container/heap"
	"os"
	"sync"
	"time"

	libctx "github.com/nabbar/gowsgi/context"
	"github.com/nabbar/gowsgi/logger"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/socket"
)

const defaultIdleTimeout = 4 * time.Second

// watchEntry is the engine-thread-only bookkeeping Watch/Unwatch keeps
// per armed file descriptor; it never crosses a goroutine boundary.
type watchEntry struct {
	readable bool
	writable bool
	cb       Callback
}

// connEntry is what Register stores under a connection's id in the
// libctx.Registry[uint64] slot-map: the Socket plus the handler it
// dispatches to, so the idle sweep and Unregister need no back-pointer
// from the Socket itself (spec's re-architected ownership: ids, not
// cyclic pointers).
type connEntry struct {
	sock    *socket.Socket
	handler request.Handler
}

type engine struct {
	p   poller
	log logger.FuncLog

	idleTimeout time.Duration
	tick        uint64

	watches map[int]*watchEntry

	timers      timerHeap
	nextTimerID uint64

	conns      libctx.Registry[uint64]
	nextConnID uint64

	postMu sync.Mutex
	postQ  []func()

	wakeR *os.File
	wakeW *os.File

	stopped bool
	dc      dateCache
}

func newEngine(cfg Config) (*engine, error) {
	p, err := newPoller()
	if err != nil {
		return nil, err
	}

	r, w, err := os.Pipe()
	if err != nil {
		_ = p.Close()
		return nil, ErrorPollerInit.Error(err)
	}

	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}

	e := &engine{
		p:           p,
		log:         cfg.Log,
		idleTimeout: idle,
		watches:     make(map[int]*watchEntry),
		conns:       libctx.New[uint64](nil),
		wakeR:       r,
		wakeW:       w,
	}
	heap.Init(&e.timers)

	if err := e.p.Add(int(r.Fd()), true, false); err != nil {
		_ = p.Close()
		_ = r.Close()
		_ = w.Close()
		return nil, ErrorWatchFailed.Error(err)
	}

	e.Every(e.idleTimeout, ClassCoarse, e.sweepIdle)

	return e, nil
}

func (e *engine) logger() logger.Logger {
	if e.log == nil {
		return nil
	}
	return e.log()
}

// Watch arms fd for readable/writable interest.
func (e *engine) Watch(fd int, readable, writable bool, cb Callback) error {
	entry := &watchEntry{readable: readable, writable: writable, cb: cb}
	_, existed := e.watches[fd]
	e.watches[fd] = entry

	if existed {
		return e.p.Modify(fd, readable, writable)
	}
	if err := e.p.Add(fd, readable, writable); err != nil {
		delete(e.watches, fd)
		return ErrorWatchFailed.Error(err)
	}
	return nil
}

func (e *engine) Unwatch(fd int) error {
	if _, ok := e.watches[fd]; !ok {
		return nil
	}
	delete(e.watches, fd)
	return e.p.Remove(fd)
}

func (e *engine) AfterFunc(d time.Duration, class Class, fn TimerFunc) *Timer {
	return e.schedule(d, class, false, fn)
}

func (e *engine) Every(d time.Duration, class Class, fn TimerFunc) *Timer {
	return e.schedule(d, class, true, fn)
}

func (e *engine) schedule(d time.Duration, class Class, periodic bool, fn TimerFunc) *Timer {
	e.nextTimerID++
	t := &Timer{
		id:       e.nextTimerID,
		class:    resolve(class, d),
		interval: d,
		periodic: periodic,
		fn:       fn,
		when:     time.Now().Add(d),
	}
	heap.Push(&e.timers, t)
	return t
}

func (e *engine) Register(sock *socket.Socket, handler request.Handler) (uint64, error) {
	e.nextConnID++
	id := e.nextConnID

	sock.IdleTimeoutTick = e.tick + 2
	e.conns.Store(id, &connEntry{sock: sock, handler: handler})

	fd := sock.Stream.FD()
	err := e.Watch(fd, true, false, func(_ int, readable, writable bool) {
		e.onConnReady(id, readable, writable)
	})
	if err != nil {
		e.conns.Delete(id)
		return 0, err
	}
	return id, nil
}

func (e *engine) Unregister(id uint64) {
	v, ok := e.conns.Load(id)
	if !ok {
		return
	}
	ce, _ := v.(*connEntry)
	e.conns.Delete(id)

	if ce == nil {
		return
	}
	_ = e.Unwatch(ce.sock.Stream.FD())
	_ = ce.sock.Close()
}

// onConnReady drives one readiness notification on a registered
// connection to completion, tearing it down once Process reports the
// peer wants it closed or an upgrade could not be applied.
func (e *engine) onConnReady(id uint64, _ bool, _ bool) {
	v, ok := e.conns.Load(id)
	if !ok {
		return
	}
	ce := v.(*connEntry)

	keepOpen, err := ce.sock.Process(ce.handler)
	if err != nil {
		if l := e.logger(); l != nil {
			l.Warning("engine: connection processing failed", err)
		}
		e.Unregister(id)
		return
	}
	if !keepOpen {
		e.Unregister(id)
		return
	}
	ce.sock.IdleTimeoutTick = e.tick + 2
}

// sweepIdle is the periodic coarse timer spec.md §4.1 calls for: any
// registered connection that hasn't been touched since before the
// previous sweep is closed.
func (e *engine) sweepIdle() {
	e.tick++
	tick := e.tick

	var stale []uint64
	e.conns.Walk(func(key uint64, val interface{}) bool {
		ce, _ := val.(*connEntry)
		if ce == nil {
			return true
		}
		if ce.sock.InFlight() == 0 && ce.sock.IdleTimeoutTick <= tick {
			stale = append(stale, key)
		}
		return true
	})

	for _, id := range stale {
		e.Unregister(id)
	}
}

func (e *engine) Post(fn func()) {
	e.postMu.Lock()
	e.postQ = append(e.postQ, fn)
	e.postMu.Unlock()
	_ = e.Wake()
}

func (e *engine) drainPosted() {
	e.postMu.Lock()
	q := e.postQ
	e.postQ = nil
	e.postMu.Unlock()

	for _, fn := range q {
		fn()
	}
}

func (e *engine) Wake() error {
	_, err := e.wakeW.Write([]byte{0})
	if err != nil {
		return ErrorWakeFailed.Error(err)
	}
	return nil
}

func (e *engine) Stop() {
	e.stopped = true
	_ = e.Wake()
}

func (e *engine) Date() string {
	return e.dc.Get(time.Now())
}

// Run drives the reactor until Stop is called. It owns the engine-thread
// affinity the spec requires: every Watch/AfterFunc/Register/Unregister
// call a handler makes from inside a callback runs synchronously here,
// on the same goroutine, never re-entering the poller mid-dispatch.
func (e *engine) Run() error {
	wakeFd := int(e.wakeR.Fd())
	drain := make([]byte, 64)
	events := make([]readyEvent, 0, 128)

	for !e.stopped {
		timeout := e.nextTimeout()

		var err error
		events, err = e.p.Wait(events, timeout)
		if err != nil {
			return err
		}

		for _, ev := range events {
			if ev.fd == wakeFd {
				_, _ = e.wakeR.Read(drain)
				continue
			}
			w, ok := e.watches[ev.fd]
			if !ok || w.cb == nil {
				continue
			}
			w.cb(ev.fd, ev.readable && w.readable, ev.writable && w.writable)
		}

		e.drainPosted()
		e.runDueTimers()
	}

	return e.p.Close()
}

// nextTimeout reports how long Wait may block: until the earliest
// pending timer is due, or indefinitely (-1) if there are none.
func (e *engine) nextTimeout() time.Duration {
	if len(e.timers) == 0 {
		return -1
	}
	d := time.Until(e.timers[0].when)
	if d < 0 {
		return 0
	}
	return d
}

func (e *engine) runDueTimers() {
	now := time.Now()
	for len(e.timers) > 0 && !e.timers[0].when.After(now) {
		t := heap.Pop(&e.timers).(*Timer)
		if t.canceled {
			continue
		}
		t.fn()
		if t.periodic && !t.canceled {
			scheduleNext(t, time.Now())
			heap.Push(&e.timers, t)
		}
	}
}

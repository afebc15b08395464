// Package socket implements spec.md §3's "Connection" abstraction: one
// accepted transport.Stream paired with whichever protocol.Protocol is
// currently demultiplexing it. A Socket never owns more than one Protocol
// at a time, but the pair may be swapped in place when Parse reports an
// upgrade (HTTP/1.1 -> HTTP/2 via h2c, or HTTP/1.1 -> WebSocket), which is
// the one piece of lifecycle this package exists to coordinate: the
// protocol packages themselves know nothing about each other.
package socket

import (
	"github.com/nabbar/gowsgi/atomic"
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/protocol/http1"
	"github.com/nabbar/gowsgi/protocol/http2"
	"github.com/nabbar/gowsgi/protocol/websocket"
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// Config carries the per-connection parameters a Socket needs when it
// builds or swaps its ProtoState, independent of which protocol currently
// owns the connection.
type Config struct {
	BufferSize       int
	H2CEnabled       bool
	WebSocketMaxSize int64
}

// Socket is one logical connection (spec.md §3): it owns the transport,
// the current Protocol pointer (swappable on upgrade), the matching
// ProtoState, an in-flight request counter, and the handful of flags the
// owning Engine consults to decide when the connection is idle or ready
// to tear down.
type Socket struct {
	Stream transport.Stream

	cfg Config

	proto protocol.Protocol
	state protocol.ProtoState

	inFlight atomic.Value[int32]

	// IdleTimeoutTick is the engine timer tick at or after which this
	// connection should be closed for inactivity. The owning Engine
	// refreshes it after every call to Process that leaves the
	// connection open and compares it against its own clock on each
	// coarse-timer sweep (spec.md §4.1).
	IdleTimeoutTick uint64

	// WantsCloseAfterResponse mirrors the wire protocol's own close
	// intent (HTTP/1.1 Connection: close, HTTP/2 GOAWAY, WebSocket
	// Close) for the Engine's benefit: once it is true and InFlight()
	// reaches 0, the connection is torn down instead of kept open for
	// further reads (spec.md §3 invariant).
	WantsCloseAfterResponse bool
}

// New builds a Socket around an already-accepted Stream and the Protocol
// that demultiplexes its first bytes. Every freshly accepted connection
// starts on the protocol its owning Listener is configured for: HTTP/1.1,
// FastCGI, or HTTP/2 on an --http2-socket listener; WebSocket is only
// ever reached by upgrade (spec.md §4.2/§4.3).
func New(stream transport.Stream, proto protocol.Protocol, cfg Config) *Socket {
	s := &Socket{
		Stream:   stream,
		cfg:      cfg,
		proto:    proto,
		inFlight: atomic.NewValue[int32](),
	}
	s.state = proto.NewState(cfg.BufferSize)
	return s
}

// Kind reports which wire protocol currently owns this connection.
func (s *Socket) Kind() protocol.Kind { return s.proto.Kind() }

// InFlight is the number of requests currently being processed on this
// connection. spec.md §3's invariant: a Socket is deleted only once this
// reaches 0 and the transport has no pending write.
func (s *Socket) InFlight() int32 { return s.inFlight.Load() }

// Close releases the underlying transport. The owning Engine calls this
// once InFlight() == 0 and either WantsCloseAfterResponse is set or
// Process has reported the connection should close.
func (s *Socket) Close() error { return s.Stream.Close() }

// Process drives one readiness notification to completion: it repeatedly
// calls the active Protocol's Parse, applying any in-place protocol swap
// immediately (protocol.OutcomeUpgrade's contract requires any bytes
// already buffered under the old ProtoState to reach the new one before
// the caller's next readable event, since nothing guarantees the peer
// sends more bytes to trigger it), and reports whether the connection
// should remain open. err is non-nil only when an upgrade could not be
// applied; a plain protocol-driven close (OutcomeCloseConn) is not an
// error, it is the protocol doing its job.
func (s *Socket) Process(handler request.Handler) (keepOpen bool, err error) {
	h := &countingHandler{Handler: handler, inFlight: s.inFlight}

	for {
		out := s.proto.Parse(s.state, s.Stream, h)
		switch out {
		case protocol.OutcomeCloseConn:
			return false, nil
		case protocol.OutcomeUpgrade:
			if !s.applyUpgrade(h) {
				return false, ErrorUnsupportedUpgrade.Error()
			}
			continue
		default:
			return true, nil
		}
	}
}

// applyUpgrade installs the Protocol/ProtoState the just-returned
// OutcomeUpgrade calls for, carrying over any bytes the old state had
// already buffered but not yet consumed. Only protocol/http1 ever
// produces OutcomeUpgrade in this server.
func (s *Socket) applyUpgrade(handler request.Handler) bool {
	old, ok := s.state.(*http1.State)
	if !ok {
		return false
	}
	leftover := append([]byte(nil), old.Leftover()...)

	switch {
	case old.IsUpgradeToWebSocket():
		req := old.PendingRequest()
		proto := &websocket.Protocol{Cfg: websocket.Config{MaxMessageSize: s.cfg.WebSocketMaxSize}}
		st, _ := proto.NewState(s.cfg.BufferSize).(*websocket.State)
		st.AdoptHandshake(req)
		carryLeftover(st.Base(), leftover)
		s.proto, s.state = proto, st
		return true

	case old.IsUpgradeToH2C():
		req := old.PendingRequest()
		proto := &http2.Protocol2{Cfg: http2.Config{BufferSize: s.cfg.BufferSize, UpgradeH2C: s.cfg.H2CEnabled}}
		st, _ := proto.NewState(s.cfg.BufferSize).(*http2.State)
		st.AdoptStream1(s.Stream, req, handler)
		carryLeftover(st.Base(), leftover)
		s.proto, s.state = proto, st
		return true
	}
	return false
}

// carryLeftover copies bytes the previous ProtoState had already read off
// the wire into the freshly installed one's buffer, preserving framing
// across the swap.
func carryLeftover(common *protocol.Common, leftover []byte) {
	n := copy(common.Buf, leftover)
	common.BufLen = n
}

// countingHandler wraps the application Handler to maintain Socket's
// in-flight counter around ProcessRequest, and forwards the optional
// request.WebSocketCallbacks methods to the wrapped Handler when it
// implements them. protocol/websocket type-asserts the Handler it is
// given against request.WebSocketCallbacks, so this wrapper must satisfy
// that interface unconditionally even when the application Handler does
// not.
type countingHandler struct {
	request.Handler
	inFlight atomic.Value[int32]
}

func (h *countingHandler) ProcessRequest(req *request.Request, sink request.ResponseSink) error {
	h.inFlight.Store(h.inFlight.Load() + 1)
	defer h.inFlight.Store(h.inFlight.Load() - 1)
	return h.Handler.ProcessRequest(req, sink)
}

func (h *countingHandler) TextFrame(req *request.Request, data []byte, fin bool) {
	if cb, ok := h.Handler.(request.WebSocketCallbacks); ok {
		cb.TextFrame(req, data, fin)
	}
}

func (h *countingHandler) BinaryFrame(req *request.Request, data []byte, fin bool) {
	if cb, ok := h.Handler.(request.WebSocketCallbacks); ok {
		cb.BinaryFrame(req, data, fin)
	}
}

func (h *countingHandler) TextMessage(req *request.Request, text string) {
	if cb, ok := h.Handler.(request.WebSocketCallbacks); ok {
		cb.TextMessage(req, text)
	}
}

func (h *countingHandler) BinaryMessage(req *request.Request, data []byte) {
	if cb, ok := h.Handler.(request.WebSocketCallbacks); ok {
		cb.BinaryMessage(req, data)
	}
}

func (h *countingHandler) Ping(req *request.Request, data []byte) {
	if cb, ok := h.Handler.(request.WebSocketCallbacks); ok {
		cb.Ping(req, data)
	}
}

func (h *countingHandler) Pong(req *request.Request, data []byte) {
	if cb, ok := h.Handler.(request.WebSocketCallbacks); ok {
		cb.Pong(req, data)
	}
}

func (h *countingHandler) Closed(req *request.Request, code int, reason string) {
	if cb, ok := h.Handler.(request.WebSocketCallbacks); ok {
		cb.Closed(req, code, reason)
	}
}

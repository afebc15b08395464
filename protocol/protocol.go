// Package protocol defines the closed set of wire codecs this server
// demultiplexes connections onto, and the per-connection state each one
// drives. There are exactly four: HTTP/1.1, HTTP/2, FastCGI/1,
// WebSocket; DESIGN NOTES call this a closed set better modeled as a
// tagged enum with per-variant methods than an open virtual hierarchy,
// so Kind below is the tag and Protocol is the per-variant method set.
package protocol

import (
	"github.com/nabbar/gowsgi/request"
	"github.com/nabbar/gowsgi/transport"
)

// Kind tags which wire codec a ProtoState belongs to.
type Kind int

const (
	KindHTTP1 Kind = iota
	KindHTTP2
	KindFastCGI
	KindWebSocket
)

func (k Kind) String() string {
	switch k {
	case KindHTTP1:
		return "http/1.1"
	case KindHTTP2:
		return "h2"
	case KindFastCGI:
		return "fastcgi/1"
	case KindWebSocket:
		return "websocket"
	}
	return "unknown"
}

// ProtoState is the tagged-union per-connection state every protocol
// variant embeds Common into. Protocol.Parse type-asserts the State it
// receives back to its own concrete state type.
type ProtoState interface {
	Kind() Kind
	Base() *Common
}

// Common is the state shared by every protocol variant per spec.md §3:
// a fixed parse buffer, the live length within it, whether this
// connection intends to close after the current exchange, and which
// X-Forwarded-* fields have already been absorbed (so a protocol does
// not apply them twice across pipelined requests).
type Common struct {
	Buf     []byte
	BufLen  int
	Close   bool
	ForwardedAbsorbed bool
}

// NewCommon allocates a Common with a fixed-size parse buffer.
func NewCommon(bufferSize int) Common {
	return Common{Buf: make([]byte, bufferSize)}
}

// Outcome is what a Protocol.Parse call reports back to the owning
// Socket after consuming readable bytes.
type Outcome int

const (
	// OutcomeNeedMore: buffer fully consumed, no complete unit parsed
	// yet; keep the connection open and wait for more bytes.
	OutcomeNeedMore Outcome = iota
	// OutcomeDispatched: one or more complete units were parsed and
	// dispatched to the application handler.
	OutcomeDispatched
	// OutcomeUpgrade: the connection's Protocol/ProtoState were swapped
	// in place (h2c or WebSocket); the Socket must re-enter Parse with
	// the new Protocol before processing any remaining buffered bytes.
	OutcomeUpgrade
	// OutcomeCloseConn: a fatal framing/protocol error occurred; the
	// Socket must tear down the connection (after flushing any
	// already-queued error response, e.g. HTTP/2 GOAWAY).
	OutcomeCloseConn
)

// Protocol is the per-variant method set DESIGN NOTES says to keep as
// virtual dispatch: each of the four wire codecs implements it once.
// Parse is handed only the bytes newly made readable; it appends them
// into state's buffer itself (or reads directly off stream), consumes
// as many complete units as the buffer contains, and returns when it
// runs out of complete units or hits a terminal condition.
type Protocol interface {
	Kind() Kind

	// NewState allocates the per-connection state variant for this
	// protocol, with a parse buffer of bufferSize bytes.
	NewState(bufferSize int) ProtoState

	// Parse is invoked by the Socket whenever its Stream reports
	// readable. handler dispatches any fully-parsed request; each
	// request is handed a request.ResponseSink bound to it by the
	// concrete protocol implementation.
	Parse(st ProtoState, stream transport.Stream, handler request.Handler) Outcome
}

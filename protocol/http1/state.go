// Package http1 implements the HTTP/1.1 wire codec: a line-oriented
// parser state machine, keep-alive/pipelining, the h2c and WebSocket
// upgrade paths, and the response writer.
package http1

import (
	"time"

	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
)

// Phase is the parser's position within one request, per spec.md §4.3:
// MethodLine -> HeaderLine -> (ContentBody) -> dispatch -> MethodLine.
type Phase int

const (
	PhaseMethodLine Phase = iota
	PhaseHeaderLine
	PhaseContentBody
)

// WSPhase is declared for symmetry with the source's single ProtoState
// variant per protocol; nothing in this package uses it. The WebSocket
// wire codec lives in protocol/websocket and takes over via Socket's
// protocol swap once the handshake response has been written.
type WSPhase int

// Config is the subset of server configuration the HTTP/1.1 parser
// consults; Engine/Listener construct one per listening socket from the
// global config.Config.
type Config struct {
	BufferSize        int
	PostBuffering      int64
	UsingFrontendProxy bool
	UpgradeH2C         bool
}

// State is the HTTP/1.1 ProtoState variant.
type State struct {
	protocol.Common

	cfg Config

	phase Phase

	// beginLine/last mark the parser's scan position within Buf for the
	// line currently being accumulated.
	beginLine int
	last      int

	start time.Time

	req *request.Request

	// bodyRemaining counts down remaining undelivered body bytes while
	// in PhaseContentBody; bodyMem accumulates them in memory, or bodyFile
	// once spilled to a temp file (see body.go).
	bodyRemaining int64
	bodyMem       []byte
	bodyFile      *bodySpill

	wantsClose bool

	// upgradeTo is set by sink.WebsocketHandshake or the h2c upgrade
	// path once the 101 response has been written; Parse's caller
	// (Socket) reads it after an OutcomeUpgrade return to know which
	// Protocol to install next.
	upgradeTo upgradeKind
}

type upgradeKind int

const (
	upgradeNone upgradeKind = iota
	upgradeWebSocket
	upgradeH2C
)

func (s *State) Kind() protocol.Kind    { return protocol.KindHTTP1 }
func (s *State) Base() *protocol.Common { return &s.Common }

// NewState allocates fresh HTTP/1.1 state with a parse buffer of
// bufferSize bytes, per protocol.Protocol.NewState.
func NewState(cfg Config) *State {
	return &State{
		Common: protocol.NewCommon(cfg.BufferSize),
		cfg:    cfg,
		phase:  PhaseMethodLine,
	}
}

// Leftover returns the bytes already read into this connection's buffer
// but not yet consumed by Parse at the point an OutcomeUpgrade is
// returned (a pipelined request start, a WebSocket frame, or the HTTP/2
// connection preface arriving in the same read as the upgrade request).
// The owning Socket carries these into the newly installed ProtoState's
// buffer before re-entering Parse.
func (s *State) Leftover() []byte { return s.Buf[s.last:s.BufLen] }

func (s *State) resetForNextRequest() {
	s.phase = PhaseMethodLine
	s.req = nil
	s.bodyRemaining = 0
	s.bodyMem = nil
	s.bodyFile = nil
}

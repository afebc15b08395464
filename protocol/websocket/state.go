package websocket

import (
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
)

// Config holds the parameters a connection upgraded into this protocol.
type Config struct {
	BufferSize int

	// MaxMessageSize is the largest reassembled message (text or
	// binary) this connection accepts, in bytes; spec.md §6's
	// --websocket-max-size is given in KiB and converted by the caller.
	MaxMessageSize int64
}

// State is the WebSocket ProtoState. A connection only ever reaches it
// via an HTTP/1.1 upgrade (spec.md §4.3); NewState allocates bare state
// with no adopted request, and the owning Socket calls AdoptHandshake
// immediately after installing it.
type State struct {
	protocol.Common

	cfg Config

	// req is the original upgrade request, retained so WebSocketCallbacks
	// invocations always carry the same *request.Request identity the
	// handler first saw in ProcessRequest.
	req *request.Request

	// fragmentation / reassembly state for the in-progress message, if
	// any; msgOpcode is opText or opBinary once fragmented is true.
	fragmented bool
	msgOpcode  opcode
	msgBuf     []byte
	msgUTF8    utf8Validator

	closed bool
}

func (s *State) Kind() protocol.Kind    { return protocol.KindWebSocket }
func (s *State) Base() *protocol.Common { return &s.Common }

// NewState allocates WebSocket ProtoState with a parse buffer of
// bufferSize bytes.
func NewState(cfg Config) *State {
	cfg.BufferSize = maxInt(cfg.BufferSize, 14)
	return &State{
		Common: protocol.NewCommon(cfg.BufferSize),
		cfg:    cfg,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// AdoptHandshake binds the request that performed the upgrade, so
// subsequent frame/message callbacks are delivered against it.
func (s *State) AdoptHandshake(req *request.Request) {
	s.req = req
}

func (s *State) resetMessage() {
	s.fragmented = false
	s.msgOpcode = 0
	s.msgBuf = nil
	s.msgUTF8 = utf8Validator{}
}

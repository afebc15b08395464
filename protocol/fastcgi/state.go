package fastcgi

import (
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/request"
)

// Config holds the parameters a Protocol was built with.
type Config struct {
	BufferSize int
}

// State is the protocol.ProtoState for a FastCGI connection. Unlike
// HTTP/1.1 and HTTP/2, a single FastCGI connection from a front-end web
// server typically carries one request id at a time in this server's
// Responder-only role. The wire format itself is multiplexed by request
// id, but State tracks one request at a time: id is the request id of
// the most recent record, and a new BEGIN_REQUEST resets the rest.
type State struct {
	protocol.Common

	cfg Config

	id        uint16
	keepConn  bool
	haveBegin bool

	paramsDone bool

	req      *request.Request
	bodyDone bool
	bodyBuf  []byte
}

func (s *State) Kind() protocol.Kind    { return protocol.KindFastCGI }
func (s *State) Base() *protocol.Common { return &s.Common }

func NewState(cfg Config) *State {
	return &State{
		Common: protocol.NewCommon(cfg.BufferSize),
		cfg:    cfg,
	}
}

func (s *State) reset() {
	s.haveBegin = false
	s.paramsDone = false
	s.req = nil
	s.bodyDone = false
	s.bodyBuf = nil
}

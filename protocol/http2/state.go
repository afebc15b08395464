package http2

import (
	"github.com/nabbar/gowsgi/protocol"
	"github.com/nabbar/gowsgi/protocol/http2/hpack"
)

// phase tracks whether the connection preface has been consumed yet.
type phase int

const (
	phasePreface phase = iota
	phaseFrames
)

// Config holds the connection-independent parameters a Protocol2 was
// built with; each connection gets its own State derived from it.
type Config struct {
	BufferSize int
	UpgradeH2C bool
}

// State is the protocol.ProtoState for an HTTP/2 connection: it holds
// everything that must survive across Parse calls for the life of the
// connection (spec.md §3's "HTTP/2 state" description).
type State struct {
	protocol.Common

	cfg   Config
	ph    phase
	sawGoAway bool

	localSettings  Settings
	remoteSettings Settings
	settingsAcked  bool

	connSendWindow flowWindow
	connRecvWindow flowWindow

	decoder *hpack.Decoder
	encoder *hpack.Encoder

	maxStreamID  uint32 // highest stream id seen from the client
	streams      map[uint32]*Stream
	continuingOn uint32 // nonzero while a HEADERS block awaits CONTINUATION

	preludeDone bool // this side's own preface SETTINGS frame sent
}

func (s *State) Kind() protocol.Kind    { return protocol.KindHTTP2 }
func (s *State) Base() *protocol.Common { return &s.Common }

// NewState builds the State for a freshly accepted (or upgraded) HTTP/2
// connection.
func NewState(cfg Config) *State {
	local := DefaultSettings(cfg.BufferSize)
	return &State{
		Common:         protocol.NewCommon(cfg.BufferSize),
		cfg:            cfg,
		ph:             phasePreface,
		localSettings:  local,
		remoteSettings: DefaultSettings(cfg.BufferSize),
		connSendWindow: newFlowWindow(defaultWindowSize),
		connRecvWindow: newFlowWindow(defaultWindowSize),
		decoder:        hpack.NewDecoder(int(local.HeaderTableSize)),
		encoder:        hpack.NewEncoder(4096),
		streams:        make(map[uint32]*Stream),
	}
}

func (s *State) getOrCreateStream(id uint32) *Stream {
	if st, ok := s.streams[id]; ok {
		return st
	}
	st := newStream(id, s.remoteSettings.InitialWindowSize)
	s.streams[id] = st
	if id > s.maxStreamID {
		s.maxStreamID = id
	}
	return st
}

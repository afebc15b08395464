package http2

import "github.com/nabbar/gowsgi/request"

// StreamState is a node's position in the per-stream lifecycle of
// spec.md §3: Idle -> Open -> HalfClosed -> Closed. This server never
// originates streams, so the push-related states of RFC 7540 §5.1 do not
// appear here.
type StreamState int

const (
	StreamIdle StreamState = iota
	StreamOpen
	StreamHalfClosed
	StreamClosed
)

// Stream is one logical request/response inside an HTTP/2 connection,
// identified by an odd, client-assigned id.
type Stream struct {
	ID    uint32
	State StreamState

	SendWindow flowWindow
	RecvWindow flowWindow

	Request       *request.Request
	headerBlock   []byte // accumulating across CONTINUATION frames
	headersDone   bool
	expectContLen int64 // from content-length pseudo-header, -1 if absent
	bodyReceived  int64
	bodyBuf       []byte

	trailersMode     bool
	headersEndStream bool // END_STREAM flag carried by the initiating HEADERS frame
	pendingHandler   request.Handler

	blocked *blockedWriter

	pendingBody []byte // buffered response bytes not yet fit under the send window
	pendingEnd  bool   // Finish() was called; last flushed DATA frame carries END_STREAM
	headersSent bool
}

func newStream(id uint32, initialWindow uint32) *Stream {
	return &Stream{
		ID:            id,
		State:         StreamIdle,
		SendWindow:    newFlowWindow(initialWindow),
		RecvWindow:    newFlowWindow(defaultWindowSize),
		expectContLen: -1,
	}
}

func (s *Stream) open() {
	if s.State == StreamIdle {
		s.State = StreamOpen
	}
}

// halfCloseRemote is applied when END_STREAM arrives from the client: the
// request is complete but the response may still be written.
func (s *Stream) halfCloseRemote() {
	if s.State == StreamOpen {
		s.State = StreamHalfClosed
	}
}

func (s *Stream) close() {
	s.State = StreamClosed
	s.blocked = nil
}

func (s *Stream) isClosed() bool { return s.State == StreamClosed }

// park records a writer that could not fit its next chunk under the
// current send window; resumeBlocked calls it back once WINDOW_UPDATE
// frees enough room.
func (s *Stream) park(resume func()) {
	s.blocked = &blockedWriter{resume: resume}
}

func (s *Stream) resumeBlocked() {
	if s.blocked == nil {
		return
	}
	w := s.blocked
	s.blocked = nil
	w.resume()
}

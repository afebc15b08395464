package http2

import "github.com/nabbar/gowsgi/request"

// appendStreamBody accumulates one DATA frame's payload for a stream
// whose request headers have already been decoded. HTTP/2 bodies are
// kept in memory; this server's H2 surface targets API/control-plane
// traffic rather than large uploads (the HTTP/1.1 path is where the
// post_buffering spill threshold lives).
func appendStreamBody(s *Stream, chunk []byte) {
	s.bodyBuf = append(s.bodyBuf, chunk...)
}

// finishStreamBody seals the accumulated body into the Request once
// END_STREAM has been observed; handleData then dispatches to the held
// handler if the header block completed before the body did.
func finishStreamBody(s *Stream) {
	if s.Request == nil {
		return
	}
	if s.bodyBuf == nil {
		s.Request.Body = request.NewEmptyBody()
	} else {
		s.Request.Body = request.NewMemoryBody(s.bodyBuf)
	}
}
